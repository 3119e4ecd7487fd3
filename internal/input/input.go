package input

import (
	"sync"

	"github.com/openkart/kartcore/pkg/core"
)

// State is the shared pressed/released action set. The input
// collaborator mutates it asynchronously; the tick reads one snapshot
// at a single well-defined point, so the simulation never observes a
// half-updated frame of input.
type State struct {
	m       sync.Mutex
	pressed map[core.Action]bool
}

func NewState() *State {
	return &State{
		pressed: make(map[core.Action]bool),
	}
}

// Set records an action as pressed or released.
func (s *State) Set(a core.Action, down bool) {
	s.m.Lock()
	defer s.m.Unlock()
	if down {
		s.pressed[a] = true
	} else {
		delete(s.pressed, a)
	}
}

// Press marks actions as held.
func (s *State) Press(actions ...core.Action) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, a := range actions {
		s.pressed[a] = true
	}
}

// Release marks actions as no longer held.
func (s *State) Release(actions ...core.Action) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, a := range actions {
		delete(s.pressed, a)
	}
}

// Reset releases everything.
func (s *State) Reset() {
	s.m.Lock()
	defer s.m.Unlock()
	s.pressed = make(map[core.Action]bool)
}

// Snapshot returns a copy of the currently held actions.
func (s *State) Snapshot() core.InputSnapshot {
	s.m.Lock()
	defer s.m.Unlock()
	snap := make(core.InputSnapshot, len(s.pressed))
	for a := range s.pressed {
		snap[a] = true
	}
	return snap
}
