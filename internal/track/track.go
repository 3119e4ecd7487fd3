package track

import (
	"errors"
	"fmt"

	"github.com/openkart/kartcore/pkg/core"
)

// ErrNoCheckpoints marks a track layout with an empty checkpoint
// sequence. This is a fatal configuration error surfaced at load time.
var ErrNoCheckpoints = errors.New("track has no checkpoints")

// Validate checks a loaded layout for the inconsistencies that would
// make a race undefined.
func Validate(t *core.Track) error {
	if t.ID == "" {
		return fmt.Errorf("track %q: missing id", t.Name)
	}
	if len(t.Checkpoints) == 0 {
		return fmt.Errorf("track %q: %w", t.ID, ErrNoCheckpoints)
	}
	for i := range t.Checkpoints {
		// ordinals are assigned from file order, not trusted from the file
		t.Checkpoints[i].Index = i
	}
	return nil
}
