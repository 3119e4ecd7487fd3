package track

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/openkart/kartcore/pkg/core"
)

// Loader reads track layout JSON files from a directory.
type Loader struct {
	dir string
	log zerolog.Logger
}

// NewLoader creates a loader over the given tracks directory.
func NewLoader(dir string, log zerolog.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load reads and validates the layout for the given track id
// (file <dir>/<id>.json).
func (l *Loader) Load(id string) (*core.Track, error) {
	path := filepath.Join(l.dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading track %s: %w", id, err)
	}

	var t core.Track
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error parsing track %s: %w", id, err)
	}
	if t.ID == "" {
		t.ID = id
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}

	l.log.Debug().Str("track", t.ID).
		Int("obstacles", len(t.Obstacles)).
		Int("checkpoints", len(t.Checkpoints)).
		Msg("Track loaded")
	return &t, nil
}

// Result is the completion signal of an asynchronous load.
type Result struct {
	Track *core.Track
	Err   error
}

// LoadAsync starts loading in the background and delivers exactly one
// Result on the returned channel. The caller polls it without
// blocking; the tick loop no-ops until the world is ready.
func (l *Loader) LoadAsync(id string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		t, err := l.Load(id)
		ch <- Result{Track: t, Err: err}
	}()
	return ch
}
