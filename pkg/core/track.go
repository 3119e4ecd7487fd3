package core

// Obstacle is a static collider. Immutable once the track is loaded.
type Obstacle struct {
	Box Box `json:"box"`
}

// Checkpoint is an ordered gate volume. Index is its ordinal within
// the track's checkpoint sequence; the last checkpoint is the finish
// line.
type Checkpoint struct {
	Box   Box `json:"box"`
	Index int `json:"index"`
}

// Track is a loaded track layout: spawn pose, static obstacle set and
// ordered checkpoint sequence. Read-only after load.
type Track struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Spawn       Pose         `json:"spawn"`
	Obstacles   []Obstacle   `json:"obstacles"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}
