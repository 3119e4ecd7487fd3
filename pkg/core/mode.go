package core

// GameMode is the state of the game-mode machine. Exactly one mode is
// active at a time.
type GameMode int

const (
	ModeMenu GameMode = iota
	ModeCountdown
	ModeRacing
	ModePaused
)

func (m GameMode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeCountdown:
		return "countdown"
	case ModeRacing:
		return "racing"
	case ModePaused:
		return "paused"
	default:
		return "unknown"
	}
}
