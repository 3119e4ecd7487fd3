package core

// Action is a logical input action. The core never sees physical key
// codes, only these identifiers.
type Action string

const (
	ActionAccelerate  Action = "accelerate"
	ActionBrake       Action = "brake"
	ActionTurnLeft    Action = "turnLeft"
	ActionTurnRight   Action = "turnRight"
	ActionPause       Action = "pause"
	ActionConfirm     Action = "confirm"
	ActionExit        Action = "exit"
	ActionCameraCycle Action = "cameraCycle"
)

// InputSnapshot is the pressed set read once per tick.
type InputSnapshot map[Action]bool

// Pressed reports whether the action was held when the snapshot was
// taken.
func (s InputSnapshot) Pressed(a Action) bool {
	return s[a]
}
