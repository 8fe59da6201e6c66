package types

// Button identifies the logical pointer button of an event
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// PointerKind is the phase of a pointer gesture
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is a pointer event in the host widget's local coordinates.
// For PointerMove, Button carries the button held during the motion.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   int
	Button Button
}

// Point returns the event position as a display-space point
func (e PointerEvent) Point() DisplayPoint {
	return DisplayPoint{X: e.X, Y: e.Y}
}
