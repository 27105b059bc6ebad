package input

// Kind is the phase of a pointer gesture.
type Kind int

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Event is a pointer event in display units, independent of whether a mouse,
// pen or finger produced it.
type Event struct {
	X, Y float64
	Kind Kind
}

// PointerEvent wraps a mouse or pen position.
func PointerEvent(x, y float64, kind Kind) Event {
	return Event{X: x, Y: y, Kind: kind}
}

// TouchPoint is one active contact.
type TouchPoint struct {
	X, Y float64
}

// TouchEvent normalizes a touch update. Only the first contact is used;
// extra fingers are ignored. A release needs no contacts. ok is false when a
// press or move carries no contact at all.
func TouchEvent(touches []TouchPoint, kind Kind) (Event, bool) {
	if kind == Release {
		return Event{Kind: Release}, true
	}
	if len(touches) == 0 {
		return Event{}, false
	}
	return Event{X: touches[0].X, Y: touches[0].Y, Kind: kind}, true
}
