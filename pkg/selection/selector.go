// Package selection implements the drag-driven region selector.
//
// A Selector turns a press / move / release gesture in display space into a
// crop rectangle in source space:
//
//	Idle --Enable--> Armed --Press--> Dragging --Release--> Idle (committed)
//	                   ^                  |
//	                   +----- rejected ---+
//
// Disable returns to Idle from any state and drops an in-progress drag.
package selection

import (
	"github.com/menta2k/image-zoomer/pkg/types"
	"github.com/menta2k/image-zoomer/pkg/viewport"
)

// DefaultMinSize is the smallest accepted drag, in display pixels, on each axis
const DefaultMinSize = 10

// State of the selector
type State int

const (
	Idle State = iota
	Armed
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Config holds configuration for the selector
type Config struct {
	MinSize int
}

// Session is the ephemeral state of one drag
type Session struct {
	Active  bool
	Anchor  types.DisplayPoint
	Current types.DisplayPoint
}

// Selector is the region selection state machine. It is not safe for
// concurrent use; events of one gesture must arrive in order.
type Selector struct {
	config  Config
	mapper  *viewport.Mapper
	state   State
	session Session
}

// New creates a Selector with default configuration
func New() *Selector {
	return &Selector{config: Config{MinSize: DefaultMinSize}}
}

// NewWithConfig creates a Selector with custom configuration
func NewWithConfig(config Config) *Selector {
	if config.MinSize < 1 {
		config.MinSize = DefaultMinSize
	}
	return &Selector{config: config}
}

// SetMapper attaches the placement of the current image. A nil mapper means
// no image is loaded. Any armed selection is dropped.
func (s *Selector) SetMapper(m *viewport.Mapper) {
	s.mapper = m
	s.reset()
}

// Mapper returns the attached mapper, or nil
func (s *Selector) Mapper() *viewport.Mapper {
	return s.mapper
}

// State returns the current state
func (s *Selector) State() State {
	return s.state
}

// Session returns a copy of the current drag session
func (s *Selector) Session() Session {
	return s.session
}

// Enable arms the selector. Without an image it reports Rejected(NoImage)
// and stays Idle. Enabling an armed or dragging selector changes nothing.
func (s *Selector) Enable() Outcome {
	if s.mapper == nil {
		return rejected(NoImage)
	}
	if s.state == Idle {
		s.state = Armed
	}
	return Outcome{}
}

// Toggle flips between Idle and Armed, as a menu action would
func (s *Selector) Toggle() Outcome {
	if s.state != Idle {
		s.Disable()
		return Outcome{}
	}
	return s.Enable()
}

// Disable returns to Idle, discarding an in-progress drag without committing
func (s *Selector) Disable() {
	s.reset()
}

// Press starts a drag at p. It is ignored unless the selector is Armed.
func (s *Selector) Press(p types.DisplayPoint) bool {
	if s.state != Armed {
		return false
	}
	s.state = Dragging
	s.session = Session{Active: true, Anchor: p, Current: p}
	return true
}

// Move updates the live rectangle while dragging
func (s *Selector) Move(p types.DisplayPoint) (types.DisplayRect, bool) {
	if s.state != Dragging {
		return types.DisplayRect{}, false
	}
	s.session.Current = p
	return types.Normalize(s.session.Anchor, p), true
}

// Live returns the rectangle to draw as selection feedback. It is visible
// only while dragging.
func (s *Selector) Live() (types.DisplayRect, bool) {
	if s.state != Dragging {
		return types.DisplayRect{}, false
	}
	return types.Normalize(s.session.Anchor, s.session.Current), true
}

// Release finishes the drag at p and validates the rectangle. A rejected
// selection leaves the selector Armed so the user can retry; a committed one
// returns it to Idle.
func (s *Selector) Release(p types.DisplayPoint) Outcome {
	if s.state != Dragging {
		return Outcome{}
	}
	s.session.Current = p
	rect := types.Normalize(s.session.Anchor, p)
	s.session = Session{}

	if rect.W < s.config.MinSize || rect.H < s.config.MinSize {
		s.state = Armed
		return rejected(TooSmall).withDisplay(rect)
	}
	src, ok := s.mapper.ToSourceRect(rect)
	if !ok {
		s.state = Armed
		return rejected(OutsideImage).withDisplay(rect)
	}

	s.state = Idle
	return Outcome{Status: Committed, Rect: src, Display: rect}
}

// HandlePointer routes a left-button pointer event to Press, Move or Release.
// Other buttons are ignored.
func (s *Selector) HandlePointer(ev types.PointerEvent) Outcome {
	if ev.Button != types.ButtonLeft {
		return Outcome{}
	}
	switch ev.Kind {
	case types.PointerDown:
		s.Press(ev.Point())
	case types.PointerMove:
		s.Move(ev.Point())
	case types.PointerUp:
		return s.Release(ev.Point())
	}
	return Outcome{}
}

func (s *Selector) reset() {
	s.state = Idle
	s.session = Session{}
}
