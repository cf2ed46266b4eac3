package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/common"
)

// DefaultDeadzone is the stick magnitude below which a stick reads as zero.
const DefaultDeadzone = 0.1

type EventKind uint8

const (
	KeyDown EventKind = iota + 1
	KeyUp
	ButtonDown
	ButtonUp
)

// Event is one queued platform input transition.
type Event struct {
	Kind   EventKind
	Key    ebiten.Key
	Button Button
}

// Source produces the platform input of one frame.
type Source interface {
	// AppendEvents appends the transitions queued since the previous call.
	AppendEvents(events []Event) []Event
	Cursor() common.Vec2
	// Axes returns the raw axis values of a controller, or nil when it is absent.
	Axes(device int) []float64
}

type flags struct {
	held, pressed, released bool
}

// State is the per-frame input snapshot. Pressed and released flags are
// true only for the Update in which the transition was consumed.
type State struct {
	src      Source
	keys     map[ebiten.Key]*flags
	buttons  [buttonCount]flags
	events   []Event
	mouse    common.Vec2
	delta    common.Vec2
	primed   bool
	Deadzone float64
}

func NewState(src Source) *State {
	return &State{
		src:      src,
		keys:     make(map[ebiten.Key]*flags),
		Deadzone: DefaultDeadzone,
	}
}

// Update consumes the queued events once and rebuilds the transient flags.
func (s *State) Update() {
	if s == nil || s.src == nil {
		return
	}

	for _, f := range s.keys {
		f.pressed = false
		f.released = false
	}
	for i := range s.buttons {
		s.buttons[i].pressed = false
		s.buttons[i].released = false
	}

	s.events = s.src.AppendEvents(s.events[:0])
	for _, ev := range s.events {
		switch ev.Kind {
		case KeyDown:
			f := s.key(ev.Key)
			f.held = true
			f.pressed = true
		case KeyUp:
			f := s.key(ev.Key)
			f.held = false
			f.released = true
		case ButtonDown:
			if ev.Button >= 0 && ev.Button < buttonCount {
				s.buttons[ev.Button].held = true
				s.buttons[ev.Button].pressed = true
			}
		case ButtonUp:
			if ev.Button >= 0 && ev.Button < buttonCount {
				s.buttons[ev.Button].held = false
				s.buttons[ev.Button].released = true
			}
		}
	}

	// Wheel notches have no release event, so they never stay held.
	s.buttons[ButtonWheelUp].held = false
	s.buttons[ButtonWheelDown].held = false

	cur := s.src.Cursor()
	if s.primed {
		s.delta = cur.Sub(s.mouse)
	}
	s.mouse = cur
	s.primed = true
}

func (s *State) key(k ebiten.Key) *flags {
	f, ok := s.keys[k]
	if !ok {
		f = &flags{}
		s.keys[k] = f
	}
	return f
}

func (s *State) flagsFor(k ebiten.Key) flags {
	if s == nil {
		return flags{}
	}
	if f, ok := s.keys[k]; ok {
		return *f
	}
	return flags{}
}

func (s *State) Held(k ebiten.Key) bool { return s.flagsFor(k).held }

func (s *State) Pressed(k ebiten.Key) bool { return s.flagsFor(k).pressed }

func (s *State) Released(k ebiten.Key) bool { return s.flagsFor(k).released }

// KeyHeld looks a key up by name; unknown names are an error.
func (s *State) KeyHeld(name string) (bool, error) {
	k, err := ParseKey(name)
	if err != nil {
		return false, err
	}
	return s.Held(k), nil
}

func (s *State) KeyPressed(name string) (bool, error) {
	k, err := ParseKey(name)
	if err != nil {
		return false, err
	}
	return s.Pressed(k), nil
}

func (s *State) KeyReleased(name string) (bool, error) {
	k, err := ParseKey(name)
	if err != nil {
		return false, err
	}
	return s.Released(k), nil
}

func (s *State) button(b Button) flags {
	if s == nil || b < 0 || b >= buttonCount {
		return flags{}
	}
	return s.buttons[b]
}

func (s *State) MouseHeld(b Button) bool { return s.button(b).held }

func (s *State) MousePressed(b Button) bool { return s.button(b).pressed }

func (s *State) MouseReleased(b Button) bool { return s.button(b).released }

func (s *State) WheelUp() bool { return s.button(ButtonWheelUp).pressed }

func (s *State) WheelDown() bool { return s.button(ButtonWheelDown).pressed }

// Mouse is the cursor position in render-space pixels.
func (s *State) Mouse() common.Vec2 {
	if s == nil {
		return common.Vec2{}
	}
	return s.mouse
}

// MouseDelta is the cursor movement since the previous Update.
func (s *State) MouseDelta() common.Vec2 {
	if s == nil {
		return common.Vec2{}
	}
	return s.delta
}

// StickRaw returns axes 2*index and 2*index+1 of a controller.
func (s *State) StickRaw(index, device int) common.Vec2 {
	if s == nil || s.src == nil || index < 0 {
		return common.Vec2{}
	}
	axes := s.src.Axes(device)
	if 2*index+1 >= len(axes) {
		return common.Vec2{}
	}
	return common.Vec2{X: axes[2*index], Y: axes[2*index+1]}
}

// Stick returns the stick vector clamped to the unit circle, or zero inside
// the deadzone.
func (s *State) Stick(index, device int) common.Vec2 {
	return ApplyDeadzone(s.StickRaw(index, device), s.deadzone())
}

func (s *State) deadzone() float64 {
	if s == nil {
		return DefaultDeadzone
	}
	return s.Deadzone
}

func ApplyDeadzone(v common.Vec2, deadzone float64) common.Vec2 {
	l := v.LenSq()
	if l < deadzone*deadzone {
		return common.Vec2{}
	}
	if l > 1 {
		return v.Normalize()
	}
	return v
}
