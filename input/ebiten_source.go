package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/waterjam/common"
)

var mouseButtons = [...]struct {
	ebiten ebiten.MouseButton
	button Button
}{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
	{ebiten.MouseButtonRight, ButtonRight},
}

// EbitenSource reads input through ebiten. It must be polled from Update.
type EbitenSource struct {
	keys     []ebiten.Key
	gamepads []ebiten.GamepadID
	axes     []float64
}

func NewEbitenSource() *EbitenSource {
	return &EbitenSource{}
}

func (s *EbitenSource) AppendEvents(events []Event) []Event {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		events = append(events, Event{Kind: KeyDown, Key: k})
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		events = append(events, Event{Kind: KeyUp, Key: k})
	}

	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.ebiten) {
			events = append(events, Event{Kind: ButtonDown, Button: mb.button})
		}
		if inpututil.IsMouseButtonJustReleased(mb.ebiten) {
			events = append(events, Event{Kind: ButtonUp, Button: mb.button})
		}
	}

	_, wy := ebiten.Wheel()
	switch {
	case wy > 0:
		events = append(events, Event{Kind: ButtonDown, Button: ButtonWheelUp})
	case wy < 0:
		events = append(events, Event{Kind: ButtonDown, Button: ButtonWheelDown})
	}
	return events
}

func (s *EbitenSource) Cursor() common.Vec2 {
	x, y := ebiten.CursorPosition()
	return common.Vec2{X: float64(x), Y: float64(y)}
}

func (s *EbitenSource) Axes(device int) []float64 {
	s.gamepads = ebiten.AppendGamepadIDs(s.gamepads[:0])
	if device < 0 || device >= len(s.gamepads) {
		return nil
	}
	id := s.gamepads[device]

	s.axes = s.axes[:0]
	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		for a := ebiten.StandardGamepadAxis(0); a <= ebiten.StandardGamepadAxisMax; a++ {
			s.axes = append(s.axes, ebiten.StandardGamepadAxisValue(id, a))
		}
		return s.axes
	}
	for a := 0; a < ebiten.GamepadAxisCount(id); a++ {
		s.axes = append(s.axes, ebiten.GamepadAxisValue(id, a))
	}
	return s.axes
}
