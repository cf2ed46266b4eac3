package input

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptSource replays one batch of events per Update.
type scriptSource struct {
	frames [][]Event
	cursor []common.Vec2
	axes   map[int][]float64
	n      int
}

func (s *scriptSource) AppendEvents(events []Event) []Event {
	defer func() { s.n++ }()
	if s.n < len(s.frames) {
		return append(events, s.frames[s.n]...)
	}
	return events
}

func (s *scriptSource) Cursor() common.Vec2 {
	if len(s.cursor) == 0 {
		return common.Vec2{}
	}
	i := s.n - 1
	if i >= len(s.cursor) {
		i = len(s.cursor) - 1
	}
	if i < 0 {
		i = 0
	}
	return s.cursor[i]
}

func (s *scriptSource) Axes(device int) []float64 {
	return s.axes[device]
}

func down(k ebiten.Key) Event { return Event{Kind: KeyDown, Key: k} }
func up(k ebiten.Key) Event   { return Event{Kind: KeyUp, Key: k} }

func TestKeyTransitionsLastOneUpdate(t *testing.T) {
	src := &scriptSource{frames: [][]Event{
		nil,
		{down(ebiten.KeySpace)},
		nil,
		nil,
		{up(ebiten.KeySpace)},
		nil,
		nil,
	}}
	s := NewState(src)

	type want struct{ held, pressed, released bool }
	expected := []want{
		{false, false, false},
		{true, true, false},
		{true, false, false},
		{true, false, false},
		{false, false, true},
		{false, false, false},
		{false, false, false},
	}
	for i, w := range expected {
		s.Update()
		assert.Equal(t, w.held, s.Held(ebiten.KeySpace), "held at update %d", i)
		assert.Equal(t, w.pressed, s.Pressed(ebiten.KeySpace), "pressed at update %d", i)
		assert.Equal(t, w.released, s.Released(ebiten.KeySpace), "released at update %d", i)
	}
}

func TestTapWithinOneFrame(t *testing.T) {
	src := &scriptSource{frames: [][]Event{{down(ebiten.KeyA), up(ebiten.KeyA)}, nil}}
	s := NewState(src)

	s.Update()
	assert.True(t, s.Pressed(ebiten.KeyA))
	assert.True(t, s.Released(ebiten.KeyA))
	assert.False(t, s.Held(ebiten.KeyA))

	s.Update()
	assert.False(t, s.Pressed(ebiten.KeyA))
	assert.False(t, s.Released(ebiten.KeyA))
}

func TestMouseButtonsAndWheel(t *testing.T) {
	src := &scriptSource{frames: [][]Event{
		{{Kind: ButtonDown, Button: ButtonLeft}, {Kind: ButtonDown, Button: ButtonWheelUp}},
		{{Kind: ButtonDown, Button: ButtonWheelDown}},
		{{Kind: ButtonUp, Button: ButtonLeft}},
	}}
	s := NewState(src)

	s.Update()
	assert.True(t, s.MousePressed(ButtonLeft))
	assert.True(t, s.MouseHeld(ButtonLeft))
	assert.True(t, s.WheelUp())
	assert.False(t, s.WheelDown())

	s.Update()
	assert.False(t, s.MousePressed(ButtonLeft))
	assert.True(t, s.MouseHeld(ButtonLeft))
	assert.False(t, s.WheelUp())
	assert.True(t, s.WheelDown())
	assert.False(t, s.MouseHeld(ButtonWheelDown))

	s.Update()
	assert.True(t, s.MouseReleased(ButtonLeft))
	assert.False(t, s.MouseHeld(ButtonLeft))
	assert.False(t, s.WheelDown())
}

func TestMouseDelta(t *testing.T) {
	src := &scriptSource{
		frames: make([][]Event, 3),
		cursor: []common.Vec2{{X: 10, Y: 10}, {X: 15, Y: 7}, {X: 15, Y: 7}},
	}
	s := NewState(src)

	s.Update()
	assert.Equal(t, common.Vec2{}, s.MouseDelta())
	s.Update()
	assert.Equal(t, common.Vec2{X: 15, Y: 7}, s.Mouse())
	assert.Equal(t, common.Vec2{X: 5, Y: -3}, s.MouseDelta())
	s.Update()
	assert.Equal(t, common.Vec2{}, s.MouseDelta())
}

func TestStickDeadzone(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		zero    bool
		unitLen bool
	}{
		{"rest", 0, 0, true, false},
		{"drift", 0.05, 0.05, true, false},
		{"just_below", 0.0999, 0, true, false},
		{"half", 0.5, 0, false, false},
		{"diagonal_overshoot", 1, 1, false, true},
		{"overshoot", -1.4, 0.2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptSource{axes: map[int][]float64{0: {tt.x, tt.y, 0, 0}}}
			s := NewState(src)
			v := s.Stick(0, 0)
			switch {
			case tt.zero:
				assert.Equal(t, common.Vec2{}, v)
			case tt.unitLen:
				assert.InDelta(t, 1.0, v.Len(), 1e-9)
				assert.InDelta(t, math.Atan2(tt.y, tt.x), math.Atan2(v.Y, v.X), 1e-9)
			default:
				assert.Equal(t, common.Vec2{X: tt.x, Y: tt.y}, v)
			}
		})
	}
}

func TestStickMissingDevice(t *testing.T) {
	s := NewState(&scriptSource{axes: map[int][]float64{0: {0.5, 0.5}}})
	assert.Equal(t, common.Vec2{}, s.Stick(0, 1))
	assert.Equal(t, common.Vec2{}, s.Stick(1, 0))
	assert.Equal(t, common.Vec2{X: 0.5, Y: 0.5}, s.StickRaw(0, 0))
}

func TestNamedKeys(t *testing.T) {
	s := NewState(&scriptSource{frames: [][]Event{{down(ebiten.KeyShiftLeft)}}})
	s.Update()

	held, err := s.KeyHeld("LShift")
	require.NoError(t, err)
	assert.True(t, held)

	_, err = s.KeyPressed("lshfit")
	assert.ErrorIs(t, err, ErrUnknownKey)

	assert.Panics(t, func() { MustKey("nope") })
	assert.Equal(t, ebiten.KeyF1, MustKey("f1"))

	b, err := ParseButton("WheelUp")
	require.NoError(t, err)
	assert.Equal(t, ButtonWheelUp, b)
	_, err = ParseButton("thumb")
	assert.ErrorIs(t, err, ErrUnknownButton)
}

func TestKeyNamesClosed(t *testing.T) {
	names := KeyNames()
	require.NotEmpty(t, names)
	seen := make(map[ebiten.Key]string, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		require.NoError(t, err)
		if prev, ok := seen[k]; ok {
			t.Fatalf("%q and %q map to the same key", prev, name)
		}
		seen[k] = name
	}
}
