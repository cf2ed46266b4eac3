package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2(t *testing.T) {
	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", V(1, 2).Add(V(3, 4)), V(4, 6)},
		{"sub", V(1, 2).Sub(V(3, 4)), V(-2, -2)},
		{"scale", V(1, -2).Scale(10), V(10, -20)},
		{"normalize", V(3, 4).Normalize(), V(0.6, 0.8)},
		{"normalize_zero", V(0, 0).Normalize(), V(0, 0)},
		{"rotate_quarter", V(1, 0).Rotate(math.Pi / 2), V(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want.X, tt.got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, tt.got.Y, 1e-9)
		})
	}
}

func TestRectInsetContains(t *testing.T) {
	r := Rect{W: 640, H: 360}.Inset(50)
	assert.Equal(t, Rect{X: 50, Y: 50, W: 540, H: 260}, r)
	assert.True(t, r.Contains(V(50, 50)))
	assert.False(t, r.Contains(V(49, 100)))
	assert.False(t, r.Contains(V(590, 100)))
	assert.True(t, Rect{W: 10, H: 0}.Empty())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}
