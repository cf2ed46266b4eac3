package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration, frac float64) time.Time {
	return t0.Add(time.Duration(float64(d) * frac))
}

func TestSwapOnceAtMidpoint(t *testing.T) {
	for _, d := range []time.Duration{time.Millisecond, 1500 * time.Millisecond, 10 * time.Second} {
		t.Run(d.String(), func(t *testing.T) {
			m := NewMachine()
			require.NoError(t, m.Request("game", d, t0))

			for _, f := range []float64{0, 0.1, 0.3, 0.49} {
				_, swapped := m.Advance(at(d, f))
				assert.False(t, swapped, "swapped early at %v", f)
				assert.Equal(t, FadeOut, m.Phase(at(d, f)))
			}

			target, swapped := m.Advance(at(d, 0.51))
			assert.True(t, swapped)
			assert.Equal(t, "game", target)
			assert.Equal(t, FadeIn, m.Phase(at(d, 0.51)))

			for _, f := range []float64{0.6, 0.9, 0.99} {
				_, swapped := m.Advance(at(d, f))
				assert.False(t, swapped, "swapped twice at %v", f)
			}

			_, swapped = m.Advance(at(d, 1))
			assert.False(t, swapped)
			assert.Equal(t, Idle, m.Phase(at(d, 1)))
			assert.False(t, m.Active(at(d, 1)))
			assert.Empty(t, m.Target())

			_, swapped = m.Advance(at(d, 3))
			assert.False(t, swapped)
		})
	}
}

func TestLongFrameStillSwaps(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Request("menu", time.Second, t0))

	target, swapped := m.Advance(t0.Add(5 * time.Second))
	assert.True(t, swapped)
	assert.Equal(t, "menu", target)
	assert.Equal(t, Idle, m.Phase(t0.Add(5*time.Second)))
}

func TestAlphaTriangle(t *testing.T) {
	d := 2 * time.Second
	m := NewMachine()
	assert.Zero(t, m.Alpha(t0))
	require.NoError(t, m.Request("game", d, t0))

	tests := []struct {
		frac float64
		want float64
	}{
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.5},
		{0.999, 0.002},
		{1, 0},
		{1.5, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.Alpha(at(d, tt.frac)), 1e-4, "alpha at %v", tt.frac)
	}
}

func TestRequestOverwrites(t *testing.T) {
	d := time.Second
	m := NewMachine()
	require.NoError(t, m.Request("a", d, t0))
	_, swapped := m.Advance(at(d, 0.6))
	require.True(t, swapped)

	// A second request restarts the fade and swaps again at its own midpoint.
	restart := at(d, 0.7)
	require.NoError(t, m.Request("b", d, restart))
	assert.Equal(t, FadeOut, m.Phase(restart))
	assert.Equal(t, "b", m.Target())

	_, swapped = m.Advance(restart.Add(400 * time.Millisecond))
	assert.False(t, swapped)
	target, swapped := m.Advance(restart.Add(600 * time.Millisecond))
	assert.True(t, swapped)
	assert.Equal(t, "b", target)
}

func TestRequestValidation(t *testing.T) {
	m := NewMachine()
	assert.ErrorIs(t, m.Request("game", 0, t0), ErrInvalidDuration)
	assert.ErrorIs(t, m.Request("game", -time.Second, t0), ErrInvalidDuration)
	assert.ErrorIs(t, m.Request("", time.Second, t0), ErrNoTarget)
	assert.Equal(t, Idle, m.Phase(t0))
}

func TestPhaseFollowsClockWithoutAdvance(t *testing.T) {
	d := 2 * time.Second
	m := NewMachine()
	require.NoError(t, m.Request("game", d, t0))

	tests := []struct {
		frac   float64
		want   Phase
		active bool
	}{
		{0, FadeOut, true},
		{0.49, FadeOut, true},
		{0.51, FadeIn, true},
		{0.99, FadeIn, true},
		{1, Idle, false},
		{4, Idle, false},
	}
	for _, tt := range tests {
		now := at(d, tt.frac)
		assert.Equal(t, tt.want, m.Phase(now), "phase at %v", tt.frac)
		assert.Equal(t, tt.active, m.Active(now), "active at %v", tt.frac)
	}
}

func TestPhaseIdleAfterEndPastMidpoint(t *testing.T) {
	d := time.Second
	m := NewMachine()
	require.NoError(t, m.Request("b", d, t0))
	_, swapped := m.Advance(at(d, 0.51))
	require.True(t, swapped)

	end := at(d, 1)
	assert.Equal(t, Idle, m.Phase(end))
	assert.False(t, m.Active(end))
	assert.Zero(t, m.Alpha(end))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "fade-in", FadeIn.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
