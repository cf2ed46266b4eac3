package transition

import (
	"errors"
	"fmt"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var (
	ErrInvalidDuration = errors.New("transition: duration must be positive")
	ErrNoTarget        = errors.New("transition: empty target scene")
)

type Phase uint8

const (
	// Idle means no transition is running.
	Idle Phase = iota
	// FadeOut runs until the midpoint; the outgoing scene is still active.
	FadeOut
	// FadeIn runs from the midpoint to the end; the target scene is active.
	FadeIn
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case FadeOut:
		return "fade-out"
	case FadeIn:
		return "fade-in"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Machine crossfades between two scenes over a wall-clock duration. The
// scene swap is reported exactly once, at the midpoint. A new Request while
// running replaces the current transition.
type Machine struct {
	phase    Phase
	target   string
	start    time.Time
	duration time.Duration

	fadeOut *gween.Tween
	fadeIn  *gween.Tween
}

func NewMachine() *Machine {
	return &Machine{
		fadeOut: gween.New(0, 1, 0.5, ease.Linear),
		fadeIn:  gween.New(1, 0, 0.5, ease.Linear),
	}
}

// Request starts a transition to target at now.
func (m *Machine) Request(target string, d time.Duration, now time.Time) error {
	if target == "" {
		return ErrNoTarget
	}
	if d <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDuration, d)
	}
	m.phase = FadeOut
	m.target = target
	m.start = now
	m.duration = d
	return nil
}

// Progress is the elapsed fraction of the running transition, not clamped.
func (m *Machine) Progress(now time.Time) float64 {
	if m.phase == Idle {
		return 0
	}
	return float64(now.Sub(m.start)) / float64(m.duration)
}

// Advance moves the machine to now. When the midpoint has been crossed for
// the first time it returns the target scene and true.
func (m *Machine) Advance(now time.Time) (string, bool) {
	if m.phase == Idle {
		return "", false
	}
	t := m.Progress(now)

	swapped := false
	if t >= 0.5 && m.phase == FadeOut {
		m.phase = FadeIn
		swapped = true
	}
	target := m.target
	if t >= 1 {
		m.phase = Idle
		m.target = ""
	}
	if !swapped {
		return "", false
	}
	return target, true
}

// Alpha is the fade overlay opacity: a triangle wave rising to 1 at the
// midpoint and back to 0 at the end.
func (m *Machine) Alpha(now time.Time) float64 {
	if m.phase == Idle {
		return 0
	}
	t := float32(m.Progress(now))
	switch {
	case t < 0:
		return 0
	case t < 0.5:
		v, _ := m.fadeOut.Set(t)
		return float64(v)
	case t < 1:
		v, _ := m.fadeIn.Set(t - 0.5)
		return float64(v)
	}
	return 0
}

// Phase is the state of the machine at now, derived from the clock so that
// it reads Idle from the end of the fade on whether or not Advance ran.
func (m *Machine) Phase(now time.Time) Phase {
	if m.phase == Idle {
		return Idle
	}
	switch t := m.Progress(now); {
	case t >= 1:
		return Idle
	case t >= 0.5:
		return FadeIn
	}
	return FadeOut
}

func (m *Machine) Active(now time.Time) bool { return m.Phase(now) != Idle }

// Target is the scene being transitioned to, or "" when idle.
func (m *Machine) Target() string { return m.target }
