package scene

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterjam/common"
	"github.com/milk9111/waterjam/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	log *[]string
	tag string
}

func (r recorder) Draw(_ *ebiten.Image, _ *Entity, _ common.Vec2) {
	*r.log = append(*r.log, r.tag)
}

type spawner struct {
	spawned *Entity
}

func (s *spawner) Update(e *Entity, _ *Frame) {
	if s.spawned == nil {
		s.spawned = e.Scene().AddEntity(&Entity{Tags: []string{"child"}})
	}
}

func TestUpdateVisitsInOrder(t *testing.T) {
	s := New("test", Hooks{})
	var seen []string
	for _, name := range []string{"a", "b", "c"} {
		s.AddEntity(&Entity{Behavior: UpdateFunc(func(*Entity, *Frame) {
			seen = append(seen, name)
		})})
	}

	require.NoError(t, s.Update(&Frame{}))
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestKillDuringUpdate(t *testing.T) {
	s := New("test", Hooks{})
	var seen []int
	var victim *Entity
	s.AddEntity(&Entity{Behavior: UpdateFunc(func(*Entity, *Frame) {
		seen = append(seen, 0)
		victim.Kill()
	})})
	victim = s.AddEntity(&Entity{Behavior: UpdateFunc(func(*Entity, *Frame) {
		seen = append(seen, 1)
	})})

	require.NoError(t, s.Update(&Frame{}))
	assert.Equal(t, []int{0}, seen)
	assert.False(t, victim.Alive())
	assert.Equal(t, 1, s.Len())
}

func TestAddDuringUpdateRunsNextFrame(t *testing.T) {
	s := New("test", Hooks{})
	sp := &spawner{}
	s.AddEntity(&Entity{Behavior: sp})

	require.NoError(t, s.Update(&Frame{}))
	require.NotNil(t, sp.spawned)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Tagged("child"), 1)
}

func TestRenderOrderByZ(t *testing.T) {
	var log []string
	s := New("test", Hooks{
		RenderBefore: func(*Scene, *Frame) error { log = append(log, "before"); return nil },
		RenderAfter:  func(*Scene, *Frame) error { log = append(log, "after"); return nil },
	})
	s.AddEntity(&Entity{Z: 2, Visual: recorder{&log, "z2"}})
	s.AddEntity(&Entity{Z: 0, Visual: recorder{&log, "z0-first"}})
	s.AddEntity(&Entity{Z: 1, Visual: recorder{&log, "z1"}})
	s.AddEntity(&Entity{Z: 0, Visual: recorder{&log, "z0-second"}})

	require.NoError(t, s.Render(&Frame{}))
	assert.Equal(t, []string{"before", "z0-first", "z0-second", "z1", "z2", "after"}, log)
}

func TestHookErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	s := New("test", Hooks{
		Update:       func(*Scene, *Frame) error { return boom },
		RenderBefore: func(*Scene, *Frame) error { return boom },
	})
	assert.ErrorIs(t, s.Update(&Frame{}), boom)
	assert.ErrorIs(t, s.Render(&Frame{}), boom)
}

func TestTaggedViewTracksKill(t *testing.T) {
	s := New("test", Hooks{})
	a := s.AddEntity(&Entity{Tags: []string{"particle"}})
	b := s.AddEntity(&Entity{Tags: []string{"particle", "wall"}})
	s.AddEntity(&Entity{Tags: []string{"wall"}})

	assert.Equal(t, []*Entity{a, b}, s.Tagged("particle"))
	assert.True(t, s.Kill(a))
	assert.False(t, s.Kill(a))
	assert.Equal(t, []*Entity{b}, s.Tagged("particle"))
	assert.Len(t, s.Tagged("wall"), 2)
}

func TestAddEntityTwicePanics(t *testing.T) {
	s := New("a", Hooks{})
	other := New("b", Hooks{})
	e := s.AddEntity(&Entity{})
	assert.Panics(t, func() { other.AddEntity(e) })
	assert.False(t, other.Kill(e))
}

func TestSpawnBodyNeedsPhysics(t *testing.T) {
	s := New("test", Hooks{})
	_, err := s.SpawnBody(physics.BodyDef{Shape: physics.Circle(1)}, nil)
	assert.ErrorIs(t, err, ErrNoPhysics)
}

func TestDespawnOutsideBounds(t *testing.T) {
	s := New("test", Hooks{})
	cfg := physics.DefaultConfig()
	cfg.Gravity = common.Vec2{}
	w := s.EnablePhysics(cfg)
	s.SetBounds(common.Rect{X: 0, Y: 0, W: 100, H: 100})

	inside, err := s.SpawnBody(physics.BodyDef{
		Position: physics.ToWorld(common.V(50, 50)),
		Shape:    physics.Circle(0.5),
	}, &Entity{Tags: []string{"particle"}})
	require.NoError(t, err)
	outside, err := s.SpawnBody(physics.BodyDef{
		Position: physics.ToWorld(common.V(150, 50)),
		Shape:    physics.Circle(0.5),
	}, &Entity{Tags: []string{"particle"}})
	require.NoError(t, err)

	assert.Equal(t, 1, s.StepPhysics())
	assert.True(t, inside.Alive())
	assert.False(t, outside.Alive())
	assert.True(t, outside.Body.Removed())
	assert.Equal(t, 1, w.Len())
	assert.InDelta(t, 50, inside.Position.X, 1e-3)
}

func TestEmptyBoundsKeepsEverything(t *testing.T) {
	s := New("test", Hooks{})
	s.EnablePhysics(physics.DefaultConfig())
	_, err := s.SpawnBody(physics.BodyDef{
		Position: common.V(-1000, -1000),
		Shape:    physics.Box(1, 1),
	}, nil)
	require.NoError(t, err)

	assert.Zero(t, s.StepPhysics())
	assert.Equal(t, 1, s.Len())
}

func TestCloseIsIdempotent(t *testing.T) {
	closes := 0
	s := New("test", Hooks{Close: func(*Scene) error { closes++; return nil }})
	s.EnablePhysics(physics.DefaultConfig())
	e, err := s.SpawnBody(physics.BodyDef{Shape: physics.Circle(1)}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, closes)
	assert.True(t, s.Closed())
	assert.False(t, e.Alive())
	assert.Zero(t, s.Physics().Len())
	assert.ErrorIs(t, s.Update(&Frame{}), ErrClosed)
	_, err = s.SpawnBody(physics.BodyDef{Shape: physics.Circle(1)}, nil)
	assert.ErrorIs(t, err, ErrClosed)
}
