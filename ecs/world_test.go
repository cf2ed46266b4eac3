package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewArena[string]()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, a.Create("v"))
			}
			if a.Len() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, a.Len())
			}
			if c.destroyIndex >= 0 {
				if !a.Destroy(ents[c.destroyIndex]) {
					t.Fatalf("Destroy should return true for alive entity")
				}
				if a.Alive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if a.Destroy(ents[c.destroyIndex]) {
					t.Fatalf("Destroy should return false for a dead entity")
				}
			}
		})
	}
}

func TestArenaStaleHandle(t *testing.T) {
	a := NewArena[int]()
	e1 := a.Create(1)
	require.True(t, a.Destroy(e1))

	e2 := a.Create(2)
	assert.Equal(t, e1.id(), e2.id(), "slot should be reused")
	assert.NotEqual(t, e1, e2)

	_, ok := a.Get(e1)
	assert.False(t, ok)
	assert.ErrorIs(t, a.Set(e1, 5), ErrDeadEntity)

	v, ok := a.Get(e2)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestArenaInsertionOrderSurvivesRemoval(t *testing.T) {
	a := NewArena[int]()
	var ents []Entity
	for i := 0; i < 6; i++ {
		ents = append(ents, a.Create(i))
	}
	a.Destroy(ents[0])
	a.Destroy(ents[3])
	e6 := a.Create(6)

	var got []int
	a.Each(func(_ Entity, v int) { got = append(got, v) })
	assert.Equal(t, []int{1, 2, 4, 5, 6}, got)
	assert.Equal(t, e6, a.Entities()[4])
}

func TestArenaEachToleratesMutation(t *testing.T) {
	a := NewArena[int]()
	var ents []Entity
	for i := 0; i < 5; i++ {
		ents = append(ents, a.Create(i))
	}

	visits := make(map[int]int)
	a.Each(func(e Entity, v int) {
		visits[v]++
		switch v {
		case 1:
			a.Destroy(e) // self
		case 2:
			a.Destroy(ents[4]) // a later sibling
			a.Create(99)       // added during iteration
		}
	})

	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1}, visits)
	assert.Equal(t, 4, a.Len())
}

func TestArenaClear(t *testing.T) {
	a := NewArena[int]()
	e := a.Create(1)
	a.Clear()
	assert.Zero(t, a.Len())
	assert.False(t, a.Alive(e))

	e2 := a.Create(2)
	assert.False(t, a.Alive(e))
	assert.True(t, a.Alive(e2))
	assert.Len(t, a.Entities(), 1)
}

func TestSparseSetSwapRemove(t *testing.T) {
	var s SparseSet[string]
	s.Set(1, "a")
	s.Set(2, "b")
	s.Set(3, "c")
	require.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))

	assert.False(t, s.Has(1))
	v, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, "c", v)
	assert.ElementsMatch(t, []string{"b", "c"}, s.Values())

	s.Set(3, "C")
	v, _ = s.Get(3)
	assert.Equal(t, "C", v)
	assert.Equal(t, 2, s.Len())
}

func TestEntityHandle(t *testing.T) {
	var zero Entity
	assert.False(t, zero.Valid())

	e := makeEntity(7, 3)
	assert.True(t, e.Valid())
	assert.Equal(t, entityID(7), e.id())
	assert.Equal(t, generation(3), e.generation())
	assert.Equal(t, "7v3", e.String())
}
