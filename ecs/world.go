package ecs

import "errors"

var ErrDeadEntity = errors.New("ecs: entity is not alive")

// Arena owns values of T addressed by generational handles. Iteration follows
// insertion order; destroying is O(1) and takes effect immediately.
type Arena[T any] struct {
	store    entityStore
	values   SparseSet[T]
	order    []Entity
	removals int
}

func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Create allocates a handle and stores v under it.
func (a *Arena[T]) Create(v T) Entity {
	e := a.store.create()
	a.values.Set(e.id(), v)
	a.order = append(a.order, e)
	return e
}

// Destroy releases e. It returns false when e is already dead.
func (a *Arena[T]) Destroy(e Entity) bool {
	if a == nil || !a.store.destroy(e) {
		return false
	}
	a.values.Remove(e.id())
	a.removals++
	return true
}

func (a *Arena[T]) Alive(e Entity) bool {
	return a != nil && a.store.isAlive(e)
}

func (a *Arena[T]) Get(e Entity) (T, bool) {
	if !a.Alive(e) {
		var zero T
		return zero, false
	}
	return a.values.Get(e.id())
}

// Set replaces the value stored under a live handle.
func (a *Arena[T]) Set(e Entity, v T) error {
	if !a.Alive(e) {
		return ErrDeadEntity
	}
	a.values.Set(e.id(), v)
	return nil
}

func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.values.Len()
}

// Entities returns the live handles in insertion order. The returned slice
// is a copy and stays valid while the arena is mutated.
func (a *Arena[T]) Entities() []Entity {
	if a == nil {
		return nil
	}
	a.compact()
	return append([]Entity(nil), a.order...)
}

// Each calls fn for every value live at the time of the call, in insertion
// order. Values destroyed by fn before their turn are skipped.
func (a *Arena[T]) Each(fn func(Entity, T)) {
	for _, e := range a.Entities() {
		if v, ok := a.Get(e); ok {
			fn(e, v)
		}
	}
}

// Clear destroys every entity. Handles issued before Clear stay dead.
func (a *Arena[T]) Clear() {
	if a == nil {
		return
	}
	for _, e := range a.order {
		a.store.destroy(e)
	}
	a.values.clear()
	clear(a.order)
	a.order = a.order[:0]
	a.removals = 0
}

func (a *Arena[T]) compact() {
	if a.removals == 0 {
		return
	}
	live := a.order[:0]
	for _, e := range a.order {
		if a.store.isAlive(e) {
			live = append(live, e)
		}
	}
	clear(a.order[len(live):])
	a.order = live
	a.removals = 0
}
