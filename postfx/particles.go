package postfx

import "github.com/milk9111/waterjam/common"

// ParticleBuffer holds the screen positions of the live particles for one
// frame. Its capacity is fixed at construction.
type ParticleBuffer struct {
	points []common.Vec2
}

func NewParticleBuffer(capacity int) *ParticleBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &ParticleBuffer{points: make([]common.Vec2, 0, capacity)}
}

// Reset drops every live position and keeps the storage.
func (b *ParticleBuffer) Reset() { b.points = b.points[:0] }

// Append adds a position. It reports false and drops p when the buffer is
// full; callers are expected to cap the particle count themselves.
func (b *ParticleBuffer) Append(p common.Vec2) bool {
	if len(b.points) == cap(b.points) {
		return false
	}
	b.points = append(b.points, p)
	return true
}

// Points returns the live positions only. The slice is reused by the next
// Reset.
func (b *ParticleBuffer) Points() []common.Vec2 { return b.points }

func (b *ParticleBuffer) Len() int { return len(b.points) }

func (b *ParticleBuffer) Cap() int { return cap(b.points) }
