// Package particle keeps a fixed pool of short-lived visual markers spawned
// by judgment feedback.
package particle

import (
	"image/color"
	"math/rand/v2"

	"golang.org/x/image/colornames"
)

// DefaultCapacity is the pool size used by NewPool when capacity is not positive.
const DefaultCapacity = 800

// Gravity is the downward acceleration applied to every particle, in px/s².
const Gravity = 400

// Kind selects a burst shape.
type Kind int

const (
	Explosion Kind = iota
	Shower
	Spark
)

func (k Kind) String() string {
	switch k {
	case Explosion:
		return "explosion"
	case Shower:
		return "shower"
	case Spark:
		return "spark"
	default:
		return "unknown"
	}
}

// Vec2 is a screen-space vector in pixels.
type Vec2 struct {
	X, Y float32
}

// Particle is one pool slot.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Life   float32 // seconds left
	Color  color.RGBA
	Active bool
}

// Pool is a fixed-capacity ring of particles. Spawning always succeeds by
// overwriting the slot after the most recently written one.
type Pool struct {
	slots []Particle
	next  int
	rng   *rand.Rand
}

// NewPool allocates a pool with capacity slots. A nil rng uses a
// time-seeded source.
func NewPool(capacity int, rng *rand.Rand) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Pool{slots: make([]Particle, capacity), rng: rng}
}

// Cap returns the number of slots.
func (p *Pool) Cap() int { return len(p.slots) }

// Spawn emits the burst for kind at pos. Explosions mix c with white,
// showers are always red and sparks always white.
func (p *Pool) Spawn(kind Kind, pos Vec2, c color.RGBA) {
	switch kind {
	case Explosion:
		for range 20 {
			tint := colornames.White
			if p.rng.IntN(11) < 5 {
				tint = c
			}
			p.put(Particle{
				Pos:   pos,
				Vel:   Vec2{p.uniform(-200, 200), p.uniform(-250, 50)},
				Life:  0.8,
				Color: tint,
			})
		}
	case Shower:
		for range 10 {
			p.put(Particle{
				Pos:   Vec2{pos.X + p.uniform(-10, 10), pos.Y},
				Vel:   Vec2{p.uniform(-50, 50), p.uniform(50, 150)},
				Life:  0.5,
				Color: colornames.Red,
			})
		}
	case Spark:
		p.put(Particle{
			Pos:   Vec2{pos.X + p.uniform(-5, 5), pos.Y},
			Vel:   Vec2{p.uniform(-30, 30), p.uniform(-200, -100)},
			Life:  0.3,
			Color: colornames.White,
		})
	}
}

func (p *Pool) put(pt Particle) {
	pt.Active = true
	p.slots[p.next] = pt
	p.next = (p.next + 1) % len(p.slots)
}

// uniform draws an integer-valued float in [lo, hi].
func (p *Pool) uniform(lo, hi int) float32 {
	return float32(lo + p.rng.IntN(hi-lo+1))
}

// Advance ages every live particle by dt and moves it along its path.
func (p *Pool) Advance(dt float32) {
	for i := range p.slots {
		pt := &p.slots[i]
		if !pt.Active {
			continue
		}
		pt.Life -= dt
		if pt.Life <= 0 {
			pt.Active = false
			continue
		}
		pt.Pos.X += pt.Vel.X * dt
		pt.Pos.Y += pt.Vel.Y * dt
		pt.Vel.Y += Gravity * dt
	}
}

// Each calls fn for every live particle.
func (p *Pool) Each(fn func(*Particle)) {
	for i := range p.slots {
		if p.slots[i].Active {
			fn(&p.slots[i])
		}
	}
}

// Live counts active particles.
func (p *Pool) Live() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Active {
			n++
		}
	}
	return n
}

// Clear deactivates every particle.
func (p *Pool) Clear() {
	clear(p.slots)
	p.next = 0
}
