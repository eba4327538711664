package particle

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"ghero-arcade/rhythm"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestPool_SpawnBurstSizes(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
		life float32
	}{
		{Explosion, 20, 0.8},
		{Shower, 10, 0.5},
		{Spark, 1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := NewPool(0, seeded())
			require.Equal(t, DefaultCapacity, p.Cap())

			p.Spawn(tt.kind, Vec2{100, 500}, colornames.Gold)
			assert.Equal(t, tt.want, p.Live())
			p.Each(func(pt *Particle) {
				assert.Equal(t, tt.life, pt.Life)
			})
		})
	}
}

func TestPool_BurstShapes(t *testing.T) {
	p := NewPool(64, seeded())
	origin := Vec2{100, 500}

	p.Spawn(Shower, origin, colornames.Gold)
	p.Each(func(pt *Particle) {
		assert.Equal(t, colornames.Red, pt.Color)
		assert.InDelta(t, origin.X, pt.Pos.X, 10)
		assert.Equal(t, origin.Y, pt.Pos.Y)
		assert.GreaterOrEqual(t, pt.Vel.Y, float32(50), "showers fall")
		assert.LessOrEqual(t, pt.Vel.Y, float32(150))
	})

	p.Clear()
	p.Spawn(Spark, origin, colornames.Gold)
	p.Each(func(pt *Particle) {
		assert.Equal(t, colornames.White, pt.Color)
		assert.LessOrEqual(t, pt.Vel.Y, float32(-100), "sparks rise")
	})

	p.Clear()
	p.Spawn(Explosion, origin, colornames.Gold)
	p.Each(func(pt *Particle) {
		assert.Contains(t, []color.RGBA{colornames.Gold, colornames.White}, pt.Color)
		assert.Equal(t, origin, pt.Pos)
		assert.InDelta(t, 0, pt.Vel.X, 200)
	})
}

func TestPool_RecyclesOldestSlot(t *testing.T) {
	p := NewPool(25, seeded())
	p.Spawn(Shower, Vec2{}, colornames.Red)    // slots 0-9
	p.Spawn(Explosion, Vec2{}, colornames.Red) // slots 10-24 then 0-4

	assert.Equal(t, 25, p.Live())
	lives := map[float32]int{}
	p.Each(func(pt *Particle) { lives[pt.Life]++ })
	assert.Equal(t, map[float32]int{0.8: 20, 0.5: 5}, lives)
	assert.Equal(t, 5, p.next)
}

func TestPool_Advance(t *testing.T) {
	p := NewPool(4, seeded())
	p.put(Particle{Pos: Vec2{0, 0}, Vel: Vec2{10, -100}, Life: 0.5, Color: colornames.White})

	p.Advance(0.25)
	var got Particle
	p.Each(func(pt *Particle) { got = *pt })
	assert.InDelta(t, 2.5, got.Pos.X, 1e-4)
	assert.InDelta(t, -25, got.Pos.Y, 1e-4)
	assert.InDelta(t, 0, got.Vel.Y, 1e-4, "gravity pulls velocity down")
	assert.InDelta(t, 0.25, got.Life, 1e-6)

	p.Advance(0.25)
	assert.Zero(t, p.Live())
}

func TestPool_AdvanceAllocatesNothing(t *testing.T) {
	p := NewPool(0, seeded())
	for range 40 {
		p.Spawn(Explosion, Vec2{1, 1}, colornames.Red)
	}
	allocs := testing.AllocsPerRun(10, func() {
		p.Advance(1.0 / 60)
		p.Each(func(*Particle) {})
	})
	assert.Zero(t, allocs)
}

func TestEmitter_Feedback(t *testing.T) {
	var anchors [rhythm.Lanes]Vec2
	for i := range anchors {
		anchors[i] = Vec2{float32(100 * (i + 1)), 700}
	}
	p := NewPool(0, seeded())
	e := NewEmitter(p, anchors)

	e.Feedback(rhythm.FeedbackHit, 2)
	assert.Equal(t, 20, p.Live())
	p.Each(func(pt *Particle) { assert.Equal(t, anchors[2], pt.Pos) })

	e.Feedback(rhythm.FeedbackMiss, 4)
	assert.Equal(t, 30, p.Live())

	e.Feedback(rhythm.FeedbackMiss, 7)
	assert.Equal(t, 30, p.Live(), "unknown lanes are ignored")

	p.Clear()
	for range 600 {
		e.Feedback(rhythm.FeedbackSustain, 0)
	}
	assert.InDelta(t, 100, p.Live(), 40, "about one spark per six ticks")
}

func TestEmitter_AsSessionSink(t *testing.T) {
	p := NewPool(0, seeded())
	s := rhythm.NewSession([]rhythm.Note{{Start: 1, Lane: 1}}, 1, rhythm.DefaultRules(),
		rhythm.WithSink(NewEmitter(p, [rhythm.Lanes]Vec2{})))
	require.NoError(t, s.Begin(&rhythm.ManualClock{}))

	s.Update(1, rhythm.Press(1))
	assert.Equal(t, 20, p.Live())
}
