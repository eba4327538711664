package particle

import (
	"ghero-arcade/rhythm"
)

// Emitter turns judgment feedback into bursts at each lane's hit marker.
type Emitter struct {
	pool    *Pool
	anchors [rhythm.Lanes]Vec2
}

// NewEmitter returns an emitter spawning into pool at the given lane anchors.
func NewEmitter(pool *Pool, anchors [rhythm.Lanes]Vec2) *Emitter {
	return &Emitter{pool: pool, anchors: anchors}
}

// SetAnchors moves the lane anchors, e.g. after a window resize.
func (e *Emitter) SetAnchors(anchors [rhythm.Lanes]Vec2) { e.anchors = anchors }

// Feedback implements rhythm.FeedbackSink. Sustain ticks spark one frame in six.
func (e *Emitter) Feedback(kind rhythm.FeedbackKind, lane int) {
	if lane < 0 || lane >= rhythm.Lanes {
		return
	}
	pos := e.anchors[lane]
	switch kind {
	case rhythm.FeedbackHit:
		e.pool.Spawn(Explosion, pos, rhythm.LaneColors[lane])
	case rhythm.FeedbackMiss:
		e.pool.Spawn(Shower, pos, rhythm.LaneColors[lane])
	case rhythm.FeedbackSustain:
		if e.pool.rng.IntN(6) == 0 {
			e.pool.Spawn(Spark, pos, rhythm.LaneColors[lane])
		}
	}
}
