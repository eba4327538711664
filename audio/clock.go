package audio

import (
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
)

// SampleClock measures playback time by counting the samples the output
// device has pulled through it. Without a device it falls back to the wall
// clock. Now is safe to call while the speaker goroutine is streaming.
type SampleClock struct {
	rate    beep.SampleRate
	offset  float64
	counted atomic.Int64
	begun   atomic.Bool

	// pulled is the wall time in nanoseconds of the last counted buffer.
	// Readings interpolate past it by at most maxLead.
	pulled  atomic.Int64
	maxLead time.Duration
	clock   func() time.Time

	wall      bool
	wallStart time.Time
}

// NewSampleClock returns a stopped clock for rate. offset is added to
// every reading to calibrate for output latency.
func NewSampleClock(rate beep.SampleRate, offset float64) *SampleClock {
	return &SampleClock{rate: rate, offset: offset, clock: time.Now}
}

// interpolate lets Now advance between device pulls, up to one buffer of
// length lead. A zero lead reports the raw sample count.
func (c *SampleClock) interpolate(lead time.Duration) { c.maxLead = lead }

// Wrap returns s with every streamed sample counted once the clock has begun.
func (c *SampleClock) Wrap(s beep.Streamer) beep.Streamer {
	return &countingStreamer{Streamer: s, clock: c}
}

// Begin starts counting from zero.
func (c *SampleClock) Begin() error {
	c.counted.Store(0)
	c.pulled.Store(0)
	c.begun.Store(true)
	return nil
}

// beginWall starts the clock against time.Now instead of the sample count.
func (c *SampleClock) beginWall() {
	c.wall = true
	c.wallStart = c.clock()
	c.begun.Store(true)
}

// reset stops the clock and zeroes it.
func (c *SampleClock) reset() {
	c.begun.Store(false)
	c.counted.Store(0)
	c.pulled.Store(0)
	c.wall = false
}

// Now returns seconds since Begin plus the offset, or 0 before Begin.
func (c *SampleClock) Now() float64 {
	if !c.begun.Load() {
		return 0
	}
	if c.wall {
		return c.clock().Sub(c.wallStart).Seconds() + c.offset
	}
	return float64(c.counted.Load())/float64(c.rate) + c.lead() + c.offset
}

func (c *SampleClock) lead() float64 {
	pulled := c.pulled.Load()
	if c.maxLead <= 0 || pulled == 0 {
		return 0
	}
	since := c.clock().Sub(time.Unix(0, pulled))
	return min(max(since, 0), c.maxLead).Seconds()
}

// Samples returns the number of samples counted since Begin.
func (c *SampleClock) Samples() int64 { return c.counted.Load() }

type countingStreamer struct {
	beep.Streamer
	clock *SampleClock
}

func (s *countingStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.Streamer.Stream(samples)
	if s.clock.begun.Load() && n > 0 {
		s.clock.counted.Add(int64(n))
		s.clock.pulled.Store(s.clock.clock().UnixNano())
	}
	return n, ok
}
