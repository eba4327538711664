package rhythm

// Clock is the playback time source a session is judged against. Now must
// be monotonic while playing and frozen before Begin.
type Clock interface {
	Begin() error
	Now() float64
}

// ManualClock is a Clock advanced by the caller, for headless runs and tests.
type ManualClock struct {
	now   float64
	begun bool
}

// Begin starts the clock at its current time.
func (c *ManualClock) Begin() error {
	c.begun = true
	return nil
}

// Now returns the current time.
func (c *ManualClock) Now() float64 { return c.now }

// Advance moves the clock forward by d seconds. It has no effect before Begin.
func (c *ManualClock) Advance(d float64) {
	if c.begun && d > 0 {
		c.now += d
	}
}

// Set jumps the clock to t. Earlier times are ignored.
func (c *ManualClock) Set(t float64) {
	if c.begun && t > c.now {
		c.now = t
	}
}
