package rhythm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// chartFromMillis turns generated integers into notes: the value is the
// start in milliseconds, the lane is value mod 5 and every third note
// carries a sustain.
func chartFromMillis(values []int) []Note {
	notes := make([]Note, len(values))
	for i, v := range values {
		n := Note{Start: float64(v) / 1000, Lane: v % Lanes, Active: true}
		if v%3 == 0 {
			n.Sustain = 0.4
		}
		notes[i] = n
	}
	return notes
}

// inputFromMask decodes the low five bits as presses and the next five as holds.
func inputFromMask(mask int) Input {
	var in Input
	for lane := 0; lane < Lanes; lane++ {
		in[lane].Pressed = mask&(1<<lane) != 0
		in[lane].Held = in[lane].Pressed || mask&(1<<(lane+Lanes)) != 0
	}
	return in
}

func newPropertySession(values []int) *Session {
	notes := chartFromMillis(values)
	end := 0.0
	for _, n := range notes {
		end = max(end, n.End())
	}
	s := NewSession(notes, end, DefaultRules())
	_ = s.Begin(&ManualClock{})
	return s
}

func TestSessionInvariantsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("health stays within bounds and score never goes negative", prop.ForAll(
		func(values, masks, steps []int) bool {
			s := newPropertySession(values)
			now := 0.0
			for i, mask := range masks {
				if i < len(steps) {
					now += float64(steps[i]) / 1000
				}
				s.Update(now, inputFromMask(mask))
				if s.Health() < 0 || s.Health() > 100 || s.RawScore() < 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 10000)),
		gen.SliceOf(gen.IntRange(0, 1023)),
		gen.SliceOf(gen.IntRange(0, 200)),
	))

	properties.Property("combo resets on any miss and grows by one per hit otherwise", prop.ForAll(
		func(values, masks []int) bool {
			s := newPropertySession(values)
			now := 0.0
			for _, mask := range masks {
				now += 1.0 / 60
				prevCombo, prev := s.Combo(), s.Stats()
				s.Update(now, inputFromMask(mask))
				cur := s.Stats()

				hits := cur.Hits - prev.Hits
				misses := (cur.Misses - prev.Misses) + (cur.GhostPresses - prev.GhostPresses) +
					(cur.BrokenSustains - prev.BrokenSustains)
				switch {
				case misses == 0 && s.Combo() != prevCombo+hits:
					return false
				case misses > 0 && hits == 0 && s.Combo() != 0:
					return false
				case s.Combo() > hits+prevCombo:
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5000)),
		gen.SliceOf(gen.IntRange(0, 1023)),
	))

	properties.Property("nothing changes after the session is lost", prop.ForAll(
		func(masks []int) bool {
			rules := DefaultRules()
			rules.StartHealth = 10
			s := NewSession(nil, 1000, rules)
			_ = s.Begin(&ManualClock{})

			now := 0.0
			for _, mask := range masks {
				now += 0.05
				before := struct {
					score, health float64
					state         State
				}{s.RawScore(), s.Health(), s.State()}
				s.Update(now, inputFromMask(mask))
				if before.state == Lost &&
					(s.RawScore() != before.score || s.Health() != before.health || s.State() != Lost) {
					return false
				}
				if s.Health() == 0 && s.State() != Lost {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1023)),
	))

	properties.TestingRun(t)
}
