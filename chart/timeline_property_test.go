package chart

import (
	"cmp"
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"ghero-arcade/midi"
)

// randomEvents merges note-ons and tempo changes into one tick-sorted list.
func randomEvents(noteTicks, tempoTicks, tempoValues []int) []midi.RawEvent {
	var events []midi.RawEvent
	for _, tk := range noteTicks {
		events = append(events, on(uint32(tk), tk%5))
	}
	for i, tk := range tempoTicks {
		if i < len(tempoValues) {
			events = append(events, tempo(uint32(tk), uint32(tempoValues[i])))
		}
	}
	slices.SortStableFunc(events, func(a, b midi.RawEvent) int { return cmp.Compare(a.Tick, b.Tick) })
	return events
}

func TestTickToTimeMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("later ticks never map to earlier times", prop.ForAll(
		func(noteTicks, tempoTicks, tempoValues []int, division int) bool {
			c := Build(randomEvents(noteTicks, tempoTicks, tempoValues), uint16(division))
			for i := 1; i < len(c.Notes); i++ {
				if c.Notes[i].Start < c.Notes[i-1].Start {
					return false
				}
			}
			for i := 1; i < len(c.Tempos); i++ {
				if c.Tempos[i].Seconds < c.Tempos[i-1].Seconds {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 200000)),
		gen.SliceOf(gen.IntRange(0, 200000)),
		gen.SliceOf(gen.IntRange(1, 3000000)),
		gen.IntRange(24, 1920),
	))

	properties.Property("note starts agree with the tempo map", prop.ForAll(
		func(noteTicks, tempoTicks, tempoValues []int) bool {
			events := randomEvents(noteTicks, tempoTicks, tempoValues)
			c := Build(events, 480)
			i := 0
			for _, e := range events {
				if e.Kind != midi.NoteOn {
					continue
				}
				want := c.SecondsAt(e.Tick)
				if math.Abs(c.Notes[i].Start-want) > 1e-6*math.Max(1, want) {
					return false
				}
				i++
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 50000)),
		gen.SliceOf(gen.IntRange(0, 50000)),
		gen.SliceOf(gen.IntRange(1, 3000000)),
	))

	properties.Property("end time covers every note", prop.ForAll(
		func(noteTicks []int) bool {
			c := Build(randomEvents(noteTicks, nil, nil), 480)
			for _, n := range c.Notes {
				if n.End() > c.EndTime+1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100000)),
	))

	properties.TestingRun(t)
}
