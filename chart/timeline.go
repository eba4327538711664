// Package chart turns extracted MIDI events into timed rhythm notes.
package chart

import (
	"ghero-arcade/midi"
	"ghero-arcade/rhythm"
)

// TempoPoint marks where a tempo takes effect.
type TempoPoint struct {
	Tick             uint32
	Seconds          float64
	MicrosPerQuarter uint32
}

// Chart is a playable note list with its tempo map.
type Chart struct {
	Notes    []rhythm.Note
	EndTime  float64 // latest note end, start for tap notes
	Tempos   []TempoPoint
	Division uint16
}

// Build integrates the tempo map over events, which must be sorted by tick,
// and pairs note-ons with note-offs per lane. A tempo change only affects
// the ticks after it. A note-on left open at the end of the stream, or
// replaced by another note-on in its lane, becomes a tap note.
func Build(events []midi.RawEvent, division uint16) Chart {
	if division == 0 {
		division = 480
	}
	c := Chart{
		Division: division,
		Tempos:   []TempoPoint{{MicrosPerQuarter: midi.DefaultTempo}},
	}

	var (
		tempo   uint32 = midi.DefaultTempo
		tick    uint32
		seconds float64
		open    = make(map[int]int)
	)
	perTick := func() float64 { return float64(tempo) / (float64(division) * 1e6) }

	for _, e := range events {
		if e.Tick > tick {
			seconds += float64(e.Tick-tick) * perTick()
			tick = e.Tick
		}

		switch e.Kind {
		case midi.TempoChange:
			tempo = e.Tempo
			last := &c.Tempos[len(c.Tempos)-1]
			if last.Tick == tick {
				last.MicrosPerQuarter = tempo
			} else {
				c.Tempos = append(c.Tempos, TempoPoint{Tick: tick, Seconds: seconds, MicrosPerQuarter: tempo})
			}

		case midi.NoteOn:
			open[e.Lane] = len(c.Notes)
			c.Notes = append(c.Notes, rhythm.Note{Start: seconds, Lane: e.Lane, Active: true})
			c.EndTime = max(c.EndTime, seconds)

		case midi.NoteOff:
			idx, ok := open[e.Lane]
			if !ok {
				continue
			}
			n := &c.Notes[idx]
			n.Sustain = max(seconds-n.Start, 0)
			c.EndTime = max(c.EndTime, n.End())
			delete(open, e.Lane)
		}
	}
	return c
}

// SecondsAt converts an absolute tick to seconds through the tempo map.
func (c Chart) SecondsAt(tick uint32) float64 {
	division := c.Division
	if division == 0 {
		division = 480
	}
	p := TempoPoint{MicrosPerQuarter: midi.DefaultTempo}
	for _, tp := range c.Tempos {
		if tp.Tick > tick {
			break
		}
		p = tp
	}
	return p.Seconds + float64(tick-p.Tick)*float64(p.MicrosPerQuarter)/(float64(division)*1e6)
}

// Offset returns a copy of the chart with every note moved by seconds.
func (c Chart) Offset(seconds float64) Chart {
	out := c
	out.Notes = make([]rhythm.Note, len(c.Notes))
	for i, n := range c.Notes {
		n.Start += seconds
		out.Notes[i] = n
	}
	if len(c.Notes) > 0 {
		out.EndTime = c.EndTime + seconds
	}
	return out
}
