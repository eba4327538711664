package rhythm

import (
	"cmp"
	"slices"
)

// Autoplay produces the input of a perfect player: each lane is pressed on
// the first frame at or after a note's start and held through its sustain.
type Autoplay struct {
	notes     []Note
	next      int
	holdUntil [Lanes]float64
}

// NewAutoplay prepares autoplay input for notes.
func NewAutoplay(notes []Note) *Autoplay {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b Note) int { return cmp.Compare(a.Start, b.Start) })
	return &Autoplay{notes: sorted}
}

// Input returns the lane state for playback time now. Calls must use
// non-decreasing times.
func (a *Autoplay) Input(now float64) Input {
	var in Input
	for a.next < len(a.notes) && a.notes[a.next].Start <= now {
		n := a.notes[a.next]
		a.next++
		if n.Lane < 0 || n.Lane >= Lanes {
			continue
		}
		in[n.Lane].Pressed = true
		a.holdUntil[n.Lane] = max(a.holdUntil[n.Lane], n.End())
	}
	for lane := range in {
		if in[lane].Pressed || now < a.holdUntil[lane] {
			in[lane].Held = true
		}
	}
	return in
}
