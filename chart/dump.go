package chart

import (
	"fmt"
	"io"

	"ghero-arcade/rhythm"
)

var laneNames = [rhythm.Lanes]string{"green", "red", "yellow", "blue", "orange"}

// Dump writes a human-readable summary of the chart: the first notes,
// per-lane counts and the first time each lane is used.
func Dump(w io.Writer, c Chart) {
	if len(c.Notes) == 0 {
		fmt.Fprintln(w, "No notes in chart")
		return
	}

	fmt.Fprintf(w, "=== CHART ===\n")
	fmt.Fprintf(w, "Total notes: %d, end time: %.2fs, tempo changes: %d\n",
		len(c.Notes), c.EndTime, len(c.Tempos)-1)
	fmt.Fprintf(w, "First 10 notes:\n")
	for i := 0; i < 10 && i < len(c.Notes); i++ {
		n := c.Notes[i]
		fmt.Fprintf(w, "  %2d: start=%.3fs sustain=%.3fs lane=%s\n", i+1, n.Start, n.Sustain, laneName(n.Lane))
	}

	var counts [rhythm.Lanes]int
	first := [rhythm.Lanes]float64{-1, -1, -1, -1, -1}
	sustains := 0
	for _, n := range c.Notes {
		if n.Lane < 0 || n.Lane >= rhythm.Lanes {
			continue
		}
		counts[n.Lane]++
		if first[n.Lane] < 0 {
			first[n.Lane] = n.Start
		}
		if n.Sustain > 0 {
			sustains++
		}
	}
	fmt.Fprintf(w, "Sustained notes: %d\n", sustains)
	fmt.Fprintf(w, "Per lane:\n")
	for lane := range counts {
		if first[lane] < 0 {
			fmt.Fprintf(w, "  %-6s: no notes\n", laneNames[lane])
			continue
		}
		fmt.Fprintf(w, "  %-6s: %d notes, first at %.2fs\n", laneNames[lane], counts[lane], first[lane])
	}
}

func laneName(lane int) string {
	if lane >= 0 && lane < rhythm.Lanes {
		return laneNames[lane]
	}
	return fmt.Sprintf("lane%d", lane)
}
