package rhythm

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Lanes is the number of fret lanes.
const Lanes = 5

// LaneColors are the fret colors, green to orange.
var LaneColors = [Lanes]color.RGBA{
	colornames.Limegreen,
	colornames.Red,
	colornames.Gold,
	colornames.Dodgerblue,
	colornames.Darkorange,
}

// Note is one playable chart note.
type Note struct {
	Start   float64 // seconds from song start
	Lane    int
	Sustain float64 // seconds, 0 for a tap note
	Active  bool
	Hit     bool
}

// End returns the time the note's sustain runs out.
func (n Note) End() float64 { return n.Start + n.Sustain }
