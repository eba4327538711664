package game

import (
	"ghero-arcade/particle"
	"ghero-arcade/rhythm"
)

const (
	laneSpacing = 100   // px between fret centres
	noteSpeed   = 450.0 // px per second of lead time
	hitZoneLift = 75    // hit zone distance from the bottom edge
	hudHeight   = 70
)

// layout is the screen geometry for one window size.
type layout struct {
	width, height int32
	hitY          float32
	frets         [rhythm.Lanes]float32
}

func newLayout(width, height int32) layout {
	l := layout{width: width, height: height, hitY: float32(height - hitZoneLift)}
	startX := float32(width)/2 - float32((rhythm.Lanes-1)*laneSpacing)/2
	for i := range l.frets {
		l.frets[i] = startX + float32(i*laneSpacing)
	}
	return l
}

// noteY maps seconds until a note's start to its screen row.
func (l layout) noteY(timeToHit float64) float32 {
	return l.hitY - float32(timeToHit*noteSpeed)
}

func (l layout) anchors() [rhythm.Lanes]particle.Vec2 {
	var a [rhythm.Lanes]particle.Vec2
	for i, x := range l.frets {
		a[i] = particle.Vec2{X: x, Y: l.hitY}
	}
	return a
}
