package rhythm

// LaneInput is the state of one lane key for a frame.
type LaneInput struct {
	Pressed bool // went down this frame
	Held    bool // is down this frame
}

// Input is the per-frame state of every lane key.
type Input [Lanes]LaneInput

// Press returns an Input with the given lanes pressed and held.
func Press(lanes ...int) Input {
	var in Input
	for _, l := range lanes {
		if l >= 0 && l < Lanes {
			in[l] = LaneInput{Pressed: true, Held: true}
		}
	}
	return in
}

// Hold returns an Input with the given lanes held but not freshly pressed.
func Hold(lanes ...int) Input {
	var in Input
	for _, l := range lanes {
		if l >= 0 && l < Lanes {
			in[l].Held = true
		}
	}
	return in
}
