package audio

import (
	"cmp"
	"math"
	"slices"

	"github.com/faiface/beep"

	"ghero-arcade/rhythm"
)

// lanePitches are the MIDI notes voiced for each lane, a C major pentatonic.
var lanePitches = [rhythm.Lanes]int{60, 62, 64, 67, 69}

const (
	toneAmplitude = 0.2
	toneFade      = 0.05 // seconds of fade in and out
	minTone       = 0.15 // taps still sound this long
	toneTail      = 0.5  // silence after the last note
)

// ToneStreamer synthesizes a sine tone for every chart note. It is the
// backing track of last resort when no song file or SoundFont is available.
type ToneStreamer struct {
	notes []rhythm.Note // sorted by start
	rate  beep.SampleRate
	pos   int64
	total int64
	next  int
	live  []rhythm.Note
}

// NewToneStreamer returns a streamer that plays notes at rate and ends
// shortly after the last one.
func NewToneStreamer(notes []rhythm.Note, rate beep.SampleRate) *ToneStreamer {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b rhythm.Note) int { return cmp.Compare(a.Start, b.Start) })

	end := 0.0
	for _, n := range sorted {
		end = math.Max(end, toneEnd(n))
	}
	return &ToneStreamer{
		notes: sorted,
		rate:  rate,
		total: int64(math.Ceil((end + toneTail) * float64(rate))),
	}
}

// Len returns the stream length in samples.
func (s *ToneStreamer) Len() int { return int(s.total) }

// Position returns the next sample to be streamed.
func (s *ToneStreamer) Position() int { return int(s.pos) }

func (s *ToneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	t0 := s.at(s.pos)
	t1 := s.at(s.pos + int64(len(samples)))

	live := s.live[:0]
	for _, note := range s.live {
		if toneEnd(note) > t0 {
			live = append(live, note)
		}
	}
	for s.next < len(s.notes) && s.notes[s.next].Start < t1 {
		live = append(live, s.notes[s.next])
		s.next++
	}
	s.live = live

	for i := range samples {
		if s.pos >= s.total {
			break
		}
		left, right := s.synthesize(s.at(s.pos))
		samples[i] = [2]float64{left, right}
		s.pos++
		n++
	}
	return n, true
}

func (s *ToneStreamer) Err() error { return nil }

func (s *ToneStreamer) at(sample int64) float64 {
	return float64(sample) / float64(s.rate)
}

func (s *ToneStreamer) synthesize(t float64) (left, right float64) {
	active := 0
	for _, n := range s.live {
		if t >= n.Start && t < toneEnd(n) {
			active++
		}
	}
	if active == 0 {
		return 0, 0
	}
	for _, n := range s.live {
		start, end := n.Start, toneEnd(n)
		if t < start || t >= end {
			continue
		}
		envelope := 1.0
		if t-start < toneFade {
			envelope = (t - start) / toneFade
		} else if end-t < toneFade {
			envelope = (end - t) / toneFade
		}
		v := toneAmplitude * envelope * math.Sin(2*math.Pi*midiToFrequency(lanePitches[n.Lane%rhythm.Lanes])*t)
		v /= float64(active)

		pan := float64(n.Lane) / float64(rhythm.Lanes-1)
		left += v * (0.8 - 0.4*pan)
		right += v * (0.4 + 0.4*pan)
	}
	return clamp(left), clamp(right)
}

func toneEnd(n rhythm.Note) float64 {
	return n.Start + math.Max(n.Sustain, minTone)
}

// midiToFrequency converts a MIDI note number to Hz, A4 = 440.
func midiToFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
