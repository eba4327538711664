package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/faiface/beep"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// SoundFontStreamer renders a MIDI file through a SoundFont synthesizer.
type SoundFontStreamer struct {
	seq         *meltysynth.MidiFileSequencer
	left, right []float32
	pos, total  int
}

// NewSoundFontStreamer prepares the MIDI file in midi for playback through
// the SoundFont in sf at rate.
func NewSoundFontStreamer(sf, midi io.Reader, rate beep.SampleRate) (*SoundFontStreamer, error) {
	font, err := meltysynth.NewSoundFont(sf)
	if err != nil {
		return nil, fmt.Errorf("load soundfont: %w", err)
	}
	settings := meltysynth.NewSynthesizerSettings(int32(rate))
	synth, err := meltysynth.NewSynthesizer(font, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}
	file, err := meltysynth.NewMidiFile(midi)
	if err != nil {
		return nil, fmt.Errorf("load midi: %w", err)
	}
	seq := meltysynth.NewMidiFileSequencer(synth)
	seq.Play(file, false)
	return &SoundFontStreamer{seq: seq, total: rate.N(file.GetLength())}, nil
}

// OpenSoundFont is NewSoundFontStreamer over files on disk.
func OpenSoundFont(sfPath, midiPath string, rate beep.SampleRate) (*SoundFontStreamer, error) {
	if sfPath == "" {
		return nil, ErrNoSoundFont
	}
	sf, err := os.ReadFile(sfPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSoundFontNotFound, sfPath)
		}
		return nil, fmt.Errorf("read soundfont: %w", err)
	}
	midi, err := os.ReadFile(midiPath)
	if err != nil {
		return nil, fmt.Errorf("read midi: %w", err)
	}
	return NewSoundFontStreamer(bytes.NewReader(sf), bytes.NewReader(midi), rate)
}

// Len returns the song length in samples.
func (s *SoundFontStreamer) Len() int { return s.total }

func (s *SoundFontStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	n = min(len(samples), s.total-s.pos)
	if cap(s.left) < n {
		s.left = make([]float32, n)
		s.right = make([]float32, n)
	}
	left, right := s.left[:n], s.right[:n]
	s.seq.Render(left, right)
	for i := range n {
		samples[i] = [2]float64{clamp(float64(left[i])), clamp(float64(right[i]))}
	}
	s.pos += n
	return n, true
}

func (s *SoundFontStreamer) Err() error { return nil }
