// Package audio plays the backing track and supplies the playback clock
// the judgment engine runs against.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"ghero-arcade/logger"
	"ghero-arcade/rhythm"
)

// DefaultSampleRate is the device rate every track is resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

// resampleQuality trades CPU for fidelity when a file's rate differs from the device.
const resampleQuality = 4

// speakerBuffer is how much audio the device pulls at a time.
const speakerBuffer = time.Second / 20

// Manager owns the speaker and mixes the song, vocals and synthesized
// tracks. It implements rhythm.Clock.
type Manager struct {
	rate        beep.SampleRate
	initialized bool
	playing     bool
	volume      float64

	mixer   *beep.Mixer
	ctrl    *beep.Ctrl
	gain    *effects.Volume
	clock   *SampleClock
	pending []beep.Streamer
	closers []io.Closer

	log *slog.Logger
}

var _ rhythm.Clock = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithOffset calibrates the clock by offset seconds.
func WithOffset(offset float64) Option {
	return func(m *Manager) { m.clock = NewSampleClock(m.rate, offset) }
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates a manager at DefaultSampleRate.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rate:   DefaultSampleRate,
		volume: 1,
		mixer:  &beep.Mixer{},
		log:    logger.GetLogger(),
	}
	m.clock = NewSampleClock(m.rate, 0)
	for _, opt := range opts {
		opt(m)
	}
	m.ctrl = &beep.Ctrl{Streamer: m.mixer}
	m.gain = &effects.Volume{Streamer: m.ctrl, Base: 2}
	return m
}

// Initialize opens the output device with a small buffer for low latency.
func (m *Manager) Initialize() error {
	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("initialize speaker: %w", err)
	}
	m.clock.interpolate(speakerBuffer)
	speaker.Play(m.clock.Wrap(m.gain))
	m.initialized = true
	m.log.Info("audio initialized", "sample_rate", int(m.rate))
	return nil
}

// Initialized reports whether an output device is open.
func (m *Manager) Initialized() bool { return m.initialized }

// LoadSong queues the first existing file of paths as the song track and
// returns the path used.
func (m *Manager) LoadSong(paths ...string) (string, error) {
	return m.loadFile("song", paths)
}

// LoadVocals queues the first existing file of paths as the vocal track.
func (m *Manager) LoadVocals(paths ...string) (string, error) {
	return m.loadFile("vocals", paths)
}

func (m *Manager) loadFile(role string, paths []string) (string, error) {
	if !m.initialized {
		return "", ErrNotInitialized
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		s, err := m.decode(path)
		if err != nil {
			return "", fmt.Errorf("load %s %s: %w", role, path, err)
		}
		m.pending = append(m.pending, s)
		m.log.Info("audio track loaded", "role", role, "path", path)
		return path, nil
	}
	return "", fmt.Errorf("%w for %s: %s", ErrNoAudioFile, role, strings.Join(paths, ", "))
}

func (m *Manager) decode(path string) (beep.Streamer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		s, format, err = vorbis.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	m.closers = append(m.closers, s)
	if format.SampleRate != m.rate {
		return beep.Resample(resampleQuality, format.SampleRate, m.rate, s), nil
	}
	return s, nil
}

// LoadSoundFont queues midiPath rendered through the SoundFont sfPath.
func (m *Manager) LoadSoundFont(sfPath, midiPath string) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	s, err := OpenSoundFont(sfPath, midiPath, m.rate)
	if err != nil {
		return err
	}
	m.pending = append(m.pending, s)
	m.log.Info("soundfont track loaded", "soundfont", sfPath, "midi", midiPath)
	return nil
}

// LoadSynth queues a sine rendition of notes.
func (m *Manager) LoadSynth(notes []rhythm.Note) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	m.pending = append(m.pending, NewToneStreamer(notes, m.rate))
	m.log.Info("synth track loaded", "notes", len(notes))
	return nil
}

// Begin starts every queued track and the clock together. Without an
// output device the clock runs on wall time.
func (m *Manager) Begin() error {
	if m.playing {
		return nil
	}
	if !m.initialized {
		m.clock.beginWall()
		m.playing = true
		m.log.Warn("no audio device, using wall clock")
		return nil
	}
	speaker.Lock()
	m.mixer.Add(m.pending...)
	m.pending = nil
	_ = m.clock.Begin()
	speaker.Unlock()
	m.playing = true
	m.log.Debug("playback started", "tracks", m.mixer.Len())
	return nil
}

// Now returns the playback position in seconds.
func (m *Manager) Now() float64 { return m.clock.Now() }

// Playing reports whether Begin has been called and Stop has not.
func (m *Manager) Playing() bool { return m.playing }

// Pause silences output without dropping tracks. The clock keeps counting.
func (m *Manager) Pause(paused bool) {
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop drops every playing track.
func (m *Manager) Stop() {
	if !m.playing {
		return
	}
	if m.initialized {
		speaker.Lock()
		m.mixer.Clear()
		speaker.Unlock()
	}
	m.playing = false
	m.log.Info("playback stopped")
}

// SetVolume sets output volume in [0, 1].
func (m *Manager) SetVolume(volume float64) {
	volume = math.Max(0, math.Min(1, volume))
	m.volume = volume
	apply := func() {
		m.gain.Silent = volume == 0
		if volume > 0 {
			m.gain.Volume = math.Log2(volume)
		}
	}
	if !m.initialized {
		apply()
		return
	}
	speaker.Lock()
	apply()
	speaker.Unlock()
}

// Volume returns the last volume set.
func (m *Manager) Volume() float64 { return m.volume }

// Reset drops every track and rewinds the clock, keeping the device open
// so tracks can be loaded again.
func (m *Manager) Reset() error {
	err := m.Cleanup()
	m.clock.reset()
	return err
}

// Cleanup stops playback and closes decoded files.
func (m *Manager) Cleanup() error {
	m.Stop()
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	m.pending = nil
	return errors.Join(errs...)
}
