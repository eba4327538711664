// Package rhythm judges player input against a chart of timed notes.
//
// A Session is stepped once per frame with the current playback time and
// the lane key states. It never blocks and holds no goroutines; all state
// lives in the Session value and its note slice.
package rhythm

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"ghero-arcade/logger"
)

// State is the session lifecycle state.
type State int

const (
	NotStarted State = iota
	Playing
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAlreadyStarted is returned by Begin on a session that has left NotStarted.
var ErrAlreadyStarted = errors.New("rhythm: session already started")

// Stats counts judgment outcomes over a session.
type Stats struct {
	Notes          int
	Hits           int
	Misses         int // notes whose window passed unplayed
	GhostPresses   int // presses with no note in the window
	BrokenSustains int
	MaxCombo       int
}

// Session is one play-through of a chart.
type Session struct {
	id      string
	rules   Rules
	notes   []Note
	endTime float64

	state   State
	score   float64
	combo   int
	health  float64
	now     float64
	flashes [Lanes]float64
	stats   Stats

	sink FeedbackSink
	log  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithSink routes judgment feedback to sink.
func WithSink(sink FeedbackSink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// NewSession creates a session over a private copy of notes. endTime is the
// latest note end in the chart; the song is won GracePeriod after it.
func NewSession(notes []Note, endTime float64, rules Rules, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		rules:   rules,
		notes:   make([]Note, len(notes)),
		endTime: endTime,
		health:  rules.StartHealth,
		sink:    nopSink{},
		log:     logger.GetLogger(),
	}
	for i, n := range notes {
		n.Active, n.Hit = true, false
		s.notes[i] = n
	}
	s.stats.Notes = len(notes)
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session_id", s.id)
	return s
}

// Begin starts playback on clock and moves the session to Playing.
func (s *Session) Begin(clock Clock) error {
	if s.state != NotStarted {
		return ErrAlreadyStarted
	}
	if err := clock.Begin(); err != nil {
		return fmt.Errorf("begin playback: %w", err)
	}
	s.now = clock.Now()
	s.state = Playing
	s.log.Info("session started", "notes", len(s.notes), "end_time", s.endTime)
	return nil
}

// Update advances the session to playback time now. Late notes are expired
// before presses are matched, so a note cannot be missed and hit in the
// same frame. Once the session is won or lost Update does nothing.
func (s *Session) Update(now float64, in Input) {
	if s.state != Playing {
		return
	}
	dt := now - s.now
	if dt < 0 {
		dt = 0
	}
	s.now = now
	s.decayFlashes(dt)

	if s.expire(now) {
		return
	}
	if now > s.endTime+s.rules.GracePeriod {
		s.finish(Won)
		return
	}
	s.sustain(now, dt, in)
	s.match(now, in)
}

// expire retires notes whose window has passed and hit notes whose sustain
// has run out. It reports whether the session was lost.
func (s *Session) expire(now float64) bool {
	for i := range s.notes {
		n := &s.notes[i]
		if !n.Active {
			continue
		}
		if n.Hit {
			if now > n.End() {
				n.Active = false
			}
			continue
		}
		if n.Start-now < -s.rules.HitWindow {
			n.Active = false
			s.stats.Misses++
			if s.penalize(n.Lane, s.rules.MissFlash) {
				return true
			}
		}
	}
	return false
}

func (s *Session) sustain(now, dt float64, in Input) {
	for i := range s.notes {
		n := &s.notes[i]
		if !n.Active || !n.Hit || n.Sustain <= 0 || now >= n.End() {
			continue
		}
		if in[n.Lane].Held {
			s.score += s.rules.SustainRate * dt
			s.sink.Feedback(FeedbackSustain, n.Lane)
			continue
		}
		n.Active = false
		s.combo = 0
		s.stats.BrokenSustains++
	}
}

func (s *Session) match(now float64, in Input) {
	for lane := 0; lane < Lanes; lane++ {
		if !in[lane].Pressed {
			continue
		}
		best, bestDiff := -1, math.Inf(1)
		for i := range s.notes {
			n := &s.notes[i]
			if !n.Active || n.Hit || n.Lane != lane {
				continue
			}
			diff := math.Abs(n.Start - now)
			if diff <= s.rules.HitWindow && diff < bestDiff {
				best, bestDiff = i, diff
			}
		}
		if best >= 0 {
			s.hit(&s.notes[best])
			continue
		}
		s.stats.GhostPresses++
		if s.penalize(lane, s.rules.GhostFlash) {
			return
		}
	}
}

func (s *Session) hit(n *Note) {
	n.Hit = true
	s.score += s.rules.HitBase + float64(s.combo)*s.rules.ComboBonus
	s.combo++
	s.stats.Hits++
	if s.combo > s.stats.MaxCombo {
		s.stats.MaxCombo = s.combo
	}
	s.health = math.Min(s.health+s.rules.HealthStep, s.rules.MaxHealth)
	s.sink.Feedback(FeedbackHit, n.Lane)
	if n.Sustain < s.rules.TapThreshold {
		n.Active = false
	}
}

// penalize applies a miss at lane and reports whether it lost the session.
func (s *Session) penalize(lane int, flash float64) bool {
	s.combo = 0
	s.score = math.Max(s.score-s.rules.MissPenalty, 0)
	s.health = math.Max(s.health-s.rules.HealthStep, 0)
	s.flashes[lane] = flash
	s.sink.Feedback(FeedbackMiss, lane)
	if s.health <= 0 {
		s.finish(Lost)
		return true
	}
	return false
}

func (s *Session) decayFlashes(dt float64) {
	for i := range s.flashes {
		if s.flashes[i] > 0 {
			s.flashes[i] = math.Max(s.flashes[i]-dt, 0)
		}
	}
}

func (s *Session) finish(state State) {
	s.state = state
	s.log.Info("session finished",
		"state", state,
		"score", s.Score(),
		"hits", s.stats.Hits,
		"misses", s.stats.Misses,
		"ghost_presses", s.stats.GhostPresses,
		"max_combo", s.stats.MaxCombo)
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Score returns the score truncated to an integer.
func (s *Session) Score() int { return int(s.score) }

// RawScore returns the fractional score accumulator.
func (s *Session) RawScore() float64 { return s.score }

// Combo returns the current run of consecutive hits.
func (s *Session) Combo() int { return s.combo }

// Health returns health in [0, MaxHealth].
func (s *Session) Health() float64 { return s.health }

// Now returns the playback time of the last update.
func (s *Session) Now() float64 { return s.now }

// EndTime returns the latest note end in the chart.
func (s *Session) EndTime() float64 { return s.endTime }

// Stats returns the outcome counters.
func (s *Session) Stats() Stats { return s.stats }

// Rules returns the session tuning.
func (s *Session) Rules() Rules { return s.rules }

// NoteCount returns the number of notes in the chart.
func (s *Session) NoteCount() int { return len(s.notes) }

// Note returns a copy of note i.
func (s *Session) Note(i int) Note { return s.notes[i] }
