// Package miditest builds Standard MIDI Files for tests: well-formed ones
// through the gomidi writer, and hand-assembled byte images for the damaged
// inputs a writer would refuse to produce.
package miditest

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"os"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// LowNote is the MIDI note of lane 0 in the default guitar window.
const LowNote = 84

// Note is a chart note at an absolute tick. Length 0 produces a NoteOff on
// the same tick as the NoteOn.
type Note struct {
	Tick   uint32
	Length uint32
	Lane   int
}

// Tempo is a tempo change at an absolute tick.
type Tempo struct {
	Tick   uint32
	Micros uint32 // microseconds per quarter note
}

type timed struct {
	tick  uint32
	order int
	msg   []byte
}

// TempoMessage encodes a Set Tempo meta event.
func TempoMessage(micros uint32) smf.Message {
	return smf.Message{0xFF, 0x51, 0x03, byte(micros >> 16), byte(micros >> 8), byte(micros)}
}

// Track assembles a track named name from absolute-tick notes and tempos.
// At equal ticks tempo changes come first, then note-offs, then note-ons;
// a zero-length note keeps its own off after its on.
func Track(name string, tempos []Tempo, notes []Note) smf.Track {
	var events []timed
	for _, tp := range tempos {
		events = append(events, timed{tick: tp.Tick, order: 0, msg: TempoMessage(tp.Micros)})
	}
	for _, n := range notes {
		key := uint8(LowNote + n.Lane)
		offOrder := 1
		if n.Length == 0 {
			offOrder = 3
		}
		events = append(events,
			timed{tick: n.Tick, order: 2, msg: midi.NoteOn(0, key, 100)},
			timed{tick: n.Tick + n.Length, order: offOrder, msg: midi.NoteOff(0, key)},
		)
	}
	slices.SortStableFunc(events, func(a, b timed) int {
		if c := cmp.Compare(a.tick, b.tick); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	var tr smf.Track
	if name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(name))
	}
	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

// Encode writes the tracks as a format 1 SMF with the given resolution.
func Encode(division uint16, tracks ...smf.Track) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(division)
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GuitarChart is the common two-track layout: a conductor track holding the
// tempo map and a "PART GUITAR" track holding the notes.
func GuitarChart(division uint16, tempos []Tempo, notes []Note) ([]byte, error) {
	return Encode(division,
		Track("conductor", tempos, nil),
		Track("PART GUITAR", nil, notes),
	)
}

// WriteFile writes data to path.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Header assembles an MThd chunk.
func Header(format, tracks, division uint16) []byte {
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body[0:], format)
	binary.BigEndian.PutUint16(body[2:], tracks)
	binary.BigEndian.PutUint16(body[4:], division)
	return Chunk("MThd", body)
}

// Chunk assembles a chunk with a 4-byte tag and big-endian length.
func Chunk(tag string, body []byte) []byte {
	out := make([]byte, 8, 8+len(body))
	copy(out, tag)
	binary.BigEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}

// VarLen encodes v as a MIDI variable-length quantity.
func VarLen(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
	}
	return out
}

// Join concatenates byte slices.
func Join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
