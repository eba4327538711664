// Package midi extracts the playable guitar chart from a Standard MIDI File.
//
// Only the handful of events the rhythm game needs survive extraction: tempo
// changes from every track and note on/off events from the guitar track that
// fall inside the lane window. Everything else is decoded just far enough to
// be skipped.
package midi

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"ghero-arcade/logger"
)

// Defaults for Options.
const (
	DefaultLowNote     = 84
	DefaultLanes       = 5
	DefaultTrackMarker = "PART GUITAR"
	DefaultTempo       = 500000 // microseconds per quarter note, 120 BPM
)

// Meta event types the extractor understands.
const (
	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaTempo      = 0x51
)

// EventKind identifies the kind of a RawEvent.
type EventKind uint8

const (
	TempoChange EventKind = iota
	NoteOn
	NoteOff
)

func (k EventKind) String() string {
	switch k {
	case TempoChange:
		return "tempo"
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// RawEvent is one decoded MIDI occurrence at an absolute tick.
type RawEvent struct {
	Tick  uint32
	Kind  EventKind
	Note  uint8  // NoteOn/NoteOff only
	Lane  int    // Note minus the low note of the lane window
	Tempo uint32 // TempoChange only, microseconds per quarter note
}

// TrackInfo summarizes one MTrk chunk.
type TrackInfo struct {
	Index       int
	Name        string
	Guitar      bool
	NoteEvents  int // notes kept from this track
	TempoEvents int
	Truncated   bool
}

// Song is the result of extraction.
type Song struct {
	Format         uint16
	Division       uint16 // ticks per quarter note
	DeclaredTracks int
	Events         []RawEvent
	Tracks         []TrackInfo
	Truncated      bool
}

// NoteCount returns the number of NoteOn events in the song.
func (s *Song) NoteCount() int {
	n := 0
	for _, e := range s.Events {
		if e.Kind == NoteOn {
			n++
		}
	}
	return n
}

// Options controls extraction.
type Options struct {
	// LowNote is the MIDI note of lane 0. Zero means DefaultLowNote, so a
	// window cannot start at note 0.
	LowNote uint8
	// Lanes is the window width, at most DefaultLanes.
	Lanes       int
	TrackMarker string
	// Strict turns an unexpected chunk tag into ErrBadChunk instead of a
	// truncated parse.
	Strict bool
	Logger *slog.Logger
}

// DefaultOptions returns the five-lane guitar window starting at note 84.
func DefaultOptions() Options {
	return Options{
		LowNote:     DefaultLowNote,
		Lanes:       DefaultLanes,
		TrackMarker: DefaultTrackMarker,
	}
}

func (o Options) withDefaults() Options {
	if o.LowNote == 0 {
		o.LowNote = DefaultLowNote
	}
	if o.Lanes <= 0 || o.Lanes > DefaultLanes {
		o.Lanes = DefaultLanes
	}
	if o.TrackMarker == "" {
		o.TrackMarker = DefaultTrackMarker
	}
	if o.Logger == nil {
		o.Logger = logger.GetLogger()
	}
	return o
}

func (o Options) inWindow(note uint8) bool {
	return note >= o.LowNote && int(note) < int(o.LowNote)+o.Lanes
}

// ParseFile reads and extracts the chart at path.
func ParseFile(path string, opts Options) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	song, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return song, nil
}

// Parse extracts the chart from an in-memory SMF image. A missing or
// unreadable header is an error. A damaged track chunk ends the scan and
// marks the song truncated, unless opts.Strict is set.
func Parse(data []byte, opts Options) (*Song, error) {
	opts = opts.withDefaults()
	r := NewReader(data)

	song, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	for t := 0; t < song.DeclaredTracks; t++ {
		if r.Remaining() == 0 {
			opts.Logger.Warn("MIDI file ends before declared track count",
				"declared", song.DeclaredTracks, "found", t)
			song.Truncated = true
			break
		}
		tag, err := r.ReadBytes(4)
		if err != nil {
			song.Truncated = true
			break
		}
		if string(tag) != "MTrk" {
			if opts.Strict {
				return nil, fmt.Errorf("%w: %q at offset %d", ErrBadChunk, tag, r.Pos()-4)
			}
			opts.Logger.Warn("unexpected chunk tag, stopping track scan",
				"tag", string(tag), "track", t, "offset", r.Pos()-4)
			song.Truncated = true
			break
		}
		length, err := r.ReadBE32()
		if err != nil {
			song.Truncated = true
			break
		}
		body, bodyErr := r.Sub(int(length))

		var info TrackInfo
		song.Events, info, err = parseTrack(body, t, opts, song.Events)
		if err != nil || bodyErr != nil {
			opts.Logger.Warn("track truncated", "track", t, "name", info.Name, "error", errors.Join(bodyErr, err))
			info.Truncated = true
			song.Truncated = true
		}
		song.Tracks = append(song.Tracks, info)
	}

	slices.SortStableFunc(song.Events, func(a, b RawEvent) int {
		return cmp.Compare(a.Tick, b.Tick)
	})

	opts.Logger.Debug("MIDI extracted",
		"format", song.Format,
		"division", song.Division,
		"tracks", len(song.Tracks),
		"events", len(song.Events),
		"truncated", song.Truncated)
	return song, nil
}

func readHeader(r *Reader) (*Song, error) {
	tag, err := r.ReadBytes(4)
	if err != nil || string(tag) != "MThd" {
		return nil, fmt.Errorf("%w: missing MThd signature", ErrInvalidHeader)
	}
	length, err := r.ReadBE32()
	if err != nil || length < 6 {
		return nil, fmt.Errorf("%w: header length", ErrInvalidHeader)
	}
	hdr, err := r.Sub(int(length))
	if err != nil {
		return nil, fmt.Errorf("%w: header truncated", ErrInvalidHeader)
	}
	// Sub guarantees at least six bytes here.
	format, _ := hdr.ReadBE16()
	ntrks, _ := hdr.ReadBE16()
	division, _ := hdr.ReadBE16()

	if division&0x8000 != 0 {
		return nil, fmt.Errorf("%w: SMPTE time division %#04x not supported", ErrInvalidHeader, division)
	}
	if division == 0 {
		return nil, fmt.Errorf("%w: zero ticks per quarter note", ErrInvalidHeader)
	}
	return &Song{
		Format:         format,
		Division:       division,
		DeclaredTracks: int(ntrks),
	}, nil
}

// parseTrack decodes one track body, appending kept events to events. Note
// events of a track that turns out not to be the guitar track are removed
// again before returning; tempo events always stay.
func parseTrack(r *Reader, index int, opts Options, events []RawEvent) ([]RawEvent, TrackInfo, error) {
	info := TrackInfo{Index: index}
	first := len(events)

	var (
		tick    uint32
		running byte
		err     error
	)

scan:
	for r.Remaining() > 0 {
		var delta uint32
		if delta, err = r.ReadVarLen(); err != nil {
			break
		}
		tick += delta

		var status byte
		if status, err = r.Peek(); err != nil {
			break
		}
		if status&0x80 != 0 {
			r.pos++
		} else if running != 0 {
			// Meta and sysex events leave running status in place, unlike SMF 1.0.
			status = running
		} else {
			err = fmt.Errorf("%w: data byte %#02x at offset %d without running status", ErrMalformedTrack, status, r.Pos())
			break
		}

		switch {
		case status == 0xFF:
			var typ byte
			if typ, err = r.ReadU8(); err != nil {
				break scan
			}
			var length uint32
			if length, err = r.ReadVarLen(); err != nil {
				break scan
			}
			var payload []byte
			if payload, err = r.ReadBytes(int(length)); err != nil {
				break scan
			}
			switch typ {
			case metaTrackName:
				info.Name = decodeText(payload)
				if strings.Contains(info.Name, opts.TrackMarker) {
					info.Guitar = true
				}
			case metaTempo:
				if len(payload) == 3 {
					tempo := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
					events = append(events, RawEvent{Tick: tick, Kind: TempoChange, Tempo: tempo})
					info.TempoEvents++
				}
			case metaEndOfTrack:
				break scan
			}

		case status == 0xF0 || status == 0xF7:
			var length uint32
			if length, err = r.ReadVarLen(); err != nil {
				break scan
			}
			if err = r.Skip(int(length)); err != nil {
				break scan
			}

		case status >= 0xF0:
			err = fmt.Errorf("%w: status %#02x at offset %d", ErrMalformedTrack, status, r.Pos()-1)
			break scan

		default:
			running = status
			switch status & 0xF0 {
			case 0x80, 0x90:
				var data []byte
				if data, err = r.ReadBytes(2); err != nil {
					break scan
				}
				note, velocity := data[0], data[1]
				if !opts.inWindow(note) {
					continue
				}
				kind := NoteOff
				if status&0xF0 == 0x90 && velocity > 0 {
					kind = NoteOn
				}
				events = append(events, RawEvent{
					Tick: tick,
					Kind: kind,
					Note: note,
					Lane: int(note - opts.LowNote),
				})
			case 0xC0, 0xD0:
				if err = r.Skip(1); err != nil {
					break scan
				}
			default:
				if err = r.Skip(2); err != nil {
					break scan
				}
			}
		}
	}

	if !info.Guitar {
		kept := events[:first]
		for _, e := range events[first:] {
			if e.Kind == TempoChange {
				kept = append(kept, e)
			}
		}
		events = kept
	}
	for _, e := range events[first:] {
		if e.Kind == NoteOn {
			info.NoteEvents++
		}
	}
	return events, info, err
}

// decodeText converts an SMF text payload to UTF-8. SMF does not declare an
// encoding; Windows-1252 is what most authoring tools write.
func decodeText(b []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
