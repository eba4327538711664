package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghero-arcade/midi"
	"ghero-arcade/midi/miditest"
	"ghero-arcade/rhythm"
)

const eps = 1e-6

func on(tick uint32, lane int) midi.RawEvent {
	return midi.RawEvent{Tick: tick, Kind: midi.NoteOn, Note: uint8(84 + lane), Lane: lane}
}

func off(tick uint32, lane int) midi.RawEvent {
	return midi.RawEvent{Tick: tick, Kind: midi.NoteOff, Note: uint8(84 + lane), Lane: lane}
}

func tempo(tick, micros uint32) midi.RawEvent {
	return midi.RawEvent{Tick: tick, Kind: midi.TempoChange, Tempo: micros}
}

func TestBuild_ConstantTempo(t *testing.T) {
	c := Build([]midi.RawEvent{
		tempo(0, 500000),
		on(480, 0), off(480, 0),
		on(960, 1), off(960, 1),
	}, 480)

	require.Len(t, c.Notes, 2)
	assert.InDelta(t, 1.0, c.Notes[0].Start, eps)
	assert.InDelta(t, 2.0, c.Notes[1].Start, eps)
	assert.Zero(t, c.Notes[0].Sustain)
	assert.InDelta(t, 2.0, c.EndTime, eps)
}

func TestBuild_DefaultTempoWithoutTempoEvents(t *testing.T) {
	c := Build([]midi.RawEvent{on(960, 3)}, 480)
	require.Len(t, c.Notes, 1)
	assert.InDelta(t, 2.0, c.Notes[0].Start, eps)
}

func TestBuild_Sustain(t *testing.T) {
	c := Build([]midi.RawEvent{tempo(0, 500000), on(0, 2), off(240, 2)}, 480)

	require.Len(t, c.Notes, 1)
	n := c.Notes[0]
	assert.Equal(t, 2, n.Lane)
	assert.InDelta(t, 0.0, n.Start, eps)
	assert.InDelta(t, 0.5, n.Sustain, eps)
	assert.True(t, n.Active)
	assert.False(t, n.Hit)
	assert.InDelta(t, 0.5, c.EndTime, eps)
}

func TestBuild_TempoChangeAffectsLaterTicksOnly(t *testing.T) {
	c := Build([]midi.RawEvent{
		tempo(0, 500000),
		on(480, 0),
		tempo(480, 250000), // 240 BPM from tick 480
		off(960, 0),
		on(960, 1),
	}, 480)

	require.Len(t, c.Notes, 2)
	assert.InDelta(t, 1.0, c.Notes[0].Start, eps)
	assert.InDelta(t, 0.5, c.Notes[0].Sustain, eps)
	assert.InDelta(t, 1.5, c.Notes[1].Start, eps)

	require.Len(t, c.Tempos, 2)
	assert.Equal(t, uint32(480), c.Tempos[1].Tick)
	assert.InDelta(t, 1.0, c.Tempos[1].Seconds, eps)
	assert.InDelta(t, 1.5, c.SecondsAt(960), eps)
	assert.InDelta(t, 1.75, c.SecondsAt(1200), eps)
}

func TestBuild_UnmatchedNotes(t *testing.T) {
	c := Build([]midi.RawEvent{
		off(0, 4), // no open note, ignored
		on(0, 1),
		on(240, 1), // replaces the open note on lane 1
		off(480, 1),
		on(960, 3), // never closed
	}, 480)

	require.Len(t, c.Notes, 3)
	assert.Zero(t, c.Notes[0].Sustain, "replaced note becomes a tap")
	assert.InDelta(t, 0.5, c.Notes[1].Sustain, eps)
	assert.Zero(t, c.Notes[2].Sustain, "trailing note-on becomes a tap")
	assert.InDelta(t, 2.0, c.EndTime, eps)
}

func TestBuild_Empty(t *testing.T) {
	c := Build(nil, 480)
	assert.Empty(t, c.Notes)
	assert.Zero(t, c.EndTime)
}

func TestChart_Offset(t *testing.T) {
	c := Build([]midi.RawEvent{on(0, 0), off(480, 0)}, 480)
	shifted := c.Offset(2)

	assert.InDelta(t, 2.0, shifted.Notes[0].Start, eps)
	assert.InDelta(t, 3.0, shifted.EndTime, eps)
	assert.InDelta(t, 0.0, c.Notes[0].Start, eps, "original must be untouched")
}

func TestScenarioA_EndToEnd(t *testing.T) {
	data, err := miditest.GuitarChart(480,
		[]miditest.Tempo{{Tick: 0, Micros: 500000}},
		[]miditest.Note{{Tick: 0, Length: 240, Lane: 2}},
	)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "notes.mid")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, song, err := Load(path, midi.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, song.Truncated)

	require.Len(t, c.Notes, 1)
	assert.Equal(t, 2, c.Notes[0].Lane)
	assert.InDelta(t, 0.0, c.Notes[0].Start, eps)
	assert.InDelta(t, 0.5, c.Notes[0].Sustain, eps)
}

func TestBuild_WideWindowStaysPlayable(t *testing.T) {
	data, err := miditest.GuitarChart(480, nil, []miditest.Note{
		{Tick: 480, Length: 240, Lane: 5},
		{Tick: 960, Lane: 0},
	})
	require.NoError(t, err)
	song, err := midi.Parse(data, midi.Options{Lanes: 6})
	require.NoError(t, err)

	c := Build(song.Events, song.Division)
	for _, n := range c.Notes {
		require.Less(t, n.Lane, rhythm.Lanes)
	}

	var clock rhythm.ManualClock
	s := rhythm.NewSession(c.Notes, c.EndTime, rhythm.DefaultRules())
	require.NoError(t, s.Begin(&clock))
	assert.NotPanics(t, func() {
		s.Update(2.0, rhythm.Input{})
		s.Update(10.0, rhythm.Input{})
	})
}

func TestFindChart(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "teste.mid")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))

	got, err := FindChart([]string{filepath.Join(dir, "notes.mid"), dir, present})
	require.NoError(t, err)
	assert.Equal(t, present, got)

	_, err = FindChart([]string{filepath.Join(dir, "missing.mid")})
	assert.ErrorIs(t, err, midi.ErrFileNotFound)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "none.mid"), midi.DefaultOptions())
	assert.ErrorIs(t, err, midi.ErrFileNotFound)
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, Build([]midi.RawEvent{on(0, 0), off(480, 0), on(480, 4)}, 480))

	out := buf.String()
	assert.Contains(t, out, "Total notes: 2")
	assert.Contains(t, out, "Sustained notes: 1")
	assert.Contains(t, out, "orange: 1 notes, first at 1.00s")
	assert.Contains(t, out, "red   : no notes")

	buf.Reset()
	Dump(&buf, Chart{})
	assert.Equal(t, "No notes in chart\n", buf.String())
}
