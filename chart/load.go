package chart

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"ghero-arcade/logger"
	"ghero-arcade/midi"
)

// FindChart returns the first path that exists.
func FindChart(paths []string) (string, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("%w: tried %s", midi.ErrFileNotFound, strings.Join(paths, ", "))
}

// Load parses the MIDI file at path and builds its chart.
func Load(path string, opts midi.Options) (Chart, *midi.Song, error) {
	song, err := midi.ParseFile(path, opts)
	if err != nil {
		return Chart{}, nil, err
	}
	c := Build(song.Events, song.Division)

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	attrs := []any{
		slog.String("path", path),
		slog.Int("notes", len(c.Notes)),
		slog.Int("tempo_changes", len(c.Tempos)-1),
		slog.Float64("end_time", c.EndTime),
	}
	if song.Truncated {
		log.Warn("chart loaded from truncated MIDI file", attrs...)
	} else {
		log.Info("chart loaded", attrs...)
	}
	if !hasGuitarTrack(song) {
		log.Warn("no track matched the guitar marker, chart has no notes", "path", path)
	}
	return c, song, nil
}

func hasGuitarTrack(song *midi.Song) bool {
	for _, t := range song.Tracks {
		if t.Guitar {
			return true
		}
	}
	return false
}
