package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"ghero-arcade/chart"
	"ghero-arcade/midi"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chart.mid>",
	Short: "Prints what the chart parser extracts from a MIDI file",
	Long: `Prints the tracks the chart parser found next to a reference parse of
the same file, then a summary of the resulting chart.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts := chartPath(args)
		return inspect(cmd.OutOrStdout(), args[0], opts)
	},
}

func inspect(w io.Writer, path string, opts midi.Options) error {
	c, song, err := chart.Load(path, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: format %d, %d/%d tracks, %d ticks per quarter", path,
		song.Format, len(song.Tracks), song.DeclaredTracks, song.Division)
	if song.Truncated {
		fmt.Fprint(w, ", truncated")
	}
	fmt.Fprintln(w)

	ref, refErr := readReference(path)
	fmt.Fprintf(w, "\n%-5s %-24s %-6s %8s %8s   %s\n", "track", "name", "guitar", "notes", "tempos", "reference")
	for _, t := range song.Tracks {
		refCol := "-"
		if refErr == nil && t.Index < len(ref) {
			r := ref[t.Index]
			refCol = fmt.Sprintf("%q notes=%d tempos=%d", r.name, r.notes, r.tempos)
		}
		fmt.Fprintf(w, "%-5d %-24q %-6t %8d %8d   %s\n", t.Index, t.Name, t.Guitar, t.NoteEvents, t.TempoEvents, refCol)
	}
	if refErr != nil {
		fmt.Fprintf(w, "reference parse failed: %v\n", refErr)
	}

	fmt.Fprintln(w)
	chart.Dump(w, c)
	return nil
}

type trackSummary struct {
	name          string
	notes, tempos int
}

// readReference summarizes every track with the gomidi reader. Notes are
// counted in the lane window on every track, so a misnamed guitar track
// shows up as notes the chart parser dropped.
func readReference(path string) (tracks []trackSummary, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprint(r))
		}
	}()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	lo := uint8(midi.DefaultLowNote)
	hi := lo + midi.DefaultLanes
	for _, track := range s.Tracks {
		var sum trackSummary
		for _, ev := range track {
			var (
				text              string
				bpm               float64
				channel, key, vel uint8
			)
			switch {
			case ev.Message.GetMetaTrackName(&text):
				if sum.name == "" {
					sum.name = text
				}
			case ev.Message.GetMetaTempo(&bpm):
				sum.tempos++
			case ev.Message.GetNoteOn(&channel, &key, &vel):
				if vel > 0 && key >= lo && key < hi {
					sum.notes++
				}
			}
		}
		tracks = append(tracks, sum)
	}
	return tracks, nil
}
