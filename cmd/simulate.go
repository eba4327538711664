package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ghero-arcade/chart"
	"ghero-arcade/midi"
	"ghero-arcade/rhythm"
)

var (
	simFPS       int
	simMissEvery int
)

func init() {
	simulateCmd.Flags().IntVar(&simFPS, "fps", 60, "simulated frame rate")
	simulateCmd.Flags().IntVar(&simMissEvery, "miss-every", 0, "leave every Nth note unplayed (0 plays all)")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [chart.mid]",
	Short: "Plays a chart headlessly with perfect input",
	Long: `Plays a chart against a manual clock at a fixed frame rate with an
autoplayer holding every note, then prints the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if simFPS <= 0 {
			return fmt.Errorf("--fps must be positive, got %d", simFPS)
		}
		paths, opts := chartPath(args)
		path, err := chart.FindChart(paths)
		if err != nil {
			return err
		}
		rules, err := judgmentRules()
		if err != nil {
			return err
		}
		return simulate(cmd.OutOrStdout(), path, opts, rules)
	},
}

func simulate(w io.Writer, path string, opts midi.Options, rules rhythm.Rules) error {
	c, _, err := chart.Load(path, opts)
	if err != nil {
		return err
	}

	played := c.Notes
	if simMissEvery > 0 {
		played = nil
		for i, n := range c.Notes {
			if (i+1)%simMissEvery != 0 {
				played = append(played, n)
			}
		}
	}

	s := rhythm.NewSession(c.Notes, c.EndTime, rules)
	clock := &rhythm.ManualClock{}
	if err := s.Begin(clock); err != nil {
		return err
	}
	auto := rhythm.NewAutoplay(played)
	step := 1 / float64(simFPS)
	frames := 0
	for s.State() == rhythm.Playing {
		clock.Advance(step)
		s.Update(clock.Now(), auto.Input(clock.Now()))
		frames++
	}

	st := s.Stats()
	fmt.Fprintf(w, "chart:        %s\n", path)
	fmt.Fprintf(w, "result:       %s after %.2fs (%d frames)\n", s.State(), s.Now(), frames)
	fmt.Fprintf(w, "score:        %d\n", s.Score())
	fmt.Fprintf(w, "health:       %.0f\n", s.Health())
	fmt.Fprintf(w, "hits:         %d/%d\n", st.Hits, st.Notes)
	fmt.Fprintf(w, "misses:       %d\n", st.Misses)
	fmt.Fprintf(w, "ghosts:       %d\n", st.GhostPresses)
	fmt.Fprintf(w, "broken holds: %d\n", st.BrokenSustains)
	fmt.Fprintf(w, "max combo:    %d\n", st.MaxCombo)
	return nil
}
