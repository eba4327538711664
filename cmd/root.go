package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghero-arcade/config"
	"ghero-arcade/logger"
	"ghero-arcade/midi"
	"ghero-arcade/rhythm"
)

var (
	cfg    = config.Default()
	envErr = config.FromEnv(&cfg, os.LookupEnv)
	keys   []string
)

var rootCmd = &cobra.Command{
	Use:   "ghero",
	Short: "Five-lane rhythm game driven by MIDI charts",
	Long: `ghero plays Guitar Hero style charts read from the PART GUITAR track
of a Standard MIDI File. Settings come from flags, then GHERO_* environment
variables, then defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envErr != nil {
			return fmt.Errorf("environment: %w", envErr)
		}
		if cmd.Flags().Changed("keys") {
			if len(keys) != rhythm.Lanes {
				return fmt.Errorf("--keys needs %d keys, got %d", rhythm.Lanes, len(keys))
			}
			for i, k := range keys {
				cfg.Keys[i] = strings.ToUpper(k)
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return logger.InitLogger(cfg.LogLevel)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level: debug, info, warn, error")
	f.StringSliceVar(&cfg.MIDIPaths, "midi", cfg.MIDIPaths, "candidate chart files, first existing wins")
	f.BoolVar(&cfg.StrictParse, "strict", cfg.StrictParse, "fail on damaged track chunks instead of truncating")
	f.Float64Var(&cfg.HitWindow, "hit-window", cfg.HitWindow, "seconds either side of a note that count as a hit")
	f.Float64Var(&cfg.GracePeriod, "grace", cfg.GracePeriod, "seconds after the last note before the song is won")
}

// Execute runs the command tree.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// chartPath returns the first argument, or the first configured chart that exists.
func chartPath(args []string) ([]string, midi.Options) {
	paths := cfg.MIDIPaths
	if len(args) > 0 {
		paths = args[:1]
	}
	return paths, midi.Options{Strict: cfg.StrictParse}
}

func judgmentRules() (rhythm.Rules, error) {
	rules := rhythm.DefaultRules()
	rules.HitWindow = cfg.HitWindow
	rules.GracePeriod = cfg.GracePeriod
	return rules, rules.Validate()
}
