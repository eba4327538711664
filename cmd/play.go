package cmd

import (
	"github.com/spf13/cobra"

	"ghero-arcade/game"
)

func init() {
	f := playCmd.Flags()
	f.StringSliceVar(&cfg.SongPaths, "song", cfg.SongPaths, "candidate backing track files (.ogg, .mp3, .wav)")
	f.StringSliceVar(&cfg.VocalsPaths, "vocals", cfg.VocalsPaths, "candidate vocal track files")
	f.StringVar(&cfg.SoundFont, "soundfont", cfg.SoundFont, "SoundFont used to render the chart when no song file exists")
	f.Float64Var(&cfg.AudioOffset, "offset", cfg.AudioOffset, "seconds added to the audio clock")
	f.Float64Var(&cfg.Volume, "volume", cfg.Volume, "output volume in [0, 1]")
	f.Int32Var(&cfg.Width, "width", cfg.Width, "window width")
	f.Int32Var(&cfg.Height, "height", cfg.Height, "window height")
	f.Int32Var(&cfg.FPS, "fps", cfg.FPS, "target frame rate")
	f.StringSliceVar(&keys, "keys", cfg.Keys[:], "lane keys, green to orange")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [chart.mid]",
	Short: "Opens the game window",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.MIDIPaths = args
		}
		g, err := game.New(cfg)
		if err != nil {
			return err
		}
		g.Run()
		return nil
	},
}
