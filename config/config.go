// Package config holds runtime settings. Defaults come from Default, the
// environment is overlaid by FromEnv and command-line flags win over both.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel    = "GHERO_LOG_LEVEL"
	EnvAudioOffset = "GHERO_AUDIO_OFFSET"
	EnvSoundFont   = "GHERO_SOUNDFONT"
	EnvMIDI        = "GHERO_MIDI"
)

// LogLevels are the accepted LogLevel values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the full set of runtime settings.
type Config struct {
	MIDIPaths   []string // first existing file is the chart
	SongPaths   []string
	VocalsPaths []string
	SoundFont   string // renders the chart MIDI when no song file exists

	AudioOffset float64 // seconds added to the audio clock
	Volume      float64
	HitWindow   float64
	GracePeriod float64
	StrictParse bool

	LogLevel string
	Width    int32
	Height   int32
	FPS      int32
	Keys     [5]string
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		MIDIPaths: []string{
			"assets/guitar_musics/notes.mid",
			"assets/notes.mid",
			"assets/guitar_musics/teste.mid",
			"assets/teste.mid",
		},
		SongPaths:   []string{"assets/guitar_musics/song.ogg", "assets/song.ogg"},
		VocalsPaths: []string{"assets/guitar_musics/vocals.ogg", "assets/vocals.ogg"},
		Volume:      1,
		HitWindow:   0.110,
		GracePeriod: 3,
		LogLevel:    "info",
		Width:       1600,
		Height:      900,
		FPS:         60,
		Keys:        [5]string{"A", "S", "D", "F", "G"},
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv overlays environment settings onto cfg. GHERO_MIDI may hold
// several paths separated by commas; they are tried before the defaults.
func FromEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvAudioOffset); ok && v != "" {
		offset, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAudioOffset, err)
		}
		cfg.AudioOffset = offset
	}
	if v, ok := lookup(EnvSoundFont); ok && v != "" {
		cfg.SoundFont = v
	}
	if v, ok := lookup(EnvMIDI); ok && v != "" {
		var paths []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.MIDIPaths = append(paths, cfg.MIDIPaths...)
	}
	return nil
}

// Validate reports every problem with cfg.
func (c Config) Validate() error {
	var errs []error
	if len(c.MIDIPaths) == 0 {
		errs = append(errs, errors.New("no chart paths configured"))
	}
	if c.HitWindow <= 0 {
		errs = append(errs, fmt.Errorf("hit window must be positive, got %v", c.HitWindow))
	}
	if c.GracePeriod < 0 {
		errs = append(errs, fmt.Errorf("grace period must not be negative, got %v", c.GracePeriod))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be in [0, 1], got %v", c.Volume))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	seen := map[string]bool{}
	for lane, k := range c.Keys {
		k = strings.ToUpper(k)
		if !ValidKey(k) {
			errs = append(errs, fmt.Errorf("lane %d: unknown key %q", lane, c.Keys[lane]))
			continue
		}
		if seen[k] {
			errs = append(errs, fmt.Errorf("lane %d: key %q bound twice", lane, k))
		}
		seen[k] = true
	}
	return errors.Join(errs...)
}

// NamedKeys are the non-alphanumeric key names a lane may use.
var NamedKeys = []string{"SPACE", "ENTER", "LEFT", "RIGHT", "UP", "DOWN", "LSHIFT", "RSHIFT"}

// ValidKey reports whether name is a single letter or digit, or one of
// NamedKeys. Names are upper case.
func ValidKey(name string) bool {
	if len(name) == 1 {
		c := name[0]
		return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	}
	return slices.Contains(NamedKeys, name)
}
