package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "assets/guitar_musics/notes.mid", cfg.MIDIPaths[0])
	assert.Len(t, cfg.MIDIPaths, 4)
	assert.Equal(t, 0.110, cfg.HitWindow)
	assert.Equal(t, 3.0, cfg.GracePeriod)
	assert.Equal(t, [5]string{"A", "S", "D", "F", "G"}, cfg.Keys)
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	err := FromEnv(&cfg, env(map[string]string{
		EnvLogLevel:    "DEBUG",
		EnvAudioOffset: "-0.05",
		EnvSoundFont:   "/tmp/gm.sf2",
		EnvMIDI:        "songs/a.mid, songs/b.mid,",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, -0.05, cfg.AudioOffset)
	assert.Equal(t, "/tmp/gm.sf2", cfg.SoundFont)
	assert.Equal(t, []string{"songs/a.mid", "songs/b.mid"}, cfg.MIDIPaths[:2])
	assert.Len(t, cfg.MIDIPaths, 6)
}

func TestFromEnv_Empty(t *testing.T) {
	cfg := Default()
	require.NoError(t, FromEnv(&cfg, env(map[string]string{EnvLogLevel: ""})))
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv_BadOffset(t *testing.T) {
	cfg := Default()
	err := FromEnv(&cfg, env(map[string]string{EnvAudioOffset: "soon"}))
	assert.ErrorContains(t, err, EnvAudioOffset)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no paths", func(c *Config) { c.MIDIPaths = nil }, "no chart paths"},
		{"zero window", func(c *Config) { c.HitWindow = 0 }, "hit window"},
		{"negative grace", func(c *Config) { c.GracePeriod = -1 }, "grace period"},
		{"loud", func(c *Config) { c.Volume = 1.5 }, "volume"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"window", func(c *Config) { c.Width = 0 }, "window size"},
		{"fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"unknown key", func(c *Config) { c.Keys[2] = "F13" }, `unknown key "F13"`},
		{"duplicate key", func(c *Config) { c.Keys[4] = "a" }, `key "A" bound twice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range []string{"A", "Z", "0", "9", "SPACE", "LEFT"} {
		assert.True(t, ValidKey(k), k)
	}
	for _, k := range []string{"", "a", "AB", "F1", "?"} {
		assert.False(t, ValidKey(k), k)
	}
}
