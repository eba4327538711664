// Package game runs the playable window: it feeds keyboard input and the
// audio clock into a judgment session and draws the result with raylib.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"ghero-arcade/audio"
	"ghero-arcade/chart"
	"ghero-arcade/config"
	"ghero-arcade/logger"
	"ghero-arcade/midi"
	"ghero-arcade/particle"
	"ghero-arcade/rhythm"
)

// Game is one window session. A chart that failed to load leaves the game
// showing a fallback screen instead of the highway.
type Game struct {
	cfg      config.Config
	rules    rhythm.Rules
	chart    chart.Chart
	loadErr  error
	keys     keyboard
	layout   layout
	audio    *audio.Manager
	pool     *particle.Pool
	emitter  *particle.Emitter
	session  *rhythm.Session
	renderer *renderer
	views    []rhythm.NoteView
	log      *slog.Logger
}

// New loads the chart and backing audio named by cfg.
func New(cfg config.Config) (*Game, error) {
	kb, err := newKeyboard(cfg.Keys)
	if err != nil {
		return nil, err
	}
	rules := rhythm.DefaultRules()
	rules.HitWindow = cfg.HitWindow
	rules.GracePeriod = cfg.GracePeriod
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		rules:  rules,
		keys:   kb,
		layout: newLayout(cfg.Width, cfg.Height),
		pool:   particle.NewPool(particle.DefaultCapacity, nil),
		log:    logger.GetLogger(),
	}
	g.emitter = particle.NewEmitter(g.pool, g.layout.anchors())
	g.renderer = &renderer{game: g}

	path, err := chart.FindChart(cfg.MIDIPaths)
	if err == nil {
		g.chart, _, err = chart.Load(path, midi.Options{Strict: cfg.StrictParse})
	}
	if err != nil {
		g.loadErr = err
		g.log.Error("chart unavailable", "err", err)
		return g, nil
	}

	g.audio = audio.NewManager(audio.WithOffset(cfg.AudioOffset))
	g.loadAudio(path)
	g.newSession()
	return g, nil
}

// loadAudio queues the best available backing track. Audio failures are
// logged and the game runs on the wall clock.
func (g *Game) loadAudio(chartPath string) {
	if err := g.audio.Initialize(); err != nil {
		g.log.Warn("audio unavailable", "err", err)
		return
	}
	g.audio.SetVolume(g.cfg.Volume)

	_, songErr := g.audio.LoadSong(g.cfg.SongPaths...)
	if songErr == nil {
		if _, err := g.audio.LoadVocals(g.cfg.VocalsPaths...); err != nil {
			g.log.Debug("no vocals", "err", err)
		}
		return
	}
	g.log.Info("no song file", "err", songErr)

	err := g.audio.LoadSoundFont(g.cfg.SoundFont, chartPath)
	if err == nil {
		return
	}
	if !errors.Is(err, audio.ErrNoSoundFont) {
		g.log.Warn("soundfont rendering failed", "err", err)
	}
	if err := g.audio.LoadSynth(g.chart.Notes); err != nil {
		g.log.Warn("synth track failed", "err", err)
	}
}

func (g *Game) newSession() {
	g.pool.Clear()
	g.session = rhythm.NewSession(g.chart.Notes, g.chart.EndTime, g.rules, rhythm.WithSink(g.emitter))
}

// Run opens the window and loops until it is closed or ESC is pressed.
func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(g.cfg.Width, g.cfg.Height, "Guitar Hero")
	defer rl.CloseWindow()
	rl.SetTargetFPS(g.cfg.FPS)

	defer func() {
		if g.audio != nil {
			if err := g.audio.Cleanup(); err != nil {
				g.log.Warn("audio cleanup", "err", err)
			}
		}
	}()

	for !rl.WindowShouldClose() {
		g.resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		g.update(rl.GetFrameTime())
		g.renderer.draw()
	}
	g.log.Info("window closed")
}

func (g *Game) resize(width, height int32) {
	if width == g.layout.width && height == g.layout.height {
		return
	}
	g.layout = newLayout(width, height)
	g.emitter.SetAnchors(g.layout.anchors())
}

func (g *Game) update(dt float32) {
	if g.loadErr != nil {
		return
	}
	switch g.session.State() {
	case rhythm.NotStarted:
		if rl.IsKeyPressed(rl.KeySpace) {
			if err := g.session.Begin(g.audio); err != nil {
				g.log.Error("start failed", "err", err)
			}
		}
	case rhythm.Playing:
		g.session.Update(g.audio.Now(), g.keys.poll())
		if g.session.State() != rhythm.Playing {
			g.audio.Stop()
		}
	case rhythm.Won, rhythm.Lost:
		if rl.IsKeyPressed(rl.KeySpace) {
			g.restart()
		}
	}
	g.pool.Advance(dt)
}

// restart reloads the backing track from the start and resets the session.
func (g *Game) restart() {
	if err := g.audio.Reset(); err != nil {
		g.log.Warn("audio reset", "err", err)
	}
	path, _ := chart.FindChart(g.cfg.MIDIPaths)
	g.loadAudio(path)
	g.newSession()
}
