package game

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"ghero-arcade/particle"
	"ghero-arcade/rhythm"
)

var (
	backgroundColor = color.RGBA{20, 0, 40, 255}
	accentBlue      = color.RGBA{0, 243, 255, 255}
	accentPink      = color.RGBA{255, 0, 110, 255}
)

// renderer draws a Game. It reads the session only through snapshots.
type renderer struct {
	game *Game
}

func (r *renderer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	if r.game.loadErr != nil {
		r.drawFallback()
		rl.EndDrawing()
		return
	}

	snap := r.game.session.Snapshot(r.game.views)
	r.game.views = snap.Notes

	r.drawHighway(snap)
	r.drawNotes(snap)
	r.drawParticles()
	r.drawHUD(snap)

	switch snap.State {
	case rhythm.NotStarted:
		r.drawStart()
	case rhythm.Won, rhythm.Lost:
		r.drawResult(snap)
	}
	rl.EndDrawing()
}

func (r *renderer) drawHighway(snap rhythm.Snapshot) {
	l := r.game.layout
	hitY := int32(l.hitY)

	for i := range rhythm.Lanes + 1 {
		x := int32(l.frets[0]) - laneSpacing/2 + int32(i*laneSpacing)
		rl.DrawLine(x, hudHeight, x, l.height, rl.Fade(rl.White, 0.2))
	}

	for lane, fx := range l.frets {
		x := int32(fx)
		c := rhythm.LaneColors[lane]
		pressed := rl.IsKeyDown(r.game.keys.keys[lane])
		if pressed {
			rl.DrawRectangleGradientV(x-laneSpacing/2+2, hudHeight, laneSpacing-4, hitY-hudHeight, rl.Fade(c, 0), rl.Fade(c, 0.3))
		}
		alpha := float32(0.3)
		if pressed {
			alpha = 1
		}
		rl.DrawCircle(x, hitY, 25, rl.Fade(c, alpha))
		rl.DrawCircleLines(x, hitY, 28, rl.White)
		if snap.MissFlash[lane] > 0 {
			rl.DrawText("X", x-10, hitY-15, 30, rl.Red)
		}
	}
}

func (r *renderer) drawNotes(snap rhythm.Snapshot) {
	l := r.game.layout
	for _, n := range snap.Notes {
		x := int32(l.frets[n.Lane])
		c := rhythm.LaneColors[n.Lane]
		y := l.noteY(n.TimeToHit)

		if n.Sustain > 0 {
			tailY := l.noteY(n.TimeToHit + n.Sustain)
			headY := y
			if n.Hit {
				headY = l.hitY
			}
			if headY > tailY {
				rl.DrawRectangle(x-5, int32(tailY), 10, int32(headY-tailY), rl.Fade(c, 0.6))
			}
		}
		if !n.Hit && y > -50 && y < float32(l.height)+50 {
			rl.DrawCircle(x, int32(y), 20, c)
			rl.DrawCircle(x, int32(y), 12, rl.White)
		}
	}
}

func (r *renderer) drawParticles() {
	rl.BeginBlendMode(rl.BlendAdditive)
	r.game.pool.Each(func(p *particle.Particle) {
		rl.DrawRectangleV(rl.NewVector2(p.Pos.X, p.Pos.Y), rl.NewVector2(4, 4), rl.Fade(p.Color, p.Life))
	})
	rl.EndBlendMode()
}

func (r *renderer) drawHUD(snap rhythm.Snapshot) {
	w := r.game.layout.width
	rl.DrawRectangle(0, 0, w, hudHeight, rl.Black)
	rl.DrawLine(0, hudHeight, w, hudHeight, accentBlue)

	rl.DrawText(fmt.Sprintf("SCORE: %06d", snap.Score), 20, 20, 30, rl.White)
	comboColor := rl.White
	if snap.Combo > 30 {
		comboColor = accentPink
	}
	rl.DrawText(fmt.Sprintf("COMBO: %dx", snap.Combo), w-200, 20, 30, comboColor)

	const barW = 400
	barX := (w - barW) / 2
	rl.DrawRectangleLines(barX, 25, barW, 20, rl.White)
	hc := rl.Red
	switch {
	case snap.Health > 50:
		hc = rl.Green
	case snap.Health > 25:
		hc = rl.Yellow
	}
	fill := float32(0)
	if snap.MaxHealth > 0 {
		fill = float32(snap.Health / snap.MaxHealth)
	}
	rl.DrawRectangle(barX+2, 27, int32(float32(barW-4)*fill), 16, hc)

	rl.DrawRectangle(0, hudHeight+1, int32(float64(w)*snap.Progress), 3, accentBlue)
}

func (r *renderer) drawStart() {
	l := r.game.layout
	w, h := l.width, l.height
	rl.DrawRectangle(0, 0, w, h, rl.Fade(rl.Black, 0.6))
	centered(r, "GUITAR HERO", 150, 80, accentBlue)
	centered(r, "CONTROLS", 240, 40, rl.White)

	const startY, spacing = 350, 120
	startX := (w - (rhythm.Lanes-1)*spacing) / 2
	for i, name := range r.game.cfg.Keys {
		x := startX + int32(i*spacing)
		rl.DrawCircle(x, startY, 30, rhythm.LaneColors[i])
		rl.DrawCircleLines(x, startY, 33, rl.White)
		rl.DrawText(name, x-rl.MeasureText(name, 30)/2, startY+45, 30, rl.White)
	}
	if int(rl.GetTime()*2)%2 == 0 {
		centered(r, "PRESS [SPACE] TO START", h-150, 30, accentPink)
	}
}

func (r *renderer) drawResult(snap rhythm.Snapshot) {
	w, h := r.game.layout.width, r.game.layout.height
	rl.DrawRectangle(0, 0, w, h, rl.Fade(rl.Black, 0.85))

	msg, mc := "YOU ROCK!", rl.Green
	if snap.State == rhythm.Lost {
		msg, mc = "FAILED", rl.Red
	}
	centered(r, msg, h/2-30, 60, mc)
	centered(r, fmt.Sprintf("FINAL SCORE: %d", snap.Score), h/2+50, 30, rl.White)
	centered(r, fmt.Sprintf("HITS %d/%d  MAX COMBO %d", snap.Stats.Hits, snap.Stats.Notes, snap.Stats.MaxCombo), h/2+95, 20, rl.LightGray)
	centered(r, "PRESS [SPACE] TO PLAY AGAIN OR [ESC] TO QUIT", h/2+140, 20, rl.LightGray)
}

func (r *renderer) drawFallback() {
	h := r.game.layout.height
	centered(r, "NO CHART LOADED", h/2-60, 40, rl.Red)
	centered(r, r.game.loadErr.Error(), h/2, 20, rl.White)
	centered(r, "Place notes.mid under assets/ or pass --midi", h/2+40, 20, rl.LightGray)
}

func centered(r *renderer, text string, y, size int32, c color.RGBA) {
	rl.DrawText(text, r.game.layout.width/2-rl.MeasureText(text, size)/2, y, size, c)
}
