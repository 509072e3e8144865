package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
)

var terrainColors = map[game.Terrain]color.RGBA{
	game.TerrainGrass:      {R: 62, G: 110, B: 52, A: 255},
	game.TerrainTrench:     {R: 96, G: 74, B: 48, A: 255},
	game.TerrainMountain:   {R: 112, G: 108, B: 104, A: 255},
	game.TerrainMud:        {R: 78, G: 58, B: 34, A: 255},
	game.TerrainBounce:     {R: 220, G: 120, B: 200, A: 255},
	game.TerrainTeleporter: {R: 70, G: 40, B: 120, A: 255},
	game.TerrainStreetV:    {R: 54, G: 54, B: 58, A: 255},
	game.TerrainStreetH:    {R: 54, G: 54, B: 58, A: 255},
	game.TerrainSidewalk:   {R: 150, G: 146, B: 138, A: 255},
	game.TerrainPark:       {R: 74, G: 132, B: 64, A: 255},
	game.TerrainBuilding:   {R: 120, G: 82, B: 70, A: 255},
	game.TerrainCar:        {R: 190, G: 40, B: 40, A: 255},
	game.TerrainPothole:    {R: 28, G: 28, B: 30, A: 255},
	game.TerrainSewer:      {R: 40, G: 70, B: 64, A: 255},
	game.TerrainRoadkill:   {R: 110, G: 30, B: 24, A: 255},
}

var (
	blueColor   = color.RGBA{R: 70, G: 110, B: 210, A: 255}
	redColor    = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	neutralGrey = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	textColor   = color.RGBA{R: 230, G: 230, B: 220, A: 255}
	dimText     = color.RGBA{R: 150, G: 160, B: 150, A: 255}
)

func teamColor(t game.Team) color.RGBA {
	switch t {
	case game.TeamBlue:
		return blueColor
	case game.TeamRed:
		return redColor
	default:
		return neutralGrey
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	e := a.sess.Engine()
	ts := float32(a.sess.Level().TileSize)
	a.drawTerrain(screen, e.Grid(), ts)
	a.drawPowerUps(screen, e, ts)
	a.drawCreatures(screen, e, ts)
	a.drawUnits(screen, e, ts)
	for _, p := range e.Projectiles() {
		vector.FillCircle(screen, float32(p.X), float32(p.Y), 3, teamColor(p.Team), true)
	}

	fw, fh := a.fieldSize()
	a.drawLineup(screen, e.Lineup(), fh)
	a.drawHUD(screen, fh+lineupHeight)
	drawFeed(screen, a.face, e.Feed().Recent(), fw, fh+lineupHeight+hudHeight)

	if e.Outcome().Decided() {
		a.drawBanner(screen, e.Outcome(), fw, fh)
	}
}

func (a *App) drawTerrain(screen *ebiten.Image, g *game.Grid, ts float32) {
	lvl := a.sess.Level()
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			t := g.TerrainAt(x, y)
			px, py := float32(x)*ts, float32(y)*ts
			vector.FillRect(screen, px, py, ts, ts, terrainColors[t], false)
			switch t {
			case game.TerrainTeleporter:
				vector.StrokeCircle(screen, px+ts/2, py+ts/2, ts*0.35, 2, color.RGBA{R: 190, G: 150, B: 255, A: 255}, true)
			case game.TerrainBounce:
				vector.StrokeLine(screen, px+ts*0.25, py+ts*0.6, px+ts/2, py+ts*0.3, 2, textColor, true)
				vector.StrokeLine(screen, px+ts/2, py+ts*0.3, px+ts*0.75, py+ts*0.6, 2, textColor, true)
			case game.TerrainSewer:
				vector.StrokeRect(screen, px+ts*0.2, py+ts*0.2, ts*0.6, ts*0.6, 1, dimText, false)
			case game.TerrainStreetH:
				vector.StrokeLine(screen, px, py+ts/2, px+ts*0.6, py+ts/2, 1, color.RGBA{R: 200, G: 190, B: 90, A: 160}, false)
			case game.TerrainStreetV:
				vector.StrokeLine(screen, px+ts/2, py, px+ts/2, py+ts*0.6, 1, color.RGBA{R: 200, G: 190, B: 90, A: 160}, false)
			}
			vector.StrokeRect(screen, px, py, ts, ts, 0.5, color.RGBA{A: 40}, false)
		}
	}

	// Safe-zone tint.
	for _, team := range []game.Team{game.TeamBlue, game.TeamRed} {
		z := g.SafeZone(team)
		c := teamColor(team)
		c.A = 48
		vector.FillRect(screen, float32(z.StartX)*ts, 0, float32(z.EndX-z.StartX+1)*ts, float32(lvl.Height)*ts, c, false)
	}
}

func (a *App) drawUnits(screen *ebiten.Image, e *game.Engine, ts float32) {
	now := e.Now()
	human := e.Human()
	for _, u := range e.Units() {
		if !u.Alive() {
			continue
		}
		cx, cy := float32(u.Pos.X)*ts+ts/2, float32(u.Pos.Y)*ts+ts/2
		r := ts * 0.36

		fill := teamColor(u.Team)
		if now < a.flash[u.ID] {
			fill = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		vector.FillCircle(screen, cx, cy, r, fill, true)
		if u.Status.Shield {
			vector.StrokeCircle(screen, cx, cy, r+3, 2, color.RGBA{R: 90, G: 230, B: 240, A: 255}, true)
		}
		if u.Status.SpeedActive(now) {
			vector.StrokeCircle(screen, cx, cy, r+1, 1, color.RGBA{R: 250, G: 230, B: 60, A: 255}, true)
		}
		if u == human {
			vector.StrokeRect(screen, float32(u.Pos.X)*ts+1, float32(u.Pos.Y)*ts+1, ts-2, ts-2, 2, textColor, false)
		}

		dx, dy := u.Facing.Delta()
		vector.StrokeLine(screen, cx, cy, cx+float32(dx)*r*1.3, cy+float32(dy)*r*1.3, 2, textColor, true)

		// Health pips along the top edge.
		pip := (ts - 8) / float32(max(u.MaxHealth, 1))
		for i := 0; i < u.MaxHealth; i++ {
			c := color.RGBA{R: 60, G: 20, B: 20, A: 255}
			if i < u.Health {
				c = color.RGBA{R: 90, G: 220, B: 90, A: 255}
			}
			vector.FillRect(screen, float32(u.Pos.X)*ts+4+float32(i)*pip, float32(u.Pos.Y)*ts+2, pip-1, 3, c, false)
		}

		drawText(screen, a.face, u.Label, int(cx)-7, int(cy)-6, textColor)
	}
}

func (a *App) drawCreatures(screen *ebiten.Image, e *game.Engine, ts float32) {
	for _, c := range e.Hazards() {
		if !c.Alive {
			continue
		}
		cx, cy := float32(c.Pos.X)*ts+ts/2, float32(c.Pos.Y)*ts+ts/2
		vector.FillCircle(screen, cx, cy, ts*0.22, color.RGBA{R: 120, G: 96, B: 80, A: 255}, true)
		dx, dy := c.Facing.Delta()
		vector.StrokeLine(screen, cx, cy, cx-float32(dx)*ts*0.45, cy-float32(dy)*ts*0.45, 1, color.RGBA{R: 220, G: 170, B: 170, A: 255}, true)
	}
}

func (a *App) drawPowerUps(screen *ebiten.Image, e *game.Engine, ts float32) {
	for _, p := range e.PowerUps() {
		cx, cy := float32(p.Pos.X)*ts+ts/2, float32(p.Pos.Y)*ts+ts/2
		vector.FillCircle(screen, cx, cy, ts*0.25, color.RGBA{R: 250, G: 210, B: 70, A: 255}, true)
		if p.Type.Name != "" {
			drawText(screen, a.face, strings.ToUpper(p.Type.Name[:1]), int(cx)-3, int(cy)-6, color.RGBA{A: 255})
		}
	}
}

func (a *App) drawLineup(screen *ebiten.Image, lineup []game.LineupEntry, top int) {
	fw, _ := a.fieldSize()
	vector.FillRect(screen, 0, float32(top), float32(fw), lineupHeight, color.RGBA{R: 20, G: 24, B: 20, A: 255}, false)
	x := 6
	for _, l := range lineup {
		c := teamColor(l.Team)
		if l.Creature {
			c = color.RGBA{R: 170, G: 140, B: 120, A: 255}
		}
		drawText(screen, a.face, l.Label, x, top+3, c)
		x += 7*len(l.Label) + 8
		if x > fw-20 {
			drawText(screen, a.face, "...", x, top+3, dimText)
			break
		}
	}
}

func (a *App) drawHUD(screen *ebiten.Image, top int) {
	fw, _ := a.fieldSize()
	vector.FillRect(screen, 0, float32(top), float32(fw), hudHeight, color.RGBA{R: 16, G: 20, B: 16, A: 255}, false)
	vector.StrokeLine(screen, 0, float32(top), float32(fw), float32(top), 1, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	status := a.sess.Status()
	if h := a.sess.Engine().Human(); h != nil && h.Alive() {
		status += fmt.Sprintf("  [%s %s]", h.Label, h.Weapon.Name)
	}
	drawText(screen, a.face, status, 6, top+4, textColor)

	legend := "WASD move  SPACE fire  TAB select  R restart  C chaos  N next  F2 copy debug  ESC quit"
	if a.noticeFrames > 0 {
		legend = a.notice
	}
	drawText(screen, a.face, legend, 6, top+22, dimText)
}

func (a *App) drawBanner(screen *ebiten.Image, o game.Outcome, fw, fh int) {
	vector.FillRect(screen, 0, float32(fh/2-30), float32(fw), 60, color.RGBA{R: 0, G: 0, B: 0, A: 180}, false)
	winner, _ := o.Winner()
	msg := o.Banner()
	drawText(screen, a.face, msg, fw/2-7*len(msg)/2, fh/2-18, teamColor(winner))
	hint := "R to play again, N for the next level"
	drawText(screen, a.face, hint, fw/2-7*len(hint)/2, fh/2+4, dimText)
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
