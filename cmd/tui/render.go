package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/session"
)

// cellWidth is the number of terminal columns per grid cell; two keeps
// the field roughly square and fits a unit label.
const cellWidth = 2

var glyphs = map[game.Terrain]rune{
	game.TerrainGrass:      '.',
	game.TerrainTrench:     '=',
	game.TerrainMountain:   '^',
	game.TerrainMud:        '~',
	game.TerrainBounce:     '*',
	game.TerrainTeleporter: '@',
	game.TerrainStreetV:    '|',
	game.TerrainStreetH:    '-',
	game.TerrainSidewalk:   ' ',
	game.TerrainPark:       '"',
	game.TerrainBuilding:   '#',
	game.TerrainCar:        'c',
	game.TerrainPothole:    'o',
	game.TerrainSewer:      '%',
	game.TerrainRoadkill:   'x',
}

var terrainStyles = map[game.TerrainKind]tcell.Style{
	game.KindOpen:        tcell.StyleDefault.Foreground(tcell.ColorGreen),
	game.KindCover:       tcell.StyleDefault.Foreground(tcell.ColorOlive),
	game.KindBlocking:    tcell.StyleDefault.Foreground(tcell.ColorSilver),
	game.KindElevated:    tcell.StyleDefault.Foreground(tcell.ColorMaroon),
	game.KindSlow:        tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown),
	game.KindLaunch:      tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	game.KindWarp:        tcell.StyleDefault.Foreground(tcell.ColorPurple),
	game.KindHazardSpawn: tcell.StyleDefault.Foreground(tcell.ColorTeal),
}

func glyph(t game.Terrain) rune {
	if r, ok := glyphs[t]; ok {
		return r
	}
	return '?'
}

func teamStyle(t game.Team) tcell.Style {
	switch t {
	case game.TeamBlue:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	case game.TeamRed:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
}

func putString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for i, r := range []rune(str) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func render(s tcell.Screen, sess *session.Session, notice string) {
	s.Clear()
	e := sess.Engine()
	g := e.Grid()
	lvl := sess.Level()

	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			t := g.TerrainAt(x, y)
			style := terrainStyles[t.Kind()]
			if g.IsInSafeZone(game.TeamBlue, x) || g.IsInSafeZone(game.TeamRed, x) {
				style = style.Background(tcell.ColorDarkSlateGray)
			}
			r := glyph(t)
			s.SetContent(x*cellWidth, y, r, nil, style)
			s.SetContent(x*cellWidth+1, y, r, nil, style)
		}
	}

	for _, p := range e.PowerUps() {
		putString(s, p.Pos.X*cellWidth, p.Pos.Y, "++", tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGold))
	}
	for _, c := range e.Hazards() {
		if c.Alive {
			putString(s, c.Pos.X*cellWidth, c.Pos.Y, "rr", tcell.StyleDefault.Foreground(tcell.ColorTan).Bold(true))
		}
	}
	human := e.Human()
	for _, u := range e.Units() {
		if !u.Alive() {
			continue
		}
		style := teamStyle(u.Team)
		if u == human {
			style = style.Reverse(true)
		}
		if u.Status.Shield {
			style = style.Underline(true)
		}
		label := u.Label
		if len(label) > cellWidth {
			label = label[:1] + label[len(label)-1:]
		}
		putString(s, u.Pos.X*cellWidth, u.Pos.Y, label, style)
	}
	for _, p := range e.Projectiles() {
		c := g.CellOf(p.X, p.Y)
		if g.InBounds(c.X, c.Y) {
			s.SetContent(c.X*cellWidth, c.Y, 'o', nil, teamStyle(p.Team).Background(tcell.ColorDefault))
		}
	}

	row := lvl.Height + 1
	putString(s, 0, row, sess.Status(), tcell.StyleDefault)
	if h := human; h != nil && h.Alive() {
		putString(s, 0, row+1, fmt.Sprintf("%s  %s  hp %d/%d", h.Label, h.Weapon.Name, h.Health, h.MaxHealth), tcell.StyleDefault.Foreground(tcell.ColorAqua))
	}
	if o := e.Outcome(); o.Decided() {
		putString(s, 0, row+2, o.Banner()+"  (r restart, n next level)", tcell.StyleDefault.Bold(true))
	} else if notice != "" {
		putString(s, 0, row+2, notice, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	putString(s, 0, row+3, "wasd/arrows move  space fire  tab select  r restart  c chaos  n next  y copy debug  q quit", tcell.StyleDefault.Dim(true))

	// Feed to the right of the field, newest at the bottom.
	feedX := lvl.Width*cellWidth + 2
	entries := e.Feed().Recent()
	if len(entries) > lvl.Height {
		entries = entries[len(entries)-lvl.Height:]
	}
	for i, f := range entries {
		putString(s, feedX, i, fmt.Sprintf("%4d %-5s %s", f.Tick, f.Label, f.Message), teamStyle(f.Team).Background(tcell.ColorDefault))
	}
}
