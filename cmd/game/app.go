package main

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/session"
)

const (
	hudHeight     = 44 // status and key legend under the field
	lineupHeight  = 20 // eliminated line-up strip
	flashMs       = 150
	noticeFrames  = 150
	debugLogTicks = 120
)

// App adapts a Session to ebiten's Game interface.
type App struct {
	sess   *session.Session
	logger zerolog.Logger
	face   text.Face

	flash        map[int]int64 // unit id -> engine ms the hit flash ends
	notice       string
	noticeFrames int
}

func newApp(sess *session.Session, logger zerolog.Logger) *App {
	return &App{
		sess:   sess,
		logger: logger,
		face:   text.NewGoXFace(basicfont.Face7x13),
		flash:  make(map[int]int64),
	}
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := a.handleKeys(); err != nil {
		return err
	}

	for _, ev := range a.sess.Frame(a.intent()) {
		if ev.Kind == game.EventUnitDamaged {
			a.flash[ev.UnitID] = ev.TimeMs + flashMs
		}
	}
	if a.noticeFrames > 0 {
		a.noticeFrames--
	}
	return nil
}

// intent reads held keys. Movement keys repeat while held; the engine's
// cooldown paces them.
func (a *App) intent() *game.Intent {
	in := &game.Intent{Fire: ebiten.IsKeyPressed(ebiten.KeySpace)}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		in.Move = game.DirUp
	case ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		in.Move = game.DirDown
	case ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		in.Move = game.DirLeft
	case ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		in.Move = game.DirRight
	}
	return in
}

// handleKeys processes edge-triggered commands.
func (a *App) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		a.sess.Engine().CycleSelection()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.resetFlash()
		return a.sess.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		a.resetFlash()
		if err := a.sess.ToggleChaos(); err != nil {
			return err
		}
		if a.sess.Chaos() {
			a.say("chaos mode on")
		} else {
			a.say("chaos mode off")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		err := a.sess.NextLevel()
		if errors.Is(err, session.ErrLocked) {
			a.say("win this level to unlock the next one")
			return nil
		}
		if err != nil {
			return err
		}
		a.resetFlash()
		a.say(a.sess.Level().Name)
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		if err := clipboard.WriteAll(a.sess.Engine().DebugReport(debugLogTicks)); err != nil {
			a.logger.Warn().Err(err).Msg("clipboard unavailable")
			a.say("clipboard unavailable")
			return nil
		}
		a.say("debug report copied")
	}
	return nil
}

func (a *App) say(msg string) {
	a.notice = msg
	a.noticeFrames = noticeFrames
}

func (a *App) resetFlash() {
	clear(a.flash)
}

func (a *App) fieldSize() (int, int) {
	lvl := a.sess.Level()
	return lvl.Width * int(lvl.TileSize), lvl.Height * int(lvl.TileSize)
}

func (a *App) Layout(_, _ int) (int, int) {
	w, h := a.fieldSize()
	return w + feedPanelWidth, h + lineupHeight + hudHeight
}
