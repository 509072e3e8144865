package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/andrewedunn/battlefield-first-edition/internal/config"
	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/logging"
	"github.com/andrewedunn/battlefield-first-edition/internal/progress"
	"github.com/andrewedunn/battlefield-first-edition/internal/session"
)

func main() {
	boot := logging.New(os.Stderr, "info", true)
	settings, err := config.Load(".")
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.FromFormat(os.Stderr, settings.LogLevel, settings.LogFormat)

	prog := openProgress(settings.SaveApp, logger)
	sess, err := session.New(settings, prog, game.NewSystemClock(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start session")
	}

	app := newApp(sess, logger)
	w, h := app.Layout(0, 0)
	ebiten.SetWindowTitle("Battlefield First Edition")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(int(1000 / settings.FrameMs))
	if err := ebiten.RunGame(app); err != nil {
		logger.Fatal().Err(err).Msg("game exited")
	}
}

// openProgress falls back to an in-memory save when the platform has no
// data directory; wins are then forgotten on exit.
func openProgress(appName string, logger zerolog.Logger) *progress.Progress {
	var kv progress.KV
	gkv, err := progress.NewGdataKV(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("progress will not be saved")
		kv = progress.NewMemoryKV()
	} else {
		kv = gkv
	}
	p, err := progress.Open(kv)
	if err != nil {
		logger.Warn().Err(err).Msg("discarding unreadable save")
		p, _ = progress.Open(progress.NewMemoryKV())
	}
	return p
}
