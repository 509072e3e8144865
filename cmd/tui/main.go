package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/andrewedunn/battlefield-first-edition/internal/config"
	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/logging"
	"github.com/andrewedunn/battlefield-first-edition/internal/progress"
	"github.com/andrewedunn/battlefield-first-edition/internal/session"
)

type terminal struct {
	screen tcell.Screen
	sess   *session.Session
	logger zerolog.Logger

	pending game.Intent // consumed by the next frame
	notice  string
}

func main() {
	var configDir string
	var logFile string
	flag.StringVar(&configDir, "config", ".", "directory holding battlefield.yaml")
	flag.StringVar(&logFile, "log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	boot := logging.New(os.Stderr, "info", true)
	settings, err := config.Load(configDir)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	out, closeLog, err := openLogOutput(logFile)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to open log file")
	}
	defer closeLog()
	logger := logging.FromFormat(out, settings.LogLevel, settings.LogFormat)

	kv := progress.KV(progress.NewMemoryKV())
	if gkv, err := progress.NewGdataKV(settings.SaveApp); err == nil {
		kv = gkv
	} else {
		logger.Warn().Err(err).Msg("progress will not be saved")
	}
	prog, err := progress.Open(kv)
	if err != nil {
		logger.Warn().Err(err).Msg("discarding unreadable save")
		prog, _ = progress.Open(progress.NewMemoryKV())
	}

	sess, err := session.New(settings, prog, game.NewSystemClock(), logger)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to start session")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to open terminal")
	}
	if err := screen.Init(); err != nil {
		boot.Fatal().Err(err).Msg("failed to init terminal")
	}

	t := &terminal{screen: screen, sess: sess, logger: logger}
	runErr := t.run(time.Duration(settings.FrameMs) * time.Millisecond)
	screen.Fini()
	if runErr != nil {
		boot.Fatal().Err(runErr).Msg("session failed")
	}
}

// openLogOutput returns where engine logs go. An empty path discards them.
func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (t *terminal) run(frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := t.handle(ev)
			if err != nil || quit {
				return err
			}
		case <-ticker.C:
			in := t.pending
			t.pending = game.Intent{}
			t.sess.Frame(&in)
			render(t.screen, t.sess, t.notice)
			t.screen.Show()
		}
	}
}

// handle applies one terminal event. It reports true when the user quits.
func (t *terminal) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return true, nil
		}
		if in, ok := intentForKey(ev); ok {
			if in.Move != game.DirNone {
				t.pending.Move = in.Move
			}
			t.pending.Fire = t.pending.Fire || in.Fire
			return false, nil
		}
		return false, t.command(ev)
	}
	return false, nil
}

func (t *terminal) command(ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyTab {
		t.sess.Engine().CycleSelection()
		return nil
	}
	if ev.Key() != tcell.KeyRune {
		return nil
	}
	switch ev.Rune() {
	case 'r':
		t.notice = ""
		return t.sess.Restart()
	case 'c':
		if err := t.sess.ToggleChaos(); err != nil {
			return err
		}
		t.notice = "chaos toggled"
	case 'n':
		err := t.sess.NextLevel()
		if errors.Is(err, session.ErrLocked) {
			t.notice = "win this level to unlock the next one"
			return nil
		}
		if err != nil {
			return err
		}
		t.screen.Clear()
		t.notice = t.sess.Level().Name
	case 'y':
		if err := clipboard.WriteAll(t.sess.Engine().DebugReport(120)); err != nil {
			t.logger.Warn().Err(err).Msg("clipboard unavailable")
			t.notice = "clipboard unavailable"
			return nil
		}
		t.notice = "debug report copied"
	}
	return nil
}

// intentForKey maps movement and fire keys. Terminals only report presses,
// so every press is one intent.
func intentForKey(ev *tcell.EventKey) (game.Intent, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.Intent{Move: game.DirUp}, true
	case tcell.KeyDown:
		return game.Intent{Move: game.DirDown}, true
	case tcell.KeyLeft:
		return game.Intent{Move: game.DirLeft}, true
	case tcell.KeyRight:
		return game.Intent{Move: game.DirRight}, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w':
			return game.Intent{Move: game.DirUp}, true
		case 's':
			return game.Intent{Move: game.DirDown}, true
		case 'a':
			return game.Intent{Move: game.DirLeft}, true
		case 'd':
			return game.Intent{Move: game.DirRight}, true
		case ' ':
			return game.Intent{Fire: true}, true
		}
	}
	return game.Intent{}, false
}
