// Package session runs a sequence of matches for an interactive frontend:
// it owns the current engine, restarts it, walks the level list and writes
// progress when the human side wins.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrewedunn/battlefield-first-edition/internal/config"
	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/levels"
	"github.com/andrewedunn/battlefield-first-edition/internal/progress"
)

// maxDeltaMs caps the projectile step after a stalled frame (window drag,
// debugger pause) so shots do not tunnel across the field.
const maxDeltaMs = 100

// ErrLocked is returned when switching to a level whose predecessor has not
// been won.
var ErrLocked = errors.New("session: level is locked")

// Option customises a Session.
type Option func(*Session)

// WithLevels replaces the embedded level list. Levels are played in the
// given order.
func WithLevels(ls ...*game.LevelConfig) Option {
	return func(s *Session) { s.levels = ls }
}

// WithWeapons replaces the embedded weapon table.
func WithWeapons(ws []game.Weapon) Option {
	return func(s *Session) { s.weapons = ws }
}

// Session is not safe for concurrent use; frontends call it from their
// frame loop only.
type Session struct {
	settings config.Settings
	prog     *progress.Progress
	clock    game.Clock
	logger   zerolog.Logger

	levels  []*game.LevelConfig
	weapons []game.Weapon
	idx     int
	chaos   bool
	seed    int64

	engine   *game.Engine
	lastMs   int64
	recorded bool
}

// New resolves the starting level and builds its first match.
func New(settings config.Settings, prog *progress.Progress, clock game.Clock, logger zerolog.Logger, opts ...Option) (*Session, error) {
	s := &Session{
		settings: settings,
		prog:     prog,
		clock:    clock,
		logger:   logger,
		chaos:    settings.ChaosMode || prog.ChaosMode(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.levels == nil {
		all, err := levels.All()
		if err != nil {
			return nil, err
		}
		s.levels = all
	}
	if len(s.levels) == 0 {
		return nil, fmt.Errorf("%w: no levels", levels.ErrUnknownLevel)
	}
	if s.weapons == nil {
		ws, err := levels.Weapons()
		if err != nil {
			return nil, err
		}
		s.weapons = ws
	}

	s.idx = -1
	for i, l := range s.levels {
		if strings.EqualFold(l.Key, settings.Level) {
			s.idx = i
			break
		}
	}
	if s.idx < 0 {
		return nil, fmt.Errorf("%w: %q", levels.ErrUnknownLevel, settings.Level)
	}

	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart throws the current match away and starts the same level again.
func (s *Session) Restart() error {
	cfg, err := s.settings.GameConfig()
	if err != nil {
		return err
	}
	cfg.ChaosMode = s.chaos
	cfg.Seed = s.settings.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	e, err := game.NewEngine(s.Level(), s.weapons, cfg, game.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", s.Level().Key, err)
	}
	s.engine = e
	s.seed = cfg.Seed
	s.lastMs = s.clock.NowMs()
	s.recorded = false
	return nil
}

// Frame advances the match to the clock's current time and returns the
// events it produced.
func (s *Session) Frame(intent *game.Intent) []game.Event {
	now := s.clock.NowMs()
	delta := now - s.lastMs
	if delta < 0 {
		delta = 0
	}
	if delta > maxDeltaMs {
		delta = maxDeltaMs
	}
	s.lastMs = now

	s.engine.Tick(now, delta, intent)
	events := s.engine.DrainEvents()
	s.recordWin()
	return events
}

func (s *Session) recordWin() {
	if s.recorded {
		return
	}
	winner, ok := s.engine.Outcome().Winner()
	if !ok {
		return
	}
	s.recorded = true
	human := s.engine.Config().HumanTeam
	if human == game.TeamNone || winner != human {
		return
	}
	level := s.Level()
	if err := s.prog.MarkCompleted(level.ID); err != nil {
		s.logger.Error().Err(err).Int("level", level.ID).Msg("failed to save progress")
		return
	}
	s.logger.Info().Str("level", level.Key).Msg("level completed")
}

// ToggleChaos flips chaos mode, saves it and restarts the match.
func (s *Session) ToggleChaos() error {
	if err := s.prog.SetChaosMode(!s.chaos); err != nil {
		return err
	}
	s.chaos = !s.chaos
	return s.Restart()
}

// NextLevel moves to the following level, wrapping to the first. It fails
// with ErrLocked when the next level has not been unlocked yet.
func (s *Session) NextLevel() error {
	next := (s.idx + 1) % len(s.levels)
	if !s.prog.IsUnlocked(s.levels[next].ID) {
		return fmt.Errorf("%w: %s", ErrLocked, s.levels[next].Name)
	}
	s.idx = next
	return s.Restart()
}

// Engine returns the running match.
func (s *Session) Engine() *game.Engine { return s.engine }

// Level returns the level being played.
func (s *Session) Level() *game.LevelConfig { return s.levels[s.idx] }

// Levels returns the playable level list in order.
func (s *Session) Levels() []*game.LevelConfig { return s.levels }

// Chaos reports whether chaos mode is on.
func (s *Session) Chaos() bool { return s.chaos }

// Seed returns the seed of the current match.
func (s *Session) Seed() int64 { return s.seed }

// Progress returns the save the session writes to.
func (s *Session) Progress() *progress.Progress { return s.prog }

// Status is a one-line summary for a HUD.
func (s *Session) Status() string {
	chaos := "off"
	if s.chaos {
		chaos = "on"
	}
	e := s.engine
	return fmt.Sprintf("%s  blue %d  red %d  %ds  chaos %s  seed %d",
		s.Level().Name, e.AliveCount(game.TeamBlue), e.AliveCount(game.TeamRed), e.Elapsed()/1000, chaos, s.seed)
}
