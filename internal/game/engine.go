package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config selects who controls what in a match.
type Config struct {
	ChaosMode bool
	Seed      int64
	HumanTeam Team   // TeamNone for AI-only matches
	AITeams   []Team // teams driven by an AI controller
}

// DefaultConfig is a human-vs-AI match with blue as the human side.
func DefaultConfig() Config {
	return Config{
		Seed:      1,
		HumanTeam: TeamBlue,
		AITeams:   []Team{TeamRed},
	}
}

// Intent is the human input for one tick.
type Intent struct {
	Move Direction
	Fire bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand injects the random source used by the scheduler and AI.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithMatchID overrides the generated match identifier.
func WithMatchID(id string) Option {
	return func(e *Engine) { e.matchID = id }
}

// WithVerboseLog keeps movement events in the event log.
func WithVerboseLog() Option {
	return func(e *Engine) { e.log = NewEventLog(true) }
}

// Engine owns the whole match state and advances it one tick at a time.
// It is single-threaded; callers serialise access.
type Engine struct {
	level   *LevelConfig
	cfg     Config
	weapons []Weapon
	grid    *Grid

	units []*Unit // roster order: blue then red
	human *Unit

	projectiles []*Projectile
	creatures   []*Creature
	powerUps    []*PowerUp
	ai          []*AIController

	powerUpSpawner  spawner
	roadkillSpawner spawner
	creatureSpawner spawner

	rng     *rand.Rand
	logger  zerolog.Logger
	matchID string

	log     *EventLog
	feed    *Feed
	pending []Event
	lineup  []LineupEntry

	outcome   Outcome
	decidedAt int64
	started   bool
	startMs   int64
	now       int64
	tick      int
	nextID    int
}

// NewEngine builds a match from a validated level and weapon table.
func NewEngine(level *LevelConfig, weapons []Weapon, cfg Config, opts ...Option) (*Engine, error) {
	if level == nil {
		return nil, fmt.Errorf("%w: level is nil", ErrInvalidLevel)
	}
	if len(weapons) == 0 {
		return nil, ErrNoWeapons
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}
	grid, err := BuildGrid(level)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		level:   level,
		cfg:     cfg,
		weapons: weapons,
		grid:    grid,
		logger:  zerolog.Nop(),
		log:     NewEventLog(false),
		feed:    NewFeed(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if e.matchID == "" {
		e.matchID = uuid.NewString()
	}
	e.logger = e.logger.With().Str("match", e.matchID).Str("level", level.Key).Logger()

	e.spawnRoster(TeamBlue, level.Rosters.Blue)
	e.spawnRoster(TeamRed, level.Rosters.Red)

	if cfg.HumanTeam != TeamNone {
		e.human = e.firstAlive(cfg.HumanTeam)
	}
	seen := map[Team]bool{}
	for _, t := range cfg.AITeams {
		if !t.valid() || seen[t] {
			continue
		}
		seen[t] = true
		e.ai = append(e.ai, NewAIController(t, level.AI, cfg.ChaosMode, e.rng.Int63()))
	}

	e.powerUpSpawner = spawner{cfg: level.PowerUps.SpawnerConfig}
	e.roadkillSpawner = spawner{cfg: level.Roadkill}
	e.creatureSpawner = spawner{cfg: level.Creatures.SpawnerConfig}

	e.logger.Info().
		Int("units", len(e.units)).
		Str("human", cfg.HumanTeam.String()).
		Int("ai_controllers", len(e.ai)).
		Bool("chaos", cfg.ChaosMode).
		Int64("seed", cfg.Seed).
		Msg("match created")
	return e, nil
}

func (e *Engine) spawnRoster(team Team, r Roster) {
	for i, c := range r.Spawns {
		w := e.weapons[i%len(e.weapons)]
		u := newUnit(e.newID(), team, i, c, r.Facing, w, e.level.Rules.MaxHealth)
		e.units = append(e.units, u)
	}
}

func (e *Engine) newID() int {
	id := e.nextID
	e.nextID++
	return id
}

// Tick advances the match to nowMs. Phases run in a fixed order; once a
// team has won, Tick only records the time.
func (e *Engine) Tick(nowMs, deltaMs int64, intent *Intent) {
	if !e.started {
		e.started = true
		e.startMs = nowMs
	}
	e.now = nowMs
	if e.outcome.Decided() {
		return
	}
	e.tick++

	// 1. HUMAN: apply this tick's intent to the selected unit.
	e.applyIntent(intent, nowMs)

	// 2. AI: per-team controllers pick and drive their units.
	for _, ai := range e.ai {
		if e.outcome.Decided() {
			break
		}
		ai.Update(e, nowMs)
	}

	// 3. COMBAT: advance projectiles and resolve hits.
	if !e.outcome.Decided() {
		e.advanceProjectiles(deltaMs)
	}

	// 4. STATUS: pickups, then timed effect expiry.
	e.collectPowerUps(nowMs)
	e.expireEffects(nowMs)

	// 5. HAZARDS: spawners and creature behaviour.
	if !e.outcome.Decided() {
		e.updateHazards(nowMs)
	}

	// 6. OUTCOME: eliminations already check the win condition as they
	// happen; a one-sided roster never decides.
	e.checkOutcome()

	e.compact()
}

func (e *Engine) applyIntent(in *Intent, now int64) {
	if in == nil || e.human == nil || !e.human.Alive() {
		return
	}
	if in.Move != DirNone {
		e.MoveUnit(e.human, in.Move, now)
	}
	if in.Fire {
		e.Fire(e.human, now)
	}
}

// MoveUnit moves u one cell in dir, subject to cooldown, animation and
// occupancy rules, then applies any terrain trigger at the destination.
func (e *Engine) MoveUnit(u *Unit, dir Direction, now int64) bool {
	if u == nil || !u.Alive() || dir == DirNone || e.outcome.Decided() {
		return false
	}
	if u.Busy(now) || now < u.nextMoveAt {
		return false
	}
	dst := u.Pos.Step(dir, 1)
	if !e.canEnter(u, dst) {
		return false
	}
	from := u.Pos
	u.Pos = dst
	u.Facing = dir

	rules := e.level.Rules
	dur := rules.MoveDurationMs
	if e.grid.KindAt(dst.X, dst.Y) == KindSlow {
		dur = rules.SlowMoveDurationMs
	}
	if u.Status.SpeedActive(now) {
		dur /= 2
	}
	u.busyUntil = now + dur
	u.nextMoveAt = now + u.MoveCooldown(now, rules.MoveCooldownMs)

	e.emit(Event{Kind: EventUnitMoved, UnitID: u.ID, Label: u.Label, Team: u.Team, Cell: from, To: dst})
	e.applyTrigger(u, now)
	return true
}

// Turn changes u's facing without moving.
func (e *Engine) Turn(u *Unit, dir Direction) bool {
	if u == nil || !u.Alive() || dir == DirNone {
		return false
	}
	if u.Facing == dir {
		return true
	}
	u.Facing = dir
	e.emit(Event{Kind: EventUnitTurned, UnitID: u.ID, Label: u.Label, Team: u.Team, Cell: u.Pos, Detail: dir.String()})
	return true
}

// canEnter reports whether u may stand on c.
func (e *Engine) canEnter(u *Unit, c Cell) bool {
	if e.grid.BlocksUnits(c.X, c.Y) {
		return false
	}
	if e.grid.IsEnemySafeZone(u.Team, c.X) {
		return false
	}
	return e.occupant(c, u) == nil
}

// occupant returns a living unit other than self standing on c.
func (e *Engine) occupant(c Cell, self *Unit) *Unit {
	for _, o := range e.units {
		if o != self && o.Alive() && o.Pos == c {
			return o
		}
	}
	return nil
}

// unitAt returns the first living unit on c in roster order.
func (e *Engine) unitAt(c Cell) *Unit {
	return e.occupant(c, nil)
}

// SelectUnit makes the unit with id the human-controlled unit.
func (e *Engine) SelectUnit(id int) bool {
	if e.cfg.HumanTeam == TeamNone {
		return false
	}
	u := e.UnitByID(id)
	if u == nil || !u.Alive() || u.Team != e.cfg.HumanTeam {
		return false
	}
	e.human = u
	return true
}

// CycleSelection moves human control to the next living teammate.
func (e *Engine) CycleSelection() bool {
	if e.human == nil {
		return false
	}
	team := e.teamUnits(e.cfg.HumanTeam)
	start := 0
	for i, u := range team {
		if u == e.human {
			start = i
		}
	}
	for i := 1; i <= len(team); i++ {
		u := team[(start+i)%len(team)]
		if u.Alive() {
			e.human = u
			return true
		}
	}
	return false
}

func (e *Engine) firstAlive(team Team) *Unit {
	for _, u := range e.units {
		if u.Team == team && u.Alive() {
			return u
		}
	}
	return nil
}

func (e *Engine) teamUnits(team Team) []*Unit {
	var out []*Unit
	for _, u := range e.units {
		if u.Team == team {
			out = append(out, u)
		}
	}
	return out
}

// damageUnit lowers u's health and eliminates it at zero.
func (e *Engine) damageUnit(u *Unit, amount, sourceID int, source string) {
	if !u.Alive() {
		return
	}
	u.Health -= amount
	e.emit(Event{
		Kind:    EventUnitDamaged,
		UnitID:  u.ID,
		Label:   u.Label,
		Team:    u.Team,
		OtherID: sourceID,
		Cell:    u.Pos,
		Amount:  amount,
		Detail:  fmt.Sprintf("%s, %d hp left", source, max(u.Health, 0)),
	})
	if u.Health <= 0 {
		e.eliminate(u, sourceID)
	}
}

// eliminate removes u from play. Repeated calls are no-ops.
func (e *Engine) eliminate(u *Unit, sourceID int) {
	if u.eliminated {
		return
	}
	u.eliminated = true
	u.Health = 0
	u.clearEffects()
	e.lineup = append(e.lineup, LineupEntry{Label: u.Label, Team: u.Team, TimeMs: e.now})
	e.emit(Event{Kind: EventUnitEliminated, UnitID: u.ID, Label: u.Label, Team: u.Team, OtherID: sourceID, Cell: u.Pos})
	e.logger.Debug().Str("unit", u.Label).Str("team", u.Team.String()).Int("tick", e.tick).Msg("unit eliminated")

	if u == e.human {
		e.human = e.firstAlive(u.Team)
	}
	e.checkOutcome()
}

func (e *Engine) checkOutcome() {
	if e.outcome.Decided() || len(e.teamUnits(TeamBlue)) == 0 || len(e.teamUnits(TeamRed)) == 0 {
		return
	}
	o := DetermineOutcome(e.AliveCount(TeamBlue), e.AliveCount(TeamRed))
	if !o.Decided() {
		return
	}
	e.outcome = o
	e.decidedAt = e.now
	winner, _ := o.Winner()
	e.emit(Event{Kind: EventTeamWins, UnitID: -1, Label: "--", Team: winner, OtherID: -1, Detail: o.Banner()})
	e.logger.Info().Str("outcome", o.String()).Int("tick", e.tick).Int64("elapsed_ms", e.Elapsed()).Msg("match decided")
}

// emit stamps ev and queues it for the log, the feed and DrainEvents.
func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	ev.TimeMs = e.now
	e.pending = append(e.pending, ev)
	e.log.Add(ev)
	if msg, ok := feedLine(ev); ok {
		e.feed.Add(FeedEntry{Tick: ev.Tick, TimeMs: ev.TimeMs, Label: ev.Label, Team: ev.Team, Message: msg})
	}
}

// compact drops dead projectiles and creatures.
func (e *Engine) compact() {
	projectiles := e.projectiles[:0]
	for _, p := range e.projectiles {
		if p.active {
			projectiles = append(projectiles, p)
		}
	}
	for i := len(projectiles); i < len(e.projectiles); i++ {
		e.projectiles[i] = nil
	}
	e.projectiles = projectiles

	creatures := e.creatures[:0]
	for _, c := range e.creatures {
		if c.Alive {
			creatures = append(creatures, c)
		}
	}
	for i := len(creatures); i < len(e.creatures); i++ {
		e.creatures[i] = nil
	}
	e.creatures = creatures
}

// DrainEvents returns and clears the events queued since the last call.
func (e *Engine) DrainEvents() []Event {
	out := e.pending
	e.pending = nil
	return out
}

// Units returns every unit in roster order, eliminated ones included.
func (e *Engine) Units() []*Unit { return e.units }

// UnitByID looks up a unit.
func (e *Engine) UnitByID(id int) *Unit {
	for _, u := range e.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UnitByLabel looks up a unit by its display label.
func (e *Engine) UnitByLabel(label string) *Unit {
	for _, u := range e.units {
		if u.Label == label {
			return u
		}
	}
	return nil
}

// Human returns the selected unit, or nil.
func (e *Engine) Human() *Unit { return e.human }

// Projectiles returns the live projectiles.
func (e *Engine) Projectiles() []*Projectile { return e.projectiles }

// Hazards returns the live creatures.
func (e *Engine) Hazards() []*Creature { return e.creatures }

// PowerUps returns the uncollected power-ups.
func (e *Engine) PowerUps() []*PowerUp { return e.powerUps }

// Grid returns the terrain map.
func (e *Engine) Grid() *Grid { return e.grid }

// Level returns the level descriptor the match was built from.
func (e *Engine) Level() *LevelConfig { return e.level }

// Config returns the match configuration.
func (e *Engine) Config() Config { return e.cfg }

// Outcome returns the current result.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Log returns the full event log.
func (e *Engine) Log() *EventLog { return e.log }

// Feed returns the on-screen event feed.
func (e *Engine) Feed() *Feed { return e.feed }

// Lineup returns everything eliminated so far, in order.
func (e *Engine) Lineup() []LineupEntry { return e.lineup }

// Now returns the time of the latest tick.
func (e *Engine) Now() int64 { return e.now }

// TickCount returns how many ticks have been simulated.
func (e *Engine) TickCount() int { return e.tick }

// MatchID returns the match identifier used in logs.
func (e *Engine) MatchID() string { return e.matchID }

// Elapsed returns ms since the first tick.
func (e *Engine) Elapsed() int64 {
	if !e.started {
		return 0
	}
	return e.now - e.startMs
}

// AliveCount returns the number of living units on team.
func (e *Engine) AliveCount(team Team) int {
	n := 0
	for _, u := range e.units {
		if u.Team == team && u.Alive() {
			n++
		}
	}
	return n
}
