package game

import (
	"fmt"
	"math/rand"
)

// TestSim is a headless match harness for tests and batch runs. It builds a
// small level in code, drives Engine.Tick on a manual clock and exposes the
// event log.
type TestSim struct {
	Level   *LevelConfig
	Engine  *Engine
	Clock   *ManualClock
	FrameMs int64

	cfg     Config
	weapons []Weapon
	rng     *rand.Rand
	units   []unitSpec
	verbose bool
	ticked  bool
}

type unitSpec struct {
	team   Team
	cell   Cell
	facing Direction
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // grid size, seed, config, rules: applied first
	simOptTerrain                      // terrain painting, after the base grid exists
	simOptUnit                         // roster entries
	simOptEngine                       // tweaks to the built engine
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithGrid sets the grid size and tile size.
func WithGrid(w, h int, tileSize float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Level.Width = w
		ts.Level.Height = h
		ts.Level.TileSize = tileSize
		ts.Level.Rules.HitRadius = tileSize / 2
		ts.Level.Creatures.HitRadius = tileSize / 2
	}}
}

// WithBase sets the terrain every cell starts as.
func WithBase(t Terrain) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.Level.Base = t }}
}

// WithSafeZones sets both teams' reserved columns.
func WithSafeZones(blue, red SafeZone) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Level.SafeZones = SafeZones{Blue: blue, Red: red}
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithChaos toggles chaos mode.
func WithChaos(on bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.ChaosMode = on }}
}

// WithHuman hands control of team's first unit to Step intents.
func WithHuman(team Team) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.HumanTeam = team }}
}

// WithAITeams attaches AI controllers.
func WithAITeams(teams ...Team) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg.AITeams = teams }}
}

// WithAI overrides the AI tuning.
func WithAI(cfg AIConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.Level.AI = cfg }}
}

// WithRules edits the movement and combat constants.
func WithRules(fn func(*Rules)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { fn(&ts.Level.Rules) }}
}

// WithPowerUps configures the power-up spawner.
func WithPowerUps(cfg PowerUpConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.Level.PowerUps = cfg }}
}

// WithRoadkill configures the roadkill spawner.
func WithRoadkill(cfg SpawnerConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.Level.Roadkill = cfg }}
}

// WithCreatures configures the creature spawner. Zero fields keep defaults.
func WithCreatures(cfg CreatureConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		c := &ts.Level.Creatures
		c.SpawnerConfig = cfg.SpawnerConfig
		if cfg.Name != "" {
			c.Name = cfg.Name
		}
		if cfg.StepMs != 0 {
			c.StepMs = cfg.StepMs
		}
		if cfg.BiteDamage != 0 {
			c.BiteDamage = cfg.BiteDamage
		}
		if cfg.HitRadius != 0 {
			c.HitRadius = cfg.HitRadius
		}
	}}
}

// WithWeapons replaces the weapon table.
func WithWeapons(ws ...Weapon) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.weapons = ws }}
}

// WithFrame sets the ms advanced by each Step.
func WithFrame(ms int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.FrameMs = ms }}
}

// WithVerbose keeps movement events in the log.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithTerrain paints a single cell.
func WithTerrain(x, y int, t Terrain) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.Level.Features = append(ts.Level.Features, Feature{Terrain: t, Cells: []Cell{{X: x, Y: y}}})
	}}
}

// WithTerrainRect paints a block of cells.
func WithTerrainRect(x, y, w, h int, t Terrain) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.Level.Features = append(ts.Level.Features, Feature{Terrain: t, Rect: &Rect{X: x, Y: y, W: w, H: h}})
	}}
}

// WithTeleporters adds pads, paired in order.
func WithTeleporters(cells ...Cell) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.Level.Teleporters = append(ts.Level.Teleporters, cells...)
	}}
}

// WithUnit adds a unit to team's roster. Labels follow roster order per
// team: B0, B1, ... and R0, R1, ...
func WithUnit(team Team, x, y int, facing Direction) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.units = append(ts.units, unitSpec{team: team, cell: Cell{X: x, Y: y}, facing: facing})
	}}
}

// WithUnitWeapon gives the labelled unit a specific weapon.
func WithUnitWeapon(label string, w Weapon) SimOption {
	return SimOption{simOptEngine, func(ts *TestSim) { ts.Unit(label).Weapon = w }}
}

// WithUnitHealth sets the labelled unit's current health.
func WithUnitHealth(label string, hp int) SimOption {
	return SimOption{simOptEngine, func(ts *TestSim) { ts.Unit(label).Health = hp }}
}

// NewTestSim builds a match from options in ordered passes:
//  1. Infrastructure (grid, seed, config, rules)
//  2. Terrain features
//  3. Units
//  4. Engine construction, then per-unit tweaks
//
// It panics on an invalid setup; harness misuse is a test bug.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Level: &LevelConfig{
			Key:       "test",
			Name:      "Test Range",
			Width:     10,
			Height:    10,
			TileSize:  40,
			Base:      TerrainGrass,
			SafeZones: SafeZones{Blue: SafeZone{StartX: 0, EndX: 0}, Red: SafeZone{StartX: 9, EndX: 9}},
		},
		Clock:   &ManualClock{},
		FrameMs: 16,
		cfg:     Config{Seed: 1, HumanTeam: TeamNone},
		weapons: []Weapon{DefaultWeapon()},
		rng:     rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	applyDefaults(ts.Level)
	for _, kind := range []simOptionKind{simOptInfra, simOptTerrain, simOptUnit} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(ts)
			}
		}
	}

	for _, u := range ts.units {
		r := &ts.Level.Rosters.Blue
		if u.team == TeamRed {
			r = &ts.Level.Rosters.Red
		}
		r.Spawns = append(r.Spawns, u.cell)
	}

	engineOpts := []Option{WithRand(ts.rng), WithMatchID("test")}
	if ts.verbose {
		engineOpts = append(engineOpts, WithVerboseLog())
	}
	e, err := NewEngine(ts.Level, ts.weapons, ts.cfg, engineOpts...)
	if err != nil {
		panic(fmt.Sprintf("test harness: %v", err))
	}
	ts.Engine = e

	counts := map[Team]int{}
	for _, spec := range ts.units {
		u := ts.Unit(fmt.Sprintf("%s%d", teamPrefix(spec.team), counts[spec.team]))
		counts[spec.team]++
		if spec.facing != DirNone {
			u.Facing = spec.facing
		}
	}
	for _, o := range opts {
		if o.kind == simOptEngine {
			o.fn(ts)
		}
	}
	return ts
}

// Unit returns the unit with the given label, panicking if absent.
func (ts *TestSim) Unit(label string) *Unit {
	u := ts.Engine.UnitByLabel(label)
	if u == nil {
		panic("test harness: no unit " + label)
	}
	return u
}

// Now returns the time of the last tick.
func (ts *TestSim) Now() int64 {
	return ts.Clock.NowMs()
}

// TickAt runs one tick at absolute time now.
func (ts *TestSim) TickAt(now int64, in *Intent) {
	delta := now - ts.Clock.NowMs()
	if !ts.ticked {
		delta = 0
		ts.ticked = true
	}
	ts.Clock.Advance(now - ts.Clock.NowMs())
	ts.Engine.Tick(now, delta, in)
}

// Step runs one frame of FrameMs with an optional intent.
func (ts *TestSim) Step(in *Intent) {
	ts.TickAt(ts.Clock.NowMs()+ts.FrameMs, in)
}

// RunTicks advances n frames with no human input.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step(nil)
	}
}

// RunUntil steps until predicate returns true or maxTicks is reached.
// Returns the number of ticks run.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if predicate(ts) {
			return i
		}
		ts.Step(nil)
	}
	return maxTicks
}

// Log returns the engine's event log.
func (ts *TestSim) Log() *EventLog {
	return ts.Engine.Log()
}
