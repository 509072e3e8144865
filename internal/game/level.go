package game

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// LevelConfig is a declarative level descriptor. Everything the engine
// needs to lay out a match comes from here.
type LevelConfig struct {
	ID       int     `yaml:"id"`
	Key      string  `yaml:"key"`
	Name     string  `yaml:"name"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	TileSize float64 `yaml:"tileSize"`
	Base     Terrain `yaml:"base"`

	SafeZones   SafeZones `yaml:"safeZones"`
	Features    []Feature `yaml:"features"`
	Teleporters []Cell    `yaml:"teleporters"`
	Rosters     Rosters   `yaml:"rosters"`

	Rules     Rules          `yaml:"rules"`
	AI        AIConfig       `yaml:"ai"`
	PowerUps  PowerUpConfig  `yaml:"powerUps"`
	Roadkill  SpawnerConfig  `yaml:"roadkill"`
	Creatures CreatureConfig `yaml:"creatures"`
}

// SafeZones holds the reserved columns of both teams.
type SafeZones struct {
	Blue SafeZone `yaml:"blue"`
	Red  SafeZone `yaml:"red"`
}

// Feature paints terrain onto the grid. Features are applied in file order,
// so later ones overwrite earlier ones.
type Feature struct {
	Terrain       Terrain   `yaml:"terrain"`
	Rect          *Rect     `yaml:"rect"`
	Cells         []Cell    `yaml:"cells"`
	OnlyOver      []Terrain `yaml:"onlyOver"`      // only replace these terrains
	SkipSafeZones bool      `yaml:"skipSafeZones"` // leave safe-zone columns alone
}

// Rect is an axis-aligned block of cells.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (f Feature) cells() []Cell {
	out := append([]Cell(nil), f.Cells...)
	if f.Rect != nil {
		for y := f.Rect.Y; y < f.Rect.Y+f.Rect.H; y++ {
			for x := f.Rect.X; x < f.Rect.X+f.Rect.W; x++ {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// Rosters lists starting cells per team.
type Rosters struct {
	Blue Roster `yaml:"blue"`
	Red  Roster `yaml:"red"`
}

// Roster is one team's starting line-up. Unit i is issued weapon
// i mod len(weapons).
type Roster struct {
	Facing Direction `yaml:"facing"`
	Spawns []Cell    `yaml:"spawns"`
}

// Rules are the per-level movement and combat constants.
type Rules struct {
	MaxHealth          int     `yaml:"maxHealth"`
	MoveCooldownMs     int64   `yaml:"moveCooldownMs"`
	MoveDurationMs     int64   `yaml:"moveDurationMs"`
	SlowMoveDurationMs int64   `yaml:"slowMoveDurationMs"`
	HitRadius          float64 `yaml:"hitRadius"` // px
	LaunchDistance     int     `yaml:"launchDistance"`
}

// SpawnerConfig is a time-gated spawner. Cap 0 disables it.
type SpawnerConfig struct {
	StartMs    int64     `yaml:"startMs"` // delay from level start
	IntervalMs int64     `yaml:"intervalMs"`
	Cap        int       `yaml:"cap"`
	On         []Terrain `yaml:"on"` // candidate terrains
}

// Enabled reports whether the spawner can ever fire.
func (s SpawnerConfig) Enabled() bool {
	return s.Cap > 0
}

// PowerUpConfig configures pickups and their effects.
type PowerUpConfig struct {
	SpawnerConfig    `yaml:",inline"`
	DurationMs       int64         `yaml:"durationMs"`
	RapidFireDivisor int64         `yaml:"rapidFireDivisor"`
	Types            []PowerUpType `yaml:"types"`
}

// CreatureConfig configures the hazard creatures that come out of sewers.
type CreatureConfig struct {
	SpawnerConfig `yaml:",inline"`
	Name          string  `yaml:"name"`
	StepMs        int64   `yaml:"stepMs"`
	BiteDamage    int     `yaml:"biteDamage"`
	HitRadius     float64 `yaml:"hitRadius"` // px
}

// ParseLevel decodes, defaults and validates a level descriptor.
func ParseLevel(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero values with the stock constants.
func applyDefaults(cfg *LevelConfig) {
	if cfg.TileSize == 0 {
		cfg.TileSize = 40
	}
	r := &cfg.Rules
	if r.MaxHealth == 0 {
		r.MaxHealth = 3
	}
	if r.MoveCooldownMs == 0 {
		r.MoveCooldownMs = 150
	}
	if r.MoveDurationMs == 0 {
		r.MoveDurationMs = 100
	}
	if r.SlowMoveDurationMs == 0 {
		r.SlowMoveDurationMs = 200
	}
	if r.HitRadius == 0 {
		r.HitRadius = cfg.TileSize / 2
	}
	if r.LaunchDistance == 0 {
		r.LaunchDistance = 3
	}
	if cfg.Rosters.Blue.Facing == DirNone {
		cfg.Rosters.Blue.Facing = DirRight
	}
	if cfg.Rosters.Red.Facing == DirNone {
		cfg.Rosters.Red.Facing = DirLeft
	}

	ai := &cfg.AI
	if ai.DecisionIntervalMs == 0 {
		ai.DecisionIntervalMs = 300
	}
	if ai.MaxUnitsPerTick == 0 {
		ai.MaxUnitsPerTick = 1
	}
	if ai.DistanceBias == 0 {
		ai.DistanceBias = 0.6
	}
	if ai.SwitchChance == 0 {
		ai.SwitchChance = 0.01
	}

	if cfg.PowerUps.DurationMs == 0 {
		cfg.PowerUps.DurationMs = 8000
	}
	if cfg.PowerUps.RapidFireDivisor == 0 {
		cfg.PowerUps.RapidFireDivisor = 3
	}

	c := &cfg.Creatures
	if c.Name == "" {
		c.Name = "rat"
	}
	if c.StepMs == 0 {
		c.StepMs = 150
	}
	if c.BiteDamage == 0 {
		c.BiteDamage = 1
	}
	if c.HitRadius == 0 {
		c.HitRadius = cfg.TileSize / 2
	}
}

// Validate checks the descriptor for structural errors. Every failure wraps
// ErrInvalidLevel.
func (cfg *LevelConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidLevel, fmt.Sprintf(format, args...))
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return invalid("grid size must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TileSize <= 0 {
		return invalid("tileSize must be positive, got %v", cfg.TileSize)
	}
	inBounds := func(c Cell) bool {
		return c.X >= 0 && c.X < cfg.Width && c.Y >= 0 && c.Y < cfg.Height
	}

	zones := []struct {
		name string
		z    SafeZone
	}{{"blue", cfg.SafeZones.Blue}, {"red", cfg.SafeZones.Red}}
	for _, z := range zones {
		if z.z.StartX > z.z.EndX {
			return invalid("%s safe zone start %d is after end %d", z.name, z.z.StartX, z.z.EndX)
		}
		if z.z.StartX < 0 || z.z.EndX >= cfg.Width {
			return invalid("%s safe zone %d..%d outside grid width %d", z.name, z.z.StartX, z.z.EndX, cfg.Width)
		}
	}
	b, r := cfg.SafeZones.Blue, cfg.SafeZones.Red
	if b.StartX <= r.EndX && r.StartX <= b.EndX {
		return invalid("safe zones overlap: blue %d..%d red %d..%d", b.StartX, b.EndX, r.StartX, r.EndX)
	}

	for i, f := range cfg.Features {
		if f.Terrain == TerrainTeleporter || f.Terrain == TerrainRoadkill {
			return invalid("feature %d: %s cannot be painted directly", i, f.Terrain)
		}
		if f.Rect != nil && (f.Rect.W <= 0 || f.Rect.H <= 0) {
			return invalid("feature %d: rect size must be positive", i)
		}
		for _, c := range f.cells() {
			if !inBounds(c) {
				return invalid("feature %d: cell %s out of bounds", i, c)
			}
		}
	}

	if len(cfg.Teleporters)%2 != 0 {
		return fmt.Errorf("%w: %w: got %d pads", ErrInvalidLevel, ErrOddTeleporters, len(cfg.Teleporters))
	}
	seen := make(map[Cell]bool)
	for _, c := range cfg.Teleporters {
		if !inBounds(c) {
			return invalid("teleporter %s out of bounds", c)
		}
		if seen[c] {
			return invalid("teleporter %s listed twice", c)
		}
		seen[c] = true
	}

	spawned := make(map[Cell]bool)
	for _, roster := range []struct {
		name  string
		r     Roster
		enemy SafeZone
	}{{"blue", cfg.Rosters.Blue, r}, {"red", cfg.Rosters.Red, b}} {
		for i, c := range roster.r.Spawns {
			if !inBounds(c) {
				return invalid("%s spawn %d at %s out of bounds", roster.name, i, c)
			}
			if roster.enemy.Contains(c.X) {
				return invalid("%s spawn %d at %s is inside the enemy safe zone", roster.name, i, c)
			}
			if spawned[c] {
				return invalid("%s spawn %d at %s is already taken", roster.name, i, c)
			}
			spawned[c] = true
		}
	}

	rules := cfg.Rules
	if rules.MaxHealth <= 0 || rules.MoveCooldownMs < 0 || rules.MoveDurationMs < 0 || rules.SlowMoveDurationMs < 0 {
		return invalid("rules must be non-negative with positive maxHealth")
	}
	if rules.HitRadius <= 0 {
		return invalid("hitRadius must be positive")
	}

	if err := validateSpawner("powerUps", cfg.PowerUps.SpawnerConfig); err != nil {
		return err
	}
	if cfg.PowerUps.Enabled() && len(cfg.PowerUps.Types) == 0 {
		return invalid("powerUps: spawner enabled without types")
	}
	if err := validateSpawner("roadkill", cfg.Roadkill); err != nil {
		return err
	}
	if cfg.Roadkill.Enabled() && slices.ContainsFunc(cfg.Roadkill.On, func(t Terrain) bool { return !t.isRoad() }) {
		return invalid("roadkill: can only be placed on streets")
	}
	if err := validateSpawner("creatures", cfg.Creatures.SpawnerConfig); err != nil {
		return err
	}
	if cfg.Creatures.Enabled() && cfg.Creatures.StepMs <= 0 {
		return invalid("creatures: stepMs must be positive")
	}
	return nil
}

func validateSpawner(name string, s SpawnerConfig) error {
	if s.Cap < 0 {
		return fmt.Errorf("%w: %s: cap cannot be negative", ErrInvalidLevel, name)
	}
	if !s.Enabled() {
		return nil
	}
	if s.StartMs < 0 || s.IntervalMs <= 0 {
		return fmt.Errorf("%w: %s: startMs must be >= 0 and intervalMs > 0", ErrInvalidLevel, name)
	}
	if len(s.On) == 0 {
		return fmt.Errorf("%w: %s: no candidate terrain", ErrInvalidLevel, name)
	}
	return nil
}

// BuildGrid lays out the terrain described by cfg.
func BuildGrid(cfg *LevelConfig) (*Grid, error) {
	g := NewGrid(cfg.Width, cfg.Height, cfg.TileSize, cfg.Base)
	g.SetSafeZone(TeamBlue, cfg.SafeZones.Blue)
	g.SetSafeZone(TeamRed, cfg.SafeZones.Red)

	for _, f := range cfg.Features {
		for _, c := range f.cells() {
			if f.SkipSafeZones && g.inAnySafeZone(c.X) {
				continue
			}
			if len(f.OnlyOver) > 0 && !slices.Contains(f.OnlyOver, g.TerrainAt(c.X, c.Y)) {
				continue
			}
			g.Set(c.X, c.Y, f.Terrain)
		}
	}
	if err := g.linkTeleporters(cfg.Teleporters); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}

	for _, sp := range append(append([]Cell(nil), cfg.Rosters.Blue.Spawns...), cfg.Rosters.Red.Spawns...) {
		if g.BlocksUnits(sp.X, sp.Y) {
			return nil, fmt.Errorf("%w: spawn %s is on %s", ErrInvalidLevel, sp, g.TerrainAt(sp.X, sp.Y))
		}
	}
	return g, nil
}
