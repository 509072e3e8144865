package game

import (
	"fmt"
	"slices"
)

// spawner gates a periodic spawn on level time, an interval and a cap.
type spawner struct {
	cfg     SpawnerConfig
	spawned bool
	last    int64
}

// due reports whether the spawner may fire at now, given level time elapsed
// and the current live count.
func (s *spawner) due(elapsed, now int64, count int) bool {
	if !s.cfg.Enabled() || elapsed < s.cfg.StartMs || count >= s.cfg.Cap {
		return false
	}
	return !s.spawned || now-s.last >= s.cfg.IntervalMs
}

func (s *spawner) mark(now int64) {
	s.spawned = true
	s.last = now
}

// CreatureState is the behaviour mode of a hazard creature.
type CreatureState uint8

const (
	CreatureHunting   CreatureState = iota // chasing the nearest unit
	CreatureReturning                      // heading back to a spawn cell
)

func (s CreatureState) String() string {
	switch s {
	case CreatureHunting:
		return "hunting"
	case CreatureReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// Creature is a hazard that bites once and then retreats.
type Creature struct {
	ID       int
	Label    string
	Pos      Cell
	Facing   Direction
	State    CreatureState
	Alive    bool
	Bitten   bool
	nextStep int64
}

// updateHazards runs the three spawners, then every creature's step.
func (e *Engine) updateHazards(now int64) {
	elapsed := e.Elapsed()

	if e.roadkillSpawner.due(elapsed, now, len(e.grid.CellsOf(TerrainRoadkill))) {
		e.spawnRoadkill(now)
	}
	if e.powerUpSpawner.due(elapsed, now, len(e.powerUps)) {
		e.spawnPowerUp(now)
	}
	if e.creatureSpawner.due(elapsed, now, e.liveCreatures()) {
		e.spawnCreature(now)
	}

	for _, c := range e.creatures {
		if e.outcome.Decided() {
			return
		}
		if c.Alive && now >= c.nextStep {
			e.stepCreature(c, now)
		}
	}
}

func (e *Engine) liveCreatures() int {
	n := 0
	for _, c := range e.creatures {
		if c.Alive {
			n++
		}
	}
	return n
}

// pick returns a uniformly random element of cells.
func (e *Engine) pick(cells []Cell) (Cell, bool) {
	if len(cells) == 0 {
		return Cell{}, false
	}
	return cells[e.rng.Intn(len(cells))], true
}

// spawnCandidates lists cells of the given terrains outside both safe zones.
func (e *Engine) spawnCandidates(on []Terrain, keep func(Cell) bool) []Cell {
	var out []Cell
	for _, c := range e.grid.CellsOf(on...) {
		if e.grid.inAnySafeZone(c.X) {
			continue
		}
		if keep != nil && !keep(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Engine) spawnRoadkill(now int64) {
	c, ok := e.pick(e.spawnCandidates(e.level.Roadkill.On, nil))
	e.roadkillSpawner.mark(now)
	if !ok || !e.grid.PlaceRoadkill(c.X, c.Y) {
		return
	}
	e.emit(Event{Kind: EventRoadkillPlaced, UnitID: -1, Team: TeamNone, OtherID: -1, Cell: c})
}

func (e *Engine) spawnPowerUp(now int64) {
	types := e.level.PowerUps.Types
	cells := e.spawnCandidates(e.level.PowerUps.On, func(c Cell) bool {
		if e.unitAt(c) != nil {
			return false
		}
		return !slices.ContainsFunc(e.powerUps, func(p *PowerUp) bool { return p.Pos == c })
	})
	c, ok := e.pick(cells)
	e.powerUpSpawner.mark(now)
	if !ok {
		return
	}
	pt := types[e.rng.Intn(len(types))]
	p := &PowerUp{ID: e.newID(), Pos: c, Type: pt}
	e.powerUps = append(e.powerUps, p)
	e.emit(Event{Kind: EventPowerUpSpawned, UnitID: -1, Team: TeamNone, OtherID: p.ID, Cell: c, Detail: pt.Name})
}

func (e *Engine) spawnCreature(now int64) {
	cells := e.spawnCandidates([]Terrain{TerrainSewer}, func(c Cell) bool {
		return !slices.ContainsFunc(e.creatures, func(cr *Creature) bool { return cr.Alive && cr.Pos == c })
	})
	c, ok := e.pick(cells)
	e.creatureSpawner.mark(now)
	if !ok {
		return
	}
	id := e.newID()
	cr := &Creature{
		ID:       id,
		Label:    fmt.Sprintf("%s%d", e.level.Creatures.Name, id),
		Pos:      c,
		Facing:   DirDown,
		State:    CreatureHunting,
		Alive:    true,
		nextStep: now + e.level.Creatures.StepMs,
	}
	e.creatures = append(e.creatures, cr)
	e.emit(Event{Kind: EventHazardSpawned, UnitID: -1, Label: cr.Label, Team: TeamNone, OtherID: cr.ID, Cell: c})
}

// stepCreature runs one behaviour step: bite an adjacent unit, otherwise
// move one cell toward the goal.
func (e *Engine) stepCreature(c *Creature, now int64) {
	c.nextStep = now + e.level.Creatures.StepMs

	switch c.State {
	case CreatureHunting:
		target := e.creatureTarget(c)
		if target == nil {
			return
		}
		if manhattan(c.Pos, target.Pos) <= 1 {
			e.bite(c, target)
			return
		}
		e.stepCreatureToward(c, target.Pos)

	case CreatureReturning:
		home, ok := e.nearestSewer(c.Pos)
		if !ok {
			e.despawnCreature(c)
			return
		}
		if c.Pos == home {
			e.despawnCreature(c)
			return
		}
		e.stepCreatureToward(c, home)
		if c.Pos == home {
			e.despawnCreature(c)
		}
	}
}

// creatureTarget is the nearest living unit outside its own safe zone.
func (e *Engine) creatureTarget(c *Creature) *Unit {
	var best *Unit
	bestDist := 0
	for _, u := range e.units {
		if !u.Alive() || e.grid.IsInSafeZone(u.Team, u.Pos.X) {
			continue
		}
		d := manhattan(c.Pos, u.Pos)
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

func (e *Engine) bite(c *Creature, u *Unit) {
	dmg := e.level.Creatures.BiteDamage
	c.Bitten = true
	c.State = CreatureReturning
	e.emit(Event{Kind: EventHazardBite, UnitID: u.ID, Label: c.Label, Team: u.Team, OtherID: c.ID, Cell: u.Pos, Amount: dmg, Detail: u.Label})
	e.damageUnit(u, dmg, c.ID, e.level.Creatures.Name+" bite")
}

// stepCreatureToward moves along the axis with the larger gap; equal gaps
// step vertically. A blocked step is skipped.
func (e *Engine) stepCreatureToward(c *Creature, goal Cell) {
	dx := goal.X - c.Pos.X
	dy := goal.Y - c.Pos.Y
	if dx == 0 && dy == 0 {
		return
	}
	dir := verticalToward(dy)
	if absInt(dx) > absInt(dy) {
		dir = horizontalToward(dx)
	}
	next := c.Pos.Step(dir, 1)
	if e.grid.BlocksCreatures(next.X, next.Y) {
		return
	}
	c.Pos = next
	c.Facing = dir
}

func (e *Engine) nearestSewer(from Cell) (Cell, bool) {
	var best Cell
	found := false
	bestDist := 0
	for _, s := range e.grid.CellsOf(TerrainSewer) {
		d := manhattan(from, s)
		if !found || d < bestDist {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

func (e *Engine) despawnCreature(c *Creature) {
	c.Alive = false
	e.emit(Event{Kind: EventHazardDespawned, UnitID: -1, Label: c.Label, Team: TeamNone, OtherID: c.ID, Cell: c.Pos})
}

// killCreature removes a creature hit by a projectile, whatever its state.
func (e *Engine) killCreature(c *Creature, shooterID int) {
	if !c.Alive {
		return
	}
	c.Alive = false
	e.lineup = append(e.lineup, LineupEntry{Label: c.Label, Team: TeamNone, Creature: true, TimeMs: e.now})
	e.emit(Event{Kind: EventHazardEliminated, UnitID: shooterID, Label: c.Label, Team: TeamNone, OtherID: c.ID, Cell: c.Pos})
}
