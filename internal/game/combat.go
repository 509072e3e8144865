package game

import (
	"math"
)

// Projectile is a shot in flight. The shooter's terrain is captured at fire
// time and decides the cover and elevation checks for the whole flight.
type Projectile struct {
	ID        int
	Team      Team
	ShooterID int
	Weapon    string
	X, Y      float64 // px
	VX, VY    float64 // px per second
	Damage    int

	// FromTerrain is what the shooter stood on when firing.
	FromTerrain Terrain

	active bool
	missed map[int]bool // units already passed through
}

// ShooterElevated reports whether the shot came from a rooftop.
func (p *Projectile) ShooterElevated() bool {
	return p.FromTerrain.Kind() == KindElevated
}

// ShooterInCover reports whether the shot came from cover terrain.
func (p *Projectile) ShooterInCover() bool {
	return p.FromTerrain.Kind() == KindCover
}

// ShooterInHazard reports whether the shot came from slow or spawn terrain.
func (p *Projectile) ShooterInHazard() bool {
	k := p.FromTerrain.Kind()
	return k == KindSlow || k == KindHazardSpawn
}

// Active reports whether the projectile is still in flight.
func (p *Projectile) Active() bool {
	return p.active
}

// Fire launches a projectile from u in its facing direction. Returns false
// while the weapon cools down or while u stands in its own safe zone.
func (e *Engine) Fire(u *Unit, now int64) bool {
	if u == nil || !u.Alive() || e.outcome.Decided() {
		return false
	}
	if e.grid.IsInSafeZone(u.Team, u.Pos.X) {
		return false
	}
	if !u.FireReady(now) {
		return false
	}
	u.lastFire = now
	u.hasFired = true

	dx, dy := u.Facing.Delta()
	x, y := e.grid.CellCenter(u.Pos)
	p := &Projectile{
		ID:          e.newID(),
		Team:        u.Team,
		ShooterID:   u.ID,
		Weapon:      u.Weapon.Name,
		X:           x,
		Y:           y,
		VX:          float64(dx) * u.Weapon.Speed,
		VY:          float64(dy) * u.Weapon.Speed,
		Damage:      u.Weapon.Damage,
		FromTerrain: e.grid.TerrainAt(u.Pos.X, u.Pos.Y),
		active:      true,
	}
	e.projectiles = append(e.projectiles, p)
	e.emit(Event{
		Kind:    EventProjectileFired,
		UnitID:  u.ID,
		Label:   u.Label,
		Team:    u.Team,
		OtherID: p.ID,
		Cell:    u.Pos,
		Detail:  u.Weapon.Name + " " + u.Facing.String(),
	})
	return true
}

// advanceProjectiles moves every projectile by deltaMs and resolves what it
// touches. Long frames are split into sub-steps of at most a quarter tile so
// a fast shot cannot skip over a wall or a target.
func (e *Engine) advanceProjectiles(deltaMs int64) {
	if deltaMs <= 0 {
		return
	}
	dt := float64(deltaMs) / 1000
	for _, p := range e.projectiles {
		if !p.active {
			continue
		}
		dist := math.Hypot(p.VX, p.VY) * dt
		steps := int(math.Ceil(dist / (e.grid.TileSize / 4)))
		if steps < 1 {
			steps = 1
		}
		sub := dt / float64(steps)
		for i := 0; i < steps && p.active; i++ {
			p.X += p.VX * sub
			p.Y += p.VY * sub
			e.resolveProjectile(p)
			if e.outcome.Decided() {
				return
			}
		}
	}
}

// resolveProjectile applies, in order: leaving the field, terrain blocking,
// entering the enemy safe zone, creature hits, unit hits.
func (e *Engine) resolveProjectile(p *Projectile) {
	c := e.grid.CellOf(p.X, p.Y)
	if !e.grid.InBounds(c.X, c.Y) {
		p.active = false
		return
	}
	if e.grid.IsBlocking(c.X, c.Y) {
		p.active = false
		e.emit(Event{Kind: EventProjectileBlocked, UnitID: p.ShooterID, Team: p.Team, OtherID: p.ID, Cell: c, Detail: "hit " + e.grid.TerrainAt(c.X, c.Y).String()})
		return
	}
	if e.grid.IsEnemySafeZone(p.Team, c.X) {
		p.active = false
		return
	}

	creatureR := e.level.Creatures.HitRadius
	for _, cr := range e.creatures {
		if !cr.Alive {
			continue
		}
		cx, cy := e.grid.CellCenter(cr.Pos)
		if math.Hypot(p.X-cx, p.Y-cy) < creatureR {
			p.active = false
			e.killCreature(cr, p.ShooterID)
			return
		}
	}

	unitR := e.level.Rules.HitRadius
	for _, u := range e.units {
		if !u.Alive() || u.Team == p.Team || p.missed[u.ID] {
			continue
		}
		ux, uy := e.grid.CellCenter(u.Pos)
		if math.Hypot(p.X-ux, p.Y-uy) >= unitR {
			continue
		}
		if reason := e.protection(p, u); reason != MissNone {
			if p.missed == nil {
				p.missed = make(map[int]bool)
			}
			p.missed[u.ID] = true
			e.emit(Event{Kind: EventProjectileMiss, UnitID: u.ID, Label: u.Label, Team: u.Team, OtherID: p.ShooterID, Cell: u.Pos, Reason: reason})
			continue
		}
		p.active = false
		if u.Status.Shield {
			u.Status.Shield = false
			e.emit(Event{Kind: EventShieldBlocked, UnitID: u.ID, Label: u.Label, Team: u.Team, OtherID: p.ShooterID, Cell: u.Pos})
			return
		}
		e.damageUnit(u, p.Damage, p.ShooterID, p.Weapon)
		return
	}
}

// protection reports why target is immune to p, if it is. Rooftops only
// take fire from rooftops; cover only takes fire from the same terrain.
func (e *Engine) protection(p *Projectile, target *Unit) MissReason {
	t := e.grid.TerrainAt(target.Pos.X, target.Pos.Y)
	switch t.Kind() {
	case KindElevated:
		if !p.ShooterElevated() {
			return MissElevation
		}
	case KindCover:
		if p.FromTerrain != t {
			return MissCover
		}
	}
	return MissNone
}
