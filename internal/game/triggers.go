package game

// applyTrigger fires the launch or warp effect of the cell u just entered.
// The landing cell never triggers again in the same move.
func (e *Engine) applyTrigger(u *Unit, now int64) {
	switch e.grid.KindAt(u.Pos.X, u.Pos.Y) {
	case KindLaunch:
		e.launch(u)
	case KindWarp:
		e.teleport(u)
	}
}

// launch throws u up to LaunchDistance cells along its facing. The landing
// cell is clamped to the grid and pulled back out of the enemy safe zone;
// if it is blocked or taken, shorter distances are tried. If none work the
// unit stays on the pad.
func (e *Engine) launch(u *Unit) {
	from := u.Pos
	dx, dy := u.Facing.Delta()
	enemy := e.grid.SafeZone(u.Team.Opponent())

	for dist := e.level.Rules.LaunchDistance; dist >= 1; dist-- {
		c := Cell{
			X: clampInt(from.X+dx*dist, 0, e.grid.Width-1),
			Y: clampInt(from.Y+dy*dist, 0, e.grid.Height-1),
		}
		if enemy.Contains(c.X) {
			if enemy.StartX > from.X {
				c.X = enemy.StartX - 1
			} else {
				c.X = enemy.EndX + 1
			}
		}
		if c == from {
			continue
		}
		if !e.canEnter(u, c) {
			continue
		}
		u.Pos = c
		e.emit(Event{Kind: EventLaunch, UnitID: u.ID, Label: u.Label, Team: u.Team, Cell: from, To: c})
		return
	}
}

// teleport moves u next to the partner pad. Neighbours are tried in the
// order +x, -x, +y, -y; if none is free the unit stays on its pad.
func (e *Engine) teleport(u *Unit) {
	from := u.Pos
	partner, ok := e.grid.TeleportPartner(from)
	if !ok {
		return
	}
	for _, d := range []Direction{DirRight, DirLeft, DirDown, DirUp} {
		c := partner.Step(d, 1)
		if !e.canEnter(u, c) {
			continue
		}
		u.Pos = c
		e.emit(Event{Kind: EventTeleport, UnitID: u.ID, Label: u.Label, Team: u.Team, Cell: from, To: c})
		return
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
