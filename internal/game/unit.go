package game

import (
	"fmt"
	"strings"
)

// Team distinguishes the two sides. TeamNone disables human control.
type Team int8

const (
	TeamBlue  Team = iota // left side, human by default
	TeamRed               // right side, AI by default
	teamCount             // sentinel
	TeamNone  Team = -1
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	default:
		return "none"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamBlue:
		return TeamRed
	case TeamRed:
		return TeamBlue
	default:
		return TeamNone
	}
}

func (t Team) valid() bool {
	return t == TeamBlue || t == TeamRed
}

// ParseTeam resolves "blue", "red" or "none".
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue":
		return TeamBlue, nil
	case "red":
		return TeamRed, nil
	case "", "none":
		return TeamNone, nil
	}
	return TeamNone, fmt.Errorf("unknown team %q", s)
}

func teamPrefix(t Team) string {
	if t == TeamRed {
		return "R"
	}
	return "B"
}

// UnitState summarises what a unit is doing, for display and logs.
type UnitState uint8

const (
	UnitIdle UnitState = iota
	UnitMoving
	UnitEliminated
)

func (s UnitState) String() string {
	switch s {
	case UnitIdle:
		return "idle"
	case UnitMoving:
		return "moving"
	case UnitEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// Unit is one combatant on the grid.
type Unit struct {
	ID        int
	Label     string // e.g. "B0", "R3"
	Team      Team
	Pos       Cell
	Facing    Direction
	Health    int
	MaxHealth int
	Weapon    Weapon
	Status    StatusEffects

	lastFire   int64
	hasFired   bool
	nextMoveAt int64
	busyUntil  int64
	eliminated bool
}

func newUnit(id int, team Team, index int, pos Cell, facing Direction, w Weapon, maxHealth int) *Unit {
	return &Unit{
		ID:        id,
		Label:     fmt.Sprintf("%s%d", teamPrefix(team), index),
		Team:      team,
		Pos:       pos,
		Facing:    facing,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Weapon:    w,
	}
}

// Alive reports whether the unit is still in play.
func (u *Unit) Alive() bool {
	return !u.eliminated
}

// Busy reports whether the unit is still animating its last move.
func (u *Unit) Busy(now int64) bool {
	return now < u.busyUntil
}

// State derives the display state at time now.
func (u *Unit) State(now int64) UnitState {
	switch {
	case u.eliminated:
		return UnitEliminated
	case u.Busy(now):
		return UnitMoving
	default:
		return UnitIdle
	}
}

// FireReady reports whether the weapon cooldown has elapsed. A unit that
// never fired is always ready.
func (u *Unit) FireReady(now int64) bool {
	return !u.hasFired || now >= u.lastFire+u.Weapon.FireRateMs
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s %s hp=%d/%d at %s facing %s", u.Label, u.Weapon.Name, u.Health, u.MaxHealth, u.Pos, u.Facing)
}
