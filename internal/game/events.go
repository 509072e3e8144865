package game

import "fmt"

// EventKind names a gameplay event surfaced to the presentation layer.
type EventKind uint8

const (
	EventUnitMoved EventKind = iota
	EventUnitTurned
	EventProjectileFired
	EventProjectileBlocked // hit terrain or left the field
	EventProjectileMiss    // passed a protected target
	EventUnitDamaged
	EventUnitEliminated
	EventShieldBlocked
	EventPowerUpSpawned
	EventPowerUpCollected
	EventEffectExpired
	EventTeleport
	EventLaunch
	EventRoadkillPlaced
	EventHazardSpawned
	EventHazardBite
	EventHazardEliminated
	EventHazardDespawned
	EventTeamWins
	eventKindCount // sentinel
)

var eventKindNames = [eventKindCount]string{
	EventUnitMoved:         "unit_moved",
	EventUnitTurned:        "unit_turned",
	EventProjectileFired:   "projectile_fired",
	EventProjectileBlocked: "projectile_blocked",
	EventProjectileMiss:    "projectile_miss",
	EventUnitDamaged:       "unit_damaged",
	EventUnitEliminated:    "unit_eliminated",
	EventShieldBlocked:     "shield_blocked",
	EventPowerUpSpawned:    "powerup_spawned",
	EventPowerUpCollected:  "powerup_collected",
	EventEffectExpired:     "effect_expired",
	EventTeleport:          "teleport",
	EventLaunch:            "launch",
	EventRoadkillPlaced:    "roadkill_placed",
	EventHazardSpawned:     "hazard_spawned",
	EventHazardBite:        "hazard_bite",
	EventHazardEliminated:  "hazard_eliminated",
	EventHazardDespawned:   "hazard_despawned",
	EventTeamWins:          "team_wins",
}

func (k EventKind) String() string {
	if k < eventKindCount {
		return eventKindNames[k]
	}
	return "unknown"
}

// MissReason explains why a projectile passed through a target.
type MissReason uint8

const (
	MissNone MissReason = iota
	MissCover
	MissElevation
)

func (r MissReason) String() string {
	switch r {
	case MissCover:
		return "cover"
	case MissElevation:
		return "elevation"
	default:
		return "none"
	}
}

// Event is one thing that happened during a tick.
type Event struct {
	Tick    int
	TimeMs  int64
	Kind    EventKind
	UnitID  int    // acting or affected unit, -1 for none
	Label   string // unit or creature label, "--" for global events
	Team    Team
	OtherID int // second party (shooter, victim, creature), -1 for none
	Cell    Cell
	To      Cell // destination for teleport/launch
	Amount  int
	Reason  MissReason
	Detail  string
}

// String formats the event as a fixed-width log line.
//
//	[T=042 t=00672ms] R3   unit_damaged       -1 hp (2 left)
func (e Event) String() string {
	label := e.Label
	if label == "" {
		label = "--"
	}
	return fmt.Sprintf("[T=%03d t=%05dms] %-4s %-18s %s", e.Tick, e.TimeMs, label, e.Kind, e.describe())
}

func (e Event) describe() string {
	switch e.Kind {
	case EventUnitDamaged:
		return fmt.Sprintf("-%d hp (%s)", e.Amount, e.Detail)
	case EventProjectileMiss:
		return fmt.Sprintf("miss (%s) at %s", e.Reason, e.Cell)
	case EventUnitMoved, EventTeleport, EventLaunch:
		return fmt.Sprintf("%s -> %s", e.Cell, e.To)
	default:
		if e.Detail != "" {
			return e.Detail
		}
		return e.Cell.String()
	}
}
