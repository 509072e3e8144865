package game

import (
	"fmt"
	"strings"
)

// TeamReport aggregates one side's match statistics.
type TeamReport struct {
	Team       Team
	Alive      int
	Eliminated int
	Shots      int
	Hits       int // damage actually dealt by this team's projectiles
	Deflected  int // shots that passed a protected target
	Shielded   int // hits absorbed by the other team's shields
	PowerUps   int
	BitesTaken int
}

// Accuracy returns hits per shot.
func (r TeamReport) Accuracy() float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Shots)
}

// MatchReport is a snapshot of the match counters.
type MatchReport struct {
	MatchID   string
	Level     string
	Seed      int64
	Chaos     bool
	Ticks     int
	ElapsedMs int64
	Outcome   Outcome

	Blue TeamReport
	Red  TeamReport

	Teleports        int
	Launches         int
	RoadkillPlaced   int
	CreaturesSpawned int
	CreaturesKilled  int
	PowerUpsSpawned  int
}

// Team returns the report of team.
func (m *MatchReport) Team(t Team) *TeamReport {
	if t == TeamRed {
		return &m.Red
	}
	return &m.Blue
}

// Report builds the current match report from the event log.
func (e *Engine) Report() MatchReport {
	m := MatchReport{
		MatchID:   e.matchID,
		Level:     e.level.Key,
		Seed:      e.cfg.Seed,
		Chaos:     e.cfg.ChaosMode,
		Ticks:     e.tick,
		ElapsedMs: e.Elapsed(),
		Outcome:   e.outcome,
		Blue:      TeamReport{Team: TeamBlue, Alive: e.AliveCount(TeamBlue)},
		Red:       TeamReport{Team: TeamRed, Alive: e.AliveCount(TeamRed)},
	}
	teamOf := func(id int) Team {
		if u := e.UnitByID(id); u != nil {
			return u.Team
		}
		return TeamNone
	}

	for _, ev := range e.log.Entries() {
		switch ev.Kind {
		case EventProjectileFired:
			m.Team(ev.Team).Shots++
		case EventUnitDamaged:
			if shooter := teamOf(ev.OtherID); shooter.valid() {
				m.Team(shooter).Hits++
			}
		case EventProjectileMiss:
			if shooter := teamOf(ev.OtherID); shooter.valid() {
				m.Team(shooter).Deflected++
			}
		case EventShieldBlocked:
			m.Team(ev.Team.Opponent()).Shielded++
		case EventUnitEliminated:
			m.Team(ev.Team).Eliminated++
		case EventPowerUpCollected:
			m.Team(ev.Team).PowerUps++
		case EventHazardBite:
			m.Team(ev.Team).BitesTaken++
		case EventTeleport:
			m.Teleports++
		case EventLaunch:
			m.Launches++
		case EventRoadkillPlaced:
			m.RoadkillPlaced++
		case EventHazardSpawned:
			m.CreaturesSpawned++
		case EventHazardEliminated:
			m.CreaturesKilled++
		case EventPowerUpSpawned:
			m.PowerUpsSpawned++
		}
	}
	return m
}

// Format renders the report as a small fixed-width table.
func (m MatchReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "match %s level=%s seed=%d chaos=%v\n", m.MatchID, m.Level, m.Seed, m.Chaos)
	fmt.Fprintf(&sb, "outcome=%s ticks=%d elapsed=%.1fs\n", m.Outcome, m.Ticks, float64(m.ElapsedMs)/1000)
	fmt.Fprintf(&sb, "%-5s %5s %5s %5s %5s %6s %6s %6s %5s\n", "team", "alive", "elim", "shots", "hits", "acc", "defl", "shield", "bites")
	for _, t := range []TeamReport{m.Blue, m.Red} {
		fmt.Fprintf(&sb, "%-5s %5d %5d %5d %5d %5.0f%% %6d %6d %5d\n",
			t.Team, t.Alive, t.Eliminated, t.Shots, t.Hits, t.Accuracy()*100, t.Deflected, t.Shielded, t.BitesTaken)
	}
	fmt.Fprintf(&sb, "teleports=%d launches=%d roadkill=%d creatures=%d/%d killed powerups=%d\n",
		m.Teleports, m.Launches, m.RoadkillPlaced, m.CreaturesKilled, m.CreaturesSpawned, m.PowerUpsSpawned)
	return sb.String()
}
