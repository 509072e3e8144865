package game

import (
	"fmt"
	"strings"
)

// DebugReport dumps the match state plus the events of the last lastTicks
// ticks. Meant for pasting into bug reports.
func (e *Engine) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := e.tick
	fromTick := max(toTick-lastTicks+1, 0)

	var b strings.Builder
	fmt.Fprintf(&b, "--- battlefield debug report ---\n")
	fmt.Fprintf(&b, "match=%s level=%s seed=%d chaos=%v\n", e.matchID, e.level.Key, e.cfg.Seed, e.cfg.ChaosMode)
	fmt.Fprintf(&b, "tick=%d now=%dms elapsed=%dms outcome=%s tick_range=[%d..%d]\n", e.tick, e.now, e.Elapsed(), e.outcome, fromTick, toTick)
	if e.human != nil {
		fmt.Fprintf(&b, "selected=%s\n", e.human.Label)
	} else {
		b.WriteString("selected=none\n")
	}
	for _, ai := range e.ai {
		labels := make([]string, 0, len(ai.active))
		for _, u := range ai.active {
			labels = append(labels, u.Label)
		}
		fmt.Fprintf(&b, "ai[%s] active=[%s]\n", ai.team, strings.Join(labels, " "))
	}

	b.WriteString("\n== units ==\n")
	for _, u := range e.units {
		terrain := e.grid.TerrainAt(u.Pos.X, u.Pos.Y)
		fmt.Fprintf(&b, "%-4s %-10s hp=%d/%d pos=%-7s face=%-5s on=%-10s %s\n",
			u.Label, u.State(e.now), u.Health, u.MaxHealth, u.Pos, u.Facing, terrain, statusSummary(u, e.now))
	}

	if len(e.projectiles) > 0 {
		b.WriteString("\n== projectiles ==\n")
		for _, p := range e.projectiles {
			fmt.Fprintf(&b, "#%d %s %s at (%.0f,%.0f) v=(%.0f,%.0f) from=%s\n",
				p.ID, p.Team, p.Weapon, p.X, p.Y, p.VX, p.VY, p.FromTerrain)
		}
	}
	if len(e.creatures) > 0 {
		b.WriteString("\n== creatures ==\n")
		for _, c := range e.creatures {
			fmt.Fprintf(&b, "%s %s pos=%s bitten=%v\n", c.Label, c.State, c.Pos, c.Bitten)
		}
	}
	if len(e.powerUps) > 0 {
		b.WriteString("\n== power-ups ==\n")
		for _, p := range e.powerUps {
			fmt.Fprintf(&b, "%s (%s) at %s\n", p.Type.Name, p.Type.Effect, p.Pos)
		}
	}

	b.WriteString("\n== events ==\n")
	events := e.log.FilterTickRange(fromTick, toTick)
	if len(events) == 0 {
		b.WriteString("(none)\n")
	}
	for _, ev := range events {
		b.WriteString(ev.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func statusSummary(u *Unit, now int64) string {
	var parts []string
	if u.Status.Shield {
		parts = append(parts, "shield")
	}
	if u.Status.SpeedActive(now) {
		parts = append(parts, fmt.Sprintf("speed(%dms)", u.Status.SpeedUntil-now))
	}
	if u.Status.RapidActive() {
		parts = append(parts, fmt.Sprintf("rapid(%dms rate=%d)", u.Status.RapidUntil-now, u.Weapon.FireRateMs))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
