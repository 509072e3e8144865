package game

import (
	"math/rand"
	"slices"
)

// AIConfig tunes an AI controller.
type AIConfig struct {
	DecisionIntervalMs int64   `yaml:"decisionIntervalMs"`
	MaxUnitsPerTick    int     `yaml:"maxUnitsPerTick"` // active units outside chaos mode
	DistanceBias       float64 `yaml:"distanceBias"`    // chance to close distance rather than align
	SwitchChance       float64 `yaml:"switchChance"`    // chance per decision to hand control to another unit
}

// AIController drives the non-human units of one team. It only acts
// through Engine operations, like the human does.
type AIController struct {
	team  Team
	cfg   AIConfig
	chaos bool
	rng   *rand.Rand

	decided      bool
	lastDecision int64
	active       []*Unit
}

// NewAIController creates a controller with its own seeded random source.
func NewAIController(team Team, cfg AIConfig, chaos bool, seed int64) *AIController {
	return &AIController{
		team:  team,
		cfg:   cfg,
		chaos: chaos,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Team returns the team this controller drives.
func (ai *AIController) Team() Team { return ai.team }

// Active returns the units currently under AI control.
func (ai *AIController) Active() []*Unit { return ai.active }

// Update runs one decision round if the decision interval has elapsed.
func (ai *AIController) Update(e *Engine, now int64) {
	if ai.decided && now < ai.lastDecision+ai.cfg.DecisionIntervalMs {
		return
	}
	ai.decided = true
	ai.lastDecision = now

	ai.refreshActive(e)
	for _, u := range ai.active {
		if e.outcome.Decided() {
			return
		}
		ai.act(e, u, now)
	}
}

// controllable lists the living units this controller may drive.
func (ai *AIController) controllable(e *Engine) []*Unit {
	var out []*Unit
	for _, u := range e.units {
		if u.Team == ai.team && u.Alive() && u != e.human {
			out = append(out, u)
		}
	}
	return out
}

// refreshActive maintains the set of driven units. In chaos mode that is
// the whole team; otherwise at most MaxUnitsPerTick units, replaced when
// they die or, occasionally, at random.
func (ai *AIController) refreshActive(e *Engine) {
	pool := ai.controllable(e)
	if ai.chaos {
		ai.active = pool
		return
	}

	kept := ai.active[:0]
	for _, u := range ai.active {
		if u.Alive() && u != e.human {
			kept = append(kept, u)
		}
	}
	ai.active = kept
	if len(ai.active) > 0 && ai.rng.Float64() < ai.cfg.SwitchChance {
		ai.active = ai.active[1:]
	}

	limit := max(ai.cfg.MaxUnitsPerTick, 1)
	for len(ai.active) < limit {
		var candidates []*Unit
		for _, u := range pool {
			if !slices.Contains(ai.active, u) {
				candidates = append(candidates, u)
			}
		}
		if len(candidates) == 0 {
			break
		}
		ai.active = append(ai.active, candidates[ai.rng.Intn(len(candidates))])
	}
}

// act makes one decision for u: leave the safe zone, shoot when lined up,
// otherwise manoeuvre toward the chosen target.
func (ai *AIController) act(e *Engine, u *Unit, now int64) {
	if !u.Alive() || u.Busy(now) {
		return
	}
	if e.grid.IsInSafeZone(u.Team, u.Pos.X) {
		ai.leaveSafeZone(e, u, now)
		return
	}

	target := ai.selectTarget(e, u)
	if target == nil {
		return
	}
	dx := target.Pos.X - u.Pos.X
	dy := target.Pos.Y - u.Pos.Y

	if dx == 0 || dy == 0 {
		want := horizontalToward(dx)
		if dx == 0 {
			want = verticalToward(dy)
		}
		e.Turn(u, want)
		e.Fire(u, now)
		return
	}

	closeIn := ai.rng.Float64() < ai.cfg.DistanceBias
	longX := absInt(dx) >= absInt(dy)
	useX := longX == closeIn
	primary, secondary := verticalToward(dy), horizontalToward(dx)
	if useX {
		primary, secondary = secondary, primary
	}
	if !e.MoveUnit(u, primary, now) {
		e.MoveUnit(u, secondary, now)
	}
}

// leaveSafeZone steps u toward the enemy side, or sideways once if blocked.
func (ai *AIController) leaveSafeZone(e *Engine, u *Unit, now int64) {
	zone := e.grid.SafeZone(u.Team)
	enemy := e.grid.SafeZone(u.Team.Opponent())
	dir := horizontalToward(enemy.StartX - zone.StartX)
	if e.MoveUnit(u, dir, now) {
		return
	}
	side := DirDown
	if u.Pos.Y >= e.grid.Height/2 {
		side = DirUp
	}
	if !e.MoveUnit(u, side, now) {
		e.MoveUnit(u, side.Opposite(), now)
	}
}

// selectTarget picks the best-scoring enemy outside its own safe zone.
// Ties keep roster order.
func (ai *AIController) selectTarget(e *Engine, u *Unit) *Unit {
	var best *Unit
	bestScore := 0
	for _, o := range e.units {
		if !o.Alive() || o.Team == u.Team || e.grid.IsInSafeZone(o.Team, o.Pos.X) {
			continue
		}
		s := scoreTarget(u, o)
		if best == nil || s > bestScore {
			best, bestScore = o, s
		}
	}
	return best
}

// scoreTarget favours close, lined-up and nearly dead enemies.
func scoreTarget(from, to *Unit) int {
	score := 100 - manhattan(from.Pos, to.Pos)
	if from.Pos.X == to.Pos.X || from.Pos.Y == to.Pos.Y {
		score += 50
	}
	if to.Health == 1 {
		score += 30
	}
	return score
}
