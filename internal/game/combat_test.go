package game

import "testing"

var fire = &Intent{Fire: true}

// dumpLog prints the event log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.Log().Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// duel sets up blue B0 at (5,5) facing right, human-controlled, and red R0
// at (8,5). Extra options paint terrain or tweak units.
func duel(opts ...SimOption) *TestSim {
	base := []SimOption{
		WithSeed(7),
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 5, 5, DirRight),
		WithUnit(TeamRed, 8, 5, DirLeft),
	}
	return NewTestSim(append(base, opts...)...)
}

func TestScenario_DirectHit(t *testing.T) {
	ts := duel()
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	if n := len(ts.Engine.Projectiles()); n != 1 {
		t.Fatalf("expected 1 projectile after firing, got %d", n)
	}
	ticks := ts.RunUntil(func(ts *TestSim) bool { return red.Health < 3 }, 60)
	dumpLog(t, ts)

	if red.Health != 2 {
		t.Fatalf("target health = %d, want 2", red.Health)
	}
	if ticks >= 60 {
		t.Fatal("projectile never reached the target")
	}
	if len(ts.Engine.Projectiles()) != 0 {
		t.Error("projectile should be consumed by the hit")
	}
	ev, ok := ts.Log().LastOf(EventUnitDamaged)
	if !ok || ev.UnitID != red.ID || ev.OtherID != ts.Unit("B0").ID || ev.Amount != 1 {
		t.Errorf("damage event = %+v", ev)
	}
}

func TestScenario_BlockedByMountain(t *testing.T) {
	ts := duel(WithTerrain(7, 5, TerrainMountain))
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	ts.RunTicks(60)
	dumpLog(t, ts)

	if red.Health != 3 {
		t.Errorf("target behind mountain took damage: hp=%d", red.Health)
	}
	if n := ts.Log().Count(EventProjectileBlocked); n != 1 {
		t.Errorf("blocked events = %d, want 1", n)
	}
	if len(ts.Engine.Projectiles()) != 0 {
		t.Error("blocked projectile should be destroyed")
	}
}

func TestScenario_CoverDeflects(t *testing.T) {
	ts := duel(WithTerrain(8, 5, TerrainTrench))
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	ts.RunTicks(60)
	dumpLog(t, ts)

	if red.Health != 3 {
		t.Errorf("entrenched target took damage: hp=%d", red.Health)
	}
	misses := ts.Log().Filter(EventProjectileMiss)
	if len(misses) != 1 {
		t.Fatalf("miss events = %d, want exactly 1 per projectile/target pair", len(misses))
	}
	if misses[0].Reason != MissCover || misses[0].UnitID != red.ID {
		t.Errorf("miss event = %+v", misses[0])
	}
	if len(ts.Engine.Projectiles()) != 0 {
		t.Error("projectile should continue past and die in the red safe zone")
	}
}

func TestScenario_SameCoverTerrainHits(t *testing.T) {
	ts := duel(
		WithTerrain(5, 5, TerrainTrench),
		WithTerrain(8, 5, TerrainTrench),
	)
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return red.Health < 3 }, 60)
	if red.Health != 2 {
		t.Fatalf("trench-to-trench shot should hit, hp=%d", red.Health)
	}
	if ts.Log().Count(EventProjectileMiss) != 0 {
		t.Error("no miss expected")
	}
}

func TestScenario_DifferentCoverTerrainMisses(t *testing.T) {
	ts := duel(
		WithTerrain(5, 5, TerrainPothole),
		WithTerrain(8, 5, TerrainTrench),
	)
	ts.TickAt(0, fire)
	ts.RunTicks(60)
	if hp := ts.Unit("R0").Health; hp != 3 {
		t.Errorf("pothole shooter should not hit trench target, hp=%d", hp)
	}
}

func TestScenario_ShieldAbsorbs(t *testing.T) {
	ts := duel()
	red := ts.Unit("R0")
	red.Status.Shield = true

	ts.TickAt(0, fire)
	ts.RunTicks(40)
	dumpLog(t, ts)

	if red.Health != 3 {
		t.Errorf("shielded target took damage: hp=%d", red.Health)
	}
	if red.Status.Shield {
		t.Error("shield should be consumed")
	}
	if ts.Log().Count(EventShieldBlocked) != 1 {
		t.Error("expected one shield_blocked event")
	}
	if len(ts.Engine.Projectiles()) != 0 {
		t.Error("absorbed projectile should be gone")
	}

	// The next shot lands.
	ts.TickAt(ts.Now()+400, fire)
	ts.RunUntil(func(ts *TestSim) bool { return red.Health < 3 }, 60)
	if red.Health != 2 {
		t.Errorf("second shot should hit, hp=%d", red.Health)
	}
}

func TestScenario_MissDoesNotSpendShield(t *testing.T) {
	ts := duel(WithTerrain(8, 5, TerrainTrench))
	red := ts.Unit("R0")
	red.Status.Shield = true

	ts.TickAt(0, fire)
	ts.RunTicks(60)

	if !red.Status.Shield {
		t.Error("shield spent on a shot that cover already stopped")
	}
	if ts.Log().Count(EventShieldBlocked) != 0 {
		t.Error("no shield event expected")
	}
}

func TestElevation(t *testing.T) {
	cases := []struct {
		name       string
		shooterOn  Terrain
		targetOn   Terrain
		wantHit    bool
		wantReason MissReason
	}{
		{"ground to roof", TerrainGrass, TerrainBuilding, false, MissElevation},
		{"roof to roof", TerrainBuilding, TerrainBuilding, true, MissNone},
		{"roof to ground", TerrainBuilding, TerrainGrass, true, MissNone},
		{"roof to trench", TerrainBuilding, TerrainTrench, false, MissCover},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := duel(
				WithTerrain(5, 5, tc.shooterOn),
				WithTerrain(8, 5, tc.targetOn),
			)
			red := ts.Unit("R0")
			ts.TickAt(0, fire)
			ts.RunTicks(60)

			if hit := red.Health < 3; hit != tc.wantHit {
				t.Fatalf("hit=%v want %v (hp=%d)", hit, tc.wantHit, red.Health)
			}
			if !tc.wantHit {
				ev, ok := ts.Log().LastOf(EventProjectileMiss)
				if !ok || ev.Reason != tc.wantReason {
					t.Errorf("miss reason = %v, want %v", ev.Reason, tc.wantReason)
				}
			}
		})
	}
}

func TestFire_Cooldown(t *testing.T) {
	ts := duel()
	blue := ts.Unit("B0")
	e := ts.Engine

	if !e.Fire(blue, 0) {
		t.Fatal("a unit that never fired should be ready")
	}
	if e.Fire(blue, 399) {
		t.Error("fired before the 400ms cooldown elapsed")
	}
	if !e.Fire(blue, 400) {
		t.Error("should fire once the cooldown elapsed")
	}
	if n := ts.Log().Count(EventProjectileFired); n != 2 {
		t.Errorf("fired events = %d, want 2", n)
	}
}

func TestScenario_FireCooldownFromWeapon(t *testing.T) {
	slow := Weapon{Name: "Banana Blaster", Damage: 1, Speed: 300, FireRateMs: 500}
	ts := duel(WithUnitWeapon("B0", slow))
	blue := ts.Unit("B0")

	ts.TickAt(0, fire)
	ts.TickAt(400, fire)
	if n := ts.Log().Count(EventProjectileFired); n != 1 {
		t.Fatalf("fired events at t=400 = %d, want 1", n)
	}
	ts.TickAt(501, fire)
	if n := ts.Log().Count(EventProjectileFired); n != 2 {
		dumpLog(t, ts)
		t.Fatalf("fired events at t=501 = %d, want 2", n)
	}
	if blue.lastFire != 501 {
		t.Errorf("last fire = %d, want 501", blue.lastFire)
	}
}

func TestFire_NotFromOwnSafeZone(t *testing.T) {
	ts := NewTestSim(
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 0, 5, DirRight),
		WithUnit(TeamRed, 5, 5, DirLeft),
	)
	ts.TickAt(0, fire)
	if len(ts.Engine.Projectiles()) != 0 {
		t.Fatal("fired from inside own safe zone")
	}
	if !ts.Engine.Fire(ts.Unit("R0"), 0) {
		t.Error("red outside its zone should fire")
	}
}

func TestProjectile_DiesInEnemySafeZone(t *testing.T) {
	ts := NewTestSim(
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 5, 2, DirRight),
		WithUnit(TeamRed, 9, 2, DirLeft), // standing in its own zone
	)
	red := ts.Unit("R0")
	ts.TickAt(0, fire)
	ts.RunTicks(60)

	if red.Health != 3 {
		t.Errorf("unit inside its own safe zone was hit, hp=%d", red.Health)
	}
	if len(ts.Engine.Projectiles()) != 0 {
		t.Error("projectile should be destroyed at the zone edge")
	}
}

func TestProjectile_VelocityFollowsFacing(t *testing.T) {
	ts := duel()
	blue := ts.Unit("B0")
	blue.Facing = DirUp
	ts.Engine.Fire(blue, 0)
	p := ts.Engine.Projectiles()[0]
	if p.VX != 0 || p.VY != -blue.Weapon.Speed {
		t.Errorf("velocity = (%v,%v)", p.VX, p.VY)
	}
	if x, y := ts.Engine.Grid().CellCenter(blue.Pos); p.X != x || p.Y != y {
		t.Errorf("spawn = (%v,%v), want cell center (%v,%v)", p.X, p.Y, x, y)
	}
	if p.FromTerrain != TerrainGrass || p.ShooterElevated() || p.ShooterInCover() {
		t.Errorf("captured terrain = %s", p.FromTerrain)
	}
}

func TestProjectile_NoFriendlyFire(t *testing.T) {
	ts := duel(WithUnit(TeamBlue, 6, 5, DirRight))
	mate := ts.Unit("B1")
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return red.Health < 3 }, 60)
	if mate.Health != 3 {
		t.Errorf("teammate was hit, hp=%d", mate.Health)
	}
	if red.Health != 2 {
		t.Errorf("shot should pass the teammate and hit red, hp=%d", red.Health)
	}
}

func TestElimination_DecidesMatch(t *testing.T) {
	ts := duel(WithUnitHealth("R0", 1))
	red := ts.Unit("R0")
	redBefore := ts.Engine.AliveCount(TeamRed)
	blueBefore := ts.Engine.AliveCount(TeamBlue)

	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return ts.Engine.Outcome().Decided() }, 60)
	dumpLog(t, ts)

	if got := ts.Engine.AliveCount(TeamRed); got != redBefore-1 {
		t.Errorf("red alive = %d, want %d", got, redBefore-1)
	}
	if got := ts.Engine.AliveCount(TeamBlue); got != blueBefore {
		t.Errorf("blue alive = %d, want %d", got, blueBefore)
	}

	if red.Alive() || red.Health != 0 {
		t.Fatalf("red should be eliminated with 0 hp, got alive=%v hp=%d", red.Alive(), red.Health)
	}
	if got := ts.Engine.Outcome(); got != OutcomeBlueWins {
		t.Fatalf("outcome = %s", got)
	}
	if ts.Log().Count(EventTeamWins) != 1 {
		t.Error("expected one team_wins event")
	}
	lineup := ts.Engine.Lineup()
	if len(lineup) != 1 || lineup[0].Label != "R0" {
		t.Errorf("lineup = %+v", lineup)
	}

	// Frozen after the decision.
	ticks := ts.Engine.TickCount()
	ts.TickAt(ts.Now()+1000, fire)
	if ts.Engine.TickCount() != ticks || len(ts.Engine.Projectiles()) != 0 {
		t.Error("tick after outcome should be a no-op")
	}

	// Repeated elimination is a no-op.
	ts.Engine.eliminate(red, -1)
	if ts.Log().Count(EventUnitEliminated) != 1 || len(ts.Engine.Lineup()) != 1 {
		t.Error("second elimination should not emit or queue again")
	}
}

func TestElimination_HealthGoesThroughZero(t *testing.T) {
	big := Weapon{Name: "Pie Cannon", Damage: 5, Speed: 300, FireRateMs: 1000}
	ts := duel(WithUnitWeapon("B0", big), WithUnit(TeamRed, 8, 1, DirLeft))
	red := ts.Unit("R0")

	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return !red.Alive() }, 60)
	if red.Alive() || red.Health != 0 {
		t.Fatalf("overkill should eliminate and clamp to 0, hp=%d", red.Health)
	}
	if ts.Engine.Outcome().Decided() {
		t.Error("R1 is still alive")
	}
}

func TestElimination_HumanReselects(t *testing.T) {
	ts := NewTestSim(
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 5, 5, DirRight),
		WithUnit(TeamBlue, 3, 3, DirRight),
		WithUnit(TeamRed, 8, 5, DirLeft),
	)
	e := ts.Engine
	if e.Human() != ts.Unit("B0") {
		t.Fatal("human should start on B0")
	}
	e.eliminate(ts.Unit("B0"), -1)
	if e.Human() != ts.Unit("B1") {
		t.Errorf("human = %v, want B1", e.Human())
	}
	if e.Outcome().Decided() {
		t.Error("blue still has B1")
	}
	e.eliminate(ts.Unit("B1"), -1)
	if e.Human() != nil || e.Outcome() != OutcomeRedWins {
		t.Errorf("human=%v outcome=%s", e.Human(), e.Outcome())
	}
}
