package game

import (
	"fmt"
	"strings"
	"testing"
)

func TestMoveUnit_CooldownAndAnimation(t *testing.T) {
	ts := NewTestSim(
		WithUnit(TeamBlue, 2, 2, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	e := ts.Engine
	blue := ts.Unit("B0")

	if !e.MoveUnit(blue, DirDown, 0) {
		t.Fatal("first move rejected")
	}
	if blue.State(50) != UnitMoving {
		t.Errorf("state at 50ms = %s, want moving", blue.State(50))
	}
	if e.MoveUnit(blue, DirDown, 100) {
		t.Error("move accepted before the 150ms cooldown")
	}
	if blue.State(100) != UnitIdle {
		t.Errorf("state at 100ms = %s, want idle", blue.State(100))
	}
	if !e.MoveUnit(blue, DirDown, 150) {
		t.Error("move rejected after cooldown")
	}
	if blue.Pos != (Cell{2, 4}) || blue.Facing != DirDown {
		t.Errorf("blue at %s facing %s", blue.Pos, blue.Facing)
	}
}

func TestMoveUnit_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		start Cell
		dir   Direction
		extra []SimOption
	}{
		{"enemy safe zone", Cell{8, 5}, DirRight, nil},
		{"mountain", Cell{3, 5}, DirRight, []SimOption{WithTerrain(4, 5, TerrainMountain)}},
		{"car", Cell{3, 5}, DirRight, []SimOption{WithTerrain(4, 5, TerrainCar)}},
		{"off the map", Cell{3, 0}, DirUp, nil},
		{"occupied", Cell{3, 5}, DirRight, []SimOption{WithUnit(TeamRed, 4, 5, DirLeft)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]SimOption{
				WithUnit(TeamBlue, tc.start.X, tc.start.Y, DirLeft),
				WithUnit(TeamRed, 9, 9, DirLeft),
			}, tc.extra...)
			ts := NewTestSim(opts...)
			blue := ts.Unit("B0")
			if ts.Engine.MoveUnit(blue, tc.dir, 0) {
				t.Fatalf("move into %s accepted", tc.name)
			}
			if blue.Pos != tc.start || blue.Facing != DirLeft {
				t.Errorf("failed move changed state: at %s facing %s", blue.Pos, blue.Facing)
			}
		})
	}
}

func TestMoveUnit_OwnSafeZoneAllowed(t *testing.T) {
	ts := NewTestSim(
		WithUnit(TeamBlue, 1, 5, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	if !ts.Engine.MoveUnit(ts.Unit("B0"), DirLeft, 0) {
		t.Fatal("retreat into own safe zone rejected")
	}
}

func TestMoveUnit_SlowTerrain(t *testing.T) {
	ts := NewTestSim(
		WithTerrain(4, 4, TerrainMud),
		WithUnit(TeamBlue, 3, 4, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	blue := ts.Unit("B0")
	ts.Engine.MoveUnit(blue, DirRight, 0)
	if !blue.Busy(199) || blue.Busy(200) {
		t.Error("mud should hold the unit for 200ms")
	}
}

func TestTick_HumanIntent(t *testing.T) {
	ts := NewTestSim(
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 2, 2, DirRight),
		WithUnit(TeamBlue, 2, 6, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	ts.TickAt(0, &Intent{Move: DirDown})
	if ts.Unit("B0").Pos != (Cell{2, 3}) {
		t.Errorf("human unit at %s", ts.Unit("B0").Pos)
	}
	if ts.Unit("B1").Pos != (Cell{2, 6}) {
		t.Error("only the selected unit follows the intent")
	}
}

func TestTick_NoHumanIgnoresIntent(t *testing.T) {
	ts := NewTestSim(
		WithUnit(TeamBlue, 2, 2, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	ts.TickAt(0, &Intent{Move: DirDown, Fire: true})
	if ts.Unit("B0").Pos != (Cell{2, 2}) || len(ts.Engine.Projectiles()) != 0 {
		t.Error("AI-only match should ignore intents")
	}
	if ts.Engine.Human() != nil {
		t.Error("no human unit expected")
	}
}

func TestDrainEvents(t *testing.T) {
	ts := duel()
	ts.TickAt(0, fire)
	evs := ts.Engine.DrainEvents()
	if len(evs) != 1 || evs[0].Kind != EventProjectileFired {
		t.Fatalf("drained %v", evs)
	}
	if evs[0].Tick != 1 || evs[0].TimeMs != 0 {
		t.Errorf("stamp = tick %d at %dms", evs[0].Tick, evs[0].TimeMs)
	}
	if again := ts.Engine.DrainEvents(); len(again) != 0 {
		t.Errorf("second drain returned %d events", len(again))
	}
	if ts.Log().Count(EventProjectileFired) != 1 {
		t.Error("draining must not clear the log")
	}
}

func TestSelection(t *testing.T) {
	ts := NewTestSim(
		WithHuman(TeamBlue),
		WithUnit(TeamBlue, 2, 1, DirRight),
		WithUnit(TeamBlue, 2, 3, DirRight),
		WithUnit(TeamBlue, 2, 5, DirRight),
		WithUnit(TeamRed, 9, 9, DirLeft),
	)
	e := ts.Engine
	b0, b1, b2 := ts.Unit("B0"), ts.Unit("B1"), ts.Unit("B2")

	if e.SelectUnit(ts.Unit("R0").ID) {
		t.Error("selected an enemy unit")
	}
	if !e.SelectUnit(b2.ID) || e.Human() != b2 {
		t.Fatal("select B2 failed")
	}
	e.CycleSelection()
	if e.Human() != b0 {
		t.Errorf("cycle from B2 should wrap to B0, got %s", e.Human().Label)
	}

	e.eliminate(b1, -1)
	e.CycleSelection()
	if e.Human() != b2 {
		t.Errorf("cycle should skip eliminated B1, got %s", e.Human().Label)
	}
	if e.SelectUnit(b1.ID) {
		t.Error("selected an eliminated unit")
	}
}

func TestTick_RecordsTimeAfterDecision(t *testing.T) {
	ts := duel(WithUnitHealth("R0", 1))
	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return ts.Engine.Outcome().Decided() }, 50)
	ticks := ts.Engine.TickCount()

	ts.TickAt(5000, &Intent{Move: DirUp})
	if ts.Engine.Now() != 5000 {
		t.Errorf("now = %d", ts.Engine.Now())
	}
	if ts.Engine.TickCount() != ticks {
		t.Error("tick counter advanced after the match ended")
	}
	if ts.Unit("B0").Pos != (Cell{5, 5}) {
		t.Error("unit moved after the match ended")
	}
}

func TestEventLog_Filters(t *testing.T) {
	l := NewEventLog(false)
	l.Add(Event{Tick: 1, Kind: EventUnitMoved, UnitID: 0})
	l.Add(Event{Tick: 1, Kind: EventProjectileFired, UnitID: 0, Detail: "Banana Blaster right"})
	l.Add(Event{Tick: 2, Kind: EventUnitDamaged, UnitID: 1, OtherID: 0})
	l.Add(Event{Tick: 3, Kind: EventUnitEliminated, UnitID: 1})

	if len(l.Entries()) != 3 {
		t.Fatalf("quiet log kept a move: %d entries", len(l.Entries()))
	}
	if got := l.Filter(EventUnitDamaged, EventUnitEliminated); len(got) != 2 {
		t.Errorf("Filter = %d", len(got))
	}
	if got := l.ForUnit(1); len(got) != 2 {
		t.Errorf("ForUnit = %d", len(got))
	}
	if got := l.FilterTickRange(2, 3); len(got) != 2 {
		t.Errorf("FilterTickRange = %d", len(got))
	}
	if !l.Has(EventProjectileFired, "Banana") || l.Has(EventProjectileFired, "Pie") {
		t.Error("Has mismatch")
	}
	if ev, ok := l.LastOf(EventUnitEliminated); !ok || ev.Tick != 3 {
		t.Errorf("LastOf = %+v %v", ev, ok)
	}
	if strings.Count(l.Format(), "\n") != 3 {
		t.Errorf("Format:\n%s", l.Format())
	}

	v := NewEventLog(true)
	v.Add(Event{Kind: EventUnitMoved})
	if v.Count(EventUnitMoved) != 1 {
		t.Error("verbose log should keep moves")
	}
}

func TestFeed_KeepsLatest(t *testing.T) {
	f := NewFeed()
	for i := 0; i < feedMaxEntries+10; i++ {
		f.Add(FeedEntry{Tick: i, Message: fmt.Sprintf("line %d", i)})
	}
	if f.Len() != feedMaxEntries {
		t.Fatalf("len = %d", f.Len())
	}
	recent := f.Recent()
	if recent[0].Tick != 10 || recent[len(recent)-1].Tick != feedMaxEntries+9 {
		t.Errorf("window = [%d..%d]", recent[0].Tick, recent[len(recent)-1].Tick)
	}
}

func TestFeed_FromEngine(t *testing.T) {
	ts := duel()
	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return ts.Log().Count(EventUnitDamaged) > 0 }, 50)
	recent := ts.Engine.Feed().Recent()
	if len(recent) != 1 {
		t.Fatalf("feed = %+v", recent)
	}
	if recent[0].Label != "R0" || !strings.Contains(recent[0].Message, "took 1 damage") {
		t.Errorf("feed line = %+v", recent[0])
	}
}

func TestReport_CountsShotsAndHits(t *testing.T) {
	ts := duel()
	ts.TickAt(0, fire)
	ts.RunUntil(func(ts *TestSim) bool { return len(ts.Engine.Projectiles()) == 0 }, 50)

	r := ts.Engine.Report()
	if r.Blue.Shots != 1 || r.Blue.Hits != 1 || r.Blue.Accuracy() != 1 {
		t.Errorf("blue = %+v", r.Blue)
	}
	if r.Red.Shots != 0 || r.Red.Alive != 1 {
		t.Errorf("red = %+v", r.Red)
	}
	out := r.Format()
	if !strings.Contains(out, "match test") || !strings.Contains(out, "outcome=none") {
		t.Errorf("format:\n%s", out)
	}
}

func TestDebugReport(t *testing.T) {
	ts := duel()
	ts.TickAt(0, fire)
	ts.Step(nil)
	out := ts.Engine.DebugReport(10)
	for _, want := range []string{"match=test", "selected=B0", "== units ==", "== projectiles ==", "projectile_fired"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug report missing %q:\n%s", want, out)
		}
	}
}
