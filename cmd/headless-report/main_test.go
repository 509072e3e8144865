package main

import (
	"strings"
	"testing"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/levels"
)

func TestTeamSurvivalCounts(t *testing.T) {
	m := game.MatchReport{
		Blue: game.TeamReport{Team: game.TeamBlue, Alive: 2, Eliminated: 0},
		Red:  game.TeamReport{Team: game.TeamRed, Alive: 1, Eliminated: 1},
	}

	blueTotal, redTotal, blueSurvivors, redSurvivors := teamSurvivalCounts(m)
	if redTotal != 2 || blueTotal != 2 {
		t.Fatalf("expected totals red=2 blue=2, got red=%d blue=%d", redTotal, blueTotal)
	}
	if redSurvivors != 1 || blueSurvivors != 2 {
		t.Fatalf("expected survivors red=1 blue=2, got red=%d blue=%d", redSurvivors, blueSurvivors)
	}
}

func TestDetectStalemate_TrueWhenMutualSurvivalHigh(t *testing.T) {
	rs := runStats{
		blueTotal:     10,
		redTotal:      10,
		blueSurvivors: 7,
		redSurvivors:  6,
		report: game.MatchReport{
			Blue: game.TeamReport{Shots: 40},
			Red:  game.TeamReport{Shots: 38},
		},
	}

	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "high_mutual_survival") {
		t.Fatalf("expected reason to mention high_mutual_survival, got: %s", reason)
	}
}

func TestDetectStalemate_FalseWhenDecided(t *testing.T) {
	rs := runStats{
		blueTotal:     10,
		redTotal:      10,
		blueSurvivors: 9,
		report:        game.MatchReport{Outcome: game.OutcomeBlueWins},
	}

	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false for a decided match (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenAttritionDecisive(t *testing.T) {
	rs := runStats{
		blueTotal:     10,
		redTotal:      10,
		blueSurvivors: 8,
		redSurvivors:  3,
		report: game.MatchReport{
			Blue: game.TeamReport{Shots: 50},
			Red:  game.TeamReport{Shots: 45},
		},
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate {
		t.Fatalf("expected stalemate=false under decisive attrition (reason=%s)", reason)
	}
	if !strings.HasPrefix(reason, "attrition") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestDetectStalemate_NoContact(t *testing.T) {
	rs := runStats{blueTotal: 10, redTotal: 10, blueSurvivors: 10, redSurvivors: 10}
	if isStalemate, reason := detectStalemate(rs); !isStalemate || reason != "no_contact" {
		t.Fatalf("expected no_contact stalemate, got %v (%s)", isStalemate, reason)
	}
}

func TestRunMatch_Deterministic(t *testing.T) {
	lvl, err := levels.Load("battlefield")
	if err != nil {
		t.Fatal(err)
	}
	weapons, err := levels.Weapons()
	if err != nil {
		t.Fatal(err)
	}
	opts := runOptions{level: lvl, weapons: weapons, frameMs: 16, ticks: 600, logger: "off"}

	a, err := runMatch(1, 99, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runMatch(1, 99, opts)
	if err != nil {
		t.Fatal(err)
	}

	if a.report.Format() != b.report.Format() {
		t.Fatalf("same seed produced different reports:\n%s\n%s", a.report.Format(), b.report.Format())
	}
	if a.blueTotal != 10 || a.redTotal != 10 {
		t.Fatalf("expected 10 units per side, got blue=%d red=%d", a.blueTotal, a.redTotal)
	}
	if a.report.Ticks == 0 || a.report.Ticks > 600 {
		t.Fatalf("ticks out of range: %d", a.report.Ticks)
	}
}

func TestPrintAggregate(t *testing.T) {
	all := []runStats{
		{report: game.MatchReport{Outcome: game.OutcomeBlueWins, ElapsedMs: 30000, Blue: game.TeamReport{Shots: 10, Hits: 5}}, firstHitTick: 100},
		{report: game.MatchReport{Outcome: game.OutcomeRedWins, ElapsedMs: 50000, Red: game.TeamReport{Shots: 4, Hits: 1}}, firstHitTick: -1},
	}
	var sb strings.Builder
	printAggregate(&sb, all)
	out := sb.String()

	for _, want := range []string{"runs=2 blue_wins=1 red_wins=1", "accuracy: blue=50.0% red=25.0%", "avg_decided_duration_ms=40000.0", "avg_first_hit_tick=100.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("aggregate missing %q:\n%s", want, out)
		}
	}
}
