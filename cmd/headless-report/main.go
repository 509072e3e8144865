package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
	"github.com/andrewedunn/battlefield-first-edition/internal/levels"
	"github.com/andrewedunn/battlefield-first-edition/internal/logging"
)

type runStats struct {
	runIndex int
	seed     int64

	firstShotTick        int
	firstHitTick         int
	firstEliminationTick int
	firstHazardTick      int

	blueTotal     int
	redTotal      int
	blueSurvivors int
	redSurvivors  int

	report game.MatchReport
}

type runOptions struct {
	level   *game.LevelConfig
	weapons []game.Weapon
	chaos   bool
	frameMs int64
	ticks   int
	logger  string
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var levelName string
	var chaos bool
	var frameMs int64
	var copyOut bool
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless matches")
	flag.IntVar(&ticks, "ticks", 7200, "tick cap per match")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelName, "level", "battlefield", "level key ("+strings.Join(levels.Names(), ", ")+")")
	flag.BoolVar(&chaos, "chaos", false, "play in chaos mode")
	flag.Int64Var(&frameMs, "frame", 16, "simulated ms per tick")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.StringVar(&logLevel, "log-level", "off", "engine log level, written to stderr")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if frameMs <= 0 {
		fmt.Println("error: -frame must be > 0")
		return
	}
	lvl, err := levels.Load(levelName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	weapons, err := levels.Weapons()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	opts := runOptions{level: lvl, weapons: weapons, chaos: chaos, frameMs: frameMs, ticks: ticks, logger: logLevel}

	var out strings.Builder
	fmt.Fprintf(&out, "=== Headless Match Report ===\n")
	fmt.Fprintf(&out, "level=%s chaos=%v runs=%d ticks=%d frame=%dms seed_base=%d seed_step=%d\n\n",
		lvl.Key, chaos, runs, ticks, frameMs, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runMatch(i+1, seed, opts)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(&out, rs)
	}
	printAggregate(&out, all)

	fmt.Print(out.String())
	if copyOut {
		if err := clipboard.WriteAll(out.String()); err != nil {
			fmt.Printf("warning: clipboard: %v\n", err)
		}
	}
}

// runMatch plays one AI-vs-AI match on a manual clock until a team wins or
// the tick cap is reached.
func runMatch(runIndex int, seed int64, opts runOptions) (runStats, error) {
	cfg := game.Config{
		ChaosMode: opts.chaos,
		Seed:      seed,
		HumanTeam: game.TeamNone,
		AITeams:   []game.Team{game.TeamBlue, game.TeamRed},
	}
	e, err := game.NewEngine(opts.level, opts.weapons, cfg,
		game.WithMatchID(fmt.Sprintf("run-%d", runIndex)),
		game.WithLogger(logging.New(os.Stderr, opts.logger, true)),
	)
	if err != nil {
		return runStats{}, err
	}

	clock := &game.ManualClock{}
	for i := 0; i < opts.ticks && !e.Outcome().Decided(); i++ {
		e.Tick(clock.NowMs(), opts.frameMs, nil)
		e.DrainEvents()
		clock.Advance(opts.frameMs)
	}

	report := e.Report()
	rs := runStats{
		runIndex:             runIndex,
		seed:                 seed,
		firstShotTick:        firstTick(e.Log(), game.EventProjectileFired),
		firstHitTick:         firstTick(e.Log(), game.EventUnitDamaged),
		firstEliminationTick: firstTick(e.Log(), game.EventUnitEliminated),
		firstHazardTick:      firstTick(e.Log(), game.EventHazardSpawned),
		report:               report,
	}
	rs.blueTotal, rs.redTotal, rs.blueSurvivors, rs.redSurvivors = teamSurvivalCounts(report)
	return rs, nil
}

func firstTick(log *game.EventLog, kind game.EventKind) int {
	events := log.Filter(kind)
	if len(events) == 0 {
		return -1
	}
	return events[0].Tick
}

func teamSurvivalCounts(m game.MatchReport) (blueTotal, redTotal, blueSurvivors, redSurvivors int) {
	return m.Blue.Alive + m.Blue.Eliminated, m.Red.Alive + m.Red.Eliminated, m.Blue.Alive, m.Red.Alive
}

// detectStalemate flags an undecided match in which neither side lost
// more than half its roster.
func detectStalemate(rs runStats) (bool, string) {
	if rs.report.Outcome.Decided() {
		return false, "decided"
	}
	if rs.report.Blue.Shots+rs.report.Red.Shots == 0 {
		return true, "no_contact"
	}
	if rs.blueTotal == 0 || rs.redTotal == 0 {
		return false, "one_sided_roster"
	}
	blue := float64(rs.blueSurvivors) / float64(rs.blueTotal)
	red := float64(rs.redSurvivors) / float64(rs.redTotal)
	if blue >= 0.5 && red >= 0.5 {
		return true, fmt.Sprintf("high_mutual_survival blue=%.0f%% red=%.0f%%", blue*100, red*100)
	}
	return false, fmt.Sprintf("attrition blue=%.0f%% red=%.0f%%", blue*100, red*100)
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: first_shot=%d first_hit=%d first_elimination=%d first_hazard=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstEliminationTick, rs.firstHazardTick)
	fmt.Fprintf(w, "survivors: blue=%d/%d red=%d/%d\n", rs.blueSurvivors, rs.blueTotal, rs.redSurvivors, rs.redTotal)
	if stalled, reason := detectStalemate(rs); stalled {
		fmt.Fprintf(w, "stalemate: %s\n", reason)
	}
	fmt.Fprint(w, rs.report.Format())
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	wins := map[game.Outcome]int{}
	stalemates := 0
	var blueShots, blueHits, redShots, redHits int
	var teleports, launches, bites, powerUps int
	durations := make([]int, 0, len(all))
	firstHits := make([]int, 0, len(all))

	for _, rs := range all {
		m := rs.report
		wins[m.Outcome]++
		if s, _ := detectStalemate(rs); s {
			stalemates++
		}
		blueShots += m.Blue.Shots
		blueHits += m.Blue.Hits
		redShots += m.Red.Shots
		redHits += m.Red.Hits
		teleports += m.Teleports
		launches += m.Launches
		bites += m.Blue.BitesTaken + m.Red.BitesTaken
		powerUps += m.Blue.PowerUps + m.Red.PowerUps
		if m.Outcome.Decided() {
			durations = append(durations, int(m.ElapsedMs))
		}
		if rs.firstHitTick >= 0 {
			firstHits = append(firstHits, rs.firstHitTick)
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d blue_wins=%d red_wins=%d undecided=%d stalemates=%d\n",
		len(all), wins[game.OutcomeBlueWins], wins[game.OutcomeRedWins], wins[game.OutcomeNone], stalemates)
	fmt.Fprintf(w, "accuracy: blue=%s red=%s\n", pct(blueHits, blueShots), pct(redHits, redShots))
	fmt.Fprintf(w, "avg_per_run: shots=%.1f teleports=%.1f launches=%.1f bites=%.1f powerups=%.1f\n",
		avg(blueShots+redShots, len(all)), avg(teleports, len(all)), avg(launches, len(all)), avg(bites, len(all)), avg(powerUps, len(all)))
	fmt.Fprintf(w, "avg_decided_duration_ms=%s avg_first_hit_tick=%s\n", avgString(durations), avgString(firstHits))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(num, den int) string {
	if den == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(num)/float64(den)*100)
}

func avgString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
