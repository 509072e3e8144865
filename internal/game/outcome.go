package game

import "fmt"

// Outcome is the match result. Once a team wins it never changes.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeBlueWins
	OutcomeRedWins
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeBlueWins:
		return "blue_wins"
	case OutcomeRedWins:
		return "red_wins"
	default:
		return "unknown"
	}
}

// TeamWins returns the outcome in which team won.
func TeamWins(team Team) Outcome {
	switch team {
	case TeamBlue:
		return OutcomeBlueWins
	case TeamRed:
		return OutcomeRedWins
	default:
		return OutcomeNone
	}
}

// Winner returns the winning team, if decided.
func (o Outcome) Winner() (Team, bool) {
	switch o {
	case OutcomeBlueWins:
		return TeamBlue, true
	case OutcomeRedWins:
		return TeamRed, true
	default:
		return TeamNone, false
	}
}

// Decided reports whether a team has won.
func (o Outcome) Decided() bool {
	return o != OutcomeNone
}

// DetermineOutcome derives the result from living counts. A side with no
// living units loses; blue is checked first.
func DetermineOutcome(blueAlive, redAlive int) Outcome {
	switch {
	case blueAlive == 0:
		return OutcomeRedWins
	case redAlive == 0:
		return OutcomeBlueWins
	default:
		return OutcomeNone
	}
}

// Banner is the text shown when the match ends.
func (o Outcome) Banner() string {
	team, ok := o.Winner()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s team wins!", capitalize(team.String()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
