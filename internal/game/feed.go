package game

import "fmt"

const feedMaxEntries = 60

// FeedEntry is one line of the on-screen event feed.
type FeedEntry struct {
	Tick    int
	TimeMs  int64
	Label   string // e.g. "R1", "B3", "rat2"
	Team    Team
	Message string
}

// Feed is a ring buffer of human-readable event lines.
type Feed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewFeed creates a feed with a fixed capacity.
func NewFeed() *Feed {
	return &Feed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *Feed) Add(entry FeedEntry) {
	f.entries[f.head] = entry
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len returns the number of stored entries.
func (f *Feed) Len() int {
	return f.count
}

// Recent returns entries in chronological order (oldest first).
func (f *Feed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// feedLine renders an event for the feed. Returns false for events that
// are too chatty to show.
func feedLine(ev Event) (string, bool) {
	switch ev.Kind {
	case EventUnitDamaged:
		return fmt.Sprintf("took %d damage, %s", ev.Amount, ev.Detail), true
	case EventUnitEliminated:
		return "eliminated", true
	case EventShieldBlocked:
		return "shield absorbed a hit", true
	case EventProjectileMiss:
		return fmt.Sprintf("shot deflected by %s", ev.Reason), true
	case EventPowerUpCollected:
		return "picked up " + ev.Detail, true
	case EventEffectExpired:
		return ev.Detail + " wore off", true
	case EventTeleport:
		return fmt.Sprintf("warped %s -> %s", ev.Cell, ev.To), true
	case EventLaunch:
		return fmt.Sprintf("bounced %s -> %s", ev.Cell, ev.To), true
	case EventHazardSpawned:
		return "crawled out at " + ev.Cell.String(), true
	case EventHazardBite:
		return "bit " + ev.Detail, true
	case EventHazardEliminated:
		return "splat", true
	case EventRoadkillPlaced:
		return "roadkill at " + ev.Cell.String(), true
	case EventPowerUpSpawned:
		return ev.Detail + " appeared at " + ev.Cell.String(), true
	case EventTeamWins:
		return ev.Detail, true
	default:
		return "", false
	}
}

// LineupEntry is one eliminated figure shown in the post-mortem lineup.
type LineupEntry struct {
	Label    string
	Team     Team
	Creature bool
	TimeMs   int64
}
