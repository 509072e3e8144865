package game

import (
	"strings"
)

// EventLog keeps every event of a match in order. Unlike Feed it is
// unbounded and meant for reports and tests.
type EventLog struct {
	entries []Event
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is false, movement and turn
// events are dropped.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records an event.
func (l *EventLog) Add(ev Event) {
	if !l.verbose && (ev.Kind == EventUnitMoved || ev.Kind == EventUnitTurned) {
		return
	}
	l.entries = append(l.entries, ev)
}

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Filter returns events of the given kinds. No kinds matches everything.
func (l *EventLog) Filter(kinds ...EventKind) []Event {
	if len(kinds) == 0 {
		return append([]Event(nil), l.entries...)
	}
	var out []Event
	for _, e := range l.entries {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// ForUnit returns events whose acting or affected unit is id.
func (l *EventLog) ForUnit(id int) []Event {
	var out []Event
	for _, e := range l.entries {
		if e.UnitID == id {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (l *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range l.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events are of kind k.
func (l *EventLog) Count(k EventKind) int {
	n := 0
	for _, e := range l.entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// LastOf returns the most recent event of kind k.
func (l *EventLog) LastOf(k EventKind) (Event, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Kind == k {
			return l.entries[i], true
		}
	}
	return Event{}, false
}

// Has reports whether any event of kind k mentions detailSubstr.
func (l *EventLog) Has(k EventKind, detailSubstr string) bool {
	for _, e := range l.entries {
		if e.Kind == k && strings.Contains(e.Detail, detailSubstr) {
			return true
		}
	}
	return false
}

// Format returns the full log, one line per event, for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
