// Package progress persists which levels have been won and the chaos-mode
// toggle between sessions.
package progress

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

const stateKey = "state"

// ErrNotFound is returned by a KV for a key that was never saved.
var ErrNotFound = errors.New("progress: key not found")

// KV is the byte store progress is written to.
type KV interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

type state struct {
	Completed []int `yaml:"completed"`
	ChaosMode bool  `yaml:"chaosMode"`
}

// Progress is the player's save. It is not safe for concurrent use.
type Progress struct {
	kv    KV
	state state
}

// Open loads the save from kv. A store with no save yet starts empty.
func Open(kv KV) (*Progress, error) {
	p := &Progress{kv: kv}
	data, err := kv.Load(stateKey)
	if errors.Is(err, ErrNotFound) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if err := yaml.Unmarshal(data, &p.state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return p, nil
}

func (p *Progress) save() error {
	data, err := yaml.Marshal(&p.state)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := p.kv.Save(stateKey, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// MarkCompleted records a win on level. Marking twice is a no-op.
func (p *Progress) MarkCompleted(level int) error {
	if p.IsCompleted(level) {
		return nil
	}
	return p.update(func(st *state) {
		st.Completed = append(st.Completed, level)
		slices.Sort(st.Completed)
	})
}

// IsCompleted reports whether level has been won.
func (p *Progress) IsCompleted(level int) bool {
	return slices.Contains(p.state.Completed, level)
}

// IsUnlocked reports whether level can be played: the first level always,
// any later one once its predecessor is completed.
func (p *Progress) IsUnlocked(level int) bool {
	if level <= 1 {
		return true
	}
	return p.IsCompleted(level - 1)
}

// Completed returns the won levels in ascending order.
func (p *Progress) Completed() []int {
	return slices.Clone(p.state.Completed)
}

// ChaosMode returns the saved chaos-mode toggle.
func (p *Progress) ChaosMode() bool {
	return p.state.ChaosMode
}

// SetChaosMode stores the chaos-mode toggle.
func (p *Progress) SetChaosMode(on bool) error {
	if p.state.ChaosMode == on {
		return nil
	}
	return p.update(func(st *state) { st.ChaosMode = on })
}

// Reset forgets every completed level and turns chaos mode off.
func (p *Progress) Reset() error {
	return p.update(func(st *state) { *st = state{} })
}

// update applies fn and saves. A failed save leaves the in-memory state as
// it was, so it never disagrees with what is on disk.
func (p *Progress) update(fn func(*state)) error {
	prev := p.state
	prev.Completed = slices.Clone(p.state.Completed)
	fn(&p.state)
	if err := p.save(); err != nil {
		p.state = prev
		return err
	}
	return nil
}
