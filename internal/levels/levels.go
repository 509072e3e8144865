// Package levels ships the stock level descriptors and weapon table.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
)

//go:embed data/*.yaml
var dataFS embed.FS

const weaponsFile = "weapons.yaml"

// ErrUnknownLevel is returned for a level name or id that is not shipped.
var ErrUnknownLevel = errors.New("unknown level")

// Load parses the embedded level with the given key, e.g. "battlefield".
func Load(name string) (*game.LevelConfig, error) {
	key := strings.ToLower(strings.TrimSuffix(name, ".yaml"))
	if key == "" || key+".yaml" == weaponsFile {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	data, err := dataFS.ReadFile(path.Join("data", key+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	lvl, err := game.ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", key, err)
	}
	return lvl, nil
}

// LoadByID returns the embedded level whose descriptor id is id.
func LoadByID(id int) (*game.LevelConfig, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownLevel, id)
}

// LoadFile reads a level descriptor from disk.
func LoadFile(filename string) (*game.LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", filename, err)
	}
	lvl, err := game.ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level in %s: %w", filename, err)
	}
	return lvl, nil
}

// All parses every embedded level, ordered by id.
func All() ([]*game.LevelConfig, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, err
	}
	var out []*game.LevelConfig
	for _, e := range entries {
		if e.IsDir() || e.Name() == weaponsFile {
			continue
		}
		lvl, err := Load(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Names returns the keys of the embedded levels in play order.
func Names() []string {
	all, err := All()
	if err != nil {
		return nil
	}
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.Key
	}
	return names
}

// Weapons returns the stock weapon table.
func Weapons() ([]game.Weapon, error) {
	data, err := dataFS.ReadFile(path.Join("data", weaponsFile))
	if err != nil {
		return nil, err
	}
	return game.ParseWeapons(data)
}
