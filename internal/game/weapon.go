package game

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Weapon is an immutable row of the weapon table. Units hold a copy so
// rapid fire can rewrite FireRateMs without touching the table.
type Weapon struct {
	Name       string  `yaml:"name"`
	Damage     int     `yaml:"damage"`
	Speed      float64 `yaml:"speed"`    // px per second
	FireRateMs int64   `yaml:"fireRate"` // minimum ms between shots
}

// DefaultWeapon is used when a roster needs a weapon and none is configured.
func DefaultWeapon() Weapon {
	return Weapon{Name: "Banana Blaster", Damage: 1, Speed: 300, FireRateMs: 400}
}

type weaponFile struct {
	Weapons []Weapon `yaml:"weapons"`
}

// ParseWeapons decodes and validates a weapon table.
func ParseWeapons(data []byte) ([]Weapon, error) {
	var wf weaponFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse weapons: %w", err)
	}
	if len(wf.Weapons) == 0 {
		return nil, ErrNoWeapons
	}
	for i, w := range wf.Weapons {
		if err := validateWeapon(w); err != nil {
			return nil, fmt.Errorf("weapon %d: %w", i, err)
		}
	}
	return wf.Weapons, nil
}

func validateWeapon(w Weapon) error {
	if w.Name == "" {
		return fmt.Errorf("%w: weapon name is empty", ErrInvalidLevel)
	}
	if w.Damage <= 0 {
		return fmt.Errorf("%w: %s damage must be positive, got %d", ErrInvalidLevel, w.Name, w.Damage)
	}
	if w.Speed <= 0 {
		return fmt.Errorf("%w: %s speed must be positive, got %v", ErrInvalidLevel, w.Name, w.Speed)
	}
	if w.FireRateMs < 0 {
		return fmt.Errorf("%w: %s fire rate must not be negative", ErrInvalidLevel, w.Name)
	}
	return nil
}
