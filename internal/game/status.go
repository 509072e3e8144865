package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PowerUpEffect is what a collected power-up does to its unit.
type PowerUpEffect uint8

const (
	EffectHealth PowerUpEffect = iota
	EffectSpeed
	EffectShield
	EffectRapidFire
)

func (e PowerUpEffect) String() string {
	switch e {
	case EffectHealth:
		return "health"
	case EffectSpeed:
		return "speed"
	case EffectShield:
		return "shield"
	case EffectRapidFire:
		return "rapidFire"
	default:
		return "unknown"
	}
}

func (e *PowerUpEffect) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	for _, c := range []PowerUpEffect{EffectHealth, EffectSpeed, EffectShield, EffectRapidFire} {
		if strings.EqualFold(c.String(), s) {
			*e = c
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown power-up effect %q", n.Line, s)
}

// StatusEffects holds the timed and one-shot buffs of a unit. Expiry times
// are absolute engine milliseconds.
type StatusEffects struct {
	Shield     bool
	SpeedUntil int64
	RapidUntil int64

	speed     bool
	rapid     bool
	savedRate int64
}

// SpeedActive reports whether the speed boost applies at now.
func (s *StatusEffects) SpeedActive(now int64) bool {
	return s.speed && now < s.SpeedUntil
}

// RapidActive reports whether rapid fire is in effect.
func (s *StatusEffects) RapidActive() bool {
	return s.rapid
}

// ApplyPowerUp applies effect to u. Timed effects last durationMs from now;
// picking up an active timed effect only refreshes its expiry.
func (u *Unit) ApplyPowerUp(effect PowerUpEffect, now, durationMs, rapidDivisor int64) {
	switch effect {
	case EffectHealth:
		if u.Health < u.MaxHealth {
			u.Health++
		}
	case EffectShield:
		u.Status.Shield = true
	case EffectSpeed:
		u.Status.speed = true
		u.Status.SpeedUntil = now + durationMs
	case EffectRapidFire:
		if !u.Status.rapid {
			u.Status.rapid = true
			u.Status.savedRate = u.Weapon.FireRateMs
			if rapidDivisor < 1 {
				rapidDivisor = 1
			}
			u.Weapon.FireRateMs = u.Status.savedRate / rapidDivisor
		}
		u.Status.RapidUntil = now + durationMs
	}
}

// MoveCooldown returns the minimum ms between moves at time now.
func (u *Unit) MoveCooldown(now, base int64) int64 {
	if u.Status.SpeedActive(now) {
		return base / 2
	}
	return base
}

// FireRate returns the current ms between shots, rapid fire included.
func (u *Unit) FireRate() int64 {
	return u.Weapon.FireRateMs
}

// ExpireEffects clears timed effects whose expiry is at or before now and
// returns the ones that ended. Rapid fire restores the exact rate saved at
// activation.
func (u *Unit) ExpireEffects(now int64) []PowerUpEffect {
	var ended []PowerUpEffect
	if u.Status.speed && now >= u.Status.SpeedUntil {
		u.Status.speed = false
		u.Status.SpeedUntil = 0
		ended = append(ended, EffectSpeed)
	}
	if u.Status.rapid && now >= u.Status.RapidUntil {
		u.Status.rapid = false
		u.Status.RapidUntil = 0
		u.Weapon.FireRateMs = u.Status.savedRate
		ended = append(ended, EffectRapidFire)
	}
	return ended
}

// clearEffects drops every effect at once, restoring the rapid-fire rate
// first so the weapon is left as issued.
func (u *Unit) clearEffects() {
	if u.Status.rapid {
		u.Weapon.FireRateMs = u.Status.savedRate
	}
	u.Status = StatusEffects{}
}

// PowerUpType is one entry of a level's power-up table.
type PowerUpType struct {
	Name   string        `yaml:"name"`
	Effect PowerUpEffect `yaml:"effect"`
}

// PowerUp is an uncollected pickup lying on the grid.
type PowerUp struct {
	ID   int
	Pos  Cell
	Type PowerUpType
}

// collectPowerUps hands each power-up to the first living unit, in roster
// order, standing on its cell.
func (e *Engine) collectPowerUps(now int64) {
	kept := e.powerUps[:0]
	for _, p := range e.powerUps {
		u := e.unitAt(p.Pos)
		if u == nil {
			kept = append(kept, p)
			continue
		}
		cfg := e.level.PowerUps
		u.ApplyPowerUp(p.Type.Effect, now, cfg.DurationMs, cfg.RapidFireDivisor)
		e.emit(Event{
			Kind:   EventPowerUpCollected,
			UnitID: u.ID,
			Label:  u.Label,
			Team:   u.Team,
			Cell:   p.Pos,
			Detail: p.Type.Name + " (" + p.Type.Effect.String() + ")",
		})
	}
	for i := len(kept); i < len(e.powerUps); i++ {
		e.powerUps[i] = nil
	}
	e.powerUps = kept
}

func (e *Engine) expireEffects(now int64) {
	for _, u := range e.units {
		if !u.Alive() {
			continue
		}
		for _, eff := range u.ExpireEffects(now) {
			e.emit(Event{
				Kind:   EventEffectExpired,
				UnitID: u.ID,
				Label:  u.Label,
				Team:   u.Team,
				Cell:   u.Pos,
				Detail: eff.String(),
			})
		}
	}
}
