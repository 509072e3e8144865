package game

import "errors"

var (
	// ErrInvalidLevel wraps every level validation failure.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrUnknownTerrain is returned for terrain names outside the closed set.
	ErrUnknownTerrain = errors.New("unknown terrain")
	// ErrOddTeleporters means the teleporter list cannot be paired.
	ErrOddTeleporters = errors.New("teleporters must come in pairs")
	// ErrNoWeapons is returned when an engine is built without a weapon table.
	ErrNoWeapons = errors.New("weapon table is empty")
)
