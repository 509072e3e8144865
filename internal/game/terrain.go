package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Terrain identifies the concrete surface placed on a grid cell.
type Terrain uint8

const (
	TerrainGrass      Terrain = iota // Default open field
	TerrainTrench                    // Dug-in cover
	TerrainMountain                  // Impassable rock
	TerrainMud                       // Slows whoever steps in
	TerrainBounce                    // Launch pad
	TerrainTeleporter                // Paired warp pad
	TerrainStreetV                   // Vertical road
	TerrainStreetH                   // Horizontal road
	TerrainSidewalk                  // Pavement
	TerrainPark                      // Open green space
	TerrainBuilding                  // Rooftop, elevated
	TerrainCar                       // Parked car, impassable
	TerrainPothole                   // Road cover
	TerrainSewer                     // Creature spawn point
	TerrainRoadkill                  // Placed at runtime on roads
	terrainCount                     // sentinel
)

var terrainNames = [terrainCount]string{
	TerrainGrass:      "grass",
	TerrainTrench:     "trench",
	TerrainMountain:   "mountain",
	TerrainMud:        "mud",
	TerrainBounce:     "bounce",
	TerrainTeleporter: "teleporter",
	TerrainStreetV:    "streetV",
	TerrainStreetH:    "streetH",
	TerrainSidewalk:   "sidewalk",
	TerrainPark:       "park",
	TerrainBuilding:   "building",
	TerrainCar:        "car",
	TerrainPothole:    "pothole",
	TerrainSewer:      "sewer",
	TerrainRoadkill:   "roadkill",
}

func (t Terrain) String() string {
	if t < terrainCount {
		return terrainNames[t]
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// ParseTerrain resolves a terrain name as written in level files.
// Matching is case-insensitive.
func ParseTerrain(name string) (Terrain, error) {
	for i, n := range terrainNames {
		if strings.EqualFold(n, name) {
			return Terrain(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTerrain, name)
}

func (t *Terrain) UnmarshalYAML(n *yaml.Node) error {
	var name string
	if err := n.Decode(&name); err != nil {
		return fmt.Errorf("line %d: terrain must be a name: %w", n.Line, err)
	}
	parsed, err := ParseTerrain(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*t = parsed
	return nil
}

func (t Terrain) MarshalYAML() (any, error) {
	return t.String(), nil
}

// TerrainKind is the behavioural class of a terrain. Movement, combat and
// triggers only ever look at the kind.
type TerrainKind uint8

const (
	KindOpen        TerrainKind = iota // No effect
	KindCover                          // Protects against shots from outside the same terrain
	KindBlocking                       // Stops units, creatures and projectiles
	KindSlow                           // Longer move animation
	KindLaunch                         // Throws the unit forward on entry
	KindWarp                           // Moves the unit next to the paired pad
	KindHazardSpawn                    // Creatures appear and retreat here
	KindElevated                       // Only hit from another elevated cell; blocks creatures
)

func (k TerrainKind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindCover:
		return "cover"
	case KindBlocking:
		return "blocking"
	case KindSlow:
		return "slow"
	case KindLaunch:
		return "launch"
	case KindWarp:
		return "warp"
	case KindHazardSpawn:
		return "hazard_spawn"
	case KindElevated:
		return "elevated"
	default:
		return "unknown"
	}
}

// Kind maps every terrain onto exactly one kind.
func (t Terrain) Kind() TerrainKind {
	switch t {
	case TerrainTrench, TerrainPothole:
		return KindCover
	case TerrainMountain, TerrainCar:
		return KindBlocking
	case TerrainMud, TerrainRoadkill:
		return KindSlow
	case TerrainBounce:
		return KindLaunch
	case TerrainTeleporter:
		return KindWarp
	case TerrainSewer:
		return KindHazardSpawn
	case TerrainBuilding:
		return KindElevated
	default:
		return KindOpen
	}
}

// IsBlocking reports whether the kind stops movement and projectiles.
func IsBlocking(k TerrainKind) bool {
	return k == KindBlocking
}

// isRoad reports whether roadkill may be dropped on the terrain.
func (t Terrain) isRoad() bool {
	return t == TerrainStreetV || t == TerrainStreetH
}
