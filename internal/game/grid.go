package game

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the cell n steps away in direction d.
func (c Cell) Step(d Direction, n int) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx*n, Y: c.Y + dy*n}
}

// UnmarshalYAML accepts either a flow pair [x, y] or a mapping {x: .., y: ..}.
func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var xy []int
		if err := n.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: cell needs exactly two coordinates, got %d", n.Line, len(xy))
		}
		c.X, c.Y = xy[0], xy[1]
		return nil
	}
	var m struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	}
	if err := n.Decode(&m); err != nil {
		return err
	}
	c.X, c.Y = m.X, m.Y
	return nil
}

func manhattan(a, b Cell) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is a cardinal facing. DirNone only appears in intents.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Delta returns the unit grid offset for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse facing.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// ParseDirection resolves a facing name from level files.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return DirNone, fmt.Errorf("unknown direction %q", s)
}

func (d *Direction) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = parsed
	return nil
}

// horizontalToward returns DirLeft/DirRight for a signed x delta.
func horizontalToward(dx int) Direction {
	if dx < 0 {
		return DirLeft
	}
	return DirRight
}

// verticalToward returns DirUp/DirDown for a signed y delta.
func verticalToward(dy int) Direction {
	if dy < 0 {
		return DirUp
	}
	return DirDown
}

// SafeZone is an inclusive column range reserved to one team.
type SafeZone struct {
	StartX int `yaml:"startX"`
	EndX   int `yaml:"endX"`
}

// Contains reports whether column x is inside the zone.
func (z SafeZone) Contains(x int) bool {
	return x >= z.StartX && x <= z.EndX
}

// Grid is the fixed-size terrain map of a level. The only runtime mutation
// is roadkill placement.
type Grid struct {
	Width    int
	Height   int
	TileSize float64

	tiles   []Terrain
	zones   [teamCount]SafeZone
	partner map[Cell]Cell
}

// NewGrid allocates a grid filled with base terrain.
func NewGrid(width, height int, tileSize float64, base Terrain) *Grid {
	g := &Grid{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		tiles:    make([]Terrain, width*height),
		partner:  make(map[Cell]Cell),
	}
	for i := range g.tiles {
		g.tiles[i] = base
	}
	return g
}

// InBounds reports whether (x,y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// TerrainAt returns the terrain at (x,y). Out-of-bounds reads as mountain.
func (g *Grid) TerrainAt(x, y int) Terrain {
	if !g.InBounds(x, y) {
		return TerrainMountain
	}
	return g.tiles[y*g.Width+x]
}

// KindAt returns the terrain kind at (x,y). Out-of-bounds is blocking.
func (g *Grid) KindAt(x, y int) TerrainKind {
	return g.TerrainAt(x, y).Kind()
}

// Set overwrites the terrain of an in-bounds cell.
func (g *Grid) Set(x, y int, t Terrain) {
	if g.InBounds(x, y) {
		g.tiles[y*g.Width+x] = t
	}
}

// IsBlocking reports whether (x,y) stops projectiles.
func (g *Grid) IsBlocking(x, y int) bool {
	return IsBlocking(g.KindAt(x, y))
}

// BlocksUnits reports whether a unit may never stand on (x,y).
func (g *Grid) BlocksUnits(x, y int) bool {
	return !g.InBounds(x, y) || g.IsBlocking(x, y)
}

// BlocksCreatures reports whether a creature may never stand on (x,y).
// Rooftops are out of reach for creatures.
func (g *Grid) BlocksCreatures(x, y int) bool {
	return g.BlocksUnits(x, y) || g.KindAt(x, y) == KindElevated
}

// SetSafeZone assigns the column range reserved to team.
func (g *Grid) SetSafeZone(team Team, z SafeZone) {
	if team.valid() {
		g.zones[team] = z
	}
}

// SafeZone returns the zone of team.
func (g *Grid) SafeZone(team Team) SafeZone {
	if !team.valid() {
		return SafeZone{StartX: -1, EndX: -2}
	}
	return g.zones[team]
}

// IsInSafeZone reports whether column x lies in team's own zone.
func (g *Grid) IsInSafeZone(team Team, x int) bool {
	return team.valid() && g.zones[team].Contains(x)
}

// IsEnemySafeZone reports whether column x lies in the opponent's zone.
func (g *Grid) IsEnemySafeZone(team Team, x int) bool {
	return team.valid() && g.zones[team.Opponent()].Contains(x)
}

// inAnySafeZone reports whether column x belongs to either team.
func (g *Grid) inAnySafeZone(x int) bool {
	return g.zones[TeamBlue].Contains(x) || g.zones[TeamRed].Contains(x)
}

// PlaceRoadkill turns a road cell into roadkill. Returns false for any
// cell that is not a road.
func (g *Grid) PlaceRoadkill(x, y int) bool {
	if !g.InBounds(x, y) || !g.TerrainAt(x, y).isRoad() {
		return false
	}
	g.Set(x, y, TerrainRoadkill)
	return true
}

// linkTeleporters pairs pads consecutively: 0<->1, 2<->3, ...
func (g *Grid) linkTeleporters(pads []Cell) error {
	if len(pads)%2 != 0 {
		return fmt.Errorf("%w: got %d pads", ErrOddTeleporters, len(pads))
	}
	for i := 0; i < len(pads); i += 2 {
		a, b := pads[i], pads[i+1]
		g.Set(a.X, a.Y, TerrainTeleporter)
		g.Set(b.X, b.Y, TerrainTeleporter)
		g.partner[a] = b
		g.partner[b] = a
	}
	return nil
}

// TeleportPartner returns the pad linked to c.
func (g *Grid) TeleportPartner(c Cell) (Cell, bool) {
	p, ok := g.partner[c]
	return p, ok
}

// CellsOf returns every cell whose terrain is one of ts, in row-major order.
func (g *Grid) CellsOf(ts ...Terrain) []Cell {
	var out []Cell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.tiles[y*g.Width+x]
			for _, want := range ts {
				if t == want {
					out = append(out, Cell{X: x, Y: y})
					break
				}
			}
		}
	}
	return out
}

// CellCenter returns the pixel center of c.
func (g *Grid) CellCenter(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * g.TileSize, (float64(c.Y) + 0.5) * g.TileSize
}

// CellOf returns the cell containing pixel position (px,py).
func (g *Grid) CellOf(px, py float64) Cell {
	return Cell{
		X: int(math.Floor(px / g.TileSize)),
		Y: int(math.Floor(py / g.TileSize)),
	}
}
