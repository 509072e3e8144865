package game

import (
	"errors"
	"testing"
)

func TestTerrain_KindTable(t *testing.T) {
	want := map[Terrain]TerrainKind{
		TerrainGrass:      KindOpen,
		TerrainSidewalk:   KindOpen,
		TerrainPark:       KindOpen,
		TerrainStreetV:    KindOpen,
		TerrainStreetH:    KindOpen,
		TerrainTrench:     KindCover,
		TerrainPothole:    KindCover,
		TerrainMountain:   KindBlocking,
		TerrainCar:        KindBlocking,
		TerrainMud:        KindSlow,
		TerrainRoadkill:   KindSlow,
		TerrainBounce:     KindLaunch,
		TerrainTeleporter: KindWarp,
		TerrainSewer:      KindHazardSpawn,
		TerrainBuilding:   KindElevated,
	}
	if len(want) != int(terrainCount) {
		t.Fatalf("table covers %d terrains, enum has %d", len(want), terrainCount)
	}
	for ter, k := range want {
		if got := ter.Kind(); got != k {
			t.Errorf("%s.Kind() = %s, want %s", ter, got, k)
		}
	}
}

func TestParseTerrain(t *testing.T) {
	for i := Terrain(0); i < terrainCount; i++ {
		got, err := ParseTerrain(i.String())
		if err != nil || got != i {
			t.Errorf("ParseTerrain(%q) = %v, %v", i.String(), got, err)
		}
	}
	if got, err := ParseTerrain("STREETv"); err != nil || got != TerrainStreetV {
		t.Errorf("case-insensitive parse failed: %v %v", got, err)
	}
	if _, err := ParseTerrain("lava"); !errors.Is(err, ErrUnknownTerrain) {
		t.Fatalf("expected ErrUnknownTerrain, got %v", err)
	}
}

func TestGrid_OutOfBoundsIsBlocking(t *testing.T) {
	g := NewGrid(4, 3, 40, TerrainGrass)
	for _, c := range []Cell{{-1, 0}, {0, -1}, {4, 0}, {0, 3}} {
		if g.InBounds(c.X, c.Y) {
			t.Errorf("%s should be out of bounds", c)
		}
		if !IsBlocking(g.KindAt(c.X, c.Y)) {
			t.Errorf("%s should read as blocking", c)
		}
		if !g.BlocksUnits(c.X, c.Y) || !g.BlocksCreatures(c.X, c.Y) {
			t.Errorf("%s should block units and creatures", c)
		}
	}
	if g.BlocksUnits(3, 2) {
		t.Error("in-bounds grass should not block")
	}
}

func TestGrid_BuildingBlocksCreaturesOnly(t *testing.T) {
	g := NewGrid(5, 5, 40, TerrainGrass)
	g.Set(2, 2, TerrainBuilding)
	if g.BlocksUnits(2, 2) {
		t.Error("units can climb buildings")
	}
	if g.IsBlocking(2, 2) {
		t.Error("buildings do not stop projectiles")
	}
	if !g.BlocksCreatures(2, 2) {
		t.Error("creatures cannot enter buildings")
	}
}

func TestGrid_SafeZones(t *testing.T) {
	g := NewGrid(20, 14, 40, TerrainGrass)
	g.SetSafeZone(TeamBlue, SafeZone{StartX: 0, EndX: 1})
	g.SetSafeZone(TeamRed, SafeZone{StartX: 18, EndX: 19})

	cases := []struct {
		team     Team
		x        int
		own, foe bool
	}{
		{TeamBlue, 0, true, false},
		{TeamBlue, 1, true, false},
		{TeamBlue, 2, false, false},
		{TeamBlue, 18, false, true},
		{TeamRed, 19, true, false},
		{TeamRed, 1, false, true},
		{TeamRed, 10, false, false},
		{TeamNone, 0, false, false},
	}
	for _, c := range cases {
		if got := g.IsInSafeZone(c.team, c.x); got != c.own {
			t.Errorf("IsInSafeZone(%s,%d) = %v, want %v", c.team, c.x, got, c.own)
		}
		if got := g.IsEnemySafeZone(c.team, c.x); got != c.foe {
			t.Errorf("IsEnemySafeZone(%s,%d) = %v, want %v", c.team, c.x, got, c.foe)
		}
	}
}

func TestGrid_PlaceRoadkillOnlyOnRoads(t *testing.T) {
	g := NewGrid(4, 1, 28, TerrainSidewalk)
	g.Set(1, 0, TerrainStreetV)
	g.Set(2, 0, TerrainStreetH)

	if g.PlaceRoadkill(0, 0) {
		t.Error("roadkill placed on sidewalk")
	}
	if !g.PlaceRoadkill(1, 0) || !g.PlaceRoadkill(2, 0) {
		t.Fatal("roadkill should land on streets")
	}
	if g.TerrainAt(1, 0) != TerrainRoadkill || g.KindAt(2, 0) != KindSlow {
		t.Errorf("roadkill cells: %s %s", g.TerrainAt(1, 0), g.TerrainAt(2, 0))
	}
	if g.PlaceRoadkill(1, 0) {
		t.Error("roadkill stacked on roadkill")
	}
	if g.PlaceRoadkill(9, 0) {
		t.Error("roadkill placed out of bounds")
	}
}

func TestGrid_TeleportPairing(t *testing.T) {
	g := NewGrid(10, 10, 40, TerrainGrass)
	pads := []Cell{{1, 1}, {8, 8}, {2, 7}, {7, 2}}
	if err := g.linkTeleporters(pads); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(pads); i += 2 {
		if p, ok := g.TeleportPartner(pads[i]); !ok || p != pads[i+1] {
			t.Errorf("partner of %s = %s, want %s", pads[i], p, pads[i+1])
		}
		if p, ok := g.TeleportPartner(pads[i+1]); !ok || p != pads[i] {
			t.Errorf("partner of %s = %s, want %s", pads[i+1], p, pads[i])
		}
		if g.KindAt(pads[i].X, pads[i].Y) != KindWarp {
			t.Errorf("%s should be a warp pad", pads[i])
		}
	}
	if _, ok := g.TeleportPartner(Cell{5, 5}); ok {
		t.Error("plain cell has no partner")
	}

	err := NewGrid(10, 10, 40, TerrainGrass).linkTeleporters(pads[:3])
	if !errors.Is(err, ErrOddTeleporters) {
		t.Fatalf("expected ErrOddTeleporters, got %v", err)
	}
}

func TestGrid_CellGeometry(t *testing.T) {
	g := NewGrid(10, 10, 40, TerrainGrass)
	x, y := g.CellCenter(Cell{5, 2})
	if x != 220 || y != 100 {
		t.Errorf("CellCenter(5,2) = (%v,%v), want (220,100)", x, y)
	}
	if c := g.CellOf(219.9, 80); c != (Cell{5, 2}) {
		t.Errorf("CellOf = %s", c)
	}
	if c := g.CellOf(-0.5, 10); c.X != -1 {
		t.Errorf("negative px should map to column -1, got %s", c)
	}
}

func TestDirection_Delta(t *testing.T) {
	c := Cell{3, 3}
	if got := c.Step(DirUp, 2); got != (Cell{3, 1}) {
		t.Errorf("up 2 = %s", got)
	}
	if got := c.Step(DirRight, 1); got != (Cell{4, 3}) {
		t.Errorf("right 1 = %s", got)
	}
	if DirLeft.Opposite() != DirRight || DirDown.Opposite() != DirUp {
		t.Error("opposite directions wrong")
	}
	if got := c.Step(DirNone, 5); got != c {
		t.Errorf("DirNone should not move, got %s", got)
	}
}
