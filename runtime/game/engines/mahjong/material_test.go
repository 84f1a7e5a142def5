package mahjong

import (
	"math/rand"
	"testing"
)

func TestDoraFromIndicator_WrapsWithinGroup(t *testing.T) {
	cases := []struct {
		indicator TileType
		want      TileType
	}{
		{Man1, Man2},
		{Man9, Man1},
		{Pin9, Pin1},
		{So8, So9},
		{So9, So1},
		{East, South},
		{North, East},
		{White, Green},
		{Red, White},
	}
	for _, c := range cases {
		if got := DoraFromIndicator(c.indicator); got != c.want {
			t.Fatalf("dora of %s = %s, want %s", c.indicator, got, c.want)
		}
	}
}

func TestNewTileDeck_UniqueWithThreeReds(t *testing.T) {
	deck := NewTileDeck(true)
	if len(deck) != TileLimit {
		t.Fatalf("deck size = %d", len(deck))
	}
	seen := make(map[int]bool, TileLimit)
	reds := 0
	var perType [TileKinds]int
	for _, tile := range deck {
		if seen[tile.ID] {
			t.Fatalf("duplicate tile id %d", tile.ID)
		}
		seen[tile.ID] = true
		perType[tile.Type]++
		if tile.Red {
			reds++
			if !tile.Type.IsFive() {
				t.Fatalf("red flag on %s", tile)
			}
		}
	}
	if reds != 3 {
		t.Fatalf("reds = %d, want 3", reds)
	}
	for tt, n := range perType {
		if n != 4 {
			t.Fatalf("type %s has %d copies", TileType(tt), n)
		}
	}

	for _, tile := range NewTileDeck(false) {
		if tile.Red {
			t.Fatalf("red five without red rule: %s", tile)
		}
	}
}

func TestTileType_Classification(t *testing.T) {
	if !Man1.IsTerminal() || !So9.IsYaochu() || Pin5.IsYaochu() {
		t.Fatalf("terminal classification wrong")
	}
	if !East.IsWind() || East.IsDragon() || !Red.IsDragon() || !White.IsHonor() {
		t.Fatalf("honor classification wrong")
	}
	if Pin3.Suit() != SuitPin || Pin3.Value() != 3 || So7.Value() != 7 {
		t.Fatalf("suit/value wrong: %v %d", Pin3.Suit(), Pin3.Value())
	}
	if WindTile(WindNorth) != North || WindNorth.Next() != WindEast {
		t.Fatalf("wind mapping wrong")
	}
}

func TestDeckManager_InitRoundSplitsWall(t *testing.T) {
	dm := NewDeckManager(true, rand.New(rand.NewSource(7)))
	dm.InitRound()

	if got := dm.Remaining(); got != TileLimit-DeadWallSize {
		t.Fatalf("remaining = %d", got)
	}
	if got := dm.DeadWallSize(); got != DeadWallSize {
		t.Fatalf("dead wall = %d", got)
	}
	if len(dm.DoraIndicators()) != 0 {
		t.Fatalf("no indicator should be revealed before RevealDoraIndicator")
	}
	ind, ok := dm.RevealDoraIndicator()
	if !ok {
		t.Fatalf("reveal failed")
	}
	if got := dm.DoraIndicators(); len(got) != 1 || got[0].ID != ind.ID {
		t.Fatalf("indicators = %v", got)
	}
	if len(dm.UraDoraIndicators()) != 1 {
		t.Fatalf("ura indicators must follow revealed count")
	}

	for i := 0; i < 4; i++ {
		if _, ok := dm.RevealDoraIndicator(); !ok {
			t.Fatalf("reveal %d failed", i+2)
		}
	}
	if _, ok := dm.RevealDoraIndicator(); ok {
		t.Fatalf("only five indicators exist")
	}
}

func TestDeckManager_DrawUntilEmpty(t *testing.T) {
	dm := NewDeckManager(false, rand.New(rand.NewSource(1)))
	dm.InitRound()
	n := 0
	for {
		if _, ok := dm.Draw(); !ok {
			break
		}
		n++
	}
	if n != TileLimit-DeadWallSize || dm.Remaining() != 0 {
		t.Fatalf("drew %d, remaining %d", n, dm.Remaining())
	}
}

func TestDeckManager_ReplacementKeepsDeadWallSize(t *testing.T) {
	order := layout{rinshan: "1z2z"}.build(t, false)
	dm := NewDeckManager(false, nil)
	if err := dm.Stack(order); err != nil {
		t.Fatalf("stack: %v", err)
	}
	dm.InitRound()
	before := dm.Remaining()
	lastWall := order[TileLimit-DeadWallSize-1]

	r1, ok := dm.DrawReplacement()
	if !ok || r1.Type != East {
		t.Fatalf("first replacement = %v ok=%v", r1, ok)
	}
	if dm.Remaining() != before-1 || dm.DeadWallSize() != DeadWallSize {
		t.Fatalf("remaining %d dead %d", dm.Remaining(), dm.DeadWallSize())
	}
	w := dm.Wang()
	if got := w.DeadWall[len(w.DeadWall)-1]; got.ID != lastWall.ID {
		t.Fatalf("last wall tile should move into the dead wall, got %v", got)
	}
	r2, _ := dm.DrawReplacement()
	if r2.Type != South {
		t.Fatalf("second replacement = %v", r2)
	}
}

func TestDeckManager_StackRejectsBadOrder(t *testing.T) {
	dm := NewDeckManager(false, nil)
	order := layout{}.build(t, false)

	if err := dm.Stack(order[:100]); err != ErrBadStack {
		t.Fatalf("short order: %v", err)
	}
	dup := append([]Tile(nil), order...)
	dup[1] = dup[0]
	if err := dm.Stack(dup); err != ErrBadStack {
		t.Fatalf("duplicate order: %v", err)
	}
	wrong := append([]Tile(nil), order...)
	wrong[0].Type = Red
	if err := dm.Stack(wrong); err != ErrBadStack {
		t.Fatalf("mismatched type: %v", err)
	}
	if err := dm.Stack(order); err != nil {
		t.Fatalf("valid order: %v", err)
	}
}

func TestDeckManager_StackUsedOnce(t *testing.T) {
	order := layout{hands: []string{junkA}}.build(t, false)
	dm := NewDeckManager(false, rand.New(rand.NewSource(3)))
	if err := dm.Stack(order); err != nil {
		t.Fatalf("stack: %v", err)
	}
	dm.InitRound()
	first, _ := dm.Draw()
	if first.ID != order[0].ID {
		t.Fatalf("stacked round should draw %v first, got %v", order[0], first)
	}
	// 下一局恢复洗牌
	dm.InitRound()
	if dm.Remaining() != TileLimit-DeadWallSize {
		t.Fatalf("remaining = %d", dm.Remaining())
	}
}

func TestMeld_Shape(t *testing.T) {
	pon := Meld{Type: MeldPon, Tiles: tiles(t, "555p"), From: 1}
	if !pon.IsOpen() || pon.IsKan() || pon.BaseType() != Pin5 {
		t.Fatalf("pon shape wrong: %+v", pon)
	}
	ankan := Meld{Type: MeldAnkan, Tiles: tiles(t, "1111z"), From: 0}
	if ankan.IsOpen() || !ankan.IsKan() {
		t.Fatalf("ankan shape wrong")
	}
	chi := Meld{Type: MeldChi, Tiles: tiles(t, "645s"), From: 3}
	if chi.BaseType() != So4 {
		t.Fatalf("chi base = %s", chi.BaseType())
	}
}
