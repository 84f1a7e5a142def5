package mahjong

import "testing"

func TestDecidePlayAction(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	t.Run("tsumo first", func(t *testing.T) {
		hand := tiles(t, "234234m567p55678s")
		d := DecidePlayAction(s, PlayContext{Hand: hand, Newest: &hand[13], CanTsumo: true, CanRiichi: true})
		if d.Action != ActionTsumo {
			t.Fatalf("decision = %s", d.Action)
		}
	})

	t.Run("riichi discards newest", func(t *testing.T) {
		hand := tiles(t, tenpaiHand+"9p")
		d := DecidePlayAction(s, PlayContext{Hand: hand, Newest: &hand[13], IsRiichi: true, CanKan: true})
		if d.Action != ActionDiscard || d.Tile.ID != hand[13].ID {
			t.Fatalf("decision = %s %v", d.Action, d.Tile)
		}
	})

	t.Run("declare riichi on widest wait", func(t *testing.T) {
		hand := tiles(t, tenpaiHand+"1z")
		d := DecidePlayAction(s, PlayContext{Hand: hand, CanRiichi: true})
		if d.Action != ActionRiichi || d.Tile.Type != East {
			t.Fatalf("decision = %s %v", d.Action, d.Tile)
		}
	})

	t.Run("ankan", func(t *testing.T) {
		hand := tiles(t, "1111m37p37s234567z")
		d := DecidePlayAction(s, PlayContext{Hand: hand, CanKan: true})
		if d.Action != ActionAnkan || d.Tile.Type != Man1 {
			t.Fatalf("decision = %s %v", d.Action, d.Tile)
		}
	})

	t.Run("discard isolated honor", func(t *testing.T) {
		hand := tiles(t, "123m456p789s11557z")
		d := DecidePlayAction(s, PlayContext{Hand: hand})
		if d.Action != ActionDiscard || d.Tile.Type != Red {
			t.Fatalf("decision = %s %v", d.Action, d.Tile)
		}
	})
}

func TestDecideCallAction(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	ponOp := func(hand []Tile, tt TileType) *PlayerOperation {
		var pair []Tile
		for _, tile := range hand {
			if tile.Type == tt && len(pair) < 2 {
				pair = append(pair, tile)
			}
		}
		return &PlayerOperation{Type: OpPon, Tiles: pair}
	}
	called := Tile{Type: White, ID: int(White)*4 + 3}

	t.Run("ron", func(t *testing.T) {
		hand := tiles(t, tenpaiHand)
		d := DecideCallAction(s, CallContext{
			Hand: hand,
			Tile: Tile{Type: So8, ID: int(So8) * 4},
			Options: []*PlayerOperation{
				{Type: OpChi, Tiles: hand[11:13]},
				{Type: OpRon},
			},
		})
		if d.Action != ActionRon {
			t.Fatalf("decision = %s", d.Action)
		}
	})

	t.Run("pon that reduces shanten", func(t *testing.T) {
		hand := tiles(t, "123m456p789s55z19m")
		op := ponOp(hand, White)
		d := DecideCallAction(s, CallContext{Hand: hand, Tile: called, Options: []*PlayerOperation{op}})
		if d.Action != ActionPon || len(d.Tiles) != 2 {
			t.Fatalf("decision = %s %v", d.Action, d.Tiles)
		}
		opType, ids := d.operation()
		if opType != OpPon || len(ids) != 2 || ids[0] != op.Tiles[0].ID {
			t.Fatalf("operation = %s %v", opType, ids)
		}
	})

	t.Run("pon that keeps shanten", func(t *testing.T) {
		hand := tiles(t, "123m456p789s5511z")
		d := DecideCallAction(s, CallContext{Hand: hand, Tile: called, Options: []*PlayerOperation{ponOp(hand, White)}})
		if d.Action != ActionPass {
			t.Fatalf("decision = %s", d.Action)
		}
	})

	t.Run("chi is declined", func(t *testing.T) {
		hand := tiles(t, tenpaiHand)
		d := DecideCallAction(s, CallContext{
			Hand:    hand,
			Tile:    Tile{Type: So8, ID: int(So8) * 4},
			Options: []*PlayerOperation{{Type: OpChi, Tiles: hand[11:13]}},
		})
		if d.Action != ActionPass {
			t.Fatalf("decision = %s", d.Action)
		}
		if op, ids := d.operation(); op != OpPass || ids != nil {
			t.Fatalf("pass operation = %s %v", op, ids)
		}
	})
}

func TestPreferPlain(t *testing.T) {
	red := NewTile(int(Man5)*4, true)
	plain := NewTile(int(Man5)*4+1, true)
	if got := preferPlain([]Tile{red, plain}); got.ID != plain.ID {
		t.Fatalf("picked %v", got)
	}
	if got := preferPlain([]Tile{red}); got.ID != red.ID {
		t.Fatalf("picked %v", got)
	}
}
