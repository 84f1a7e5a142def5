package mahjong

import "testing"

func TestHand34_TakeStaysInSuit(t *testing.T) {
	cases := []struct {
		name string
		hand string
		at   TileType
		kind shapeKind
		ok   bool
	}{
		{"run", "234m", Man2, shapeRun, true},
		{"run across suits", "89m1p", Man8, shapeRun, false},
		{"gap across suits", "9m2p", Man9, shapeGap, false},
		{"honor run", "123z", East, shapeRun, false},
		{"honor pair", "55z", White, shapePair, true},
		{"triplet short", "11m", Man1, shapeTriplet, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := hand34(t, c.hand)
			before := h
			if got := h.take(int(c.at), c.kind); got != c.ok {
				t.Fatalf("take = %v, want %v", got, c.ok)
			}
			if !c.ok {
				if h != before {
					t.Fatalf("failed take changed hand: %v", h)
				}
				return
			}
			if h.Total() != before.Total()-len(shapeOffsets[c.kind]) {
				t.Fatalf("take removed %d tiles", before.Total()-h.Total())
			}
			h.put(int(c.at), c.kind)
			if h != before {
				t.Fatalf("put did not restore hand")
			}
		})
	}
}

func TestShantenStandard(t *testing.T) {
	cases := []struct {
		hand string
		want int
	}{
		{"123456789m1122z", 0},
		{"123456789m1357z", 2},
		{"19m19p19s1234567z", 8},
		{"111456m234p77799s", -1},
	}
	for _, c := range cases {
		t.Run(c.hand, func(t *testing.T) {
			if got := shantenStandard(hand34(t, c.hand), 0); got != c.want {
				t.Fatalf("shanten = %d, want %d", got, c.want)
			}
		})
	}
}
