package mahjong

import (
	"sort"
	"testing"
)

func hand34(t *testing.T, s string) Hand34 {
	t.Helper()
	h, _ := Hand34FromTiles(tiles(t, s))
	return h
}

func sortedTypes(ts []TileType) []TileType {
	out := append([]TileType(nil), ts...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestSearcher_KokushiShantenAndAgari(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 13-sided kokushi tenpai: all 13 terminals/honors, no pair.
	h13 := hand34(t, "19m19p19s1234567z")
	if got := s.ShantenAll(h13, 0); got != 0 {
		t.Fatalf("kokushi shanten expected 0, got %d", got)
	}
	if waits := s.Waits(h13, 0); len(waits) != 13 {
		t.Fatalf("13-sided wait expected, got %v", waits)
	}

	h14 := h13
	h14[Man1]++
	if !s.IsAgariAll(h14, 0) {
		t.Fatalf("kokushi agari expected true")
	}
}

func TestSearcher_ChiitoiShantenAndAgari(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 6 pairs + 1 single => chiitoi tenpai
	h13 := hand34(t, "112233m1122p11s1z")
	if got := s.ShantenAll(h13, 0); got != 0 {
		t.Fatalf("chiitoi shanten expected 0, got %d", got)
	}
	waits, ukeire := s.WaitsAndUkeire(h13, 0, nil)
	if len(waits) != 1 || waits[0] != East {
		t.Fatalf("chiitoi waits expected [East], got %v", waits)
	}
	if ukeire != 3 {
		t.Fatalf("chiitoi ukeire expected 3 (4-1), got %d", ukeire)
	}

	h14 := h13
	h14[East]++
	if !s.IsAgariAll(h14, 0) {
		t.Fatalf("chiitoi agari expected true")
	}
}

func TestSearcher_FourOfAKindIsNotTwoPairs(t *testing.T) {
	if IsAgariChiitoi(hand34(t, "1111m2233p4455s66z")) {
		t.Fatalf("four identical tiles must not count as two pairs")
	}
}

func TestIsWinningHand(t *testing.T) {
	cases := []struct {
		name  string
		hand  string
		melds int
		want  bool
	}{
		{"standard", "111456m234p77799s", 0, true},
		{"seven pairs", "1133m5577p99s1122z", 0, true},
		{"kokushi", "119m19p19s1234567z", 0, true},
		{"one meld fixed", "123p123s789m11z", 1, true},
		{"wrong count", "123p123s789m11z", 0, false},
		{"incomplete", "1245m456p789s1122z", 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsWinningHand(tiles(t, c.hand), c.melds); got != c.want {
				t.Fatalf("IsWinningHand(%s, %d) = %v", c.hand, c.melds, got)
			}
		})
	}
}

func TestTenpaiWaits(t *testing.T) {
	cases := []struct {
		name string
		hand string
		want []TileType
	}{
		{"ryanmen", tenpaiHand, []TileType{So5, So8}},
		{"shanpon", "123m456p789s1122z", []TileType{East, South}},
		{"tanki", "123789m123789p1z", []TileType{East}},
		{"noten", junkA, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := sortedTypes(TenpaiWaits(tiles(t, c.hand), 0))
			if len(got) != len(c.want) {
				t.Fatalf("waits = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("waits = %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestCalculateShanten(t *testing.T) {
	if got := CalculateShanten(tiles(t, tenpaiHand), 0); got != 0 {
		t.Fatalf("tenpai shanten = %d", got)
	}
	if got := CalculateShanten(tiles(t, "111456m234p77799s"), 0); got != 0 {
		t.Fatalf("agari shanten should clamp to 0, got %d", got)
	}
	// 十种幺九，国士两向听以内
	if got := CalculateShanten(tiles(t, junkA), 0); got != 3 {
		t.Fatalf("junk shanten = %d", got)
	}
}

func TestSearcher_NormalAgariWithFixedMelds(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	if !s.IsAgariAll(hand34(t, "123p123s789m11z"), 1) {
		t.Fatalf("normal agari with fixedMelds=1 expected true")
	}
	// 有副露时不考虑国士
	if got := s.ShantenAll(hand34(t, "19m19p19s1234567z"), 1); got == 0 {
		t.Fatalf("with fixedMelds>0, kokushi shape must not be tenpai")
	}
}

func TestSearcher_SeekCandidates(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 打 1s 后 123m 123p 123s 78m 11z 听 6m/9m
	hand14 := tiles(t, "12378m123p1123s11z")
	found := false
	for _, c := range s.SeekCandidates(hand14, 0, nil) {
		if c.DiscardType != So1 {
			continue
		}
		found = true
		waits := sortedTypes(c.Waits)
		if len(waits) != 2 || waits[0] != Man6 || waits[1] != Man9 {
			t.Fatalf("expected waits 6m/9m, got %v", c.Waits)
		}
		if c.Ukeire != 8 {
			t.Fatalf("expected ukeire=8, got %d", c.Ukeire)
		}
		if len(c.DiscardOptions) != 2 {
			t.Fatalf("expected 2 discard options for 1s, got %d", len(c.DiscardOptions))
		}
	}
	if !found {
		t.Fatalf("expected a candidate discarding 1s")
	}

	// 可见的牌从进张中扣除
	var visible [34]uint8
	visible[Man6] = 3
	for _, c := range s.SeekCandidates(hand14, 0, &visible) {
		if c.DiscardType == So1 && c.Ukeire != 5 {
			t.Fatalf("ukeire with visible tiles = %d, want 5", c.Ukeire)
		}
	}
}

func TestSearcher_CachedWaitsAreCopies(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	h := hand34(t, tenpaiHand)
	first := s.Waits(h, 0)
	first[0] = Red
	for i := 0; i < 3; i++ {
		got := sortedTypes(s.Waits(h, 0))
		if len(got) != 2 || got[0] != So5 || got[1] != So8 {
			t.Fatalf("waits after mutation = %v", got)
		}
	}
}

func TestSearcher_WithoutCache(t *testing.T) {
	s := &Searcher{}
	if !s.IsAgariAll(hand34(t, "111456m234p77799s"), 0) {
		t.Fatalf("agari without cache")
	}
	if got := s.ShantenAll(hand34(t, tenpaiHand), 0); got != 0 {
		t.Fatalf("shanten without cache = %d", got)
	}
	s.Close()
}
