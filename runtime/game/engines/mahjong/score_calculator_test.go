package mahjong

import "testing"

func hanYakus(han int) []YakuResult {
	out := make([]YakuResult, 0, han)
	for i := 0; i < han; i++ {
		out = append(out, YakuResult{Yaku: YakuDora, Han: 1})
	}
	return out
}

func TestCalculateScore_Ron(t *testing.T) {
	cases := []struct {
		name   string
		han    int
		fu     int
		dealer bool
		honba  int
		want   int
		label  string
	}{
		{"3 han 30 fu", 3, 30, false, 0, 3900, ""},
		{"3 han 30 fu dealer", 3, 30, true, 0, 5800, ""},
		{"1 han 30 fu", 1, 30, false, 0, 1000, ""},
		{"3 han 50 fu", 3, 50, false, 0, 6400, ""},
		{"4 han 30 fu rounds up", 4, 30, false, 0, 8000, "满贯"},
		{"3 han 60 fu rounds up", 3, 60, false, 0, 8000, "满贯"},
		{"5 han", 5, 30, false, 0, 8000, "满贯"},
		{"haneman dealer", 6, 30, true, 0, 18000, "跳满"},
		{"baiman", 8, 40, false, 0, 16000, "倍满"},
		{"sanbaiman", 11, 30, false, 0, 24000, "三倍满"},
		{"counted yakuman", 13, 30, false, 0, 32000, "累计役满"},
		{"honba", 3, 30, false, 2, 4500, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := CalculateScore(hanYakus(c.han), c.fu, false, c.dealer, c.honba, 4)
			if res.RonPayment != c.want || res.TotalScore != c.want {
				t.Fatalf("ron payment = %d total = %d, want %d", res.RonPayment, res.TotalScore, c.want)
			}
			if res.Label != c.label {
				t.Fatalf("label = %q, want %q", res.Label, c.label)
			}
			if res.Han != c.han || res.Fu != c.fu {
				t.Fatalf("han/fu = %d/%d", res.Han, res.Fu)
			}
		})
	}
}

func TestCalculateScore_Yakuman(t *testing.T) {
	single := []YakuResult{{Yaku: YakuKokushi, Han: 13, Yakuman: 1}}
	if res := CalculateScore(single, 30, false, false, 0, 4); res.RonPayment != 32000 || res.Label != "役满" {
		t.Fatalf("non-dealer yakuman ron = %d %q", res.RonPayment, res.Label)
	}
	if res := CalculateScore(single, 30, false, true, 0, 4); res.RonPayment != 48000 {
		t.Fatalf("dealer yakuman ron = %d", res.RonPayment)
	}

	double := []YakuResult{
		{Yaku: YakuDaisangen, Han: 13, Yakuman: 1},
		{Yaku: YakuTsuuiisou, Han: 13, Yakuman: 1},
	}
	res := CalculateScore(double, 30, false, false, 0, 4)
	if res.Yakuman != 2 || res.RonPayment != 64000 || res.Label != "2倍役满" {
		t.Fatalf("double yakuman = %+v", res)
	}
}

func TestCalculateScore_Tsumo(t *testing.T) {
	// 闲家自摸 3 番 30 符：庄家 2000，闲家各 1000
	res := CalculateScore(hanYakus(3), 30, true, false, 0, 4)
	if res.TsumoDealerPayment != 2000 || res.TsumoOtherPayment != 1000 || res.TotalScore != 4000 {
		t.Fatalf("non-dealer tsumo = %+v", res)
	}

	// 庄家自摸 2 番 30 符：每家 1000
	res = CalculateScore(hanYakus(2), 30, true, true, 0, 4)
	if res.TsumoOtherPayment != 1000 || res.TotalScore != 3000 || res.TsumoDealerPayment != 0 {
		t.Fatalf("dealer tsumo = %+v", res)
	}

	// 本场每家 100
	res = CalculateScore(hanYakus(5), 30, true, false, 1, 4)
	if res.TsumoDealerPayment != 4100 || res.TsumoOtherPayment != 2100 || res.TotalScore != 8300 {
		t.Fatalf("tsumo with honba = %+v", res)
	}
}

func TestCalculateScore_ThreePlayerTsumo(t *testing.T) {
	res := CalculateScore(hanYakus(5), 30, true, false, 0, 3)
	if res.TsumoDealerPayment != 4000 || res.TsumoOtherPayment != 2000 || res.TotalScore != 6000 {
		t.Fatalf("3p non-dealer tsumo = %+v", res)
	}
	res = CalculateScore(hanYakus(5), 30, true, true, 1, 3)
	if res.TsumoOtherPayment != 4150 || res.TotalScore != 8300 {
		t.Fatalf("3p dealer tsumo with honba = %+v", res)
	}
}

func TestCalculateFu(t *testing.T) {
	seq := func(tt TileType) Block { return Block{Kind: BlockSequence, Tile: tt, Concealed: true} }

	allSeq := &Division{Pair: So5, Blocks: []Block{seq(Man2), seq(Man2), seq(Pin5), seq(So6)}}
	if got := CalculateFu(allSeq, So8, false); got != 30 {
		t.Fatalf("sequence ron fu = %d", got)
	}
	if got := CalculateFu(allSeq, So8, true); got != 40 {
		t.Fatalf("sequence tsumo fu = %d", got)
	}
	if got := CalculateFu(nil, East, false); got != 30 {
		t.Fatalf("seven pairs ron fu = %d", got)
	}

	ankan := &Division{Pair: So5, Blocks: []Block{
		{Kind: BlockQuad, Tile: East, Concealed: true, Meld: true},
		seq(Man2), seq(Pin5), seq(So6),
	}}
	if got := CalculateFu(ankan, So8, false); got != 70 {
		t.Fatalf("honor ankan fu = %d", got)
	}
	minkan := &Division{Pair: So5, Blocks: []Block{
		{Kind: BlockQuad, Tile: Man5, Meld: true},
		seq(Man2), seq(Pin5), seq(So6),
	}}
	if got := CalculateFu(minkan, So8, false); got != 40 {
		t.Fatalf("simple minkan fu = %d", got)
	}

	// 111m 333p 555s 暗刻，777s 荣和算明刻：30+8+4+4+2 = 48 -> 50
	ev := EvaluateYaku(winOn(t, "111m333p555777s22z", "7s"))
	if got := CalculateFu(ev.Division, So7, false); got != 50 {
		t.Fatalf("triplet hand ron fu = %d", got)
	}
	// 自摸时 777s 也是暗刻：30+2+8+4+4+4 = 52 -> 60
	if got := CalculateFu(ev.Division, So7, true); got != 60 {
		t.Fatalf("triplet hand tsumo fu = %d", got)
	}
}

func TestYakuSummary(t *testing.T) {
	yakus := []YakuResult{{Yaku: YakuRiichi, Han: 1}, {Yaku: YakuTanyao, Han: 1}, {Yaku: YakuDora, Han: 2}}
	res := CalculateScore(yakus, 30, false, false, 0, 4)
	want := "立直 1, 断幺九 1, 宝牌 2 | 4番30符 满贯 8000"
	if got := YakuSummary(yakus, res); got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}

	ym := []YakuResult{{Yaku: YakuKokushi, Han: 13, Yakuman: 1}}
	if got := YakuSummary(ym, CalculateScore(ym, 30, false, true, 0, 4)); got != "国士无双 | 役满 48000" {
		t.Fatalf("yakuman summary = %q", got)
	}
}
