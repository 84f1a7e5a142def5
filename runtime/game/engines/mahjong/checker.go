package mahjong

import (
	"fmt"
	"sort"
)

// winOutcome 一次和了的完整判定结果
type winOutcome struct {
	eval  *YakuEvaluation
	yakus []YakuResult // 含宝牌、里宝牌、赤宝牌
	fu    int
	score ScoreResult
}

// winContext 构造役种判定所需的场况
func (eg *RiichiMahjong) winContext(seat int, concealed []Tile, winTile Tile, isTsumo, chankan bool) *WinContext {
	p := eg.Players[seat]
	dealer := seat == eg.Situation.DealerIndex
	first := eg.uninterrupted && eg.drawCount[seat] == 1 && isTsumo
	remaining := eg.DeckManager.Remaining()
	return &WinContext{
		Concealed:      concealed,
		Melds:          p.Melds,
		WinTile:        winTile,
		IsTsumo:        isTsumo,
		IsRiichi:       p.IsRiichi,
		IsDoubleRiichi: p.IsDoubleRiichi,
		IsIppatsu:      p.IsRiichi && p.IsIppatsu,
		IsTenhou:       first && dealer,
		IsChihou:       first && !dealer && len(p.DiscardPile) == 0,
		IsRinshan:      isTsumo && eg.rinshanDraw,
		IsHaitei:       isTsumo && !eg.rinshanDraw && remaining == 0,
		IsHoutei:       !isTsumo && !chankan && remaining == 0,
		IsChankan:      chankan,
		RoundWind:      eg.Situation.RoundWind,
		SeatWind:       eg.seatWind(seat),
	}
}

// evaluateWin 和牌判定 + 役种 + 宝牌 + 点数，荣和时 winTile 尚未进入手牌
func (eg *RiichiMahjong) evaluateWin(seat int, winTile Tile, isTsumo, chankan bool) (*winOutcome, error) {
	p := eg.Players[seat]
	concealed := make([]Tile, 0, len(p.Tiles)+1)
	concealed = append(concealed, p.Tiles...)
	if !isTsumo {
		concealed = append(concealed, winTile)
	}
	if !IsWinningHand(concealed, len(p.Melds)) {
		return nil, ErrNotWinning
	}
	if !isTsumo && p.IsFuriten() {
		return nil, ErrFuriten
	}

	eval := EvaluateYaku(eg.winContext(seat, concealed, winTile, isTsumo, chankan))
	if !eval.HasYaku() {
		return nil, ErrNoYaku
	}

	yakus := append([]YakuResult(nil), eval.Yakus...)
	if eval.Yakuman == 0 {
		yakus = append(yakus, eg.doraYakus(p, concealed)...)
	}
	fu := CalculateFu(eval.Division, winTile.Type, isTsumo)
	score := CalculateScore(yakus, fu, isTsumo, seat == eg.Situation.DealerIndex, eg.Situation.Honba, eg.Rules.Seats)
	return &winOutcome{eval: eval, yakus: yakus, fu: fu, score: score}, nil
}

// doraYakus 宝牌、里宝牌（仅立直）、赤宝牌
func (eg *RiichiMahjong) doraYakus(p *PlayerImage, concealed []Tile) []YakuResult {
	tiles := append([]Tile(nil), concealed...)
	for _, m := range p.Melds {
		tiles = append(tiles, m.Tiles...)
	}
	countDora := func(indicators []Tile) int {
		n := 0
		for _, ind := range indicators {
			dora := DoraFromIndicator(ind.Type)
			for _, t := range tiles {
				if t.Type == dora {
					n++
				}
			}
		}
		return n
	}

	var out []YakuResult
	if n := countDora(eg.DeckManager.DoraIndicators()); n > 0 {
		out = append(out, YakuResult{Yaku: YakuDora, Han: n})
	}
	if p.IsRiichi {
		if n := countDora(eg.DeckManager.UraDoraIndicators()); n > 0 {
			out = append(out, YakuResult{Yaku: YakuUraDora, Han: n})
		}
	}
	aka := 0
	for _, t := range tiles {
		if t.Red {
			aka++
		}
	}
	if aka > 0 {
		out = append(out, YakuResult{Yaku: YakuAkaDora, Han: aka})
	}
	return out
}

// canRon 荣和资格：和牌形、未振听、有役
func (eg *RiichiMahjong) canRon(seat int, tile Tile, chankan bool) bool {
	_, err := eg.evaluateWin(seat, tile, false, chankan)
	return err == nil
}

// ronCheck 没有反应资格的玩家宣告荣和时，给出具体的拒绝原因
func (eg *RiichiMahjong) ronCheck(seat int, tile Tile, chankan bool) error {
	if _, err := eg.evaluateWin(seat, tile, false, chankan); err != nil {
		return err
	}
	return ErrCallNotAvailable
}

func (eg *RiichiMahjong) callsOpen(p *PlayerImage) bool {
	return !p.IsRiichi && eg.DeckManager.Remaining() > 0
}

// canGang 检查玩家是否可以明杠
func (eg *RiichiMahjong) canGang(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if !eg.callsOpen(player) || eg.totalKans() >= MaxKanCount {
		return false
	}
	return player.CountType(tile.Type) >= 3
}

// canPeng 检查玩家是否可以碰
func (eg *RiichiMahjong) canPeng(seatIndex int, tile Tile) bool {
	player := eg.Players[seatIndex]
	if !eg.callsOpen(player) {
		return false
	}
	return player.CountType(tile.Type) >= 2
}

// canChi 只有下家可以吃
func (eg *RiichiMahjong) canChi(seatIndex, discarder int, tile Tile) bool {
	if (discarder+1)%eg.Rules.Seats != seatIndex {
		return false
	}
	player := eg.Players[seatIndex]
	if !eg.callsOpen(player) {
		return false
	}
	return len(findChiCombinations(player.Tiles, tile)) > 0
}

// findChiCombinations 查找所有可能的吃牌组合，红 5 与普通 5 视为不同选择
func findChiCombinations(hand []Tile, droppedTile Tile) [][]Tile {
	t := droppedTile.Type
	if !t.IsNumbered() {
		return nil
	}
	v := t.Value()
	var combos [][]Tile
	for _, offsets := range [][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		a, b := v+offsets[0], v+offsets[1]
		if a < 1 || b > 9 {
			continue
		}
		left := distinctByRed(hand, t+TileType(offsets[0]))
		right := distinctByRed(hand, t+TileType(offsets[1]))
		for _, x := range left {
			for _, y := range right {
				combos = append(combos, []Tile{x, y})
			}
		}
	}
	return combos
}

// distinctByRed 某种牌的代表实体，赤与非赤各取一张
func distinctByRed(hand []Tile, tt TileType) []Tile {
	var out []Tile
	seenRed, seenPlain := false, false
	for _, t := range hand {
		if t.Type != tt {
			continue
		}
		if t.Red && !seenRed {
			seenRed = true
			out = append(out, t)
		}
		if !t.Red && !seenPlain {
			seenPlain = true
			out = append(out, t)
		}
	}
	return out
}

func sameTypes(a, b []TileType) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]TileType(nil), a...)
	y := append([]TileType(nil), b...)
	sort.Slice(x, func(i, j int) bool { return x[i] < x[j] })
	sort.Slice(y, func(i, j int) bool { return y[i] < y[j] })
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// riichiPrecondition 立直的前置条件，不含听牌检查
func (eg *RiichiMahjong) riichiPrecondition(p *PlayerImage) error {
	switch {
	case p.IsRiichi:
		return ErrAlreadyRiichi
	case !p.IsClosed():
		return ErrHandOpen
	case p.Points < riichiCost:
		return ErrInsufficientPoints
	case eg.DeckManager.Remaining() < eg.Rules.Seats:
		return ErrTooLateForRiichi
	}
	return nil
}

// checkRiichiDiscard 打出该牌后必须听牌
func checkRiichiDiscard(p *PlayerImage, tileID int) (Tile, error) {
	tile, ok := p.FindTile(tileID)
	if !ok {
		return Tile{}, fmt.Errorf("%w: tile %d not in hand", ErrInvalidTile, tileID)
	}
	rest := make([]Tile, 0, len(p.Tiles)-1)
	for _, t := range p.Tiles {
		if t.ID != tile.ID {
			rest = append(rest, t)
		}
	}
	if len(TenpaiWaits(rest, len(p.Melds))) == 0 {
		return Tile{}, ErrNotTenpai
	}
	return tile, nil
}

// checkAnkan 暗杠：四张在手，立直后只能杠摸到的牌且不改变听牌
func (eg *RiichiMahjong) checkAnkan(p *PlayerImage, tileID int) (Tile, error) {
	tile, ok := p.FindTile(tileID)
	if !ok {
		return Tile{}, fmt.Errorf("%w: tile %d not in hand", ErrInvalidTile, tileID)
	}
	if p.CountType(tile.Type) != 4 {
		return Tile{}, ErrCallNotAvailable
	}
	if eg.totalKans() >= MaxKanCount {
		return Tile{}, ErrKanLimit
	}
	if eg.DeckManager.Remaining() == 0 {
		return Tile{}, ErrCallNotAvailable
	}
	if !p.IsRiichi {
		return tile, nil
	}
	if p.NewestTile == nil || p.NewestTile.Type != tile.Type {
		return Tile{}, ErrRiichiLocked
	}

	before := make([]Tile, 0, len(p.Tiles))
	after := make([]Tile, 0, len(p.Tiles))
	for _, t := range p.Tiles {
		if t.ID != p.NewestTile.ID {
			before = append(before, t)
		}
		if t.Type != tile.Type {
			after = append(after, t)
		}
	}
	if !sameTypes(TenpaiWaits(before, len(p.Melds)), TenpaiWaits(after, len(p.Melds)+1)) {
		return Tile{}, ErrRiichiLocked
	}
	return tile, nil
}

// checkKakan 加杠：手中有已碰的第四张
func (eg *RiichiMahjong) checkKakan(p *PlayerImage, tileID int) (Tile, int, error) {
	tile, ok := p.FindTile(tileID)
	if !ok {
		return Tile{}, -1, fmt.Errorf("%w: tile %d not in hand", ErrInvalidTile, tileID)
	}
	idx := p.PonIndex(tile.Type)
	if idx < 0 || p.IsRiichi {
		return Tile{}, -1, ErrCallNotAvailable
	}
	if eg.totalKans() >= MaxKanCount {
		return Tile{}, -1, ErrKanLimit
	}
	if eg.DeckManager.Remaining() == 0 {
		return Tile{}, -1, ErrCallNotAvailable
	}
	return tile, idx, nil
}
