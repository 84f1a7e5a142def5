package mahjong

import (
	"fmt"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines"
)

const exhaustiveDrawPool = 3000

// LeadRonEnding 荣和结算，抢杠时和了牌来自加杠者手中
func (eg *RiichiMahjong) LeadRonEnding(winner int) error {
	loser := eg.lastDiscard.Seat
	tile := eg.lastDiscard.Tile
	chankan := eg.pendingKakan != nil
	if chankan {
		loser = eg.pendingKakan.Seat
		tile = eg.pendingKakan.Tile
	}

	out, err := eg.evaluateWin(winner, tile, false, chankan)
	if err != nil {
		return fmt.Errorf("%w: ron resolution failed: %v", ErrEngineFault, err)
	}

	lp := eg.Players[loser]
	if chankan {
		if !lp.RemoveTile(tile) {
			return fmt.Errorf("%w: chankan tile not in hand", ErrEngineFault)
		}
		eg.pendingKakan = nil
	} else {
		last := len(lp.DiscardPile) - 1
		if last < 0 || lp.DiscardPile[last].ID != tile.ID {
			return fmt.Errorf("%w: ron tile is not the latest discard", ErrEngineFault)
		}
		lp.DiscardPile = lp.DiscardPile[:last]
		// 宣言牌放铳，立直不成立，退还立直棒
		if eg.lastDiscard.Riichi {
			lp.IsRiichi, lp.IsDoubleRiichi, lp.IsIppatsu = false, false, false
			lp.RiichiIndex = -1
			lp.AddPoints(riichiCost)
			eg.Situation.RiichiSticks--
		}
	}
	eg.Players[winner].AddTile(tile)

	delta := make([]int, eg.Rules.Seats)
	delta[loser] -= out.score.RonPayment
	delta[winner] += out.score.RonPayment
	return eg.finishWin(RoundEndRon, winner, loser, tile, out, delta)
}

// LeadTsumoEnding 自摸结算
func (eg *RiichiMahjong) LeadTsumoEnding(winner int, tile Tile, out *winOutcome) error {
	dealer := eg.Situation.DealerIndex
	delta := make([]int, eg.Rules.Seats)
	for seat := range eg.Players {
		if seat == winner {
			continue
		}
		pay := out.score.TsumoOtherPayment
		if winner != dealer && seat == dealer {
			pay = out.score.TsumoDealerPayment
		}
		delta[seat] -= pay
		delta[winner] += pay
	}
	return eg.finishWin(RoundEndTsumo, winner, -1, tile, out, delta)
}

func (eg *RiichiMahjong) finishWin(endKind string, winner, loser int, tile Tile, out *winOutcome, delta []int) error {
	wp := eg.Players[winner]
	delta[winner] += eg.Situation.RiichiSticks * riichiCost
	eg.Situation.RiichiSticks = 0
	eg.applyDelta(delta)

	winTile := tile
	res := &RoundResult{
		EndKind:     endKind,
		Winner:      winner,
		Loser:       loser,
		WinTile:     &winTile,
		Yakus:       out.yakus,
		Score:       &out.score,
		Summary:     YakuSummary(out.yakus, out.score),
		Delta:       delta,
		WinnerHand:  append([]Tile(nil), wp.Tiles...),
		WinnerMelds: append([]Meld(nil), wp.Melds...),
	}
	if wp.IsRiichi {
		res.UraDoraIndicators = eg.DeckManager.UraDoraIndicators()
		res.riichiWin = true
	}
	log.Info("和了: game=%s %s seat=%d loser=%d %s", eg.GameID, endKind, winner, loser, res.Summary)

	// 庄家和了连庄，否则轮庄
	if winner == eg.Situation.DealerIndex {
		eg.Situation.Honba++
	} else {
		eg.Situation.Honba = 0
		eg.advanceDealer()
	}
	return eg.finalizeRound(res)
}

// LeadNormalDrawEnding 荒牌流局，不听者向听牌者支付 3000 点
func (eg *RiichiMahjong) LeadNormalDrawEnding() error {
	n := eg.Rules.Seats
	var tenpai, noten []int
	for seat, p := range eg.Players {
		if len(p.Waits()) > 0 {
			tenpai = append(tenpai, seat)
		} else {
			noten = append(noten, seat)
		}
	}

	delta := make([]int, n)
	if len(tenpai) > 0 && len(noten) > 0 {
		for _, seat := range noten {
			delta[seat] -= exhaustiveDrawPool / len(noten)
		}
		for _, seat := range tenpai {
			delta[seat] += exhaustiveDrawPool / len(tenpai)
		}
	}
	eg.applyDelta(delta)

	res := &RoundResult{
		EndKind:     RoundEndDrawExhaustive,
		Winner:      -1,
		Loser:       -1,
		Delta:       delta,
		TenpaiSeats: tenpai,
	}
	log.Info("荒牌流局: game=%s tenpai=%v", eg.GameID, tenpai)

	dealerTenpai := false
	for _, seat := range tenpai {
		if seat == eg.Situation.DealerIndex {
			dealerTenpai = true
		}
	}
	if dealerTenpai {
		eg.Situation.Honba++
	} else {
		eg.Situation.Honba = 0
		eg.advanceDealer()
	}
	return eg.finalizeRound(res)
}

func (eg *RiichiMahjong) applyDelta(delta []int) {
	for seat, d := range delta {
		eg.Players[seat].AddPoints(d)
	}
}

// advanceDealer 轮庄，一圈后进入下一场风
func (eg *RiichiMahjong) advanceDealer() {
	n := eg.Rules.Seats
	eg.Situation.DealerIndex = (eg.Situation.DealerIndex + 1) % n
	eg.Situation.RoundNumber++
	if eg.Situation.RoundNumber > n {
		eg.Situation.RoundNumber = 1
		eg.Situation.RoundWind = eg.Situation.RoundWind.Next()
		eg.windsCompleted++
	}
}

func (eg *RiichiMahjong) points() []int {
	out := make([]int, len(eg.Players))
	for i, p := range eg.Players {
		out[i] = p.Points
	}
	return out
}

// finalizeRound 记录结果，判断是否终局
func (eg *RiichiMahjong) finalizeRound(res *RoundResult) error {
	eg.lastResult = res
	eg.Reactions = make(map[int]*PlayerReaction)
	eg.pendingKakan = nil
	eg.lastDiscard.Valid = false

	bust := false
	for _, p := range eg.Players {
		if p.Points < 0 {
			bust = true
		}
	}
	gameOver := bust || eg.windsCompleted >= eg.Rules.RoundWinds

	nextDealer := eg.Situation.DealerIndex
	if gameOver {
		nextDealer = -1
	}
	if eg.Persister != nil {
		eg.Persister.CompleteRound(res, eg.points(), nextDealer)
	}

	if gameOver {
		eg.State = engines.GameFinished
		eg.TurnManager.EnterGameOver()
		log.Info("游戏结束: game=%s points=%v", eg.GameID, eg.points())
		if eg.Persister != nil {
			eg.Persister.FinalizeGame(eg.Players)
		}
		eg.finish()
		return nil
	}

	eg.TurnManager.EnterRoundOver()
	if eg.Rules.NextRoundDelay > 0 {
		eg.TurnManager.Schedule(eg.Rules.NextRoundDelay, eg.onTimeout)
	}
	return nil
}
