package mahjong

import (
	"fmt"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

// checkMainTurn 只有当前玩家在出牌阶段可以操作
func (eg *RiichiMahjong) checkMainTurn(seat int) error {
	if eg.State != engines.GameInProgress || eg.TurnManager.GetState() != TurnStateWaitMain {
		return ErrWrongPhase
	}
	if seat < 0 || seat >= eg.Rules.Seats || seat != eg.TurnManager.GetCurrentPlayer() {
		return fmt.Errorf("%w: seat %d, current %d", ErrNotYourTurn, seat, eg.TurnManager.GetCurrentPlayer())
	}
	return nil
}

func (eg *RiichiMahjong) handleDropTileEvent(e *share.DropTileEvent) error {
	seat := e.GetSeat()
	if err := eg.checkMainTurn(seat); err != nil {
		return err
	}
	p := eg.Players[seat]
	tile, ok := p.FindTile(e.TileID)
	if !ok {
		return fmt.Errorf("%w: tile %d not in hand", ErrInvalidTile, e.TileID)
	}
	// 立直后只能摸切
	if p.IsRiichi && (p.NewestTile == nil || p.NewestTile.ID != tile.ID) {
		return ErrRiichiLocked
	}
	return eg.discard(seat, tile, false)
}

func (eg *RiichiMahjong) handleRiichiEvent(e *share.RiichiEvent) error {
	seat := e.GetSeat()
	if err := eg.checkMainTurn(seat); err != nil {
		return err
	}
	p := eg.Players[seat]
	if err := eg.riichiPrecondition(p); err != nil {
		return err
	}
	tile, err := checkRiichiDiscard(p, e.TileID)
	if err != nil {
		return err
	}
	log.Info("玩家立直: game=%s seat=%d tile=%s", eg.GameID, seat, tile)
	return eg.discard(seat, tile, true)
}

// discard 打出一张牌，计算其他玩家的反应，没有人能反应则下家摸牌
func (eg *RiichiMahjong) discard(seat int, tile Tile, riichi bool) error {
	p := eg.Players[seat]
	if !p.DiscardTile(tile) {
		return fmt.Errorf("%w: tile %d not in hand", ErrInvalidTile, tile.ID)
	}
	p.IsIppatsu = false
	p.TempFuriten = false

	if riichi {
		p.IsRiichi = true
		p.IsIppatsu = true
		p.RiichiIndex = len(p.DiscardPile) - 1
		if eg.uninterrupted && len(p.DiscardPile) == 1 {
			p.IsDoubleRiichi = true
		}
		p.SubtractPoints(riichiCost)
		eg.Situation.RiichiSticks++
	}

	eg.rinshanDraw = false
	eg.lastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true, Riichi: riichi}
	if eg.Persister != nil {
		eg.Persister.RecordDiscardTile(seat, tile, riichi)
	}

	eg.Reactions = eg.calculateAvailableOperations(seat, tile)
	if len(eg.Reactions) > 0 {
		eg.enterReactingPhase()
		return nil
	}
	return eg.nextTurn(seat)
}

// nextTurn 下家摸牌
func (eg *RiichiMahjong) nextTurn(from int) error {
	return eg.DropTurn((from+1)%eg.Rules.Seats, false)
}

func (eg *RiichiMahjong) handleAnkanEvent(e *share.AnkanEvent) error {
	seat := e.GetSeat()
	if err := eg.checkMainTurn(seat); err != nil {
		return err
	}
	p := eg.Players[seat]
	tile, err := eg.checkAnkan(p, e.TileID)
	if err != nil {
		return err
	}

	tiles := p.TilesOfType(tile.Type)
	for _, t := range tiles {
		p.RemoveTile(t)
	}
	meld := Meld{Type: MeldAnkan, Tiles: tiles, From: seat, Called: tile}
	p.Melds = append(p.Melds, meld)
	eg.breakIppatsu()
	eg.uninterrupted = false
	eg.DeckManager.RevealDoraIndicator()
	if eg.Persister != nil {
		eg.Persister.RecordMeld(seat, meld)
	}
	log.Debug("暗杠: seat=%d tile=%s", seat, tile.Type)
	return eg.DropTurn(seat, true)
}

// handleKakanEvent 加杠，其他玩家可以抢杠
func (eg *RiichiMahjong) handleKakanEvent(e *share.KakanEvent) error {
	seat := e.GetSeat()
	if err := eg.checkMainTurn(seat); err != nil {
		return err
	}
	p := eg.Players[seat]
	tile, _, err := eg.checkKakan(p, e.TileID)
	if err != nil {
		return err
	}

	eg.pendingKakan = &pendingKakan{Seat: seat, Tile: tile}
	eg.Reactions = eg.calculateChankanOperations(seat, tile)
	if len(eg.Reactions) > 0 {
		eg.enterReactingPhase()
		return nil
	}
	return eg.completeKakan()
}

// completeKakan 没有人抢杠，碰升级为杠并岭上摸牌
func (eg *RiichiMahjong) completeKakan() error {
	pk := eg.pendingKakan
	eg.pendingKakan = nil
	p := eg.Players[pk.Seat]
	idx := p.PonIndex(pk.Tile.Type)
	if idx < 0 || !p.RemoveTile(pk.Tile) {
		return fmt.Errorf("%w: kakan state lost", ErrEngineFault)
	}
	m := &p.Melds[idx]
	m.Type = MeldKakan
	m.Tiles = append(m.Tiles, pk.Tile)

	eg.breakIppatsu()
	eg.uninterrupted = false
	eg.DeckManager.RevealDoraIndicator()
	if eg.Persister != nil {
		eg.Persister.RecordMeld(pk.Seat, *m)
	}
	return eg.DropTurn(pk.Seat, true)
}

func (eg *RiichiMahjong) handleTouchHuEvent(e *share.TouchHuEvent) error {
	seat := e.GetSeat()
	if err := eg.checkMainTurn(seat); err != nil {
		return err
	}
	p := eg.Players[seat]
	if p.NewestTile == nil {
		return ErrCallNotAvailable
	}
	out, err := eg.evaluateWin(seat, *p.NewestTile, true, false)
	if err != nil {
		return err
	}
	return eg.LeadTsumoEnding(seat, *p.NewestTile, out)
}

// handleTimeoutEvent 出牌超时摸切，反应超时视为放弃，结算后自动下一局
func (eg *RiichiMahjong) handleTimeoutEvent(e *TimeoutEvent) error {
	if !eg.TurnManager.IsCurrent(e.Generation) {
		return errStaleEvent
	}
	switch eg.TurnManager.GetState() {
	case TurnStateWaitMain:
		seat := eg.TurnManager.GetCurrentPlayer()
		tile, ok := eg.Players[seat].DiscardCandidate()
		if !ok {
			return fmt.Errorf("%w: seat %d has no discard candidate", ErrEngineFault, seat)
		}
		log.Debug("出牌超时，自动打出: seat=%d tile=%s", seat, tile)
		return eg.discard(seat, tile, false)
	case TurnStateWaitReactions:
		for _, r := range eg.Reactions {
			if !r.Responded {
				r.Responded = true
				r.ChosenOp = nil
			}
		}
		return eg.resolveReactions()
	case TurnStateRoundOver:
		return eg.startRound()
	default:
		return errStaleEvent
	}
}

// handleAIActionEvent 电脑座位决策，非法决策退化为摸切或放弃
func (eg *RiichiMahjong) handleAIActionEvent(e *AIActionEvent) error {
	if !eg.TurnManager.IsCurrent(e.Generation) {
		return errStaleEvent
	}
	seat := e.GetSeat()
	if seat < 0 || seat >= eg.Rules.Seats || !eg.Players[seat].IsAI {
		return errStaleEvent
	}
	p := eg.Players[seat]

	switch eg.TurnManager.GetState() {
	case TurnStateWaitMain:
		if seat != eg.TurnManager.GetCurrentPlayer() {
			return errStaleEvent
		}
		d := DecidePlayAction(eg.Searcher, eg.playContext(seat))
		if err := eg.applyPlayDecision(seat, d); err != nil {
			log.Warn("电脑决策非法，改为摸切: seat=%d decision=%v err=%v", seat, d.Action, err)
			tile, ok := p.DiscardCandidate()
			if !ok {
				return fmt.Errorf("%w: seat %d has no discard candidate", ErrEngineFault, seat)
			}
			return eg.discard(seat, tile, false)
		}
		return nil
	case TurnStateWaitReactions:
		r, ok := eg.Reactions[seat]
		if !ok || r.Responded {
			return errStaleEvent
		}
		d := DecideCallAction(eg.Searcher, eg.callContext(seat))
		op, ids := d.operation()
		if err := eg.handleReaction(seat, op, ids); err != nil {
			log.Warn("电脑鸣牌决策非法，改为放弃: seat=%d err=%v", seat, err)
			return eg.handleReaction(seat, OpPass, nil)
		}
		return nil
	default:
		return errStaleEvent
	}
}

func (eg *RiichiMahjong) applyPlayDecision(seat int, d Decision) error {
	base := share.GameMessageEvent{Seat: seat}
	switch d.Action {
	case ActionTsumo:
		return eg.handleTouchHuEvent(&share.TouchHuEvent{GameMessageEvent: base})
	case ActionRiichi:
		return eg.handleRiichiEvent(&share.RiichiEvent{GameMessageEvent: base, TileID: d.Tile.ID})
	case ActionAnkan:
		return eg.handleAnkanEvent(&share.AnkanEvent{GameMessageEvent: base, TileID: d.Tile.ID})
	case ActionDiscard:
		return eg.handleDropTileEvent(&share.DropTileEvent{GameMessageEvent: base, TileID: d.Tile.ID})
	default:
		return fmt.Errorf("%w: unexpected decision %v", ErrRuleViolation, d.Action)
	}
}

// playContext 电脑出牌阶段看到的信息
func (eg *RiichiMahjong) playContext(seat int) PlayContext {
	p := eg.Players[seat]
	ctx := PlayContext{
		Hand:     p.Tiles,
		Melds:    p.Melds,
		IsRiichi: p.IsRiichi,
		Visible:  eg.visibleCounts(seat),
	}
	if p.NewestTile != nil {
		newest := *p.NewestTile
		ctx.Newest = &newest
		_, err := eg.evaluateWin(seat, newest, true, false)
		ctx.CanTsumo = err == nil
	}
	ctx.CanRiichi = eg.riichiPrecondition(p) == nil
	ctx.CanKan = eg.totalKans() < MaxKanCount && eg.DeckManager.Remaining() > 0
	return ctx
}

func (eg *RiichiMahjong) callContext(seat int) CallContext {
	p := eg.Players[seat]
	tile := eg.lastDiscard.Tile
	if eg.pendingKakan != nil {
		tile = eg.pendingKakan.Tile
	}
	return CallContext{
		Hand:    p.Tiles,
		Melds:   p.Melds,
		Tile:    tile,
		Options: eg.Reactions[seat].Operations,
	}
}

// visibleCounts 从 seat 视角已经看得到的牌（牌河、副露、宝牌指示牌）
func (eg *RiichiMahjong) visibleCounts(seat int) *[34]uint8 {
	var v [34]uint8
	add := func(tiles []Tile) {
		for _, t := range tiles {
			v[t.Type]++
		}
	}
	for _, p := range eg.Players {
		add(p.DiscardPile)
		for _, m := range p.Melds {
			add(m.Tiles)
		}
	}
	add(eg.DeckManager.DoraIndicators())
	return &v
}
