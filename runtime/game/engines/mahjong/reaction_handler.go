package mahjong

import (
	"fmt"
	"sort"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines"
)

// handleReaction 记录玩家对打出牌（或加杠牌）的反应，能提前裁决时立即裁决
func (eg *RiichiMahjong) handleReaction(seat int, opType OperationType, tileIDs []int) error {
	if eg.State != engines.GameInProgress || eg.TurnManager.GetState() != TurnStateWaitReactions {
		return ErrWrongPhase
	}
	if seat < 0 || seat >= eg.Rules.Seats {
		return fmt.Errorf("%w: seat %d", ErrNotYourTurn, seat)
	}

	r, ok := eg.Reactions[seat]
	if !ok {
		if opType == OpRon && seat != eg.claimSource() {
			tile := eg.lastDiscard.Tile
			chankan := eg.pendingKakan != nil
			if chankan {
				tile = eg.pendingKakan.Tile
			}
			return eg.ronCheck(seat, tile, chankan)
		}
		return fmt.Errorf("%w: seat %d has no pending call", ErrNotYourTurn, seat)
	}
	if r.Responded {
		return ErrAlreadyResponded
	}

	if opType == OpPass {
		r.Responded = true
		r.ChosenOp = nil
	} else {
		op, err := matchOperation(r, opType, tileIDs)
		if err != nil {
			return err
		}
		r.Responded = true
		r.ChosenOp = op
	}
	return eg.tryResolveReactions()
}

// tryResolveReactions 全部响应，或者未响应的玩家已无法压过当前最优鸣牌时裁决
func (eg *RiichiMahjong) tryResolveReactions() error {
	allResponded := true
	for _, r := range eg.Reactions {
		if !r.Responded {
			allResponded = false
			break
		}
	}
	if allResponded {
		return eg.resolveReactions()
	}
	best := eg.bestClaim()
	if best != nil && !eg.canStillOutrank(best) {
		return eg.resolveReactions()
	}
	return nil
}

// resolveReactions 裁决反应阶段
func (eg *RiichiMahjong) resolveReactions() error {
	best := eg.bestClaim()

	// 见逃：能荣和却没有荣和的玩家同巡振听，立直中则本局振听
	for seat, r := range eg.Reactions {
		if best != nil && best.seat == seat && best.op.Type == OpRon {
			continue
		}
		for _, op := range r.Operations {
			if op.Type != OpRon {
				continue
			}
			p := eg.Players[seat]
			p.TempFuriten = true
			if p.IsRiichi {
				p.RiichiFuriten = true
			}
			log.Debug("见逃振听: seat=%d", seat)
		}
	}
	eg.Reactions = make(map[int]*PlayerReaction)

	if best == nil {
		if eg.pendingKakan != nil {
			return eg.completeKakan()
		}
		return eg.nextTurn(eg.lastDiscard.Seat)
	}

	switch best.op.Type {
	case OpRon:
		return eg.LeadRonEnding(best.seat)
	case OpPon:
		return eg.claimMeld(best.seat, best.op, MeldPon)
	case OpChi:
		return eg.claimMeld(best.seat, best.op, MeldChi)
	case OpKan:
		return eg.claimMeld(best.seat, best.op, MeldKan)
	default:
		return fmt.Errorf("%w: unexpected claim %s", ErrEngineFault, best.op.Type)
	}
}

// claimMeld 吃、碰、明杠：打出的牌从牌河移入副露
func (eg *RiichiMahjong) claimMeld(seat int, op *PlayerOperation, meldType MeldType) error {
	from := eg.lastDiscard.Seat
	discarder := eg.Players[from]
	tile := eg.lastDiscard.Tile
	last := len(discarder.DiscardPile) - 1
	if last < 0 || discarder.DiscardPile[last].ID != tile.ID {
		return fmt.Errorf("%w: claimed tile is not the latest discard", ErrEngineFault)
	}

	p := eg.Players[seat]
	for _, t := range op.Tiles {
		if !p.RemoveTile(t) {
			return fmt.Errorf("%w: claim tile %d not in hand", ErrEngineFault, t.ID)
		}
	}
	discarder.DiscardPile = discarder.DiscardPile[:last]

	tiles := append(append([]Tile(nil), op.Tiles...), tile)
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].ID < tiles[j].ID })
	meld := Meld{Type: meldType, Tiles: tiles, From: from, Called: tile}
	p.Melds = append(p.Melds, meld)
	p.NewestTile = nil

	eg.breakIppatsu()
	eg.uninterrupted = false
	eg.lastDiscard.Valid = false
	if eg.Persister != nil {
		eg.Persister.RecordMeld(seat, meld)
	}
	log.Debug("鸣牌: seat=%d %s from=%d tile=%s", seat, meldType, from, tile)

	if meldType == MeldKan {
		eg.DeckManager.RevealDoraIndicator()
		return eg.DropTurn(seat, true)
	}
	return eg.enterDropPhase(seat)
}
