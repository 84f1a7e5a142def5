package mahjong

import "fmt"

// calculateAvailableOperations 计算出牌后其他玩家可用的操作
func (eg *RiichiMahjong) calculateAvailableOperations(discarder int, droppedTile Tile) map[int]*PlayerReaction {
	reactions := make(map[int]*PlayerReaction)

	for i := 0; i < eg.Rules.Seats; i++ {
		if i == discarder {
			continue
		}

		var playerOps []*PlayerOperation

		// 检查是否可以荣和
		if eg.canRon(i, droppedTile, false) {
			playerOps = append(playerOps, &PlayerOperation{
				Type:  OpRon,
				Tiles: []Tile{droppedTile},
			})
		}

		// 检查是否可以明杠
		playerOps = append(playerOps, eg.getGangOptions(i, droppedTile)...)

		// 检查是否可以碰
		playerOps = append(playerOps, eg.getPengOptions(i, droppedTile)...)

		// 检查是否可以吃（只有下家可以吃）
		playerOps = append(playerOps, eg.getChiOptions(i, discarder, droppedTile)...)

		if len(playerOps) > 0 {
			reactions[i] = &PlayerReaction{
				Operations: playerOps,
				ChosenOp:   nil,
				Responded:  false,
			}
		}
	}

	return reactions
}

// calculateChankanOperations 加杠时只允许抢杠荣和
func (eg *RiichiMahjong) calculateChankanOperations(kakanSeat int, tile Tile) map[int]*PlayerReaction {
	reactions := make(map[int]*PlayerReaction)
	for i := 0; i < eg.Rules.Seats; i++ {
		if i == kakanSeat || !eg.canRon(i, tile, true) {
			continue
		}
		reactions[i] = &PlayerReaction{
			Operations: []*PlayerOperation{{Type: OpRon, Tiles: []Tile{tile}}},
		}
	}
	return reactions
}

// getPengOptions 获取碰牌的所有选择（考虑红 5 等特殊情况）
func (eg *RiichiMahjong) getPengOptions(seatIndex int, droppedTile Tile) []*PlayerOperation {
	if !eg.canPeng(seatIndex, droppedTile) {
		return nil
	}
	matching := eg.Players[seatIndex].TilesOfType(droppedTile.Type)

	var ops []*PlayerOperation
	seen := make(map[int]bool)
	for i := 0; i < len(matching); i++ {
		for j := i + 1; j < len(matching); j++ {
			// 只按赤牌张数区分组合
			reds := redCount(matching[i], matching[j])
			if seen[reds] {
				continue
			}
			seen[reds] = true
			ops = append(ops, &PlayerOperation{
				Type:  OpPon,
				Tiles: []Tile{matching[i], matching[j]},
			})
		}
	}
	return ops
}

func (eg *RiichiMahjong) getGangOptions(seatIndex int, droppedTile Tile) []*PlayerOperation {
	if !eg.canGang(seatIndex, droppedTile) {
		return nil
	}
	matching := eg.Players[seatIndex].TilesOfType(droppedTile.Type)
	return []*PlayerOperation{{
		Type:  OpKan,
		Tiles: matching[:3],
	}}
}

// getChiOptions 获取吃牌的所有选择
func (eg *RiichiMahjong) getChiOptions(seatIndex, discarder int, droppedTile Tile) []*PlayerOperation {
	if !eg.canChi(seatIndex, discarder, droppedTile) {
		return nil
	}
	var ops []*PlayerOperation
	for _, combo := range findChiCombinations(eg.Players[seatIndex].Tiles, droppedTile) {
		ops = append(ops, &PlayerOperation{
			Type:  OpChi,
			Tiles: combo,
		})
	}
	return ops
}

func redCount(tiles ...Tile) int {
	n := 0
	for _, t := range tiles {
		if t.Red {
			n++
		}
	}
	return n
}

// matchOperation 从可用操作中找出玩家选择的那个，未指定牌时取第一个
func matchOperation(r *PlayerReaction, opType OperationType, tileIDs []int) (*PlayerOperation, error) {
	var first *PlayerOperation
	for _, op := range r.Operations {
		if op.Type != opType {
			continue
		}
		if first == nil {
			first = op
		}
		if len(tileIDs) == 0 {
			break
		}
		if sameTileIDs(op.Tiles, tileIDs) {
			return op, nil
		}
	}
	if first == nil {
		return nil, fmt.Errorf("%w: %s", ErrCallNotAvailable, opType)
	}
	if len(tileIDs) > 0 {
		return nil, fmt.Errorf("%w: tiles %v do not form a %s", ErrInvalidTile, tileIDs, opType)
	}
	return first, nil
}

func sameTileIDs(tiles []Tile, ids []int) bool {
	if len(tiles) != len(ids) {
		return false
	}
	used := make([]bool, len(tiles))
	for _, id := range ids {
		found := false
		for i, t := range tiles {
			if !used[i] && t.ID == id {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// claimPriority 荣和 > 碰/杠 > 吃
func claimPriority(op OperationType) int {
	switch op {
	case OpRon:
		return 3
	case OpPon, OpKan:
		return 2
	case OpChi:
		return 1
	default:
		return 0
	}
}

type claim struct {
	seat     int
	op       *PlayerOperation
	priority int
	distance int // 出牌者下家为 1
}

// outranks 优先级高者胜，同级时离出牌者近的胜（荣和头跳）
func (c claim) outranks(o *claim) bool {
	if o == nil {
		return true
	}
	if c.priority != o.priority {
		return c.priority > o.priority
	}
	return c.distance < o.distance
}

func (eg *RiichiMahjong) claimSource() int {
	if eg.pendingKakan != nil {
		return eg.pendingKakan.Seat
	}
	return eg.lastDiscard.Seat
}

func (eg *RiichiMahjong) seatDistance(seat int) int {
	n := eg.Rules.Seats
	return (seat - eg.claimSource() + n) % n
}

// bestClaim 已响应的玩家中优先级最高的鸣牌
func (eg *RiichiMahjong) bestClaim() *claim {
	var best *claim
	for seat, r := range eg.Reactions {
		if !r.Responded || r.ChosenOp == nil {
			continue
		}
		c := claim{seat: seat, op: r.ChosenOp, priority: claimPriority(r.ChosenOp.Type), distance: eg.seatDistance(seat)}
		if c.outranks(best) {
			best = &c
		}
	}
	return best
}

// canStillOutrank 未响应的玩家是否还可能压过当前最优鸣牌
func (eg *RiichiMahjong) canStillOutrank(best *claim) bool {
	for seat, r := range eg.Reactions {
		if r.Responded {
			continue
		}
		for _, op := range r.Operations {
			c := claim{seat: seat, op: op, priority: claimPriority(op.Type), distance: eg.seatDistance(seat)}
			if c.outranks(best) {
				return true
			}
		}
	}
	return false
}
