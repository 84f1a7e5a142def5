package mahjong

// ActionKind 电脑的决策类型
type ActionKind int

const (
	ActionDiscard ActionKind = iota
	ActionTsumo
	ActionRiichi
	ActionAnkan
	ActionRon
	ActionPon
	ActionPass
)

func (a ActionKind) String() string {
	switch a {
	case ActionDiscard:
		return "discard"
	case ActionTsumo:
		return "tsumo"
	case ActionRiichi:
		return "riichi"
	case ActionAnkan:
		return "ankan"
	case ActionRon:
		return "ron"
	case ActionPon:
		return "pon"
	case ActionPass:
		return "pass"
	default:
		return "unknown"
	}
}

// Decision Tile 为打出/立直/暗杠的牌，Tiles 为鸣牌使用的手牌
type Decision struct {
	Action ActionKind
	Tile   Tile
	Tiles  []Tile
}

// operation 鸣牌决策转为反应操作
func (d Decision) operation() (OperationType, []int) {
	var op OperationType
	switch d.Action {
	case ActionRon:
		op = OpRon
	case ActionPon:
		op = OpPon
	default:
		return OpPass, nil
	}
	ids := make([]int, 0, len(d.Tiles))
	for _, t := range d.Tiles {
		ids = append(ids, t.ID)
	}
	return op, ids
}

// PlayContext 出牌阶段（手牌 14-3n 张）
type PlayContext struct {
	Hand      []Tile
	Melds     []Meld
	Newest    *Tile
	IsRiichi  bool
	CanTsumo  bool
	CanRiichi bool // 已满足门清、点数、余牌条件
	CanKan    bool // 杠数、余牌允许开杠
	Visible   *[34]uint8
}

// CallContext 反应阶段
type CallContext struct {
	Hand    []Tile
	Melds   []Meld
	Tile    Tile
	Options []*PlayerOperation
}

// DecidePlayAction 自摸 > 立直后摸切 > 立直 > 暗杠 > 按向听与牌效打牌
func DecidePlayAction(s *Searcher, ctx PlayContext) Decision {
	if ctx.CanTsumo {
		return Decision{Action: ActionTsumo}
	}
	if ctx.IsRiichi && ctx.Newest != nil {
		return Decision{Action: ActionDiscard, Tile: *ctx.Newest}
	}

	if ctx.CanRiichi && len(ctx.Melds) == 0 {
		best := -1
		var pick Tile
		for _, c := range s.SeekCandidates(ctx.Hand, len(ctx.Melds), ctx.Visible) {
			if c.Ukeire > best && len(c.DiscardOptions) > 0 {
				best = c.Ukeire
				pick = preferPlain(c.DiscardOptions)
			}
		}
		if best >= 0 {
			return Decision{Action: ActionRiichi, Tile: pick}
		}
	}

	if ctx.CanKan && !ctx.IsRiichi {
		h, _ := Hand34FromTiles(ctx.Hand)
		for i := 0; i < 34; i++ {
			if h[i] == 4 {
				for _, t := range ctx.Hand {
					if t.Type == TileType(i) {
						return Decision{Action: ActionAnkan, Tile: t}
					}
				}
			}
		}
	}

	return Decision{Action: ActionDiscard, Tile: bestDiscard(s, ctx.Hand, len(ctx.Melds))}
}

// DecideCallAction 能荣和就荣和；碰只在严格降低向听时进行；吃、明杠放弃
func DecideCallAction(s *Searcher, ctx CallContext) Decision {
	var pon *PlayerOperation
	for _, op := range ctx.Options {
		switch op.Type {
		case OpRon:
			return Decision{Action: ActionRon, Tile: ctx.Tile}
		case OpPon:
			if pon == nil {
				pon = op
			}
		}
	}
	if pon == nil {
		return Decision{Action: ActionPass}
	}

	h, _ := Hand34FromTiles(ctx.Hand)
	before := s.ShantenAll(h, len(ctx.Melds))
	after := h
	after[ctx.Tile.Type] -= 2
	// 碰后还要打出一张
	bestAfter := 99
	for i := 0; i < 34; i++ {
		if after[i] == 0 {
			continue
		}
		work := after
		work[i]--
		if sh := s.ShantenAll(work, len(ctx.Melds)+1); sh < bestAfter {
			bestAfter = sh
		}
	}
	if bestAfter < before {
		return Decision{Action: ActionPon, Tile: ctx.Tile, Tiles: pon.Tiles}
	}
	return Decision{Action: ActionPass}
}

// bestDiscard 最小化 向听×100 − 牌价值
func bestDiscard(s *Searcher, hand []Tile, meldCount int) Tile {
	h, byType := Hand34FromTiles(hand)
	bestScore := 1 << 30
	var pick Tile
	for i := 0; i < 34; i++ {
		if h[i] == 0 {
			continue
		}
		work := h
		work[i]--
		sh := s.ShantenAll(work, meldCount)
		score := sh*100 - heuristicTileValue(h, TileType(i))
		if score < bestScore {
			bestScore = score
			pick = preferPlain(byType[TileType(i)])
		}
	}
	return pick
}

// heuristicTileValue 越高越该打：孤立的字牌、幺九牌加分，拆对子、拆搭子扣分
func heuristicTileValue(h Hand34, t TileType) int {
	v := 0
	i := int(t)
	if h[i] >= 2 {
		v -= 20 * (int(h[i]) - 1)
	}
	if t.IsHonor() {
		if h[i] == 1 {
			v += 30
		}
		return v
	}

	neighbors := 0
	for d := -2; d <= 2; d++ {
		if d == 0 {
			continue
		}
		j := i + d
		if j < 0 || j >= 27 || suitOf(j) != suitOf(i) {
			continue
		}
		if h[j] > 0 {
			neighbors++
			if d == -1 || d == 1 {
				neighbors++
			}
		}
	}
	v -= 10 * neighbors
	if neighbors == 0 && h[i] == 1 {
		if t.IsTerminal() {
			v += 20
		} else {
			v += 10
		}
	}
	return v
}

// preferPlain 同种牌中优先打出非赤牌
func preferPlain(tiles []Tile) Tile {
	for _, t := range tiles {
		if !t.Red {
			return t
		}
	}
	return tiles[0]
}
