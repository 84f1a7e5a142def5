package mahjong

type BlockKind int

const (
	BlockSequence BlockKind = iota // 顺子
	BlockTriplet                   // 刻子
	BlockQuad                      // 杠子
)

// Block 面子，Tile 为顺子的第一张或刻子/杠子的牌
type Block struct {
	Kind      BlockKind
	Tile      TileType
	Concealed bool
	Meld      bool // 来自副露
}

func (b Block) Contains(t TileType) bool {
	if b.Kind == BlockSequence {
		return t >= b.Tile && t <= b.Tile+2
	}
	return t == b.Tile
}

// HasYaochu 面子中是否含幺九牌
func (b Block) HasYaochu() bool {
	if b.Kind == BlockSequence {
		return b.Tile.IsYaochu() || (b.Tile + 2).IsYaochu()
	}
	return b.Tile.IsYaochu()
}

// Division 一种拆解：雀头 + 4 个面子（含副露）
type Division struct {
	Pair   TileType
	Blocks []Block
}

func blockFromMeld(m Meld) Block {
	b := Block{Tile: m.BaseType(), Concealed: !m.IsOpen(), Meld: true}
	switch {
	case m.Type == MeldChi:
		b.Kind = BlockSequence
	case m.IsKan():
		b.Kind = BlockQuad
	default:
		b.Kind = BlockTriplet
	}
	return b
}

// DecomposeHand 枚举门内手牌（含和了牌）的所有标准拆解
func DecomposeHand(concealed Hand34, melds []Meld) []Division {
	need := 4 - len(melds)
	if need < 0 || concealed.Total() != need*3+2 {
		return nil
	}
	fixed := make([]Block, 0, 4)
	for _, m := range melds {
		fixed = append(fixed, blockFromMeld(m))
	}

	var out []Division
	for j := 0; j < len(concealed); j++ {
		if !concealed.take(j, shapePair) {
			continue
		}
		pair := TileType(j)
		enumerateBlocks(&concealed, need, nil, func(blocks []Block) {
			all := make([]Block, 0, 4)
			all = append(all, fixed...)
			all = append(all, blocks...)
			out = append(out, Division{Pair: pair, Blocks: all})
		})
		concealed.put(j, shapePair)
	}
	return out
}

// enumerateBlocks 按最小牌起拆刻子或顺子，每得到一种完整拆法调用 emit
func enumerateBlocks(h *Hand34, need int, acc []Block, emit func([]Block)) {
	i := h.lowest()
	if need == 0 || i < 0 {
		if need == 0 && i < 0 {
			emit(append([]Block(nil), acc...))
		}
		return
	}
	for _, k := range meldShapes {
		if !h.take(i, k) {
			continue
		}
		kind := BlockTriplet
		if k == shapeRun {
			kind = BlockSequence
		}
		enumerateBlocks(h, need-1, append(acc, Block{Kind: kind, Tile: TileType(i), Concealed: true}), emit)
		h.put(i, k)
	}
}

// concealedTriplets 暗刻数（含暗杠）；荣和时由和了牌完成的刻子算明刻，
// 除非和了牌能落在雀头或门内顺子里
func (d *Division) concealedTriplets(winTile TileType, isTsumo bool) int {
	ronCompleted := !isTsumo && !d.winTileElsewhere(winTile)
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == BlockSequence || !b.Concealed {
			continue
		}
		if ronCompleted && !b.Meld && b.Kind == BlockTriplet && b.Tile == winTile {
			ronCompleted = false
			continue
		}
		n++
	}
	return n
}

func (d *Division) winTileElsewhere(winTile TileType) bool {
	if d.Pair == winTile {
		return true
	}
	for _, b := range d.Blocks {
		if !b.Meld && b.Kind == BlockSequence && b.Contains(winTile) {
			return true
		}
	}
	return false
}

// isOpenByRon 刻子是否因荣和视为明刻
func (d *Division) isOpenByRon(b Block, winTile TileType, isTsumo bool) bool {
	return !isTsumo && !b.Meld && b.Kind == BlockTriplet && b.Tile == winTile && !d.winTileElsewhere(winTile)
}

func (d *Division) countKind(kind BlockKind) int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}
