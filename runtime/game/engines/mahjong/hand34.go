package mahjong

// Hand34 按牌种计数的手牌
type Hand34 [34]uint8

// Hand34FromTiles 计数，同时按牌种归类实体牌
func Hand34FromTiles(tiles []Tile) (Hand34, map[TileType][]Tile) {
	var h Hand34
	byType := make(map[TileType][]Tile, len(tiles))
	for _, t := range tiles {
		h[t.Type]++
		byType[t.Type] = append(byType[t.Type], t)
	}
	return h, byType
}

func (h Hand34) Total() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

// cacheKey 前缀 + 34 个计数 + 副露数
func (h Hand34) cacheKey(prefix byte, fixedMelds int) string {
	b := make([]byte, 0, len(h)+2)
	b = append(b, prefix)
	b = append(b, h[:]...)
	b = append(b, byte(fixedMelds))
	return string(b)
}

// lowest 最小的非空牌种，空手返回 -1
func (h *Hand34) lowest() int {
	for i, c := range h {
		if c > 0 {
			return i
		}
	}
	return -1
}

// suitOf 数牌花色 0/1/2，字牌 -1
func suitOf(i int) int {
	if i < int(Man1) || i > int(So9) {
		return -1
	}
	return i / 9
}

type shapeKind uint8

const (
	shapeTriplet shapeKind = iota // 刻子
	shapeRun                      // 顺子
	shapePair                     // 对子
	shapeSide                     // 相邻两张
	shapeGap                      // 隔一张
	shapeSingle                   // 孤张
)

// 以起点牌为 0 的偏移
var shapeOffsets = [...][]int{
	shapeTriplet: {0, 0, 0},
	shapeRun:     {0, 1, 2},
	shapePair:    {0, 0},
	shapeSide:    {0, 1},
	shapeGap:     {0, 2},
	shapeSingle:  {0},
}

var meldShapes = [...]shapeKind{shapeTriplet, shapeRun}

// take 从 i 起拆出一个形状，拆不出时手牌保持原样
func (h *Hand34) take(i int, k shapeKind) bool {
	offs := shapeOffsets[k]
	for n, off := range offs {
		j := i + off
		if off > 0 && (suitOf(i) < 0 || suitOf(j) != suitOf(i)) || h[j] == 0 {
			for _, back := range offs[:n] {
				h[i+back]++
			}
			return false
		}
		h[j]--
	}
	return true
}

func (h *Hand34) put(i int, k shapeKind) {
	for _, off := range shapeOffsets[k] {
		h[i+off]++
	}
}

// splits 能否恰好拆成 need 个面子
func (h *Hand34) splits(need int) bool {
	i := h.lowest()
	if need == 0 || i < 0 {
		return need == 0 && i < 0
	}
	for _, k := range meldShapes {
		if !h.take(i, k) {
			continue
		}
		ok := h.splits(need - 1)
		h.put(i, k)
		if ok {
			return true
		}
	}
	return false
}

// partial 拆牌途中已得到的面子、搭子、雀头
type partial struct {
	melds  int
	blocks int
	head   bool
}

// shanten 8 - 2*面子 - 搭子 - 雀头，搭子数不超过剩余面子位
func (p partial) shanten() int {
	sh := 8 - 2*p.melds - min(p.blocks, 4-p.melds)
	if p.head {
		sh--
	}
	return sh
}

// searchShanten 从最小的牌起依次尝试每种形状，孤张直接丢弃
func (h *Hand34) searchShanten(p partial, best *int) {
	if p.melds > 4 {
		return
	}
	if sh := p.shanten(); sh < *best {
		*best = sh
	}
	i := h.lowest()
	if i < 0 {
		return
	}
	for k := shapeTriplet; k <= shapeSingle; k++ {
		next := p
		switch k {
		case shapeTriplet, shapeRun:
			next.melds++
		case shapePair:
			// 第一个对子作雀头，其余算搭子
			if p.head {
				next.blocks++
			} else {
				next.head = true
			}
		case shapeSide, shapeGap:
			next.blocks++
		}
		if !h.take(i, k) {
			continue
		}
		h.searchShanten(next, best)
		h.put(i, k)
	}
}
