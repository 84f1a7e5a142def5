package mahjong

import (
	"github.com/koreyama/shogi-online-sub000/common/cache"
	"github.com/koreyama/shogi-online-sub000/common/log"
)

type Candidate struct {
	DiscardType    TileType
	DiscardOptions []Tile     // 实体牌：红5/普通5供 UI 选择
	Waits          []TileType // 听哪些牌
	Ukeire         int        // 有效张数
}

const searcherCacheSize = 1 << 16

// Searcher 和牌、听牌、向听的搜索器，结果缓存在本地 ristretto 中
type Searcher struct {
	cache *cache.GeneralCache
}

func NewSearcher() *Searcher {
	c, err := cache.NewGeneralCache(searcherCacheSize, 0)
	if err != nil {
		log.Warn("搜索器缓存创建失败，退化为无缓存: %v", err)
		return &Searcher{}
	}
	return &Searcher{cache: c}
}

func (s *Searcher) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// remember 先查缓存，未命中时计算并写入
func remember[T any](s *Searcher, key string, compute func() T) T {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if hit, ok := v.(T); ok {
				return hit
			}
		}
	}
	v := compute()
	if s.cache != nil {
		s.cache.Set(key, v)
	}
	return v
}

var defaultSearcher = NewSearcher()

// IsWinningHand 手牌（含和了牌）是否和牌，张数必须为 14 - 3*副露数
func IsWinningHand(tiles []Tile, meldCount int) bool {
	if len(tiles) != 14-3*meldCount {
		return false
	}
	h, _ := Hand34FromTiles(tiles)
	return defaultSearcher.IsAgariAll(h, meldCount)
}

// TenpaiWaits 13 - 3*副露数 张手牌的听牌种类
func TenpaiWaits(tiles []Tile, meldCount int) []TileType {
	if len(tiles) != 13-3*meldCount {
		return nil
	}
	h, _ := Hand34FromTiles(tiles)
	return defaultSearcher.Waits(h, meldCount)
}

// CalculateShanten 向听数，听牌和和牌都记为 0
func CalculateShanten(tiles []Tile, meldCount int) int {
	h, _ := Hand34FromTiles(tiles)
	return max(defaultSearcher.ShantenAll(h, meldCount), 0)
}

// SeekCandidates 逐种试打，列出打出后听牌的选择；能否立直由引擎判断
func (s *Searcher) SeekCandidates(hand14 []Tile, fixedMelds int, visible *[34]uint8) []Candidate {
	h, byType := Hand34FromTiles(hand14)
	var out []Candidate
	for i := 0; i < len(h); i++ {
		if !h.take(i, shapeSingle) {
			continue
		}
		if waits, n := s.WaitsAndUkeire(h, fixedMelds, visible); len(waits) > 0 {
			out = append(out, Candidate{
				DiscardType:    TileType(i),
				DiscardOptions: byType[TileType(i)],
				Waits:          waits,
				Ukeire:         n,
			})
		}
		h.put(i, shapeSingle)
	}
	return out
}

// Waits 听牌种类，返回的切片可随意修改
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []TileType {
	waits := remember(s, h13.cacheKey('w', fixedMelds), func() []TileType {
		var found []TileType
		for i := 0; i < len(h13); i++ {
			// 手里已有四张的牌不算听
			if h13[i] >= 4 {
				continue
			}
			h13[i]++
			if s.IsAgariAll(h13, fixedMelds) {
				found = append(found, TileType(i))
			}
			h13[i]--
		}
		return found
	})
	return append([]TileType(nil), waits...)
}

// WaitsAndUkeire 听牌种类及剩余进张数，visible 为场上已见的牌
func (s *Searcher) WaitsAndUkeire(h13 Hand34, fixedMelds int, visible *[34]uint8) ([]TileType, int) {
	waits := s.Waits(h13, fixedMelds)
	n := 0
	for _, t := range waits {
		left := 4 - int(h13[t])
		if visible != nil {
			left -= int(visible[t])
		}
		n += max(left, 0)
	}
	return waits, n
}

// IsAgariAll 是否和牌，有副露时只看一般型
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	return remember(s, h.cacheKey('a', fixedMelds), func() bool {
		if agariStandard(h, fixedMelds) {
			return true
		}
		return fixedMelds == 0 && (IsAgariChiitoi(h) || IsAgariKokushi(h))
	})
}

// ShantenAll 三种牌型中最小的向听数，和牌为 -1
func (s *Searcher) ShantenAll(h Hand34, fixedMelds int) int {
	return remember(s, h.cacheKey('s', fixedMelds), func() int {
		best := shantenStandard(h, fixedMelds)
		if fixedMelds == 0 {
			best = min(best, shantenChiitoi(h), shantenKokushi(h))
		}
		return best
	})
}

// agariStandard 雀头 + (4 - 副露数) 个面子
func agariStandard(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds
	if need < 0 || h.Total() != need*3+2 {
		return false
	}
	for i := 0; i < len(h); i++ {
		if !h.take(i, shapePair) {
			continue
		}
		ok := h.splits(need)
		h.put(i, shapePair)
		if ok {
			return true
		}
	}
	return false
}

func shantenStandard(h Hand34, fixedMelds int) int {
	best := 8
	h.searchShanten(partial{melds: fixedMelds}, &best)
	return best
}

// chiitoiCount 对子数与牌种数，四张同牌只算一个对子
func chiitoiCount(h Hand34) (pairs, kinds int) {
	for _, c := range h {
		if c > 0 {
			kinds++
		}
		if c >= 2 {
			pairs++
		}
	}
	return pairs, kinds
}

// IsAgariChiitoi 七种各两张
func IsAgariChiitoi(h Hand34) bool {
	pairs, kinds := chiitoiCount(h)
	return pairs == 7 && kinds == 7 && h.Total() == 14
}

func shantenChiitoi(h Hand34) int {
	pairs, kinds := chiitoiCount(h)
	return 6 - pairs + max(7-kinds, 0)
}

var kokushiTiles = [13]TileType{Man1, Man9, Pin1, Pin9, So1, So9, East, South, West, North, White, Green, Red}

// kokushiCount 幺九牌种数，以及其中是否有对子
func kokushiCount(h Hand34) (kinds int, pair bool) {
	for _, t := range kokushiTiles {
		if h[t] > 0 {
			kinds++
		}
		if h[t] >= 2 {
			pair = true
		}
	}
	return kinds, pair
}

// IsAgariKokushi 十三种幺九各一张，其中一种成对
func IsAgariKokushi(h Hand34) bool {
	kinds, pair := kokushiCount(h)
	return kinds == 13 && pair && h.Total() == 14
}

func shantenKokushi(h Hand34) int {
	kinds, pair := kokushiCount(h)
	sh := 13 - kinds
	if pair {
		sh--
	}
	return sh
}
