package mahjong

type PlayerImage struct {
	UserID         string
	SeatIndex      int
	IsAI           bool
	Tiles          []Tile                // 手中的牌
	DiscardPile    []Tile                // 弃牌堆
	Melds          []Meld                // 碰、杠、吃的组合
	IsRiichi       bool                  // 是否立直
	IsDoubleRiichi bool                  // 两立直
	IsIppatsu      bool                  // 一发有效
	RiichiIndex    int                   // 立直宣言牌在弃牌堆中的位置，-1 表示未立直
	TempFuriten    bool                  // 同巡振听，自己下一次打牌解除
	RiichiFuriten  bool                  // 立直后见逃，本局不解除
	DiscardedTiles map[TileType]struct{} // 已弃的牌类型集合（用于振听判断），考虑到弃牌堆的牌有可能会被副露，需要额外维护
	NewestTile     *Tile                 // 最新摸的牌（用于自摸和判断）
	Points         int                   // 当前点数
}

// NewPlayerImage 创建玩家游戏状态实例
func NewPlayerImage(userID string, seatIndex int, initialPoints int) *PlayerImage {
	p := &PlayerImage{
		UserID:    userID,
		SeatIndex: seatIndex,
		Points:    initialPoints,
	}
	p.ResetForRound()
	return p
}

// ResetForRound 每局开始清空除点数外的状态
func (p *PlayerImage) ResetForRound() {
	p.Tiles = make([]Tile, 0, 14)
	p.DiscardPile = make([]Tile, 0, 24)
	p.Melds = make([]Meld, 0, 4)
	p.IsRiichi = false
	p.IsDoubleRiichi = false
	p.IsIppatsu = false
	p.RiichiIndex = -1
	p.TempFuriten = false
	p.RiichiFuriten = false
	p.DiscardedTiles = make(map[TileType]struct{})
	p.NewestTile = nil
}

// AddDiscardedTile 记录已弃的牌（用于振听判断）
func (p *PlayerImage) AddDiscardedTile(tile Tile) {
	p.DiscardedTiles[tile.Type] = struct{}{}
}

// HasDiscardedTile 检查是否弃过某种牌（用于振听判断）
func (p *PlayerImage) HasDiscardedTile(tileType TileType) bool {
	_, exists := p.DiscardedTiles[tileType]
	return exists
}

// AddPoints 增加点数
func (p *PlayerImage) AddPoints(points int) {
	p.Points += points
}

// SubtractPoints 减少点数
func (p *PlayerImage) SubtractPoints(points int) {
	p.Points -= points
}

func (p *PlayerImage) AddTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
}

func (p *PlayerImage) DrawTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
	newest := tile
	p.NewestTile = &newest
}

// FindTile 按 ID 查找手牌
func (p *PlayerImage) FindTile(id int) (Tile, bool) {
	for _, t := range p.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

func (p *PlayerImage) RemoveTile(tile Tile) bool {
	for i := range p.Tiles {
		if p.Tiles[i].ID == tile.ID {
			p.Tiles = append(p.Tiles[:i], p.Tiles[i+1:]...)
			if p.NewestTile != nil && p.NewestTile.ID == tile.ID {
				p.NewestTile = nil
			}
			return true
		}
	}
	return false
}

func (p *PlayerImage) DiscardTile(tile Tile) bool {
	if !p.RemoveTile(tile) {
		return false
	}
	p.DiscardPile = append(p.DiscardPile, tile)
	p.AddDiscardedTile(tile)
	p.NewestTile = nil
	return true
}

// DiscardCandidate 超时自动打出：优先摸到的牌，否则最后一张
func (p *PlayerImage) DiscardCandidate() (Tile, bool) {
	if len(p.Tiles)%3 != 2 {
		return Tile{}, false
	}
	if p.NewestTile != nil {
		return *p.NewestTile, true
	}
	return p.Tiles[len(p.Tiles)-1], true
}

// CountType 手牌中某种牌的张数
func (p *PlayerImage) CountType(tt TileType) int {
	n := 0
	for _, t := range p.Tiles {
		if t.Type == tt {
			n++
		}
	}
	return n
}

// TilesOfType 手牌中某种牌的实体牌
func (p *PlayerImage) TilesOfType(tt TileType) []Tile {
	var out []Tile
	for _, t := range p.Tiles {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

// IsClosed 门清（暗杠不破门清）
func (p *PlayerImage) IsClosed() bool {
	for _, m := range p.Melds {
		if m.IsOpen() {
			return false
		}
	}
	return true
}

func (p *PlayerImage) KanCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

// PonIndex 某种牌的碰在副露中的位置
func (p *PlayerImage) PonIndex(tt TileType) int {
	for i, m := range p.Melds {
		if m.Type == MeldPon && m.Tiles[0].Type == tt {
			return i
		}
	}
	return -1
}

// Waits 当前 13 张的听牌
func (p *PlayerImage) Waits() []TileType {
	return TenpaiWaits(p.Tiles, len(p.Melds))
}

// IsFuriten 舍张振听、同巡振听或立直振听
func (p *PlayerImage) IsFuriten() bool {
	if p.TempFuriten || p.RiichiFuriten {
		return true
	}
	for _, w := range p.Waits() {
		if p.HasDiscardedTile(w) {
			return true
		}
	}
	return false
}
