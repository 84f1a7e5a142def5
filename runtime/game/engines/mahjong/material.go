package mahjong

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const (
	TileLimit     = 136 // 一副牌
	TileKinds     = 34
	DeadWallSize  = 14
	MaxKanCount   = 4
	maxIndicators = 5
	rinshanSize   = 4
)

type Suit int

const (
	SuitMan Suit = iota
	SuitPin
	SuitSou
	SuitHonor
)

func (s Suit) String() string {
	switch s {
	case SuitMan:
		return "m"
	case SuitPin:
		return "p"
	case SuitSou:
		return "s"
	default:
		return "z"
	}
}

// Tile ID 在一副牌内唯一(0-135)，Type = ID/4
type Tile struct {
	Type TileType `json:"type"`
	ID   int      `json:"id"`
	Red  bool     `json:"red,omitempty"` // 赤宝牌
}

// NewTile 第 0 张 5 在开启赤宝牌时为赤牌
func NewTile(id int, useRedFives bool) Tile {
	tt := TileType(id / 4)
	return Tile{
		Type: tt,
		ID:   id,
		Red:  useRedFives && tt.IsFive() && id%4 == 0,
	}
}

func (t TileType) Suit() Suit {
	switch {
	case t <= Man9:
		return SuitMan
	case t <= Pin9:
		return SuitPin
	case t <= So9:
		return SuitSou
	default:
		return SuitHonor
	}
}

// Value 数牌 1-9，字牌 1-7（东南西北白发中）
func (t TileType) Value() int {
	if t.IsHonor() {
		return int(t-East) + 1
	}
	return int(t)%9 + 1
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

func (t TileType) IsFive() bool {
	return t == Man5 || t == Pin5 || t == So5
}

func (t TileType) IsTerminal() bool {
	return t.IsNumbered() && (t.Value() == 1 || t.Value() == 9)
}

// IsYaochu 幺九牌
func (t TileType) IsYaochu() bool {
	return t.IsHonor() || t.IsTerminal()
}

func (t TileType) String() string {
	if t < Man1 || t > Red {
		return "?"
	}
	if t.IsHonor() {
		return [...]string{"东", "南", "西", "北", "白", "发", "中"}[t-East]
	}
	return fmt.Sprintf("%d%s", t.Value(), t.Suit())
}

// WindTile 风对应的字牌
func WindTile(w Wind) TileType {
	return East + TileType(w)
}

// DoraFromIndicator 指示牌的下一张，数牌 9→1，风牌 北→东，三元牌 中→白
func DoraFromIndicator(ind TileType) TileType {
	switch {
	case ind.IsNumbered():
		if ind.Value() == 9 {
			return ind - 8
		}
		return ind + 1
	case ind.IsWind():
		if ind == North {
			return East
		}
		return ind + 1
	default:
		if ind == Red {
			return White
		}
		return ind + 1
	}
}

func (t Tile) Suit() Suit {
	return t.Type.Suit()
}

func (t Tile) Value() int {
	return t.Type.Value()
}

func (t Tile) String() string {
	if t.Red {
		return "0" + t.Type.Suit().String()
	}
	return t.Type.String()
}

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// Wang 王牌，固定 14 张
type Wang struct {
	DeadWall          []Tile // 岭上牌
	DoraIndicators    []Tile // 宝牌指示牌(5 张，按 revealed 翻开)
	UraDoraIndicators []Tile // 里宝牌指示牌
	revealed          int
}

var ErrBadStack = errors.New("stacked wall must contain every tile exactly once")

type DeckManager struct {
	wall        []Tile
	wallIndex   int
	wang        Wang
	rng         *rand.Rand
	useRedFives bool
	stacked     []Tile // 非空时下一局按此顺序发牌
}

func NewDeckManager(useRedFives bool, rng *rand.Rand) *DeckManager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DeckManager{
		wall:      make([]Tile, 0, TileLimit),
		wallIndex: 0,
		wang: Wang{
			DeadWall:          make([]Tile, 0, rinshanSize),
			DoraIndicators:    make([]Tile, 0, maxIndicators),
			UraDoraIndicators: make([]Tile, 0, maxIndicators),
		},
		rng:         rng,
		useRedFives: useRedFives,
	}
}

// Stack 指定下一局的牌序（牌山在前，最后 14 张为王牌），用于复盘与测试
func (dm *DeckManager) Stack(order []Tile) error {
	if len(order) != TileLimit {
		return ErrBadStack
	}
	seen := make([]bool, TileLimit)
	for _, t := range order {
		if t.ID < 0 || t.ID >= TileLimit || seen[t.ID] || int(t.Type) != t.ID/4 {
			return ErrBadStack
		}
		seen[t.ID] = true
	}
	dm.stacked = append(dm.stacked[:0], order...)
	return nil
}

func (dm *DeckManager) InitRound() {
	var tiles []Tile
	if len(dm.stacked) == TileLimit {
		tiles = dm.stacked
		dm.stacked = nil
	} else {
		tiles = NewTileDeck(dm.useRedFives)
		dm.rng.Shuffle(len(tiles), func(i, j int) {
			tiles[i], tiles[j] = tiles[j], tiles[i]
		})
	}

	deadStart := len(tiles) - DeadWallSize
	dm.wall = append(dm.wall[:0], tiles[:deadStart]...)
	dm.wallIndex = 0

	dead := tiles[deadStart:]
	dm.wang.DeadWall = append(dm.wang.DeadWall[:0], dead[:rinshanSize]...)
	dm.wang.DoraIndicators = append(dm.wang.DoraIndicators[:0], dead[rinshanSize:rinshanSize+maxIndicators]...)
	dm.wang.UraDoraIndicators = append(dm.wang.UraDoraIndicators[:0], dead[rinshanSize+maxIndicators:]...)
	dm.wang.revealed = 0
}

func (dm *DeckManager) Draw() (Tile, bool) {
	if dm.wallIndex >= len(dm.wall) {
		return Tile{}, false
	}
	t := dm.wall[dm.wallIndex]
	dm.wallIndex++
	return t, true
}

// DrawReplacement 岭上摸牌，从牌山尾部补一张进王牌，王牌保持 14 张
func (dm *DeckManager) DrawReplacement() (Tile, bool) {
	if len(dm.wang.DeadWall) == 0 {
		return Tile{}, false
	}
	t := dm.wang.DeadWall[0]
	dm.wang.DeadWall = dm.wang.DeadWall[1:]
	if dm.Remaining() > 0 {
		last := dm.wall[len(dm.wall)-1]
		dm.wall = dm.wall[:len(dm.wall)-1]
		dm.wang.DeadWall = append(dm.wang.DeadWall, last)
	}
	return t, true
}

func (dm *DeckManager) RevealDoraIndicator() (Tile, bool) {
	if dm.wang.revealed >= len(dm.wang.DoraIndicators) {
		return Tile{}, false
	}
	t := dm.wang.DoraIndicators[dm.wang.revealed]
	dm.wang.revealed++
	return t, true
}

// DoraIndicators 已翻开的宝牌指示牌
func (dm *DeckManager) DoraIndicators() []Tile {
	out := make([]Tile, dm.wang.revealed)
	copy(out, dm.wang.DoraIndicators[:dm.wang.revealed])
	return out
}

// UraDoraIndicators 与已翻开的表指示牌数量相同
func (dm *DeckManager) UraDoraIndicators() []Tile {
	out := make([]Tile, dm.wang.revealed)
	copy(out, dm.wang.UraDoraIndicators[:dm.wang.revealed])
	return out
}

// Remaining 牌山剩余张数
func (dm *DeckManager) Remaining() int {
	return len(dm.wall) - dm.wallIndex
}

func (dm *DeckManager) DeadWallSize() int {
	return len(dm.wang.DeadWall) + len(dm.wang.DoraIndicators) + len(dm.wang.UraDoraIndicators)
}

func (dm *DeckManager) Wang() *Wang {
	return &dm.wang
}

type Situation struct {
	DealerIndex  int  // 庄家座位
	Honba        int  // 本场数
	RoundWind    Wind // 场风
	RoundNumber  int  // 局数(1-座位数)
	RiichiSticks int  // 立直棒数量
}

type MeldType int

const (
	MeldChi   MeldType = iota // 吃
	MeldPon                   // 碰
	MeldKan                   // 明杠
	MeldAnkan                 // 暗杠
	MeldKakan                 // 加杠
)

func (m MeldType) String() string {
	switch m {
	case MeldChi:
		return "Chi"
	case MeldPon:
		return "Pon"
	case MeldKan:
		return "Kan"
	case MeldAnkan:
		return "Ankan"
	case MeldKakan:
		return "Kakan"
	default:
		return "Unknown"
	}
}

type Meld struct {
	Type   MeldType `json:"type"`
	Tiles  []Tile   `json:"tiles"`
	From   int      `json:"from"`   // 从哪个玩家那里获得，暗杠为自己
	Called Tile     `json:"called"` // 鸣入的牌
}

func (m Meld) IsOpen() bool {
	return m.Type != MeldAnkan
}

func (m Meld) IsKan() bool {
	return m.Type == MeldKan || m.Type == MeldAnkan || m.Type == MeldKakan
}

// BaseType 顺子返回最小的牌
func (m Meld) BaseType() TileType {
	base := m.Tiles[0].Type
	for _, t := range m.Tiles[1:] {
		if t.Type < base {
			base = t.Type
		}
	}
	return base
}

// NewTileDeck 按 ID 顺序生成一副牌
func NewTileDeck(useRedFives bool) []Tile {
	tiles := make([]Tile, 0, TileLimit)
	for id := 0; id < TileLimit; id++ {
		tiles = append(tiles, NewTile(id, useRedFives))
	}
	return tiles
}

const (
	RoundEndDrawExhaustive = "DRAW_EXHAUSTIVE"
	RoundEndTsumo          = "TSUMO"
	RoundEndRon            = "RON"
	RoundEndAborted        = "ABORTED"
)

type OperationType string

const (
	OpRon  OperationType = "RON"
	OpKan  OperationType = "KAN"
	OpPon  OperationType = "PON"
	OpChi  OperationType = "CHI"
	OpPass OperationType = "PASS"
)

type PlayerOperation struct {
	Type  OperationType `json:"type"`
	Tiles []Tile        `json:"tiles"` // 操作涉及的手牌（吃为两张）
}

// PlayerReaction 玩家的反应信息
type PlayerReaction struct {
	Operations []*PlayerOperation // 该玩家可用的所有操作选择
	ChosenOp   *PlayerOperation   // 玩家选择的操作（nil表示放弃或未响应）
	Responded  bool               // 是否已响应
}
