package share

// GameEvent 游戏事件接口
type GameEvent interface {
	GetSeat() int
	GetEventType() string
	BindResult(result chan error)
	Reply(err error)
}

// GameMessageEvent 玩家指令的公共部分，Result 非空时引擎处理完会回写结果
type GameMessageEvent struct {
	Seat   int        `json:"seat"`
	Result chan error `json:"-"`
}

func (e *GameMessageEvent) GetSeat() int {
	return e.Seat
}

// BindResult 指定处理结果的回写通道，需带缓冲
func (e *GameMessageEvent) BindResult(result chan error) {
	e.Result = result
}

func (e *GameMessageEvent) Reply(err error) {
	if e.Result == nil {
		return
	}
	select {
	case e.Result <- err:
	default:
	}
}

// StartGameEvent 开始游戏
type StartGameEvent struct {
	GameMessageEvent
}

func (e *StartGameEvent) GetEventType() string {
	return "StartGame"
}

type DropTileEvent struct {
	GameMessageEvent
	TileID int `json:"tileID"` // 打出的牌
}

func (e *DropTileEvent) GetEventType() string {
	return "DropTile"
}

// PengTileEvent TileIDs 为空时取第一种组合
type PengTileEvent struct {
	GameMessageEvent
	TileIDs []int `json:"tileIDs,omitempty"`
}

func (e *PengTileEvent) GetEventType() string {
	return "Peng"
}

type RongHuEvent struct {
	GameMessageEvent
}

func (e *RongHuEvent) GetEventType() string {
	return "RongHu"
}

type TouchHuEvent struct {
	GameMessageEvent
}

func (e *TouchHuEvent) GetEventType() string {
	return "TouchHu"
}

// GangEvent 明杠（大明杠）
type GangEvent struct {
	GameMessageEvent
}

func (e *GangEvent) GetEventType() string {
	return "Gang"
}

// AnkanEvent 暗杠事件（玩家自己回合主动杠牌）
type AnkanEvent struct {
	GameMessageEvent
	TileID int `json:"tileID"` // 要杠的牌（四张相同牌中的任意一张）
}

func (e *AnkanEvent) GetEventType() string {
	return "Ankan"
}

// KakanEvent 加杠事件（将碰升级为杠）
type KakanEvent struct {
	GameMessageEvent
	TileID int `json:"tileID"` // 要加杠的牌（第四张相同的牌）
}

func (e *KakanEvent) GetEventType() string {
	return "Kakan"
}

// ChiEvent TileIDs 为手中参与吃的两张牌
type ChiEvent struct {
	GameMessageEvent
	TileIDs []int `json:"tileIDs,omitempty"`
}

func (e *ChiEvent) GetEventType() string {
	return "Chi"
}

// RiichiEvent 立直宣言并打出 TileID
type RiichiEvent struct {
	GameMessageEvent
	TileID int `json:"tileID"`
}

func (e *RiichiEvent) GetEventType() string {
	return "Riichi"
}

// PassEvent 放弃鸣牌/荣和
type PassEvent struct {
	GameMessageEvent
}

func (e *PassEvent) GetEventType() string {
	return "Pass"
}

// NextRoundEvent 结算后进入下一局
type NextRoundEvent struct {
	GameMessageEvent
}

func (e *NextRoundEvent) GetEventType() string {
	return "NextRound"
}
