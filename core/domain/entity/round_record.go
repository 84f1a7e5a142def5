package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundRecord 局记录（每局一个文档）
// 存储该局的所有事件流和回合结果
type RoundRecord struct {
	ID             primitive.ObjectID `bson:"_id"`
	GameRecordID   primitive.ObjectID `bson:"game_record_id"` // 关联游戏记录
	RoundNumber    int                `bson:"round_number"`
	RoundWind      string             `bson:"round_wind"`
	DealerIndex    int                `bson:"dealer_index"`
	Honba          int                `bson:"honba"`
	DoraIndicators []Tile             `bson:"dora_indicators"` // 开局翻开的宝牌指示牌
	Events         []RoundEvent       `bson:"events"`          // 事件流（按时间顺序）
	RoundResult    *RoundResult       `bson:"round_result"`    // 回合结果（回合结束时设置）
	StartTime      time.Time          `bson:"start_time"`
	EndTime        time.Time          `bson:"end_time"`
	Duration       int                `bson:"duration"` // 秒
	CreatedAt      time.Time          `bson:"created_at"`
}

// RoundEvent 回合事件（只存事件，不存快照）
type RoundEvent struct {
	Sequence  int                    `bson:"sequence"`   // 事件序号（从0开始，该局内递增）
	EventType string                 `bson:"event_type"` // 事件类型
	Timestamp time.Time              `bson:"timestamp"`
	SeatIndex int                    `bson:"seat_index"` // 操作玩家座位（-1表示系统事件）
	Data      map[string]interface{} `bson:"data"`
}

// RoundResult 回合结果
type RoundResult struct {
	EndType    string    `bson:"end_type"` // "RON", "TSUMO", "DRAW_EXHAUSTIVE", "ABORTED"
	Claims     []HuClaim `bson:"claims"`
	Delta      []int     `bson:"delta"`  // 点数变化（按座位索引）
	Points     []int     `bson:"points"` // 回合结束后的点数（按座位索引）
	Tenpai     []int     `bson:"tenpai,omitempty"`
	Reason     string    `bson:"reason"`      // 中止原因（如果有）
	NextDealer int       `bson:"next_dealer"` // 下一局庄家（-1表示游戏结束）
}

// HuClaim 和牌信息
type HuClaim struct {
	WinnerSeat int      `bson:"winner_seat"`
	LoserSeat  int      `bson:"loser_seat"` // 自摸时为 -1
	WinTile    Tile     `bson:"win_tile"`
	Han        int      `bson:"han"`
	Fu         int      `bson:"fu"`
	Yakuman    int      `bson:"yakuman,omitempty"`
	Yaku       []string `bson:"yaku"`
	Points     int      `bson:"points"`
	Label      string   `bson:"label,omitempty"`
}

// Tile 牌（用于存储）
type Tile struct {
	Type int  `bson:"type"`
	ID   int  `bson:"id"`
	Red  bool `bson:"red,omitempty"`
}

// NewRoundRecord 创建局记录
func NewRoundRecord(gameRecordID primitive.ObjectID, roundNumber int, roundWind string, dealerIndex, honba int) *RoundRecord {
	now := time.Now()
	return &RoundRecord{
		ID:           primitive.NewObjectID(),
		GameRecordID: gameRecordID,
		RoundNumber:  roundNumber,
		RoundWind:    roundWind,
		DealerIndex:  dealerIndex,
		Honba:        honba,
		Events:       make([]RoundEvent, 0, 100),
		StartTime:    now,
		CreatedAt:    now,
	}
}

// AddEvent 添加事件
func (rr *RoundRecord) AddEvent(eventType string, seatIndex int, data map[string]interface{}) {
	event := RoundEvent{
		Sequence:  len(rr.Events),
		EventType: eventType,
		Timestamp: time.Now(),
		SeatIndex: seatIndex,
		Data:      data,
	}
	rr.Events = append(rr.Events, event)
}

// CompleteRound 完成回合（设置回合结果）
func (rr *RoundRecord) CompleteRound(result *RoundResult) {
	rr.EndTime = time.Now()
	rr.Duration = int(rr.EndTime.Sub(rr.StartTime).Seconds())
	rr.RoundResult = result
}

// 事件类型常量
const (
	EventTypeRoundStart  = "round_start"
	EventTypeDrawTile    = "draw_tile"
	EventTypeDiscardTile = "discard_tile"
	EventTypeChi         = "chi"
	EventTypePeng        = "peng"
	EventTypeGang        = "gang"
	EventTypeAnkan       = "ankan"
	EventTypeKakan       = "kakan"
	EventTypeRiichi      = "riichi"
	EventTypeRon         = "ron"
	EventTypeTsumo       = "tsumo"
	EventTypeRoundEnd    = "round_end"
	EventTypeAbort       = "abort"
)
