package mahjong

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/core/domain/entity"
	"github.com/koreyama/shogi-online-sub000/core/domain/repository"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const saveTimeout = 30 * time.Second

// PersisterFactory 每个对局创建一个持久化组件
type PersisterFactory func(gameID string, seats int, users []*share.UserInfo) *GamePersister

// NewPersisterFactory 绑定仓储
func NewPersisterFactory(repo repository.GameRecordRepository) PersisterFactory {
	return func(gameID string, seats int, users []*share.UserInfo) *GamePersister {
		return NewGamePersister(repo, gameID, seats, users)
	}
}

// GamePersister 游戏持久化组件
// 负责在游戏过程中收集事件，游戏结束后异步写入数据库
type GamePersister struct {
	repo         repository.GameRecordRepository
	gameRecord   *entity.GameRecord
	rounds       []*entity.RoundRecord // 所有回合的数组（游戏结束后一次性保存）
	currentRound *entity.RoundRecord   // 当前回合（方便操作）
	eventMu      sync.Mutex            // 保护事件收集的并发安全
	closed       bool
	wg           sync.WaitGroup
}

// NewGamePersister 创建持久化组件
func NewGamePersister(repo repository.GameRecordRepository, gameID string, seats int, users []*share.UserInfo) *GamePersister {
	players := make([]entity.PlayerInfo, 0, len(users))
	for _, u := range users {
		players = append(players, entity.PlayerInfo{
			UserID:    u.UserID,
			SeatIndex: u.SeatIndex,
			IsAI:      u.IsAI,
		})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].SeatIndex < players[j].SeatIndex })

	gameType := fmt.Sprintf("riichi_mahjong_%dp", seats)
	return &GamePersister{
		repo:       repo,
		gameRecord: entity.NewGameRecord(gameID, gameType, players),
		rounds:     make([]*entity.RoundRecord, 0, 8),
	}
}

// GetGameRecordID 获取游戏记录ID
func (gp *GamePersister) GetGameRecordID() primitive.ObjectID {
	return gp.gameRecord.ID
}

func toEntityTile(t Tile) entity.Tile {
	return entity.Tile{Type: int(t.Type), ID: t.ID, Red: t.Red}
}

func toEntityTiles(tiles []Tile) []entity.Tile {
	out := make([]entity.Tile, len(tiles))
	for i, t := range tiles {
		out[i] = toEntityTile(t)
	}
	return out
}

func (gp *GamePersister) addEvent(eventType string, seatIndex int, data map[string]interface{}) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}
	gp.currentRound.AddEvent(eventType, seatIndex, data)
}

// StartRound 开始新的一局
func (gp *GamePersister) StartRound(roundNumber int, roundWind string, dealerIndex, honba int, dora []Tile) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}

	gp.currentRound = entity.NewRoundRecord(gp.gameRecord.ID, roundNumber, roundWind, dealerIndex, honba)
	gp.currentRound.DoraIndicators = toEntityTiles(dora)
	gp.rounds = append(gp.rounds, gp.currentRound)
	gp.currentRound.AddEvent(entity.EventTypeRoundStart, -1, map[string]interface{}{
		"current_turn": dealerIndex,
	})
}

// RecordDrawTile 记录摸牌事件
func (gp *GamePersister) RecordDrawTile(seatIndex int, tile Tile, rinshan bool) {
	gp.addEvent(entity.EventTypeDrawTile, seatIndex, map[string]interface{}{
		"tile":    toEntityTile(tile),
		"rinshan": rinshan,
	})
}

// RecordDiscardTile 记录出牌事件，立直宣言牌额外记一条立直事件
func (gp *GamePersister) RecordDiscardTile(seatIndex int, tile Tile, riichi bool) {
	if riichi {
		gp.addEvent(entity.EventTypeRiichi, seatIndex, map[string]interface{}{})
	}
	gp.addEvent(entity.EventTypeDiscardTile, seatIndex, map[string]interface{}{
		"tile": toEntityTile(tile),
	})
}

// RecordMeld 记录吃、碰、杠
func (gp *GamePersister) RecordMeld(seatIndex int, meld Meld) {
	var eventType string
	switch meld.Type {
	case MeldChi:
		eventType = entity.EventTypeChi
	case MeldPon:
		eventType = entity.EventTypePeng
	case MeldKan:
		eventType = entity.EventTypeGang
	case MeldAnkan:
		eventType = entity.EventTypeAnkan
	case MeldKakan:
		eventType = entity.EventTypeKakan
	}
	gp.addEvent(eventType, seatIndex, map[string]interface{}{
		"from_seat": meld.From,
		"tiles":     toEntityTiles(meld.Tiles),
		"called":    toEntityTile(meld.Called),
	})
}

// CompleteRound 完成当前局（设置回合结果）
func (gp *GamePersister) CompleteRound(res *RoundResult, points []int, nextDealer int) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed || gp.currentRound == nil {
		return
	}

	result := &entity.RoundResult{
		EndType:    res.EndKind,
		Delta:      append([]int(nil), res.Delta...),
		Points:     append([]int(nil), points...),
		Tenpai:     res.TenpaiSeats,
		Reason:     res.Reason,
		NextDealer: nextDealer,
	}
	if res.Score != nil && res.WinTile != nil {
		yaku := make([]string, 0, len(res.Yakus))
		for _, y := range res.Yakus {
			yaku = append(yaku, y.Yaku.String())
		}
		result.Claims = []entity.HuClaim{{
			WinnerSeat: res.Winner,
			LoserSeat:  res.Loser,
			WinTile:    toEntityTile(*res.WinTile),
			Han:        res.Score.Han,
			Fu:         res.Score.Fu,
			Yakuman:    res.Score.Yakuman,
			Yaku:       yaku,
			Points:     res.Score.TotalScore,
			Label:      res.Score.Label,
		}}
		eventType := entity.EventTypeRon
		if res.EndKind == RoundEndTsumo {
			eventType = entity.EventTypeTsumo
		}
		gp.currentRound.AddEvent(eventType, res.Winner, map[string]interface{}{
			"loser_seat": res.Loser,
			"win_tile":   toEntityTile(*res.WinTile),
		})
	}

	gp.currentRound.CompleteRound(result)
	gp.currentRound.AddEvent(entity.EventTypeRoundEnd, -1, map[string]interface{}{})
}

// AbortRound 引擎异常中止，保存已经收集的记录
func (gp *GamePersister) AbortRound(reason string) {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return
	}
	if gp.currentRound != nil {
		gp.currentRound.AddEvent(entity.EventTypeAbort, -1, map[string]interface{}{"reason": reason})
		gp.currentRound.CompleteRound(&entity.RoundResult{EndType: RoundEndAborted, Reason: reason, NextDealer: -1})
	}
	gp.closed = true
	rounds := append([]*entity.RoundRecord(nil), gp.rounds...)
	gp.eventMu.Unlock()

	gp.gameRecord.AbortGame()
	gp.save(rounds)
}

// rankPlayers 按点数排名，同分时座位靠前者优先
func rankPlayers(players []*PlayerImage) []entity.PlayerRanking {
	rankings := make([]entity.PlayerRanking, 0, len(players))
	for _, p := range players {
		rankings = append(rankings, entity.PlayerRanking{
			SeatIndex: p.SeatIndex,
			UserID:    p.UserID,
			Points:    p.Points,
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Points != rankings[j].Points {
			return rankings[i].Points > rankings[j].Points
		}
		return rankings[i].SeatIndex < rankings[j].SeatIndex
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

// FinalizeGame 完成游戏（异步写入数据库）
// 在游戏结束时调用，会保存所有局记录和游戏记录
func (gp *GamePersister) FinalizeGame(players []*PlayerImage) {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return
	}
	gp.closed = true
	rounds := append([]*entity.RoundRecord(nil), gp.rounds...) // 复制数组，避免在异步中访问时数据被修改
	gp.eventMu.Unlock()

	points := make([]int, len(players))
	for i, p := range players {
		points[i] = p.Points
	}
	gp.gameRecord.CompleteGame(&entity.GameFinalResult{
		Rankings: rankPlayers(players),
		Points:   points,
	})
	gp.save(rounds)
}

func (gp *GamePersister) save(rounds []*entity.RoundRecord) {
	if gp.repo == nil {
		return
	}
	record := *gp.gameRecord
	gp.wg.Add(1)
	go func() {
		defer gp.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		// 保存游戏记录（元数据）
		if err := gp.repo.SaveGameRecord(ctx, &record); err != nil {
			log.Error("保存游戏记录失败: %v", err)
			return
		}

		// 批量保存所有局记录（每个小场一个文档）
		if err := gp.repo.SaveRoundRecords(ctx, rounds); err != nil {
			log.Error("批量保存局记录失败: %v", err)
			return
		}

		log.Info("游戏记录保存成功: gameRecordID=%s, rounds=%d", record.ID.Hex(), len(rounds))
	}()
}

// Wait 等待异步写入完成
func (gp *GamePersister) Wait() {
	gp.wg.Wait()
}
