package mahjong

import (
	"fmt"
	"time"

	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

type TurnState int

const (
	TurnStateIdle          TurnState = iota // 等待开始
	TurnStateWaitMain                       // 等待出牌、立直、暗杠、加杠、自摸
	TurnStateWaitReactions                  // 等待反应（吃碰杠和）
	TurnStateRoundOver                      // 本局结算完成，等待下一局
	TurnStateGameOver                       // 整场结束
	TurnStateAborted                        // 引擎异常中止
)

func (s TurnState) String() string {
	switch s {
	case TurnStateIdle:
		return "idle"
	case TurnStateWaitMain:
		return "wait_main"
	case TurnStateWaitReactions:
		return "wait_reactions"
	case TurnStateRoundOver:
		return "round_over"
	case TurnStateGameOver:
		return "game_over"
	case TurnStateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Scheduler 延迟任务调度，返回取消函数
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// TurnManager 回合状态与代数，每次状态切换代数加一并取消旧的定时任务，
// 回调携带的代数与当前不一致时视为过期
type TurnManager struct {
	TurnPointer int       // 当前出牌玩家座位
	State       TurnState // 当前回合状态
	seats       int
	generation  uint64
	scheduler   Scheduler
	cancels     []func()
}

// NewTurnManager 创建新的回合管理器
func NewTurnManager(seats int, scheduler Scheduler) *TurnManager {
	if scheduler == nil {
		scheduler = timerScheduler{}
	}
	return &TurnManager{
		TurnPointer: 0,
		State:       TurnStateIdle,
		seats:       seats,
		scheduler:   scheduler,
	}
}

// GetCurrentPlayer 获取当前出牌玩家座位
func (tm *TurnManager) GetCurrentPlayer() int {
	return tm.TurnPointer
}

// GetState 获取当前回合状态
func (tm *TurnManager) GetState() TurnState {
	return tm.State
}

func (tm *TurnManager) Generation() uint64 {
	return tm.generation
}

// IsCurrent 回调携带的代数是否仍然有效
func (tm *TurnManager) IsCurrent(gen uint64) bool {
	return gen == tm.generation
}

func (tm *TurnManager) stopAllTimers() {
	for _, cancel := range tm.cancels {
		cancel()
	}
	tm.cancels = tm.cancels[:0]
}

// pendingTimers 尚未取消的登记数
func (tm *TurnManager) pendingTimers() int {
	return len(tm.cancels)
}

func (tm *TurnManager) transition(state TurnState) {
	tm.stopAllTimers()
	tm.generation++
	tm.State = state
}

// EnterDropPhase 进入出牌阶段
func (tm *TurnManager) EnterDropPhase(seatIndex int) error {
	if seatIndex < 0 || seatIndex >= tm.seats {
		return fmt.Errorf("无效的座位索引: %d", seatIndex)
	}
	tm.transition(TurnStateWaitMain)
	tm.TurnPointer = seatIndex
	return nil
}

// EnterReactingPhase 进入等待反应阶段（吃碰杠和）
func (tm *TurnManager) EnterReactingPhase() {
	tm.transition(TurnStateWaitReactions)
}

func (tm *TurnManager) EnterRoundOver() {
	tm.transition(TurnStateRoundOver)
}

func (tm *TurnManager) EnterGameOver() {
	tm.transition(TurnStateGameOver)
}

func (tm *TurnManager) EnterAborted() {
	tm.transition(TurnStateAborted)
}

// Schedule 以当前代数登记一个延迟任务
func (tm *TurnManager) Schedule(d time.Duration, fn func(gen uint64)) {
	gen := tm.generation
	cancel := tm.scheduler.AfterFunc(d, func() { fn(gen) })
	tm.cancels = append(tm.cancels, cancel)
}

// TimeoutEvent 出牌/反应超时、自动进入下一局
type TimeoutEvent struct {
	share.GameMessageEvent
	Generation uint64
}

func (e *TimeoutEvent) GetEventType() string {
	return "Timeout"
}

// AIActionEvent 电脑座位思考结束
type AIActionEvent struct {
	share.GameMessageEvent
	Generation uint64
}

func (e *AIActionEvent) GetEventType() string {
	return "AIAction"
}
