package engines

import (
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

type GameState int

const (
	GameWaiting    GameState = iota // 等待开始
	GameInProgress                  // 进行中
	GameFinished                    // 结束
)

func (s GameState) String() string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GameInProgress:
		return "in_progress"
	case GameFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Engine 使用原型模式，每局游戏克隆一个引擎
type Engine interface {
	// InitializeEngine 初始化游戏引擎并启动事件循环
	InitializeEngine(gameID string, users []*share.UserInfo) error

	// NotifyEvent 通知游戏事件（入队，由引擎内部串行处理）
	NotifyEvent(event share.GameEvent)

	// Finished 游戏结束或引擎关闭时关闭
	Finished() <-chan struct{}

	// Clone 克隆引擎实例（用于原型模式）
	Clone() Engine

	// Close 释放引擎内部资源
	Close()
}
