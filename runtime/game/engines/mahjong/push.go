package mahjong

import (
	"errors"

	"github.com/koreyama/shogi-online-sub000/common/log"
)

// SpectatorView 旁观视角
const SpectatorView = -1

// Pusher 把某个观察者的牌桌投影推送出去
type Pusher interface {
	Push(gameID string, viewer int, view *TableView) error
}

// PusherFunc 函数适配
type PusherFunc func(gameID string, viewer int, view *TableView) error

func (f PusherFunc) Push(gameID string, viewer int, view *TableView) error {
	return f(gameID, viewer, view)
}

type NopPusher struct{}

func (NopPusher) Push(string, int, *TableView) error { return nil }

// MultiPusher 依次推送给多个下游，汇总错误
type MultiPusher []Pusher

func (m MultiPusher) Push(gameID string, viewer int, view *TableView) error {
	var errs []error
	for _, p := range m {
		if err := p.Push(gameID, viewer, view); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pushViews 每次状态变化后给每个座位和旁观者各推送一次
func (eg *RiichiMahjong) pushViews() {
	if eg.pusher == nil || eg.DeckManager == nil {
		return
	}
	for seat := range eg.Players {
		if err := eg.pusher.Push(eg.GameID, seat, eg.ViewFor(seat)); err != nil {
			log.Warn("推送牌桌失败: game=%s seat=%d err=%v", eg.GameID, seat, err)
		}
	}
	if err := eg.pusher.Push(eg.GameID, SpectatorView, eg.ViewFor(SpectatorView)); err != nil {
		log.Warn("推送旁观视角失败: game=%s err=%v", eg.GameID, err)
	}
}
