package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/config"
	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"

	"github.com/nats-io/nats.go"
)

var ErrNotConnected = errors.New("nats not connected")

// ViewSubject 牌桌投影的发布主题，旁观视角使用 spectator
func ViewSubject(gameID string, viewer int) string {
	if viewer == mahjong.SpectatorView {
		return fmt.Sprintf("game.%s.view.spectator", gameID)
	}
	return fmt.Sprintf("game.%s.view.%d", gameID, viewer)
}

// NatsPusher 把牌桌投影以 JSON 发布到 nats
type NatsPusher struct {
	conn *nats.Conn
}

func NewNatsPusher(conf config.NatsConfig) (*NatsPusher, error) {
	log.Info("nats 服务正在连接, url:%s", conf.URL)
	conn, err := nats.Connect(conf.URL,
		nats.Name("mahjong-game"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats 连接断开: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats 连接错误: %w", err)
	}
	log.Info("nats 连接成功, url:%s", conf.URL)
	return &NatsPusher{conn: conn}, nil
}

func (p *NatsPusher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func (p *NatsPusher) Push(gameID string, viewer int, view *mahjong.TableView) error {
	if !p.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("序列化牌桌失败: %w", err)
	}
	return p.conn.Publish(ViewSubject(gameID, viewer), data)
}

func (p *NatsPusher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	log.Info("NATS 连接已关闭")
	return nil
}
