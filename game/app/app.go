package app

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/config"
	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/core/container"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

type Options struct {
	ConfigFile string
	Games      int
	Seed       int64
}

// scoreboard 记录每局最新的旁观视角，对局结束后输出排名
type scoreboard struct {
	mu    sync.Mutex
	views map[string]*mahjong.TableView
}

func newScoreboard() *scoreboard {
	return &scoreboard{views: make(map[string]*mahjong.TableView)}
}

func (b *scoreboard) Push(gameID string, viewer int, view *mahjong.TableView) error {
	if viewer != mahjong.SpectatorView {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := b.views[gameID]
	b.views[gameID] = view
	if view.Result != nil && (prev == nil || prev.Result == nil) {
		log.Info("本局结束: game=%s %s%d局 %s %s", gameID,
			view.Situation.RoundWind, view.Situation.RoundNumber, view.Result.EndKind, view.Result.Summary)
	}
	return nil
}

// latest 快照读取失败时使用本地记录的最后视角
func (b *scoreboard) latest(gameID string) *mahjong.TableView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.views[gameID]
}

func (b *scoreboard) forget(gameID string) {
	b.mu.Lock()
	delete(b.views, gameID)
	b.mu.Unlock()
}

// report 按点数排名，同分按座位
func report(view *mahjong.TableView) string {
	if view == nil {
		return "no result"
	}

	seats := append([]mahjong.SeatView(nil), view.Seats...)
	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].Points != seats[j].Points {
			return seats[i].Points > seats[j].Points
		}
		return seats[i].SeatIndex < seats[j].SeatIndex
	})
	parts := make([]string, 0, len(seats))
	for rank, s := range seats {
		parts = append(parts, fmt.Sprintf("%d位 %s %d", rank+1, s.UserID, s.Points))
	}
	return fmt.Sprintf("[%s] %s", view.State, strings.Join(parts, ", "))
}

// finalView 优先读取快照存储中的终局视角
func finalView(ctx context.Context, c *container.GameContainer, b *scoreboard, gameID string) *mahjong.TableView {
	defer b.forget(gameID)
	view, err := c.Snapshot(ctx, gameID)
	if err != nil {
		log.Warn("读取终局快照失败: game=%s err=%v", gameID, err)
		return b.latest(gameID)
	}
	return view
}

// Run 加载配置、组装容器，依次进行自对战，收到退出信号时关闭
func Run(ctx context.Context, opts Options) error {
	loader, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("文件配置发生错误: %w", err)
	}
	cfg := loader.Current()
	log.InitLog(cfg.ID, cfg.LogConf.Level)
	log.Info("配置文件: %s, rule: %+v", opts.ConfigFile, cfg.RuleConf)

	board := newScoreboard()
	gameContainer, err := container.NewGameContainer(cfg, opts.Seed, board)
	if err != nil {
		return err
	}
	defer func() {
		if err := gameContainer.Close(); err != nil {
			log.Error("关闭 game 容器失败: %v", err)
		}
	}()

	loader.Watch(func(next config.GameConfiguration, err error) {
		if err != nil {
			log.Warn("配置热更新失败: %v", err)
			return
		}
		log.SetLevel(next.LogConf.Level)
		if err := gameContainer.UpdateRules(next.RuleConf); err != nil {
			log.Warn("规则热更新被拒绝: %v", err)
		}
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer stop()

	for i := 0; i < opts.Games; i++ {
		g, err := gameContainer.NewGame()
		if err != nil {
			return err
		}
		start := time.Now()
		if err := gameContainer.Dispatch(ctx, g.ID, &share.StartGameEvent{}); err != nil {
			gameContainer.EndGame(g.ID)
			if ctx.Err() != nil {
				log.Info("中断信号，服务停止")
				return nil
			}
			return fmt.Errorf("开局失败: %w", err)
		}

		select {
		case <-g.Engine.Finished():
			view := finalView(ctx, gameContainer, board, g.ID)
			log.Info("对局结束: game=%s 用时=%s %s", g.ID, time.Since(start).Round(time.Second), report(view))
			gameContainer.EndGame(g.ID)
		case <-ctx.Done():
			log.Info("中断信号，服务停止")
			gameContainer.EndGame(g.ID)
			return nil
		}
	}
	return nil
}
