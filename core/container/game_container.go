package container

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/koreyama/shogi-online-sub000/common/config"
	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/cache"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/message/node"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/message/transfer"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/persistence"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"

	"github.com/google/uuid"
	"google.golang.org/grpc/status"
)

// RulesFromConfig 配置中的 rule 段转换为引擎规则
func RulesFromConfig(conf config.RuleConf) mahjong.Rules {
	return mahjong.Rules{
		Seats:          conf.Seats,
		InitialPoints:  conf.InitialPoints,
		UseRedFives:    conf.UseRedFives,
		RoundWinds:     conf.RoundWinds,
		DiscardTimeout: conf.DiscardTimeout,
		CallTimeout:    conf.CallTimeout,
		AIMinDelay:     conf.AIMinDelay,
		AIMaxDelay:     conf.AIMaxDelay,
		NextRoundDelay: conf.NextRoundDelay,
	}
}

// Game 容器中运行的一局
type Game struct {
	ID     string
	Engine *mahjong.RiichiMahjong
}

// GameContainer game 服务专用容器
// 继承 BaseContainer 的数据库连接，添加引擎原型、推送与快照
type GameContainer struct {
	*BaseContainer
	nats      *node.NatsPusher
	snapshots *cache.SnapshotStore

	mu        sync.Mutex
	prototype *mahjong.RiichiMahjong
	aiSeats   map[int]bool
	seed      int64
	created   int64
	games     map[string]*Game
	closed    bool
}

// NewGameContainer 创建 game 服务容器
// seed 为 0 时每局使用时间种子；observers 追加在 nats、快照之后接收牌桌投影
func NewGameContainer(cfg config.GameConfiguration, seed int64, observers ...mahjong.Pusher) (*GameContainer, error) {
	rules := RulesFromConfig(cfg.RuleConf)
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("规则配置错误: %w", err)
	}

	base, err := NewBase(cfg.DatabaseConf)
	if err != nil {
		return nil, fmt.Errorf("基础容器初始化失败: %w", err)
	}
	c := &GameContainer{
		BaseContainer: base,
		seed:          seed,
		games:         make(map[string]*Game),
	}

	var pushers mahjong.MultiPusher
	if cfg.NatsConfig.URL != "" {
		c.nats, err = node.NewNatsPusher(cfg.NatsConfig)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		pushers = append(pushers, c.nats)
	}
	c.snapshots, err = cache.NewSnapshotStore(base.GetRedis(), cfg.SnapshotConf.TTL)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	pushers = append(pushers, c.snapshots)
	pushers = append(pushers, observers...)

	opts := []mahjong.Option{mahjong.WithPusher(pushers)}
	if mongo := base.GetMongo(); mongo != nil {
		repo := persistence.NewGameRecordRepository(mongo)
		opts = append(opts, mahjong.WithRecorder(mahjong.NewPersisterFactory(repo)))
	}
	c.prototype = mahjong.NewRiichiMahjong(rules, opts...)
	c.aiSeats = toSeatSet(cfg.RuleConf.AISeats)

	log.Info("GameContainer 初始化完成: seats=%d winds=%d nats=%v redis=%v mongo=%v",
		rules.Seats, rules.RoundWinds, c.nats != nil, base.GetRedis() != nil, base.GetMongo() != nil)
	return c, nil
}

func toSeatSet(seats []int) map[int]bool {
	set := make(map[int]bool, len(seats))
	for _, s := range seats {
		set[s] = true
	}
	return set
}

// UpdateRules 热更新规则，只影响之后新开的对局
func (c *GameContainer) UpdateRules(conf config.RuleConf) error {
	rules := RulesFromConfig(conf)
	if err := rules.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prototype.Rules = rules
	c.aiSeats = toSeatSet(conf.AISeats)
	log.Info("规则已更新: %+v", rules)
	return nil
}

// Rules 当前原型使用的规则
func (c *GameContainer) Rules() mahjong.Rules {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prototype.Rules
}

// NewGame 克隆引擎原型开新局并启动事件循环，不会自动发送 StartGameEvent
func (c *GameContainer) NewGame() (*Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("容器已关闭")
	}

	gameID := uuid.NewString()
	var opts []mahjong.Option
	if c.seed != 0 {
		opts = append(opts, mahjong.WithRand(rand.New(rand.NewSource(c.seed+c.created))))
	}
	c.created++
	eng := c.prototype.CloneWith(opts...)

	users := make([]*share.UserInfo, eng.Rules.Seats)
	for seat := range users {
		ai := c.aiSeats[seat]
		userID := fmt.Sprintf("player-%d", seat)
		if ai {
			userID = fmt.Sprintf("bot-%d", seat)
		}
		users[seat] = share.NewUserInfo(userID, seat, ai)
	}
	if err := eng.InitializeEngine(gameID, users); err != nil {
		return nil, err
	}

	g := &Game{ID: gameID, Engine: eng}
	c.games[gameID] = g
	log.Info("新对局创建: game=%s seats=%d", gameID, eng.Rules.Seats)
	return g, nil
}

// GetGame 查找运行中的对局
func (c *GameContainer) GetGame(gameID string) (*Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.games[gameID]
	if !ok {
		return nil, transfer.ErrGameNotFound
	}
	return g, nil
}

// Dispatch 向对局投递指令并等待引擎处理，错误转换为 gRPC 状态
func (c *GameContainer) Dispatch(ctx context.Context, gameID string, event share.GameEvent) error {
	g, err := c.GetGame(gameID)
	if err != nil {
		return transfer.MapError(err)
	}
	result := make(chan error, 1)
	event.BindResult(result)
	g.Engine.NotifyEvent(event)

	select {
	case err := <-result:
		return transfer.MapError(err)
	case <-g.Engine.Finished():
		// 结束时事件可能已经处理完
		select {
		case err := <-result:
			return transfer.MapError(err)
		default:
			return transfer.MapError(mahjong.ErrWrongPhase)
		}
	case <-ctx.Done():
		return status.FromContextError(ctx.Err()).Err()
	}
}

// Snapshot 读取对局最新的旁观视角
func (c *GameContainer) Snapshot(ctx context.Context, gameID string) (*mahjong.TableView, error) {
	c.snapshots.Wait()
	view, err := c.snapshots.Load(ctx, gameID)
	if err != nil {
		return nil, transfer.MapError(err)
	}
	return view, nil
}

// EndGame 关闭引擎并等待记录写入
func (c *GameContainer) EndGame(gameID string) {
	c.mu.Lock()
	g, ok := c.games[gameID]
	delete(c.games, gameID)
	c.mu.Unlock()
	if !ok {
		return
	}
	g.Engine.Close()
	if g.Engine.Persister != nil {
		g.Engine.Persister.Wait()
	}
	c.snapshots.Delete(context.Background(), gameID)
}

// Close 关闭容器资源（幂等操作，可以安全地多次调用）
// 关闭顺序：1. 运行中的对局 2. 推送与快照 3. BaseContainer（数据库连接）
func (c *GameContainer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	ids := make([]string, 0, len(c.games))
	for id := range c.games {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.EndGame(id)
	}
	if c.nats != nil {
		if err := c.nats.Close(); err != nil {
			log.Warn("nats 关闭失败: %v", err)
		}
	}
	if c.snapshots != nil {
		c.snapshots.Close()
	}
	if err := c.BaseContainer.Close(); err != nil {
		log.Error("BaseContainer 关闭失败: %v", err)
		return err
	}

	log.Info("GameContainer 已关闭")
	return nil
}
