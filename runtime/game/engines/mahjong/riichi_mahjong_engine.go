package mahjong

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

const (
	DefaultInitialPoint = 25000 // 默认初始点数
	riichiCost          = 1000
	eventQueueSize      = 256
)

/*
	状态机：
		发牌后进入 WaitMain（当前玩家：出牌、立直、暗杠、加杠、自摸）
		出牌后若有人可以鸣牌/荣和进入 WaitReactions，否则下家摸牌
		反应阶段按 荣和 > 碰/杠 > 吃，同级按距离出牌者的座位远近裁决
		和牌或荒牌后进入 RoundOver，满足终局条件进入 GameOver

	倒计时与电脑思考都通过 TurnManager.Schedule 登记，回调只负责把事件投递回事件循环，
	事件携带登记时的代数，过期的事件直接丢弃

	每次状态变化后校验 136 张牌守恒，校验失败中止本局
*/

// Rules 对局规则
type Rules struct {
	Seats          int           // 3 或 4
	InitialPoints  int           // 初始点数
	UseRedFives    bool          // 是否使用赤牌
	RoundWinds     int           // 1 东风战，2 东南战
	DiscardTimeout time.Duration // 出牌超时，0 不限
	CallTimeout    time.Duration // 鸣牌反应超时，0 不限
	AIMinDelay     time.Duration
	AIMaxDelay     time.Duration
	NextRoundDelay time.Duration // 结算后自动开始下一局，0 表示等待 NextRoundEvent
}

func DefaultRules() Rules {
	return Rules{
		Seats:          4,
		InitialPoints:  DefaultInitialPoint,
		UseRedFives:    true,
		RoundWinds:     2,
		DiscardTimeout: 30 * time.Second,
		CallTimeout:    10 * time.Second,
		AIMinDelay:     500 * time.Millisecond,
		AIMaxDelay:     1500 * time.Millisecond,
		NextRoundDelay: 5 * time.Second,
	}
}

func (r Rules) Validate() error {
	if r.Seats != 3 && r.Seats != 4 {
		return fmt.Errorf("座位数只支持 3 或 4: %d", r.Seats)
	}
	if r.InitialPoints <= 0 {
		return fmt.Errorf("初始点数必须为正: %d", r.InitialPoints)
	}
	if r.RoundWinds < 1 || r.RoundWinds > 4 {
		return fmt.Errorf("场风数必须在 1-4: %d", r.RoundWinds)
	}
	if r.AIMaxDelay < r.AIMinDelay {
		return fmt.Errorf("aiMaxDelay 小于 aiMinDelay")
	}
	return nil
}

type LastDiscard struct {
	Seat   int
	Tile   Tile
	Valid  bool
	Riichi bool // 立直宣言牌
}

// pendingKakan 加杠等待抢杠裁决
type pendingKakan struct {
	Seat int
	Tile Tile
}

// RoundResult 一局的结算
type RoundResult struct {
	EndKind           string       `json:"endKind"`
	Winner            int          `json:"winner"`
	Loser             int          `json:"loser"`
	WinTile           *Tile        `json:"winTile,omitempty"`
	Yakus             []YakuResult `json:"yakus,omitempty"`
	Score             *ScoreResult `json:"score,omitempty"`
	Summary           string       `json:"summary,omitempty"`
	Delta             []int        `json:"delta"`
	TenpaiSeats       []int        `json:"tenpaiSeats,omitempty"`
	UraDoraIndicators []Tile       `json:"uraDoraIndicators,omitempty"`
	WinnerHand        []Tile       `json:"winnerHand,omitempty"`
	WinnerMelds       []Meld       `json:"winnerMelds,omitempty"`
	Reason            string       `json:"reason,omitempty"`
	riichiWin         bool
}

type Option func(eg *RiichiMahjong)

func WithScheduler(s Scheduler) Option {
	return func(eg *RiichiMahjong) { eg.scheduler = s }
}

func WithRand(rng *rand.Rand) Option {
	return func(eg *RiichiMahjong) { eg.rng = rng }
}

func WithPusher(p Pusher) Option {
	return func(eg *RiichiMahjong) { eg.pusher = p }
}

func WithRecorder(factory PersisterFactory) Option {
	return func(eg *RiichiMahjong) { eg.persisterFactory = factory }
}

// RiichiMahjong 日麻引擎，3/4 人
type RiichiMahjong struct {
	State       engines.GameState
	GameID      string
	Rules       Rules
	Situation   *Situation     // 游戏局面信息
	Players     []*PlayerImage // 座位索引 -> 玩家游戏状态
	DeckManager *DeckManager   // 牌库管理（含王牌、宝牌指示牌）
	TurnManager *TurnManager   // 回合管理
	Searcher    *Searcher
	Persister   *GamePersister // 持久化组件

	// 反应阶段管理
	Reactions map[int]*PlayerReaction // 玩家座位 → 反应信息

	lastDiscard    LastDiscard
	pendingKakan   *pendingKakan
	rinshanDraw    bool  // 当前手牌来自岭上
	uninterrupted  bool  // 本局尚无人鸣牌（天和、地和、两立直）
	drawCount      []int // 本局各家摸牌次数
	windsCompleted int
	lastResult     *RoundResult

	persisterFactory PersisterFactory
	pusher           Pusher
	scheduler        Scheduler
	rng              *rand.Rand

	gameEvents chan share.GameEvent
	gameDone   chan struct{}
	actorExit  chan struct{}
	finished   chan struct{}
	closed     atomic.Bool // 接收游戏事件的关闭开关
	looping    atomic.Bool // 事件循环已启动，关闭时需等待其退出
	closeOnce  sync.Once
	finishOnce sync.Once
}

// NewRiichiMahjong 创建引擎原型
func NewRiichiMahjong(rules Rules, opts ...Option) *RiichiMahjong {
	eg := &RiichiMahjong{
		State: engines.GameWaiting,
		Rules: rules,
		Situation: &Situation{
			DealerIndex:  0,
			Honba:        0,
			RoundWind:    WindEast,
			RoundNumber:  1,
			RiichiSticks: 0,
		},
		Reactions: make(map[int]*PlayerReaction),
	}
	for _, opt := range opts {
		opt(eg)
	}
	return eg
}

// Clone 克隆引擎实例（用于原型模式）
func (eg *RiichiMahjong) Clone() engines.Engine {
	return &RiichiMahjong{
		State:            engines.GameWaiting,
		Rules:            eg.Rules,
		Situation:        &Situation{RoundWind: WindEast, RoundNumber: 1},
		Reactions:        make(map[int]*PlayerReaction),
		persisterFactory: eg.persisterFactory,
		pusher:           eg.pusher,
		scheduler:        eg.scheduler,
	}
}

// CloneWith 克隆后追加选项，用于给每局单独指定随机源等
func (eg *RiichiMahjong) CloneWith(opts ...Option) *RiichiMahjong {
	clone := eg.Clone().(*RiichiMahjong)
	for _, opt := range opts {
		opt(clone)
	}
	return clone
}

// Setup 入座与初始化组件，不启动事件循环
func (eg *RiichiMahjong) Setup(gameID string, users []*share.UserInfo) error {
	if err := eg.Rules.Validate(); err != nil {
		return err
	}
	if len(users) != eg.Rules.Seats {
		return fmt.Errorf("玩家数 %d 与座位数 %d 不一致", len(users), eg.Rules.Seats)
	}
	eg.GameID = gameID
	if eg.rng == nil {
		eg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if eg.pusher == nil {
		eg.pusher = NopPusher{}
	}

	eg.Players = make([]*PlayerImage, eg.Rules.Seats)
	for _, u := range users {
		if u.SeatIndex < 0 || u.SeatIndex >= eg.Rules.Seats || eg.Players[u.SeatIndex] != nil {
			return fmt.Errorf("座位索引非法或重复: %d", u.SeatIndex)
		}
		p := NewPlayerImage(u.UserID, u.SeatIndex, eg.Rules.InitialPoints)
		p.IsAI = u.IsAI
		eg.Players[u.SeatIndex] = p
	}

	eg.DeckManager = NewDeckManager(eg.Rules.UseRedFives, eg.rng)
	eg.TurnManager = NewTurnManager(eg.Rules.Seats, eg.scheduler)
	eg.Searcher = defaultSearcher
	eg.drawCount = make([]int, eg.Rules.Seats)

	if eg.persisterFactory != nil {
		eg.Persister = eg.persisterFactory(gameID, eg.Rules.Seats, users)
	}

	eg.closed.Store(false)
	eg.looping.Store(false)
	eg.gameEvents = make(chan share.GameEvent, eventQueueSize)
	eg.gameDone = make(chan struct{})
	eg.actorExit = make(chan struct{})
	eg.finished = make(chan struct{})
	eg.State = engines.GameWaiting
	return nil
}

// InitializeEngine 初始化游戏引擎并启动事件循环
func (eg *RiichiMahjong) InitializeEngine(gameID string, users []*share.UserInfo) error {
	if err := eg.Setup(gameID, users); err != nil {
		return err
	}
	eg.looping.Store(true)
	go eg.actorLoop()
	return nil
}

// actorLoop 游戏事件循环
func (eg *RiichiMahjong) actorLoop() {
	defer close(eg.actorExit)
	for {
		select {
		case <-eg.gameDone:
			return
		case event := <-eg.gameEvents:
			_ = eg.Execute(event)
		}
	}
}

func (eg *RiichiMahjong) NotifyEvent(event share.GameEvent) {
	if event == nil {
		return
	}
	if eg.closed.Load() {
		return
	}

	select {
	case <-eg.gameDone:
		return
	case eg.gameEvents <- event:
		return
	default:
		log.Warn("gameEvents 队列已满, eventType=%s", event.GetEventType())
		return
	}
}

// Finished 游戏结束、中止或引擎关闭时关闭
func (eg *RiichiMahjong) Finished() <-chan struct{} {
	return eg.finished
}

// Close 释放引擎内部资源
// 先停止事件循环并等待其退出，定时任务只由事件循环所在的协程登记，此后再统一取消
// 不能在事件循环内部调用
func (eg *RiichiMahjong) Close() {
	eg.closeOnce.Do(func() {
		eg.closed.Store(true)
		if eg.gameDone != nil {
			close(eg.gameDone)
		}
		if eg.looping.Load() {
			<-eg.actorExit
		}
		if eg.TurnManager != nil {
			eg.TurnManager.stopAllTimers()
		}
		eg.finish()
	})
}

func (eg *RiichiMahjong) finish() {
	eg.finishOnce.Do(func() {
		if eg.finished != nil {
			close(eg.finished)
		}
	})
}

// Execute 同步处理一个事件并回写结果，只能在事件循环中调用
func (eg *RiichiMahjong) Execute(event share.GameEvent) error {
	if event == nil {
		return nil
	}
	err := eg.processEvent(event)
	event.Reply(err)
	return err
}

func (eg *RiichiMahjong) processEvent(event share.GameEvent) error {
	eventType := event.GetEventType()
	log.Debug("处理游戏事件: %s seat=%d", eventType, event.GetSeat())

	var err error
	switch e := event.(type) {
	case *share.StartGameEvent:
		err = eg.handleStartGameEvent()
	case *share.DropTileEvent:
		err = eg.handleDropTileEvent(e)
	case *share.RiichiEvent:
		err = eg.handleRiichiEvent(e)
	case *share.AnkanEvent:
		err = eg.handleAnkanEvent(e)
	case *share.KakanEvent:
		err = eg.handleKakanEvent(e)
	case *share.TouchHuEvent:
		err = eg.handleTouchHuEvent(e)
	case *share.PengTileEvent:
		err = eg.handleReaction(e.GetSeat(), OpPon, e.TileIDs)
	case *share.GangEvent:
		err = eg.handleReaction(e.GetSeat(), OpKan, nil)
	case *share.ChiEvent:
		err = eg.handleReaction(e.GetSeat(), OpChi, e.TileIDs)
	case *share.RongHuEvent:
		err = eg.handleReaction(e.GetSeat(), OpRon, nil)
	case *share.PassEvent:
		err = eg.handleReaction(e.GetSeat(), OpPass, nil)
	case *share.NextRoundEvent:
		err = eg.handleNextRoundEvent()
	case *TimeoutEvent:
		err = eg.handleTimeoutEvent(e)
	case *AIActionEvent:
		err = eg.handleAIActionEvent(e)
	default:
		log.Warn("不支持的事件类型: %s", eventType)
		return fmt.Errorf("%w: unsupported event %s", ErrRuleViolation, eventType)
	}

	if errors.Is(err, errStaleEvent) {
		log.Debug("丢弃过期事件: %s", eventType)
		return nil
	}
	if err != nil {
		if errors.Is(err, ErrEngineFault) {
			// 处理中途失败，局面已不可信，直接中止
			log.Error("事件处理失败: %s seat=%d err=%v", eventType, event.GetSeat(), err)
			eg.HappenDamageError(err.Error())
			eg.pushViews()
		} else {
			log.Warn("拒绝玩家操作: %s seat=%d err=%v", eventType, event.GetSeat(), err)
		}
		return err
	}

	if cerr := eg.checkTileConservation(); cerr != nil {
		eg.HappenDamageError(cerr.Error())
		eg.pushViews()
		return cerr
	}
	eg.pushViews()
	return nil
}

func (eg *RiichiMahjong) handleStartGameEvent() error {
	if eg.State != engines.GameWaiting {
		return ErrWrongPhase
	}
	eg.State = engines.GameInProgress
	*eg.Situation = Situation{DealerIndex: 0, RoundWind: WindEast, RoundNumber: 1}
	eg.windsCompleted = 0
	for _, p := range eg.Players {
		p.Points = eg.Rules.InitialPoints
	}
	log.Info("游戏开始: game=%s seats=%d", eg.GameID, eg.Rules.Seats)
	return eg.startRound()
}

func (eg *RiichiMahjong) handleNextRoundEvent() error {
	if eg.TurnManager.GetState() != TurnStateRoundOver {
		return ErrWrongPhase
	}
	return eg.startRound()
}

func (eg *RiichiMahjong) startRound() error {
	log.Info("新的一局游戏开始：%s%d局 %d本场 庄家=%d",
		eg.Situation.RoundWind, eg.Situation.RoundNumber, eg.Situation.Honba, eg.Situation.DealerIndex)

	eg.DeckManager.InitRound()
	eg.DeckManager.RevealDoraIndicator()

	eg.Reactions = make(map[int]*PlayerReaction)
	eg.lastDiscard = LastDiscard{}
	eg.pendingKakan = nil
	eg.rinshanDraw = false
	eg.uninterrupted = true
	eg.lastResult = nil
	for i := range eg.drawCount {
		eg.drawCount[i] = 0
	}

	if err := eg.distributeCard(); err != nil {
		return err
	}

	// 记录回合开始
	if eg.Persister != nil {
		eg.Persister.StartRound(
			eg.Situation.RoundNumber,
			eg.Situation.RoundWind.String(),
			eg.Situation.DealerIndex,
			eg.Situation.Honba,
			eg.DeckManager.DoraIndicators(),
		)
	}

	return eg.DropTurn(eg.Situation.DealerIndex, false)
}

// distributeCard 从庄家开始每人 13 张
func (eg *RiichiMahjong) distributeCard() error {
	n := eg.Rules.Seats
	for _, p := range eg.Players {
		p.ResetForRound()
	}
	for k := 0; k < n; k++ {
		p := eg.Players[(eg.Situation.DealerIndex+k)%n]
		for r := 0; r < 13; r++ {
			t, ok := eg.DeckManager.Draw()
			if !ok {
				return fmt.Errorf("%w: 发牌失败: 牌山不足", ErrEngineFault)
			}
			p.AddTile(t)
		}
	}
	return nil
}

// DropTurn 摸牌并进入打牌回合，牌山摸完则荒牌流局
func (eg *RiichiMahjong) DropTurn(seatIndex int, rinshan bool) error {
	var (
		t  Tile
		ok bool
	)
	if rinshan {
		t, ok = eg.DeckManager.DrawReplacement()
		if !ok {
			return fmt.Errorf("%w: 岭上牌不足", ErrEngineFault)
		}
	} else {
		t, ok = eg.DeckManager.Draw()
		if !ok {
			return eg.LeadNormalDrawEnding()
		}
	}

	p := eg.Players[seatIndex]
	p.DrawTile(t)
	eg.drawCount[seatIndex]++
	eg.rinshanDraw = rinshan
	if eg.Persister != nil {
		eg.Persister.RecordDrawTile(seatIndex, t, rinshan)
	}
	return eg.enterDropPhase(seatIndex)
}

func (eg *RiichiMahjong) enterDropPhase(seatIndex int) error {
	if err := eg.TurnManager.EnterDropPhase(seatIndex); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineFault, err)
	}
	if eg.Rules.DiscardTimeout > 0 {
		eg.TurnManager.Schedule(eg.Rules.DiscardTimeout, eg.onTimeout)
	}
	if eg.Players[seatIndex].IsAI {
		eg.scheduleAI(seatIndex)
	}
	return nil
}

func (eg *RiichiMahjong) enterReactingPhase() {
	eg.TurnManager.EnterReactingPhase()
	if eg.Rules.CallTimeout > 0 {
		eg.TurnManager.Schedule(eg.Rules.CallTimeout, eg.onTimeout)
	}
	for seat := range eg.Reactions {
		if eg.Players[seat].IsAI {
			eg.scheduleAI(seat)
		}
	}
}

func (eg *RiichiMahjong) onTimeout(gen uint64) {
	eg.NotifyEvent(&TimeoutEvent{GameMessageEvent: share.GameMessageEvent{Seat: -1}, Generation: gen})
}

func (eg *RiichiMahjong) scheduleAI(seat int) {
	delay := eg.Rules.AIMinDelay
	if spread := eg.Rules.AIMaxDelay - eg.Rules.AIMinDelay; spread > 0 {
		delay += time.Duration(eg.rng.Int63n(int64(spread)))
	}
	eg.TurnManager.Schedule(delay, func(gen uint64) {
		eg.NotifyEvent(&AIActionEvent{GameMessageEvent: share.GameMessageEvent{Seat: seat}, Generation: gen})
	})
}

func (eg *RiichiMahjong) seatWind(seat int) Wind {
	n := eg.Rules.Seats
	return Wind((seat - eg.Situation.DealerIndex + n) % n)
}

func (eg *RiichiMahjong) totalKans() int {
	n := 0
	for _, p := range eg.Players {
		n += p.KanCount()
	}
	return n
}

// breakIppatsu 任何鸣牌（含暗杠）使所有人的一发失效
func (eg *RiichiMahjong) breakIppatsu() {
	for _, p := range eg.Players {
		p.IsIppatsu = false
	}
}

// checkTileConservation 手牌+副露+牌河+牌山+王牌 = 136，且每张牌只出现一次
func (eg *RiichiMahjong) checkTileConservation() error {
	if eg.DeckManager == nil || eg.TurnManager.GetState() == TurnStateIdle {
		return nil
	}
	var seen [TileLimit]bool
	count := 0
	mark := func(tiles []Tile) bool {
		for _, t := range tiles {
			if t.ID < 0 || t.ID >= TileLimit || seen[t.ID] {
				return false
			}
			seen[t.ID] = true
			count++
		}
		return true
	}
	for _, p := range eg.Players {
		if !mark(p.Tiles) || !mark(p.DiscardPile) {
			return fmt.Errorf("%w: seat %d", ErrTileConservation, p.SeatIndex)
		}
		for _, m := range p.Melds {
			if !mark(m.Tiles) {
				return fmt.Errorf("%w: seat %d meld", ErrTileConservation, p.SeatIndex)
			}
		}
	}
	dm := eg.DeckManager
	w := dm.Wang()
	if !mark(dm.wall[dm.wallIndex:]) || !mark(w.DeadWall) || !mark(w.DoraIndicators) || !mark(w.UraDoraIndicators) {
		return fmt.Errorf("%w: wall", ErrTileConservation)
	}
	if count != TileLimit {
		return fmt.Errorf("%w: counted %d", ErrTileConservation, count)
	}
	return nil
}

// HappenDamageError 引擎内部异常，中止本局
func (eg *RiichiMahjong) HappenDamageError(reason string) {
	log.Error("引擎异常，中止本局: game=%s reason=%s", eg.GameID, reason)
	eg.Reactions = make(map[int]*PlayerReaction)
	eg.pendingKakan = nil
	eg.lastResult = &RoundResult{
		EndKind: RoundEndAborted,
		Winner:  -1,
		Loser:   -1,
		Delta:   make([]int, eg.Rules.Seats),
		Reason:  reason,
	}
	if eg.Persister != nil {
		eg.Persister.AbortRound(reason)
	}
	eg.TurnManager.EnterAborted()
	eg.State = engines.GameFinished
	eg.finish()
}
