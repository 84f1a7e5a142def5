package mahjong

import (
	"testing"
	"time"

	"github.com/koreyama/shogi-online-sub000/runtime/game/share"
)

// tileSpec 解析 "234m567p55s1z" 记法得到的一张牌，0 表示赤 5
type tileSpec struct {
	Type TileType
	Red  bool
}

func parseSpecs(t testing.TB, s string) []tileSpec {
	t.Helper()
	var out []tileSpec
	var digits []int
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == 'm' || r == 'p' || r == 's' || r == 'z':
			base := map[rune]TileType{'m': Man1, 'p': Pin1, 's': So1, 'z': East}[r]
			for _, d := range digits {
				red := d == 0
				if red {
					if r == 'z' {
						t.Fatalf("red honor in %q", s)
					}
					d = 5
				}
				if r == 'z' && d > 7 {
					t.Fatalf("bad honor %d in %q", d, s)
				}
				out = append(out, tileSpec{Type: base + TileType(d-1), Red: red})
			}
			digits = digits[:0]
		default:
			t.Fatalf("bad tile notation %q", s)
		}
	}
	if len(digits) > 0 {
		t.Fatalf("missing suit in %q", s)
	}
	return out
}

// tileSet 按记法取实体牌，同一副牌内不会重复取同一张
type tileSet struct {
	t      testing.TB
	useRed bool
	used   [TileLimit]bool
}

func newTileSet(t testing.TB, useRed bool) *tileSet {
	return &tileSet{t: t, useRed: useRed}
}

func (ts *tileSet) take(s string) []Tile {
	ts.t.Helper()
	specs := parseSpecs(ts.t, s)
	out := make([]Tile, 0, len(specs))
	for _, sp := range specs {
		id := -1
		if sp.Red {
			if !ts.useRed || ts.used[int(sp.Type)*4] {
				ts.t.Fatalf("red five %s not available", sp.Type)
			}
			id = int(sp.Type) * 4
		} else {
			for c := 0; c < 4; c++ {
				cand := int(sp.Type)*4 + c
				if c == 0 && ts.useRed && sp.Type.IsFive() {
					continue
				}
				if !ts.used[cand] {
					id = cand
					break
				}
			}
		}
		if id < 0 {
			ts.t.Fatalf("no copy of %s left (notation %q)", sp.Type, s)
		}
		ts.used[id] = true
		out = append(out, NewTile(id, ts.useRed))
	}
	return out
}

// filler 按 ID 顺序取 n 张未使用的牌
func (ts *tileSet) filler(n int) []Tile {
	out := make([]Tile, 0, n)
	for id := 0; id < TileLimit && len(out) < n; id++ {
		if ts.used[id] {
			continue
		}
		ts.used[id] = true
		out = append(out, NewTile(id, ts.useRed))
	}
	if len(out) != n {
		ts.t.Fatalf("filler short: want %d got %d", n, len(out))
	}
	return out
}

// tiles 测试用的一手牌，ID 各不相同
func tiles(t testing.TB, s string) []Tile {
	t.Helper()
	return newTileSet(t, false).take(s)
}

// layout 指定一局的牌序：hands 从庄家起每家 13 张，draws 为配牌后的摸牌顺序，
// rinshan/dora/ura 填在王牌对应位置的开头，其余位置按 ID 顺序补齐
type layout struct {
	hands   []string
	draws   string
	rinshan string
	dora    string
	ura     string
}

func (l layout) build(t testing.TB, useRed bool) []Tile {
	t.Helper()
	ts := newTileSet(t, useRed)
	wall := make([]Tile, 0, TileLimit)
	for i, h := range l.hands {
		hand := ts.take(h)
		if len(hand) != 13 {
			t.Fatalf("hand %d has %d tiles", i, len(hand))
		}
		wall = append(wall, hand...)
	}
	wall = append(wall, ts.take(l.draws)...)
	rinshan := ts.take(l.rinshan)
	dora := ts.take(l.dora)
	ura := ts.take(l.ura)
	if len(rinshan) > rinshanSize || len(dora) > maxIndicators || len(ura) > maxIndicators {
		t.Fatalf("dead wall overflow")
	}

	wallSize := TileLimit - DeadWallSize
	wall = append(wall, ts.filler(wallSize-len(wall))...)
	wall = append(wall, rinshan...)
	wall = append(wall, ts.filler(rinshanSize-len(rinshan))...)
	wall = append(wall, dora...)
	wall = append(wall, ts.filler(maxIndicators-len(dora))...)
	wall = append(wall, ura...)
	wall = append(wall, ts.filler(maxIndicators-len(ura))...)
	return wall
}

// 没有对子、搭子，也不听牌的配牌
const (
	junkA = "159m159p159s1234z"
	junkB = "159m159p19s34567z"
	junkC = "37m37p37s1234567z"
	junkD = "37m37p88s1234567z" // 只有一对 8s
	// 234m234m567p55s67s 听 5s/8s，荣和 8s 为平和、断幺、一杯口
	tenpaiHand = "234234m567p5567s"
)

type manualTask struct {
	d         time.Duration
	f         func()
	cancelled bool
}

// manualScheduler 由测试手动触发的定时器
type manualScheduler struct {
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() {
	task := &manualTask{d: d, f: f}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

func (s *manualScheduler) live() int {
	n := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			n++
		}
	}
	return n
}

// fireAll 触发所有未取消的任务并清空
func (s *manualScheduler) fireAll() int {
	tasks := s.tasks
	s.tasks = nil
	n := 0
	for _, task := range tasks {
		if task.cancelled {
			continue
		}
		task.f()
		n++
	}
	return n
}

func testRules(seats int) Rules {
	r := DefaultRules()
	r.Seats = seats
	r.UseRedFives = false
	r.DiscardTimeout = 0
	r.CallTimeout = 0
	r.AIMinDelay = 0
	r.AIMaxDelay = 0
	r.NextRoundDelay = 0
	return r
}

func testUsers(seats int, aiSeats ...int) []*share.UserInfo {
	ai := make(map[int]bool, len(aiSeats))
	for _, s := range aiSeats {
		ai[s] = true
	}
	users := make([]*share.UserInfo, seats)
	for i := range users {
		users[i] = share.NewUserInfo("user-"+string(rune('a'+i)), i, ai[i])
	}
	return users
}

// newTestEngine 只做 Setup，不启动事件循环，由测试同步调用 Execute
func newTestEngine(t *testing.T, rules Rules, users []*share.UserInfo, opts ...Option) *RiichiMahjong {
	t.Helper()
	eg := NewRiichiMahjong(rules, opts...)
	if err := eg.Setup("test-game", users); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(eg.Close)
	return eg
}

// startStacked 按指定牌序开局
func startStacked(t *testing.T, eg *RiichiMahjong, l layout) {
	t.Helper()
	if err := eg.DeckManager.Stack(l.build(t, eg.Rules.UseRedFives)); err != nil {
		t.Fatalf("stack: %v", err)
	}
	mustExec(t, eg, &share.StartGameEvent{})
}

func msg(seat int) share.GameMessageEvent {
	return share.GameMessageEvent{Seat: seat}
}

func mustExec(t *testing.T, eg *RiichiMahjong, ev share.GameEvent) {
	t.Helper()
	if err := eg.Execute(ev); err != nil {
		t.Fatalf("%s seat=%d: %v", ev.GetEventType(), ev.GetSeat(), err)
	}
}

// tsumogiri 当前玩家打出刚摸到的牌
func tsumogiri(t *testing.T, eg *RiichiMahjong) {
	t.Helper()
	seat := eg.TurnManager.GetCurrentPlayer()
	p := eg.Players[seat]
	if p.NewestTile == nil {
		t.Fatalf("seat %d has no newest tile", seat)
	}
	mustExec(t, eg, &share.DropTileEvent{GameMessageEvent: msg(seat), TileID: p.NewestTile.ID})
}

// handTile 手牌中第一张指定种类的牌
func handTile(t *testing.T, p *PlayerImage, s string) Tile {
	t.Helper()
	want := parseSpecs(t, s)[0].Type
	for _, tile := range p.Tiles {
		if tile.Type == want {
			return tile
		}
	}
	t.Fatalf("seat %d has no %s", p.SeatIndex, want)
	return Tile{}
}

func expectState(t *testing.T, eg *RiichiMahjong, want TurnState) {
	t.Helper()
	if got := eg.TurnManager.GetState(); got != want {
		t.Fatalf("turn state = %s, want %s", got, want)
	}
}

// timeoutUntil 以超时事件推进牌局直到离开 WaitMain/WaitReactions
func timeoutUntil(t *testing.T, eg *RiichiMahjong, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		switch eg.TurnManager.GetState() {
		case TurnStateWaitMain, TurnStateWaitReactions:
			mustExec(t, eg, &TimeoutEvent{Generation: eg.TurnManager.Generation()})
		default:
			return
		}
	}
	t.Fatalf("round did not finish within %d events", limit)
}

func totalPoints(eg *RiichiMahjong) int {
	sum := eg.Situation.RiichiSticks * riichiCost
	for _, p := range eg.Players {
		sum += p.Points
	}
	return sum
}
