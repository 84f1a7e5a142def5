package container

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/config"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/message/transfer"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"
	"github.com/koreyama/shogi-online-sub000/runtime/game/share"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func expectCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if st, _ := status.FromError(err); st.Code() != want {
		t.Fatalf("err = %v, want code %v", err, want)
	}
}

func localConfig() config.GameConfiguration {
	return config.GameConfiguration{
		BaseConfig: config.BaseConfig{ID: "game-test", ServerType: "game"},
		RuleConf: config.RuleConf{
			Seats:          4,
			InitialPoints:  25000,
			UseRedFives:    true,
			RoundWinds:     1,
			DiscardTimeout: time.Second,
			CallTimeout:    time.Second,
			AISeats:        []int{1, 2, 3},
		},
		SnapshotConf: config.SnapshotConf{TTL: time.Minute},
	}
}

func TestRulesFromConfig(t *testing.T) {
	rules := RulesFromConfig(localConfig().RuleConf)
	if rules.Seats != 4 || rules.RoundWinds != 1 || rules.InitialPoints != 25000 || !rules.UseRedFives {
		t.Fatalf("rules = %+v", rules)
	}
	if err := rules.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewGameContainer_RejectsBadRules(t *testing.T) {
	cfg := localConfig()
	cfg.RuleConf.Seats = 5
	if _, err := NewGameContainer(cfg, 1); err == nil {
		t.Fatalf("expected error for 5 seats")
	}
}

func TestGameContainer_NewGameSeatsAndLookup(t *testing.T) {
	c, err := NewGameContainer(localConfig(), 7, mahjong.NopPusher{})
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	g, err := c.NewGame()
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.ID == "" {
		t.Fatalf("empty game id")
	}
	if len(g.Engine.Players) != 4 {
		t.Fatalf("players = %d", len(g.Engine.Players))
	}
	if g.Engine.Players[0].IsAI {
		t.Fatalf("seat 0 should be human")
	}
	for seat := 1; seat < 4; seat++ {
		if !g.Engine.Players[seat].IsAI {
			t.Fatalf("seat %d should be AI", seat)
		}
	}

	got, err := c.GetGame(g.ID)
	if err != nil || got != g {
		t.Fatalf("GetGame = %v, %v", got, err)
	}
	if _, err := c.GetGame("missing"); !errors.Is(err, transfer.ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}

	c.EndGame(g.ID)
	select {
	case <-g.Engine.Finished():
	case <-time.After(time.Second):
		t.Fatalf("engine not finished after EndGame")
	}
	if _, err := c.GetGame(g.ID); !errors.Is(err, transfer.ErrGameNotFound) {
		t.Fatalf("game still registered after EndGame")
	}
}

func TestGameContainer_UpdateRulesAffectsNewGames(t *testing.T) {
	c, err := NewGameContainer(localConfig(), 1)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	conf := localConfig().RuleConf
	conf.Seats = 3
	conf.AISeats = []int{0, 1, 2}
	if err := c.UpdateRules(conf); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Rules().Seats != 3 {
		t.Fatalf("rules not updated")
	}
	g, err := c.NewGame()
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if len(g.Engine.Players) != 3 {
		t.Fatalf("players = %d, want 3", len(g.Engine.Players))
	}

	conf.RoundWinds = 0
	if err := c.UpdateRules(conf); err == nil {
		t.Fatalf("invalid rules accepted")
	}
	if c.Rules().RoundWinds != 1 {
		t.Fatalf("invalid update leaked into rules")
	}
}

func TestGameContainer_CloseIdempotent(t *testing.T) {
	c, err := NewGameContainer(localConfig(), 1)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, err := c.NewGame(); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := c.NewGame(); err == nil {
		t.Fatalf("NewGame after close should fail")
	}
}

func TestGameContainer_DispatchAndSnapshot(t *testing.T) {
	c, err := NewGameContainer(localConfig(), 3)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	expectCode(t, c.Dispatch(ctx, "missing", &share.StartGameEvent{}), codes.NotFound)
	if _, err := c.Snapshot(ctx, "missing"); err == nil {
		t.Fatalf("snapshot of a missing game")
	} else {
		expectCode(t, err, codes.NotFound)
	}

	g, err := c.NewGame()
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := c.Dispatch(ctx, g.ID, &share.StartGameEvent{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	expectCode(t, c.Dispatch(ctx, g.ID, &share.StartGameEvent{}), codes.FailedPrecondition)

	// 庄家（真人座位 0）打出不在手里的牌
	drop := &share.DropTileEvent{GameMessageEvent: share.GameMessageEvent{Seat: 0}, TileID: 999}
	expectCode(t, c.Dispatch(ctx, g.ID, drop), codes.InvalidArgument)
	// 电脑座位抢先出牌
	drop = &share.DropTileEvent{GameMessageEvent: share.GameMessageEvent{Seat: 2}, TileID: 0}
	expectCode(t, c.Dispatch(ctx, g.ID, drop), codes.FailedPrecondition)

	view, err := c.Snapshot(ctx, g.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Viewer != mahjong.SpectatorView || len(view.Seats) != 4 {
		t.Fatalf("snapshot view = %+v", view)
	}
	for _, s := range view.Seats {
		if s.Hand != nil {
			t.Fatalf("spectator snapshot leaks seat %d hand", s.SeatIndex)
		}
	}

	c.EndGame(g.ID)
	expectCode(t, c.Dispatch(ctx, g.ID, &share.PassEvent{}), codes.NotFound)
}
