package app

import (
	"strings"
	"testing"

	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"
)

func TestScoreboard_IgnoresSeatViews(t *testing.T) {
	b := newScoreboard()
	_ = b.Push("g1", 0, &mahjong.TableView{State: "wait_main"})
	if b.latest("g1") != nil {
		t.Fatalf("seat view recorded")
	}
	if got := report(b.latest("g1")); got != "no result" {
		t.Fatalf("report = %q", got)
	}
}

func TestScoreboard_ReportRanksByPoints(t *testing.T) {
	b := newScoreboard()
	view := &mahjong.TableView{
		State: "game_over",
		Seats: []mahjong.SeatView{
			{SeatIndex: 0, UserID: "a", Points: 20000},
			{SeatIndex: 1, UserID: "b", Points: 41000},
			{SeatIndex: 2, UserID: "c", Points: 20000},
			{SeatIndex: 3, UserID: "d", Points: 19000},
		},
	}
	_ = b.Push("g1", mahjong.SpectatorView, view)
	got := report(b.latest("g1"))
	want := "[game_over] 1位 b 41000, 2位 a 20000, 3位 c 20000, 4位 d 19000"
	if got != want {
		t.Fatalf("report = %q, want %q", got, want)
	}
	b.forget("g1")
	if !strings.Contains(report(b.latest("g1")), "no result") {
		t.Fatalf("view should be forgotten")
	}
}
