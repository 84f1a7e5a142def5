package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"
)

func newLocalStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := NewSnapshotStore(nil, time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSnapshotStore_SpectatorOnly(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	if err := s.Push("g1", 0, &mahjong.TableView{GameID: "g1", Viewer: 0}); err != nil {
		t.Fatalf("push seat view: %v", err)
	}
	s.Wait()
	if _, err := s.Load(ctx, "g1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("seat view must not be stored, err = %v", err)
	}

	view := &mahjong.TableView{GameID: "g1", Viewer: mahjong.SpectatorView, WallRemaining: 70}
	if err := s.Push("g1", mahjong.SpectatorView, view); err != nil {
		t.Fatalf("push spectator view: %v", err)
	}
	s.Wait()
	got, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WallRemaining != 70 || got.Viewer != mahjong.SpectatorView {
		t.Fatalf("loaded view = %+v", got)
	}

	s.Delete(ctx, "g1")
	s.Wait()
	if _, err := s.Load(ctx, "g1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected not found after delete, err = %v", err)
	}
}

func TestSnapshotKey(t *testing.T) {
	if got := snapshotKey("abc"); got != "game:abc:snapshot" {
		t.Fatalf("key = %q", got)
	}
}
