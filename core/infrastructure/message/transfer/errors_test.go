package transfer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/koreyama/shogi-online-sub000/core/domain/repository"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/cache"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not your turn", mahjong.ErrNotYourTurn, codes.FailedPrecondition},
		{"wrong phase", mahjong.ErrWrongPhase, codes.FailedPrecondition},
		{"furiten", mahjong.ErrFuriten, codes.FailedPrecondition},
		{"wrapped no yaku", fmt.Errorf("seat 2: %w", mahjong.ErrNoYaku), codes.FailedPrecondition},
		{"points", mahjong.ErrInsufficientPoints, codes.PermissionDenied},
		{"invalid tile", mahjong.ErrInvalidTile, codes.InvalidArgument},
		{"engine fault", mahjong.ErrTileConservation, codes.Internal},
		{"record missing", repository.ErrGameRecordNotFound, codes.NotFound},
		{"game missing", ErrGameNotFound, codes.NotFound},
		{"snapshot missing", cache.ErrSnapshotNotFound, codes.NotFound},
		{"storage", fmt.Errorf("%w: timeout", repository.ErrStorage), codes.Unavailable},
		{"unknown", errors.New("boom"), codes.Internal},
	}
	for _, c := range cases {
		st, ok := status.FromError(MapError(c.err))
		if !ok {
			t.Fatalf("%s: not a status error", c.name)
		}
		if st.Code() != c.want {
			t.Fatalf("%s: code = %v, want %v", c.name, st.Code(), c.want)
		}
	}
	if MapError(nil) != nil {
		t.Fatalf("nil error must map to nil")
	}
}
