package transfer

import (
	"errors"

	"github.com/koreyama/shogi-online-sub000/core/domain/repository"
	"github.com/koreyama/shogi-online-sub000/core/infrastructure/cache"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrArgument     = errors.New("argument error")
)

// MapError 把引擎与存储层的错误映射为 gRPC 状态码，细分错误在前
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrGameNotFound), errors.Is(err, repository.ErrGameRecordNotFound),
		errors.Is(err, cache.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrArgument), errors.Is(err, mahjong.ErrInvalidTile):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, mahjong.ErrInsufficientPoints):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, mahjong.ErrNotYourTurn), errors.Is(err, mahjong.ErrRuleViolation):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, repository.ErrStorage):
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
