package repository

import (
	"context"

	"github.com/koreyama/shogi-online-sub000/core/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecordRepository 游戏记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 保存游戏记录（元数据）
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// FindGameRecord 根据ID查找游戏记录
	FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error)

	// FindGameRecordByGameID 根据引擎对局ID查找游戏记录
	FindGameRecordByGameID(ctx context.Context, gameID string) (*entity.GameRecord, error)

	// FindGameRecordsByUser 查找用户参与的游戏记录（分页）
	FindGameRecordsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.GameRecord, error)

	// SaveRoundRecords 批量保存局记录（使用 MongoDB InsertMany）
	SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error

	// FindRoundRecords 查找游戏的所有局记录（按创建顺序）
	FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error)
}
