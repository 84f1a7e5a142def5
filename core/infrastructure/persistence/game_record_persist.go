package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/koreyama/shogi-online-sub000/common/database"
	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/core/domain/entity"
	"github.com/koreyama/shogi-online-sub000/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameRecordCollection  = "game_records"
	roundRecordCollection = "round_records"
)

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", repository.ErrStorage, op, err)
}

// SaveGameRecord 保存游戏记录（元数据），同一条记录重复保存时整体替换
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts); err != nil {
		log.Error("保存游戏记录失败: %v", err)
		return storageErr("save game record", err)
	}
	return nil
}

// FindGameRecord 根据ID查找游戏记录
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error) {
	return r.findOne(ctx, bson.M{"_id": recordID})
}

// FindGameRecordByGameID 根据对局ID查找游戏记录
func (r *GameRecordRepository) FindGameRecordByGameID(ctx context.Context, gameID string) (*entity.GameRecord, error) {
	return r.findOne(ctx, bson.M{"game_id": gameID})
}

func (r *GameRecordRepository) findOne(ctx context.Context, filter bson.M) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	var record entity.GameRecord
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询游戏记录失败: %v", err)
		return nil, storageErr("find game record", err)
	}
	return &record, nil
}

// FindGameRecordsByUser 查找用户参与的游戏记录（分页）
func (r *GameRecordRepository) FindGameRecordsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(gameRecordCollection)

	filter := bson.M{"players.user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询用户游戏记录失败: %v", err)
		return nil, storageErr("find user game records", err)
	}
	defer cursor.Close(ctx)

	var records []*entity.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析游戏记录失败: %v", err)
		return nil, storageErr("decode game records", err)
	}
	return records, nil
}

// SaveRoundRecords 批量保存局记录（每个小场一个文档）
func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	docs := make([]any, 0, len(rounds))
	for _, round := range rounds {
		if round != nil {
			docs = append(docs, round)
		}
	}
	if len(docs) == 0 {
		return nil
	}

	collection := r.mongo.Db.Collection(roundRecordCollection)
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return storageErr("save round records", err)
	}

	log.Info("批量保存局记录成功: count=%d", len(docs))
	return nil
}

// FindRoundRecords 查找游戏的所有局记录
func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(roundRecordCollection)

	filter := bson.M{"game_record_id": gameRecordID}
	opts := options.Find().SetSort(bson.M{"start_time": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, storageErr("find round records", err)
	}
	defer cursor.Close(ctx)

	var result []*entity.RoundRecord
	if err := cursor.All(ctx, &result); err != nil {
		return nil, storageErr("decode round records", err)
	}
	return result, nil
}
