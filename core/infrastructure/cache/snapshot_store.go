package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/koreyama/shogi-online-sub000/common/cache"
	"github.com/koreyama/shogi-online-sub000/common/database"
	"github.com/koreyama/shogi-online-sub000/common/log"
	"github.com/koreyama/shogi-online-sub000/runtime/game/engines/mahjong"

	"github.com/redis/go-redis/v9"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const writeTimeout = 3 * time.Second

func snapshotKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}

// SnapshotStore 保存每局最新的旁观视角
// 本地 ristretto 缓存在前，redis 在后，redis 为空时只用本地缓存
type SnapshotStore struct {
	local *cache.GeneralCache
	redis *database.RedisManager
	ttl   time.Duration
}

func NewSnapshotStore(redisManager *database.RedisManager, ttl time.Duration) (*SnapshotStore, error) {
	local, err := cache.NewGeneralCache(1<<12, ttl) // 每个条目成本记为 1，最多保留 4096 局
	if err != nil {
		return nil, fmt.Errorf("创建快照缓存失败: %w", err)
	}
	return &SnapshotStore{local: local, redis: redisManager, ttl: ttl}, nil
}

// Push 只记录旁观视角，座位视角包含手牌不做保存
func (s *SnapshotStore) Push(gameID string, viewer int, view *mahjong.TableView) error {
	if viewer != mahjong.SpectatorView {
		return nil
	}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}
	key := snapshotKey(gameID)
	s.local.Set(key, data)

	if s.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.redis.Set(ctx, key, string(data), s.ttl); err != nil {
		return fmt.Errorf("写入 redis 快照失败: %w", err)
	}
	return nil
}

// Load 读取某局最新的旁观视角
func (s *SnapshotStore) Load(ctx context.Context, gameID string) (*mahjong.TableView, error) {
	key := snapshotKey(gameID)
	var data []byte
	if v, ok := s.local.Get(key); ok {
		data, _ = v.([]byte)
	}
	if data == nil && s.redis != nil {
		raw, err := s.redis.Get(ctx, key)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrSnapshotNotFound
			}
			return nil, fmt.Errorf("读取 redis 快照失败: %w", err)
		}
		data = []byte(raw)
		s.local.Set(key, data)
	}
	if data == nil {
		return nil, ErrSnapshotNotFound
	}

	var view mahjong.TableView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return &view, nil
}

// Delete 对局结束后清理快照
func (s *SnapshotStore) Delete(ctx context.Context, gameID string) {
	key := snapshotKey(gameID)
	s.local.Delete(key)
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, key); err != nil {
		log.Warn("删除 redis 快照失败: game=%s err=%v", gameID, err)
	}
}

// Wait 等待本地缓存写入生效
func (s *SnapshotStore) Wait() {
	s.local.Wait()
}

func (s *SnapshotStore) Close() {
	s.local.Close()
}
