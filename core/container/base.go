package container

import (
	"errors"
	"fmt"

	"github.com/koreyama/shogi-online-sub000/common/config"
	"github.com/koreyama/shogi-online-sub000/common/database"
	"github.com/koreyama/shogi-online-sub000/common/log"
)

// BaseContainer 基础容器，管理共享的数据库连接
// 未配置的数据库保持为 nil，对应功能在上层关闭
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

func mongoConfigured(conf config.MongoConf) bool {
	return conf.Url != ""
}

func redisConfigured(conf config.RedisConf) bool {
	return conf.Addr != "" || conf.Host != "" || len(conf.ClusterAddrs) > 0
}

// NewBase 创建基础容器并初始化已配置的依赖
func NewBase(conf config.DatabaseConf) (*BaseContainer, error) {
	c := &BaseContainer{}
	if mongoConfigured(conf.MongoConf) {
		mongo, err := database.NewMongo(conf.MongoConf)
		if err != nil {
			return nil, err
		}
		c.mongo = mongo
		log.Info("mongodb 连接成功, db=%s", conf.MongoConf.Db)
	}
	if redisConfigured(conf.RedisConf) {
		redis, err := database.NewRedis(conf.RedisConf)
		if err != nil {
			_ = c.mongo.Close()
			return nil, err
		}
		c.redis = redis
		log.Info("redis 连接成功")
	}
	return c, nil
}

// GetMongo 获取 Mongo 管理器
func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

// GetRedis 获取 Redis 管理器
func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var errs []error
	if err := c.mongo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("mongo 关闭失败: %w", err))
	}
	if err := c.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis 关闭失败: %w", err))
	}
	return errors.Join(errs...)
}
