package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var GameNodeConfig GameConfiguration

type BaseConfig struct {
	ID         string `mapstructure:"id"`
	ServerType string `mapstructure:"serverType"`
}

type GameConfiguration struct {
	BaseConfig   `mapstructure:",squash"`
	DatabaseConf `mapstructure:"database"`
	LogConf      `mapstructure:"log"`
	NatsConfig   `mapstructure:"nats"`
	RuleConf     `mapstructure:"rule"`
	SnapshotConf `mapstructure:"snapshot"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
}

type NatsConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// RuleConf 对局规则，热更新只影响之后新开的对局
type RuleConf struct {
	Seats          int           `mapstructure:"seats"`
	InitialPoints  int           `mapstructure:"initialPoints"`
	UseRedFives    bool          `mapstructure:"useRedFives"`
	RoundWinds     int           `mapstructure:"roundWinds"`
	DiscardTimeout time.Duration `mapstructure:"discardTimeout"`
	CallTimeout    time.Duration `mapstructure:"callTimeout"`
	AIMinDelay     time.Duration `mapstructure:"aiMinDelay"`
	AIMaxDelay     time.Duration `mapstructure:"aiMaxDelay"`
	NextRoundDelay time.Duration `mapstructure:"nextRoundDelay"`
	AISeats        []int         `mapstructure:"aiSeats"`
}

// SnapshotConf 旁观快照在 redis 中的保留时间
type SnapshotConf struct {
	TTL time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("id", "game-1")
	v.SetDefault("serverType", "game")
	v.SetDefault("log.level", "info")
	v.SetDefault("rule.seats", 4)
	v.SetDefault("rule.initialPoints", 25000)
	v.SetDefault("rule.useRedFives", true)
	v.SetDefault("rule.roundWinds", 2)
	v.SetDefault("rule.discardTimeout", "30s")
	v.SetDefault("rule.callTimeout", "10s")
	v.SetDefault("rule.aiMinDelay", "500ms")
	v.SetDefault("rule.aiMaxDelay", "1500ms")
	v.SetDefault("rule.nextRoundDelay", "5s")
	v.SetDefault("rule.aiSeats", []int{0, 1, 2, 3})
	v.SetDefault("snapshot.ttl", "2h")
}

// Loader 持有 viper 实例，支持文件变化后重新解析
type Loader struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cur GameConfiguration
}

func NewLoader(configFile string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	l := &Loader{v: v}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cur = cfg
	return l, nil
}

func (l *Loader) decode() (GameConfiguration, error) {
	var cfg GameConfiguration
	if err := l.v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if nodeID := os.Getenv("NODE_ID"); nodeID != "" {
		cfg.ID = nodeID
	}
	if cfg.ServerType != "game" {
		return cfg, fmt.Errorf("unknown server type: %s", cfg.ServerType)
	}
	return cfg, nil
}

// Current 当前生效的配置
func (l *Loader) Current() GameConfiguration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// Watch 监听配置文件，解析成功后回调；解析失败保留旧配置并回调错误
func (l *Loader) Watch(onChange func(GameConfiguration, error)) {
	l.v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err == nil {
			l.mu.Lock()
			l.cur = cfg
			l.mu.Unlock()
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	l.v.WatchConfig()
}

// Load 读取配置到 GameNodeConfig
func Load(configFile string) (*Loader, error) {
	l, err := NewLoader(configFile)
	if err != nil {
		return nil, err
	}
	GameNodeConfig = l.Current()
	return l, nil
}
