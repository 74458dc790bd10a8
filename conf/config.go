package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、redis、kafka、行情源等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// 行级锁等待上限（秒），超时映射为可重试的争用错误
	LockWaitTimeout int `yaml:"lock-wait-timeout"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type JwtConfig struct {
	Secret                  string `yaml:"secret"`
	JwtTtl                  int64  `yaml:"ttl"`              // token 有效期（秒）
	JwtBlacklistGracePeriod int64  `yaml:"blacklistperiod" ` // 黑名单宽限时间（秒）
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
}

// MarketConfig 上游行情源配置
type MarketConfig struct {
	// 上游成交流 WebSocket 地址，如 wss://stream.binance.com/stream
	FeedURL string `yaml:"feed-url"`
	// 需要订阅的交易对，如 BTCUSDT
	Symbols []string `yaml:"symbols"`
	// 每个订阅者的通道缓冲大小
	SubscriberBuffer int `yaml:"subscriber-buffer"`
	// 是否同时订阅 redis market:prices 频道（跨进程行情接入）
	RedisIngress bool `yaml:"redis-ingress"`
}

// VenueConfig 仓位引擎相关配置
type VenueConfig struct {
	// 单个 tick 内挂单激活的批量上限
	PendingBatchSize int `yaml:"pending-batch-size"`
	// snowflake 节点id
	SnowflakeNode int64 `yaml:"snowflake-node"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Db     `yaml:"database"`
	Log    LogConfig    `yaml:"log"`
	Jwt    JwtConfig    `yaml:"jwt"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Market MarketConfig `yaml:"market"`
	Venue  VenueConfig  `yaml:"venue"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	if AppConfig.Venue.PendingBatchSize <= 0 {
		AppConfig.Venue.PendingBatchSize = 50
	}
	if AppConfig.Market.SubscriberBuffer <= 0 {
		AppConfig.Market.SubscriberBuffer = 1024
	}
	return nil
}
