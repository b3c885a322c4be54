// Package config 加载应用配置：默认值 → YAML 文件 → ORDERING_* 环境变量
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ordering/errors"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "ORDERING_"

// 存储驱动
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// 外部事件发布方式
const (
	PublisherLog   = "log"
	PublisherSync  = "sync"
	PublisherNATS  = "nats"
	PublisherRedis = "redis"
)

// Config 应用配置
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// StorageConfig 仓储配置
type StorageConfig struct {
	Driver    string        `yaml:"driver"`
	DSN       string        `yaml:"dsn"`
	CacheSize int           `yaml:"cache_size"` // 0 表示不启用读缓存
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// EventsConfig 事件分发配置
type EventsConfig struct {
	Publisher string            `yaml:"publisher"`
	Topics    map[string]string `yaml:"topics"` // 事件类型 → 主题，追加到默认映射
	NATS      NATSConfig        `yaml:"nats"`
	Redis     RedisConfig       `yaml:"redis"`
	Retry     RetryConfig       `yaml:"retry"`
}

// NATSConfig JetStream 配置
type NATSConfig struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// RedisConfig Redis Streams 配置
type RedisConfig struct {
	Addr         string `yaml:"addr"`
	StreamPrefix string `yaml:"stream_prefix"`
}

// RetryConfig 发布重试配置
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default 默认配置：内存存储，事件写日志
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Driver: StorageMemory, CacheSize: 0, CacheTTL: 5 * time.Minute},
		Events: EventsConfig{
			Publisher: PublisherLog,
			Topics:    map[string]string{},
			NATS:      NATSConfig{URL: "nats://127.0.0.1:4222", Stream: "ORDERING", SubjectPrefix: "ordering."},
			Redis:     RedisConfig{Addr: "127.0.0.1:6379", StreamPrefix: "ordering:"},
			Retry:     RetryConfig{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond},
		},
		Metrics: MetricsConfig{Enabled: false, Namespace: "ordering"},
	}
}

// Load 从 path 加载配置并应用环境变量；path 为空时只用默认值与环境变量
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv 同 Load，环境变量由 lookup 提供
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.WrapError(err, errors.ErrCodeConfig, "read config "+path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.WrapError(err, errors.ErrCodeConfig, "parse config "+path)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOG_LEVEL":           &c.Log.Level,
		"LOG_FORMAT":          &c.Log.Format,
		"STORAGE_DRIVER":      &c.Storage.Driver,
		"STORAGE_DSN":         &c.Storage.DSN,
		"EVENTS_PUBLISHER":    &c.Events.Publisher,
		"NATS_URL":            &c.Events.NATS.URL,
		"NATS_STREAM":         &c.Events.NATS.Stream,
		"NATS_SUBJECT_PREFIX": &c.Events.NATS.SubjectPrefix,
		"REDIS_ADDR":          &c.Events.Redis.Addr,
		"REDIS_STREAM_PREFIX": &c.Events.Redis.StreamPrefix,
		"METRICS_NAMESPACE":   &c.Metrics.Namespace,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STORAGE_CACHE_SIZE": &c.Storage.CacheSize,
		"RETRY_MAX_ATTEMPTS": &c.Events.Retry.MaxAttempts,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return errors.WrapError(err, errors.ErrCodeConfig, EnvPrefix+key)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"STORAGE_CACHE_TTL":   &c.Storage.CacheTTL,
		"RETRY_INITIAL_DELAY": &c.Events.Retry.InitialDelay,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return errors.WrapError(err, errors.ErrCodeConfig, EnvPrefix+key)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeConfig, EnvPrefix+"METRICS_ENABLED")
		}
		c.Metrics.Enabled = b
	}
	return nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q", c.Log.Format))
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q", c.Storage.Driver))
	}
	if c.Storage.CacheSize < 0 {
		problems = append(problems, "storage.cache_size must be >= 0")
	}
	if c.Storage.CacheTTL < 0 {
		problems = append(problems, "storage.cache_ttl must be >= 0")
	}
	switch c.Events.Publisher {
	case PublisherLog, PublisherSync:
	case PublisherNATS:
		if c.Events.NATS.URL == "" {
			problems = append(problems, "events.nats.url is required")
		}
	case PublisherRedis:
		if c.Events.Redis.Addr == "" {
			problems = append(problems, "events.redis.addr is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("events.publisher %q", c.Events.Publisher))
	}
	if c.Events.Retry.MaxAttempts < 1 {
		problems = append(problems, "events.retry.max_attempts must be >= 1")
	}
	for eventType, topic := range c.Events.Topics {
		if eventType == "" || topic == "" {
			problems = append(problems, "events.topics entries must be non-empty")
			break
		}
	}
	if len(problems) > 0 {
		return errors.NewError(errors.ErrCodeConfig, "invalid config: "+strings.Join(problems, "; "))
	}
	return nil
}
