package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	Image     ImageConfig     `mapstructure:"image"`
	Generate  GenerateConfig  `mapstructure:"generate"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// 默认模型，请求可通过 model 字段覆盖（仅限 allowed_models 白名单）
	Model         string   `mapstructure:"model"`
	AllowedModels []string `mapstructure:"allowed_models"`
	TimeoutSec    int      `mapstructure:"timeout_sec"`
}

// ImageConfig 插图生成端点（prompt 编码进 URL，免认证）
type ImageConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// GenerateConfig 生成与排版的可调参数
type GenerateConfig struct {
	// 选项合并文本低于该长度时采用水平紧凑布局，源自原型的经验值
	CompactOptionThreshold int `mapstructure:"compact_option_threshold"`
	ShortCount             int `mapstructure:"short_count"`
	MediumCount            int `mapstructure:"medium_count"`
	LongCount              int `mapstructure:"long_count"`
	// 同一用户生成锁的有效期（秒）
	LockTTLSec int `mapstructure:"lock_ttl_sec"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ARC_WS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Image
	viper.BindEnv("image.base_url", "IMAGE_BASE_URL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	ApplyGenerateDefaults(&cfg.Generate)
	applyImageDefaults(&cfg.Image)

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func ApplyGenerateDefaults(g *GenerateConfig) {
	if g.CompactOptionThreshold <= 0 {
		// 原型中的经验阈值，保留为可配置项
		g.CompactOptionThreshold = 55
	}
	if g.ShortCount <= 0 {
		g.ShortCount = 5
	}
	if g.MediumCount <= 0 {
		g.MediumCount = 10
	}
	if g.LongCount <= 0 {
		g.LongCount = 15
	}
	if g.LockTTLSec <= 0 {
		g.LockTTLSec = 120
	}
}

func applyImageDefaults(i *ImageConfig) {
	if i.Width <= 0 {
		i.Width = 400
	}
	if i.Height <= 0 {
		i.Height = 400
	}
	if i.TimeoutSec <= 0 {
		i.TimeoutSec = 15
	}
}
