// Package config loads and validates the HackNebula service configuration
// from YAML files and NEBULA_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

// Config is the root configuration shared by the API server, the activity
// worker and nebulactl.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Storage    StorageConfig    `mapstructure:"storage"`
	GalaxyMap  GalaxyMapConfig  `mapstructure:"galaxy_map"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig identifies the running instance.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds the Redis connection and caching settings.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
}

// KafkaConfig holds broker addresses and the topics the platform publishes
// and consumes.
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	ActivityTopic string        `mapstructure:"activity_topic"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	BatchTimeout  time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks  int           `mapstructure:"required_acks"`
}

// OpenSearchConfig holds the full-text search cluster settings.
type OpenSearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	IndexPrefix string   `mapstructure:"index_prefix"`
}

// StorageConfig holds the MinIO object storage settings for submission
// assets.
type StorageConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKey       string        `mapstructure:"access_key"`
	SecretKey       string        `mapstructure:"secret_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Bucket          string        `mapstructure:"bucket"`
	MaxAssetSize    int64         `mapstructure:"max_asset_size"`
	PresignedExpiry time.Duration `mapstructure:"presigned_expiry"`
}

// GalaxyMapConfig tunes the territory layout engine.
type GalaxyMapConfig struct {
	CanvasWidth      float64       `mapstructure:"canvas_width"`
	CanvasHeight     float64       `mapstructure:"canvas_height"`
	CanvasPadding    float64       `mapstructure:"canvas_padding"`
	MinLabelDistance float64       `mapstructure:"min_label_distance"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Validate checks cross-field consistency after loading.  It returns a
// validation error naming the first offending key.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.NewValidation(fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.Host == "" {
		return errors.NewValidation("database.host is required")
	}
	if c.Database.Database == "" {
		return errors.NewValidation("database.database is required")
	}
	if c.Redis.Addr == "" {
		return errors.NewValidation("redis.addr is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return errors.NewValidation("kafka.brokers must not be empty")
	}
	if c.Kafka.ActivityTopic == "" {
		return errors.NewValidation("kafka.activity_topic is required")
	}
	if len(c.OpenSearch.Addresses) == 0 {
		return errors.NewValidation("opensearch.addresses must not be empty")
	}
	if c.Storage.Endpoint == "" {
		return errors.NewValidation("storage.endpoint is required")
	}
	if c.Storage.MaxAssetSize <= 0 {
		return errors.NewValidation("storage.max_asset_size must be positive")
	}
	if c.GalaxyMap.CanvasWidth <= 0 || c.GalaxyMap.CanvasHeight <= 0 {
		return errors.NewValidation("galaxy_map canvas dimensions must be positive")
	}
	if c.GalaxyMap.CanvasPadding < 0 {
		return errors.NewValidation("galaxy_map.canvas_padding must not be negative")
	}
	if 2*c.GalaxyMap.CanvasPadding >= c.GalaxyMap.CanvasWidth ||
		2*c.GalaxyMap.CanvasPadding >= c.GalaxyMap.CanvasHeight {
		return errors.NewValidation("galaxy_map.canvas_padding leaves no drawable area")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidation(fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return nil
}

// IsProduction reports whether the instance runs in the production
// environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
