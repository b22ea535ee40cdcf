package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

const envPrefix = "NEBULA"

// Load reads the configuration from the given file path, layering
// NEBULA_-prefixed environment variables on top.  An empty path falls back
// to config.yaml in ./configs, /etc/hacknebula and the working directory.
// Defaults are applied before reading, so a missing file with a complete
// environment is a valid setup.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hacknebula")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when no explicit path was given.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch reloads the configuration when the underlying file changes and
// hands validated snapshots to onChange.  Invalid edits are dropped so a
// bad save cannot take down a running service.
func Watch(path string, onChange func(*Config)) error {
	if path == "" {
		return errors.NewValidation("config watch requires an explicit file path")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "read config file")
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		if err := cfg.Validate(); err != nil {
			return
		}
		onChange(&cfg)
	})
	v.WatchConfig()
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hacknebula")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "nebula")
	v.SetDefault("database.password", "nebula")
	v.SetDefault("database.database", "hacknebula")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrations_path", "migrations")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.key_prefix", "nebula")
	v.SetDefault("redis.default_ttl", 5*time.Minute)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.activity_topic", "nebula.activity")
	v.SetDefault("kafka.consumer_group", "nebula-activity-worker")
	v.SetDefault("kafka.batch_timeout", 100*time.Millisecond)
	v.SetDefault("kafka.required_acks", 1)

	v.SetDefault("opensearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("opensearch.index_prefix", "nebula")

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "minioadmin")
	v.SetDefault("storage.secret_key", "minioadmin")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "nebula-assets")
	v.SetDefault("storage.max_asset_size", int64(64<<20))
	v.SetDefault("storage.presigned_expiry", 15*time.Minute)

	v.SetDefault("galaxy_map.canvas_width", 1200.0)
	v.SetDefault("galaxy_map.canvas_height", 800.0)
	v.SetDefault("galaxy_map.canvas_padding", 40.0)
	v.SetDefault("galaxy_map.min_label_distance", 48.0)
	v.SetDefault("galaxy_map.cache_ttl", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
