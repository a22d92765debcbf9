// Package config loads levelboard configuration from a YAML file with
// environment overrides (LEVELBOARD_* variables).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete configuration tree shared by levelsd and symbolsd.
type Config struct {
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Symbols   SymbolsConfig   `mapstructure:"symbols"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// IngestConfig drives the upstream tick websocket connection.
type IngestConfig struct {
	WSURL          string        `mapstructure:"ws_url"`
	LoginURL       string        `mapstructure:"login_url"`
	ClientCode     string        `mapstructure:"client_code"`
	Password       string        `mapstructure:"password"`
	TOTPSecret     string        `mapstructure:"totp_secret"`
	MinBackoff     time.Duration `mapstructure:"min_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	ReconnectRate  float64       `mapstructure:"reconnect_rate"`
	ReconnectBurst int           `mapstructure:"reconnect_burst"`
}

// SymbolsConfig drives the watchlist fetch loop.
type SymbolsConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// GatewayConfig configures the REST surface.
type GatewayConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Mode       string `mapstructure:"mode"` // gin mode: debug, release, test
}

// RedisConfig configures the snapshot/price publisher. Disabled by default
// so levelsd runs standalone.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	DB      int    `mapstructure:"db"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// WatchlistConfig configures symbolsd's SQLite store.
type WatchlistConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the config file at path (optional, "" skips the file) and
// applies LEVELBOARD_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LEVELBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ingest.ws_url", "ws://localhost:8765/stream")
	v.SetDefault("ingest.login_url", "")
	v.SetDefault("ingest.min_backoff", "1s")
	v.SetDefault("ingest.max_backoff", "30s")
	v.SetDefault("ingest.dial_timeout", "10s")
	v.SetDefault("ingest.reconnect_rate", 0.5)
	v.SetDefault("ingest.reconnect_burst", 3)

	v.SetDefault("symbols.base_url", "http://localhost:3001")
	v.SetDefault("symbols.refresh_interval", "60s")
	v.SetDefault("symbols.timeout", "10s")

	v.SetDefault("gateway.listen_addr", ":8080")
	v.SetDefault("gateway.mode", "release")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("metrics.listen_addr", ":9100")

	v.SetDefault("watchlist.db_path", "./data/watchlist.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks cross-field constraints before services start.
func (c *Config) Validate() error {
	if c.Ingest.WSURL == "" {
		return fmt.Errorf("ingest.ws_url is required")
	}
	if c.Ingest.MinBackoff <= 0 || c.Ingest.MaxBackoff < c.Ingest.MinBackoff {
		return fmt.Errorf("ingest backoff window is invalid")
	}
	if c.Ingest.ReconnectRate <= 0 {
		return fmt.Errorf("ingest.reconnect_rate must be positive")
	}
	if c.Ingest.TOTPSecret != "" && c.Ingest.LoginURL == "" {
		return fmt.Errorf("ingest.login_url is required when a TOTP secret is set")
	}
	if c.Symbols.BaseURL == "" {
		return fmt.Errorf("symbols.base_url is required")
	}
	if c.Symbols.RefreshInterval < time.Second {
		return fmt.Errorf("symbols.refresh_interval must be at least 1s")
	}
	if c.Gateway.ListenAddr == "" {
		return fmt.Errorf("gateway.listen_addr is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Watchlist.DBPath == "" {
		return fmt.Errorf("watchlist.db_path is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}
