package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Portal    PortalConfig    `mapstructure:"portal"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionSecret   string        `mapstructure:"session_secret"`
	PublicURL       string        `mapstructure:"public_url"` // base used in portal QR codes
	// CIDRs or IPs of reverse proxies allowed to set X-Forwarded-For. Empty
	// means the peer address is the client address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"` // postgres | sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type PortalConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("portal.token_ttl", 365*24*time.Hour)
	v.SetDefault("ratelimit.rps", 2)
	v.SetDefault("ratelimit.burst", 5)
}

// LoadConfig reads .env, an optional config.yaml and ARTKEY_* environment
// variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("/etc/artkey-store/")

	v.SetEnvPrefix("ARTKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Variable names kept from the original deployment.
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = os.Getenv("DATABASE_URL")
	}
	if cfg.Server.SessionSecret == "" {
		cfg.Server.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ARTKEY_SERVER_ADDR") == "" && !v.InConfig("server.addr") {
		cfg.Server.Addr = ":" + port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn (or DATABASE_URL) is required")
	}
	if len(c.Server.SessionSecret) < 32 {
		return errors.New("server.session_secret (or SESSION_SECRET) must be at least 32 bytes")
	}
	if c.Portal.TokenTTL <= 0 {
		return errors.New("portal.token_ttl must be positive")
	}
	return nil
}
