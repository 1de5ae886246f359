// Package config loads settings for both binaries from defaults, an
// optional YAML file, .env and the process environment, in rising order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileEnv names the optional YAML config file.
const FileEnv = "CATALOG_CONFIG"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	UploadDir   string   `mapstructure:"upload_dir"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// ClientConfig drives cmd/catalog.
type ClientConfig struct {
	RemoteURL    string        `mapstructure:"remote_url"`
	StoreDriver  string        `mapstructure:"store_driver"`
	StorePath    string        `mapstructure:"store_path"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisDB      int           `mapstructure:"redis_db"`
	RedisPrefix  string        `mapstructure:"redis_prefix"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	DrainTimeout time.Duration `mapstructure:"drain_timeout"`
}

// Addr is the listen address for the API server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("client.remote_url", "http://localhost:8080/api")
	v.SetDefault("client.store_driver", "sqlite")
	v.SetDefault("client.store_path", "catalog.db")
	v.SetDefault("client.redis_addr", "localhost:6379")
	v.SetDefault("client.redis_db", 0)
	v.SetDefault("client.redis_prefix", "catalog:")
	v.SetDefault("client.http_timeout", 10*time.Second)
	v.SetDefault("client.drain_timeout", 5*time.Second)
}

// Load reads .env (if present), then path or $CATALOG_CONFIG (if set), then
// environment variables such as DATABASE_DSN or CLIENT_REMOTE_URL.
func Load(path string) (*Config, error) {
	// 1. --- .env is optional ---
	_ = godotenv.Load()

	// 2. --- Defaults and environment ---
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. --- Optional YAML file ---
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)
	return &cfg, nil
}

// splitList accepts both a YAML list and a comma-separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
