package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/abhayas/halfdigit-web/internal/api"
)

type Config struct {
	Server    Server    `mapstructure:"server"`
	API       API       `mapstructure:"api"`
	Telemetry Telemetry `mapstructure:"telemetry"`
}

type Server struct {
	Port       string        `mapstructure:"port"`
	Mode       string        `mapstructure:"mode"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// MaxInstances caps live instances per form page. MaxUploads caps the
	// speech page separately since each instance may hold an upload in memory.
	MaxInstances int `mapstructure:"max_instances"`
	MaxUploads   int `mapstructure:"max_uploads"`
}

type API struct {
	BaseURL string `mapstructure:"base_url"`
}

type Telemetry struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads defaults, then the optional YAML file at filename, then the
// environment (PORT, GIN_MODE, SESSION_TTL, MAX_INSTANCES, MAX_UPLOADS,
// API_BASE_URL, TELEMETRY_ENABLED).
func Load(filename string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("server.max_instances", 1000)
	v.SetDefault("server.max_uploads", 16)
	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("telemetry.enabled", true)

	binds := map[string]string{
		"server.port":          "PORT",
		"server.mode":          "GIN_MODE",
		"server.session_ttl":   "SESSION_TTL",
		"server.max_instances": "MAX_INSTANCES",
		"server.max_uploads":   "MAX_UPLOADS",
		"api.base_url":         "API_BASE_URL",
		"telemetry.enabled":    "TELEMETRY_ENABLED",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", filename, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Server.SessionTTL <= 0 {
		return nil, fmt.Errorf("server.session_ttl must be positive, got %s", cfg.Server.SessionTTL)
	}
	if cfg.Server.MaxInstances <= 0 || cfg.Server.MaxUploads <= 0 {
		return nil, fmt.Errorf("server.max_instances and server.max_uploads must be positive, got %d and %d",
			cfg.Server.MaxInstances, cfg.Server.MaxUploads)
	}
	return cfg, nil
}
