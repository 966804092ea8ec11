// Package config loads kinai settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds runtime settings.
type Config struct {
	Backend     string        `mapstructure:"KINAI_BACKEND"`
	DBPath      string        `mapstructure:"KINAI_DB"`
	RedisAddr   string        `mapstructure:"KINAI_REDIS_ADDR"`
	RedisPrefix string        `mapstructure:"KINAI_REDIS_PREFIX"`
	LogLevel    string        `mapstructure:"KINAI_LOG_LEVEL"`
	GeminiKey   string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel string        `mapstructure:"KINAI_GEMINI_MODEL"`
	GeminiURL   string        `mapstructure:"KINAI_GEMINI_URL"`
	AITimeout   time.Duration `mapstructure:"KINAI_AI_TIMEOUT"`
}

var keys = []string{
	"KINAI_BACKEND",
	"KINAI_DB",
	"KINAI_REDIS_ADDR",
	"KINAI_REDIS_PREFIX",
	"KINAI_LOG_LEVEL",
	"GEMINI_API_KEY",
	"KINAI_GEMINI_MODEL",
	"KINAI_GEMINI_URL",
	"KINAI_AI_TIMEOUT",
}

// Home returns the kinai data directory (~/.kinai).
func Home() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kinai")
}

// Load reads settings. Environment variables win over ~/.kinai/config.yaml,
// which wins over defaults. A missing config file is not an error.
func Load() (*Config, error) {
	return load(filepath.Join(Home(), "config.yaml"))
}

func load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("KINAI_BACKEND", "sqlite")
	v.SetDefault("KINAI_DB", filepath.Join(Home(), "kinai.db"))
	v.SetDefault("KINAI_REDIS_ADDR", "localhost:6379")
	v.SetDefault("KINAI_REDIS_PREFIX", "kinai:")
	v.SetDefault("KINAI_LOG_LEVEL", "warn")
	v.SetDefault("KINAI_GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("KINAI_GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("KINAI_AI_TIMEOUT", "30s")

	for _, k := range keys {
		v.BindEnv(k)
	}

	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.Backend {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("KINAI_DB is required for the sqlite backend")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("KINAI_REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("KINAI_BACKEND must be \"sqlite\" or \"redis\", got %q", c.Backend)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("KINAI_LOG_LEVEL: %w", err)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("KINAI_AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	return nil
}

// AIEnabled reports whether a Gemini API key is configured.
func (c *Config) AIEnabled() bool {
	return c.GeminiKey != ""
}
