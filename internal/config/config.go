// Package config loads service configuration from config.yaml and the
// environment, with environment variables taking precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the dialogue service.
type Config struct {
	Env         string `mapstructure:"ENV"`
	ServiceName string `mapstructure:"SERVICE_NAME"`

	// NATS configuration.
	NatsURL           string        `mapstructure:"NATS_URL"`
	NatsTimeout       time.Duration `mapstructure:"NATS_TIMEOUT"`
	NatsTurnSubject   string        `mapstructure:"NATS_TURN_SUBJECT"`
	NatsResetSubject  string        `mapstructure:"NATS_RESET_SUBJECT"`
	NatsStatusSubject string        `mapstructure:"NATS_STATUS_SUBJECT"`

	// Redis configuration for transcript storage.
	RedisURL      string        `mapstructure:"REDIS_URL"`
	TranscriptTTL time.Duration `mapstructure:"TRANSCRIPT_TTL"`

	// LLM extraction. When the API key is empty the service falls back to
	// the regex analyzer.
	OpenAIAPIKey string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string        `mapstructure:"OPENAI_MODEL"`
	TurnTimeout  time.Duration `mapstructure:"TURN_TIMEOUT"`
}

// Load reads config.yaml (if present) and the environment.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVICE_NAME", "vexabot-dialog")
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("NATS_TIMEOUT", "5s")
	viper.SetDefault("NATS_TURN_SUBJECT", "dialogue.turn")
	viper.SetDefault("NATS_RESET_SUBJECT", "dialogue.reset")
	viper.SetDefault("NATS_STATUS_SUBJECT", "dialogue.status")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("TRANSCRIPT_TTL", "1h")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("TURN_TIMEOUT", "30s")

	// Missing config file is fine, environment variables cover everything.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
