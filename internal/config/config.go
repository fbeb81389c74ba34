package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/recall/internal/validation"
)

const (
	StorageDriverMySQL = "mysql"
	StorageDriverYAML  = "yaml"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Session  SessionConfig  `mapstructure:"session"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"gte=0"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=mysql yaml"`
	YAMLDirectory string `mapstructure:"yaml_directory" validate:"required_if=Driver yaml"`
}

type DispatchConfig struct {
	Interval    time.Duration `mapstructure:"interval" validate:"gte=1s"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1"`
	Webhook     WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig configures the webhook sink. An empty URL selects the log sink.
type WebhookConfig struct {
	URL        string        `mapstructure:"url" validate:"omitempty,url"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRetries uint          `mapstructure:"max_retries"`
}

type SessionConfig struct {
	BatchSize int `mapstructure:"batch_size" validate:"gte=1"`
}

type ConfigLoader struct {
	viper     *viper.Viper
	validator *validation.Validator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recall")
	}

	return &ConfigLoader{
		viper:     v,
		validator: validate,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// .env is optional; variables already present in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "recall")
	v.SetDefault("database.username", "user")
	v.SetDefault("storage.driver", StorageDriverMySQL)
	v.SetDefault("storage.yaml_directory", filepath.Join("data", "recall"))
	v.SetDefault("dispatch.interval", 5*time.Minute)
	v.SetDefault("dispatch.concurrency", 4)
	v.SetDefault("dispatch.webhook.timeout", 10*time.Second)
	v.SetDefault("dispatch.webhook.max_retries", 3)
	v.SetDefault("session.batch_size", 5)

	// Secrets are bound to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("dispatch.webhook.token", "RECALL_WEBHOOK_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALL_WEBHOOK_TOKEN environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
