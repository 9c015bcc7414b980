package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderMessages = "messages"
	ProviderGemini   = "gemini"
	ProviderDisabled = "disabled"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Remote RemoteConfig `mapstructure:"remote"`
	Upload UploadConfig `mapstructure:"upload"`
	Worker WorkerConfig `mapstructure:"worker"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type RemoteConfig struct {
	Provider        string `mapstructure:"provider"`
	AnthropicAPIKey string `mapstructure:"anthropic-api-key"`
	GeminiAPIKey    string `mapstructure:"gemini-api-key"`
}

type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max-file-size"`
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	QueueSize   int `mapstructure:"queue-size"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":              "PORT",
	"server.env":               "ENV",
	"remote.provider":          "REMOTE_PROVIDER",
	"remote.anthropic-api-key": "ANTHROPIC_API_KEY",
	"remote.gemini-api-key":    "GEMINI_API_KEY",
	"upload.max-file-size":     "MAX_FILE_SIZE",
	"worker.concurrency":       "WORKER_CONCURRENCY",
	"worker.queue-size":        "WORKER_QUEUE_SIZE",
	"log.json":                 "LOG_JSON",
	"log.debug":                "LOG_DEBUG",
}

// Load reads .env (if present), the optional config file at path and the
// process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, so that command line
// flags bound to it take part in resolution.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	// a missing .env is the normal case outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.env", "development")
	v.SetDefault("remote.provider", ProviderMessages)
	v.SetDefault("remote.anthropic-api-key", "")
	v.SetDefault("remote.gemini-api-key", "")
	v.SetDefault("upload.max-file-size", int64(10485760))
	v.SetDefault("worker.concurrency", 3)
	v.SetDefault("worker.queue-size", 100)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

func (c *Config) validate() error {
	c.Remote.Provider = strings.ToLower(strings.TrimSpace(c.Remote.Provider))
	switch c.Remote.Provider {
	case ProviderMessages, ProviderGemini, ProviderDisabled:
	default:
		return fmt.Errorf("unknown remote provider %q", c.Remote.Provider)
	}

	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be positive, got %d", c.Worker.Concurrency)
	}
	if c.Worker.QueueSize < 0 {
		return fmt.Errorf("worker queue size must not be negative, got %d", c.Worker.QueueSize)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Upload.MaxFileSize)
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
