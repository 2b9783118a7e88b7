package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App        AppConfig        `mapstructure:"app" yaml:"app"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Provider   ProviderConfig   `mapstructure:"provider" yaml:"provider"`
	Registry   RegistryConfig   `mapstructure:"registry" yaml:"registry"`
	Suggestion SuggestionConfig `mapstructure:"suggestion" yaml:"suggestion"`
	Chainlist  ChainlistConfig  `mapstructure:"chainlist" yaml:"chainlist"`
	Prompt     PromptConfig     `mapstructure:"prompt" yaml:"prompt"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Version string `mapstructure:"version" yaml:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// ProviderConfig holds settings for the wallet provider bridge.
type ProviderConfig struct {
	URL              string        `mapstructure:"url" yaml:"url"`
	CallTimeout      time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" yaml:"handshake_timeout"`
}

// RegistryConfig describes where the name registry contract lives.
type RegistryConfig struct {
	ChainID             string        `mapstructure:"chain_id" yaml:"chain_id"`
	Address             string        `mapstructure:"address" yaml:"address"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval" yaml:"receipt_poll_interval"`
	ConfirmTimeout      time.Duration `mapstructure:"confirm_timeout" yaml:"confirm_timeout"`
}

// SuggestionConfig holds settings for alternative name generation.
type SuggestionConfig struct {
	Count int `mapstructure:"count" yaml:"count"`
}

// ChainlistConfig holds configuration for the Chainlist data source.
type ChainlistConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// PromptConfig bounds how long a conflict prompt waits for the user.
type PromptConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "namereg")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("provider.url", "ws://127.0.0.1:8546")
	v.SetDefault("provider.call_timeout", "0s")
	v.SetDefault("provider.handshake_timeout", "10s")
	v.SetDefault("registry.chain_id", "1")
	v.SetDefault("registry.address", "")
	v.SetDefault("registry.receipt_poll_interval", "2s")
	v.SetDefault("registry.confirm_timeout", "0s")
	v.SetDefault("suggestion.count", 10)
	v.SetDefault("chainlist.url", "https://chainid.network/chains.json")
	v.SetDefault("chainlist.timeout", "15s")
	v.SetDefault("prompt.timeout", "5m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("NAMEREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Registry.ChainID) == "" {
		return errors.New("registry.chain_id must be set")
	}
	if c.Suggestion.Count <= 0 {
		return fmt.Errorf("suggestion.count must be positive, got %d", c.Suggestion.Count)
	}
	return nil
}

func (c ProviderConfig) GetCallTimeout() time.Duration {
	return c.CallTimeout
}

func (c RegistryConfig) GetReceiptPollInterval() time.Duration {
	if c.ReceiptPollInterval <= 0 {
		return 2 * time.Second
	}
	return c.ReceiptPollInterval
}

func (c ChainlistConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}
