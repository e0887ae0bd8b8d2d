// Package config provides configuration management for the trading client.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"openbook-trader/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	RPC     RPCConfig     `mapstructure:"rpc"`
	Trading TradingConfig `mapstructure:"trading"`
	Journal JournalConfig `mapstructure:"journal"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RPCConfig holds Solana RPC endpoint configuration.
type RPCConfig struct {
	URL        string `mapstructure:"url"`
	Commitment string `mapstructure:"commitment"` // processed, confirmed, finalized
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	ProgramID   string `mapstructure:"program_id"`   // empty means mainnet OpenBook v2
	Market      string `mapstructure:"market"`       // market account address
	KeypairPath string `mapstructure:"keypair_path"` // owner keypair file
	OpenOrders  string `mapstructure:"open_orders"`  // optional, skips resolution
	AccountName string `mapstructure:"account_name"` // open-orders account name
}

// JournalConfig holds the local order journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/openbook-trader"
	}
	return filepath.Join(home, ".config", "openbook-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("rpc.url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("rpc.commitment", "confirmed")
	v.SetDefault("trading.account_name", "default")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "trader.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENBOOK_RPC_URL"); v != "" {
		cfg.RPC.URL = v
	}
	if v := os.Getenv("OPENBOOK_COMMITMENT"); v != "" {
		cfg.RPC.Commitment = v
	}
	if v := os.Getenv("OPENBOOK_KEYPAIR"); v != "" {
		cfg.Trading.KeypairPath = v
	}
	if v := os.Getenv("OPENBOOK_MARKET"); v != "" {
		cfg.Trading.Market = v
	}
	if v := os.Getenv("OPENBOOK_PROGRAM_ID"); v != "" {
		cfg.Trading.ProgramID = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.RPC.URL == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "rpc.url must be set")
	}
	switch c.RPC.Commitment {
	case "", "processed", "confirmed", "finalized":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid commitment: %s", c.RPC.Commitment)
	}
	if c.Trading.AccountName != "" && len(c.Trading.AccountName) > 32 {
		return errors.Wrap(errors.ErrConfigInvalid, "account_name exceeds 32 bytes")
	}
	return nil
}
