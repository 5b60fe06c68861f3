// Package config provides configuration management for the journal application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal       JournalConfig      `mapstructure:"journal"`
	Risk          RiskConfig         `mapstructure:"risk"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Parser        ParserConfig       `mapstructure:"parser"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// JournalConfig holds journal-related configuration.
type JournalConfig struct {
	DefaultAccount string `mapstructure:"default_account"`
	DatabasePath   string `mapstructure:"database_path"`
	ChallengeGoal  float64 `mapstructure:"challenge_goal"`
}

// RiskConfig holds the fallback risk profile used when an account
// carries no settings of its own.
type RiskConfig struct {
	MaxDailyRisk         float64 `mapstructure:"max_daily_risk"`
	MaxTradesPerDay      int     `mapstructure:"max_trades_per_day"`
	MaxContractsPerTrade int     `mapstructure:"max_contracts_per_trade"`
	CalcMode             string  `mapstructure:"calc_mode"`   // fixedContracts, fixedSL
	TargetMode           string  `mapstructure:"target_mode"` // fixedRR, fixedTargetPoints
	RRRatio              float64 `mapstructure:"rr_ratio"`
	FixedSLPoints        float64 `mapstructure:"fixed_sl_points"`
	FixedTargetPoints    float64 `mapstructure:"fixed_target_points"`
	CommPerContract      float64 `mapstructure:"comm_per_contract"`
	PreferredInstrument  string  `mapstructure:"preferred_instrument"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Level    string         `mapstructure:"level"` // all, alerts_only
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ParserConfig holds AI journal-parser configuration.
type ParserConfig struct {
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	RatePerMinute int     `mapstructure:"rate_per_minute"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradergym"
	}
	return filepath.Join(home, ".config", "tradergym")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "journal.db")
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

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Journal.DatabasePath == "" {
		cfg.Journal.DatabasePath = filepath.Join(configDir, "journal.db")
	}

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

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("journal.default_account", "")
	v.SetDefault("journal.challenge_goal", 0.0)

	v.SetDefault("risk.max_daily_risk", 100.0)
	v.SetDefault("risk.max_trades_per_day", 1)
	v.SetDefault("risk.max_contracts_per_trade", 1)
	v.SetDefault("risk.calc_mode", "fixedContracts")
	v.SetDefault("risk.target_mode", "fixedRR")
	v.SetDefault("risk.rr_ratio", 2.0)
	v.SetDefault("risk.comm_per_contract", 1.5)
	v.SetDefault("risk.preferred_instrument", "MNQ")

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	v.SetDefault("parser.model", "gpt-4o")
	v.SetDefault("parser.temperature", 0.2)
	v.SetDefault("parser.max_tokens", 2048)
	v.SetDefault("parser.rate_per_minute", 20)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADERGYM_DB"); v != "" {
		cfg.Journal.DatabasePath = v
	}
	if v := os.Getenv("TRADERGYM_ACCOUNT"); v != "" {
		cfg.Journal.DefaultAccount = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Risk.MaxDailyRisk < 0 {
		return fmt.Errorf("max_daily_risk must be non-negative")
	}
	if c.Risk.MaxTradesPerDay < 0 {
		return fmt.Errorf("max_trades_per_day must be non-negative")
	}
	if m := c.Risk.CalcMode; m != "" && m != "fixedContracts" && m != "fixedSL" {
		return fmt.Errorf("invalid calc_mode: %s (must be 'fixedContracts' or 'fixedSL')", m)
	}
	if m := c.Risk.TargetMode; m != "" && m != "fixedRR" && m != "fixedTargetPoints" {
		return fmt.Errorf("invalid target_mode: %s (must be 'fixedRR' or 'fixedTargetPoints')", m)
	}
	if c.Risk.RRRatio < 0 {
		return fmt.Errorf("rr_ratio must be non-negative")
	}
	if l := c.Notifications.Level; l != "" && l != "all" && l != "alerts_only" {
		return fmt.Errorf("invalid notification level: %s (must be 'all' or 'alerts_only')", l)
	}
	if c.Parser.Temperature < 0 || c.Parser.Temperature > 2 {
		return fmt.Errorf("parser temperature must be between 0 and 2")
	}
	return nil
}

// HasParser returns true if the AI journal parser can be used.
func (c *Config) HasParser() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
