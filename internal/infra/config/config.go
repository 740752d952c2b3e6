package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - application settings
type Config struct {
	SolanaTracker SolanaTrackerConfig `mapstructure:"solana_tracker"`
	Server        ServerConfig        `mapstructure:"server"`
	Dashboard     DashboardConfig     `mapstructure:"dashboard"`
	Telegram      TelegramConfig      `mapstructure:"telegram"`
	App           AppConfig           `mapstructure:"app"`
}

// SolanaTrackerConfig - upstream API settings
type SolanaTrackerConfig struct {
	APIKey               string `mapstructure:"api_key"`
	BaseURL              string `mapstructure:"base_url"`
	ContractAddress      string `mapstructure:"contract_address"`
	MinRequestIntervalMs int    `mapstructure:"min_request_interval_ms"` // spacing between any two upstream calls
	MaxRetries           int    `mapstructure:"max_retries"`
	RetryDelayMs         int    `mapstructure:"retry_delay_ms"`  // fixed wait after a 429
	RequestTimeout       int    `mapstructure:"request_timeout"` // seconds
	MaxResponseSize      int64  `mapstructure:"max_response_size"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DashboardConfig - switches for the optional sub-fetches
// Turning both off reproduces the "token only, synthetic leaderboard" mode.
type DashboardConfig struct {
	FetchTopHolders  bool `mapstructure:"fetch_top_holders"`
	FetchHolderChart bool `mapstructure:"fetch_holder_chart"`
}

type TelegramConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	ChatID         string `mapstructure:"chat_id"`
	ReportInterval int    `mapstructure:"report_interval"` // minutes
	FontPath       string `mapstructure:"font_path"`
}

type AppConfig struct {
	LogsDir string `mapstructure:"logs_dir"`
	Debug   bool   `mapstructure:"debug"`
}

func (c SolanaTrackerConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMs) * time.Millisecond
}

func (c SolanaTrackerConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

func (c SolanaTrackerConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c TelegramConfig) Interval() time.Duration {
	return time.Duration(c.ReportInterval) * time.Minute
}

// Load reads settings in order of increasing priority:
// 1. defaults
// 2. config.yaml
// 3. .env file and process environment
// 4. command line flags (when flags is non-nil)
func Load(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.AutomaticEnv()
	if err := setupEnvAliases(v); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) error {
	aliases := map[string]string{
		"solana_tracker.api_key":                 "SOLANA_TRACKER_API_KEY",
		"solana_tracker.base_url":                "SOLANA_TRACKER_BASE_URL",
		"solana_tracker.contract_address":        "CONTRACT_ADDRESS",
		"solana_tracker.min_request_interval_ms": "SOLANA_TRACKER_MIN_REQUEST_INTERVAL_MS",
		"solana_tracker.max_retries":             "SOLANA_TRACKER_MAX_RETRIES",
		"solana_tracker.retry_delay_ms":          "SOLANA_TRACKER_RETRY_DELAY_MS",
		"solana_tracker.request_timeout":         "SOLANA_TRACKER_REQUEST_TIMEOUT",
		"solana_tracker.max_response_size":       "SOLANA_TRACKER_MAX_RESPONSE_SIZE",

		"server.addr": "SERVER_ADDR",

		"dashboard.fetch_top_holders":  "DASHBOARD_FETCH_TOP_HOLDERS",
		"dashboard.fetch_holder_chart": "DASHBOARD_FETCH_HOLDER_CHART",

		"telegram.bot_token":       "TELEGRAM_BOT_TOKEN",
		"telegram.chat_id":         "TELEGRAM_CHAT_ID",
		"telegram.report_interval": "TELEGRAM_REPORT_INTERVAL",
		"telegram.font_path":       "TELEGRAM_FONT_PATH",

		"app.logs_dir": "APP_LOGS_DIR",
		"app.debug":    "APP_DEBUG",
	}
	for key, env := range aliases {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solana_tracker.api_key", "")
	v.SetDefault("solana_tracker.base_url", "https://data.solanatracker.io")
	v.SetDefault("solana_tracker.contract_address", "")
	v.SetDefault("solana_tracker.min_request_interval_ms", 1000)
	v.SetDefault("solana_tracker.max_retries", 3)
	v.SetDefault("solana_tracker.retry_delay_ms", 2000)
	v.SetDefault("solana_tracker.request_timeout", 30)
	v.SetDefault("solana_tracker.max_response_size", 10*1024*1024) // 10MB

	v.SetDefault("server.addr", ":3000")

	v.SetDefault("dashboard.fetch_top_holders", true)
	v.SetDefault("dashboard.fetch_holder_chart", true)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.report_interval", 60)
	v.SetDefault("telegram.font_path", "")

	v.SetDefault("app.logs_dir", "logs")
	v.SetDefault("app.debug", false)
}

// RegisterFlags adds the overridable settings to a command's flag set.
// Flag names match config keys so viper can bind them directly.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("solana_tracker.api_key", "", "Solana Tracker API key (env: SOLANA_TRACKER_API_KEY)")
	flags.String("solana_tracker.contract_address", "", "Token contract address (env: CONTRACT_ADDRESS)")
	flags.Int("solana_tracker.max_retries", 3, "Retries after a rate-limited request (env: SOLANA_TRACKER_MAX_RETRIES)")
	flags.String("server.addr", ":3000", "HTTP listen address (env: SERVER_ADDR)")
	flags.Bool("app.debug", false, "Write DEBUG entries to the log file (env: APP_DEBUG)")
}

func validateConfig(cfg *Config) error {
	st := cfg.SolanaTracker
	if st.BaseURL == "" {
		return fmt.Errorf("solana_tracker.base_url is required")
	}
	if st.MinRequestIntervalMs <= 0 {
		return fmt.Errorf("solana_tracker.min_request_interval_ms must be > 0, got %d", st.MinRequestIntervalMs)
	}
	if st.MaxRetries < 0 {
		return fmt.Errorf("solana_tracker.max_retries must be >= 0, got %d", st.MaxRetries)
	}
	if st.RetryDelayMs < 0 {
		return fmt.Errorf("solana_tracker.retry_delay_ms must be >= 0, got %d", st.RetryDelayMs)
	}
	if st.RequestTimeout < 0 {
		return fmt.Errorf("solana_tracker.request_timeout must be >= 0, got %d", st.RequestTimeout)
	}
	if cfg.Telegram.ReportInterval <= 0 {
		return fmt.Errorf("telegram.report_interval must be > 0, got %d", cfg.Telegram.ReportInterval)
	}
	return nil
}
