package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	History    HistoryConfig    `mapstructure:"history"`
	Scrollback ScrollbackConfig `mapstructure:"scrollback"`
	Backfill   BackfillConfig   `mapstructure:"backfill"`
	Display    DisplayConfig    `mapstructure:"display"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// HistoryConfig holds message store configuration
type HistoryConfig struct {
	Path       string `mapstructure:"path"` // sqlite file, or ":memory:"
	HideServer bool   `mapstructure:"hide_server"`
}

// ScrollbackConfig holds the windowing parameters of a conversation view
type ScrollbackConfig struct {
	WindowSize       int           `mapstructure:"window_size"`
	RowHeight        float64       `mapstructure:"row_height"`
	BufferPages      float64       `mapstructure:"buffer_pages"`
	MinGrowth        int           `mapstructure:"min_growth"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	MarkReadOnBottom bool          `mapstructure:"mark_read_on_bottom"`
	InfiniteScroll   bool          `mapstructure:"infinite_scroll"`
}

// BackfillConfig holds older-history fetching configuration
type BackfillConfig struct {
	PageSize int     `mapstructure:"page_size"`
	Rate     float64 `mapstructure:"rate"` // requests per second
	Burst    int     `mapstructure:"burst"`
}

// DisplayConfig holds rendering configuration
type DisplayConfig struct {
	Markdown        bool   `mapstructure:"markdown"`
	TimestampFormat string `mapstructure:"timestamp_format"`
}

var (
	// Global config instance
	cfg *Config
)

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.backscroll") // Check project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "backscroll"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("BACKSCROLL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvironmentVariables()

	// A missing settings file is fine, defaults apply
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(loaded); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}
	if err := validate(loaded); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Logging defaults
	viper.SetDefault("logging.log_file", "./.backscroll/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")

	// History defaults
	viper.SetDefault("history.path", "./.backscroll/history.db")
	viper.SetDefault("history.hide_server", false)

	// Scrollback defaults
	viper.SetDefault("scrollback.window_size", 200)
	viper.SetDefault("scrollback.row_height", 1)
	viper.SetDefault("scrollback.buffer_pages", 3)
	viper.SetDefault("scrollback.min_growth", 10)
	viper.SetDefault("scrollback.retry_delay", "50ms")
	viper.SetDefault("scrollback.mark_read_on_bottom", true)
	viper.SetDefault("scrollback.infinite_scroll", true)

	// Backfill defaults
	viper.SetDefault("backfill.page_size", 100)
	viper.SetDefault("backfill.rate", 2)
	viper.SetDefault("backfill.burst", 1)

	// Display defaults
	viper.SetDefault("display.markdown", true)
	viper.SetDefault("display.timestamp_format", "15:04")
}

// bindEnvironmentVariables binds the short environment names to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("logging.log_file", "BACKSCROLL_LOG_FILE")
	viper.BindEnv("logging.level", "BACKSCROLL_LOG_LEVEL")
	viper.BindEnv("logging.preserve", "BACKSCROLL_LOG_PRESERVE")
	viper.BindEnv("history.path", "BACKSCROLL_HISTORY_PATH")
	viper.BindEnv("config.path", "BACKSCROLL_CONFIG_DIR")
}

// processDurations fills in duration values viper left unset
func processDurations(cfg *Config) error {
	if cfg.Scrollback.RetryDelay < 0 {
		return fmt.Errorf("invalid scrollback.retry_delay: %s", cfg.Scrollback.RetryDelay)
	}
	if cfg.Scrollback.RetryDelay == 0 {
		cfg.Scrollback.RetryDelay = 50 * time.Millisecond
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Scrollback.WindowSize <= 0 {
		return fmt.Errorf("scrollback.window_size must be positive, got %d", cfg.Scrollback.WindowSize)
	}
	if cfg.Scrollback.RowHeight <= 0 {
		return fmt.Errorf("scrollback.row_height must be positive, got %v", cfg.Scrollback.RowHeight)
	}
	if cfg.Scrollback.BufferPages < 0 {
		return fmt.Errorf("scrollback.buffer_pages must not be negative, got %v", cfg.Scrollback.BufferPages)
	}
	if cfg.Backfill.PageSize <= 0 {
		return fmt.Errorf("backfill.page_size must be positive, got %d", cfg.Backfill.PageSize)
	}
	if cfg.Backfill.Rate <= 0 {
		return fmt.Errorf("backfill.rate must be positive, got %v", cfg.Backfill.Rate)
	}
	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// WriteDefaults writes the current settings to path. An existing file is
// never overwritten.
func WriteDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for _, key := range viper.AllKeys() {
		if key == "config.path" {
			continue
		}
		v.SetDefault(key, viper.Get(key))
	}

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write default configuration: %w", err)
	}
	return nil
}
