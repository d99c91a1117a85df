// Package config loads cratescope settings from defaults, an optional
// TOML file and CRATESCOPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/git-pkgs/cratescope/internal/core"
)

// Config holds application configuration.
type Config struct {
	Registry RegistryConfig
	GitHub   GitHubConfig `mapstructure:"github"`
	HTTP     HTTPConfig   `mapstructure:"http"`
	UI       UIConfig     `mapstructure:"ui"`
	Log      LogConfig
}

// RegistryConfig selects the crates.io instance.
type RegistryConfig struct {
	URL      string `mapstructure:"url"`
	PageSize int    `mapstructure:"page_size"`
}

// GitHubConfig holds trending repository settings.
type GitHubConfig struct {
	URL      string `mapstructure:"url"`
	Language string `mapstructure:"language"`
}

// HTTPConfig holds transport settings shared by all API clients.
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// UIConfig holds browser settings.
type UIConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	DefaultQuery string        `mapstructure:"default_query"`
	TrendPeriod  string        `mapstructure:"trend_period"`
}

// LogConfig holds the log file location and level. The terminal is owned
// by the UI so logs always go to a file.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CRATESCOPE_, with dots replaced by underscores (CRATESCOPE_HTTP_TIMEOUT).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("registry.url", "https://crates.io")
	v.SetDefault("registry.page_size", 20)
	v.SetDefault("github.url", "https://api.github.com")
	v.SetDefault("github.language", "rust")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.user_agent", "cratescope (github.com/git-pkgs/cratescope)")
	v.SetDefault("ui.tick_interval", 250*time.Millisecond)
	v.SetDefault("ui.default_query", "rust")
	v.SetDefault("ui.trend_period", string(core.PeriodWeekly))
	v.SetDefault("log.path", defaultLogPath())
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CRATESCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "cratescope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CRATESCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func defaultLogPath() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		state = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(state, "cratescope", "cratescope.log")
}

// Validate rejects settings the browser cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Registry.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("registry.page_size must be positive, got %d", c.Registry.PageSize))
	}
	if c.UI.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("ui.tick_interval must be positive, got %s", c.UI.TickInterval))
	}
	if c.HTTP.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("http.max_retries must not be negative, got %d", c.HTTP.MaxRetries))
	}
	if !core.Period(c.UI.TrendPeriod).Valid() {
		errs = append(errs, fmt.Errorf("ui.trend_period must be daily, weekly or monthly, got %q", c.UI.TrendPeriod))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
