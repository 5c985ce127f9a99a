package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jatakam/dashatree/internal/calendar"
)

// Config holds all runtime configuration for a dashatree session.
// Values are populated from .dashatree.yaml, DASHATREE_* env vars, and CLI flags.
type Config struct {
	ChartsDir        string  `mapstructure:"charts_dir"`
	OutputDir        string  `mapstructure:"output_dir"`
	VimsottariYears  float64 `mapstructure:"vimsottari_horizon_years"`
	CharaYears       float64 `mapstructure:"chara_horizon_years"`
	Workers          int     `mapstructure:"workers"`
	LedgerPath       string  `mapstructure:"ledger_path"`
	TelemetryPath    string  `mapstructure:"telemetry_path"`
	SiderealYearDays float64 `mapstructure:"sidereal_year_days"`
	WatchDebounceMs  int     `mapstructure:"watch_debounce_ms"`
	Quiet            bool    `mapstructure:"quiet"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, then validates the
// result.
func Load() (Config, error) {
	viper.SetDefault("charts_dir", "charts")
	viper.SetDefault("output_dir", "Kundali")
	viper.SetDefault("vimsottari_horizon_years", 120.0)
	viper.SetDefault("chara_horizon_years", 96.0)
	viper.SetDefault("workers", 4)
	viper.SetDefault("ledger_path", "dashatree.db")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("sidereal_year_days", calendar.SiderealYearDays)
	viper.SetDefault("watch_debounce_ms", 500)
	viper.SetDefault("quiet", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that would make a run meaningless.
func (c Config) Validate() error {
	if c.VimsottariYears <= 0 {
		return fmt.Errorf("config: vimsottari_horizon_years must be positive, got %v", c.VimsottariYears)
	}
	if c.CharaYears <= 0 {
		return fmt.Errorf("config: chara_horizon_years must be positive, got %v", c.CharaYears)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.SiderealYearDays <= 0 {
		return fmt.Errorf("config: sidereal_year_days must be positive, got %v", c.SiderealYearDays)
	}
	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("config: watch_debounce_ms must not be negative, got %d", c.WatchDebounceMs)
	}
	return nil
}
