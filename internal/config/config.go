// Package config provides configuration management for the pattern engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"walkrisk-engine/internal/patterns"
)

// Config holds all application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Store     StoreConfig     `mapstructure:"store"`
	Web       WebConfig       `mapstructure:"web"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// GameConfig holds game engine tuning.
type GameConfig struct {
	HistoryCap    int           `mapstructure:"history_cap"`
	ChallengeTTL  time.Duration `mapstructure:"challenge_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	DefaultMode   string        `mapstructure:"default_mode"`
}

// GeneratorConfig holds synthetic chart generation presets. The shape
// ratios drive how pronounced each generated formation is.
type GeneratorConfig struct {
	BasePrice     float64                 `mapstructure:"base_price"`
	HeadShoulders HeadShouldersPreset     `mapstructure:"head_shoulders"`
	DoubleTop     DoubleTopPreset         `mapstructure:"double_top"`
	Triangle      AscendingTrianglePreset `mapstructure:"ascending_triangle"`
}

// HeadShouldersPreset shapes a synthetic head and shoulders formation.
type HeadShouldersPreset struct {
	Days          int     `mapstructure:"days"`
	LeftShoulder  float64 `mapstructure:"left_shoulder"`
	Head          float64 `mapstructure:"head"`
	RightShoulder float64 `mapstructure:"right_shoulder"`
	Valley        float64 `mapstructure:"valley"`
	Noise         float64 `mapstructure:"noise"`
}

// DoubleTopPreset shapes a synthetic double top formation.
type DoubleTopPreset struct {
	Days       int     `mapstructure:"days"`
	FirstPeak  float64 `mapstructure:"first_peak"`
	SecondPeak float64 `mapstructure:"second_peak"`
	Valley     float64 `mapstructure:"valley"`
	Noise      float64 `mapstructure:"noise"`
}

// AscendingTrianglePreset shapes a synthetic ascending triangle formation.
type AscendingTrianglePreset struct {
	Days        int     `mapstructure:"days"`
	Resistance  float64 `mapstructure:"resistance"`
	Support     float64 `mapstructure:"support"`
	Oscillation int     `mapstructure:"oscillation"`
	Breakout    float64 `mapstructure:"breakout"`
	Noise       float64 `mapstructure:"noise"`
}

// Presets converts the configured shape ratios into generator presets.
func (g GeneratorConfig) Presets() patterns.GeneratorPresets {
	return patterns.GeneratorPresets{
		BasePrice: g.BasePrice,
		HeadShoulders: patterns.HeadShouldersPreset{
			Days:          g.HeadShoulders.Days,
			LeftShoulder:  g.HeadShoulders.LeftShoulder,
			Head:          g.HeadShoulders.Head,
			RightShoulder: g.HeadShoulders.RightShoulder,
			Valley:        g.HeadShoulders.Valley,
			Noise:         g.HeadShoulders.Noise,
		},
		DoubleTop: patterns.DoubleTopPreset{
			Days:       g.DoubleTop.Days,
			FirstPeak:  g.DoubleTop.FirstPeak,
			SecondPeak: g.DoubleTop.SecondPeak,
			Valley:     g.DoubleTop.Valley,
			Noise:      g.DoubleTop.Noise,
		},
		Triangle: patterns.TrianglePreset{
			Days:        g.Triangle.Days,
			Resistance:  g.Triangle.Resistance,
			Support:     g.Triangle.Support,
			Oscillation: g.Triangle.Oscillation,
			Breakout:    g.Triangle.Breakout,
			Noise:       g.Triangle.Noise,
		},
	}
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "memory", "sqlite"
	Path    string `mapstructure:"path"`
}

// WebConfig holds HTTP server configuration.
type WebConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/walkrisk"
	}
	return filepath.Join(home, ".config", "walkrisk")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       true,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		Game: GameConfig{
			HistoryCap:    20,
			ChallengeTTL:  time.Hour,
			SweepInterval: 5 * time.Minute,
			DefaultMode:   "pattern_recognition",
		},
		Generator: GeneratorConfig{
			BasePrice: 100,
			HeadShoulders: HeadShouldersPreset{
				Days:          60,
				LeftShoulder:  1.10,
				Head:          1.20,
				RightShoulder: 1.08,
				Valley:        0.95,
				Noise:         0.02,
			},
			DoubleTop: DoubleTopPreset{
				Days:       40,
				FirstPeak:  1.15,
				SecondPeak: 1.14,
				Valley:     0.92,
				Noise:      0.02,
			},
			Triangle: AscendingTrianglePreset{
				Days:        30,
				Resistance:  1.10,
				Support:     0.95,
				Oscillation: 6,
				Breakout:    1.10,
				Noise:       0.015,
			},
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    filepath.Join(DefaultConfigDir(), "walkrisk.db"),
		},
		Web: WebConfig{
			Listen:       ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

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
	if v := os.Getenv("WALKRISK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WALKRISK_LISTEN"); v != "" {
		cfg.Web.Listen = v
	}
	if v := os.Getenv("WALKRISK_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("WALKRISK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Store.Backend != "memory" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend: %s (must be 'memory' or 'sqlite')", c.Store.Backend)
	}
	if c.Game.HistoryCap <= 0 {
		return fmt.Errorf("history_cap must be positive")
	}
	if c.Game.ChallengeTTL <= 0 {
		return fmt.Errorf("challenge_ttl must be positive")
	}
	if c.Game.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	if c.Generator.BasePrice <= 0 {
		return fmt.Errorf("base_price must be positive")
	}
	if err := validatePreset("head_shoulders", c.Generator.HeadShoulders.Days, c.Generator.HeadShoulders.Noise); err != nil {
		return err
	}
	if err := validatePreset("double_top", c.Generator.DoubleTop.Days, c.Generator.DoubleTop.Noise); err != nil {
		return err
	}
	if err := validatePreset("ascending_triangle", c.Generator.Triangle.Days, c.Generator.Triangle.Noise); err != nil {
		return err
	}
	if c.Generator.HeadShoulders.Head <= c.Generator.HeadShoulders.LeftShoulder ||
		c.Generator.HeadShoulders.Head <= c.Generator.HeadShoulders.RightShoulder {
		return fmt.Errorf("head_shoulders: head ratio must exceed both shoulder ratios")
	}
	if c.Generator.Triangle.Oscillation < 2 {
		return fmt.Errorf("ascending_triangle: oscillation must be at least 2")
	}
	return nil
}

func validatePreset(name string, days int, noise float64) error {
	if days < 10 {
		return fmt.Errorf("%s: days must be at least 10", name)
	}
	if noise < 0 || noise > 0.5 {
		return fmt.Errorf("%s: noise must be between 0 and 0.5", name)
	}
	return nil
}
