// Package config provides configuration management for the gesture engine
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/normanking/cortexgesture/internal/budget"
	"github.com/normanking/cortexgesture/internal/gesture"
)

// Config holds all application configuration
type Config struct {
	Engine EngineConfig  `mapstructure:"engine"`
	Budget budget.Config `mapstructure:"budget"`
	Driver DriverConfig  `mapstructure:"driver"`
	Sync   SyncConfig    `mapstructure:"sync"`
	Log    LogConfig     `mapstructure:"log"`
}

// EngineConfig configures the gesture animation engine
type EngineConfig struct {
	AllowInterrupt bool `mapstructure:"allow_interrupt"`
}

// DriverConfig configures the conversational gesture driver
type DriverConfig struct {
	EnabledGestures  []string      `mapstructure:"enabled_gestures"`
	GestureFrequency time.Duration `mapstructure:"gesture_frequency"`
}

// SyncConfig configures the snapshot sync server
type SyncConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// LogConfig configures logging
type LogConfig struct {
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Engine: EngineConfig{
			AllowInterrupt: true,
		},
		Budget: budget.Config{
			TargetFPS:        60,
			BudgetAllocation: 1.0,
			MinQualityFactor: 0.3,
		},
		Driver: DriverConfig{
			EnabledGestures:  []string{"nod", "tilt", "emphasis", "acknowledge"},
			GestureFrequency: 5 * time.Second,
		},
		Sync: SyncConfig{
			Enabled:    true,
			ListenAddr: "localhost:8765",
		},
		Log: LogConfig{
			Dir:     filepath.Join(home, ".cortexgesture", "logs"),
			Level:   "info",
			Console: true,
		},
	}
}

// EnabledGestureTypes converts the configured gesture names.
func (c *DriverConfig) EnabledGestureTypes() []gesture.Type {
	types := make([]gesture.Type, 0, len(c.EnabledGestures))
	for _, name := range c.EnabledGestures {
		types = append(types, gesture.Type(name))
	}
	return types
}

// Validate checks configured values against the gesture catalog and budget
// parameter ranges.
func (c *Config) Validate() error {
	var unknown []string
	for _, name := range c.Driver.EnabledGestures {
		if !gesture.Known(gesture.Type(name)) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown gestures in driver.enabled_gestures: %s", strings.Join(unknown, ", "))
	}

	// Zero budget values mean "use the default"; only reject nonsense.
	if c.Budget.TargetFPS < 0 {
		return fmt.Errorf("budget.target_fps must not be negative, got %d", c.Budget.TargetFPS)
	}
	if c.Budget.BudgetAllocation < 0 || c.Budget.BudgetAllocation > 1 {
		return fmt.Errorf("budget.budget_allocation must be in [0,1], got %v", c.Budget.BudgetAllocation)
	}
	if c.Budget.MinQualityFactor < 0 || c.Budget.MinQualityFactor > 1 {
		return fmt.Errorf("budget.min_quality_factor must be in [0,1], got %v", c.Budget.MinQualityFactor)
	}

	return nil
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configDir, err := GetConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CORTEXGESTURE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("engine", cfg.Engine)
	viper.Set("budget", cfg.Budget)
	viper.Set("driver", cfg.Driver)
	viper.Set("sync", cfg.Sync)
	viper.Set("log", cfg.Log)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cortexgesture"), nil
}
