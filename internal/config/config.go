// Package config handles configuration loading for Foreman. It supports XDG
// config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// Config holds all configuration for Foreman.
type Config struct {
	Agent      AgentConfig      `mapstructure:"agent"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	History    HistoryConfig    `mapstructure:"history"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// AgentConfig identifies the agent making claims.
type AgentConfig struct {
	// Name is the identity recorded on claims. Empty means derive one from
	// the hostname at startup.
	Name string `mapstructure:"name"`
}

// SchedulingConfig tunes the critical path computation and claim hygiene.
type SchedulingConfig struct {
	// StaleClaimMinutes is how long a claim may sit in progress before the
	// reclaim command treats it as abandoned.
	StaleClaimMinutes int `mapstructure:"stale_claim_minutes"`
	// ComplexityMultipliers scale estimates into graph weights, keyed by
	// complexity name. Unknown complexities fall back to 1.0.
	ComplexityMultipliers map[string]float64 `mapstructure:"complexity_multipliers"`
}

// HistoryConfig controls the completion event log.
type HistoryConfig struct {
	// Enabled toggles event recording entirely.
	Enabled bool `mapstructure:"enabled"`
	// Path overrides the event database location. Empty means history.db
	// inside the project data directory.
	Path string `mapstructure:"path"`
}

// WatchConfig holds watch-mode display settings.
type WatchConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and environment
// variables.
// Precedence (highest to lowest):
// 1. Environment variables (FOREMAN_AGENT)
// 2. Project config (.foreman.yaml in current directory or parent)
// 3. User config (~/.config/foreman/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("agent.name", "FOREMAN_AGENT")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Agent.Name = os.ExpandEnv(cfg.Agent.Name)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Agent.Name = os.ExpandEnv(cfg.Agent.Name)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("agent.name", cfg.Agent.Name)
	v.Set("scheduling.stale_claim_minutes", cfg.Scheduling.StaleClaimMinutes)
	v.Set("scheduling.complexity_multipliers", cfg.Scheduling.ComplexityMultipliers)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("watch.refresh_rate", cfg.Watch.RefreshRate.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if one
// exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Multipliers converts the configured complexity multipliers into the typed
// map the scheduler consumes. Complexities the config leaves unset keep their
// default values.
func (c *Config) Multipliers() map[models.Complexity]float64 {
	out := map[models.Complexity]float64{
		models.ComplexityLow:      1.0,
		models.ComplexityMedium:   1.25,
		models.ComplexityHigh:     1.5,
		models.ComplexityCritical: 2.0,
	}
	for name, factor := range c.Scheduling.ComplexityMultipliers {
		if factor > 0 {
			out[models.Complexity(name)] = factor
		}
	}
	return out
}

// StaleClaimAge returns the configured stale claim threshold as a duration.
func (c *Config) StaleClaimAge() time.Duration {
	minutes := c.Scheduling.StaleClaimMinutes
	if minutes <= 0 {
		minutes = 120
	}
	return time.Duration(minutes) * time.Minute
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("agent.name", "")

	v.SetDefault("scheduling.stale_claim_minutes", 120)
	v.SetDefault("scheduling.complexity_multipliers", map[string]float64{
		"low":      1.0,
		"medium":   1.25,
		"high":     1.5,
		"critical": 2.0,
	})

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("watch.refresh_rate", "500ms")
}

// getUserConfigDir returns the XDG config directory for Foreman.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "foreman")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "foreman")
	}
	return filepath.Join(home, ".config", "foreman")
}

// findProjectConfig searches for .foreman.yaml in the current directory and
// parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".foreman.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Name: "",
		},
		Scheduling: SchedulingConfig{
			StaleClaimMinutes: 120,
			ComplexityMultipliers: map[string]float64{
				"low":      1.0,
				"medium":   1.25,
				"high":     1.5,
				"critical": 2.0,
			},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "",
		},
		Watch: WatchConfig{
			RefreshRate: 500 * time.Millisecond,
		},
	}
}
