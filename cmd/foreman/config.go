package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Foreman configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/foreman/config.yaml
Project-specific overrides can be placed in .foreman.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	agent, source := config.ResolveAgent(cfg, "")
	fmt.Printf("agent.name: %s (from %s)\n", agent, source)
	fmt.Printf("scheduling.stale_claim_minutes: %d\n", cfg.Scheduling.StaleClaimMinutes)

	names := make([]string, 0, len(cfg.Scheduling.ComplexityMultipliers))
	for name := range cfg.Scheduling.ComplexityMultipliers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("scheduling.complexity_multipliers.%s: %g\n", name, cfg.Scheduling.ComplexityMultipliers[name])
	}

	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
	historyPath := cfg.History.Path
	if historyPath == "" {
		historyPath = "(project data directory)"
	}
	fmt.Printf("history.path: %s\n", historyPath)
	fmt.Printf("watch.refresh_rate: %s\n", cfg.Watch.RefreshRate)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	lower := strings.ToLower(key)
	if factor, ok := multiplierKey(cfg, lower); ok {
		return strconv.FormatFloat(factor, 'g', -1, 64), nil
	}

	switch lower {
	case "agent.name":
		if cfg.Agent.Name == "" {
			return "(not set)", nil
		}
		return cfg.Agent.Name, nil
	case "scheduling.stale_claim_minutes":
		return strconv.Itoa(cfg.Scheduling.StaleClaimMinutes), nil
	case "history.enabled":
		return strconv.FormatBool(cfg.History.Enabled), nil
	case "history.path":
		if cfg.History.Path == "" {
			return "(project data directory)", nil
		}
		return cfg.History.Path, nil
	case "watch.refresh_rate":
		return cfg.Watch.RefreshRate.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	lower := strings.ToLower(key)
	if name, ok := strings.CutPrefix(lower, "scheduling.complexity_multipliers."); ok {
		factor, err := strconv.ParseFloat(value, 64)
		if err != nil || factor <= 0 {
			return fmt.Errorf("invalid multiplier for %s: %s", name, value)
		}
		if cfg.Scheduling.ComplexityMultipliers == nil {
			cfg.Scheduling.ComplexityMultipliers = map[string]float64{}
		}
		cfg.Scheduling.ComplexityMultipliers[name] = factor
		return nil
	}

	switch lower {
	case "agent.name":
		if err := config.ValidateAgentName(value); err != nil {
			return err
		}
		cfg.Agent.Name = value
	case "scheduling.stale_claim_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid value for stale_claim_minutes: %s", value)
		}
		cfg.Scheduling.StaleClaimMinutes = n
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for history.enabled: %w", err)
		}
		cfg.History.Enabled = b
	case "history.path":
		cfg.History.Path = value
	case "watch.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for refresh_rate: %w", err)
		}
		cfg.Watch.RefreshRate = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func multiplierKey(cfg *config.Config, key string) (float64, bool) {
	name, ok := strings.CutPrefix(key, "scheduling.complexity_multipliers.")
	if !ok {
		return 0, false
	}
	factor, ok := cfg.Scheduling.ComplexityMultipliers[name]
	return factor, ok
}
