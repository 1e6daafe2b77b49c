package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mgraupera/engram/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage engram configuration",
		Long: `View and modify engram configuration settings.

Configuration is stored in ~/.engram/config.yaml.

Examples:
  engram config list                      # Show all settings
  engram config get noise.primary         # Get a specific setting
  engram config set trials.per_pattern 50`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				json.NewEncoder(out).Encode(cfg)
				return nil
			}

			fmt.Fprintln(out, "Configuration (~/.engram/config.yaml):")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Recall settings:")
			fmt.Fprintf(out, "  recall.max_iterations:  %d\n", cfg.Recall.MaxIterations)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Noise settings:")
			fmt.Fprintf(out, "  noise.primary:    %.2f\n", cfg.Noise.Primary)
			fmt.Fprintf(out, "  noise.secondary:  %.2f\n", cfg.Noise.Secondary)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Trial settings:")
			fmt.Fprintf(out, "  trials.per_pattern:  %d\n", cfg.Trials.PerPattern)
			if cfg.Trials.Seed == 0 {
				fmt.Fprintf(out, "  trials.seed:         0 (derive from clock)\n")
			} else {
				fmt.Fprintf(out, "  trials.seed:         %d\n", cfg.Trials.Seed)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Logging settings:")
			fmt.Fprintf(out, "  logging.level:  %s\n", valueOrDefault(cfg.Logging.Level, "(default)"))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Data directory: %s\n", valueOrDefault(cfg.DataDir, "~/.engram"))

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(out).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Fprintf(out, "Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Fprintf(out, "%s = %v\n", key, value)
			}

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(out).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Fprintf(out, "Error: %v\n", err)
				}
				return nil
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Fprintf(out, "Set %s = %s\n", key, value)
			}

			return nil
		},
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (interface{}, bool) {
	switch key {
	case "data_dir":
		return cfg.DataDir, true
	case "recall.max_iterations":
		return cfg.Recall.MaxIterations, true
	case "noise.primary":
		return cfg.Noise.Primary, true
	case "noise.secondary":
		return cfg.Noise.Secondary, true
	case "trials.per_pattern":
		return cfg.Trials.PerPattern, true
	case "trials.seed":
		return cfg.Trials.Seed, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "data_dir":
		cfg.DataDir = value
	case "recall.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid iteration budget: %s (must be a positive integer)", value)
		}
		cfg.Recall.MaxIterations = n
	case "noise.primary", "noise.secondary":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid noise level: %s (must be a number between 0 and 1)", value)
		}
		if key == "noise.primary" {
			cfg.Noise.Primary = f
		} else {
			cfg.Noise.Secondary = f
		}
	case "trials.per_pattern":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid trial count: %s (must be a positive integer)", value)
		}
		cfg.Trials.PerPattern = n
	case "trials.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s (must be an integer)", value)
		}
		cfg.Trials.Seed = n
	case "logging.level":
		validLevels := map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[value] {
			return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", value)
		}
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
