package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gosweep/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate checks the configuration file for structural problems
before a scan runs.

Checks performed:
  - Target source and its required fields (static list or LDAP)
  - Filter list: unique roots, extensions with leading dots
  - Scan settings: concurrency, transport, agent port
  - Notification recipients and SMTP settings when enabled
  - History database settings when enabled

Example:
  gosweep validate --config gosweep.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Concurrency, overrides.OutputDir)

	fmt.Printf("=== Configuration Validation ===\n")
	fmt.Printf("Config file: %s\n\n", configFile)

	if err := cfg.Validate(); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				fmt.Printf("❌ %s: %s\n", e.Field, e.Message)
			}
			return fmt.Errorf("validation failed with %d errors", len(validationErrs))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Target source: %s\n", cfg.Targets.Source)
	fmt.Printf("Filters: %d\n", len(cfg.Filters))
	fmt.Printf("Transport: %s\n", cfg.Scan.Transport)
	fmt.Printf("Notifications: %v\n", cfg.Notify.Enabled)
	fmt.Printf("History: %v\n\n", cfg.History.Enabled)
	fmt.Println("✅ Configuration is valid")
	return nil
}
