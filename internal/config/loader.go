package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Perform environment variable substitution
	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	// Substitute in LDAP config
	cfg.Targets.LDAP.URL = expandEnvVar(cfg.Targets.LDAP.URL)
	cfg.Targets.LDAP.BindDN = expandEnvVar(cfg.Targets.LDAP.BindDN)
	cfg.Targets.LDAP.BindPassword = expandEnvVar(cfg.Targets.LDAP.BindPassword)

	// Substitute in SMTP config
	cfg.Notify.SMTP.Host = expandEnvVar(cfg.Notify.SMTP.Host)
	cfg.Notify.SMTP.Username = expandEnvVar(cfg.Notify.SMTP.Username)
	cfg.Notify.SMTP.Password = expandEnvVar(cfg.Notify.SMTP.Password)
	cfg.Notify.SMTP.From = expandEnvVar(cfg.Notify.SMTP.From)

	// Substitute in history config
	cfg.History.Host = expandEnvVar(cfg.History.Host)
	cfg.History.User = expandEnvVar(cfg.History.User)
	cfg.History.Password = expandEnvVar(cfg.History.Password)
	cfg.History.Database = expandEnvVar(cfg.History.Database)

	// Substitute in report and logging config
	cfg.Report.OutputDir = expandEnvVar(cfg.Report.OutputDir)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, concurrency int, outputDir string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if concurrency > 0 {
		c.Scan.Concurrency = concurrency
	}
	if outputDir != "" {
		c.Report.OutputDir = outputDir
	}
}
