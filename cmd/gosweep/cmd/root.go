package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	concurrency int
	outputDir   string
)

var rootCmd = &cobra.Command{
	Use:   "gosweep",
	Short: "Fleet-wide File Inventory Scanner",
	Long: `A CLI tool that scans a fleet of computers for files matching
configured path and extension filters, merges the per-machine results and
publishes a spreadsheet report to operators.

Features:
  - Target enumeration from a static list or an LDAP directory
  - Concurrent fan-out with a configurable in-flight bound
  - Per-target and per-path fault tolerance
  - Multi-sheet XLSX report with existence and error tables
  - Mail notifications with admin escalation on failures`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "gosweep.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Scan overrides
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0,
		"Override the number of targets scanned in flight at once")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"Override the report output directory")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel    string
	LogFormat   string
	Concurrency int
	OutputDir   string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		Concurrency: concurrency,
		OutputDir:   outputDir,
	}
}
