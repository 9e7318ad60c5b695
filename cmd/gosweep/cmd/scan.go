package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/gosweep/internal/config"
	"github.com/dbsmedya/gosweep/internal/directory"
	"github.com/dbsmedya/gosweep/internal/history"
	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/notify"
	"github.com/dbsmedya/gosweep/internal/report"
	"github.com/dbsmedya/gosweep/internal/runner"
	"github.com/dbsmedya/gosweep/internal/scan"
	"github.com/dbsmedya/gosweep/internal/transport"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full fleet inventory scan",
	Long: `Scan resolves the configured targets, dispatches the file search to
every target concurrently, merges the results and publishes an XLSX report.

The scan process follows these steps:
  1. Resolve the target list (static or LDAP)
  2. Dispatch the search filters to each target's agent
  3. Aggregate matched files, path existence and errors
  4. Publish the spreadsheet and notify operators

Unreachable targets and unreadable paths never abort the run; they are
reported in the error tables and counters instead.

Example:
  gosweep scan --config gosweep.yaml`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadAndValidate()
	if err != nil {
		return err
	}

	log.Infow("Starting inventory scan",
		"config", GetConfigFile(),
		"targets_source", cfg.Targets.Source,
		"transport", cfg.Scan.Transport,
	)

	filters := buildFilters(cfg)

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return err
	}

	executor, err := buildExecutor(cfg, log)
	if err != nil {
		return err
	}

	fanOut, err := scan.NewFanOut(executor, cfg.Scan.Concurrency, log)
	if err != nil {
		return fmt.Errorf("failed to create fan-out: %w", err)
	}

	publisher := report.NewPublisher(cfg.Report.OutputDir, log)

	var notifier runner.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewMailer(cfg.Notify, log)
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var recorder runner.HistoryRecorder
	if cfg.History.Enabled {
		manager := history.NewManager(&cfg.History)
		if err := manager.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to history database: %w", err)
		}
		defer manager.Close()

		store, err := history.NewStore(manager.DB, cfg.History.Table, log)
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
		if err := store.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize history schema: %w", err)
		}
		recorder = store
	}

	run, err := runner.NewRunner(resolver, fanOut, filters, publisher, notifier, recorder, log)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal - stopping dispatch...")
		cancel()
	}()

	outcome, err := run.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Scan cancelled by user")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	// Display results
	fmt.Printf("\n=== Scan Complete ===\n")
	fmt.Printf("Run: %s\n", outcome.RunID)
	fmt.Printf("Duration: %s\n", outcome.Duration.Round(time.Millisecond))
	fmt.Printf("Targets Resolved: %d\n", len(outcome.Targets))
	fmt.Printf("Targets Scanned: %d\n", outcome.Report.Counters.TargetsScanned)
	fmt.Printf("Matching Files: %d\n", outcome.Report.Counters.MatchingFiles)
	fmt.Printf("Search Errors: %d\n", outcome.Report.Counters.SearchErrors)
	fmt.Printf("Unreachable Targets: %d\n", len(outcome.Failures))
	fmt.Printf("Report: %s\n", outcome.ReportPath)

	if len(outcome.Failures) > 0 {
		fmt.Printf("\nUnreachable:\n")
		for _, failure := range outcome.Failures {
			fmt.Printf("  - %s: %v\n", failure.Target, failure.Err)
		}
	}

	return nil
}

// loadAndValidate loads the config file, applies CLI overrides, validates the
// result and builds the logger. Shared by every command that needs a config.
func loadAndValidate() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Concurrency, overrides.OutputDir)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}

// buildFilters converts the configured filter list into a PathFilterSet.
func buildFilters(cfg *config.Config) *scan.PathFilterSet {
	filters := scan.NewPathFilterSet()
	for _, f := range cfg.Filters {
		filters.Add(f.Root, f.Extensions...)
	}
	return filters
}

// buildResolver creates the target resolver named by targets.source.
func buildResolver(cfg *config.Config, log *logger.Logger) (runner.TargetResolver, error) {
	switch cfg.Targets.Source {
	case "ldap":
		resolver, err := directory.NewLDAPResolver(cfg.Targets.LDAP, cfg.LDAPFilter(), cfg.LDAPAttribute(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to create LDAP resolver: %w", err)
		}
		return resolver, nil
	default:
		return directory.NewStaticResolver(cfg.Targets.Static), nil
	}
}

// buildExecutor creates the transport executor named by scan.transport. The
// local transport scans this machine's filesystem and exists for single-host
// runs and smoke tests.
func buildExecutor(cfg *config.Config, log *logger.Logger) (scan.Executor, error) {
	switch cfg.Scan.Transport {
	case "local":
		return transport.NewLocalExecutor(afero.NewOsFs(), log), nil
	default:
		timeout := time.Duration(cfg.Scan.RequestTimeoutSeconds) * time.Second
		executor, err := transport.NewHTTPExecutor(cfg.Scan.AgentPort, timeout, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP executor: %w", err)
		}
		return executor, nil
	}
}
