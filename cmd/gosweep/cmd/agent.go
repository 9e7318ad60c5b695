package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/gosweep/internal/agent"
	"github.com/dbsmedya/gosweep/internal/logger"
)

var agentListen string

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the target-side scan agent",
	Long: `Agent serves the scan endpoint on this machine. The hub posts the
search filters to it and receives the matched files, path existence map and
per-path errors back.

The agent stamps every result with this machine's hostname.

Example:
  gosweep agent --listen :8321`,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentListen, "listen", ":8321",
		"Address to listen on")

	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	// The agent runs standalone on targets, so a missing hub config file is
	// fine; logging falls back to defaults.
	log := agentLogger()

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to determine hostname: %w", err)
	}

	cfg := agent.DefaultConfig()
	cfg.Address = agentListen

	server := agent.NewServer(afero.NewOsFs(), hostname, cfg, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Listen()
	}()

	log.Infow("Agent listening",
		"address", cfg.Address,
		"hostname", hostname,
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("agent server failed: %w", err)
	case <-sigChan:
		log.Warn("Received shutdown signal - draining connections...")
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("agent shutdown failed: %w", err)
		}
	}

	return nil
}

// agentLogger builds a logger from the config file when present, falling back
// to the default logger otherwise.
func agentLogger() *logger.Logger {
	_, log, err := loadAndValidate()
	if err != nil {
		return logger.NewDefault()
	}
	return log
}
