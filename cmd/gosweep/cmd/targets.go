package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gosweep/internal/render"
	"github.com/dbsmedya/gosweep/internal/transport"
)

var targetsProbe bool

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Resolve and print the target list",
	Long: `Targets resolves the configured target source (static list or LDAP)
and prints the computers a scan would dispatch to, without scanning.

With --probe, each target's agent health endpoint is checked as well.

Example:
  gosweep targets --config gosweep.yaml --probe`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsProbe, "probe", false,
		"Probe each target's agent health endpoint")

	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadAndValidate()
	if err != nil {
		return err
	}

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	targets, err := resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Println("No targets resolved.")
		return nil
	}

	if targetsProbe {
		table := render.NewTable("TARGET", "AGENT")
		timeout := time.Duration(cfg.Scan.RequestTimeoutSeconds) * time.Second
		prober, err := transport.NewHTTPExecutor(cfg.Scan.AgentPort, timeout, log)
		if err != nil {
			return fmt.Errorf("failed to create prober: %w", err)
		}
		for _, target := range targets {
			status := "healthy"
			if err := prober.Probe(ctx, target); err != nil {
				status = fmt.Sprintf("unreachable (%v)", err)
			}
			table.AddRow(target, status)
		}
		fmt.Print(table.Render(true))
		return nil
	}

	table := render.NewTable("TARGET")
	for _, target := range targets {
		table.AddRow(target)
	}
	fmt.Print(table.Render(true))
	fmt.Printf("\n%d targets\n", len(targets))
	return nil
}
