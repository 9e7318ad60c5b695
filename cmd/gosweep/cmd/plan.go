package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gosweep/internal/render"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a scan would do without dispatching",
	Long: `Plan resolves the targets and prints the effective run settings and
search filters, without contacting any agent.

Use it to review a configuration change before the next scheduled scan.

Example:
  gosweep plan --config gosweep.yaml`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadAndValidate()
	if err != nil {
		return err
	}

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return err
	}

	targets, err := resolver.Resolve(context.Background())
	if err != nil {
		return fmt.Errorf("failed to resolve targets: %w", err)
	}

	filters := buildFilters(cfg)

	fmt.Println("=== Scan Plan ===")
	fmt.Print(render.KeyValues([][2]string{
		{"Config", GetConfigFile()},
		{"Target source", cfg.Targets.Source},
		{"Targets", strconv.Itoa(len(targets))},
		{"Transport", cfg.Scan.Transport},
		{"Concurrency", strconv.Itoa(cfg.Scan.Concurrency)},
		{"Filters", strconv.Itoa(filters.FilterCount())},
		{"Output dir", cfg.Report.OutputDir},
		{"Notify", strconv.FormatBool(cfg.Notify.Enabled)},
		{"History", strconv.FormatBool(cfg.History.Enabled)},
	}))

	fmt.Println("\nFilters:")
	filterTable := render.NewTable("ROOT", "EXTENSIONS")
	for _, root := range filters.Roots() {
		extensions, _ := filters.Extensions(root)
		filterTable.AddRow(root, strings.Join(extensions, ", "))
	}
	fmt.Print(filterTable.Render(true))

	if len(targets) > 0 {
		fmt.Println("\nTargets:")
		targetTable := render.NewTable("TARGET")
		for _, target := range targets {
			targetTable.AddRow(target)
		}
		fmt.Print(targetTable.Render(true))
	} else {
		fmt.Println("\nNo targets resolved; a scan would publish an empty report.")
	}

	return nil
}
