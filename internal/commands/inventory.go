package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwsmith1983/shipemit/internal/inventory"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// NewInventoryCmd creates the inventory command.
func NewInventoryCmd() *cobra.Command {
	var (
		configPath string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "inventory <jobs-file>",
		Short: "Run a batch of emission calculations",
		Long: `Inventory reads a YAML list of vessel events and computes emissions
for each concurrently. Failed events are reported individually; the
batch always runs to completion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(cmd, configPath, args[0], workers)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "emission configuration file")
	cmd.Flags().IntVarP(&workers, "workers", "w", inventory.DefaultWorkers, "concurrent calculations")
	return cmd
}

func runInventory(cmd *cobra.Command, configPath, jobsPath string, workers int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var events []eventFile
	if err := readYAML(jobsPath, &events); err != nil {
		return err
	}
	jobs := make([]inventory.Job, 0, len(events))
	for i, event := range events {
		mode, err := types.ParseMode(event.Mode)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		jobs = append(jobs, inventory.Job{
			ID:          event.ID,
			VesselAttrs: event.Vessel,
			Mode:        mode,
			Positions:   event.Positions,
			Duration:    time.Duration(event.DurationHours * float64(time.Hour)),
		})
	}

	runner, err := inventory.NewRunner(cfg, inventory.Options{Workers: workers})
	if err != nil {
		return err
	}
	results, err := runner.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	totals := map[string]float64{}
	var failed int
	for _, res := range results {
		printResult(res)
		if res.Err != nil {
			failed++
			continue
		}
		for name, mass := range res.Masses {
			totals[name] += mass
		}
	}

	fmt.Println()
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Batch: %d events, %d failed\n", len(results), failed)
	printMasses(totals)
	if failed > 0 {
		return fmt.Errorf("%d of %d events failed", failed, len(results))
	}
	return nil
}
