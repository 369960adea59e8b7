package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dwsmith1983/shipemit/internal/emission"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// NewMooringCmd creates the mooring command.
func NewMooringCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mooring <event-file>",
		Short: "Compute emissions for a stationary period",
		Long: `Mooring reads a vessel event file with a duration_hours field and
computes the auxiliary and boiler emissions over that period. The
event mode defaults to hotelling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMooring(configPath, args[0])
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "emission configuration file")
	return cmd
}

func runMooring(configPath, eventPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var event eventFile
	if err := readYAML(eventPath, &event); err != nil {
		return err
	}
	mode := types.ModeHotelling
	if event.Mode != "" {
		if mode, err = types.ParseMode(event.Mode); err != nil {
			return err
		}
	}

	info, err := cfg.Guesser().GuessMissing(event.Vessel)
	if err != nil {
		return fmt.Errorf("guessing vessel info: %w", err)
	}
	calc, err := emission.NewCalculator(cfg, info, nil, nil)
	if err != nil {
		return err
	}

	duration := time.Duration(event.DurationHours * float64(time.Hour))
	masses, err := calc.MooringEmissions(duration, mode)
	if err != nil {
		return fmt.Errorf("calculating mooring emissions: %w", err)
	}

	printVesselInfo(info)
	fmt.Printf("Period: %s (%s)\n", duration, mode)
	printMasses(masses)
	return nil
}
