package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwsmith1983/shipemit/internal/emission"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// NewTrackCmd creates the track command.
func NewTrackCmd() *cobra.Command {
	var (
		configPath string
		maxSOG     float64
	)

	cmd := &cobra.Command{
		Use:   "track <event-file>",
		Short: "Compute emissions for an underway track",
		Long: `Track reads a vessel event file with position reports, sanitizes the
track, and computes the pollutant masses emitted while underway. The
event mode defaults to transit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(configPath, args[0], maxSOG)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "emission configuration file")
	cmd.Flags().Float64Var(&maxSOG, "max-sog", 0, "discard positions implying speeds above this many knots (0 accepts all)")
	return cmd
}

func runTrack(configPath, eventPath string, maxSOG float64) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var event eventFile
	if err := readYAML(eventPath, &event); err != nil {
		return err
	}
	mode := types.ModeTransit
	if event.Mode != "" {
		if mode, err = types.ParseMode(event.Mode); err != nil {
			return err
		}
	}

	info, err := cfg.Guesser().GuessMissing(event.Vessel)
	if err != nil {
		return fmt.Errorf("guessing vessel info: %w", err)
	}

	var sogPlausible track.SOGPlausible
	var distancePlausible track.DistancePlausible
	if maxSOG > 0 {
		sogPlausible = track.SpeedBelow(maxSOG)
		distancePlausible = track.CoverableAt(maxSOG)
	}
	trk := track.NewSanitizer(sogPlausible, distancePlausible, nil).Sanitize(event.Positions)

	calc, err := emission.NewCalculator(cfg, info, nil, nil)
	if err != nil {
		return err
	}
	masses, err := calc.TrackEmissions(trk, mode)
	if err != nil {
		return fmt.Errorf("calculating track emissions: %w", err)
	}

	printVesselInfo(info)
	fmt.Printf("Track: %d positions, %.2f nm over %s (%s)\n",
		len(trk.Positions),
		track.MetersToNauticalMiles(trk.Distance()),
		trk.Duration(), mode)
	printMasses(masses)
	return nil
}
