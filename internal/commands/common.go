// Package commands implements the shipemit CLI subcommands.
package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dwsmith1983/shipemit/internal/config"
	"github.com/dwsmith1983/shipemit/internal/inventory"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

const defaultConfigPath = "config.yaml"

// eventFile is the on-disk shape of a vessel event: the known vessel
// attributes plus either positions (underway) or a duration (stationary).
type eventFile struct {
	ID            string              `yaml:"id"`
	Mode          string              `yaml:"mode"`
	Vessel        map[string]any      `yaml:"vessel"`
	Positions     []track.RawPosition `yaml:"positions"`
	DurationHours float64             `yaml:"duration_hours"`
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func printVesselInfo(info types.VesselInfo) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Vessel: %s", info.ShipType)
	if info.SizeUnit != types.UnitNA {
		fmt.Printf(" (%g %s)", info.Size, info.SizeUnit)
	}
	fmt.Println()
	fmt.Printf("  max speed:       %g kn\n", info.MaxSpeed)
	fmt.Printf("  engine power:    %g kW\n", info.EngineKW)
	fmt.Printf("  engine speed:    %g rpm\n", info.EngineRPM)
	fmt.Printf("  engine category: %s\n", info.EngineCategory)
	fmt.Printf("  nox tier:        %d\n", info.EngineNOxTier)
}

func printMasses(masses map[string]float64) {
	names := make([]string, 0, len(masses))
	for name := range masses {
		names = append(names, name)
	}
	sort.Strings(names)

	bold := color.New(color.Bold)
	_, _ = bold.Println("Emissions:")
	for _, name := range names {
		fmt.Printf("  %-6s %14.2f g\n", name, masses[name])
	}
}

func printResult(res inventory.Result) {
	if res.Err != nil {
		color.Red("job %s: FAILED: %v", res.ID, res.Err)
		return
	}
	color.Green("job %s: %s", res.ID, res.Vessel.ShipType)
	printMasses(res.Masses)
}
