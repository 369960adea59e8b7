package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwsmith1983/shipemit/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "shipemit",
		Short: "Ship emission estimation from AIS tracks and mooring periods",
		Long: `Shipemit estimates greenhouse gas and pollutant emissions of ships.
Vessel attributes missing from the input are guessed from configured
rules, AIS tracks are sanitized before use, and emission factors,
engine powers, and load adjustments all resolve against the same
first-match-wins rule lists in the configuration file.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewGuessCmd(),
		commands.NewTrackCmd(),
		commands.NewMooringCmd(),
		commands.NewInventoryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
