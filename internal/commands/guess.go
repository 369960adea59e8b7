package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGuessCmd creates the guess command.
func NewGuessCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "guess [vessel-file]",
		Short: "Guess missing vessel attributes from the configuration",
		Long: `Guess reads the known vessel attributes from a YAML file and fills
in everything missing from the configured guess rules. Without a file
it prints the vessel assumed when nothing is known.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := map[string]any{}
			if len(args) > 0 {
				if err := readYAML(args[0], &attrs); err != nil {
					return err
				}
			}
			return runGuess(configPath, attrs)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "emission configuration file")
	return cmd
}

func runGuess(configPath string, attrs map[string]any) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	info, err := cfg.Guesser().GuessMissing(attrs)
	if err != nil {
		return fmt.Errorf("guessing vessel info: %w", err)
	}
	printVesselInfo(info)
	return nil
}
