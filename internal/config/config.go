// Package config handles loading and validation of the emission
// configuration: the sea margin factor and the six rule lists everything
// else resolves against.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dwsmith1983/shipemit/internal/match"
	"github.com/dwsmith1983/shipemit/internal/vessel"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Config is the root emission configuration. It is immutable after
// construction and may be shared read-only by any number of concurrent
// calculators.
type Config struct {
	// SeaMarginAdjustmentFactor multiplies the propeller-law engine load
	// to account for wind and wave resistance.
	SeaMarginAdjustmentFactor float64

	// BaseValues maps base value names (e.g. "nox", "sfoc") to rule
	// lists resolving g_per_kwh for a vessel and engine group.
	BaseValues map[string][]match.Config

	// Pollutants maps pollutant names to rule lists resolving
	// base_value_name, multiplier, and offset_g_per_kwh.
	Pollutants map[string][]match.Config

	// EnginePowers resolves default auxiliary/boiler power per mode.
	EnginePowers []match.Config

	// GuessData and BuildTimes drive vessel attribute guessing.
	GuessData  []match.Config
	BuildTimes []match.Config

	// LowLoadFactors resolves per-load-bucket pollutant adjustment
	// factors applied to propulsion emissions.
	LowLoadFactors []match.Config

	guesser *vessel.Guesser
}

type rawConfig struct {
	SeaMarginAdjustmentFactor *float64                    `yaml:"sea_margin_adjustment_factor"`
	BaseValues                map[string][]map[string]any `yaml:"base_values"`
	Pollutants                map[string][]map[string]any `yaml:"pollutants"`
	DefaultEnginePowers       []map[string]any            `yaml:"default_engine_powers"`
	VesselInfoGuessData       []map[string]any            `yaml:"vessel_info_guess_data"`
	AverageVesselBuildTimes   []map[string]any            `yaml:"average_vessel_build_times"`
	LowLoadAdjustmentFactors  []map[string]any            `yaml:"low_load_adjustment_factors"`
}

// Load reads and parses an emission configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse builds a Config from YAML bytes and validates it.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if raw.SeaMarginAdjustmentFactor == nil {
		return nil, fmt.Errorf("%w: sea_margin_adjustment_factor is required", types.ErrValidation)
	}
	cfg := &Config{
		SeaMarginAdjustmentFactor: *raw.SeaMarginAdjustmentFactor,
		BaseValues:                make(map[string][]match.Config, len(raw.BaseValues)),
		Pollutants:                make(map[string][]match.Config, len(raw.Pollutants)),
	}

	var err error
	for name, rules := range raw.BaseValues {
		if cfg.BaseValues[name], err = match.ParseConfigs(rules); err != nil {
			return nil, fmt.Errorf("base_values %s: %w", name, err)
		}
	}
	for name, rules := range raw.Pollutants {
		if cfg.Pollutants[name], err = match.ParseConfigs(rules); err != nil {
			return nil, fmt.Errorf("pollutants %s: %w", name, err)
		}
	}
	if cfg.EnginePowers, err = match.ParseConfigs(raw.DefaultEnginePowers); err != nil {
		return nil, fmt.Errorf("default_engine_powers: %w", err)
	}
	if cfg.GuessData, err = match.ParseConfigs(raw.VesselInfoGuessData); err != nil {
		return nil, fmt.Errorf("vessel_info_guess_data: %w", err)
	}
	if cfg.BuildTimes, err = match.ParseConfigs(raw.AverageVesselBuildTimes); err != nil {
		return nil, fmt.Errorf("average_vessel_build_times: %w", err)
	}
	if cfg.LowLoadFactors, err = match.ParseConfigs(raw.LowLoadAdjustmentFactors); err != nil {
		return nil, fmt.Errorf("low_load_adjustment_factors: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if cfg.guesser, err = vessel.NewGuesser(cfg.GuessData, cfg.BuildTimes, nil); err != nil {
		return nil, fmt.Errorf("validating vessel guess data: %w", err)
	}
	return cfg, nil
}

// Guesser returns the vessel info guesser backed by this configuration.
func (c *Config) Guesser() *vessel.Guesser {
	return c.guesser
}

// DefaultVesselInfo returns the vessel info guessed when nothing is known
// about a vessel.
func (c *Config) DefaultVesselInfo() types.VesselInfo {
	return c.guesser.DefaultVesselInfo()
}
