package config

import (
	"fmt"
	"sort"

	"github.com/dwsmith1983/shipemit/internal/match"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

func (c *Config) validate() error {
	if c.SeaMarginAdjustmentFactor <= 0 {
		return fmt.Errorf("%w: sea_margin_adjustment_factor must be positive", types.ErrValidation)
	}
	if err := c.validateBaseValues(); err != nil {
		return err
	}
	if err := c.validatePollutants(); err != nil {
		return err
	}
	if err := c.validateEnginePowers(); err != nil {
		return err
	}
	return c.validateLowLoadFactors()
}

func (c *Config) validateBaseValues() error {
	for name, rules := range c.BaseValues {
		for i, rule := range rules {
			if _, ok := match.ToFloat64(rule.Data["g_per_kwh"]); !ok {
				return fmt.Errorf(
					"%w: base_values %s rule %d: g_per_kwh must be a number",
					types.ErrValidation, name, i)
			}
		}
	}
	return nil
}

func (c *Config) validatePollutants() error {
	for name, rules := range c.Pollutants {
		for i, rule := range rules {
			baseName, _ := rule.Data["base_value_name"].(string)
			if _, ok := c.BaseValues[baseName]; !ok {
				return fmt.Errorf(
					"%w: pollutants %s rule %d: no base values named %q",
					types.ErrValidation, name, i, baseName)
			}
			if v, ok := rule.Data["multiplier"]; ok {
				if _, numeric := match.ToFloat64(v); !numeric {
					return fmt.Errorf(
						"%w: pollutants %s rule %d: multiplier must be a number",
						types.ErrValidation, name, i)
				}
			}
			if v, ok := rule.Data["offset_g_per_kwh"]; ok {
				if _, numeric := match.ToFloat64(v); !numeric {
					return fmt.Errorf(
						"%w: pollutants %s rule %d: offset_g_per_kwh must be a number",
						types.ErrValidation, name, i)
				}
			}
		}
	}
	return nil
}

// validateEnginePowers requires every rule to carry a power for all four
// modes, and a fallback per non-propulsion engine group whose only
// criterion is the engine group, so power resolution can never come up
// empty.
func (c *Config) validateEnginePowers() error {
	missingFallbacks := map[types.EngineGroup]bool{}
	for _, group := range types.NonPropulsionGroups {
		missingFallbacks[group] = true
	}
	for i, rule := range c.EnginePowers {
		for _, mode := range types.Modes {
			if _, ok := match.ToFloat64(rule.Data[string(mode)]); !ok {
				return fmt.Errorf(
					"%w: default_engine_powers rule %d: power for mode %s must be a number",
					types.ErrValidation, i, mode)
			}
		}
		if criterion, ok := rule.Criteria[types.AttrEngineGroup]; ok && len(rule.Criteria) == 1 {
			for group := range missingFallbacks {
				if criterion.Matches(string(group)) {
					delete(missingFallbacks, group)
				}
			}
		}
	}
	if len(missingFallbacks) > 0 {
		var groups []string
		for group := range missingFallbacks {
			groups = append(groups, string(group))
		}
		sort.Strings(groups)
		return fmt.Errorf(
			"%w: no criteria-less default engine powers for engine groups %v",
			types.ErrConfiguration, groups)
	}
	return nil
}

func (c *Config) validateLowLoadFactors() error {
	for i, rule := range c.LowLoadFactors {
		rangeFactors, ok := rule.Data["range_factors"].([]any)
		if !ok || len(rangeFactors) == 0 {
			return fmt.Errorf(
				"%w: low_load_adjustment_factors rule %d: no range_factors defined",
				types.ErrValidation, i)
		}
		for j, rawRF := range rangeFactors {
			rf, ok := rawRF.(map[string]any)
			if !ok {
				return fmt.Errorf(
					"%w: low_load_adjustment_factors rule %d entry %d: not a mapping",
					types.ErrValidation, i, j)
			}
			bounds, _ := rf["range"].(map[string]any)
			ge, geOK := match.ToFloat64(bounds["ge"])
			lt, ltOK := match.ToFloat64(bounds["lt"])
			if !geOK || !ltOK || ge >= lt {
				return fmt.Errorf(
					"%w: low_load_adjustment_factors rule %d entry %d: invalid range",
					types.ErrValidation, i, j)
			}
			factors, _ := rf["factors"].(map[string]any)
			for pollutant, factor := range factors {
				if _, numeric := match.ToFloat64(factor); !numeric {
					return fmt.Errorf(
						"%w: low_load_adjustment_factors rule %d entry %d: factor for %s must be a number",
						types.ErrValidation, i, j, pollutant)
				}
			}
		}
	}
	return nil
}
