package emission

import (
	"fmt"

	"github.com/dwsmith1983/shipemit/internal/config"
	"github.com/dwsmith1983/shipemit/internal/match"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// pollutantFactors resolves the g/kWh emission factor of every pollutant
// for the vessel context in ctx, which must include the engine group.
// Pollutants whose rule list has no match for the context are left out:
// that is how a configuration scopes a pollutant to certain engine
// groups. A pollutant that does match but whose base value list does not
// is a configuration gap and fails.
func pollutantFactors(cfg *config.Config, ctx map[string]any) (map[string]float64, error) {
	factors := make(map[string]float64, len(cfg.Pollutants))
	for name, rules := range cfg.Pollutants {
		data, ok := match.First(rules, ctx)
		if !ok {
			continue
		}
		baseName, _ := data["base_value_name"].(string)
		raw, err := match.ResolveOne(cfg.BaseValues[baseName], ctx, "g_per_kwh")
		if err != nil {
			return nil, fmt.Errorf(
				"no base value %q matches vessel for pollutant %s: %w",
				baseName, name, err)
		}
		gPerKWh, _ := match.ToFloat64(raw)

		multiplier := 1.0
		if v, ok := data["multiplier"]; ok {
			multiplier, _ = match.ToFloat64(v)
		}
		offset := 0.0
		if v, ok := data["offset_g_per_kwh"]; ok {
			offset, _ = match.ToFloat64(v)
		}
		factors[name] = offset + multiplier*gPerKWh
	}
	return factors, nil
}

// enginePower resolves the default power in kW of a non-propulsion
// engine for the given mode.
func enginePower(cfg *config.Config, ctx map[string]any, mode types.Mode) (float64, error) {
	raw, err := match.ResolveOne(cfg.EnginePowers, ctx, string(mode))
	if err != nil {
		return 0, fmt.Errorf(
			"no default engine power for engine group %v: %w",
			ctx[types.AttrEngineGroup], err)
	}
	power, _ := match.ToFloat64(raw)
	return power, nil
}

// loadRange holds the pollutant adjustment factors for one propulsion
// load bucket.
type loadRange struct {
	ge, lt  float64
	factors map[string]float64
}

// applyTo multiplies the masses of the pollutants this bucket lists;
// pollutants it does not mention pass through unchanged.
func (r loadRange) applyTo(masses map[string]float64) {
	for name, factor := range r.factors {
		if mass, ok := masses[name]; ok {
			masses[name] = mass * factor
		}
	}
}

// lowLoadRanges resolves the low-load adjustment buckets for the vessel
// context, or nil if no rule applies. Shapes were checked at config load.
func lowLoadRanges(cfg *config.Config, ctx map[string]any) []loadRange {
	data, ok := match.First(cfg.LowLoadFactors, ctx)
	if !ok {
		return nil
	}
	rawRanges, _ := data["range_factors"].([]any)
	ranges := make([]loadRange, 0, len(rawRanges))
	for _, rawRF := range rawRanges {
		rf, _ := rawRF.(map[string]any)
		bounds, _ := rf["range"].(map[string]any)
		r := loadRange{factors: map[string]float64{}}
		r.ge, _ = match.ToFloat64(bounds["ge"])
		r.lt, _ = match.ToFloat64(bounds["lt"])
		rawFactors, _ := rf["factors"].(map[string]any)
		for name, factor := range rawFactors {
			r.factors[name], _ = match.ToFloat64(factor)
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// rangeFor returns the bucket containing load, if any.
func rangeFor(ranges []loadRange, load float64) (loadRange, bool) {
	for _, r := range ranges {
		if r.ge <= load && load < r.lt {
			return r, true
		}
	}
	return loadRange{}, false
}
