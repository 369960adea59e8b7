package vessel

import (
	"fmt"
	"sort"

	"github.com/dwsmith1983/shipemit/internal/match"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// validate checks the guess rule lists once at construction so that
// guessing can rely on a complete fallback chain:
//   - every rule payload must form a valid VesselInfo fragment,
//   - ship_type, size, and size_unit always appear together,
//   - criteria-less rules jointly supply every vessel attribute,
//   - every ship type has a ship_type-keyed rule supplying its size,
//   - build times are numeric and have a criteria-less fallback.
func (g *Guesser) validate() error {
	defaultsSeen := make(map[string]bool, len(types.VesselInfoAttrs))
	sizeSeenForType := make(map[string]bool, len(types.ValidShipTypeSizeUnits))

	for i, cfg := range g.guessData {
		if err := validateGuessPayload(cfg.Data); err != nil {
			return fmt.Errorf("guess rule %d: %w", i, err)
		}
		if len(cfg.Criteria) == 0 {
			for k := range cfg.Data {
				defaultsSeen[k] = true
			}
		}
		if shipTypeCriterion, ok := cfg.Criteria[types.AttrShipType]; ok && len(cfg.Criteria) == 1 {
			if _, hasSize := cfg.Data[types.AttrSize]; hasSize {
				for shipType := range types.ValidShipTypeSizeUnits {
					if shipTypeCriterion.Matches(shipType) {
						sizeSeenForType[shipType] = true
					}
				}
			}
		}
	}

	var missingDefaults []string
	for _, name := range types.VesselInfoAttrs {
		if !defaultsSeen[name] {
			missingDefaults = append(missingDefaults, name)
		}
	}
	if len(missingDefaults) > 0 {
		return fmt.Errorf(
			"%w: attributes %v are not present in any criteria-less guess rule",
			types.ErrConfiguration, missingDefaults)
	}

	var missingSizes []string
	for shipType := range types.ValidShipTypeSizeUnits {
		if !sizeSeenForType[shipType] {
			missingSizes = append(missingSizes, shipType)
		}
	}
	if len(missingSizes) > 0 {
		sort.Strings(missingSizes)
		return fmt.Errorf(
			"%w: no size and unit specified for ship types %v",
			types.ErrConfiguration, missingSizes)
	}

	defaultBuildTimeSeen := false
	for i, cfg := range g.buildTimes {
		if _, ok := match.ToFloat64(cfg.Data["build_time_years"]); !ok {
			return fmt.Errorf(
				"%w: build_time_years is not a number in build time rule %d",
				types.ErrConfiguration, i)
		}
		if len(cfg.Criteria) == 0 {
			defaultBuildTimeSeen = true
		}
	}
	if !defaultBuildTimeSeen {
		return fmt.Errorf(
			"%w: no criteria-less average vessel build time exists", types.ErrConfiguration)
	}
	return nil
}

// validateGuessPayload checks one rule's payload: only vessel attributes,
// type and size specified together, and the whole thing instantiable as
// part of a valid VesselInfo.
func validateGuessPayload(data map[string]any) error {
	known := make(map[string]bool, len(types.VesselInfoAttrs))
	for _, name := range types.VesselInfoAttrs {
		known[name] = true
	}
	for k := range data {
		if !known[k] {
			return fmt.Errorf("%w: unknown vessel attribute %q", types.ErrConfiguration, k)
		}
	}

	typeAndSize := []string{types.AttrShipType, types.AttrSize, types.AttrSizeUnit}
	present := 0
	for _, name := range typeAndSize {
		if _, ok := data[name]; ok {
			present++
		}
	}
	if present != 0 && present != len(typeAndSize) {
		return fmt.Errorf(
			"%w: attributes %v must always be specified together",
			types.ErrConfiguration, typeAndSize)
	}

	attrs := map[string]any{
		types.AttrMaxSpeed:       1,
		types.AttrEngineKW:       1,
		types.AttrEngineRPM:      1,
		types.AttrEngineCategory: string(types.CategoryC1),
		types.AttrEngineNOxTier:  1,
		types.AttrShipType:       "misc",
		types.AttrSize:           0,
		types.AttrSizeUnit:       string(types.UnitNA),
	}
	for k, v := range data {
		attrs[k] = v
	}
	if _, err := vesselInfoFromAttrs(attrs); err != nil {
		return fmt.Errorf("payload does not form a valid vessel info fragment: %w", err)
	}
	return nil
}
