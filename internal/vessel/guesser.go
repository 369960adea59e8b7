// Package vessel fills in missing vessel attributes from configured guess
// rules, including the two-pass NOx tier derivation via an estimated
// keel-laid year.
package vessel

import (
	"fmt"
	"log/slog"

	"github.com/dwsmith1983/shipemit/internal/match"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Guesser completes partial vessel information. For each missing
// attribute, the first guess rule whose criteria match the known values
// supplies it. Extra context keys in the input (length, width, ais_type,
// year_of_build) participate in matching even though they are not vessel
// attributes themselves.
type Guesser struct {
	guessData   []match.Config
	buildTimes  []match.Config
	logger      *slog.Logger
	defaultInfo types.VesselInfo
}

// NewGuesser creates a Guesser over the vessel_info_guess_data and
// average_vessel_build_times rule lists. The rule lists are validated:
// criteria-less rules must jointly cover every vessel attribute, every
// ship type needs a rule supplying its typical size, and a criteria-less
// build time fallback must exist.
func NewGuesser(guessData, buildTimes []match.Config, logger *slog.Logger) (*Guesser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guesser{guessData: guessData, buildTimes: buildTimes, logger: logger}
	if err := g.validate(); err != nil {
		return nil, err
	}
	info, err := g.GuessMissing(nil)
	if err != nil {
		return nil, fmt.Errorf("guessing default vessel info: %w", err)
	}
	g.defaultInfo = info
	return g, nil
}

// DefaultVesselInfo returns the info that would be guessed for a vessel
// nothing is known about.
func (g *Guesser) DefaultVesselInfo() types.VesselInfo {
	return g.defaultInfo
}

// GuessMissing completes the given partial vessel attributes into a full
// VesselInfo. Only missing attributes are filled in; values supplied by
// the caller are never overwritten.
//
// If the caller supplies size or size_unit, ship_type must be supplied
// too. A rule's size and size_unit are only adopted when its ship_type
// agrees with the one already established, so a unit can never end up
// attached to a ship type it makes no sense for.
//
// When no engine_nox_tier is given and the guessed engine category is c3,
// but a year_of_build is known while keel_laid_year is not, a second
// guessing pass runs: the keel-laid year is estimated by subtracting the
// configured average build time from year_of_build, and the tier is
// re-guessed with that year in the context.
func (g *Guesser) GuessMissing(values map[string]any) (types.VesselInfo, error) {
	if isNil(values[types.AttrShipType]) {
		sizeGiven := false
		if v, ok := values[types.AttrSize]; ok && !isNil(v) {
			f, numeric := match.ToFloat64(v)
			sizeGiven = !numeric || f != 0
		}
		if sizeGiven || !isNil(values[types.AttrSizeUnit]) {
			return types.VesselInfo{}, fmt.Errorf(
				"%w: size specified without a ship type", types.ErrValidation)
		}
	}

	attrs := make(map[string]any, len(types.VesselInfoAttrs))
	for _, name := range types.VesselInfoAttrs {
		if v, ok := values[name]; ok && !isNil(v) {
			attrs[name] = v
		}
	}
	attrs = g.guessMissingAttrs(attrs, values)

	if _, tierGiven := values[types.AttrEngineNOxTier]; !tierGiven {
		var err error
		attrs, err = g.maybeImproveNOxTierGuess(attrs, values)
		if err != nil {
			return types.VesselInfo{}, err
		}
	}
	return vesselInfoFromAttrs(attrs)
}

// guessMissingAttrs runs one resolution pass: every guess rule matching
// the combined context contributes the attributes still missing, until
// all attributes are known or the list is exhausted.
func (g *Guesser) guessMissingAttrs(attrs, values map[string]any) map[string]any {
	for _, cfg := range g.guessData {
		if cfg.Matches(mergedContext(values, attrs)) {
			attrs = attrsWithExtraData(attrs, cfg.Data)
		}
		if len(attrs) == len(types.VesselInfoAttrs) {
			break
		}
	}
	return attrs
}

// attrsWithExtraData merges a matching rule's payload into attrs. Known
// attributes always win. size and size_unit are only adopted when the
// payload's ship_type is compatible with the established one.
func attrsWithExtraData(attrs, data map[string]any) map[string]any {
	out := make(map[string]any, len(attrs)+len(data))
	for k, v := range data {
		if k != types.AttrSize && k != types.AttrSizeUnit {
			out[k] = v
		}
	}
	for k, v := range attrs {
		out[k] = v
	}
	newShipType, hasNew := data[types.AttrShipType]
	existing, hasExisting := out[types.AttrShipType]
	if hasNew && !isNil(newShipType) && (!hasExisting || existing == newShipType) {
		if size, ok := data[types.AttrSize]; ok {
			if _, taken := out[types.AttrSize]; !taken {
				out[types.AttrSize] = size
			}
		}
		if unit, ok := data[types.AttrSizeUnit]; ok {
			if _, taken := out[types.AttrSizeUnit]; !taken {
				out[types.AttrSizeUnit] = unit
			}
		}
	}
	return out
}

// maybeImproveNOxTierGuess runs the second guessing pass for large (c3)
// engines whose tier rules key off the keel-laid year: derive the year
// from year_of_build minus the average build time, drop the blind tier
// guess, and re-resolve with the derived year in the context. Fixed two
// passes, never more.
func (g *Guesser) maybeImproveNOxTierGuess(attrs, values map[string]any) (map[string]any, error) {
	category, _ := attrs[types.AttrEngineCategory].(string)
	if category != string(types.CategoryC3) ||
		!isNil(values[types.AttrKeelLaidYear]) || isNil(values[types.AttrYearOfBuild]) {
		return attrs, nil
	}
	yearOfBuild, ok := match.ToFloat64(values[types.AttrYearOfBuild])
	if !ok {
		return nil, fmt.Errorf("%w: year_of_build must be numeric", types.ErrValidation)
	}

	delete(attrs, types.AttrEngineNOxTier)
	buildTime, err := g.findAverageBuildTime(mergedContext(values, attrs))
	if err != nil {
		return nil, err
	}
	ctx := make(map[string]any, len(values)+1)
	for k, v := range values {
		ctx[k] = v
	}
	ctx[types.AttrKeelLaidYear] = yearOfBuild - buildTime
	return g.guessMissingAttrs(attrs, ctx), nil
}

func (g *Guesser) findAverageBuildTime(ctx map[string]any) (float64, error) {
	data, ok := match.First(g.buildTimes, ctx)
	if !ok {
		return 0, fmt.Errorf("%w: no average vessel build time matches context", types.ErrConfiguration)
	}
	years, ok := match.ToFloat64(data["build_time_years"])
	if !ok {
		return 0, fmt.Errorf("%w: build_time_years must be numeric", types.ErrConfiguration)
	}
	return years, nil
}

// mergedContext overlays attrs onto values; guessed and caller-supplied
// attributes win over plain context keys of the same name.
func mergedContext(values, attrs map[string]any) map[string]any {
	ctx := make(map[string]any, len(values)+len(attrs))
	for k, v := range values {
		if !isNil(v) {
			ctx[k] = v
		}
	}
	for k, v := range attrs {
		ctx[k] = v
	}
	return ctx
}

// vesselInfoFromAttrs builds and validates a VesselInfo from a completed
// attribute mapping. A missing attribute means no fallback chain covered
// it, which is a configuration error.
func vesselInfoFromAttrs(attrs map[string]any) (types.VesselInfo, error) {
	_, hasSize := attrs[types.AttrSize]
	_, hasUnit := attrs[types.AttrSizeUnit]
	if hasSize != hasUnit {
		return types.VesselInfo{}, fmt.Errorf(
			"%w: size and size_unit resolved unevenly", types.ErrConfiguration)
	}
	for _, name := range types.VesselInfoAttrs {
		if _, ok := attrs[name]; !ok {
			return types.VesselInfo{}, fmt.Errorf(
				"%w: no resolvable value for %s", types.ErrConfiguration, name)
		}
	}

	maxSpeed, ok := match.ToFloat64(attrs[types.AttrMaxSpeed])
	if !ok {
		return types.VesselInfo{}, fmt.Errorf("%w: max_speed must be numeric", types.ErrValidation)
	}
	engineKW, ok := match.ToFloat64(attrs[types.AttrEngineKW])
	if !ok {
		return types.VesselInfo{}, fmt.Errorf("%w: engine_kw must be numeric", types.ErrValidation)
	}
	engineRPM, ok := match.ToFloat64(attrs[types.AttrEngineRPM])
	if !ok {
		return types.VesselInfo{}, fmt.Errorf("%w: engine_rpm must be numeric", types.ErrValidation)
	}
	tier, ok := match.ToFloat64(attrs[types.AttrEngineNOxTier])
	if !ok || tier != float64(int(tier)) {
		return types.VesselInfo{}, fmt.Errorf("%w: engine_nox_tier must be an integer", types.ErrValidation)
	}
	size, ok := match.ToFloat64(attrs[types.AttrSize])
	if !ok {
		return types.VesselInfo{}, fmt.Errorf("%w: size must be numeric", types.ErrValidation)
	}
	category, _ := attrs[types.AttrEngineCategory].(string)
	shipType, _ := attrs[types.AttrShipType].(string)
	unit, _ := attrs[types.AttrSizeUnit].(string)

	info := types.VesselInfo{
		MaxSpeed:       maxSpeed,
		EngineKW:       engineKW,
		EngineRPM:      engineRPM,
		EngineCategory: types.EngineCategory(category),
		EngineNOxTier:  types.NOxTier(int(tier)),
		ShipType:       shipType,
		Size:           size,
		SizeUnit:       types.SizeUnit(unit),
	}
	if err := info.Validate(); err != nil {
		return types.VesselInfo{}, fmt.Errorf("guessed vessel info: %w", err)
	}
	return info, nil
}

func isNil(v any) bool { return v == nil }
