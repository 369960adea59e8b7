// Package emission turns sanitized vessel tracks and mooring periods into
// pollutant masses, resolving emission factors and engine powers against
// the loaded configuration.
package emission

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dwsmith1983/shipemit/internal/config"
	"github.com/dwsmith1983/shipemit/internal/metrics"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Calculator computes emissions for one vessel. It is safe for concurrent
// use once constructed.
type Calculator struct {
	cfg       *config.Config
	info      types.VesselInfo
	durations *DurationSanitizer
	logger    *slog.Logger
}

// NewCalculator builds a calculator for the given vessel. A nil durations
// sanitizer gets the default tolerances, a nil logger falls back to
// slog.Default.
func NewCalculator(cfg *config.Config, info types.VesselInfo, durations *DurationSanitizer, logger *slog.Logger) (*Calculator, error) {
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("vessel info: %w", err)
	}
	if durations == nil {
		durations = NewDurationSanitizer()
	}
	if err := durations.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{cfg: cfg, info: info, durations: durations, logger: logger}, nil
}

// VesselInfo returns the vessel this calculator was built for.
func (c *Calculator) VesselInfo() types.VesselInfo {
	return c.info
}

// LoadAtSTW returns the propulsion engine load fraction at a speed
// through water, following the propeller law cubed-speed relation scaled
// by the sea margin and clamped to full load.
func (c *Calculator) LoadAtSTW(stw float64) float64 {
	load := c.cfg.SeaMarginAdjustmentFactor * math.Pow(stw/c.info.MaxSpeed, 3)
	return math.Min(load, 1)
}

// TrackEmissions computes the pollutant masses in grams emitted over an
// underway track: propulsion emissions per segment plus auxiliary and
// boiler emissions over the track duration. The mode must be transit or
// maneuvering.
func (c *Calculator) TrackEmissions(trk *track.Track, mode types.Mode) (map[string]float64, error) {
	metrics.CalculationsTotal.Add(1)
	masses, err := c.trackEmissions(trk, mode)
	if err != nil {
		metrics.CalculationErrors.Add(1)
		return nil, err
	}
	return masses, nil
}

func (c *Calculator) trackEmissions(trk *track.Track, mode types.Mode) (map[string]float64, error) {
	if mode != types.ModeTransit && mode != types.ModeManeuvering {
		return nil, fmt.Errorf("%w: mode %s is not an underway mode", types.ErrValidation, mode)
	}

	propCtx := c.groupContext(types.EnginePropulsion)
	factors, err := pollutantFactors(c.cfg, propCtx)
	if err != nil {
		return nil, err
	}
	ranges := lowLoadRanges(c.cfg, propCtx)

	total := map[string]float64{}
	segments := trk.Segments()
	var kwh float64
	for _, seg := range segments {
		load := (c.LoadAtSTW(seg.Start.STW) + c.LoadAtSTW(seg.End.STW)) / 2
		segKWh := c.info.EngineKW * c.durations.AdjustedHours(seg) * load
		kwh += segKWh

		segMasses := make(map[string]float64, len(factors))
		for name, factor := range factors {
			segMasses[name] = segKWh * factor
		}
		if bucket, ok := rangeFor(ranges, load); ok {
			bucket.applyTo(segMasses)
		}
		for name, mass := range segMasses {
			total[name] += mass
		}
	}

	hours := trk.Duration().Hours()
	for _, group := range types.NonPropulsionGroups {
		if err := c.addStaticEmissions(total, group, mode, hours); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("track emissions calculated",
		"mode", mode,
		"segments", len(segments),
		"propulsion_kwh", kwh,
		"hours", hours)
	return total, nil
}

// MooringEmissions computes the pollutant masses in grams emitted by the
// auxiliary engines and boilers over a stationary period. The mode must
// be hotelling or anchorage.
func (c *Calculator) MooringEmissions(duration time.Duration, mode types.Mode) (map[string]float64, error) {
	metrics.CalculationsTotal.Add(1)
	masses, err := c.mooringEmissions(duration, mode)
	if err != nil {
		metrics.CalculationErrors.Add(1)
		return nil, err
	}
	return masses, nil
}

func (c *Calculator) mooringEmissions(duration time.Duration, mode types.Mode) (map[string]float64, error) {
	if mode != types.ModeHotelling && mode != types.ModeAnchorage {
		return nil, fmt.Errorf("%w: mode %s is not a stationary mode", types.ErrValidation, mode)
	}

	total := map[string]float64{}
	hours := duration.Hours()
	for _, group := range types.NonPropulsionGroups {
		if err := c.addStaticEmissions(total, group, mode, hours); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("mooring emissions calculated", "mode", mode, "hours", hours)
	return total, nil
}

// addStaticEmissions adds the emissions of an engine group that runs at a
// fixed mode-dependent power for the whole period.
func (c *Calculator) addStaticEmissions(total map[string]float64, group types.EngineGroup, mode types.Mode, hours float64) error {
	ctx := c.groupContext(group)
	factors, err := pollutantFactors(c.cfg, ctx)
	if err != nil {
		return err
	}
	power, err := enginePower(c.cfg, ctx, mode)
	if err != nil {
		return err
	}
	kwh := power * hours
	for name, factor := range factors {
		total[name] += kwh * factor
	}
	return nil
}

func (c *Calculator) groupContext(group types.EngineGroup) map[string]any {
	ctx := c.info.MatchContext()
	ctx[types.AttrEngineGroup] = string(group)
	return ctx
}
