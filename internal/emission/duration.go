package emission

import (
	"fmt"

	"github.com/dwsmith1983/shipemit/internal/metrics"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Duration sanitizer defaults.
const (
	DefaultMaxDistanceDeviation      = 0.25
	DefaultMaxDurationIncreaseFactor = 10.0
)

// DurationSanitizer reconciles the duration of a track segment with the
// distance actually covered. AIS gaps leave segments whose reported
// timestamps imply far more or far less travel than the positions show;
// scaling the duration keeps energy figures anchored to the distance.
type DurationSanitizer struct {
	// MaxDistanceDeviation is the tolerated relative difference between
	// the distance implied by speed and duration and the geodesic
	// distance between the segment endpoints.
	MaxDistanceDeviation float64

	// MaxDurationIncreaseFactor caps how much a segment duration may be
	// stretched, so a near-zero reported speed cannot blow up a segment.
	MaxDurationIncreaseFactor float64
}

// NewDurationSanitizer returns a sanitizer with the default tolerances.
func NewDurationSanitizer() *DurationSanitizer {
	return &DurationSanitizer{
		MaxDistanceDeviation:      DefaultMaxDistanceDeviation,
		MaxDurationIncreaseFactor: DefaultMaxDurationIncreaseFactor,
	}
}

func (d *DurationSanitizer) validate() error {
	if d.MaxDistanceDeviation < 0 || d.MaxDistanceDeviation >= 1 {
		return fmt.Errorf("%w: max distance deviation must be in [0, 1)", types.ErrValidation)
	}
	if d.MaxDurationIncreaseFactor < 1 {
		return fmt.Errorf("%w: max duration increase factor must be at least 1", types.ErrValidation)
	}
	return nil
}

// AdjustedHours returns the segment duration in hours, scaled so that the
// distance implied by the average speed over ground stays within
// MaxDistanceDeviation of the endpoint distance. Segments with zero
// average speed are returned unchanged.
func (d *DurationSanitizer) AdjustedHours(seg track.Segment) float64 {
	hours := seg.Duration().Hours()
	avgSOG := (seg.Start.SOG + seg.End.SOG) / 2
	assumed := hours * avgSOG
	if assumed == 0 {
		return hours
	}

	actual := track.MetersToNauticalMiles(seg.Distance())
	factor := 1.0
	if minDist := actual * (1 - d.MaxDistanceDeviation); assumed < minDist {
		factor = minDist / assumed
	} else if maxDist := actual * (1 + d.MaxDistanceDeviation); assumed > maxDist {
		factor = maxDist / assumed
	}
	if factor > d.MaxDurationIncreaseFactor {
		factor = d.MaxDurationIncreaseFactor
	}
	if factor != 1 {
		metrics.DurationsAdjusted.Add(1)
	}
	return hours * factor
}
