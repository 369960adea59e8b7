package track

import (
	"log/slog"
	"sort"
	"time"

	"github.com/dwsmith1983/shipemit/internal/metrics"
)

// MaxCalculatedSpeed caps speeds in knots derived from position deltas.
// Reported speeds are taken at face value; calculated ones are not
// trusted beyond this.
const MaxCalculatedSpeed = 16

// SOGPlausible reports whether a reported speed over ground is credible
// for the vessel at hand.
type SOGPlausible func(sog float64) bool

// DistancePlausible reports whether a vessel could have covered the
// distance between two position reports in the elapsed time.
type DistancePlausible func(ts1 time.Time, lon1, lat1 float64, ts2 time.Time, lon2, lat2 float64) bool

// SpeedBelow returns a predicate accepting speeds up to limit knots.
func SpeedBelow(limit float64) SOGPlausible {
	return func(sog float64) bool { return sog <= limit }
}

// CoverableAt returns a distance predicate accepting position pairs whose
// implied speed is at most limit knots. A pair with zero elapsed time is
// only coverable when the positions coincide.
func CoverableAt(limit float64) DistancePlausible {
	return func(ts1 time.Time, lon1, lat1 float64, ts2 time.Time, lon2, lat2 float64) bool {
		distance := MetersToNauticalMiles(GreatCircleDistance(lon1, lat1, lon2, lat2))
		hours := ts2.Sub(ts1).Hours()
		if hours <= 0 {
			return distance == 0
		}
		return distance/hours <= limit
	}
}

// Sanitizer turns raw reported positions into a consistent Track:
// implausible positions are discarded, missing or implausible kinematic
// fields are recomputed from accepted neighbors, and speed through water
// is derived from tide data.
type Sanitizer struct {
	sogPlausible      SOGPlausible
	distancePlausible DistancePlausible
	logger            *slog.Logger
}

// NewSanitizer creates a Sanitizer. Nil predicates accept everything;
// a nil logger falls back to slog.Default().
func NewSanitizer(sogPlausible SOGPlausible, distancePlausible DistancePlausible, logger *slog.Logger) *Sanitizer {
	if sogPlausible == nil {
		sogPlausible = func(float64) bool { return true }
	}
	if distancePlausible == nil {
		distancePlausible = func(time.Time, float64, float64, time.Time, float64, float64) bool { return true }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sanitizer{
		sogPlausible:      sogPlausible,
		distancePlausible: distancePlausible,
		logger:            logger,
	}
}

// Sanitize builds a Track from raw position reports.
//
// Input is sorted chronologically first. A position is discarded entirely
// when the vessel could not plausibly have reached it from the previous
// accepted position in the claimed time; discarded positions never
// influence later plausibility checks or repairs. Missing or implausible
// sog values are replaced by the average implied speed of the adjacent
// accepted segments, capped at MaxCalculatedSpeed. Missing cog values are
// replaced by the bearing toward accepted neighbors, missing headings by
// the cog. Incomplete or invalid tide data zeroes both tide fields.
func (s *Sanitizer) Sanitize(raw []RawPosition) *Track {
	ordered := make([]RawPosition, len(raw))
	copy(ordered, raw)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].TS < ordered[j].TS })

	var discarded int
	accepted := make([]RawPosition, 0, len(ordered))
	for _, candidate := range ordered {
		if len(accepted) > 0 {
			prev := accepted[len(accepted)-1]
			if !s.distancePlausible(
				time.Unix(prev.TS, 0).UTC(), prev.Lon, prev.Lat,
				time.Unix(candidate.TS, 0).UTC(), candidate.Lon, candidate.Lat,
			) {
				discarded++
				continue
			}
		}
		accepted = append(accepted, candidate)
	}

	var sogs, cogs, headings int
	t := &Track{Positions: make([]Position, 0, len(accepted))}
	for i, p := range accepted {
		tideFlow, tideBearing := 0.0, 0.0
		if p.TideFlow != nil && p.TideBearing != nil &&
			*p.TideFlow >= 0 && *p.TideBearing >= 0 && *p.TideBearing < 360 {
			tideFlow, tideBearing = *p.TideFlow, *p.TideBearing
		}

		var sog float64
		if p.SOG == nil || *p.SOG < 0 || !s.sogPlausible(*p.SOG) {
			sogs++
			sog = calculateSOG(accepted, i)
		} else {
			sog = *p.SOG
		}

		var cog float64
		if p.COG == nil || *p.COG < 0 || *p.COG >= 360 {
			cogs++
			cog = calculateCOG(accepted, i)
		} else {
			cog = *p.COG
		}

		var heading float64
		if p.Heading == nil || *p.Heading < 0 || *p.Heading >= 360 {
			headings++
			heading = cog
		} else {
			heading = *p.Heading
		}

		t.Positions = append(t.Positions, newPosition(
			time.Unix(p.TS, 0).UTC(), p.Lon, p.Lat, sog, cog, heading, tideFlow, tideBearing))
	}

	metrics.TracksSanitized.Add(1)
	metrics.PositionsDiscarded.Add(int64(discarded))
	metrics.SogsRepaired.Add(int64(sogs))
	metrics.CoursesRepaired.Add(int64(cogs))
	metrics.HeadingsRepaired.Add(int64(headings))
	if discarded+sogs+cogs+headings > 0 {
		s.logger.Debug("sanitized track",
			"positions", len(t.Positions),
			"discarded", discarded,
			"sogs_repaired", sogs,
			"cogs_repaired", cogs,
			"headings_repaired", headings,
		)
	}
	return t
}

// calculateSOG derives a speed for accepted[i] from the implied speeds of
// the segments toward its accepted neighbors, single-sided at the track
// edges. Segments with zero elapsed time contribute nothing.
func calculateSOG(accepted []RawPosition, i int) float64 {
	pairs := neighborPairs(accepted, i)
	if len(pairs) == 0 {
		return 0
	}
	var acc float64
	for _, pair := range pairs {
		hours := float64(pair[1].TS-pair[0].TS) / 3600
		if hours == 0 {
			continue
		}
		distance := GreatCircleDistance(pair[0].Lon, pair[0].Lat, pair[1].Lon, pair[1].Lat)
		acc += MetersToNauticalMiles(distance) / hours
	}
	sog := acc / float64(len(pairs))
	if sog > MaxCalculatedSpeed {
		return MaxCalculatedSpeed
	}
	return sog
}

// calculateCOG derives a course for accepted[i] from the bearings toward
// its accepted neighbors.
func calculateCOG(accepted []RawPosition, i int) float64 {
	pairs := neighborPairs(accepted, i)
	if len(pairs) == 0 {
		return 0
	}
	bearings := make([]float64, 0, len(pairs))
	for _, pair := range pairs {
		bearings = append(bearings, Bearing(pair[0].Lon, pair[0].Lat, pair[1].Lon, pair[1].Lat))
	}
	if len(bearings) == 1 {
		return bearings[0]
	}
	return AverageBearing(bearings[0], bearings[1])
}

func neighborPairs(accepted []RawPosition, i int) [][2]RawPosition {
	var pairs [][2]RawPosition
	if i > 0 {
		pairs = append(pairs, [2]RawPosition{accepted[i-1], accepted[i]})
	}
	if i < len(accepted)-1 {
		pairs = append(pairs, [2]RawPosition{accepted[i], accepted[i+1]})
	}
	return pairs
}
