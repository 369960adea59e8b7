// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	TracksSanitized    = expvar.NewInt("tracks_sanitized")
	PositionsDiscarded = expvar.NewInt("positions_discarded")
	SogsRepaired       = expvar.NewInt("sogs_repaired")
	CoursesRepaired    = expvar.NewInt("courses_repaired")
	HeadingsRepaired   = expvar.NewInt("headings_repaired")
	DurationsAdjusted  = expvar.NewInt("durations_adjusted")
	CalculationsTotal  = expvar.NewInt("calculations_total")
	CalculationErrors  = expvar.NewInt("calculation_errors")
	GuessCacheHits     = expvar.NewInt("guess_cache_hits")
	GuessCacheMisses   = expvar.NewInt("guess_cache_misses")
)
