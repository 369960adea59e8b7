package track

import (
	"math"
	"time"
)

// RawPosition is one reported position update before sanitization, as it
// arrives from an AIS feed or a position log. Kinematic fields are
// pointers because reports routinely omit them; tide fields default to
// zero when absent or invalid.
type RawPosition struct {
	TS          int64    `json:"ts" yaml:"ts"`
	Lon         float64  `json:"lon" yaml:"lon"`
	Lat         float64  `json:"lat" yaml:"lat"`
	SOG         *float64 `json:"sog" yaml:"sog"`
	COG         *float64 `json:"cog" yaml:"cog"`
	Heading     *float64 `json:"heading" yaml:"heading"`
	TideFlow    *float64 `json:"tide_flow,omitempty" yaml:"tide_flow,omitempty"`
	TideBearing *float64 `json:"tide_bearing,omitempty" yaml:"tide_bearing,omitempty"`
}

// Position is a sanitized position. All speeds are in knots, bearings in
// degrees. TideBearing is the true heading into which the tide is
// flowing: if it is 0, the water moves from south to north. STW is the
// speed through water derived from SOG and the tide vector.
//
// Positions are never mutated after sanitization.
type Position struct {
	TS          time.Time
	Lon         float64
	Lat         float64
	SOG         float64
	COG         float64
	Heading     float64
	TideFlow    float64
	TideBearing float64
	STW         float64
}

// newPosition builds a Position and derives its speed through water.
func newPosition(ts time.Time, lon, lat, sog, cog, heading, tideFlow, tideBearing float64) Position {
	return Position{
		TS:          ts,
		Lon:         lon,
		Lat:         lat,
		SOG:         sog,
		COG:         cog,
		Heading:     heading,
		TideFlow:    tideFlow,
		TideBearing: tideBearing,
		STW:         speedThroughWater(sog, cog, tideFlow, tideBearing),
	}
}

// speedThroughWater subtracts the tide drift vector from the ground-track
// velocity vector. All speeds share one unit; cog and tideBearing are in
// degrees. With no tide flow the speed through water equals the speed
// over ground.
func speedThroughWater(sog, cog, tideFlow, tideBearing float64) float64 {
	if tideFlow == 0 {
		return sog
	}
	diff := radians(cog - tideBearing)
	return math.Sqrt(sog*sog + tideFlow*tideFlow - 2*sog*tideFlow*math.Cos(diff))
}
