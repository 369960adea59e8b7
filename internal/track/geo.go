package track

import "math"

// avgEarthRadius is the mean earth radius in meters used for great-circle
// distances.
const avgEarthRadius = 6370986

// metersPerNauticalMile converts between the two distance units used here:
// positions are degrees, distances meters, speeds knots.
const metersPerNauticalMile = 1852

// GreatCircleDistance returns the great-circle distance in meters between
// two coordinates given in degrees.
func GreatCircleDistance(lon1, lat1, lon2, lat2 float64) float64 {
	lon1 = radians(lon1)
	lat1 = radians(lat1)
	lon2 = radians(lon2)
	lat2 = radians(lat2)
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	d := math.Pow(math.Sin(dlat*0.5), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon*0.5), 2)
	return 2 * avgEarthRadius * math.Atan2(math.Sqrt(d), math.Sqrt(1-d))
}

// Bearing returns the bearing in degrees from one position to another,
// relative to north.
//
// Uses a simple planar projection, which yields reasonably accurate
// results across short distances, but doesn't work across the poles or
// the antimeridian.
func Bearing(lon1, lat1, lon2, lat2 float64) float64 {
	targetLon := lon2 - lon1
	targetLat := lat2 - lat1
	return math.Mod(degrees(math.Atan2(targetLon, targetLat))+360, 360)
}

// AverageBearing averages two bearings, accounting for the wraparound at
// 360 degrees: the average of 350 and 10 is 0, not 180.
func AverageBearing(b1, b2 float64) float64 {
	if math.Abs(b1-b2) > 180 {
		if b1 < b2 {
			b1 += 360
		} else {
			b2 += 360
		}
	}
	return math.Mod((b1+b2)/2, 360)
}

// MetersToNauticalMiles converts a distance in meters to nautical miles.
func MetersToNauticalMiles(m float64) float64 {
	return m / metersPerNauticalMile
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
