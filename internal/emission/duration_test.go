package emission

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dwsmith1983/shipemit/internal/track"
)

// segmentOver builds an equatorial segment covering the given distance in
// nautical miles with the given duration and reported speed.
func segmentOver(nm float64, seconds int64, sog float64) track.Segment {
	lonPerNM := 1852.0 / (6370986.0 * math.Pi / 180)
	return track.Segment{
		Start: underwayPos(0, 0, sog),
		End:   underwayPos(seconds, nm*lonPerNM, sog),
	}
}

func TestAdjustedHours(t *testing.T) {
	d := &DurationSanitizer{
		MaxDistanceDeviation:      0.2,
		MaxDurationIncreaseFactor: 9,
	}

	tests := []struct {
		name string
		seg  track.Segment
		want float64
	}{
		{
			name: "within tolerance unchanged",
			seg:  segmentOver(40, 7200, 20),
			want: 2,
		},
		{
			name: "overstated speed shrinks duration",
			// 13 knots for 2 hours claims 26 nm over a 12 nm hop.
			seg:  segmentOver(12, 7200, 13),
			want: 1.1076923076923078,
		},
		{
			name: "understated speed stretches duration",
			// 1.5 knots for 2 hours claims 3 nm over an 8 nm hop.
			seg:  segmentOver(8, 7200, 1.5),
			want: 4.266666666666667,
		},
		{
			name: "stretch capped",
			seg:  segmentOver(1000, 7200, 0.1),
			want: 18,
		},
		{
			name: "zero speed unchanged",
			seg:  segmentOver(8, 7200, 0),
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, d.AdjustedHours(tt.seg), 1e-9)
		})
	}
}

func TestAdjustedHours_Defaults(t *testing.T) {
	d := NewDurationSanitizer()
	assert.Equal(t, 0.25, d.MaxDistanceDeviation)
	assert.Equal(t, 10.0, d.MaxDurationIncreaseFactor)

	// 20 knots over 2 hours matches the 40 nm distance.
	assert.InDelta(t, 2, d.AdjustedHours(segmentOver(40, 7200, 20)), 1e-9)
}
