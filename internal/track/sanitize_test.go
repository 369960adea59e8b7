package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// equatorPosition builds a fully specified report moving east along the
// equator.
func equatorPosition(ts int64, lon, sog float64) RawPosition {
	return RawPosition{
		TS: ts, Lon: lon, Lat: 0,
		SOG: ptr(sog), COG: ptr(90), Heading: ptr(90),
	}
}

func TestSanitize_PlausibleTrackUnchanged(t *testing.T) {
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		equatorPosition(3600, 0.1, 6),
		equatorPosition(7200, 0.2, 6),
	}

	track := NewSanitizer(SpeedBelow(16), CoverableAt(16), nil).Sanitize(raw)

	require.Len(t, track.Positions, 3)
	for i, p := range track.Positions {
		assert.Equal(t, time.Unix(raw[i].TS, 0).UTC(), p.TS)
		assert.Equal(t, raw[i].Lon, p.Lon)
		assert.Equal(t, 6.0, p.SOG)
		assert.Equal(t, 90.0, p.COG)
		assert.Equal(t, 90.0, p.Heading)
		assert.Equal(t, 6.0, p.STW, "no tide means stw equals sog")
	}
}

func TestSanitize_SortsByTimestamp(t *testing.T) {
	raw := []RawPosition{
		equatorPosition(7200, 0.2, 6),
		equatorPosition(0, 0, 6),
		equatorPosition(3600, 0.1, 6),
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 3)
	assert.True(t, track.Positions[0].TS.Before(track.Positions[1].TS))
	assert.True(t, track.Positions[1].TS.Before(track.Positions[2].TS))
}

func TestSanitize_DiscardsOutlier(t *testing.T) {
	// The middle report implies 120 kts from its predecessor; the final
	// report is plausible relative to the previous accepted position,
	// not the discarded one.
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		equatorPosition(3600, 2, 6),
		equatorPosition(7200, 0.2, 6),
	}

	track := NewSanitizer(nil, CoverableAt(16), nil).Sanitize(raw)

	require.Len(t, track.Positions, 2)
	assert.Equal(t, 0.0, track.Positions[0].Lon)
	assert.Equal(t, 0.2, track.Positions[1].Lon)
}

func TestSanitize_RepairsMissingSOG(t *testing.T) {
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		{TS: 3600, Lon: 0.1, Lat: 0, SOG: nil, COG: ptr(90), Heading: ptr(90)},
		equatorPosition(7200, 0.25, 9),
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 3)
	// Average of the adjacent segment speeds: ~6.0 kts in, ~9.0 kts out.
	assert.InDelta(t, 7.505, track.Positions[1].SOG, 0.001)
}

func TestSanitize_RepairsImplausibleSOG(t *testing.T) {
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		equatorPosition(3600, 0.1, 150),
	}

	track := NewSanitizer(SpeedBelow(16), nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 2)
	assert.InDelta(t, 6.004, track.Positions[1].SOG, 0.001)
}

func TestSanitize_RepairedSOGSingleSidedAtEdge(t *testing.T) {
	raw := []RawPosition{
		{TS: 0, Lon: 0, Lat: 0, SOG: nil, COG: ptr(90), Heading: ptr(90)},
		equatorPosition(3600, 0.1, 6),
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 2)
	assert.InDelta(t, 6.004, track.Positions[0].SOG, 0.001)
}

func TestSanitize_CalculatedSOGCapped(t *testing.T) {
	// Implied speed is ~120 kts; no distance predicate, so the position
	// survives, but the derived speed is capped.
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		{TS: 3600, Lon: 2, Lat: 0, SOG: nil, COG: ptr(90), Heading: ptr(90)},
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 2)
	assert.Equal(t, float64(MaxCalculatedSpeed), track.Positions[1].SOG)
}

func TestSanitize_SinglePositionMissingSOGIsZero(t *testing.T) {
	raw := []RawPosition{{TS: 0, Lon: 4.5, Lat: 52, SOG: nil, COG: ptr(0), Heading: ptr(0)}}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 1)
	assert.Equal(t, 0.0, track.Positions[0].SOG)
}

func TestSanitize_RepairsMissingCOGAndHeading(t *testing.T) {
	raw := []RawPosition{
		equatorPosition(0, 0, 6),
		{TS: 3600, Lon: 0.1, Lat: 0, SOG: ptr(6), COG: nil, Heading: nil},
		equatorPosition(7200, 0.2, 6),
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 3)
	assert.InDelta(t, 90, track.Positions[1].COG, 1e-9, "bearing toward both neighbors is due east")
	assert.InDelta(t, 90, track.Positions[1].Heading, 1e-9, "missing heading falls back to cog")
}

func TestSanitize_InvalidTidePairZeroed(t *testing.T) {
	raw := []RawPosition{
		{
			TS: 0, Lon: 0, Lat: 0,
			SOG: ptr(10), COG: ptr(90), Heading: ptr(90),
			TideFlow: ptr(3), TideBearing: ptr(400),
		},
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 1)
	p := track.Positions[0]
	assert.Equal(t, 0.0, p.TideFlow)
	assert.Equal(t, 0.0, p.TideBearing)
	assert.Equal(t, 10.0, p.STW)
}

func TestSanitize_TideOnlyFlowZeroed(t *testing.T) {
	raw := []RawPosition{
		{
			TS: 0, Lon: 0, Lat: 0,
			SOG: ptr(10), COG: ptr(90), Heading: ptr(90),
			TideFlow: ptr(3),
		},
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 1)
	assert.Equal(t, 0.0, track.Positions[0].TideFlow)
}

func TestSanitize_SpeedThroughWater(t *testing.T) {
	raw := []RawPosition{
		{
			// Tide pushing north while steaming east.
			TS: 0, Lon: 0, Lat: 0,
			SOG: ptr(10), COG: ptr(90), Heading: ptr(90),
			TideFlow: ptr(3), TideBearing: ptr(0),
		},
		{
			// Tide directly astern: stw is sog minus tide flow.
			TS: 3600, Lon: 0.1, Lat: 0,
			SOG: ptr(10), COG: ptr(0), Heading: ptr(0),
			TideFlow: ptr(3), TideBearing: ptr(0),
		},
	}

	track := NewSanitizer(nil, nil, nil).Sanitize(raw)

	require.Len(t, track.Positions, 2)
	assert.InDelta(t, 10.4403, track.Positions[0].STW, 0.0001)
	assert.InDelta(t, 7, track.Positions[1].STW, 1e-9)
}

func TestCoverableAt(t *testing.T) {
	ok := CoverableAt(16)

	t0 := time.Unix(0, 0)
	t1 := time.Unix(3600, 0)
	assert.True(t, ok(t0, 0, 0, t1, 0.1, 0))
	assert.False(t, ok(t0, 0, 0, t1, 2, 0))
	assert.False(t, ok(t0, 0, 0, t0, 0.1, 0), "zero elapsed time covers no distance")
	assert.True(t, ok(t0, 0.1, 0, t0, 0.1, 0))
}
