package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dwsmith1983/shipemit/internal/config"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func exampleConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("../../example_config.yaml")
	require.NoError(t, err)
	return cfg
}

func ptr(v float64) *float64 { return &v }

func containerAttrs() map[string]any {
	return map[string]any{
		types.AttrShipType:    "container_ship",
		types.AttrYearOfBuild: 2001,
	}
}

// transitPositions is a two hour run at 20 knots along the equator.
func transitPositions() []track.RawPosition {
	return []track.RawPosition{
		{TS: 0, Lon: 0, Lat: 0, SOG: ptr(20.0)},
		{TS: 7200, Lon: 0.667, Lat: 0, SOG: ptr(20.0)},
	}
}

func TestRun_MixedBatch(t *testing.T) {
	r, err := NewRunner(exampleConfig(t), Options{Workers: 2})
	require.NoError(t, err)

	jobs := []Job{
		{
			ID:          "transit-1",
			VesselAttrs: containerAttrs(),
			Mode:        types.ModeTransit,
			Positions:   transitPositions(),
		},
		{
			VesselAttrs: containerAttrs(),
			Mode:        types.ModeHotelling,
			Duration:    20 * time.Hour,
		},
		{
			VesselAttrs: containerAttrs(),
			Mode:        "drifting",
		},
	}

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	transit := results[0]
	require.NoError(t, transit.Err)
	assert.Equal(t, "transit-1", transit.ID)
	assert.Equal(t, "container_ship", transit.Vessel.ShipType)
	assert.InDelta(t, 824438.72, transit.Masses["nox"], 1e-6)
	assert.InDelta(t, 29332863.144, transit.Masses["co2"], 1e-6)

	mooring := results[1]
	require.NoError(t, mooring.Err)
	assert.Len(t, mooring.ID, 26, "assigned ULID")
	assert.InDelta(t, 491500.0, mooring.Masses["nox"], 1e-6)
	assert.InDelta(t, 33302750.0, mooring.Masses["co2"], 1e-6)

	failed := results[2]
	require.ErrorIs(t, failed.Err, types.ErrValidation)
	assert.Nil(t, failed.Masses)
}

func TestRun_BadJobDoesNotAbortBatch(t *testing.T) {
	r, err := NewRunner(exampleConfig(t), Options{})
	require.NoError(t, err)

	jobs := []Job{
		{
			// size without a ship type cannot be validated.
			VesselAttrs: map[string]any{types.AttrSize: 4000},
			Mode:        types.ModeHotelling,
			Duration:    time.Hour,
		},
		{
			VesselAttrs: containerAttrs(),
			Mode:        types.ModeAnchorage,
			Duration:    time.Hour,
		},
	}

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.ErrorIs(t, results[0].Err, types.ErrValidation)
	require.NoError(t, results[1].Err)
	assert.NotEmpty(t, results[1].Masses)
}

func TestRun_Cancelled(t *testing.T) {
	r, err := NewRunner(exampleConfig(t), Options{Workers: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{
			VesselAttrs: containerAttrs(),
			Mode:        types.ModeHotelling,
			Duration:    time.Hour,
		}
	}
	_, err = r.Run(ctx, jobs)
	require.ErrorIs(t, err, context.Canceled)
}

func TestVesselFor_Cached(t *testing.T) {
	r, err := NewRunner(exampleConfig(t), Options{})
	require.NoError(t, err)

	first, err := r.vesselFor(containerAttrs())
	require.NoError(t, err)
	second, err := r.vesselFor(containerAttrs())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.cache.Len())
}

func TestVesselFor_NothingKnown(t *testing.T) {
	cfg := exampleConfig(t)
	r, err := NewRunner(cfg, Options{})
	require.NoError(t, err)

	info, err := r.vesselFor(nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultVesselInfo(), info)
}
