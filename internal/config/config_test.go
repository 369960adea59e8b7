package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dwsmith1983/shipemit/pkg/types"
)

const examplePath = "../../example_config.yaml"

func loadExampleRaw(t *testing.T) map[string]any {
	t.Helper()
	data, err := os.ReadFile(examplePath)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	return raw
}

func parseRaw(t *testing.T, raw map[string]any) (*Config, error) {
	t.Helper()
	data, err := yaml.Marshal(raw)
	require.NoError(t, err)
	return Parse(data)
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(examplePath)
	require.NoError(t, err)

	assert.Equal(t, 1.15, cfg.SeaMarginAdjustmentFactor)
	for _, name := range []string{"nox", "co2", "sfoc"} {
		assert.NotEmpty(t, cfg.BaseValues[name], "base values %s", name)
	}
	for _, name := range []string{"nox", "co2", "so2", "pm10"} {
		assert.NotEmpty(t, cfg.Pollutants[name], "pollutant %s", name)
	}
	assert.NotEmpty(t, cfg.EnginePowers)
	assert.NotEmpty(t, cfg.LowLoadFactors)
	require.NotNil(t, cfg.Guesser())

	want := types.VesselInfo{
		MaxSpeed:       12,
		EngineKW:       1500,
		EngineRPM:      1200,
		EngineCategory: types.CategoryC1,
		EngineNOxTier:  0,
		ShipType:       "misc",
		Size:           0,
		SizeUnit:       types.UnitNA,
	}
	assert.Equal(t, want, cfg.DefaultVesselInfo())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/no_such_config.yaml")
	require.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("{not yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestParse_GuesserWired(t *testing.T) {
	cfg, err := Load(examplePath)
	require.NoError(t, err)

	info, err := cfg.Guesser().GuessMissing(map[string]any{
		types.AttrShipType:    "container_ship",
		types.AttrYearOfBuild: 2001,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, info.MaxSpeed)
	assert.Equal(t, 37000.0, info.EngineKW)
	assert.Equal(t, types.CategoryC3, info.EngineCategory)
	assert.Equal(t, types.NOxTier(0), info.EngineNOxTier)
	assert.Equal(t, 4000.0, info.Size)
	assert.Equal(t, types.UnitTEU, info.SizeUnit)
}

func TestParse_MissingSeaMargin(t *testing.T) {
	raw := loadExampleRaw(t)
	delete(raw, "sea_margin_adjustment_factor")

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "sea_margin_adjustment_factor")
}

func TestParse_NonPositiveSeaMargin(t *testing.T) {
	raw := loadExampleRaw(t)
	raw["sea_margin_adjustment_factor"] = 0

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestParse_BaseValueNotNumeric(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["base_values"].(map[string]any)["co2"].([]any)
	rules[0].(map[string]any)["g_per_kwh"] = "lots"

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "g_per_kwh")
}

func TestParse_UnknownBaseValueName(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["pollutants"].(map[string]any)["nox"].([]any)
	rules[0].(map[string]any)["base_value_name"] = "soot"

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), `no base values named "soot"`)
}

func TestParse_PollutantMultiplierNotNumeric(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["pollutants"].(map[string]any)["so2"].([]any)
	rules[0].(map[string]any)["multiplier"] = "double"

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "multiplier")
}

func TestParse_EnginePowerMissingMode(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["default_engine_powers"].([]any)
	delete(rules[0].(map[string]any), "transit")

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "mode transit")
}

func TestParse_EnginePowerMissingFallback(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["default_engine_powers"].([]any)
	var kept []any
	for _, rawRule := range rules {
		rule := rawRule.(map[string]any)
		criteria := rule["match_criteria"].(map[string]any)
		if len(criteria) == 1 && criteria["engine_group"] == "boiler" {
			continue
		}
		kept = append(kept, rule)
	}
	raw["default_engine_powers"] = kept

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrConfiguration)
	assert.Contains(t, err.Error(), "[boiler]")
}

func TestParse_LowLoadInvalidRange(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["low_load_adjustment_factors"].([]any)
	entries := rules[0].(map[string]any)["range_factors"].([]any)
	entries[0].(map[string]any)["range"] = map[string]any{"ge": 0.1, "lt": 0.1}

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "invalid range")
}

func TestParse_LowLoadFactorNotNumeric(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["low_load_adjustment_factors"].([]any)
	entries := rules[0].(map[string]any)["range_factors"].([]any)
	entries[0].(map[string]any)["factors"] = map[string]any{"nox": "high"}

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "factor for nox")
}

func TestParse_UnknownCriterionName(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["default_engine_powers"].([]any)
	criteria := rules[0].(map[string]any)["match_criteria"].(map[string]any)
	criteria["displacement"] = 12000

	_, err := parseRaw(t, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "displacement")
}

func TestParse_BrokenGuessData(t *testing.T) {
	raw := loadExampleRaw(t)
	rules := raw["vessel_info_guess_data"].([]any)
	// Drop the criteria-less fallback so guessing can no longer cover
	// every vessel attribute.
	raw["vessel_info_guess_data"] = rules[:len(rules)-1]

	_, err := parseRaw(t, raw)
	require.ErrorIs(t, err, types.ErrConfiguration)
	assert.Contains(t, err.Error(), "validating vessel guess data")
}
