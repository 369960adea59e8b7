package match

import (
	"fmt"

	"github.com/dwsmith1983/shipemit/pkg/types"
)

// criteriaKey is the reserved key separating match criteria from payload
// data in a deserialized rule mapping.
const criteriaKey = "match_criteria"

// Config pairs match criteria with a payload of named data values. A
// Config with no criteria matches unconditionally and serves as the
// fallback entry of a rule list.
type Config struct {
	Criteria map[string]Criterion
	Data     map[string]any
}

// Matches reports whether every criterion is satisfied by ctx. An
// attribute absent from ctx fails its criterion, so rules keyed on an
// attribute never fire for contexts that do not carry it.
func (c Config) Matches(ctx map[string]any) bool {
	for attr, criterion := range c.Criteria {
		v, ok := ctx[attr]
		if !ok || !criterion.Matches(v) {
			return false
		}
	}
	return true
}

// ParseConfig converts one deserialized rule mapping into a Config. The
// match_criteria key holds the criteria; every other key is payload.
func ParseConfig(raw map[string]any) (Config, error) {
	cfg := Config{
		Criteria: map[string]Criterion{},
		Data:     make(map[string]any, len(raw)),
	}
	for key, value := range raw {
		if key != criteriaKey {
			cfg.Data[key] = value
			continue
		}
		criteria, ok := value.(map[string]any)
		if !ok {
			return Config{}, fmt.Errorf("%w: match_criteria must be a mapping", types.ErrValidation)
		}
		for attr, rawCriterion := range criteria {
			criterion, err := ParseCriterion(attr, rawCriterion)
			if err != nil {
				return Config{}, fmt.Errorf("criterion for %q: %w", attr, err)
			}
			cfg.Criteria[attr] = criterion
		}
	}
	return cfg, nil
}

// ParseConfigs converts a deserialized rule list, preserving order.
func ParseConfigs(raw []map[string]any) ([]Config, error) {
	configs := make([]Config, 0, len(raw))
	for i, entry := range raw {
		cfg, err := ParseConfig(entry)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
