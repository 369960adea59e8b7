package match

import (
	"fmt"
	"sort"

	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Resolve scans configs in declared order and returns one value per
// needed key. The first matching config supplying a key wins that key;
// later matches for the same key are ignored. The scan stops as soon as
// every needed key is filled.
//
// Resolution fails with ErrConfiguration when any needed key is still
// unresolved after the full scan. Rule lists that must always resolve
// therefore end with a criteria-free fallback entry.
func Resolve(configs []Config, ctx map[string]any, needed []string) (map[string]any, error) {
	resolved := make(map[string]any, len(needed))
	for _, cfg := range configs {
		if len(resolved) == len(needed) {
			break
		}
		if !cfg.Matches(ctx) {
			continue
		}
		for _, key := range needed {
			if _, done := resolved[key]; done {
				continue
			}
			if v, ok := cfg.Data[key]; ok {
				resolved[key] = v
			}
		}
	}

	if len(resolved) != len(needed) {
		var missing []string
		for _, key := range needed {
			if _, ok := resolved[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: no rule matches context for keys %v", types.ErrConfiguration, missing)
	}
	return resolved, nil
}

// ResolveOne resolves a single key against a rule list.
func ResolveOne(configs []Config, ctx map[string]any, key string) (any, error) {
	resolved, err := Resolve(configs, ctx, []string{key})
	if err != nil {
		return nil, err
	}
	return resolved[key], nil
}

// First returns the payload of the first config matching ctx, or false
// when no config matches. Unlike Resolve it does not merge across rules.
func First(configs []Config, ctx map[string]any) (map[string]any, bool) {
	for _, cfg := range configs {
		if cfg.Matches(ctx) {
			return cfg.Data, true
		}
	}
	return nil, false
}
