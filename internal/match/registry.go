package match

import (
	"fmt"
	"sync"

	"github.com/dwsmith1983/shipemit/pkg/types"
)

// ValueCheck validates constant values used in criteria under a given
// name. A nil check accepts any value.
type ValueCheck func(value any) bool

func nonNegativeNumber(v any) bool {
	f, ok := ToFloat64(v)
	return ok && f >= 0
}

var (
	registryMu sync.RWMutex

	// nameChecks registers the attribute names criteria may be keyed on.
	// Criteria on unregistered names are rejected at parse time.
	nameChecks = map[string]ValueCheck{
		types.AttrMaxSpeed:  nonNegativeNumber,
		types.AttrEngineKW:  nonNegativeNumber,
		types.AttrEngineRPM: nonNegativeNumber,
		types.AttrSize:      nonNegativeNumber,
		"length":            nonNegativeNumber,
		"width":             nonNegativeNumber,
		types.AttrEngineCategory: func(v any) bool {
			s, ok := v.(string)
			return ok && types.ValidEngineCategory(s)
		},
		types.AttrEngineNOxTier: func(v any) bool {
			f, ok := ToFloat64(v)
			return ok && f == float64(int(f)) && types.ValidNOxTier(int(f))
		},
		types.AttrShipType: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			_, known := types.ValidShipTypeSizeUnits[s]
			return known
		},
		types.AttrSizeUnit: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			switch types.SizeUnit(s) {
			case types.UnitNA, types.UnitTEU, types.UnitDWT, types.UnitGT, types.UnitNumberVehicles:
				return true
			}
			return false
		},
		types.AttrEngineGroup: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			switch types.EngineGroup(s) {
			case types.EnginePropulsion, types.EngineAuxiliary, types.EngineBoiler:
				return true
			}
			return false
		},
		"ais_type":             nil,
		types.AttrKeelLaidYear: nil,
	}
)

// RegisterName registers an additional criterion name, optionally with a
// check that constant values under it must pass. Registering a name twice
// is an error.
func RegisterName(name string, check ValueCheck) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := nameChecks[name]; exists {
		return fmt.Errorf("%w: criterion name %q already registered", types.ErrValidation, name)
	}
	nameChecks[name] = check
	return nil
}

func checkForName(name string) (ValueCheck, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	check, ok := nameChecks[name]
	return check, ok
}
