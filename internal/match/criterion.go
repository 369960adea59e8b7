// Package match implements ordered, first-match-wins rule resolution over
// attribute contexts. Rule lists pair match criteria with payload data;
// resolution scans the list in declared order and accumulates the first
// value seen for each needed key.
package match

import (
	"fmt"

	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Criterion is an atomic predicate over a single attribute value.
type Criterion interface {
	Matches(value any) bool
}

// Const matches when the attribute equals a constant. Numeric values are
// compared numerically, so an int attribute matches a float constant.
type Const struct {
	Value any
}

// Matches implements Criterion.
func (c Const) Matches(value any) bool {
	cf, cok := ToFloat64(c.Value)
	vf, vok := ToFloat64(value)
	if cok || vok {
		return cok && vok && cf == vf
	}
	return c.Value == value
}

// Range matches numeric values in the half-open interval [GE, LT):
// a value equal to GE matches, a value equal to LT does not.
type Range struct {
	GE float64
	LT float64
}

// Matches implements Criterion. Non-numeric values never match.
func (r Range) Matches(value any) bool {
	v, ok := ToFloat64(value)
	return ok && v >= r.GE && v < r.LT
}

// AnyOf matches when any member criterion matches. Members are constants
// or ranges; the match set is the union of the members' match sets.
type AnyOf struct {
	Members []Criterion
}

// Matches implements Criterion.
func (a AnyOf) Matches(value any) bool {
	for _, m := range a.Members {
		if m.Matches(value) {
			return true
		}
	}
	return false
}

// ParseCriterion converts a deserialized criterion value for a named
// attribute into a Criterion. Accepted shapes: a bare scalar (constant),
// a {ge, lt} mapping (range), or an {any_of: [...]} mapping whose members
// are scalars or ranges. The name must be registered (see RegisterName);
// constant values are validated against the name's registered check.
func ParseCriterion(name string, raw any) (Criterion, error) {
	check, known := checkForName(name)
	if !known {
		return nil, fmt.Errorf("%w: invalid criterion name %q", types.ErrValidation, name)
	}

	m, ok := raw.(map[string]any)
	if !ok {
		if !isScalar(raw) {
			return nil, fmt.Errorf("%w: constant criterion for %s must be a scalar", types.ErrValidation, name)
		}
		if check != nil && !check(raw) {
			return nil, fmt.Errorf("%w: invalid %s value %v", types.ErrValidation, name, raw)
		}
		return Const{Value: raw}, nil
	}

	if members, ok := m["any_of"]; ok {
		if len(m) != 1 {
			return nil, fmt.Errorf("%w: any_of criterion cannot carry extra keys", types.ErrValidation)
		}
		list, ok := members.([]any)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%w: any_of requires a non-empty list", types.ErrValidation)
		}
		out := AnyOf{Members: make([]Criterion, 0, len(list))}
		for _, member := range list {
			c, err := ParseCriterion(name, member)
			if err != nil {
				return nil, err
			}
			if _, nested := c.(AnyOf); nested {
				return nil, fmt.Errorf("%w: any_of members must be scalars or ranges", types.ErrValidation)
			}
			out.Members = append(out.Members, c)
		}
		return out, nil
	}

	return parseRange(m)
}

// isScalar reports whether a deserialized value is a legal constant:
// a string, bool, or number. Sequences and mappings are not, and a Const
// holding one could not be compared safely at match time.
func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := ToFloat64(v)
	return ok
}

func parseRange(m map[string]any) (Criterion, error) {
	if len(m) != 2 {
		return nil, fmt.Errorf("%w: range criterion requires exactly ge and lt", types.ErrValidation)
	}
	ge, gok := ToFloat64(m["ge"])
	lt, lok := ToFloat64(m["lt"])
	if !gok || !lok {
		return nil, fmt.Errorf("%w: range bounds ge and lt must be numeric", types.ErrValidation)
	}
	if ge >= lt {
		return nil, fmt.Errorf("%w: range bound ge (%v) must be below lt (%v)", types.ErrValidation, ge, lt)
	}
	return Range{GE: ge, LT: lt}, nil
}

// ToFloat64 coerces an interface{} to float64. Handles the numeric types
// YAML and JSON decoders produce.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
