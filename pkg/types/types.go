// Package types defines the public domain types for the shipemit emission
// inventory engine.
package types

import (
	"fmt"
	"strings"
)

// Mode is a ship operating mode. The mode encapsulates assumptions about
// which engines are running and at what loads.
type Mode string

// Mode values enumerate the supported operating modes.
const (
	ModeTransit     Mode = "transit"
	ModeManeuvering Mode = "maneuvering"
	ModeHotelling   Mode = "hotelling"
	ModeAnchorage   Mode = "anchorage"
)

// Modes lists every operating mode in a stable order.
var Modes = []Mode{ModeTransit, ModeManeuvering, ModeHotelling, ModeAnchorage}

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrValidation, s)
}

// IsUnderway reports whether the mode describes a moving vessel, i.e. one
// whose propulsion engine contributes emissions.
func (m Mode) IsUnderway() bool {
	return m == ModeTransit || m == ModeManeuvering
}

// EngineGroup classifies an engine as propulsion, auxiliary, or boiler.
// It is used as a resolution criterion when looking up emission factors
// and default engine powers.
type EngineGroup string

// EngineGroup values.
const (
	EnginePropulsion EngineGroup = "propulsion"
	EngineAuxiliary  EngineGroup = "auxiliary"
	EngineBoiler     EngineGroup = "boiler"
)

// EngineGroups lists every engine group in a stable order.
var EngineGroups = []EngineGroup{EnginePropulsion, EngineAuxiliary, EngineBoiler}

// NonPropulsionGroups lists the engine groups whose power is looked up per
// mode rather than derived from vessel speed.
var NonPropulsionGroups = []EngineGroup{EngineAuxiliary, EngineBoiler}

// EngineCategory is the regulatory engine category (c1/c2 for smaller
// engines, c3 for large marine diesels).
type EngineCategory string

// EngineCategory values.
const (
	CategoryC1 EngineCategory = "c1"
	CategoryC2 EngineCategory = "c2"
	CategoryC3 EngineCategory = "c3"
)

// ValidEngineCategory reports whether v names a known engine category.
func ValidEngineCategory(v string) bool {
	switch EngineCategory(v) {
	case CategoryC1, CategoryC2, CategoryC3:
		return true
	}
	return false
}

// NOxTier is the IMO NOx emission tier of an engine. Tier 0 means the
// engine predates (or escapes) classification.
type NOxTier int

// NOxTier values.
const (
	TierUnclassified NOxTier = 0
	Tier1            NOxTier = 1
	Tier2            NOxTier = 2
	Tier3            NOxTier = 3
)

// ValidNOxTier reports whether t is a known tier.
func ValidNOxTier(t int) bool {
	return t >= int(TierUnclassified) && t <= int(Tier3)
}

// SizeUnit is the unit a vessel size is measured in. Which units are valid
// depends on the ship type (e.g. teu for container ships, dwt for bulk
// carriers).
type SizeUnit string

// SizeUnit values.
const (
	UnitNA             SizeUnit = "n/a"
	UnitTEU            SizeUnit = "teu"
	UnitDWT            SizeUnit = "dwt"
	UnitGT             SizeUnit = "gt"
	UnitNumberVehicles SizeUnit = "number_vehicles"
)

// ValidShipTypeSizeUnits maps every recognized ship type to the size units
// that are valid for it.
var ValidShipTypeSizeUnits = map[string][]SizeUnit{
	"barge":                      {UnitNA},
	"crew_supply":                {UnitNA},
	"excursion":                  {UnitNA},
	"fishing":                    {UnitNA},
	"towboat_pushboat":           {UnitNA},
	"dredging":                   {UnitNA},
	"sailing":                    {UnitNA},
	"recreational":               {UnitNA},
	"pilot":                      {UnitNA},
	"tug":                        {UnitNA},
	"workboat":                   {UnitNA},
	"government":                 {UnitNA},
	"bulk_carrier":               {UnitDWT},
	"chemical_tanker":            {UnitDWT},
	"container_ship":             {UnitTEU},
	"cruise":                     {UnitGT},
	"ferry_passenger":            {UnitGT, UnitNA},
	"ferry_roro_passenger":       {UnitGT},
	"general_cargo":              {UnitDWT},
	"liquified_gas_tanker":       {UnitDWT},
	"offshort_support_drillship": {UnitNA},
	"oil_tanker":                 {UnitDWT},
	"other_service":              {UnitNA},
	"other_tanker":               {UnitNA},
	"reefer":                     {UnitNA},
	"roro":                       {UnitGT},
	"vehicle_carrier":            {UnitNumberVehicles},
	"misc":                       {UnitNA},
}

// ValidSizeUnitFor reports whether unit is a legal size unit for shipType.
func ValidSizeUnitFor(shipType string, unit SizeUnit) bool {
	for _, u := range ValidShipTypeSizeUnits[shipType] {
		if u == unit {
			return true
		}
	}
	return false
}

// Vessel attribute names, as they appear in configuration criteria and
// resolution contexts.
const (
	AttrMaxSpeed       = "max_speed"
	AttrEngineKW       = "engine_kw"
	AttrEngineRPM      = "engine_rpm"
	AttrEngineCategory = "engine_category"
	AttrEngineNOxTier  = "engine_nox_tier"
	AttrShipType       = "ship_type"
	AttrSize           = "size"
	AttrSizeUnit       = "size_unit"
	AttrEngineGroup    = "engine_group"
	AttrKeelLaidYear   = "keel_laid_year"
	AttrYearOfBuild    = "year_of_build"
)

// VesselInfoAttrs lists the attribute names that make up a complete
// VesselInfo, in declaration order.
var VesselInfoAttrs = []string{
	AttrMaxSpeed, AttrEngineKW, AttrEngineRPM, AttrEngineCategory,
	AttrEngineNOxTier, AttrShipType, AttrSize, AttrSizeUnit,
}

// VesselInfo is the complete set of vessel attributes needed to calculate
// emissions. Values are immutable once constructed.
type VesselInfo struct {
	MaxSpeed       float64        // kts
	EngineKW       float64        // main engine power
	EngineRPM      float64        // main engine speed
	EngineCategory EngineCategory //
	EngineNOxTier  NOxTier        //
	ShipType       string         //
	Size           float64        // in SizeUnit
	SizeUnit       SizeUnit       //
}

// Validate checks the invariants of a VesselInfo: positive speed and
// engine figures, recognized enums, and a size unit that is legal for the
// ship type.
func (v VesselInfo) Validate() error {
	if v.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max_speed must be positive, got %v", ErrValidation, v.MaxSpeed)
	}
	if v.EngineKW <= 0 {
		return fmt.Errorf("%w: engine_kw must be positive, got %v", ErrValidation, v.EngineKW)
	}
	if v.EngineRPM <= 0 {
		return fmt.Errorf("%w: engine_rpm must be positive, got %v", ErrValidation, v.EngineRPM)
	}
	if !ValidEngineCategory(string(v.EngineCategory)) {
		return fmt.Errorf("%w: unknown engine category %q", ErrValidation, v.EngineCategory)
	}
	if !ValidNOxTier(int(v.EngineNOxTier)) {
		return fmt.Errorf("%w: unknown NOx tier %d", ErrValidation, v.EngineNOxTier)
	}
	if _, ok := ValidShipTypeSizeUnits[v.ShipType]; !ok {
		return fmt.Errorf("%w: unknown ship type %q", ErrValidation, v.ShipType)
	}
	if v.Size < 0 {
		return fmt.Errorf("%w: size must be non-negative, got %v", ErrValidation, v.Size)
	}
	if !ValidSizeUnitFor(v.ShipType, v.SizeUnit) {
		return fmt.Errorf("%w: %q is not a valid size unit for %q", ErrValidation, v.SizeUnit, v.ShipType)
	}
	return nil
}

// MatchContext returns the vessel's attributes as a resolution context for
// matching configuration criteria against.
func (v VesselInfo) MatchContext() map[string]any {
	return map[string]any{
		AttrMaxSpeed:       v.MaxSpeed,
		AttrEngineKW:       v.EngineKW,
		AttrEngineRPM:      v.EngineRPM,
		AttrEngineCategory: string(v.EngineCategory),
		AttrEngineNOxTier:  int(v.EngineNOxTier),
		AttrShipType:       v.ShipType,
		AttrSize:           v.Size,
		AttrSizeUnit:       string(v.SizeUnit),
	}
}
