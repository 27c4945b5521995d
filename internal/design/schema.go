package design

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VarKind distinguishes how a raw [0,1) sample maps onto a variable.
type VarKind int

const (
	// KindContinuous rescales linearly into [min, max].
	KindContinuous VarKind = iota
	// KindInteger rescales then rounds to the nearest integer.
	KindInteger
	// KindCatalogIndex rescales to an integer and reduces modulo the
	// catalog size, so every sample maps to a valid entry.
	KindCatalogIndex
)

// Variable names shared across schemas. Decoding dispatches on these, so a
// schema referencing an unknown name fails validation, not decoding.
const (
	VarSpan          = "span"
	VarChord         = "chord"
	VarChordRear     = "chord_rear"
	VarTaperRatio    = "taper_ratio"
	VarSweepDeg      = "sweep_deg"
	VarDihedralDeg   = "dihedral_deg"
	VarTwistDeg      = "twist_deg"
	VarStaggerRatio  = "stagger_ratio"
	VarGapRatio      = "gap_ratio"
	VarDecalageDeg   = "decalage_deg"
	VarTailAreaM2    = "tail_area_m2"
	VarBoomLengthM   = "boom_length_m"
	VarBoomDiameterM = "boom_diameter_m"
	VarAirfoil       = "airfoil"
	VarAirfoilRear   = "airfoil_rear"
	VarBatterySeries = "battery_series"
	VarMotorBucket   = "motor_bucket"
	VarPropBucket    = "prop_bucket"
	VarLiftMotor     = "lift_motor_bucket"
	VarLiftProp      = "lift_prop_bucket"
)

// VarSpec is the bounds and kind of one design variable.
type VarSpec struct {
	Name string
	Min  float64
	Max  float64
	Kind VarKind
}

// Schema is the ordered variable layout for one variant. The order is the
// wire order of DesignSample vectors and must not change between sampling
// and decoding.
type Schema struct {
	Variant Variant
	Vars    []VarSpec
}

// Dim returns the number of design variables.
func (s Schema) Dim() int { return len(s.Vars) }

// Validate checks bounds sanity and that every variable name is one the
// decoder knows how to place. Called once at setup, never per sample.
func (s Schema) Validate() error {
	if len(s.Vars) == 0 {
		return fmt.Errorf("design: schema for %s has no variables", s.Variant)
	}
	seen := make(map[string]bool, len(s.Vars))
	for _, v := range s.Vars {
		if !knownVar(v.Name) {
			return fmt.Errorf("design: schema for %s references unknown variable %q", s.Variant, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("design: schema for %s repeats variable %q", s.Variant, v.Name)
		}
		seen[v.Name] = true
		if v.Max < v.Min {
			return fmt.Errorf("design: variable %q has inverted bounds [%g, %g]", v.Name, v.Min, v.Max)
		}
	}
	for _, required := range requiredVars(s.Variant) {
		if !seen[required] {
			return fmt.Errorf("design: schema for %s missing required variable %q", s.Variant, required)
		}
	}
	return nil
}

func knownVar(name string) bool {
	switch name {
	case VarSpan, VarChord, VarChordRear, VarTaperRatio, VarSweepDeg, VarDihedralDeg,
		VarTwistDeg, VarStaggerRatio, VarGapRatio, VarDecalageDeg, VarTailAreaM2,
		VarBoomLengthM, VarBoomDiameterM, VarAirfoil, VarAirfoilRear,
		VarBatterySeries, VarMotorBucket, VarPropBucket, VarLiftMotor, VarLiftProp:
		return true
	}
	return false
}

func requiredVars(v Variant) []string {
	common := []string{VarSpan, VarChord, VarAirfoil, VarBatterySeries, VarMotorBucket, VarPropBucket}
	switch v {
	case VariantTandem:
		return append(common, VarChordRear, VarStaggerRatio, VarGapRatio, VarAirfoilRear)
	case VariantFlyingWing:
		return append(common, VarSweepDeg)
	case VariantVTOL:
		return append(common, VarBoomLengthM, VarLiftMotor, VarLiftProp)
	default:
		return common
	}
}

// SchemaFor returns the built-in schema for a variant. Bounds follow the
// reference design envelopes for sub-meter electric airframes.
func SchemaFor(v Variant) Schema {
	switch v {
	case VariantTandem:
		return Schema{Variant: v, Vars: []VarSpec{
			{VarSpan, 0.60, 1.00, KindContinuous},
			{VarChord, 0.10, 0.25, KindContinuous},
			{VarChordRear, 0.08, 0.22, KindContinuous},
			{VarStaggerRatio, 0.30, 0.60, KindContinuous},
			{VarGapRatio, 0.05, 0.20, KindContinuous},
			{VarDecalageDeg, 0.0, 3.0, KindContinuous},
			{VarTwistDeg, -3.0, 1.0, KindContinuous},
			{VarAirfoil, 0, 4, KindCatalogIndex},
			{VarAirfoilRear, 0, 4, KindCatalogIndex},
			{VarBatterySeries, 3, 6, KindInteger},
			{VarMotorBucket, 0, 3, KindInteger},
			{VarPropBucket, 0, 4, KindInteger},
		}}
	case VariantFlyingWing:
		return Schema{Variant: v, Vars: []VarSpec{
			{VarSpan, 0.60, 1.00, KindContinuous},
			{VarChord, 0.15, 0.30, KindContinuous},
			{VarTaperRatio, 0.40, 0.80, KindContinuous},
			{VarSweepDeg, 15.0, 35.0, KindContinuous},
			{VarTwistDeg, -6.0, -1.0, KindContinuous},
			{VarAirfoil, 0, 4, KindCatalogIndex},
			{VarBatterySeries, 3, 6, KindInteger},
			{VarMotorBucket, 0, 3, KindInteger},
			{VarPropBucket, 0, 4, KindInteger},
		}}
	case VariantTraditional:
		return Schema{Variant: v, Vars: []VarSpec{
			{VarSpan, 0.60, 1.00, KindContinuous},
			{VarChord, 0.10, 0.25, KindContinuous},
			{VarTaperRatio, 0.50, 1.00, KindContinuous},
			{VarDihedralDeg, 0.0, 5.0, KindContinuous},
			{VarTwistDeg, -3.0, 1.0, KindContinuous},
			{VarTailAreaM2, 0.010, 0.030, KindContinuous},
			{VarAirfoil, 0, 4, KindCatalogIndex},
			{VarBatterySeries, 3, 6, KindInteger},
			{VarMotorBucket, 0, 3, KindInteger},
			{VarPropBucket, 0, 4, KindInteger},
		}}
	case VariantVTOL:
		return Schema{Variant: v, Vars: []VarSpec{
			{VarSpan, 0.60, 1.00, KindContinuous},
			{VarChord, 0.10, 0.25, KindContinuous},
			{VarTaperRatio, 0.50, 1.00, KindContinuous},
			{VarDihedralDeg, 0.0, 5.0, KindContinuous},
			{VarTwistDeg, -3.0, 1.0, KindContinuous},
			{VarTailAreaM2, 0.010, 0.030, KindContinuous},
			{VarBoomLengthM, 0.10, 0.25, KindContinuous},
			{VarBoomDiameterM, 0.015, 0.030, KindContinuous},
			{VarAirfoil, 0, 4, KindCatalogIndex},
			{VarBatterySeries, 3, 6, KindInteger},
			{VarMotorBucket, 0, 3, KindInteger},
			{VarPropBucket, 0, 4, KindInteger},
			{VarLiftMotor, 0, 3, KindInteger},
			{VarLiftProp, 0, 4, KindInteger},
		}}
	}
	return Schema{Variant: v}
}

// boundsFile is the YAML shape for per-variant bounds overrides:
//
//	tandem:
//	  span: {min: 0.7, max: 0.9}
type boundsFile map[string]map[string]struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// LoadBoundsOverrides reads a YAML file of per-variant bounds overrides and
// applies them to the built-in schemas. Unknown variants or variables are
// setup errors. Kinds cannot be changed, only min/max.
func LoadBoundsOverrides(path string) (map[Variant]Schema, error) {
	schemas := make(map[Variant]Schema, len(AllVariants()))
	for _, v := range AllVariants() {
		schemas[v] = SchemaFor(v)
	}
	if path == "" {
		return schemas, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("design: read bounds file: %w", err)
	}
	var f boundsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("design: parse bounds file: %w", err)
	}

	for name, overrides := range f {
		variant, err := ParseVariant(name)
		if err != nil {
			return nil, err
		}
		s := schemas[variant]
		for varName, b := range overrides {
			idx := -1
			for i, spec := range s.Vars {
				if spec.Name == varName {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("design: bounds file overrides unknown variable %q for %s", varName, variant)
			}
			if b.Min != nil {
				s.Vars[idx].Min = *b.Min
			}
			if b.Max != nil {
				s.Vars[idx].Max = *b.Max
			}
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		schemas[variant] = s
	}
	return schemas, nil
}
