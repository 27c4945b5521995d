// Package design defines the airframe variants, their design-variable
// schemas, and the decoder that maps unit-hypercube samples onto typed
// design points.
package design

import "fmt"

// Variant identifies an airframe topology.
type Variant string

const (
	VariantTandem      Variant = "tandem"
	VariantFlyingWing  Variant = "flying_wing"
	VariantTraditional Variant = "traditional"
	VariantVTOL        Variant = "vtol"
)

// AllVariants returns every supported variant in canonical order.
func AllVariants() []Variant {
	return []Variant{VariantTandem, VariantFlyingWing, VariantTraditional, VariantVTOL}
}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantTandem, VariantFlyingWing, VariantTraditional, VariantVTOL:
		return Variant(s), nil
	}
	return "", fmt.Errorf("design: unknown variant %q", s)
}
