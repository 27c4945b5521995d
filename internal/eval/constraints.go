package eval

import (
	"fmt"

	"github.com/skysweep/skysweep/internal/design"
)

// Constraints is the fixed, run-wide constraint set. Loaded once, validated
// once, and shared read-only by every worker.
type Constraints struct {
	MaxSpanM            float64
	MaxLengthM          float64
	MaxStallSpeedMS     float64 // fixed-wing stall ceiling (hand-launch limit)
	CruiseSpeedMS       float64
	MinThrustWeight     float64
	TargetFlightTimeMin float64
}

// DefaultConstraints is the reference mission envelope.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxSpanM:            1.0,
		MaxLengthM:          1.0,
		MaxStallSpeedMS:     5.59,
		CruiseSpeedMS:       15.65,
		MinThrustWeight:     0.55,
		TargetFlightTimeMin: 120,
	}
}

// Validate rejects inverted or nonsensical constraint sets before any
// sampling begins.
func (c Constraints) Validate() error {
	if c.MaxSpanM <= 0 {
		return fmt.Errorf("eval: max span must be positive, got %g", c.MaxSpanM)
	}
	if c.MaxLengthM <= 0 {
		return fmt.Errorf("eval: max length must be positive, got %g", c.MaxLengthM)
	}
	if c.MaxStallSpeedMS <= 0 {
		return fmt.Errorf("eval: stall speed limit must be positive, got %g", c.MaxStallSpeedMS)
	}
	if c.CruiseSpeedMS <= c.MaxStallSpeedMS {
		return fmt.Errorf("eval: cruise speed %g must exceed the stall limit %g", c.CruiseSpeedMS, c.MaxStallSpeedMS)
	}
	if c.MinThrustWeight <= 0 {
		return fmt.Errorf("eval: min thrust/weight must be positive, got %g", c.MinThrustWeight)
	}
	if c.TargetFlightTimeMin <= 0 {
		return fmt.Errorf("eval: target flight time must be positive, got %g", c.TargetFlightTimeMin)
	}
	return nil
}

// StallFloor is the variant-dependent stall speed limit. VTOL airframes
// transition to hover for landing, so their limit is relaxed well above the
// hand-launch ceiling that binds the fixed-wing variants.
func (c Constraints) StallFloor(v design.Variant) float64 {
	if v == design.VariantVTOL {
		return c.MaxStallSpeedMS * 2.5
	}
	return c.MaxStallSpeedMS
}
