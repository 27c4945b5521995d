package design

import "fmt"

// DesignPoint is the decoded, physically meaningful description of one
// candidate. It is created once by Decode and never mutated afterward;
// downstream stages derive new records instead of editing it, so points
// can be shared across workers without locks.
type DesignPoint struct {
	ID      string
	Variant Variant

	// Planform.
	SpanM         float64
	ChordM        float64 // root chord; front wing chord for tandem
	ChordRearM    float64 // tandem only
	TaperRatio    float64
	SweepDeg      float64
	DihedralDeg   float64
	TwistDeg      float64
	StaggerRatio  float64 // tandem: longitudinal separation / span
	GapRatio      float64 // tandem: vertical separation / span
	DecalageDeg   float64 // tandem: rear wing incidence offset
	TailAreaM2    float64 // traditional, vtol
	BoomLengthM   float64 // vtol
	BoomDiameterM float64 // vtol

	// Catalog references.
	AirfoilIdx     int
	AirfoilRearIdx int // tandem only

	// Propulsion and energy.
	BatterySeries   int
	MotorBucket     int
	PropBucket      int
	LiftMotorBucket int // vtol only
	LiftPropBucket  int // vtol only
}

// PointID builds the canonical design point identifier from the variant
// and the sample's position in the run.
func PointID(v Variant, index int) string {
	return fmt.Sprintf("%s-%07d", v, index)
}
