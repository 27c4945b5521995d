// Package eval turns raw design samples into accepted-or-rejected
// evaluation results: decode, cheap geometric filtering, the coupled
// solver, and the post-solve stall and thrust checks.
package eval

import (
	"errors"
	"math"

	"github.com/skysweep/skysweep/internal/aero"
	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/polar"
	"github.com/skysweep/skysweep/internal/solver"
)

// Reason identifies why a design was rejected. Rejections are values, not
// errors: they travel on the result and are tallied by the scheduler.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonSpan           Reason = "span_exceeded"
	ReasonLength         Reason = "length_exceeded"
	ReasonStallSpeed     Reason = "stall_speed"
	ReasonThrustWeight   Reason = "thrust_weight"
	ReasonNoTrim         Reason = "trim_residual"
	ReasonUnknownAirfoil Reason = "unknown_airfoil"
	ReasonDecode         Reason = "decode_error"
)

// maxTrimResidual is 10x the trim tolerance: degraded trims inside this
// band are accepted with their flag, anything worse is rejected.
const maxTrimResidual = 0.01

// Metrics are the performance figures of an accepted design.
type Metrics struct {
	FlightTimeMin float64            `json:"flight_time_min"`
	RangeKM       float64            `json:"range_km"`
	LDRatio       float64            `json:"ld_ratio"`
	WeightKG      float64            `json:"weight_kg"`
	CruisePowerW  float64            `json:"cruise_power_w"`
	StallSpeedMS  float64            `json:"stall_speed_ms"`
	Drag          aero.DragBreakdown `json:"drag"`
}

// Result is the tagged outcome of one evaluation: Accepted carries metrics
// and the originating design point, Rejected carries a reason. The zero
// value is never returned — every path produces one variant or the other.
type Result struct {
	Accepted bool
	Reason   Reason
	Point    design.DesignPoint
	Metrics  Metrics

	// Convergence flags carried from the solver; degraded results are
	// still accepted unless the trim residual is out of bounds.
	TrimConverged bool
	MassConverged bool
}

// Evaluator runs the per-sample pipeline. It holds only read-only state
// (schema, constraints, catalog) and is safe for concurrent use.
type Evaluator struct {
	schema      design.Schema
	constraints Constraints
	cat         solver.PolarSource
	mission     solver.Mission
}

// New validates setup state once and returns a ready evaluator.
func New(schema design.Schema, constraints Constraints, cat solver.PolarSource) (*Evaluator, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	if cat == nil || cat.Len() == 0 {
		return nil, errors.New("eval: polar catalog is empty")
	}
	return &Evaluator{
		schema:      schema,
		constraints: constraints,
		cat:         cat,
		mission: solver.Mission{
			CruiseSpeedMS:       constraints.CruiseSpeedMS,
			TargetFlightTimeMin: constraints.TargetFlightTimeMin,
		},
	}, nil
}

// Evaluate runs decode → filter → solve → verdict for one sample. index is
// the sample's position in the run and seeds the design point ID.
func (e *Evaluator) Evaluate(sample []float64, index int) Result {
	point, err := design.Decode(sample, e.schema, e.cat.Len(), index)
	if err != nil {
		// Schemas are validated at setup, so this is a programming error;
		// surfaced as a rejection so one bad sample cannot crash a
		// million-sample run.
		return Result{Reason: ReasonDecode, Point: point}
	}

	if reason, ok := Filter(point, e.constraints); !ok {
		return Result{Reason: reason, Point: point}
	}

	sol, err := solver.Solve(e.cat, point, e.mission)
	if err != nil {
		if errors.Is(err, polar.ErrUnknownAirfoil) {
			return Result{Reason: ReasonUnknownAirfoil, Point: point}
		}
		return Result{Reason: ReasonDecode, Point: point}
	}

	// A degraded trim far outside tolerance means the wing cannot carry
	// the resolved weight at cruise; there is no meaningful performance
	// figure to report.
	if !sol.TrimConverged && math.Abs(sol.TrimResidual) > maxTrimResidual {
		return Result{Reason: ReasonNoTrim, Point: point,
			TrimConverged: sol.TrimConverged, MassConverged: sol.MassConverged}
	}

	stall, reason := e.stallSpeed(point, sol)
	if reason != ReasonNone {
		return Result{Reason: reason, Point: point,
			TrimConverged: sol.TrimConverged, MassConverged: sol.MassConverged}
	}
	if stall > e.constraints.StallFloor(point.Variant) {
		return Result{Reason: ReasonStallSpeed, Point: point,
			TrimConverged: sol.TrimConverged, MassConverged: sol.MassConverged}
	}

	weight := sol.TotalMassKg * aero.Gravity
	if e.thrustToWeight(point, weight) < e.constraints.MinThrustWeight {
		return Result{Reason: ReasonThrustWeight, Point: point,
			TrimConverged: sol.TrimConverged, MassConverged: sol.MassConverged}
	}

	flightTimeMin := sol.UsableEnergyWh / sol.CruisePowerW * 60
	rangeKM := e.constraints.CruiseSpeedMS * flightTimeMin * 60 / 1000

	return Result{
		Accepted:      true,
		Point:         point,
		TrimConverged: sol.TrimConverged,
		MassConverged: sol.MassConverged,
		Metrics: Metrics{
			FlightTimeMin: flightTimeMin,
			RangeKM:       rangeKM,
			LDRatio:       weight / sol.Drag.TotalN,
			WeightKG:      sol.TotalMassKg,
			CruisePowerW:  sol.CruisePowerW,
			StallSpeedMS:  stall,
			Drag:          sol.Drag,
		},
	}
}

// Filter applies the cheap geometric checks that precede the solver,
// cheapest first. Stall and thrust checks need resolved mass and drag and
// are deferred to post-solve.
func Filter(p design.DesignPoint, c Constraints) (Reason, bool) {
	if p.SpanM > c.MaxSpanM {
		return ReasonSpan, false
	}
	if EstimateLengthM(p) > c.MaxLengthM {
		return ReasonLength, false
	}
	return ReasonNone, true
}

// EstimateLengthM is a conservative pre-solve estimate of overall airframe
// length from planform variables alone.
func EstimateLengthM(p design.DesignPoint) float64 {
	switch p.Variant {
	case design.VariantTandem:
		return p.StaggerRatio*p.SpanM + p.ChordM + p.ChordRearM
	case design.VariantFlyingWing:
		sweepRun := p.SpanM / 2 * math.Tan(p.SweepDeg*math.Pi/180)
		return p.ChordM + sweepRun
	case design.VariantVTOL:
		return p.ChordM + 2.8*p.ChordM + p.BoomLengthM
	default:
		// Tail arm of roughly 2.8 chords plus the wing itself.
		return p.ChordM + 2.8*p.ChordM + 0.1
	}
}

// stallSpeed derives the 1g stall speed from resolved mass, reference wing
// area, and the section Cl max at the operating Reynolds number.
func (e *Evaluator) stallSpeed(p design.DesignPoint, sol solver.CoupledSolution) (float64, Reason) {
	geomChord := p.ChordM
	re := aero.Reynolds(e.constraints.CruiseSpeedMS, geomChord)
	clMax, err := e.cat.ClMax(e.cat.NameAt(p.AirfoilIdx), re)
	if err != nil {
		return 0, ReasonUnknownAirfoil
	}
	// Finite wing loses a bit of the section Cl max.
	clMax3D := 0.9 * clMax

	area := wingAreaFor(p)
	weight := sol.TotalMassKg * aero.Gravity
	return math.Sqrt(2 * weight / (aero.AirDensity * area * clMax3D)), ReasonNone
}

func wingAreaFor(p design.DesignPoint) float64 {
	switch p.Variant {
	case design.VariantTandem:
		front := aero.NewWingGeometry(p.SpanM, p.ChordM, 1.0)
		rear := aero.NewWingGeometry(p.SpanM, p.ChordRearM, 1.0)
		return front.AreaM2 + rear.AreaM2
	default:
		return aero.NewWingGeometry(p.SpanM, p.ChordM, p.TaperRatio).AreaM2
	}
}

// thrustToWeight checks the propulsion margin: cruise thrust for the
// fixed-wing variants, hover thrust across four lift motors for VTOL.
func (e *Evaluator) thrustToWeight(p design.DesignPoint, weightN float64) float64 {
	if p.Variant == design.VariantVTOL {
		lift := aero.StaticThrustN(aero.Motor(p.LiftMotorBucket), aero.Prop(p.LiftPropBucket))
		// Hover needs margin above unity regardless of the mission floor.
		return 4 * lift / weightN / 1.2
	}
	thrust := aero.StaticThrustN(aero.Motor(p.MotorBucket), aero.Prop(p.PropBucket))
	return thrust / weightN
}
