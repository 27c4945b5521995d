// Package solver resolves aerodynamic trim and battery/airframe mass for a
// decoded design point. Two nested fixed-point loops run with hard
// iteration caps: the trim loop balances target lift against induced
// downwash, and the mass loop grows or shrinks the battery's parallel cell
// count until usable energy covers the mission. Neither loop raises on
// non-convergence — the last iterate is returned with an explicit flag.
package solver

import (
	"github.com/skysweep/skysweep/internal/aero"
	"github.com/skysweep/skysweep/internal/design"
)

// PolarSource is the airfoil catalog consumed by the solver. Implementations
// must be safe for concurrent reads; the engine treats the catalog as
// immutable for the lifetime of a run.
type PolarSource interface {
	// Polar returns Cl, Cd, Cm at an angle of attack (degrees) and Reynolds
	// number. Unknown airfoil names are an error, never defaulted.
	Polar(name string, alphaDeg, reynolds float64) (cl, cd, cm float64, err error)
	ClMax(name string, reynolds float64) (float64, error)
	StallAlpha(name string, reynolds float64) (float64, error)
	ZeroLiftAlpha(name string) (float64, error)
	LiftSlope(name string) (float64, error)
	NameAt(idx int) string
	Len() int
}

// DegradeReason explains a non-converged loop.
type DegradeReason string

const (
	DegradeNone        DegradeReason = ""
	DegradeIterations  DegradeReason = "iteration_budget"
	DegradeOscillation DegradeReason = "parallel_count_oscillation"
)

// CoupledSolution is the solver output for one design point. It is
// transient: the evaluator consumes it once and discards it.
type CoupledSolution struct {
	AlphaGeomDeg float64
	AlphaEffDeg  float64
	CL           float64
	CdProfile    float64

	BatterySeries   int
	BatteryParallel int
	Fuselage        aero.Fuselage
	TotalMassKg     float64
	Drag            aero.DragBreakdown
	CruisePowerW    float64
	UsableEnergyWh  float64

	TrimConverged bool
	TrimResidual  float64
	MassConverged bool
	MassReason    DegradeReason
	MassTrace     []int // parallel count per iteration, diagnostics only
}

// Mission fixes the operating point the solver sizes against.
type Mission struct {
	CruiseSpeedMS       float64
	TargetFlightTimeMin float64
}

// Solve runs the coupled trim and mass loops for a design point. The only
// error is an unknown catalog reference; every numeric difficulty is
// reported through the convergence flags instead.
func Solve(cat PolarSource, p design.DesignPoint, mission Mission) (CoupledSolution, error) {
	geom, aspect, oswald := resolvePlanform(p)
	airfoil := cat.NameAt(p.AirfoilIdx)
	re := aero.Reynolds(mission.CruiseSpeedMS, geom.MACM)
	q := aero.Q(mission.CruiseSpeedMS)

	sol := CoupledSolution{BatterySeries: p.BatterySeries, BatteryParallel: 1}
	motor := aero.Motor(p.MotorBucket)
	prop := aero.Prop(p.PropBucket)

	parallel := 1
	prev := -1
	const maxMassIters = 15

	for it := 0; it < maxMassIters; it++ {
		sol.MassTrace = append(sol.MassTrace, parallel)

		cells := p.BatterySeries * parallel
		fus := aero.SizeFuselage(cells)
		mass := massBuildup(p, geom, fus, parallel)
		weight := mass * aero.Gravity

		clTarget := weight / (q * referenceArea(p, geom))
		trim, err := Trim(cat, TrimInput{
			CLTarget:    clTarget,
			AspectRatio: aspect,
			Oswald:      oswald,
			Airfoil:     airfoil,
			Reynolds:    re,
		})
		if err != nil {
			return CoupledSolution{}, err
		}

		drag := aero.ComputeDrag(dragInput(p, geom, fus, trim, weight, mission.CruiseSpeedMS, oswald, aspect))
		power := drag.TotalN*mission.CruiseSpeedMS/(motor.Efficiency*prop.CruiseEta) + aero.AvionicsPowerW()

		needWh := power * mission.TargetFlightTimeMin / 60
		usableWh := aero.PackEnergyWh(p.BatterySeries, parallel) * usableDOD

		sol.AlphaGeomDeg = trim.AlphaGeomDeg
		sol.AlphaEffDeg = trim.AlphaEffDeg
		sol.CL = trim.Cl
		sol.CdProfile = trim.Cd
		sol.BatteryParallel = parallel
		sol.Fuselage = fus
		sol.TotalMassKg = mass
		sol.Drag = drag
		sol.CruisePowerW = power
		sol.UsableEnergyWh = usableWh
		sol.TrimConverged = trim.Converged
		sol.TrimResidual = trim.Residual

		next := parallel
		switch {
		case usableWh < needWh:
			next = parallel + 1
		case usableWh > 1.3*needWh && parallel > 1:
			next = parallel - 1
		}

		// Explicit equality predicate, not iteration exhaustion.
		if next == parallel {
			sol.MassConverged = true
			sol.MassReason = DegradeNone
			return sol, nil
		}
		// Period-2 oscillation guard: bouncing between two counts never
		// satisfies the equality predicate, so detect and stop early. At
		// this point next != parallel, so next == prev means the loop is
		// revisiting the state from two iterations ago.
		if next == prev {
			sol.MassConverged = false
			sol.MassReason = DegradeOscillation
			return sol, nil
		}
		prev, parallel = parallel, next
	}

	sol.MassConverged = false
	sol.MassReason = DegradeIterations
	return sol, nil
}

// usableDOD is the usable depth of discharge before cutoff.
const usableDOD = 0.80

func resolvePlanform(p design.DesignPoint) (aero.WingGeometry, float64, float64) {
	switch p.Variant {
	case design.VariantTandem:
		front := aero.NewWingGeometry(p.SpanM, p.ChordM, 1.0)
		rear := aero.NewWingGeometry(p.SpanM, p.ChordRearM, 1.0)
		total := front.AreaM2 + rear.AreaM2
		aspect := p.SpanM * p.SpanM / total
		oswald := aero.TandemSystemOswald(p.GapRatio, p.StaggerRatio, 1.0)
		combined := front
		combined.AreaM2 = total
		combined.AspectRatio = aspect
		return combined, aspect, oswald
	default:
		g := aero.NewWingGeometry(p.SpanM, p.ChordM, p.TaperRatio)
		return g, g.AspectRatio, aero.Oswald(string(p.Variant), p.TaperRatio)
	}
}

// referenceArea is the lift reference used for the CL target.
func referenceArea(p design.DesignPoint, geom aero.WingGeometry) float64 {
	return geom.AreaM2
}

func massBuildup(p design.DesignPoint, geom aero.WingGeometry, fus aero.Fuselage, parallel int) float64 {
	motor := aero.Motor(p.MotorBucket)
	prop := aero.Prop(p.PropBucket)

	m := aero.MassComponents{
		WingKg:     aero.WingMassKg(geom),
		TailKg:     aero.TailMassKg(p.TailAreaM2),
		FuselageKg: fus.MassKg,
		BatteryKg:  aero.PackMassKg(p.BatterySeries, parallel),
		MotorsKg:   motor.MassKg,
		PropsKg:    prop.MassKg,
		FixedKg:    aero.FixedEquipmentKg(),
	}
	if p.Variant == design.VariantTandem {
		// Second wing replaces the tail.
		m.WingKg += aero.WingMassKg(aero.NewWingGeometry(p.SpanM, p.ChordRearM, 1.0))
		m.TailKg = 0
	}
	if p.Variant == design.VariantVTOL {
		lift := aero.Motor(p.LiftMotorBucket)
		liftProp := aero.Prop(p.LiftPropBucket)
		m.BoomsKg = aero.BoomMassKg(p.BoomLengthM, p.BoomDiameterM)
		m.MotorsKg += 4 * lift.MassKg
		m.PropsKg += 4 * liftProp.MassKg
	}
	return m.TotalKg()
}

func dragInput(p design.DesignPoint, geom aero.WingGeometry, fus aero.Fuselage, trim TrimResult, weight, speed, oswald, aspect float64) aero.DragInput {
	in := aero.DragInput{
		Variant:     string(p.Variant),
		Speed:       speed,
		WeightN:     weight,
		WingArea:    geom.AreaM2,
		AspectRatio: aspect,
		Oswald:      oswald,
		CL:          trim.Cl,
		CdProfile:   trim.Cd,
		TailArea:    p.TailAreaM2,
		Fuselage:    fus,
	}
	if p.Variant == design.VariantVTOL {
		in.BoomLengthM = p.BoomLengthM
		in.BoomDiamM = p.BoomDiameterM
		in.LiftPropDiam = aero.Prop(p.LiftPropBucket).DiameterM
	}
	return in
}

func (r DegradeReason) String() string {
	if r == DegradeNone {
		return "converged"
	}
	return string(r)
}
