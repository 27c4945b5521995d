package design

import (
	"fmt"
	"math"
)

// Decode maps a unit-hypercube sample onto a DesignPoint using the schema's
// ordered variable layout. catalogSize is the number of airfoils available;
// catalog-index variables are reduced modulo it so any sample value maps to
// a valid entry. Decode is pure: it consults no external state, and the only
// failure modes are setup mistakes (sample/schema length mismatch, empty
// catalog), not per-sample conditions.
func Decode(sample []float64, schema Schema, catalogSize int, index int) (DesignPoint, error) {
	if len(sample) != schema.Dim() {
		return DesignPoint{}, fmt.Errorf("design: sample has %d values, schema %s expects %d",
			len(sample), schema.Variant, schema.Dim())
	}
	if catalogSize <= 0 {
		return DesignPoint{}, fmt.Errorf("design: catalog size must be positive, got %d", catalogSize)
	}

	p := DesignPoint{ID: PointID(schema.Variant, index), Variant: schema.Variant, TaperRatio: 1.0}
	for i, spec := range schema.Vars {
		u := sample[i]
		switch spec.Kind {
		case KindContinuous:
			setContinuous(&p, spec.Name, spec.Min+u*(spec.Max-spec.Min))
		case KindInteger:
			setInteger(&p, spec.Name, int(math.Round(spec.Min+u*(spec.Max-spec.Min))))
		case KindCatalogIndex:
			idx := int(math.Floor(spec.Min+u*(spec.Max-spec.Min+1))) % catalogSize
			if idx < 0 {
				idx += catalogSize
			}
			setInteger(&p, spec.Name, idx)
		}
	}
	return p, nil
}

func setContinuous(p *DesignPoint, name string, v float64) {
	switch name {
	case VarSpan:
		p.SpanM = v
	case VarChord:
		p.ChordM = v
	case VarChordRear:
		p.ChordRearM = v
	case VarTaperRatio:
		p.TaperRatio = v
	case VarSweepDeg:
		p.SweepDeg = v
	case VarDihedralDeg:
		p.DihedralDeg = v
	case VarTwistDeg:
		p.TwistDeg = v
	case VarStaggerRatio:
		p.StaggerRatio = v
	case VarGapRatio:
		p.GapRatio = v
	case VarDecalageDeg:
		p.DecalageDeg = v
	case VarTailAreaM2:
		p.TailAreaM2 = v
	case VarBoomLengthM:
		p.BoomLengthM = v
	case VarBoomDiameterM:
		p.BoomDiameterM = v
	}
}

func setInteger(p *DesignPoint, name string, v int) {
	switch name {
	case VarAirfoil:
		p.AirfoilIdx = v
	case VarAirfoilRear:
		p.AirfoilRearIdx = v
	case VarBatterySeries:
		p.BatterySeries = v
	case VarMotorBucket:
		p.MotorBucket = v
	case VarPropBucket:
		p.PropBucket = v
	case VarLiftMotor:
		p.LiftMotorBucket = v
	case VarLiftProp:
		p.LiftPropBucket = v
	}
}
