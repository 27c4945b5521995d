package aero

import "math"

// Base Oswald efficiency for a clean trapezoidal wing, corrected per
// configuration. The corrections reflect tandem downwash interference,
// flying-wing washout loading, and VTOL boom/stopped-prop wake losses.
const baseOswald = 0.85

var oswaldCorrection = map[string]float64{
	"tandem":      0.82,
	"flying_wing": 0.90,
	"traditional": 1.00,
	"vtol":        0.78,
}

// Oswald returns the span efficiency factor for a variant. Taper moves the
// loading toward or away from elliptical; the quadratic term penalizes
// strong taper.
func Oswald(variant string, taper float64) float64 {
	e := baseOswald
	if c, ok := oswaldCorrection[variant]; ok {
		e *= c
	}
	// Minimum induced drag sits near taper 0.4; deviation costs a little.
	d := taper - 0.4
	e *= 1 - 0.05*d*d
	return clamp(e, 0.5, 1.0)
}

// DownwashFactor is the normalized downwash the rear wing of a tandem pair
// sees from the front wing's trailing vortex sheet: 1 directly behind with
// no offset, decaying exponentially with vertical gap and inversely with
// stagger as the sheet rolls up. Negative gap (rear wing below) sees
// slightly more downwash because the sheet curves downward.
func DownwashFactor(gapRatio, staggerRatio float64) float64 {
	const (
		kVertical     = 5.0
		kLongitudinal = 0.8
	)
	vertical := math.Exp(-kVertical * math.Abs(gapRatio))
	if gapRatio < 0 {
		vertical *= 1 + 0.15*math.Abs(gapRatio)
	}
	longitudinal := 1 / (1 + kLongitudinal*staggerRatio)
	return clamp(vertical*longitudinal, 0, 1)
}

// FrontWingEfficiency is the front wing's induced efficiency relative to an
// isolated monoplane (1.0 = identical). The front wing flies in nearly
// clean air with a small upwash benefit from the rear wing's bound vortex.
func FrontWingEfficiency(gapRatio, staggerRatio float64) float64 {
	benefit := 0.03 / (1 + 2*staggerRatio)
	if gapRatio > 0 {
		benefit *= 1 + gapRatio
	}
	return 1 + benefit
}

// RearWingEfficiency is the rear wing's induced efficiency relative to an
// isolated monoplane. At full downwash the rear wing's induced drag rises
// by up to 70%.
func RearWingEfficiency(gapRatio, staggerRatio float64) float64 {
	const maxDragPenalty = 0.70
	dw := DownwashFactor(gapRatio, staggerRatio)
	return 1 / (1 + maxDragPenalty*dw)
}

// TandemSystemOswald folds the per-wing efficiencies into the effective
// span efficiency used by the trim loop for the combined tandem system.
func TandemSystemOswald(gapRatio, staggerRatio, taper float64) float64 {
	system := (FrontWingEfficiency(gapRatio, staggerRatio) + RearWingEfficiency(gapRatio, staggerRatio)) / 2
	return clamp(Oswald("tandem", taper)*system, 0.4, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
