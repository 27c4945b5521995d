package solver

import "math"

// Trim loop limits. The geometric angle is kept at least stallMarginDeg
// below the stall angle at the operating Reynolds number.
const (
	maxTrimIters   = 20
	trimTolerance  = 0.001 // |Cl error|
	stallMarginDeg = 1.0
)

// TrimInput is the operating point the trim loop resolves.
type TrimInput struct {
	CLTarget    float64
	AspectRatio float64 // math.Inf(1) is valid and zeroes the induced angle
	Oswald      float64
	Airfoil     string
	Reynolds    float64
}

// TrimResult carries the resolved trim state. On non-convergence the last
// iterate is returned with Converged = false; callers decide whether the
// residual is acceptable.
type TrimResult struct {
	AlphaGeomDeg float64
	AlphaEffDeg  float64
	Cl           float64
	Cd           float64
	Converged    bool
	Iterations   int
	Residual     float64
}

// Trim resolves the geometric angle of attack that achieves the target lift
// coefficient, accounting for the induced downwash of a finite wing. The
// fixed point iterates on the geometric angle: at each step the achieved Cl
// is looked up at the effective angle (geometric minus induced), the error
// against target computed, and the geometric angle corrected by
// error/Cl_alpha.
func Trim(cat PolarSource, in TrimInput) (TrimResult, error) {
	alpha0, err := cat.ZeroLiftAlpha(in.Airfoil)
	if err != nil {
		return TrimResult{}, err
	}
	slope, err := cat.LiftSlope(in.Airfoil)
	if err != nil {
		return TrimResult{}, err
	}
	stall, err := cat.StallAlpha(in.Airfoil, in.Reynolds)
	if err != nil {
		return TrimResult{}, err
	}
	alphaCap := stall - stallMarginDeg

	// 2D estimate as the starting iterate.
	alpha := alpha0 + in.CLTarget/slope
	if alpha > alphaCap {
		alpha = alphaCap
	}

	var res TrimResult
	cl := in.CLTarget
	for i := 0; i < maxTrimIters; i++ {
		alphaInduced := inducedAngleDeg(cl, in.AspectRatio, in.Oswald)
		alphaEff := alpha - alphaInduced

		achieved, cd, _, err := cat.Polar(in.Airfoil, alphaEff, in.Reynolds)
		if err != nil {
			return TrimResult{}, err
		}

		residual := in.CLTarget - achieved
		res = TrimResult{
			AlphaGeomDeg: alpha,
			AlphaEffDeg:  alphaEff,
			Cl:           achieved,
			Cd:           cd,
			Iterations:   i + 1,
			Residual:     residual,
		}
		if math.Abs(residual) < trimTolerance {
			res.Converged = true
			return res, nil
		}

		cl = achieved
		alpha += residual / slope
		if alpha > alphaCap {
			alpha = alphaCap
		}
	}
	return res, nil
}

// inducedAngleDeg is the downwash angle for an achieved lift coefficient.
func inducedAngleDeg(cl, aspectRatio, oswald float64) float64 {
	if math.IsInf(aspectRatio, 1) || aspectRatio <= 0 {
		return 0
	}
	return cl / (math.Pi * aspectRatio * oswald) * 180 / math.Pi
}
