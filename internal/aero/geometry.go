// Package aero carries the airframe performance formulas the solver and
// evaluator consume: wing geometry, span efficiency, the tandem downwash
// model, component drag buildup, mass buildup, and the propulsion and
// battery tables.
package aero

// Standard atmosphere at low altitude.
const (
	AirDensity = 1.225   // kg/m^3
	Gravity    = 9.81    // m/s^2
	KinViscAir = 1.46e-5 // m^2/s
)

// WingGeometry is the resolved planform of a single lifting surface.
type WingGeometry struct {
	SpanM       float64
	ChordRootM  float64
	ChordTipM   float64
	AreaM2      float64
	AspectRatio float64
	MACM        float64
	TaperRatio  float64
}

// NewWingGeometry resolves a trapezoidal planform from span, root chord,
// and taper ratio.
func NewWingGeometry(span, chordRoot, taper float64) WingGeometry {
	chordTip := chordRoot * taper
	area := span * (chordRoot + chordTip) / 2
	mac := (2.0 / 3.0) * chordRoot * (1 + taper + taper*taper) / (1 + taper)
	return WingGeometry{
		SpanM:       span,
		ChordRootM:  chordRoot,
		ChordTipM:   chordTip,
		AreaM2:      area,
		AspectRatio: span * span / area,
		MACM:        mac,
		TaperRatio:  taper,
	}
}

// Reynolds returns the chord Reynolds number at the given speed.
func Reynolds(speed, chord float64) float64 {
	return speed * chord / KinViscAir
}

// Dynamic pressure.
func Q(speed float64) float64 {
	return 0.5 * AirDensity * speed * speed
}
