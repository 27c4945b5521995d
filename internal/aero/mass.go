package aero

import "math"

// Fuselage is the resolved pod geometry sized around the battery pack and
// avionics.
type Fuselage struct {
	LengthM      float64
	WidthM       float64
	HeightM      float64
	WettedAreaM2 float64
	FrontalM2    float64
	MassKg       float64
}

// Fixed equipment independent of the design variables.
const (
	avionicsMassKg = 0.085 // flight controller, GPS, RX, wiring
	avionicsPowerW = 5.0
	escMassKg      = 0.025
	payloadMassKg  = 0.050 // camera
)

// SizeFuselage sizes a minimum-drag pod around cellCount battery cells laid
// in two lengthwise rows, plus an avionics bay and a tapered tail cone.
func SizeFuselage(cellCount int) Fuselage {
	rows := 2
	if cellCount <= 3 {
		rows = 1
	}
	perRow := (cellCount + rows - 1) / rows

	packLen := float64(perRow) * CellDiameterM
	width := float64(rows)*CellDiameterM + 0.012
	height := CellLengthM + 0.010

	// Nose, avionics bay, pack, tail cone.
	length := 0.06 + 0.08 + packLen + 0.12

	// Prolate-spheroid approximations are close enough for a drag estimate.
	d := math.Sqrt(width * height) // effective diameter
	wetted := math.Pi * d * length * 0.75
	frontal := math.Pi * width * height / 4

	// Shell mass: areal density of a molded 2-layer composite skin.
	mass := wetted * 0.60

	return Fuselage{
		LengthM:      length,
		WidthM:       width,
		HeightM:      height,
		WettedAreaM2: wetted,
		FrontalM2:    frontal,
		MassKg:       mass,
	}
}

// WingMassKg estimates a built-up foam/composite wing's mass from area and
// aspect ratio. Higher AR needs a heavier spar for the same area.
func WingMassKg(g WingGeometry) float64 {
	arealDensity := 0.95 + 0.035*g.AspectRatio // kg/m^2
	return g.AreaM2 * arealDensity
}

// TailMassKg estimates tail surface mass from area.
func TailMassKg(tailArea float64) float64 {
	return tailArea * 0.70
}

// BoomMassKg estimates a VTOL motor boom pair from length and diameter
// (carbon tube, 1600 kg/m^3 effective with fittings).
func BoomMassKg(length, diameter float64) float64 {
	wall := 0.001
	circumference := math.Pi * diameter
	perBoom := circumference * wall * length * 1600
	return 2 * perBoom
}

// MassComponents is the itemized mass buildup of one resolved design.
type MassComponents struct {
	WingKg     float64
	TailKg     float64
	FuselageKg float64
	BoomsKg    float64
	BatteryKg  float64
	MotorsKg   float64
	PropsKg    float64
	FixedKg    float64 // avionics, ESC, payload
}

// TotalKg sums the buildup.
func (m MassComponents) TotalKg() float64 {
	return m.WingKg + m.TailKg + m.FuselageKg + m.BoomsKg +
		m.BatteryKg + m.MotorsKg + m.PropsKg + m.FixedKg
}

// FixedEquipmentKg returns the variable-independent equipment mass.
func FixedEquipmentKg() float64 {
	return avionicsMassKg + escMassKg + payloadMassKg
}

// AvionicsPowerW is the constant electrical load independent of thrust.
func AvionicsPowerW() float64 { return avionicsPowerW }
