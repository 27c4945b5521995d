package aero

// Battery cell: 21700 lithium-ion, the reference cell for all packs.
const (
	CellMassKg    = 0.070
	CellEnergyWh  = 18.0
	CellDiameterM = 0.021
	CellLengthM   = 0.070
	CellVoltage   = 3.6
)

// PackMassKg returns the mass of a series×parallel pack including 8%
// packaging overhead (nickel strip, BMS, wrap).
func PackMassKg(series, parallel int) float64 {
	return float64(series*parallel) * CellMassKg * 1.08
}

// PackEnergyWh returns the rated pack energy.
func PackEnergyWh(series, parallel int) float64 {
	return float64(series*parallel) * CellEnergyWh
}

// MotorSpec is one bucket of the discrete motor choice.
type MotorSpec struct {
	Name       string
	MassKg     float64
	MaxPowerW  float64
	Efficiency float64 // electrical-to-shaft at cruise loading
}

// PropSpec is one bucket of the discrete propeller choice.
type PropSpec struct {
	Name          string
	DiameterM     float64
	MassKg        float64
	CruiseEta     float64 // propulsive efficiency at cruise advance ratio
	StaticThrustN float64 // per-motor static thrust with a matched motor
}

// Motor and prop buckets span the sub-2 kg electric airframe class.
var MotorBuckets = []MotorSpec{
	{Name: "2206", MassKg: 0.032, MaxPowerW: 120, Efficiency: 0.80},
	{Name: "2808", MassKg: 0.058, MaxPowerW: 220, Efficiency: 0.82},
	{Name: "3508", MassKg: 0.102, MaxPowerW: 380, Efficiency: 0.84},
	{Name: "4108", MassKg: 0.158, MaxPowerW: 600, Efficiency: 0.85},
}

var PropBuckets = []PropSpec{
	{Name: "7x5", DiameterM: 0.178, MassKg: 0.010, CruiseEta: 0.55, StaticThrustN: 4.2},
	{Name: "8x6", DiameterM: 0.203, MassKg: 0.013, CruiseEta: 0.58, StaticThrustN: 5.8},
	{Name: "9x6", DiameterM: 0.229, MassKg: 0.016, CruiseEta: 0.61, StaticThrustN: 7.6},
	{Name: "10x7", DiameterM: 0.254, MassKg: 0.021, CruiseEta: 0.63, StaticThrustN: 9.8},
	{Name: "12x8", DiameterM: 0.305, MassKg: 0.030, CruiseEta: 0.65, StaticThrustN: 14.5},
}

// Motor returns the bucketed motor spec, clamping out-of-range indices.
func Motor(bucket int) MotorSpec {
	return MotorBuckets[clampIdx(bucket, len(MotorBuckets))]
}

// Prop returns the bucketed prop spec, clamping out-of-range indices.
func Prop(bucket int) PropSpec {
	return PropBuckets[clampIdx(bucket, len(PropBuckets))]
}

// StaticThrustN estimates full-throttle static thrust for a motor/prop
// pairing, limited by the motor's power ceiling.
func StaticThrustN(motor MotorSpec, prop PropSpec) float64 {
	// Thrust scales with the power the motor can actually feed the prop.
	matched := prop.StaticThrustN
	ratio := motor.MaxPowerW / 250.0 // buckets are rated against a 250 W reference load
	if ratio < 1 {
		matched *= ratio
	}
	return matched
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
