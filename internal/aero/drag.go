package aero

import "math"

// DragBreakdown itemizes cruise drag in newtons.
type DragBreakdown struct {
	InducedN      float64 `json:"induced_n"`
	WingProfileN  float64 `json:"wing_profile_n"`
	TailProfileN  float64 `json:"tail_profile_n"`
	FuselageN     float64 `json:"fuselage_n"`
	BoomsN        float64 `json:"booms_n"`
	InterferenceN float64 `json:"interference_n"`
	StoppedPropsN float64 `json:"stopped_props_n"`
	TotalN        float64 `json:"total_n"`
}

// DragInput bundles what the buildup needs from the resolved design.
type DragInput struct {
	Variant      string
	Speed        float64
	WeightN      float64
	WingArea     float64
	AspectRatio  float64
	Oswald       float64
	CL           float64
	CdProfile    float64 // section profile drag at trim, from the polar
	TailArea     float64
	Fuselage     Fuselage
	BoomLengthM  float64 // vtol
	BoomDiamM    float64 // vtol
	LiftPropDiam float64 // vtol, stopped in cruise
}

// ComputeDrag performs the component drag buildup for one trimmed design.
func ComputeDrag(in DragInput) DragBreakdown {
	q := Q(in.Speed)
	var d DragBreakdown

	// Induced drag from the trimmed lift coefficient.
	cdi := in.CL * in.CL / (math.Pi * in.AspectRatio * in.Oswald)
	d.InducedN = q * in.WingArea * cdi

	// Wing profile drag straight from the section polar at trim.
	d.WingProfileN = q * in.WingArea * in.CdProfile

	// Tail surfaces at a flat-plate-plus-form factor.
	if in.TailArea > 0 {
		d.TailProfileN = q * in.TailArea * 0.010
	}

	// Fuselage: wetted-area friction with a fineness-ratio form factor.
	if in.Fuselage.WettedAreaM2 > 0 {
		fineness := in.Fuselage.LengthM / math.Max(in.Fuselage.WidthM, 1e-6)
		formFactor := 1 + 1.5/math.Pow(fineness, 1.5)
		cf := 0.0045
		d.FuselageN = q * in.Fuselage.WettedAreaM2 * cf * formFactor
	}

	// VTOL booms and stopped lift props.
	if in.BoomLengthM > 0 {
		frontal := 2 * in.BoomLengthM * in.BoomDiamM
		d.BoomsN = q * frontal * 0.30
	}
	if in.LiftPropDiam > 0 {
		// Four stopped props, drag area ~2% of disk area each.
		disk := math.Pi * in.LiftPropDiam * in.LiftPropDiam / 4
		d.StoppedPropsN = q * 4 * disk * 0.02
	}

	// Interference: junctions scale with the component drag they join.
	d.InterferenceN = 0.06 * (d.WingProfileN + d.TailProfileN + d.FuselageN + d.BoomsN)

	d.TotalN = d.InducedN + d.WingProfileN + d.TailProfileN +
		d.FuselageN + d.BoomsN + d.InterferenceN + d.StoppedPropsN
	return d
}
