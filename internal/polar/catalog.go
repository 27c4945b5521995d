package polar

import "math"

// airfoilParams is the section model each embedded polar table is generated
// from: a linear lift region with a quadratic cap into stall, profile drag
// as a bucket polynomial around the design lift coefficient, and a
// power-law Reynolds scaling calibrated against published low-Re polars.
type airfoilParams struct {
	name      string
	zeroLift  float64 // degrees
	liftSlope float64 // per degree
	clMax200k float64 // section Cl max at Re = 200k
	cd0At200k float64 // minimum profile drag at Re = 200k
	clOpt     float64 // Cl of the drag bucket minimum
	cm0       float64
}

// The embedded set covers the reference selections: three low-Reynolds
// general-purpose sections, one reflex section for flying wings, and one
// high-lift section.
var defaultAirfoils = []airfoilParams{
	{name: "SD7032", zeroLift: -3.5, liftSlope: 0.105, clMax200k: 1.35, cd0At200k: 0.012, clOpt: 0.70, cm0: -0.08},
	{name: "SD7037", zeroLift: -3.0, liftSlope: 0.105, clMax200k: 1.30, cd0At200k: 0.011, clOpt: 0.60, cm0: -0.07},
	{name: "E387", zeroLift: -3.8, liftSlope: 0.106, clMax200k: 1.25, cd0At200k: 0.010, clOpt: 0.60, cm0: -0.08},
	{name: "MH60", zeroLift: -1.0, liftSlope: 0.103, clMax200k: 1.05, cd0At200k: 0.012, clOpt: 0.30, cm0: 0.01},
	{name: "S1223", zeroLift: -7.5, liftSlope: 0.108, clMax200k: 2.00, cd0At200k: 0.020, clOpt: 1.20, cm0: -0.25},
}

// Default builds the embedded catalog. The tables are generated once; the
// returned catalog is immutable.
func Default() *Catalog {
	c := &Catalog{byName: make(map[string]*Airfoil, len(defaultAirfoils))}
	for _, p := range defaultAirfoils {
		a := buildAirfoil(p)
		c.byName[a.name] = a
		c.names = append(c.names, a.name)
	}
	return c
}

const (
	alphaMin  = -8.0
	alphaMax  = 20.0
	alphaStep = 0.5
)

func buildAirfoil(p airfoilParams) *Airfoil {
	a := &Airfoil{name: p.name, zeroLift: p.zeroLift, liftSlope: p.liftSlope}
	for _, re := range ReynoldsNodes {
		a.tables = append(a.tables, buildTable(p, re))
	}
	return a
}

func buildTable(p airfoilParams, re float64) reTable {
	// Cl max grows weakly with Reynolds; profile drag shrinks.
	clMax := p.clMax200k * math.Pow(re/200_000, 0.07)
	cd0 := p.cd0At200k * math.Pow(200_000/re, 0.30)

	// Linear region ends at 90% Cl max; the cap peaks 2.5 degrees later.
	alphaBreak := p.zeroLift + 0.9*clMax/p.liftSlope
	stall := alphaBreak + 2.5

	t := reTable{re: re, clMax: clMax, stallAlpha: stall}
	for alpha := alphaMin; alpha <= alphaMax+1e-9; alpha += alphaStep {
		cl := sectionCl(p, alpha, clMax, alphaBreak, stall)
		cd := cd0 + 0.008*(cl-p.clOpt)*(cl-p.clOpt)
		if alpha > stall {
			// Separated-flow drag rise.
			cd += 0.02 * (alpha - stall)
		}
		cm := p.cm0
		if alpha > stall {
			cm -= 0.01 * (alpha - stall)
		}
		t.alphas = append(t.alphas, alpha)
		t.cl = append(t.cl, cl)
		t.cd = append(t.cd, cd)
		t.cm = append(t.cm, cm)
	}
	return t
}

func sectionCl(p airfoilParams, alpha, clMax, alphaBreak, stall float64) float64 {
	switch {
	case alpha <= alphaBreak:
		return p.liftSlope * (alpha - p.zeroLift)
	case alpha <= stall:
		// Quadratic cap from 0.9 Cl max at alphaBreak to Cl max at stall.
		u := (stall - alpha) / (stall - alphaBreak)
		return clMax - 0.1*clMax*u*u
	default:
		// Gentle post-stall decay, floored at 60% Cl max.
		cl := clMax - 0.1*clMax*(alpha-stall)
		return math.Max(cl, 0.6*clMax)
	}
}
