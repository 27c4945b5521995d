// Package polar provides the airfoil polar catalog consumed by the trim
// solver and the evaluator.
//
// Polars are tabulated per Reynolds node at {50k, 100k, 150k, 200k, 300k,
// 500k} and looked up by linear interpolation in angle of attack and
// log-linear blending between the bracketing Reynolds nodes. Values outside
// the tabulated Reynolds range are extrapolated from the nearest bracketing
// pair rather than rejected. The catalog is loaded once at process start
// and is immutable afterward, so workers may read it without
// synchronization.
package polar

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownAirfoil is returned when a lookup names an airfoil the catalog
// does not carry. The catalog never silently substitutes a default.
var ErrUnknownAirfoil = errors.New("polar: unknown airfoil")

// ReynoldsNodes are the tabulated Reynolds numbers required for every
// airfoil in the catalog.
var ReynoldsNodes = []float64{50_000, 100_000, 150_000, 200_000, 300_000, 500_000}

// Point is one interpolated polar sample.
type Point struct {
	Cl float64
	Cd float64
	Cm float64
}

// reTable is the tabulated polar at one Reynolds node.
type reTable struct {
	re         float64
	alphas     []float64 // ascending, degrees
	cl, cd, cm []float64
	clMax      float64
	stallAlpha float64 // degrees, where clMax occurs
}

// Airfoil is one catalog entry with its per-Reynolds tables.
type Airfoil struct {
	name      string
	zeroLift  float64 // degrees
	liftSlope float64 // per degree, thin-airfoil section slope
	tables    []reTable
}

// Name returns the airfoil's catalog name.
func (a *Airfoil) Name() string { return a.name }

// Catalog is an immutable, name-keyed set of airfoils.
type Catalog struct {
	byName map[string]*Airfoil
	names  []string // catalog order, stable for index decoding
}

// Len returns the number of airfoils.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns the airfoil names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// NameAt resolves a decoded catalog index to an airfoil name.
func (c *Catalog) NameAt(idx int) string {
	return c.names[idx%len(c.names)]
}

func (c *Catalog) airfoil(name string) (*Airfoil, error) {
	a, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAirfoil, name)
	}
	return a, nil
}

// Polar returns Cl, Cd, Cm at the given angle of attack and Reynolds number.
func (c *Catalog) Polar(name string, alphaDeg, reynolds float64) (float64, float64, float64, error) {
	a, err := c.airfoil(name)
	if err != nil {
		return 0, 0, 0, err
	}
	lo, hi, t := a.bracketRe(reynolds)
	pl := lo.at(alphaDeg)
	ph := hi.at(alphaDeg)
	return lerp(pl.Cl, ph.Cl, t), lerp(pl.Cd, ph.Cd, t), lerp(pl.Cm, ph.Cm, t), nil
}

// ClMax returns the section maximum lift coefficient at the given Reynolds
// number.
func (c *Catalog) ClMax(name string, reynolds float64) (float64, error) {
	a, err := c.airfoil(name)
	if err != nil {
		return 0, err
	}
	lo, hi, t := a.bracketRe(reynolds)
	return lerp(lo.clMax, hi.clMax, t), nil
}

// StallAlpha returns the stall angle in degrees at the given Reynolds
// number.
func (c *Catalog) StallAlpha(name string, reynolds float64) (float64, error) {
	a, err := c.airfoil(name)
	if err != nil {
		return 0, err
	}
	lo, hi, t := a.bracketRe(reynolds)
	return lerp(lo.stallAlpha, hi.stallAlpha, t), nil
}

// ZeroLiftAlpha returns the zero-lift angle of attack in degrees.
func (c *Catalog) ZeroLiftAlpha(name string) (float64, error) {
	a, err := c.airfoil(name)
	if err != nil {
		return 0, err
	}
	return a.zeroLift, nil
}

// LiftSlope returns the section lift-curve slope in 1/degree.
func (c *Catalog) LiftSlope(name string) (float64, error) {
	a, err := c.airfoil(name)
	if err != nil {
		return 0, err
	}
	return a.liftSlope, nil
}

// bracketRe finds the two Reynolds tables around re and the log-space blend
// factor between them. Outside the table range the nearest bracketing pair
// is reused, which extrapolates instead of clamping.
func (a *Airfoil) bracketRe(re float64) (*reTable, *reTable, float64) {
	n := len(a.tables)
	if re <= a.tables[0].re {
		lo, hi := &a.tables[0], &a.tables[1]
		return lo, hi, logBlend(re, lo.re, hi.re)
	}
	if re >= a.tables[n-1].re {
		lo, hi := &a.tables[n-2], &a.tables[n-1]
		return lo, hi, logBlend(re, lo.re, hi.re)
	}
	i := sort.Search(n, func(i int) bool { return a.tables[i].re >= re }) - 1
	lo, hi := &a.tables[i], &a.tables[i+1]
	return lo, hi, logBlend(re, lo.re, hi.re)
}

func logBlend(re, lo, hi float64) float64 {
	if re <= 0 {
		return 0
	}
	return (math.Log(re) - math.Log(lo)) / (math.Log(hi) - math.Log(lo))
}

// at interpolates the table at alphaDeg, clamping to the tabulated range.
func (t *reTable) at(alphaDeg float64) Point {
	n := len(t.alphas)
	if alphaDeg <= t.alphas[0] {
		return Point{t.cl[0], t.cd[0], t.cm[0]}
	}
	if alphaDeg >= t.alphas[n-1] {
		return Point{t.cl[n-1], t.cd[n-1], t.cm[n-1]}
	}
	i := sort.SearchFloat64s(t.alphas, alphaDeg)
	if t.alphas[i] > alphaDeg {
		i--
	}
	u := (alphaDeg - t.alphas[i]) / (t.alphas[i+1] - t.alphas[i])
	return Point{
		Cl: lerp(t.cl[i], t.cl[i+1], u),
		Cd: lerp(t.cd[i], t.cd[i+1], u),
		Cm: lerp(t.cm[i], t.cm[i+1], u),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
