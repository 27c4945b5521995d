package skysweep

// PolarCatalog supplies airfoil section data to the solver.
// When provided via WithCatalog, replaces the built-in parametric catalog —
// use this to search against measured wind tunnel polars or an external
// database. Implementations must be safe for concurrent reads.
type PolarCatalog interface {
	// Polar returns Cl, Cd, Cm at an angle of attack (degrees) and Reynolds
	// number. Unknown airfoil names are an error, never defaulted.
	Polar(name string, alphaDeg, reynolds float64) (cl, cd, cm float64, err error)
	ClMax(name string, reynolds float64) (float64, error)
	StallAlpha(name string, reynolds float64) (float64, error)
	ZeroLiftAlpha(name string) (float64, error)
	LiftSlope(name string) (float64, error)
	NameAt(idx int) string
	Names() []string
	Len() int
}
