package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearPolar is a synthetic section with a perfectly linear lift curve and
// constant profile drag, so trim and sizing behavior can be checked in
// closed form.
type linearPolar struct {
	zeroLift float64
	slope    float64
	stall    float64
	clMax    float64
	cd       float64
}

func (p linearPolar) Polar(_ string, alphaDeg, _ float64) (float64, float64, float64, error) {
	return p.slope * (alphaDeg - p.zeroLift), p.cd, -0.05, nil
}
func (p linearPolar) ClMax(string, float64) (float64, error)      { return p.clMax, nil }
func (p linearPolar) StallAlpha(string, float64) (float64, error) { return p.stall, nil }
func (p linearPolar) ZeroLiftAlpha(string) (float64, error)       { return p.zeroLift, nil }
func (p linearPolar) LiftSlope(string) (float64, error)           { return p.slope, nil }
func (p linearPolar) NameAt(int) string                           { return "LINEAR" }
func (p linearPolar) Len() int                                    { return 1 }

func TestTrim_InfiniteAspectRatioConvergesImmediately(t *testing.T) {
	cat := linearPolar{zeroLift: -2, slope: 0.1, stall: 15, clMax: 1.5, cd: 0.01}

	// With no induced angle the 2D starting estimate is already exact.
	res, err := Trim(cat, TrimInput{
		CLTarget:    0.5,
		AspectRatio: math.Inf(1),
		Oswald:      0.9,
		Airfoil:     "LINEAR",
		Reynolds:    200_000,
	})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.InDelta(t, 0.5, res.Cl, 1e-9)
	assert.InDelta(t, 3.0, res.AlphaGeomDeg, 1e-9)
	assert.InDelta(t, res.AlphaGeomDeg, res.AlphaEffDeg, 1e-9)
}

func TestTrim_FiniteWingConverges(t *testing.T) {
	cat := linearPolar{zeroLift: -2, slope: 0.1, stall: 15, clMax: 1.5, cd: 0.01}

	res, err := Trim(cat, TrimInput{
		CLTarget:    0.6,
		AspectRatio: 10,
		Oswald:      0.9,
		Airfoil:     "LINEAR",
		Reynolds:    200_000,
	})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Iterations, maxTrimIters)
	assert.Less(t, math.Abs(res.Residual), trimTolerance)

	// The geometric angle exceeds the effective angle by the induced angle.
	assert.Greater(t, res.AlphaGeomDeg, res.AlphaEffDeg)
}

func TestTrim_UnreachableTargetCapsAtStallMargin(t *testing.T) {
	cat := linearPolar{zeroLift: -2, slope: 0.1, stall: 15, clMax: 1.5, cd: 0.01}

	res, err := Trim(cat, TrimInput{
		CLTarget:    5.0, // far beyond what the section can produce
		AspectRatio: 8,
		Oswald:      0.85,
		Airfoil:     "LINEAR",
		Reynolds:    200_000,
	})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, maxTrimIters, res.Iterations)
	assert.InDelta(t, cat.stall-stallMarginDeg, res.AlphaGeomDeg, 1e-9)
	assert.Greater(t, res.Residual, 0.0)
}

func TestInducedAngle(t *testing.T) {
	// cl/(pi·AR·e) in radians, reported in degrees.
	got := inducedAngleDeg(0.6, 6, 0.85)
	want := 0.6 / (math.Pi * 6 * 0.85) * 180 / math.Pi
	assert.InDelta(t, want, got, 1e-12)

	assert.Equal(t, 0.0, inducedAngleDeg(0.6, math.Inf(1), 0.85))
	assert.Equal(t, 0.0, inducedAngleDeg(0.6, 0, 0.85))
}
