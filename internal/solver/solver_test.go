package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysweep/skysweep/internal/aero"
	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/polar"
)

func testPoint() design.DesignPoint {
	return design.DesignPoint{
		ID:            "traditional-0000000",
		Variant:       design.VariantTraditional,
		SpanM:         0.9,
		ChordM:        0.18,
		TaperRatio:    0.8,
		TailAreaM2:    0.02,
		AirfoilIdx:    0, // SD7032
		BatterySeries: 4,
		MotorBucket:   2,
		PropBucket:    2,
	}
}

func testMission() Mission {
	return Mission{CruiseSpeedMS: 15.65, TargetFlightTimeMin: 30}
}

func TestSolve_Traditional(t *testing.T) {
	sol, err := Solve(polar.Default(), testPoint(), testMission())
	require.NoError(t, err)

	require.NotEmpty(t, sol.MassTrace)
	assert.LessOrEqual(t, len(sol.MassTrace), 15)
	assert.Equal(t, 1, sol.MassTrace[0], "sizing starts from a single parallel string")

	assert.Greater(t, sol.TotalMassKg, 0.3)
	assert.Greater(t, sol.Drag.TotalN, 0.0)
	assert.Greater(t, sol.CruisePowerW, aero.AvionicsPowerW())
	assert.Greater(t, sol.UsableEnergyWh, 0.0)
	assert.GreaterOrEqual(t, sol.BatteryParallel, 1)
	assert.Equal(t, 4, sol.BatterySeries)

	if sol.MassConverged {
		assert.Equal(t, DegradeNone, sol.MassReason)
		// Convergence means the pack covers the mission energy.
		needWh := sol.CruisePowerW * testMission().TargetFlightTimeMin / 60
		assert.GreaterOrEqual(t, sol.UsableEnergyWh, needWh)
	} else {
		assert.NotEqual(t, DegradeNone, sol.MassReason)
	}
}

func TestSolve_TrimStateIsCoherent(t *testing.T) {
	sol, err := Solve(polar.Default(), testPoint(), testMission())
	require.NoError(t, err)

	// Finite wing: the geometric angle always exceeds the effective one.
	assert.Greater(t, sol.AlphaGeomDeg, sol.AlphaEffDeg)
	assert.Greater(t, sol.CL, 0.0)
	assert.Greater(t, sol.CdProfile, 0.0)
	if sol.TrimConverged {
		assert.Less(t, sol.TrimResidual, trimTolerance)
	}
}

func TestSolve_HeavierMissionNeedsMoreBattery(t *testing.T) {
	cat := polar.Default()
	short, err := Solve(cat, testPoint(), Mission{CruiseSpeedMS: 15.65, TargetFlightTimeMin: 10})
	require.NoError(t, err)
	long, err := Solve(cat, testPoint(), Mission{CruiseSpeedMS: 15.65, TargetFlightTimeMin: 90})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, long.BatteryParallel, short.BatteryParallel)
	assert.Greater(t, long.TotalMassKg, short.TotalMassKg-1e-9)
}

func TestSolve_VTOLCarriesLiftSystem(t *testing.T) {
	p := testPoint()
	p.Variant = design.VariantVTOL
	p.ID = "vtol-0000000"
	p.BoomLengthM = 0.25
	p.BoomDiameterM = 0.018
	p.LiftMotorBucket = 1
	p.LiftPropBucket = 3

	base, err := Solve(polar.Default(), testPoint(), testMission())
	require.NoError(t, err)
	vtol, err := Solve(polar.Default(), p, testMission())
	require.NoError(t, err)

	// Four lift motors, props, and booms all add mass and drag.
	assert.Greater(t, vtol.TotalMassKg, base.TotalMassKg)
	assert.Greater(t, vtol.Drag.BoomsN, 0.0)
	assert.Greater(t, vtol.Drag.StoppedPropsN, 0.0)
}

func TestSolve_TandemUsesBothWings(t *testing.T) {
	p := design.DesignPoint{
		ID:            "tandem-0000000",
		Variant:       design.VariantTandem,
		SpanM:         0.8,
		ChordM:        0.14,
		ChordRearM:    0.12,
		StaggerRatio:  0.5,
		GapRatio:      0.12,
		AirfoilIdx:    0,
		BatterySeries: 4,
		MotorBucket:   2,
		PropBucket:    2,
	}
	sol, err := Solve(polar.Default(), p, testMission())
	require.NoError(t, err)

	// The combined reference area halves the CL target compared to the front
	// wing alone, so the trimmed CL stays modest.
	assert.Greater(t, sol.CL, 0.0)
	assert.Less(t, sol.CL, 1.2)
	assert.Equal(t, 0.0, sol.Drag.TailProfileN, "tandem has no separate tail")
}

func TestSolve_DetectsParallelCountOscillation(t *testing.T) {
	// A draggy section puts the mission's energy need between one and two
	// parallel strings: one string falls short, two overshoot by more than
	// 30%, so the sizing loop would bounce between the counts forever.
	cat := linearPolar{zeroLift: -2, slope: 0.1, stall: 15, clMax: 1.5, cd: 0.08}
	p := testPoint()
	p.BatterySeries = 3

	sol, err := Solve(cat, p, Mission{CruiseSpeedMS: 15.65, TargetFlightTimeMin: 46})
	require.NoError(t, err)

	assert.False(t, sol.MassConverged)
	assert.Equal(t, DegradeOscillation, sol.MassReason)
	assert.Equal(t, []int{1, 2}, sol.MassTrace)
	assert.Equal(t, 2, sol.BatteryParallel, "the last iterate is returned, not discarded")
}

func TestDegradeReason_String(t *testing.T) {
	assert.Equal(t, "converged", DegradeNone.String())
	assert.Equal(t, "iteration_budget", DegradeIterations.String())
	assert.Equal(t, "parallel_count_oscillation", DegradeOscillation.String())
}
