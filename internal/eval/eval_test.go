package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/polar"
)

func newTestEvaluator(t *testing.T, v design.Variant) *Evaluator {
	t.Helper()
	ev, err := New(design.SchemaFor(v), DefaultConstraints(), polar.Default())
	require.NoError(t, err)
	return ev
}

func midSample(dim int) []float64 {
	s := make([]float64, dim)
	for i := range s {
		s[i] = 0.5
	}
	return s
}

func TestNew_RejectsBadSetup(t *testing.T) {
	schema := design.SchemaFor(design.VariantTraditional)

	_, err := New(schema, Constraints{}, polar.Default())
	assert.Error(t, err, "zero constraints fail validation")

	bad := schema
	bad.Vars = nil
	_, err = New(bad, DefaultConstraints(), polar.Default())
	assert.Error(t, err)

	_, err = New(schema, DefaultConstraints(), nil)
	assert.Error(t, err)
}

func TestEvaluate_ReturnsTaggedResult(t *testing.T) {
	ev := newTestEvaluator(t, design.VariantTraditional)
	schema := design.SchemaFor(design.VariantTraditional)

	r := ev.Evaluate(midSample(schema.Dim()), 7)
	assert.Equal(t, "traditional-0000007", r.Point.ID)
	if r.Accepted {
		assert.Equal(t, ReasonNone, r.Reason)
		assert.Greater(t, r.Metrics.FlightTimeMin, 0.0)
		assert.Greater(t, r.Metrics.RangeKM, 0.0)
		assert.Greater(t, r.Metrics.LDRatio, 0.0)
		assert.Greater(t, r.Metrics.WeightKG, 0.0)
		assert.Less(t, r.Metrics.StallSpeedMS, DefaultConstraints().MaxStallSpeedMS+1e-9)
	} else {
		assert.NotEqual(t, ReasonNone, r.Reason)
	}
}

func TestEvaluate_SampleLengthMismatch(t *testing.T) {
	ev := newTestEvaluator(t, design.VariantTraditional)
	r := ev.Evaluate([]float64{0.5, 0.5}, 0)
	assert.False(t, r.Accepted)
	assert.Equal(t, ReasonDecode, r.Reason)
}

func TestFilter_SpanBeforeLength(t *testing.T) {
	c := DefaultConstraints()

	p := design.DesignPoint{Variant: design.VariantTraditional, SpanM: 1.4, ChordM: 0.5}
	reason, ok := Filter(p, c)
	assert.False(t, ok)
	assert.Equal(t, ReasonSpan, reason, "span is checked before length")

	p = design.DesignPoint{Variant: design.VariantTraditional, SpanM: 0.9, ChordM: 0.5}
	reason, ok = Filter(p, c)
	assert.False(t, ok)
	assert.Equal(t, ReasonLength, reason)

	p = design.DesignPoint{Variant: design.VariantTraditional, SpanM: 0.9, ChordM: 0.18}
	reason, ok = Filter(p, c)
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)
}

func TestEstimateLength_Variants(t *testing.T) {
	trad := design.DesignPoint{Variant: design.VariantTraditional, ChordM: 0.2}
	assert.InDelta(t, 0.2+2.8*0.2+0.1, EstimateLengthM(trad), 1e-12)

	tandem := design.DesignPoint{
		Variant: design.VariantTandem, SpanM: 0.8, ChordM: 0.15, ChordRearM: 0.12, StaggerRatio: 0.5,
	}
	assert.InDelta(t, 0.5*0.8+0.15+0.12, EstimateLengthM(tandem), 1e-12)

	// An unswept flying wing is just its chord.
	fw := design.DesignPoint{Variant: design.VariantFlyingWing, SpanM: 0.9, ChordM: 0.25}
	assert.InDelta(t, 0.25, EstimateLengthM(fw), 1e-12)

	// Sweep adds length.
	fw.SweepDeg = 25
	assert.Greater(t, EstimateLengthM(fw), 0.25)

	vtol := design.DesignPoint{Variant: design.VariantVTOL, ChordM: 0.2, BoomLengthM: 0.3}
	assert.InDelta(t, 0.2+2.8*0.2+0.3, EstimateLengthM(vtol), 1e-12)
}

func TestConstraints_Validate(t *testing.T) {
	require.NoError(t, DefaultConstraints().Validate())

	tests := []struct {
		name   string
		mutate func(*Constraints)
	}{
		{"zero span", func(c *Constraints) { c.MaxSpanM = 0 }},
		{"negative length", func(c *Constraints) { c.MaxLengthM = -1 }},
		{"zero stall limit", func(c *Constraints) { c.MaxStallSpeedMS = 0 }},
		{"cruise below stall", func(c *Constraints) { c.CruiseSpeedMS = 5.0 }},
		{"zero thrust weight", func(c *Constraints) { c.MinThrustWeight = 0 }},
		{"zero flight time", func(c *Constraints) { c.TargetFlightTimeMin = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConstraints()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConstraints_StallFloor(t *testing.T) {
	c := DefaultConstraints()
	assert.Equal(t, c.MaxStallSpeedMS, c.StallFloor(design.VariantTraditional))
	assert.Equal(t, c.MaxStallSpeedMS, c.StallFloor(design.VariantTandem))
	// VTOL lands in hover, so its stall limit is relaxed.
	assert.Equal(t, c.MaxStallSpeedMS*2.5, c.StallFloor(design.VariantVTOL))
}

func TestEvaluate_RunAcrossVariants(t *testing.T) {
	// Sweep a small sample grid per variant; every result must be tagged and
	// no evaluation may panic or return the zero result.
	for _, v := range design.AllVariants() {
		t.Run(string(v), func(t *testing.T) {
			ev := newTestEvaluator(t, v)
			dim := design.SchemaFor(v).Dim()
			for i := 0; i < 32; i++ {
				sample := make([]float64, dim)
				for j := range sample {
					sample[j] = float64((i*dim+j*7)%32) / 32.0
				}
				r := ev.Evaluate(sample, i)
				if r.Accepted {
					assert.Equal(t, ReasonNone, r.Reason)
					assert.Greater(t, r.Metrics.WeightKG, 0.0)
				} else {
					assert.NotEqual(t, ReasonNone, r.Reason)
				}
				assert.Equal(t, v, r.Point.Variant)
			}
		})
	}
}
