package skysweep

// Request describes one search over a single variant's design space.
// Zero-valued fields take the configured defaults.
type Request struct {
	// Variant is one of "tandem", "flying_wing", "traditional", "vtol".
	Variant string
	// Samples is the number of design candidates to evaluate.
	Samples int
	// Method is the sampling method: "sobol", "halton", "latin_hypercube",
	// or "random". Empty selects the configured default.
	Method string
	// Seed scrambles the sequence for reproducible independent runs; 0
	// means unscrambled.
	Seed uint64
	// Objectives to maximize: "flight_time", "ld_ratio", "range". Empty
	// selects flight_time and ld_ratio.
	Objectives []string
	// TargetFlightTimeMin overrides the configured battery sizing target
	// when positive.
	TargetFlightTimeMin float64
}

// Run is the public representation of a completed search.
// It is a curated view of the internal run record with no internal imports —
// safe to use from outside the module.
type Run struct {
	ID             string
	Variant        string
	Method         string
	Seed           uint64
	Samples        int
	NEvaluated     int64
	NValid         int64
	Degraded       int
	ElapsedSeconds float64
	Rejections     map[string]int64
	Front          []FrontEntry
	FrontMetrics   []ObjectiveStats
}

// FrontEntry is one Pareto-optimal design of a run.
type FrontEntry struct {
	Point   DesignPoint
	Metrics Metrics
}

// DesignPoint is the decoded geometry and propulsion selection of one
// candidate. Fields that do not apply to a variant are zero.
type DesignPoint struct {
	ID      string
	Variant string

	SpanM         float64
	ChordM        float64
	ChordRearM    float64
	TaperRatio    float64
	SweepDeg      float64
	DihedralDeg   float64
	TwistDeg      float64
	StaggerRatio  float64
	GapRatio      float64
	DecalageDeg   float64
	TailAreaM2    float64
	BoomLengthM   float64
	BoomDiameterM float64

	Airfoil     string
	AirfoilRear string

	BatterySeries int
	MotorBucket   int
	PropBucket    int
}

// Metrics are the performance figures of an accepted design.
type Metrics struct {
	FlightTimeMin float64
	RangeKM       float64
	LDRatio       float64
	WeightKG      float64
	CruisePowerW  float64
	StallSpeedMS  float64
}

// ObjectiveStats summarizes one objective across a front.
type ObjectiveStats struct {
	Objective string
	Min       float64
	Max       float64
	Spread    float64
	BestPoint string
}
