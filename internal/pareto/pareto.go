// Package pareto extracts the non-dominated front from a set of accepted
// evaluation results. All objectives are maximized; minimized quantities
// must be negated by the caller before extraction.
package pareto

import (
	"fmt"
	"sort"

	"github.com/skysweep/skysweep/internal/eval"
)

// Objective names the metric an axis of the front maximizes.
type Objective string

const (
	ObjectiveFlightTime Objective = "flight_time"
	ObjectiveLDRatio    Objective = "ld_ratio"
	ObjectiveRange      Objective = "range"
)

// DefaultObjectives is the standard two-axis front: endurance against
// aerodynamic efficiency.
func DefaultObjectives() []Objective {
	return []Objective{ObjectiveFlightTime, ObjectiveLDRatio}
}

// ParseObjective maps a wire name to an Objective.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveFlightTime, ObjectiveLDRatio, ObjectiveRange:
		return Objective(s), nil
	}
	return "", fmt.Errorf("pareto: unknown objective %q", s)
}

// value projects one result onto an objective axis.
func value(r eval.Result, o Objective) float64 {
	switch o {
	case ObjectiveFlightTime:
		return r.Metrics.FlightTimeMin
	case ObjectiveLDRatio:
		return r.Metrics.LDRatio
	case ObjectiveRange:
		return r.Metrics.RangeKM
	}
	return 0
}

// dominates reports whether a dominates b: at least as good on every
// objective and strictly better on at least one. Objective-wise ties in
// both directions mean neither dominates, so duplicate-valued designs all
// survive extraction.
func dominates(a, b eval.Result, objs []Objective) bool {
	strict := false
	for _, o := range objs {
		va, vb := value(a, o), value(b, o)
		if va < vb {
			return false
		}
		if va > vb {
			strict = true
		}
	}
	return strict
}

// Extract returns the non-dominated subset of results, sorted descending by
// the first objective with later objectives and then the design point ID as
// deterministic tie-breaks. The input is not modified. Pairwise comparison
// is O(n²) in the accepted count, which is orders of magnitude below the
// sample count after constraint filtering.
func Extract(results []eval.Result, objs []Objective) []eval.Result {
	if len(objs) == 0 {
		objs = DefaultObjectives()
	}

	var front []eval.Result
	for i, cand := range results {
		dominated := false
		for j, other := range results {
			if i == j {
				continue
			}
			if dominates(other, cand, objs) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, cand)
		}
	}

	sort.Slice(front, func(i, j int) bool {
		for _, o := range objs {
			vi, vj := value(front[i], o), value(front[j], o)
			if vi != vj {
				return vi > vj
			}
		}
		return front[i].Point.ID < front[j].Point.ID
	})
	return front
}

// AxisStats summarizes one objective across the front.
type AxisStats struct {
	Objective Objective `json:"objective"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Spread    float64   `json:"spread"`
	BestPoint string    `json:"best_point"` // design point ID achieving Max
}

// Metrics computes per-objective stats for a front. Empty fronts yield an
// empty slice.
func Metrics(front []eval.Result, objs []Objective) []AxisStats {
	if len(front) == 0 {
		return nil
	}
	if len(objs) == 0 {
		objs = DefaultObjectives()
	}

	stats := make([]AxisStats, 0, len(objs))
	for _, o := range objs {
		s := AxisStats{
			Objective: o,
			Min:       value(front[0], o),
			Max:       value(front[0], o),
			BestPoint: front[0].Point.ID,
		}
		for _, r := range front[1:] {
			v := value(r, o)
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
				s.BestPoint = r.Point.ID
			}
		}
		s.Spread = s.Max - s.Min
		stats = append(stats, s)
	}
	return stats
}
