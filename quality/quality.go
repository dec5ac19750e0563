// Package quality provides pure functions over plans: the lexicographic
// quality tuple, plan comparison, relative cost gap against a baseline,
// and aggregate metrics for reporting.
package quality

import (
	"math"

	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
)

// Quality returns the comparison tuple (num_missing, total_cost) of p.
func Quality(p plan.Plan, cfg pipecost.CostConfig) (int, float64) {
	return p.Quality(cfg)
}

// Compare orders a and b lexicographically: -1 if a is better, +1 if b is
// better, 0 on a tie.
func Compare(a, b plan.Plan, cfg pipecost.CostConfig) int {
	switch {
	case a.Less(b, cfg):
		return -1
	case b.Less(a, cfg):
		return 1
	default:
		return 0
	}
}

// IsBetter reports whether a is strictly better than b.
func IsBetter(a, b plan.Plan, cfg pipecost.CostConfig) bool {
	return a.Less(b, cfg)
}

// CostGap returns the relative cost gap of p against baseline, in percent:
// (p.cost/baseline.cost − 1) · 100. It is +Inf when either total cost is
// infinite or the baseline cost is zero.
func CostGap(p, baseline plan.Plan, cfg pipecost.CostConfig) float64 {
	pc := p.TotalCost(cfg)
	bc := baseline.TotalCost(cfg)
	if math.IsInf(pc, 1) || math.IsInf(bc, 1) || bc == 0 {
		return math.Inf(1)
	}

	return (pc/bc - 1) * 100
}

// Metrics aggregates per-plan counts, totals, and per-routed-pipe averages.
type Metrics struct {
	NumRouted  int
	NumMissing int
	TotalCost  float64
	AvgLength  float64
	AvgBends   float64
	AvgCost    float64
}

// DetailedMetrics computes Metrics for p. Averages cover routed pipes
// only and are zero when nothing is routed.
func DetailedMetrics(p plan.Plan, cfg pipecost.CostConfig) Metrics {
	m := Metrics{
		NumRouted:  p.NumRouted(),
		NumMissing: p.NumMissing(),
		TotalCost:  p.TotalCost(cfg),
	}
	if m.NumRouted == 0 {
		return m
	}

	var lengths, bends, costs float64
	for _, pipe := range p.Pipes {
		if !pipe.Routed() {
			continue
		}
		lengths += pipecost.Length(pipe.Path)
		bends += float64(pipecost.NumBends(pipe.Path))
		costs += pipecost.Cost(pipe, cfg)
	}
	n := float64(m.NumRouted)
	m.AvgLength = lengths / n
	m.AvgBends = bends / n
	m.AvgCost = costs / n

	return m
}
