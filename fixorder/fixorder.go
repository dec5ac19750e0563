// Package fixorder implements the fixed-order sequential baseline: pipes
// are sorted by manhattan(start,goal) · diameter descending and routed one
// after another, each successful pipe becoming a permanent obstacle for
// every later one. The baseline is deterministic, cheap, and used as the
// comparison point for the priority-based search.
package fixorder

import (
	"sort"
	"time"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
	"github.com/Navaljey/pipe-routing-project/router"
)

// Route solves every pipe sequentially in fixed heuristic order and
// returns the resulting plan, indexed by pipe id as usual. A pipe the
// router cannot place stays missing; later pipes never see it as an
// obstacle. Environment occupancy is restored before returning.
func Route(e *env.Environment, pipes []pipecost.Pipe, opts ...router.Option) plan.Plan {
	// 1) Order by manhattan(start,goal)·diameter descending; ties broken
	//    by ascending id so the order is fully deterministic.
	order := make([]pipecost.Pipe, len(pipes))
	copy(order, pipes)
	sort.SliceStable(order, func(i, j int) bool {
		wi, wj := weight(order[i]), weight(order[j])
		if wi != wj {
			return wi > wj
		}

		return order[i].ID < order[j].ID
	})

	// 2) Route sequentially; each success joins the permanent obstacle set
	//    handed to every later call.
	routed := make([]pipecost.Pipe, 0, len(order))
	result := plan.New(pipes)
	for _, p := range order {
		path, ok := router.Solve(e, p, routed, opts...)
		if !ok {
			result.Pipes[p.ID].Path = nil
			continue
		}
		p.Path = path
		result.Pipes[p.ID].Path = path
		routed = append(routed, p)
	}

	return result
}

// RouteWithTimeout is a convenience wrapper applying a per-pipe budget.
func RouteWithTimeout(e *env.Environment, pipes []pipecost.Pipe, perPipe time.Duration) plan.Plan {
	return Route(e, pipes, router.WithTimeout(perPipe))
}

// weight is the ordering key: manhattan(start, goal) scaled by diameter.
func weight(p pipecost.Pipe) float64 {
	m := abs(p.Start.X-p.Goal.X) + abs(p.Start.Y-p.Goal.Y) + abs(p.Start.Z-p.Goal.Z)

	return float64(m) * p.Diameter
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
