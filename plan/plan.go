// Package plan defines the Plan aggregate — a per-pipe path assignment —
// and the lexicographic quality ordering used to compare plans throughout
// the engine.
package plan

import (
	"math"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
)

// Plan is the ordered collection of pipes, position indicating pipe id
// (spec §3). Some pipes may be missing (Path == nil).
type Plan struct {
	Pipes []pipecost.Pipe
}

// New builds a Plan snapshot from pipes, indexed by their ID. Pipes must
// already carry contiguous IDs 0..len(pipes)-1; callers assign IDs at load
// time.
func New(pipes []pipecost.Pipe) Plan {
	return Plan{Pipes: append([]pipecost.Pipe(nil), pipes...)}
}

// NumRouted returns the count of pipes currently carrying a path.
func (p Plan) NumRouted() int {
	n := 0
	for _, pipe := range p.Pipes {
		if pipe.Routed() {
			n++
		}
	}
	return n
}

// NumMissing returns the count of pipes with no path.
func (p Plan) NumMissing() int {
	return len(p.Pipes) - p.NumRouted()
}

// TotalCost sums the cost of every routed pipe under cfg. It is +Inf if
// any routed pipe has infinite cost, or if nothing is routed at all
// (spec §3).
func (p Plan) TotalCost(cfg pipecost.CostConfig) float64 {
	if p.NumRouted() == 0 {
		return math.Inf(1)
	}
	var total float64
	for _, pipe := range p.Pipes {
		if !pipe.Routed() {
			continue
		}
		c := pipecost.Cost(pipe, cfg)
		if math.IsInf(c, 1) {
			return math.Inf(1)
		}
		total += c
	}
	return total
}

// Quality returns the lexicographic comparison tuple (num_missing, total_cost).
func (p Plan) Quality(cfg pipecost.CostConfig) (int, float64) {
	return p.NumMissing(), p.TotalCost(cfg)
}

// Less reports whether p is strictly better than other under lexicographic
// order: fewer missing pipes wins; ties broken by lower total cost.
func (p Plan) Less(other Plan, cfg pipecost.CostConfig) bool {
	pMissing, pCost := p.Quality(cfg)
	oMissing, oCost := other.Quality(cfg)
	if pMissing != oMissing {
		return pMissing < oMissing
	}
	return pCost < oCost
}

// Clone deep-copies the per-pipe path slices (the only mutable field
// branching needs to isolate) while leaving immutable pipe metadata (id,
// start, goal, diameter) shared by value (spec §9 "Plan copy-on-branch").
func (p Plan) Clone() Plan {
	out := make([]pipecost.Pipe, len(p.Pipes))
	for i, pipe := range p.Pipes {
		out[i] = pipe
		if pipe.Path != nil {
			out[i].Path = append([]env.Point3(nil), pipe.Path...)
		}
	}
	return Plan{Pipes: out}
}

// WithPath returns a copy of p with pipe id's path set to path (nil to
// mark it missing). It does not mutate p.
func (p Plan) WithPath(id int, path []env.Point3) Plan {
	out := p.Clone()
	out.Pipes[id].Path = path
	return out
}

// Routed returns the subset of pipes currently carrying a path.
func (p Plan) Routed() []pipecost.Pipe {
	out := make([]pipecost.Pipe, 0, len(p.Pipes))
	for _, pipe := range p.Pipes {
		if pipe.Routed() {
			out = append(out, pipe)
		}
	}
	return out
}
