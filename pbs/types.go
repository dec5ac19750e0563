// Package pbs implements the high-level priority-based search: a
// depth-first exploration of a conflict tree over priority orderings of
// pipes. Each node snapshots a plan and an acyclic priority constraint
// set; branching on a conflict {p1,p2} tries both orderings, re-planning
// the lower-priority pipe with the low-level router against its
// transitively higher-priority pipes.
//
// Search policy (design level):
//
//  1. Root: independent routing — every pipe routed alone, empty
//     constraints. best starts as the root plan.
//  2. DFS over a stack, bounded by the global wall clock:
//     once a conflict-free plan has been accepted, prune nodes strictly
//     dominated by best; a conflict-free node within the missing-pipe
//     budget becomes the new best if none has been accepted yet or it is
//     strictly better; otherwise select one
//     conflict, branch both ways, skip cycle-forming branches, re-plan the
//     lower pipe on a deep copy, and push admissible children with the
//     worse-quality child first so the better one pops first.
//  3. Return best on stack exhaustion or deadline expiry — the engine
//     never fails; the worst case is the independent-routing plan.
//
// Determinism: conflict selection is the only nondeterminism and is driven
// by a seedable RNG; a fixed seed, instance, and parameter set reproduces
// the run exactly.
package pbs

import (
	"math"
	"time"

	"github.com/Navaljey/pipe-routing-project/conflict"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
	"github.com/Navaljey/pipe-routing-project/priority"
	"github.com/Navaljey/pipe-routing-project/router"
)

// MaxMissingUnbounded is the missing-pipe budget used by the PBS-MP
// variant: any number of pipes may stay unrouted.
const MaxMissingUnbounded = math.MaxInt

// DefaultTimeout is the default global wall-clock budget for one Solve.
const DefaultTimeout = 960 * time.Second

// CTNode is one conflict-tree node: a plan snapshot, the associated
// acyclic constraint set, and the depth from the root. Nodes are immutable
// once expanded; children receive deep copies of the parent's paths.
type CTNode struct {
	Plan        plan.Plan
	Constraints *priority.ConstraintSet
	Depth       int
}

// Options configures a Solve run.
//
// MaxMissing     – missing-pipe budget; 0 for plain PBS,
// MaxMissingUnbounded for PBS-MP.
// Policy         – conflict-selection policy (default cost-weighted).
// Timeout        – global wall-clock budget, checked at the top of each
// DFS iteration.
// PerPipeTimeout – per-call budget handed to the low-level router.
// Seed           – RNG seed for conflict selection; 0 maps to a fixed
// default stream so runs stay reproducible.
// Cost           – cost-model parameters shared with the router and the
// quality ordering.
type Options struct {
	MaxMissing     int
	Policy         conflict.Policy
	Timeout        time.Duration
	PerPipeTimeout time.Duration
	Seed           int64
	Cost           pipecost.CostConfig
}

// Option is a functional option for configuring Solve.
type Option func(*Options)

// DefaultOptions returns the defaults: MaxMissing=0, cost-weighted
// conflict selection, 960 s global and 180 s per-pipe budgets.
func DefaultOptions() Options {
	return Options{
		MaxMissing:     0,
		Policy:         conflict.PolicyCostWeighted,
		Timeout:        DefaultTimeout,
		PerPipeTimeout: router.DefaultTimeout,
		Seed:           0,
		Cost:           pipecost.DefaultCostConfig(),
	}
}

// WithMaxMissing sets the missing-pipe budget. Negative values are
// clamped to zero.
func WithMaxMissing(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.MaxMissing = n
	}
}

// WithPolicy sets the conflict-selection policy.
func WithPolicy(p conflict.Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithTimeout sets the global wall-clock budget. Non-positive values are
// ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithPerPipeTimeout sets the low-level router's per-call budget.
// Non-positive values are ignored.
func WithPerPipeTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.PerPipeTimeout = d
		}
	}
}

// WithSeed sets the conflict-selection RNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithCostConfig overrides the cost-model parameters.
func WithCostConfig(cfg pipecost.CostConfig) Option {
	return func(o *Options) { o.Cost = cfg }
}
