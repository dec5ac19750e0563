// Package router implements the single-pipe low-level router: a
// diameter-parameterized best-first search on the voxel grid that finds a
// minimum-cost axis-aligned path for one pipe, treating a given set of
// higher-priority pipes as obstacles, under a per-call wall-clock budget.
//
// Search model:
//
//   - State is (position, lastAxis); dominance is keyed by position alone,
//     keeping the minimum g-score seen per voxel.
//   - Step cost from u to a 6-neighbor v is dist(u,v) · pipe.Diameter
//     (dist = Euclidean, i.e. 1 per unit step), plus BendPenalty when the
//     move's axis differs from a defined lastAxis.
//   - Heuristic is the Manhattan distance to the goal — admissible for the
//     length component only; with bend penalties the search is best-first
//     heuristic, not guaranteed optimal.
//
// The router temporarily marks every higher-priority pipe's path on the
// environment and guarantees the unmark on every exit path: environment
// state after a call always equals its state before the call.
//
// Complexity:
//
//   - Time:  O(V log V) heap operations over V = Wx·Wy·Wz voxels
//     (lazy-decrease-key pushes duplicates and skips stale pops).
//   - Space: O(V) for the g-score map and open set.
//
// Timeout and unreachable both yield ok == false; the caller treats both
// as "no path".
package router

import (
	"time"

	"github.com/Navaljey/pipe-routing-project/pipecost"
)

// DefaultTimeout is the per-call wall-clock budget for one Solve.
const DefaultTimeout = 180 * time.Second

// Options configures a single Solve call.
//
// Timeout – per-call wall-clock budget; the deadline is checked on each
// pop from the open set.
// Cost    – cost-model parameters; only BendPenalty is consulted here.
type Options struct {
	Timeout time.Duration
	Cost    pipecost.CostConfig
}

// Option is a functional option for configuring Solve.
type Option func(*Options)

// DefaultOptions returns the defaults: 180 s timeout and the standard cost
// configuration.
func DefaultOptions() Options {
	return Options{
		Timeout: DefaultTimeout,
		Cost:    pipecost.DefaultCostConfig(),
	}
}

// WithTimeout sets the per-call wall-clock budget. Non-positive values are
// ignored, keeping the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithCostConfig overrides the cost-model parameters (BendPenalty drives
// the axis-change surcharge during search).
func WithCostConfig(cfg pipecost.CostConfig) Option {
	return func(o *Options) {
		o.Cost = cfg
	}
}
