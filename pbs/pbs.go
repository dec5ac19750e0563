package pbs

import (
	"math/rand"
	"time"

	"github.com/Navaljey/pipe-routing-project/conflict"
	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
	"github.com/Navaljey/pipe-routing-project/priority"
	"github.com/Navaljey/pipe-routing-project/router"
)

// Solve runs priority-based search over pipes on e and returns the best
// plan found within the global wall-clock budget. It never fails: the
// worst case is the independent-routing plan, possibly with missing or
// conflicting pipes.
func Solve(e *env.Environment, pipes []pipecost.Pipe, opts ...Option) plan.Plan {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	eng := &engine{
		env:      e,
		cfg:      cfg,
		rng:      conflict.RNGFromSeed(cfg.Seed),
		deadline: time.Now().Add(cfg.Timeout),
	}

	return eng.run(pipes)
}

// engine holds the mutable state of one PBS run.
type engine struct {
	env      *env.Environment
	cfg      Options
	rng      *rand.Rand
	deadline time.Time

	best plan.Plan // incumbent, monotonically improving once valid
	// bestValid records whether best is an accepted solution (conflict-free
	// and within the missing-pipe budget). Until then best is only the
	// fallback return value and never prunes: the root plan's quality is
	// deceptively good while its conflicts are unresolved, and pruning
	// against it would discard every legitimately detoured child.
	bestValid bool
}

// run executes independent routing followed by the conflict-tree DFS.
func (eng *engine) run(pipes []pipecost.Pipe) plan.Plan {
	// 1) Independent routing: every pipe alone, no other-pipe obstacles.
	root := eng.independentRoot(pipes)
	eng.best = root.Plan

	// 2) DFS over the conflict tree, LIFO stack.
	stack := []*CTNode{root}
	for len(stack) > 0 {
		// Global deadline is checked at the top of each iteration; expiry
		// is routine and returns the incumbent.
		if time.Now().After(eng.deadline) {
			break
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// 2b) Prune nodes strictly dominated by the incumbent solution.
		if eng.bestValid && eng.best.Less(node.Plan, eng.cfg.Cost) {
			continue
		}

		// 2c) Conflict-free within budget: accept as the new incumbent when
		// there is no accepted one yet or it is strictly better.
		if !conflict.HasConflicts(node.Plan) {
			if node.Plan.NumMissing() <= eng.cfg.MaxMissing &&
				(!eng.bestValid || node.Plan.Less(eng.best, eng.cfg.Cost)) {
				eng.best = node.Plan
				eng.bestValid = true
			}
			continue
		}

		// 2d) Select one conflict to branch on.
		conflicts := conflict.Detect(node.Plan)
		c := conflict.Select(conflicts, node.Plan, eng.cfg.Cost, eng.cfg.Policy, eng.rng)

		// 2e) Branch both orderings; collect admissible children.
		children := make([]*CTNode, 0, 2)
		for _, branch := range [2]priority.Constraint{
			{Higher: c.P1, Lower: c.P2},
			{Higher: c.P2, Lower: c.P1},
		} {
			if child, ok := eng.expand(node, branch); ok {
				children = append(children, child)
			}
		}

		// 2f) Worse-quality child pushed first so the better one pops
		// first under LIFO order.
		if len(children) == 2 && children[0].Plan.Less(children[1].Plan, eng.cfg.Cost) {
			children[0], children[1] = children[1], children[0]
		}
		stack = append(stack, children...)
	}

	return eng.best
}

// independentRoot routes every pipe with an empty higher-priority set and
// wraps the result in the root conflict-tree node.
func (eng *engine) independentRoot(pipes []pipecost.Pipe) *CTNode {
	routed := make([]pipecost.Pipe, len(pipes))
	copy(routed, pipes)
	for i := range routed {
		path, ok := eng.route(routed[i], nil)
		if ok {
			routed[i].Path = path
		} else {
			routed[i].Path = nil
		}
	}

	return &CTNode{
		Plan:        plan.New(routed),
		Constraints: priority.NewConstraintSet(),
		Depth:       0,
	}
}

// expand tries one ordered branch (higher, lower): extend the constraint
// set, skip on cycle, deep-copy the plan, re-plan the lower pipe against
// its transitively higher-priority routed pipes, and admit the child iff
// it stays within the missing-pipe budget.
func (eng *engine) expand(node *CTNode, branch priority.Constraint) (*CTNode, bool) {
	// A conflict can outlive its ordering when two wide pipes stay within
	// clearance without sharing voxels; re-branching on a constraint that
	// is already present reproduces the same child forever, so skip it.
	if node.Constraints.Contains(branch) {
		return nil, false
	}

	// i) Tentative constraints: copy, add, test. Cycle ⇒ silently skip.
	tentative := node.Constraints.Copy()
	if err := tentative.Add(branch); err != nil {
		return nil, false
	}
	if !tentative.IsConsistent() {
		return nil, false
	}

	// ii) Deep-copy the parent's plan; branching never shares paths.
	childPlan := node.Plan.Clone()

	// iii) Obstacle set: every pipe transitively higher-priority than the
	// lower pipe that currently has a path.
	obstacles := make([]pipecost.Pipe, 0)
	for _, id := range tentative.TransitivelyHigher(branch.Lower) {
		if childPlan.Pipes[id].Routed() {
			obstacles = append(obstacles, childPlan.Pipes[id])
		}
	}

	// iv–v) Re-plan the lower pipe; failure yields a missing pipe.
	lower := childPlan.Pipes[branch.Lower]
	lower.Path = nil
	if path, ok := eng.route(lower, obstacles); ok {
		childPlan.Pipes[branch.Lower].Path = path
	} else {
		childPlan.Pipes[branch.Lower].Path = nil
	}

	if childPlan.NumMissing() > eng.cfg.MaxMissing {
		return nil, false
	}

	return &CTNode{
		Plan:        childPlan,
		Constraints: tentative,
		Depth:       node.Depth + 1,
	}, true
}

// route invokes the low-level router with the engine's per-pipe budget and
// cost configuration.
func (eng *engine) route(pipe pipecost.Pipe, obstacles []pipecost.Pipe) ([]env.Point3, bool) {
	return router.Solve(eng.env, pipe, obstacles,
		router.WithTimeout(eng.cfg.PerPipeTimeout),
		router.WithCostConfig(eng.cfg.Cost),
	)
}
