package router

import (
	"container/heap"
	"time"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
)

// Solve runs a best-first search for a low-cost axis-aligned path for pipe
// on e, treating the routed members of higherPriority as obstacles; the
// result is not guaranteed to be of minimum cost (see the package doc). It returns (path, true)
// on success, where path runs start → goal with every step axis-aligned,
// or (nil, false) when the open set empties or the per-call deadline
// expires. Environment occupancy after the call is identical to its state
// at entry.
func Solve(e *env.Environment, pipe pipecost.Pipe, higherPriority []pipecost.Pipe, opts ...Option) ([]env.Point3, bool) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Mark every routed higher-priority pipe, bracketing with a deferred
	//    unmark so the environment is restored on every exit path.
	for _, hp := range higherPriority {
		if !hp.Routed() {
			continue
		}
		e.MarkPipe(hp.ID, hp.Path)
		defer e.UnmarkPipe(hp.ID)
	}

	// 3) Preconditions: start and goal must be in-bounds free cells under
	//    the current (higher-priority-marked) occupancy.
	if !e.IsFree(pipe.Start) || !e.IsFree(pipe.Goal) {
		return nil, false
	}

	// 4) Degenerate instance: start == goal is a single-vertex path.
	if pipe.Start == pipe.Goal {
		return []env.Point3{pipe.Start}, true
	}

	deadline := time.Now().Add(cfg.Timeout)

	r := &runner{
		env:      e,
		goal:     pipe.Goal,
		diameter: pipe.Diameter,
		penalty:  cfg.Cost.BendPenalty,
		deadline: deadline,
		gScore:   make(map[env.Point3]float64),
	}

	return r.search(pipe.Start)
}

// runner holds the mutable state of a single best-first search.
type runner struct {
	env      *env.Environment
	goal     env.Point3
	diameter float64
	penalty  float64
	deadline time.Time
	gScore   map[env.Point3]float64 // best g seen per position (dominance key)
	pq       nodePQ
}

// search runs the best-first loop from start and reconstructs the path
// when the goal is popped for the first time.
func (r *runner) search(start env.Point3) ([]env.Point3, bool) {
	heap.Init(&r.pq)
	r.gScore[start] = 0
	heap.Push(&r.pq, &node{
		pos:  start,
		axis: env.AxisNone,
		g:    0,
		f:    r.heuristic(start),
	})

	for r.pq.Len() > 0 {
		// Deadline check on each pop; expiry is routine, not an error.
		if time.Now().After(r.deadline) {
			return nil, false
		}

		cur := heap.Pop(&r.pq).(*node)

		// Goal popped with minimum g: reconstruct start → goal.
		if cur.pos == r.goal {
			return reconstruct(cur), true
		}

		// Stale entry under lazy-decrease-key: a cheaper route to this
		// position was already expanded.
		if cur.g > r.gScore[cur.pos] {
			continue
		}

		r.expand(cur)
	}

	return nil, false
}

// expand relaxes the up-to-six axis-aligned neighbors of cur.
func (r *runner) expand(cur *node) {
	for _, nb := range r.env.Neighbors6(cur.pos) {
		if !r.env.IsFree(nb) {
			continue
		}
		axis := env.StepAxis(cur.pos, nb)

		// Unit step scaled by diameter, plus the bend surcharge when the
		// axis changes and a previous axis is defined.
		g := cur.g + r.diameter
		if cur.axis != env.AxisNone && axis != cur.axis {
			g += r.penalty
		}

		if best, seen := r.gScore[nb]; seen && g >= best {
			continue
		}
		r.gScore[nb] = g
		heap.Push(&r.pq, &node{
			pos:    nb,
			axis:   axis,
			g:      g,
			f:      g + r.heuristic(nb),
			parent: cur,
		})
	}
}

// heuristic is the Manhattan distance from p to the goal.
func (r *runner) heuristic(p env.Point3) float64 {
	return float64(abs(p.X-r.goal.X) + abs(p.Y-r.goal.Y) + abs(p.Z-r.goal.Z))
}

// reconstruct walks parent links from the goal node back to the start and
// reverses the sequence in place.
func reconstruct(n *node) []env.Point3 {
	var out []env.Point3
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur.pos)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// node is one open-set entry: a position, the axis of the step that
// reached it, accumulated cost g, priority f = g + h, and the parent link
// used for path reconstruction.
type node struct {
	pos    env.Point3
	axis   env.Axis
	g      float64
	f      float64
	parent *node
}

// nodePQ is a min-heap of *node ordered by f ascending, with g as a
// deterministic tiebreak (deeper, more-settled entries first).
type nodePQ []*node

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}

	return pq[i].g > pq[j].g
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*node)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
