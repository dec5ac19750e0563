// Package conflict detects diameter-aware geometric interference between
// routed pipes and selects which detected conflict the high-level search
// branches on.
//
// Two routed pipes a and b conflict iff some vertex pa of a.Path and some
// vertex pb of b.Path satisfy
//
//	euclidean(pa, pb) < (a.Diameter + b.Diameter) / 2.
//
// Conflicts are ephemeral: they are recomputed from the current plan and
// never persisted.
//
// Complexity:
//
//   - PairInConflict: O(|a.Path| · |b.Path|)
//   - Detect:         O(P² · L²) over P routed pipes of path length L
//   - Select:         O(C) over C detected conflicts
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe; callers own the RNG they pass
//     to Select and must not share it across goroutines.
package conflict

import (
	"math"
	"math/rand"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
)

// Policy selects how the engine picks one conflict out of the detected set.
type Policy int

const (
	// PolicyUniform picks a conflict uniformly at random.
	PolicyUniform Policy = 1
	// PolicyCostWeighted picks a conflict with probability proportional to
	// cost(p1)+cost(p2), falling back to uniform when all weights are zero.
	PolicyCostWeighted Policy = 2
)

// Conflict is an unordered pair of conflicting pipe ids, canonicalized so
// that P1 < P2.
type Conflict struct {
	P1, P2 int
}

// newConflict canonicalizes the pair so P1 < P2; detection is therefore
// independent of argument order.
func newConflict(a, b int) Conflict {
	if a > b {
		a, b = b, a
	}

	return Conflict{P1: a, P2: b}
}

// defaultRNGSeed is the fixed "zero" seed used when callers pass seed==0,
// keeping reproducible defaults.
const defaultRNGSeed int64 = 1

// RNGFromSeed returns a deterministic *rand.Rand. Policy: seed==0 uses
// defaultRNGSeed; otherwise the provided seed verbatim.
func RNGFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

// PairInConflict reports whether routed pipes a and b interfere: some
// vertex pair comes closer than the sum of their radii. Pipes without a
// path never conflict.
func PairInConflict(a, b pipecost.Pipe) bool {
	if !a.Routed() || !b.Routed() {
		return false
	}
	clearance := (a.Diameter + b.Diameter) / 2
	for _, pa := range a.Path {
		for _, pb := range b.Path {
			if euclidean(pa, pb) < clearance {
				return true
			}
		}
	}

	return false
}

// euclidean returns the straight-line distance between two voxel centers.
func euclidean(a, b env.Point3) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Detect returns every conflicting routed pair of p, canonicalized and
// ordered by (P1, P2) ascending for deterministic output.
func Detect(p plan.Plan) []Conflict {
	var out []Conflict
	for i := 0; i < len(p.Pipes); i++ {
		for j := i + 1; j < len(p.Pipes); j++ {
			if PairInConflict(p.Pipes[i], p.Pipes[j]) {
				out = append(out, newConflict(p.Pipes[i].ID, p.Pipes[j].ID))
			}
		}
	}

	return out
}

// HasConflicts reports whether any routed pair of p interferes. It
// short-circuits on the first hit rather than materializing the full set.
func HasConflicts(p plan.Plan) bool {
	for i := 0; i < len(p.Pipes); i++ {
		for j := i + 1; j < len(p.Pipes); j++ {
			if PairInConflict(p.Pipes[i], p.Pipes[j]) {
				return true
			}
		}
	}

	return false
}

// Select picks one conflict out of conflicts according to policy. The plan
// and cost config are consulted only by PolicyCostWeighted. The caller
// guarantees conflicts is non-empty; rng drives all randomness so a fixed
// seed yields a fixed choice.
func Select(conflicts []Conflict, p plan.Plan, cfg pipecost.CostConfig, policy Policy, rng *rand.Rand) Conflict {
	if len(conflicts) == 1 {
		return conflicts[0]
	}
	if policy == PolicyCostWeighted {
		weights := make([]float64, len(conflicts))
		var total float64
		for i, c := range conflicts {
			w := pairCost(p, c, cfg)
			weights[i] = w
			total += w
		}
		// All-zero (or non-finite) weights fall back to uniform.
		if total > 0 && !math.IsInf(total, 1) {
			r := rng.Float64() * total
			for i, w := range weights {
				r -= w
				if r < 0 {
					return conflicts[i]
				}
			}

			return conflicts[len(conflicts)-1]
		}
	}

	return conflicts[rng.Intn(len(conflicts))]
}

// pairCost sums the two conflicting pipes' costs, treating an infinite
// cost as zero weight so a single unroutable pipe cannot absorb the whole
// distribution.
func pairCost(p plan.Plan, c Conflict, cfg pipecost.CostConfig) float64 {
	var total float64
	for _, id := range [2]int{c.P1, c.P2} {
		cost := pipecost.Cost(p.Pipes[id], cfg)
		if !math.IsInf(cost, 1) {
			total += cost
		}
	}

	return total
}
