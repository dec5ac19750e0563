// Package pipecost defines the Pipe type and the cost model shared by the
// low-level router, the plan aggregate, and the quality evaluator: path
// length, bend counting, and the weighted cost function that penalizes
// length, bends, and elevated routing.
package pipecost

import (
	"errors"
	"math"

	"github.com/Navaljey/pipe-routing-project/env"
)

// ErrNotAxisAligned is an InternalInvariant error: a path was found whose
// consecutive vertices are not axis-aligned unit steps. This must never
// occur in a correct run — the router only ever emits axis-aligned paths.
var ErrNotAxisAligned = errors.New("pipecost: path is not axis-aligned")

// CostConfig holds the tunable parameters of the cost function as a single
// structure rather than scattered magic constants (spec §9).
type CostConfig struct {
	BendWeight   float64
	HeightWeight float64
	BendPenalty  float64
}

// DefaultCostConfig returns the spec-mandated defaults:
// BendWeight=100, HeightWeight=10, BendPenalty=50.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		BendWeight:   100,
		HeightWeight: 10,
		BendPenalty:  50,
	}
}

// Pipe is a connection request between two 3D points with a physical
// diameter, optionally carrying a routed Path.
type Pipe struct {
	ID       int
	Start    env.Point3
	Goal     env.Point3
	Diameter float64
	Path     []env.Point3 // nil when the pipe has no routed path
}

// Routed reports whether p currently carries a path.
func (p Pipe) Routed() bool {
	return p.Path != nil
}

// Length returns the sum of Euclidean distances between consecutive path
// vertices, which for an axis-aligned path equals its Manhattan length.
// Returns 0 for a path of fewer than two vertices.
func Length(path []env.Point3) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		dz := float64(b.Z - a.Z)
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}

// NumBends counts interior vertices where the incoming and outgoing axis
// differ. A path of fewer than three vertices has zero bends.
func NumBends(path []env.Point3) int {
	if len(path) < 3 {
		return 0
	}
	bends := 0
	prevAxis := env.StepAxis(path[0], path[1])
	for i := 2; i < len(path); i++ {
		axis := env.StepAxis(path[i-1], path[i])
		if axis != prevAxis {
			bends++
		}
		prevAxis = axis
	}
	return bends
}

// AvgZ returns the arithmetic mean of the Z coordinate across path, or 0
// for an empty path.
func AvgZ(path []env.Point3) float64 {
	if len(path) == 0 {
		return 0
	}
	var sum float64
	for _, p := range path {
		sum += float64(p.Z)
	}
	return sum / float64(len(path))
}

// Cost evaluates pipe's routed path under cfg:
//
//	cost = length*diameter + BendWeight*numBends + HeightWeight*avgZ*numBends
//
// A pipe with no path has cost +Inf.
func Cost(pipe Pipe, cfg CostConfig) float64 {
	if !pipe.Routed() {
		return math.Inf(1)
	}
	length := Length(pipe.Path)
	bends := NumBends(pipe.Path)
	avgZ := AvgZ(pipe.Path)
	return length*pipe.Diameter + cfg.BendWeight*float64(bends) + cfg.HeightWeight*avgZ*float64(bends)
}

// ValidatePath reports whether path starts at start, ends at goal, and
// every consecutive pair differs in exactly one coordinate by ±1 voxel
// (spec §8 invariant 2). A single-vertex path is valid iff start==goal.
func ValidatePath(path []env.Point3, start, goal env.Point3) error {
	if len(path) == 0 {
		return errors.New("pipecost: empty path")
	}
	if path[0] != start {
		return errors.New("pipecost: path does not start at pipe start")
	}
	if path[len(path)-1] != goal {
		return errors.New("pipecost: path does not end at pipe goal")
	}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		dx := abs(b.X - a.X)
		dy := abs(b.Y - a.Y)
		dz := abs(b.Z - a.Z)
		if dx+dy+dz != 1 {
			return ErrNotAxisAligned
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
