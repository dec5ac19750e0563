package env

import "fmt"

// Environment is a bounded 3D voxel volume with cuboidal obstacles and a
// dense occupancy classification per voxel. It is immutable with respect
// to obstacles once built; only pipe occupancy (via MarkPipe/UnmarkPipe)
// changes after construction.
//
// Invariants (spec §4.1):
//   - A voxel classified obstacle stays obstacle for the environment's lifetime.
//   - owner is exactly the set of voxels classified pipe; the owner is the
//     unique currently-marking pipe id for that voxel.
//   - MarkPipe/UnmarkPipe are inverses: unmarking a pipe restores every
//     voxel it marked, and only those, to free.
type Environment struct {
	Bounds    Point3
	Obstacles []Obstacle

	occupancy [][][]cellState // occupancy[x][y][z]
	owner     map[Point3]int  // voxel -> owning pipe id, only for cellPipe voxels
	marked    map[int]map[Point3]struct{} // pipe id -> voxels it currently owns
}

// NewEnvironment constructs an Environment of the given bounds with the
// supplied obstacles rasterized into the occupancy grid. Obstacles are
// deep-copied so later mutation of the caller's slice has no effect,
// mirroring gridgraph.NewGridGraph's deep-copy-on-construct policy.
func NewEnvironment(bounds Point3, obstacles []Obstacle) (*Environment, error) {
	if bounds.X <= 0 || bounds.Y <= 0 || bounds.Z <= 0 {
		return nil, ErrEmptyBounds
	}

	occ := make([][][]cellState, bounds.X)
	for x := range occ {
		occ[x] = make([][]cellState, bounds.Y)
		for y := range occ[x] {
			occ[x][y] = make([]cellState, bounds.Z)
		}
	}

	e := &Environment{
		Bounds:    bounds,
		Obstacles: append([]Obstacle(nil), obstacles...),
		occupancy: occ,
		owner:     make(map[Point3]int),
		marked:    make(map[int]map[Point3]struct{}),
	}

	for _, ob := range e.Obstacles {
		if ob.Min.X > ob.Max.X || ob.Min.Y > ob.Max.Y || ob.Min.Z > ob.Max.Z {
			return nil, fmt.Errorf("%w: %s", ErrObstacleInverted, ob.Name)
		}
		if !e.InBounds(ob.Min) || !e.InBounds(ob.Max) {
			return nil, fmt.Errorf("%w: %s", ErrObstacleOutOfBounds, ob.Name)
		}
		for x := ob.Min.X; x <= ob.Max.X; x++ {
			for y := ob.Min.Y; y <= ob.Max.Y; y++ {
				for z := ob.Min.Z; z <= ob.Max.Z; z++ {
					e.occupancy[x][y][z] = cellObstacle
				}
			}
		}
	}

	return e, nil
}

// InBounds reports whether p lies within the environment's bounds.
// Complexity: O(1).
func (e *Environment) InBounds(p Point3) bool {
	return p.X >= 0 && p.X < e.Bounds.X &&
		p.Y >= 0 && p.Y < e.Bounds.Y &&
		p.Z >= 0 && p.Z < e.Bounds.Z
}

// IsFree returns true iff p is in-bounds and currently classified free.
// Complexity: O(1).
func (e *Environment) IsFree(p Point3) bool {
	return e.InBounds(p) && e.occupancy[p.X][p.Y][p.Z] == cellFree
}

// IsObstacle returns true iff p is in-bounds and classified obstacle.
func (e *Environment) IsObstacle(p Point3) bool {
	return e.InBounds(p) && e.occupancy[p.X][p.Y][p.Z] == cellObstacle
}

// Owner returns the pipe id owning voxel p and whether p is currently
// classified pipe at all.
func (e *Environment) Owner(p Point3) (int, bool) {
	id, ok := e.owner[p]
	return id, ok
}

// Neighbors6 returns the up-to-six axis-aligned unit-step cells within
// bounds of p, in a fixed deterministic order (+X,-X,+Y,-Y,+Z,-Z).
// Complexity: O(1).
func (e *Environment) Neighbors6(p Point3) []Point3 {
	out := make([]Point3, 0, 6)
	for _, d := range sixNeighborOffsets {
		n := p.Add(d)
		if e.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// MarkPipe writes pipe ownership into every currently-free voxel of path
// and records owner entries for them. Voxels already classified obstacle or
// owned by another pipe are left untouched, so UnmarkPipe clears exactly the
// voxels this call claimed and nothing else. MarkPipe is a no-op on an
// already-marked pipe id; the router always brackets it with a deferred
// UnmarkPipe.
func (e *Environment) MarkPipe(pipeID int, path []Point3) {
	if _, exists := e.marked[pipeID]; exists {
		return
	}
	voxels := make(map[Point3]struct{}, len(path))
	for _, p := range path {
		if e.occupancy[p.X][p.Y][p.Z] != cellFree {
			continue
		}
		e.occupancy[p.X][p.Y][p.Z] = cellPipe
		e.owner[p] = pipeID
		voxels[p] = struct{}{}
	}
	e.marked[pipeID] = voxels
}

// UnmarkPipe reverses a prior MarkPipe for pipeID: every voxel that pipe
// marked is restored to free, and only those voxels — it is idempotent
// with respect to a pipe id that is not currently marked. Panics on an
// InternalInvariant violation (a voxel whose owner map disagrees with the
// marked set), which must never occur in a correct run.
func (e *Environment) UnmarkPipe(pipeID int) {
	voxels, exists := e.marked[pipeID]
	if !exists {
		return
	}
	for p := range voxels {
		owner, ok := e.owner[p]
		if !ok || owner != pipeID {
			panic(fmt.Errorf("%w: voxel %s expected owner %d", ErrOwnerMismatch, p, pipeID))
		}
		delete(e.owner, p)
		e.occupancy[p.X][p.Y][p.Z] = cellFree
	}
	delete(e.marked, pipeID)
}
