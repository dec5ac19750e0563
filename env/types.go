// Package env treats a bounded 3D volume as a voxel grid: a dense
// occupancy classification per cell, a set of axis-aligned cuboidal
// obstacles, and the pipe ownership map the low-level router marks and
// unmarks during a single solve call.
package env

import (
	"errors"
	"fmt"
)

// Sentinel errors for env construction and mutation.
var (
	// ErrEmptyBounds indicates a bounding box with a non-positive dimension.
	ErrEmptyBounds = errors.New("env: bounds must have positive dimensions")
	// ErrObstacleOutOfBounds indicates an obstacle cuboid exceeds the environment bounds.
	ErrObstacleOutOfBounds = errors.New("env: obstacle out of bounds")
	// ErrObstacleInverted indicates an obstacle's min_corner is not ≤ max_corner componentwise.
	ErrObstacleInverted = errors.New("env: obstacle min_corner must be ≤ max_corner")
	// ErrPointOutOfBounds indicates a point lies outside the environment bounds.
	ErrPointOutOfBounds = errors.New("env: point out of bounds")
	// ErrOwnerMismatch is an InternalInvariant error: UnmarkPipe found a voxel
	// owned by a different pipe than requested. This must never occur in a
	// correct run; it signals a programming error rather than routine input.
	ErrOwnerMismatch = errors.New("env: owner-map invariant violated")
)

// ObstacleKind distinguishes physical obstacles from logical access zones.
// Both behave identically as hard blocks in the core (spec: both are hard
// blocks); the tag is retained purely for diagnostics.
type ObstacleKind int

const (
	// KindPhysical marks a real physical obstruction (wall, beam, vessel…).
	KindPhysical ObstacleKind = iota
	// KindLogical marks a logical access/clearance zone.
	KindLogical
)

// Point3 is an integer triple in voxel units.
type Point3 struct {
	X, Y, Z int
}

// Add returns the componentwise sum of p and q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Equals reports whether p and q denote the same voxel.
func (p Point3) Equals(q Point3) bool {
	return p == q
}

// String renders p as "x,y,z" for diagnostics.
func (p Point3) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// Axis identifies which coordinate a unit step moved along.
type Axis int

const (
	// AxisNone represents "no axis yet" — the state before the first step.
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

// StepAxis returns the axis along which the unit step from a to b moved.
// The caller must ensure a and b are axis-aligned neighbors; behavior is
// undefined otherwise (see pipecost.ValidatePath for that check).
func StepAxis(a, b Point3) Axis {
	switch {
	case a.X != b.X:
		return AxisX
	case a.Y != b.Y:
		return AxisY
	default:
		return AxisZ
	}
}

// Obstacle is an axis-aligned cuboid obstruction, inclusive on both corners.
type Obstacle struct {
	Name     string
	Kind     ObstacleKind
	Min, Max Point3
}

// cellState is the tri-state occupancy classification of a single voxel.
type cellState uint8

const (
	cellFree cellState = iota
	cellObstacle
	cellPipe
)

// sixNeighborOffsets are the six axis-aligned unit steps.
var sixNeighborOffsets = [6]Point3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}
