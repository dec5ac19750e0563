// Package loader parses problem instances from JSON and serializes solved
// plans for downstream rendering. Metric coordinates are converted to
// voxel units by floor-dividing every point by the grid resolution.
//
// The core engine consumes only the parsed entities; all input validation
// lives here.
//
// Errors (sentinel):
//
//   - ErrInvalidInstance wraps every malformed-input condition: bad JSON,
//     non-positive bounding box, negative grid resolution (zero or absent
//     means 1.0), out-of-bounds obstacles,
//     non-positive pipe diameters, start/goal outside bounds.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
)

// ErrInvalidInstance indicates a malformed or inconsistent problem
// instance. Every loader failure wraps this sentinel.
var ErrInvalidInstance = errors.New("loader: invalid instance")

// Instance is a fully parsed problem: the voxelized environment, the pipe
// list with contiguous internal ids 0..n-1, and the external id labels
// used by the result format.
type Instance struct {
	Env   *env.Environment
	Pipes []pipecost.Pipe
	IDs   []string // external pipe id per internal index
}

// instanceJSON mirrors the on-disk instance format (§ instance format):
// all coordinates in meters.
type instanceJSON struct {
	BoundingBox    []float64      `json:"bounding_box"`
	GridResolution float64        `json:"grid_resolution"`
	Obstacles      []obstacleJSON `json:"obstacles"`
	Pipes          []pipeJSON     `json:"pipes"`
}

type obstacleJSON struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	MinCorner []float64 `json:"min_corner"`
	MaxCorner []float64 `json:"max_corner"`
}

type pipeJSON struct {
	ID       json.RawMessage `json:"id"`
	Start    []float64       `json:"start"`
	Goal     []float64       `json:"goal"`
	Diameter float64         `json:"diameter"`
}

// LoadInstance reads and validates one instance from r.
func LoadInstance(r io.Reader) (*Instance, error) {
	var raw instanceJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}

	// Grid resolution defaults to 1.0 and must be positive.
	res := raw.GridResolution
	if res == 0 {
		res = 1.0
	}
	if res < 0 || math.IsNaN(res) {
		return nil, fmt.Errorf("%w: grid_resolution must be positive", ErrInvalidInstance)
	}

	bounds, err := toVoxel(raw.BoundingBox, res)
	if err != nil {
		return nil, fmt.Errorf("%w: bounding_box: %v", ErrInvalidInstance, err)
	}
	if bounds.X <= 0 || bounds.Y <= 0 || bounds.Z <= 0 {
		return nil, fmt.Errorf("%w: bounding_box must be positive", ErrInvalidInstance)
	}

	obstacles := make([]env.Obstacle, 0, len(raw.Obstacles))
	for _, ob := range raw.Obstacles {
		minC, err := toVoxel(ob.MinCorner, res)
		if err != nil {
			return nil, fmt.Errorf("%w: obstacle %q min_corner: %v", ErrInvalidInstance, ob.Name, err)
		}
		maxC, err := toVoxel(ob.MaxCorner, res)
		if err != nil {
			return nil, fmt.Errorf("%w: obstacle %q max_corner: %v", ErrInvalidInstance, ob.Name, err)
		}
		kind := env.KindPhysical
		if ob.Type == "logical" {
			kind = env.KindLogical
		}
		obstacles = append(obstacles, env.Obstacle{Name: ob.Name, Kind: kind, Min: minC, Max: maxC})
	}

	environment, err := env.NewEnvironment(bounds, obstacles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}

	pipes := make([]pipecost.Pipe, 0, len(raw.Pipes))
	ids := make([]string, 0, len(raw.Pipes))
	for i, pj := range raw.Pipes {
		start, err := toVoxel(pj.Start, res)
		if err != nil {
			return nil, fmt.Errorf("%w: pipe %d start: %v", ErrInvalidInstance, i, err)
		}
		goal, err := toVoxel(pj.Goal, res)
		if err != nil {
			return nil, fmt.Errorf("%w: pipe %d goal: %v", ErrInvalidInstance, i, err)
		}
		if pj.Diameter <= 0 || math.IsNaN(pj.Diameter) {
			return nil, fmt.Errorf("%w: pipe %d diameter must be positive", ErrInvalidInstance, i)
		}
		if !environment.InBounds(start) || !environment.InBounds(goal) {
			return nil, fmt.Errorf("%w: pipe %d start/goal outside bounds", ErrInvalidInstance, i)
		}
		pipes = append(pipes, pipecost.Pipe{
			ID:       i,
			Start:    start,
			Goal:     goal,
			Diameter: pj.Diameter,
		})
		ids = append(ids, externalID(pj.ID, i))
	}

	return &Instance{Env: environment, Pipes: pipes, IDs: ids}, nil
}

// toVoxel floor-divides a [x,y,z] metric triple by the grid resolution.
func toVoxel(coords []float64, res float64) (env.Point3, error) {
	if len(coords) != 3 {
		return env.Point3{}, fmt.Errorf("want 3 coordinates, got %d", len(coords))
	}
	for _, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return env.Point3{}, fmt.Errorf("non-finite coordinate %v", c)
		}
	}

	return env.Point3{
		X: int(math.Floor(coords[0] / res)),
		Y: int(math.Floor(coords[1] / res)),
		Z: int(math.Floor(coords[2] / res)),
	}, nil
}

// externalID renders the instance's pipe id as a string label, falling
// back to the positional index when the field is absent. Both string and
// numeric ids are accepted.
func externalID(raw json.RawMessage, index int) string {
	if len(raw) == 0 {
		return strconv.Itoa(index)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n == math.Trunc(n) {
		return strconv.FormatInt(int64(n), 10)
	}

	return strconv.Itoa(index)
}

// WriteResult emits the result format consumed by the visualizer: a JSON
// object mapping external pipe id to an ordered array of [x,y,z] voxel
// triples. Pipes without a path are omitted.
func WriteResult(w io.Writer, p plan.Plan, ids []string) error {
	out := make(map[string][][3]int, len(p.Pipes))
	for i, pipe := range p.Pipes {
		if !pipe.Routed() {
			continue
		}
		verts := make([][3]int, len(pipe.Path))
		for j, v := range pipe.Path {
			verts[j] = [3]int{v.X, v.Y, v.Z}
		}
		label := strconv.Itoa(pipe.ID)
		if i < len(ids) {
			label = ids[i]
		}
		out[label] = verts
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
