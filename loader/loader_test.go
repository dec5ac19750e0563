package loader_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/loader"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
)

const sampleInstance = `{
  "bounding_box": [10, 10, 4],
  "grid_resolution": 2.0,
  "obstacles": [
    {"name": "tank", "type": "physical", "min_corner": [2, 2, 0], "max_corner": [3.9, 3.9, 1.9]},
    {"name": "walkway", "type": "logical", "min_corner": [6, 0, 0], "max_corner": [7.9, 1.9, 1.9]}
  ],
  "pipes": [
    {"id": "feed", "start": [0, 0, 0], "goal": [8, 8, 0], "diameter": 0.5},
    {"id": 7, "start": [0, 8, 0], "goal": [8, 0, 2], "diameter": 1.0}
  ]
}`

func TestLoadInstance_ConvertsToVoxels(t *testing.T) {
	inst, err := loader.LoadInstance(strings.NewReader(sampleInstance))
	require.NoError(t, err)

	// 10 m / 2 m-per-voxel = 5 voxels, 4 m / 2 m = 2 layers.
	assert.Equal(t, env.Point3{X: 5, Y: 5, Z: 2}, inst.Env.Bounds)

	// Obstacle [2,2,0]–[3.9,3.9,1.9] m floors to voxels [1,1,0]–[1,1,0].
	assert.True(t, inst.Env.IsObstacle(env.Point3{X: 1, Y: 1, Z: 0}))
	assert.True(t, inst.Env.IsFree(env.Point3{X: 2, Y: 2, Z: 0}))

	// Logical zones block exactly like physical ones.
	assert.True(t, inst.Env.IsObstacle(env.Point3{X: 3, Y: 0, Z: 0}))

	require.Len(t, inst.Pipes, 2)
	assert.Equal(t, env.Point3{}, inst.Pipes[0].Start)
	assert.Equal(t, env.Point3{X: 4, Y: 4, Z: 0}, inst.Pipes[0].Goal)
	assert.Equal(t, 0.5, inst.Pipes[0].Diameter)
	assert.Equal(t, []string{"feed", "7"}, inst.IDs)
	assert.Equal(t, []int{0, 1}, []int{inst.Pipes[0].ID, inst.Pipes[1].ID})
}

func TestLoadInstance_MalformedJSON(t *testing.T) {
	_, err := loader.LoadInstance(strings.NewReader(`{"bounding_box": [`))
	assert.ErrorIs(t, err, loader.ErrInvalidInstance)
}

func TestLoadInstance_NonPositiveDiameter(t *testing.T) {
	in := `{
	  "bounding_box": [5, 5, 1],
	  "pipes": [{"id": 0, "start": [0,0,0], "goal": [4,0,0], "diameter": 0}]
	}`
	_, err := loader.LoadInstance(strings.NewReader(in))
	assert.ErrorIs(t, err, loader.ErrInvalidInstance)
}

func TestLoadInstance_OutOfBoundsEndpoint(t *testing.T) {
	in := `{
	  "bounding_box": [5, 5, 1],
	  "pipes": [{"id": 0, "start": [0,0,0], "goal": [9,0,0], "diameter": 1}]
	}`
	_, err := loader.LoadInstance(strings.NewReader(in))
	assert.ErrorIs(t, err, loader.ErrInvalidInstance)
}

func TestLoadInstance_OutOfBoundsObstacle(t *testing.T) {
	in := `{
	  "bounding_box": [5, 5, 1],
	  "obstacles": [{"name": "w", "type": "physical", "min_corner": [0,0,0], "max_corner": [9,0,0]}]
	}`
	_, err := loader.LoadInstance(strings.NewReader(in))
	assert.ErrorIs(t, err, loader.ErrInvalidInstance)
}

func TestLoadInstance_DefaultResolution(t *testing.T) {
	in := `{"bounding_box": [3, 3, 1], "pipes": []}`
	inst, err := loader.LoadInstance(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, env.Point3{X: 3, Y: 3, Z: 1}, inst.Env.Bounds)
}

func TestWriteResult_OmitsMissingPipes(t *testing.T) {
	p := plan.New([]pipecost.Pipe{
		{ID: 0, Diameter: 1, Path: []env.Point3{{X: 0}, {X: 1}, {X: 1, Y: 1}}},
		{ID: 1, Diameter: 1}, // missing
	})

	var buf bytes.Buffer
	require.NoError(t, loader.WriteResult(&buf, p, []string{"feed", "drain"}))

	var got map[string][][3]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string][][3]int{
		"feed": {{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	}, got)
}
