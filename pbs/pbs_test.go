package pbs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navaljey/pipe-routing-project/conflict"
	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pbs"
	"github.com/Navaljey/pipe-routing-project/pipecost"
)

func newEnv(t *testing.T, bounds env.Point3, obstacles []env.Obstacle) *env.Environment {
	t.Helper()
	e, err := env.NewEnvironment(bounds, obstacles)
	require.NoError(t, err)

	return e
}

func TestSolve_SinglePipe(t *testing.T) {
	e := newEnv(t, env.Point3{X: 3, Y: 1, Z: 1}, nil)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{}, Goal: env.Point3{X: 2}, Diameter: 1},
	}

	best := pbs.Solve(e, pipes)
	assert.Equal(t, 0, best.NumMissing())
	assert.False(t, conflict.HasConflicts(best))
	assert.Equal(t, []env.Point3{{X: 0}, {X: 1}, {X: 2}}, best.Pipes[0].Path)
}

func TestSolve_CrossingPipesResolved(t *testing.T) {
	// Two pipes crossing at (2,2): independent routing conflicts at the
	// shared voxel; the search must lift one of them through z=1 so every
	// vertex pair keeps distance ≥ 1.0.
	e := newEnv(t, env.Point3{X: 5, Y: 5, Z: 2}, nil)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{Y: 2}, Goal: env.Point3{X: 4, Y: 2}, Diameter: 1},
		{ID: 1, Start: env.Point3{X: 2}, Goal: env.Point3{X: 2, Y: 4}, Diameter: 1},
	}

	best := pbs.Solve(e, pipes, pbs.WithSeed(1))
	require.Equal(t, 0, best.NumMissing())
	assert.False(t, conflict.HasConflicts(best))
	for _, p := range best.Pipes {
		require.NoError(t, pipecost.ValidatePath(p.Path, p.Start, p.Goal))
	}
}

func TestSolve_CorridorUnderMissingBudgets(t *testing.T) {
	// 3×3×1 with the top and bottom rows walled off, leaving the single
	// corridor y=1. Both pipes need the whole corridor, so no conflict-free
	// plan routes both.
	obstacles := []env.Obstacle{
		{Name: "south", Min: env.Point3{}, Max: env.Point3{X: 2}},
		{Name: "north", Min: env.Point3{Y: 2}, Max: env.Point3{X: 2, Y: 2}},
	}
	e := newEnv(t, env.Point3{X: 3, Y: 3, Z: 1}, obstacles)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{Y: 1}, Goal: env.Point3{X: 2, Y: 1}, Diameter: 1},
		{ID: 1, Start: env.Point3{X: 2, Y: 1}, Goal: env.Point3{Y: 1}, Diameter: 1},
	}

	// Plain PBS (max_missing=0) cannot accept a one-missing child: the
	// fallback is the conflicted independent-routing plan.
	strict := pbs.Solve(e, pipes, pbs.WithSeed(3))
	assert.Equal(t, 0, strict.NumMissing())
	assert.True(t, conflict.HasConflicts(strict))

	// PBS-MP accepts the conflict-free plan that drops one pipe.
	relaxed := pbs.Solve(e, pipes, pbs.WithSeed(3), pbs.WithMaxMissing(pbs.MaxMissingUnbounded))
	assert.Equal(t, 1, relaxed.NumMissing())
	assert.False(t, conflict.HasConflicts(relaxed))
}

func TestSolve_DeterministicUnderFixedSeed(t *testing.T) {
	e := newEnv(t, env.Point3{X: 5, Y: 5, Z: 2}, nil)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{Y: 2}, Goal: env.Point3{X: 4, Y: 2}, Diameter: 1},
		{ID: 1, Start: env.Point3{X: 2}, Goal: env.Point3{X: 2, Y: 4}, Diameter: 1},
		{ID: 2, Start: env.Point3{X: 4}, Goal: env.Point3{X: 4, Y: 4}, Diameter: 1},
	}

	first := pbs.Solve(e, pipes, pbs.WithSeed(42), pbs.WithMaxMissing(pbs.MaxMissingUnbounded))
	second := pbs.Solve(e, pipes, pbs.WithSeed(42), pbs.WithMaxMissing(pbs.MaxMissingUnbounded))

	require.Equal(t, len(first.Pipes), len(second.Pipes))
	for i := range first.Pipes {
		assert.Equal(t, first.Pipes[i].Path, second.Pipes[i].Path,
			"pipe %d path differs between identically-seeded runs", i)
	}
	cfg := pipecost.DefaultCostConfig()
	fm, fc := first.Quality(cfg)
	sm, sc := second.Quality(cfg)
	assert.Equal(t, fm, sm)
	assert.Equal(t, fc, sc)
}

func TestSolve_UnroutablePipeSurvivesAsMissing(t *testing.T) {
	// Pipe 1's start is sealed inside an obstacle: independent routing
	// fails, and with an unbounded budget the best plan carries it missing.
	obstacles := []env.Obstacle{
		{Name: "vault", Min: env.Point3{X: 4, Y: 4}, Max: env.Point3{X: 4, Y: 4}},
	}
	e := newEnv(t, env.Point3{X: 5, Y: 5, Z: 1}, obstacles)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{}, Goal: env.Point3{X: 3}, Diameter: 1},
		{ID: 1, Start: env.Point3{X: 4, Y: 4}, Goal: env.Point3{}, Diameter: 1},
	}

	best := pbs.Solve(e, pipes, pbs.WithMaxMissing(pbs.MaxMissingUnbounded))
	assert.Equal(t, 1, best.NumMissing())
	assert.True(t, best.Pipes[0].Routed())
	assert.False(t, best.Pipes[1].Routed())
}

func TestSolve_EnvironmentRestoredAfterRun(t *testing.T) {
	e := newEnv(t, env.Point3{X: 5, Y: 5, Z: 2}, nil)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{Y: 2}, Goal: env.Point3{X: 4, Y: 2}, Diameter: 1},
		{ID: 1, Start: env.Point3{X: 2}, Goal: env.Point3{X: 2, Y: 4}, Diameter: 1},
	}

	_ = pbs.Solve(e, pipes, pbs.WithSeed(1))

	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			for z := 0; z < 2; z++ {
				p := env.Point3{X: x, Y: y, Z: z}
				assert.True(t, e.IsFree(p), "voxel %s still occupied after solve", p)
			}
		}
	}
}

func TestSolve_PerPipeTimeoutIsForwarded(t *testing.T) {
	// A degenerate per-pipe budget makes every route call fail, so even
	// independent routing yields all-missing.
	e := newEnv(t, env.Point3{X: 5, Y: 5, Z: 1}, nil)
	pipes := []pipecost.Pipe{
		{ID: 0, Start: env.Point3{}, Goal: env.Point3{X: 4, Y: 4}, Diameter: 1},
	}

	best := pbs.Solve(e, pipes,
		pbs.WithMaxMissing(pbs.MaxMissingUnbounded),
		pbs.WithPerPipeTimeout(time.Nanosecond),
	)
	assert.Equal(t, 1, best.NumMissing())
}
