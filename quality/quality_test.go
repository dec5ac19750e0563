package quality_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Navaljey/pipe-routing-project/env"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
	"github.com/Navaljey/pipe-routing-project/quality"
)

func routedPipe(id int, length int) pipecost.Pipe {
	path := make([]env.Point3, 0, length+1)
	for x := 0; x <= length; x++ {
		path = append(path, env.Point3{X: x, Y: id})
	}

	return pipecost.Pipe{
		ID:       id,
		Start:    path[0],
		Goal:     path[len(path)-1],
		Diameter: 1,
		Path:     path,
	}
}

func missingPipe(id int) pipecost.Pipe {
	return pipecost.Pipe{ID: id, Start: env.Point3{Y: id}, Goal: env.Point3{X: 3, Y: id}, Diameter: 1}
}

func TestCompare_MissingDominatesCost(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	cheapButMissing := plan.New([]pipecost.Pipe{routedPipe(0, 1), missingPipe(1)})
	expensiveComplete := plan.New([]pipecost.Pipe{routedPipe(0, 10), routedPipe(1, 10)})

	assert.Equal(t, -1, quality.Compare(expensiveComplete, cheapButMissing, cfg))
	assert.Equal(t, 1, quality.Compare(cheapButMissing, expensiveComplete, cfg))
	assert.True(t, quality.IsBetter(expensiveComplete, cheapButMissing, cfg))
}

func TestCompare_TieBrokenByCost(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	short := plan.New([]pipecost.Pipe{routedPipe(0, 2)})
	long := plan.New([]pipecost.Pipe{routedPipe(0, 5)})

	assert.Equal(t, -1, quality.Compare(short, long, cfg))
	assert.Equal(t, 0, quality.Compare(short, short, cfg))
}

func TestQuality_CloneRecomputesSameTuple(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	p := plan.New([]pipecost.Pipe{routedPipe(0, 4), missingPipe(1)})

	m1, c1 := quality.Quality(p, cfg)
	m2, c2 := quality.Quality(p.Clone(), cfg)
	assert.Equal(t, m1, m2)
	assert.Equal(t, c1, c2)
}

func TestCostGap(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	baseline := plan.New([]pipecost.Pipe{routedPipe(0, 4)}) // cost 4
	double := plan.New([]pipecost.Pipe{routedPipe(0, 8)})   // cost 8

	assert.InDelta(t, 100.0, quality.CostGap(double, baseline, cfg), 1e-9)
	assert.InDelta(t, 0.0, quality.CostGap(baseline, baseline, cfg), 1e-9)
}

func TestCostGap_InfiniteCases(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	complete := plan.New([]pipecost.Pipe{routedPipe(0, 4)})
	empty := plan.New([]pipecost.Pipe{missingPipe(0)}) // nothing routed: cost +Inf

	assert.True(t, math.IsInf(quality.CostGap(empty, complete, cfg), 1))
	assert.True(t, math.IsInf(quality.CostGap(complete, empty, cfg), 1))
}

func TestDetailedMetrics(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	p := plan.New([]pipecost.Pipe{routedPipe(0, 2), routedPipe(1, 4), missingPipe(2)})

	m := quality.DetailedMetrics(p, cfg)
	assert.Equal(t, 2, m.NumRouted)
	assert.Equal(t, 1, m.NumMissing)
	assert.InDelta(t, 6.0, m.TotalCost, 1e-9)
	assert.InDelta(t, 3.0, m.AvgLength, 1e-9)
	assert.InDelta(t, 0.0, m.AvgBends, 1e-9)
	assert.InDelta(t, 3.0, m.AvgCost, 1e-9)
}

func TestDetailedMetrics_NothingRouted(t *testing.T) {
	cfg := pipecost.DefaultCostConfig()
	p := plan.New([]pipecost.Pipe{missingPipe(0)})

	m := quality.DetailedMetrics(p, cfg)
	assert.Equal(t, 0, m.NumRouted)
	assert.Equal(t, 1, m.NumMissing)
	assert.True(t, math.IsInf(m.TotalCost, 1))
	assert.Zero(t, m.AvgLength)
	assert.Zero(t, m.AvgBends)
	assert.Zero(t, m.AvgCost)
}
