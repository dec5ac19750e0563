package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Navaljey/pipe-routing-project/conflict"
	"github.com/Navaljey/pipe-routing-project/fixorder"
	"github.com/Navaljey/pipe-routing-project/loader"
	"github.com/Navaljey/pipe-routing-project/pbs"
	"github.com/Navaljey/pipe-routing-project/pipecost"
	"github.com/Navaljey/pipe-routing-project/plan"
	"github.com/Navaljey/pipe-routing-project/quality"
	"github.com/Navaljey/pipe-routing-project/router"
)

// Algorithm names accepted by --algorithm.
const (
	algoFixOrder = "FixOrder"
	algoPBS      = "PBS"
	algoPBSMP    = "PBS-MP"
)

var (
	flagInstance       string
	flagOutput         string
	flagAlgorithm      string
	flagConflictPolicy int
	flagTimeout        time.Duration
	flagPerPipeTimeout time.Duration
	flagSeed           int64
)

var rootCmd = &cobra.Command{
	Use:   "pipesolve",
	Short: "Multi-pipe 3D routing solver",
	Long: `pipesolve computes collision-free axis-aligned routes for a set of
pipes in a voxelized 3D volume with cuboidal obstacles, minimizing a
weighted cost over length, bends, and elevated routing.`,
	RunE: run,
	// Solver outcomes (missing pipes, timeouts) are not CLI errors; only
	// instance-load, flag, and output-file failures exit nonzero.
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInstance, "instance", "i", "", "path to the JSON instance to solve (required)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "path for the result JSON (default: stdout)")
	rootCmd.Flags().StringVarP(&flagAlgorithm, "algorithm", "a", algoPBS, "routing algorithm: FixOrder, PBS, or PBS-MP")
	rootCmd.Flags().IntVar(&flagConflictPolicy, "conflict-policy", int(conflict.PolicyCostWeighted), "conflict selection policy: 1 uniform, 2 cost-weighted")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", pbs.DefaultTimeout, "global wall-clock budget")
	rootCmd.Flags().DurationVar(&flagPerPipeTimeout, "per-pipe-timeout", router.DefaultTimeout, "low-level per-pipe budget")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed for conflict selection")
	_ = rootCmd.MarkFlagRequired("instance")
}

func run(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	f, err := os.Open(flagInstance)
	if err != nil {
		return fmt.Errorf("open instance: %w", err)
	}
	defer f.Close()

	inst, err := loader.LoadInstance(f)
	if err != nil {
		return err
	}
	log.Info("instance loaded",
		"bounds", inst.Env.Bounds,
		"obstacles", len(inst.Env.Obstacles),
		"pipes", len(inst.Pipes),
	)

	best, err := solve(inst)
	if err != nil {
		return err
	}

	report(log, inst, best)

	out := os.Stdout
	if flagOutput != "" {
		out, err = os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
	}

	return loader.WriteResult(out, best, inst.IDs)
}

// solve dispatches to the selected algorithm.
func solve(inst *loader.Instance) (plan.Plan, error) {
	switch flagAlgorithm {
	case algoFixOrder:
		return fixorder.RouteWithTimeout(inst.Env, inst.Pipes, flagPerPipeTimeout), nil
	case algoPBS, algoPBSMP:
		maxMissing := 0
		if flagAlgorithm == algoPBSMP {
			maxMissing = pbs.MaxMissingUnbounded
		}
		return pbs.Solve(inst.Env, inst.Pipes,
			pbs.WithMaxMissing(maxMissing),
			pbs.WithPolicy(conflict.Policy(flagConflictPolicy)),
			pbs.WithTimeout(flagTimeout),
			pbs.WithPerPipeTimeout(flagPerPipeTimeout),
			pbs.WithSeed(flagSeed),
		), nil
	default:
		return plan.Plan{}, fmt.Errorf("unknown algorithm %q (want %s, %s, or %s)",
			flagAlgorithm, algoFixOrder, algoPBS, algoPBSMP)
	}
}

// report logs the final quality and the per-pipe summary, enumerating
// missing pipes with their endpoints.
func report(log *slog.Logger, inst *loader.Instance, best plan.Plan) {
	cfg := pipecost.DefaultCostConfig()
	missing, totalCost := best.Quality(cfg)
	log.Info("solve finished", "num_missing", missing, "total_cost", totalCost)

	m := quality.DetailedMetrics(best, cfg)
	log.Info("plan metrics",
		"routed", m.NumRouted,
		"avg_length", m.AvgLength,
		"avg_bends", m.AvgBends,
		"avg_cost", m.AvgCost,
	)

	for i, pipe := range best.Pipes {
		label := fmt.Sprintf("%d", pipe.ID)
		if i < len(inst.IDs) {
			label = inst.IDs[i]
		}
		if !pipe.Routed() {
			log.Warn("pipe missing", "id", label, "start", pipe.Start, "goal", pipe.Goal)
			continue
		}
		log.Info("pipe routed",
			"id", label,
			"length", pipecost.Length(pipe.Path),
			"bends", pipecost.NumBends(pipe.Path),
			"cost", pipecost.Cost(pipe, cfg),
		)
	}
}
