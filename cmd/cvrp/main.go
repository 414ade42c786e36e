// Command cvrp solves Capacitated Vehicle Routing Problem instances in the
// TSPLIB "X" format with an iterated local-search metaheuristic.
//
// Usage:
//
//	cvrp <instance path> [flags]
//
// The solver writes, in the output directory:
//
//	<basename>_seed-<seed>.out      one line "<cost>\t<elapsed seconds>"
//	<basename>_seed-<seed>.vrp.sol  "Route #k: ..." lines and a Cost line
//	<basename>_seed-<seed>.json     machine-readable run report
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/opt"
	"github.com/katalvlaran/cvrp/solution"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	params := opt.DefaultParameters()

	var (
		paramsFile string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "cvrp <instance>",
		Short:         "CVRP iterated local-search solver",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.InstancePath = args[0]

			// The parameter file is a base layer: flags set explicitly on
			// the command line win over it.
			if paramsFile != "" {
				fromFlags := params
				if err := params.LoadParametersFile(paramsFile); err != nil {
					return err
				}
				overlayExplicitFlags(cmd, &params, &fromFlags)
			}
			params.Normalize()

			var logger *slog.Logger
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			}

			return run(params, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.OutPath, "outpath", params.OutPath, "output directory")
	flags.Float64Var(&params.Tolerance, "tolerance", params.Tolerance, "local search tolerance")
	flags.IntVar(&params.NeighborsNum, "neighbors-num", params.NeighborsNum, "neighbor list size per vertex")
	flags.IntVar(&params.GranularNeighbors, "granular-neighbors", params.GranularNeighbors, "neighbors used for move-generator construction")
	flags.IntVar(&params.CacheSize, "cache", params.CacheSize, "recently-modified-vertices cache size")
	flags.IntVar(&params.RouteminIterations, "routemin-iterations", params.RouteminIterations, "route minimization budget")
	flags.IntVar(&params.CoreOptIterations, "coreopt-iterations", params.CoreOptIterations, "core optimization budget")
	flags.Float64Var(&params.GammaBase, "granular-gamma-base", params.GammaBase, "base sparsification factor")
	flags.Float64Var(&params.Delta, "granular-delta", params.Delta, "sparsification growth scaler")
	flags.Float64Var(&params.ShakingLowerBound, "shaking-lower-bound", params.ShakingLowerBound, "intensification lower bound factor")
	flags.Float64Var(&params.ShakingUpperBound, "shaking-upper-bound", params.ShakingUpperBound, "intensification upper bound factor")
	flags.IntVar(&params.Seed, "seed", params.Seed, "random seed")
	flags.Float64Var(&params.SAInitialFactor, "sa-initial-factor", params.SAInitialFactor, "initial temperature factor")
	flags.Float64Var(&params.SAFinalFactor, "sa-final-factor", params.SAFinalFactor, "final to initial temperature ratio")
	flags.StringVar(&paramsFile, "params", "", "yaml parameter file (flags take precedence)")
	flags.BoolVar(&verbose, "verbose", false, "log optimization progress")

	return cmd
}

// overlayExplicitFlags re-applies values the user passed on the command line
// over those loaded from the parameter file.
func overlayExplicitFlags(cmd *cobra.Command, params, fromFlags *opt.Parameters) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set("outpath") {
		params.OutPath = fromFlags.OutPath
	}
	if set("tolerance") {
		params.Tolerance = fromFlags.Tolerance
	}
	if set("neighbors-num") {
		params.NeighborsNum = fromFlags.NeighborsNum
	}
	if set("granular-neighbors") {
		params.GranularNeighbors = fromFlags.GranularNeighbors
	}
	if set("cache") {
		params.CacheSize = fromFlags.CacheSize
	}
	if set("routemin-iterations") {
		params.RouteminIterations = fromFlags.RouteminIterations
	}
	if set("coreopt-iterations") {
		params.CoreOptIterations = fromFlags.CoreOptIterations
	}
	if set("granular-gamma-base") {
		params.GammaBase = fromFlags.GammaBase
	}
	if set("granular-delta") {
		params.Delta = fromFlags.Delta
	}
	if set("shaking-lower-bound") {
		params.ShakingLowerBound = fromFlags.ShakingLowerBound
	}
	if set("shaking-upper-bound") {
		params.ShakingUpperBound = fromFlags.ShakingUpperBound
	}
	if set("seed") {
		params.Seed = fromFlags.Seed
	}
	if set("sa-initial-factor") {
		params.SAInitialFactor = fromFlags.SAInitialFactor
	}
	if set("sa-final-factor") {
		params.SAFinalFactor = fromFlags.SAFinalFactor
	}
}

func run(params opt.Parameters, logger *slog.Logger) error {
	globalStart := time.Now()

	if logger != nil {
		logger.Info("loading instance", "path", params.InstancePath)
	}
	inst, err := instance.Load(params.InstancePath, params.NeighborsNum)
	if err != nil {
		return err
	}

	historyLen := params.CacheSize
	if historyLen > inst.NumVertices() {
		historyLen = inst.NumVertices()
	}
	bestSolution := solution.NewWithHistory(inst, historyLen)

	if logger != nil {
		logger.Info("running savings construction")
	}
	solution.ClarkeWright(inst, bestSolution, params.CWLambda, params.CWNeighbors)
	if logger != nil {
		logger.Info("initial solution",
			"objective", bestSolution.Cost(), "routes", bestSolution.NumRoutes())
	}

	moves := movegen.NewStore(inst, params.GranularNeighbors)
	if logger != nil {
		totalArcs := uint64(inst.NumVertices()) * uint64(inst.NumVertices())
		logger.Info("move generators ready",
			"count", moves.Size(), "total-arcs", totalArcs)
	}

	kmin := opt.GreedyFirstFitDecreasing(inst)
	rng := opt.NewRNG(params.Seed)

	if kmin < bestSolution.NumRoutes() {
		if logger != nil {
			logger.Info("running routemin",
				"budget", params.RouteminIterations, "kmin", kmin,
				"routes", bestSolution.NumRoutes())
		}
		bestSolution, err = opt.Routemin(inst, bestSolution, rng, moves,
			kmin, params.RouteminIterations, params.Tolerance)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("routemin done",
				"objective", bestSolution.Cost(), "routes", bestSolution.NumRoutes())
		}
	}

	loop := opt.NewCoreOpt(inst, moves, params, rng, logger)
	bestSolution, err = loop.Run(bestSolution)
	if err != nil {
		return err
	}

	elapsedSeconds := int(time.Since(globalStart).Seconds())

	if err := os.MkdirAll(params.OutPath, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", params.OutPath, err)
	}

	base := params.OutPath + filepath.Base(params.InstancePath) +
		fmt.Sprintf("_seed-%d", params.Seed)

	outFile, err := os.Create(base + ".out")
	if err != nil {
		return err
	}
	fmt.Fprintf(outFile, "%.10g\t%d\n", bestSolution.Cost(), elapsedSeconds)
	outFile.Close()

	if err := bestSolution.WriteSolFile(base + ".vrp.sol"); err != nil {
		return err
	}

	if err := writeRunReport(base+".json", params, bestSolution, elapsedSeconds); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("run complete",
			"objective", bestSolution.Cost(),
			"routes", bestSolution.NumRoutes(),
			"seconds", elapsedSeconds,
			"out", base+".out",
			"sol", base+".vrp.sol")
	}

	return nil
}
