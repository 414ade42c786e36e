package opt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/opt"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testInstance returns a 13-vertex two-cluster instance.
func testInstance(t *testing.T) *instance.Instance {
	t.Helper()

	return instance.New(10,
		[]float64{0, 2, 4, 6, 8, 10, 12, 50, 52, 54, 56, 58, 60},
		[]float64{0, 1, 3, 1, 3, 1, 3, 2, 4, 2, 4, 2, 4},
		[]int{0, 2, 3, 2, 1, 3, 2, 3, 2, 1, 2, 3, 2},
		13)
}

// TestSimulatedAnnealing_ZeroTemperature covers scenario S5: at T == 0
// acceptance degenerates to strict improvement.
func TestSimulatedAnnealing_ZeroTemperature(t *testing.T) {
	inst := testInstance(t)
	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)

	sa := opt.NewSimulatedAnnealing(0, 0, opt.NewRNG(1), 10)

	assert.True(t, sa.Accept(sol.Cost()+1, sol), "ref=cost+1: always accept")
	assert.False(t, sa.Accept(sol.Cost()-1, sol), "ref=cost-1: never accept")
	assert.False(t, sa.Accept(sol.Cost(), sol), "equal cost: never accept at T=0")
}

// TestSimulatedAnnealing_GeometricCooling checks the per-step factor.
func TestSimulatedAnnealing_GeometricCooling(t *testing.T) {
	sa := opt.NewSimulatedAnnealing(100, 1, opt.NewRNG(1), 2)

	assert.Equal(t, 100.0, sa.Temperature())
	sa.DecreaseTemperature()
	assert.InDelta(t, 10.0, sa.Temperature(), 1e-9, "factor = (1/100)^(1/2)")
	sa.DecreaseTemperature()
	assert.InDelta(t, 1.0, sa.Temperature(), 1e-9)
}

// TestRuinAndRecreate_S6 covers scenario S6 with omega == 3 everywhere: every
// round starts from a customer seed and the recreate step serves everyone
// again.
func TestRuinAndRecreate_S6(t *testing.T) {
	inst := testInstance(t)
	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)
	require.NoError(t, sol.Check(true))

	omega := make([]int, inst.NumVertices())
	for i := range omega {
		omega[i] = 3
	}

	rng := opt.NewRNG(5)
	shaker := opt.NewRuinAndRecreate(inst, rng)

	for round := 0; round < 25; round++ {
		seed := shaker.Apply(sol, omega)

		assert.GreaterOrEqual(t, seed, inst.CustomersBegin())
		assert.Less(t, seed, inst.CustomersEnd())

		for c := inst.CustomersBegin(); c < inst.CustomersEnd(); c++ {
			assert.True(t, sol.IsCustomerInSolution(c), "customer %d unserved after recreate", c)
		}
		require.NoError(t, sol.Check(true))
	}
}

// TestGreedyFirstFitDecreasing_Exact checks FFD on a hand-packed case.
func TestGreedyFirstFitDecreasing_Exact(t *testing.T) {
	// Demands 5,5,4,4,2 with capacity 10: FFD packs (5,5), (4,4,2) = 2 bins.
	inst := instance.New(10,
		[]float64{0, 1, 2, 3, 4, 5},
		[]float64{0, 0, 0, 0, 0, 0},
		[]int{0, 5, 5, 4, 4, 2},
		6)

	assert.Equal(t, 2, opt.GreedyFirstFitDecreasing(inst))
}

// TestGreedyFirstFitDecreasing_SingletonBins forces one bin per customer.
func TestGreedyFirstFitDecreasing_SingletonBins(t *testing.T) {
	inst := instance.New(3,
		[]float64{0, 1, 2, 3},
		[]float64{0, 0, 0, 0},
		[]int{0, 2, 2, 2},
		4)

	assert.Equal(t, 3, opt.GreedyFirstFitDecreasing(inst))
}

func activateAll(inst *instance.Instance, store *movegen.Store) {
	gamma := make([]float64, inst.NumVertices())
	vertices := make([]int, 0, inst.NumVertices())
	for i := range gamma {
		gamma[i] = 1.0
		vertices = append(vertices, i)
	}
	store.SetActivePercentage(gamma, vertices)
}

// TestRoutemin_DoesNotWorsenAndStaysFeasible runs the route minimization on
// the savings solution.
func TestRoutemin_DoesNotWorsenAndStaysFeasible(t *testing.T) {
	inst := testInstance(t)
	store := movegen.NewStore(inst, 6)
	activateAll(inst, store)

	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)
	before := sol.Cost()

	kmin := opt.GreedyFirstFitDecreasing(inst)

	best, err := opt.Routemin(inst, sol, opt.NewRNG(3), store, kmin, 50, 0.01)
	require.NoError(t, err)

	require.NoError(t, best.Check(true))
	assert.LessOrEqual(t, best.Cost(), before+0.01)
	assert.GreaterOrEqual(t, best.NumRoutes(), kmin)

	served := 0
	for r := best.FirstRoute(); r != best.EndRoute(); r = best.NextRoute(r) {
		served += best.RouteSize(r)
	}
	assert.Equal(t, inst.NumCustomers(), served)
}

// TestCoreOpt_ImprovesOrPreservesSavings runs a short CoreOpt budget end to
// end and verifies the S1-style contract: the result is feasible and not
// worse than the initial solution.
func TestCoreOpt_ImprovesOrPreservesSavings(t *testing.T) {
	inst := testInstance(t)
	store := movegen.NewStore(inst, 6)

	sol := solution.NewWithHistory(inst, 13)
	solution.ClarkeWright(inst, sol, 1.0, 100)
	require.NoError(t, sol.Check(true))
	before := sol.Cost()

	params := opt.DefaultParameters()
	params.CoreOptIterations = 200

	loop := opt.NewCoreOpt(inst, store, params, opt.NewRNG(0), nil)
	best, err := loop.Run(sol)
	require.NoError(t, err)

	require.NoError(t, best.Check(true))
	assert.LessOrEqual(t, best.Cost(), before+0.01)

	served := 0
	for r := best.FirstRoute(); r != best.EndRoute(); r = best.NextRoute(r) {
		served += best.RouteSize(r)
		assert.LessOrEqual(t, best.RouteLoad(r), inst.Capacity())
	}
	assert.Equal(t, inst.NumCustomers(), served)
}

// TestCoreOpt_DeterministicUnderSeed repeats a short run.
func TestCoreOpt_DeterministicUnderSeed(t *testing.T) {
	run := func() float64 {
		inst := testInstance(t)
		store := movegen.NewStore(inst, 6)

		sol := solution.NewWithHistory(inst, 13)
		solution.ClarkeWright(inst, sol, 1.0, 100)

		params := opt.DefaultParameters()
		params.CoreOptIterations = 100

		loop := opt.NewCoreOpt(inst, store, params, opt.NewRNG(9), nil)
		best, err := loop.Run(sol)
		require.NoError(t, err)

		return best.Cost()
	}

	assert.Equal(t, run(), run())
}

// TestParameters_FileOverlayAndUnknownKey covers the yaml parameter file.
func TestParameters_FileOverlayAndUnknownKey(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(good, []byte("seed: 7\ncache: 20\noutpath: runs\n"), 0o644))

	p := opt.DefaultParameters()
	require.NoError(t, p.LoadParametersFile(good))
	assert.Equal(t, 7, p.Seed)
	assert.Equal(t, 20, p.CacheSize)
	assert.Equal(t, "runs"+string(os.PathSeparator), p.OutPath, "trailing separator is appended")
	assert.Equal(t, opt.DefaultTolerance, p.Tolerance, "untouched keys keep defaults")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sede: 7\n"), 0o644))
	assert.Error(t, p.LoadParametersFile(bad), "unknown keys are rejected")
}
