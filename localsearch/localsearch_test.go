package localsearch_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusteredInstance returns a 13-vertex instance with two spatial clusters
// and mixed demands, small enough to verify by Check and large enough that
// every string operator finds legal topology.
func clusteredInstance(t *testing.T) *instance.Instance {
	t.Helper()

	return instance.New(10,
		[]float64{0, 2, 4, 6, 8, 10, 12, 50, 52, 54, 56, 58, 60},
		[]float64{0, 1, 3, 1, 3, 1, 3, 2, 4, 2, 4, 2, 4},
		[]int{0, 2, 3, 2, 1, 3, 2, 3, 2, 1, 2, 3, 2},
		13)
}

// fullStore builds a move-generator store with every candidate active.
func fullStore(t *testing.T, inst *instance.Instance, k int) *movegen.Store {
	t.Helper()

	store := movegen.NewStore(inst, k)

	gamma := make([]float64, inst.NumVertices())
	vertices := make([]int, 0, inst.NumVertices())
	for i := range gamma {
		gamma[i] = 1.0
		vertices = append(vertices, i)
	}
	store.SetActivePercentage(gamma, vertices)

	return store
}

// startSolution builds a savings solution over the clustered instance.
func startSolution(t *testing.T, inst *instance.Instance) *solution.Solution {
	t.Helper()

	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)
	require.NoError(t, sol.Check(true))

	return sol
}

// TestRVND_EachOperatorKeepsFeasibilityAndNeverWorsens runs every operator
// alone: the cost must not grow and the solution must stay consistent. Since
// operators only execute moves whose cached delta improves, a wrong delta
// decomposition would surface here as a cost increase or a Check failure.
func TestRVND_EachOperatorKeepsFeasibilityAndNeverWorsens(t *testing.T) {
	operators := []localsearch.OperatorID{
		localsearch.E10, localsearch.E11, localsearch.E20, localsearch.E21,
		localsearch.E22, localsearch.E30, localsearch.E31, localsearch.E32,
		localsearch.E33, localsearch.SPLIT, localsearch.TAILS, localsearch.TWOPT,
		localsearch.EJCH, localsearch.RE20, localsearch.RE21, localsearch.RE22B,
		localsearch.RE22S, localsearch.RE30, localsearch.RE31, localsearch.RE32B,
		localsearch.RE32S, localsearch.RE33B, localsearch.RE33S,
	}

	for _, id := range operators {
		id := id
		inst := clusteredInstance(t)
		store := fullStore(t, inst, 6)
		sol := startSolution(t, inst)

		rvnd, err := localsearch.NewRVND(inst, store,
			[]localsearch.OperatorID{id}, rand.New(rand.NewSource(1)), 0.01)
		require.NoError(t, err)

		before := sol.Cost()
		rvnd.Apply(sol)

		assert.LessOrEqual(t, sol.Cost(), before+0.01, "operator %d worsened the solution", id)
		require.NoError(t, sol.Check(true), "operator %d broke the solution", id)
	}
}

// TestRVND_FullCatalogNeverWorsensSavings runs the complete tier-0 catalog
// twice and expects the savings cost not to grow and the solution to stay
// consistent on the clustered instance.
func TestRVND_FullCatalogNeverWorsensSavings(t *testing.T) {
	inst := clusteredInstance(t)
	store := fullStore(t, inst, 6)
	sol := startSolution(t, inst)

	rvnd, err := localsearch.NewRVND(inst, store,
		localsearch.DefaultTier0, rand.New(rand.NewSource(7)), 0.01)
	require.NoError(t, err)

	before := sol.Cost()
	rvnd.Apply(sol)
	rvnd.Apply(sol)

	assert.LessOrEqual(t, sol.Cost(), before)
	require.NoError(t, sol.Check(true))
}

// TestRVND_DeterministicUnderSeed repeats a run with the same seed and
// expects identical costs.
func TestRVND_DeterministicUnderSeed(t *testing.T) {
	run := func() float64 {
		inst := clusteredInstance(t)
		store := fullStore(t, inst, 6)
		sol := startSolution(t, inst)

		rvnd, err := localsearch.NewRVND(inst, store,
			localsearch.DefaultTier0, rand.New(rand.NewSource(42)), 0.01)
		require.NoError(t, err)

		rvnd.Apply(sol)
		rvnd.Apply(sol)

		return sol.Cost()
	}

	assert.Equal(t, run(), run())
}

// TestPartialRVND_RejectsEjectionChain covers the hard guard on EJCH in
// partial-solution mode.
func TestPartialRVND_RejectsEjectionChain(t *testing.T) {
	inst := clusteredInstance(t)
	store := fullStore(t, inst, 6)

	_, err := localsearch.NewPartialRVND(inst, store,
		[]localsearch.OperatorID{localsearch.EJCH}, rand.New(rand.NewSource(1)), 0.01)
	assert.ErrorIs(t, err, localsearch.ErrPartialEjectionChain)

	_, err = localsearch.NewPartialRVND(inst, store,
		localsearch.DefaultTier0, rand.New(rand.NewSource(1)), 0.01)
	assert.NoError(t, err)
}

// TestPartialRVND_IgnoresUnservedCustomers removes a customer and verifies
// the partial descent leaves it unserved and the rest consistent.
func TestPartialRVND_IgnoresUnservedCustomers(t *testing.T) {
	inst := clusteredInstance(t)
	store := fullStore(t, inst, 6)
	sol := startSolution(t, inst)

	// Unserve one customer to obtain a partial solution.
	removed := sol.FirstCustomer(sol.FirstRoute())
	route := sol.RouteIndex(removed)
	sol.RemoveVertex(route, removed)
	if sol.IsRouteEmpty(route) {
		sol.RemoveRoute(route)
	}

	rvnd, err := localsearch.NewPartialRVND(inst, store,
		localsearch.DefaultTier0, rand.New(rand.NewSource(3)), 0.01)
	require.NoError(t, err)

	rvnd.Apply(sol)

	assert.False(t, sol.IsCustomerInSolution(removed))
	require.NoError(t, sol.Check(true))
}

// TestRVND_SmallestInstanceFiresNoMove covers the N == 2 boundary: a single
// route with one customer admits no improving move for any operator.
func TestRVND_SmallestInstanceFiresNoMove(t *testing.T) {
	inst := instance.New(5,
		[]float64{0, 3}, []float64{0, 4}, []int{0, 1}, 2)

	store := fullStore(t, inst, 1)

	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)
	require.Equal(t, 1, sol.NumRoutes())
	before := sol.Cost()

	operators := append(append([]localsearch.OperatorID{}, localsearch.DefaultTier0...), localsearch.EJCH)
	rvnd, err := localsearch.NewRVND(inst, store, operators, rand.New(rand.NewSource(1)), 0.01)
	require.NoError(t, err)

	rvnd.Apply(sol)

	assert.Equal(t, before, sol.Cost())
	require.NoError(t, sol.Check(true))
}

// improvingTier relocates one customer to a strictly cheaper position on its
// first call and does nothing afterwards.
type improvingTier struct {
	calls int
}

func (tier *improvingTier) Apply(sol *solution.Solution) {
	tier.calls++
	if tier.calls > 1 {
		return
	}

	// Relocating customer 2 next to its spatial neighbors improves the
	// deliberately bad tour built by the test.
	route := sol.RouteIndex(2)
	sol.RemoveVertex(route, 2)
	sol.InsertVertexBefore(sol.RouteIndex(3), 3, 2)
}

// countingTier records how many times it runs.
type countingTier struct {
	calls int
}

func (tier *countingTier) Apply(*solution.Solution) { tier.calls++ }

// TestComposer_RestartsAfterLaterTierImprovement checks the tier restart
// rule: an improvement in tier 1 re-enters tier 0.
func TestComposer_RestartsAfterLaterTierImprovement(t *testing.T) {
	inst := clusteredInstance(t)
	sol := solution.New(inst)
	sol.Reset()

	// Customer 2 marooned between 7 and 8 in the far cluster: taking it out
	// saves 91 and inserting it before 3 costs 2, so relocating it is
	// improving.
	r1 := sol.BuildOneCustomerRoute(1)
	sol.InsertVertexBefore(r1, inst.Depot(), 3)
	sol.InsertVertexBefore(r1, inst.Depot(), 4)
	r2 := sol.BuildOneCustomerRoute(7)
	sol.InsertVertexBefore(r2, inst.Depot(), 2)
	sol.InsertVertexBefore(r2, inst.Depot(), 8)

	tier0 := &countingTier{}
	tier1 := &improvingTier{}

	composer := localsearch.NewComposer(0.01)
	composer.Append(tier0)
	composer.Append(tier1)

	composer.SequentialApply(sol)

	assert.Equal(t, 2, tier0.calls, "tier 0 must re-run after tier 1 improves")
	assert.Equal(t, 2, tier1.calls)
	require.NoError(t, sol.Check(true))
}
