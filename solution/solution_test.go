package solution_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineInstance returns a 5-vertex instance on a vertical line: depot at the
// origin and customers 1..4 at (0, 1)..(0, 4), unit demands, capacity 2.
func lineInstance(t *testing.T) *instance.Instance {
	t.Helper()

	return instance.New(2,
		[]float64{0, 0, 0, 0, 0},
		[]float64{0, 1, 2, 3, 4},
		[]int{0, 1, 1, 1, 1},
		5)
}

// bigLineInstance returns a wider line with capacity that fits everything.
func bigLineInstance(t *testing.T) *instance.Instance {
	t.Helper()

	return instance.New(100,
		[]float64{0, 0, 0, 0, 0},
		[]float64{0, 1, 2, 3, 4},
		[]int{0, 1, 1, 1, 1},
		5)
}

func routeVertices(s *solution.Solution, route int) []int {
	depot := s.Instance().Depot()
	var out []int
	for c := s.FirstCustomer(route); c != depot; c = s.NextVertex(c) {
		out = append(out, c)
	}

	return out
}

// TestBuildOneCustomerRoute_CostAndState checks the smallest route shape.
func TestBuildOneCustomerRoute_CostAndState(t *testing.T) {
	inst := lineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(3)

	assert.Equal(t, 1, s.NumRoutes())
	assert.Equal(t, 6.0, s.Cost(), "2 * c(depot, 3)")
	assert.Equal(t, 3, s.FirstCustomer(r))
	assert.Equal(t, 3, s.LastCustomer(r))
	assert.Equal(t, 1, s.RouteSize(r))
	assert.Equal(t, 1, s.RouteLoad(r))
	assert.True(t, s.IsCustomerInSolution(3))
	require.NoError(t, s.Check(true))
}

// TestAppendRoute_FusesThreeSingletons covers scenario S2: three one-customer
// routes fused into the tour depot-1-2-3-depot.
func TestAppendRoute_FusesThreeSingletons(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r1 := s.BuildOneCustomerRoute(1)
	r2 := s.BuildOneCustomerRoute(2)
	r3 := s.BuildOneCustomerRoute(3)
	assert.Equal(t, 3, s.NumRoutes())

	s.AppendRoute(r1, r2)
	assert.Equal(t, 2, s.NumRoutes())

	s.AppendRoute(r1, r3)
	assert.Equal(t, 1, s.NumRoutes())

	assert.Equal(t, []int{1, 2, 3}, routeVertices(s, r1))
	// Tour depot-1-2-3-depot: 1 + 1 + 1 + 3.
	assert.Equal(t, 6.0, s.Cost())
	require.NoError(t, s.Check(true))
}

// TestInsertThenRemove_IsIdentity checks the insert/remove round-trip law.
func TestInsertThenRemove_IsIdentity(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(r, inst.Depot(), 2) // route: 1 2

	reference := s.Clone()

	s.InsertVertexBefore(r, 2, 3) // route: 1 3 2
	require.NoError(t, s.Check(true))
	s.RemoveVertex(r, 3)

	assert.True(t, s.Equal(reference), "insert followed by remove must restore the solution")
	require.NoError(t, s.Check(true))
}

// TestReverseRoutePath_S3 covers scenario S3: reversing the full customer
// path of {0,1,2,3,4,0} yields {0,4,3,2,1,0}, and reversing again restores it.
func TestReverseRoutePath_S3(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	for _, c := range []int{2, 3, 4} {
		s.InsertVertexBefore(r, inst.Depot(), c)
	}
	require.Equal(t, []int{1, 2, 3, 4}, routeVertices(s, r))
	reference := s.Clone()

	s.ReverseRoutePath(r, 1, 4)
	assert.Equal(t, []int{4, 3, 2, 1}, routeVertices(s, r))
	require.NoError(t, s.Check(true))

	s.ReverseRoutePath(r, 4, 1)
	assert.Equal(t, []int{1, 2, 3, 4}, routeVertices(s, r))
	assert.True(t, s.Equal(reference), "double reversal is the identity")
	require.NoError(t, s.Check(true))
}

// TestRoutePool_RoundTripsReleasedIds checks that removing a one-customer
// route releases its id for reuse.
func TestRoutePool_RoundTripsReleasedIds(t *testing.T) {
	inst := lineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.RemoveVertex(r, 1)
	require.True(t, s.IsRouteEmpty(r))
	s.RemoveRoute(r)

	assert.Equal(t, 0, s.NumRoutes())
	assert.False(t, s.IsRouteInSolution(r))

	r2 := s.BuildOneCustomerRoute(2)
	assert.Equal(t, r, r2, "the released id must round-trip through the pool")
}

// TestUndoList_RollsBackAnySequence checks the journal round-trip law on a
// mixed mutation sequence.
func TestUndoList_RollsBackAnySequence(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(r, inst.Depot(), 2)
	s.InsertVertexBefore(r, inst.Depot(), 3)
	s.ClearDoList1()
	s.ClearUndoList1()

	reference := s.Clone()

	// Journaled sequence: relocate 2 to the front, reverse, grow a route.
	s.RemoveVertex(r, 2)
	s.InsertVertexBefore(r, 1, 2)
	s.ReverseRoutePath(r, 2, 3)
	r2 := s.BuildOneCustomerRoute(4)
	s.RemoveVertex(r2, 4)
	s.RemoveRoute(r2)
	require.NoError(t, s.Check(true))
	require.False(t, s.Equal(reference))

	s.ApplyUndoList1(s)

	assert.True(t, s.Equal(reference), "undo list must restore the pre-sequence solution")
	require.NoError(t, s.Check(true))
}

// TestDoList_ReplaysOntoAnotherSolution checks that do-list replay brings an
// identical copy up to date, the commit path of the outer loop.
func TestDoList_ReplaysOntoAnotherSolution(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(r, inst.Depot(), 2)

	best := s.Clone()
	s.ClearDoList1()
	s.ClearUndoList1()

	s.RemoveVertex(r, 2)
	s.InsertVertexBefore(r, 1, 2)
	s.BuildOneCustomerRoute(3)

	s.ApplyDoList1(best)

	assert.True(t, s.Equal(best))
	require.NoError(t, best.Check(true))
}

// TestSwapTails_ExchangesSuffixes checks SwapTails on two routes.
func TestSwapTails_ExchangesSuffixes(t *testing.T) {
	inst := instance.New(100,
		[]float64{0, 0, 0, 0, 0, 0, 0},
		[]float64{0, 1, 2, 3, 4, 5, 6},
		[]int{0, 1, 1, 1, 1, 1, 1},
		7)
	s := solution.New(inst)
	s.Reset()

	rA := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(rA, inst.Depot(), 2)
	s.InsertVertexBefore(rA, inst.Depot(), 3)

	rB := s.BuildOneCustomerRoute(4)
	s.InsertVertexBefore(rB, inst.Depot(), 5)
	s.InsertVertexBefore(rB, inst.Depot(), 6)

	// Exchange the tail after 1 with the tail from 5 on.
	s.SwapTails(1, rA, 5, rB)

	assert.Equal(t, []int{1, 5, 6}, routeVertices(s, rA))
	assert.Equal(t, []int{4, 2, 3}, routeVertices(s, rB))
	require.NoError(t, s.Check(true))
}

// TestSplit_ReversesOneSide checks Split against a hand-computed layout.
func TestSplit_ReversesOneSide(t *testing.T) {
	inst := instance.New(100,
		[]float64{0, 0, 0, 0, 0, 0, 0},
		[]float64{0, 1, 2, 3, 4, 5, 6},
		[]int{0, 1, 1, 1, 1, 1, 1},
		7)
	s := solution.New(inst)
	s.Reset()

	rA := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(rA, inst.Depot(), 2)
	s.InsertVertexBefore(rA, inst.Depot(), 3)

	rB := s.BuildOneCustomerRoute(4)
	s.InsertVertexBefore(rB, inst.Depot(), 5)
	s.InsertVertexBefore(rB, inst.Depot(), 6)

	// Split at i=1 (route A) and j=5 (route B): route A keeps 1 then the
	// reversed head of B, route B becomes A's old tail reversed then B's tail.
	s.Split(1, rA, 5, rB)

	assert.Equal(t, []int{1, 5, 4}, routeVertices(s, rA))
	assert.Equal(t, []int{3, 2, 6}, routeVertices(s, rB))
	require.NoError(t, s.Check(true))
}

// TestCumulativeLoads_LazyRefresh checks load-before/load-after against the
// invariant definition, across a mutation that dirties the route.
func TestCumulativeLoads_LazyRefresh(t *testing.T) {
	inst := instance.New(100,
		[]float64{0, 0, 0, 0},
		[]float64{0, 1, 2, 3},
		[]int{0, 2, 3, 4},
		4)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(r, inst.Depot(), 2)
	s.InsertVertexBefore(r, inst.Depot(), 3)

	assert.Equal(t, 2, s.LoadBefore(1))
	assert.Equal(t, 5, s.LoadBefore(2))
	assert.Equal(t, 9, s.LoadBefore(3))
	assert.Equal(t, 9, s.LoadAfter(1))
	assert.Equal(t, 7, s.LoadAfter(2))
	assert.Equal(t, 4, s.LoadAfter(3))
	require.NoError(t, s.Check(true))

	s.RemoveVertex(r, 2)
	assert.Equal(t, 2, s.LoadBefore(1))
	assert.Equal(t, 6, s.LoadBefore(3))
	assert.Equal(t, 4, s.LoadAfter(3))
}

// TestEquality_IgnoresRouteIds builds the same tours with different route id
// histories.
func TestEquality_IgnoresRouteIds(t *testing.T) {
	inst := bigLineInstance(t)

	a := solution.New(inst)
	a.Reset()
	ra := a.BuildOneCustomerRoute(1)
	a.InsertVertexBefore(ra, inst.Depot(), 2)

	b := solution.New(inst)
	b.Reset()
	// Burn a route id first so the tours live under different ids.
	burn := b.BuildOneCustomerRoute(3)
	rb := b.BuildOneCustomerRoute(1)
	b.InsertVertexBefore(rb, inst.Depot(), 2)
	b.RemoveVertex(burn, 3)
	b.RemoveRoute(burn)

	assert.True(t, a.Equal(b))
}

// TestClarkeWright_S1 covers scenario S1: the line instance with capacity 2
// pairs customers into two feasible routes.
func TestClarkeWright_S1(t *testing.T) {
	inst := lineInstance(t)
	s := solution.New(inst)

	solution.ClarkeWright(inst, s, 1.0, 100)

	require.NoError(t, s.Check(true))
	assert.Equal(t, 2, s.NumRoutes())
	assert.True(t, s.IsSolutionLoadFeasible())

	served := 0
	for r := s.FirstRoute(); r != s.EndRoute(); r = s.NextRoute(r) {
		served += s.RouteSize(r)
		assert.LessOrEqual(t, s.RouteLoad(r), inst.Capacity())
	}
	assert.Equal(t, inst.NumCustomers(), served)
}

// TestWriteSolFile_Format checks the emitted .sol layout.
func TestWriteSolFile_Format(t *testing.T) {
	inst := bigLineInstance(t)
	s := solution.New(inst)
	s.Reset()

	r := s.BuildOneCustomerRoute(1)
	s.InsertVertexBefore(r, inst.Depot(), 2)
	s.BuildOneCustomerRoute(3)

	path := filepath.Join(t.TempDir(), "out.vrp.sol")
	require.NoError(t, s.WriteSolFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Route #1: 3", lines[0], "routes are listed head first")
	assert.Equal(t, "Route #2: 1 2", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Cost "), "cost line closes the file")
}
