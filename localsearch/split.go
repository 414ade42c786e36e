package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// splitExchange is the inter-route 2-opt variant producing two new feasible
// halves, one of them reversed. The capacity check uses the cumulative
// prefix/suffix loads.
type splitExchange struct {
	operatorBase
	symmetricStubs
}

func newSplitExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *splitExchange {
	return &splitExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*splitExchange) symmetric() bool { return true }

func (op *splitExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	jNext := sol.NextVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(i, j) -
		sol.CostPrevIn(jRoute, jNext) + op.inst.Cost(jNext, iNext)
}

func (op *splitExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	return iRoute != jRoute &&
		sol.LoadBefore(i)+sol.LoadBefore(j) <= op.inst.Capacity() &&
		sol.LoadAfter(j)-op.inst.Demand(j)+sol.LoadAfter(i)-op.inst.Demand(i) <= op.inst.Capacity()
}

func (op *splitExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	depot := op.inst.Depot()

	affected.Insert(depot)
	for curr := i; curr != depot; curr = sol.NextVertex(curr) {
		affected.Insert(curr)
	}

	// Handle the wrap where jNextNext re-enters through the route head.
	jNextNext := sol.NextVertexIn(jRoute, sol.NextVertex(j))
	jStop := jNextNext
	if jNextNext == sol.FirstCustomer(jRoute) {
		jStop = depot
	}
	for curr := sol.FirstCustomer(jRoute); curr != jStop; curr = sol.NextVertex(curr) {
		affected.Insert(curr)
	}

	sol.Split(i, iRoute, j, jRoute)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
	if sol.IsRouteEmpty(jRoute) {
		sol.RemoveRoute(jRoute)
	}
}

// rem1: the arc (v, next) removed by the reconnection.
func (op *splitExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.next)

	return c
}

func (op *splitExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.moves.EdgeCost(move) + op.inst.Cost(cj.next, ci.next) + ci.rem1 + cj.rem1
}
