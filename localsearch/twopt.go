package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// twoOptExchange is the intra-route 2-opt: replace (i, iNext) and (j, jNext)
// with (i, j) and (jNext, iNext), reversing the path between them.
type twoOptExchange struct {
	operatorBase
	symmetricStubs
}

func newTwoOptExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *twoOptExchange {
	return &twoOptExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*twoOptExchange) symmetric() bool { return true }

func (op *twoOptExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	jNext := sol.NextVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(i, j) -
		sol.CostPrevIn(jRoute, jNext) + op.inst.Cost(jNext, iNext)
}

func (op *twoOptExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	return sol.RouteIndexOf(i, j) == sol.RouteIndexOf(j, i)
}

func (op *twoOptExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)

	// Only vertices in the reversed span plus the boundary need an update;
	// the do-while walk also covers the 4-vertex tour where jNextNext == i.
	jNextNext := sol.NextVertexIn(iRoute, sol.NextVertexIn(iRoute, j))
	curr := i
	for {
		affected.Insert(curr)
		curr = sol.NextVertexIn(iRoute, curr)
		if curr == jNextNext {
			break
		}
	}

	iNext := sol.NextVertexIn(iRoute, i)
	sol.ReverseRoutePath(iRoute, iNext, j)
}

// rem1: the arc (v, next) removed by the reconnection.
func (op *twoOptExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
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

func (op *twoOptExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.moves.EdgeCost(move) + op.inst.Cost(cj.next, ci.next) + ci.rem1 + cj.rem1
}
