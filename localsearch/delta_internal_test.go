package localsearch

import (
	"math"
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/stretchr/testify/require"
)

// TestInitializedDeltasMatchExactRecomputation cross-checks, for every
// operator, the cache-decomposed deltas produced by engine initialization
// against the from-scratch recomputation. Moves whose topology makes the
// cached delta meaningless (same-route guards and the like) are excluded by
// the operator's own feasibility test, exactly as during the descent.
func TestInitializedDeltasMatchExactRecomputation(t *testing.T) {
	inst := instance.New(10,
		[]float64{0, 2, 4, 6, 8, 10, 12, 50, 52, 54, 56, 58, 60},
		[]float64{0, 1, 3, 1, 3, 1, 3, 2, 4, 2, 4, 2, 4},
		[]int{0, 2, 3, 2, 1, 3, 2, 3, 2, 1, 2, 3, 2},
		13)

	ids := []OperatorID{
		E10, E11, E20, E21, E22, E30, E31, E32, E33,
		SPLIT, TAILS, TWOPT, EJCH,
		RE20, RE21, RE22B, RE22S, RE30, RE31, RE32B, RE32S, RE33B, RE33S,
	}

	for _, id := range ids {
		store := movegen.NewStore(inst, 6)

		gamma := make([]float64, inst.NumVertices())
		vertices := make([]int, 0, inst.NumVertices())
		for i := range gamma {
			gamma[i] = 1.0
			vertices = append(vertices, i)
		}
		store.SetActivePercentage(gamma, vertices)

		sol := solution.New(inst)
		solution.ClarkeWright(inst, sol, 1.0, 100)
		require.NoError(t, sol.Check(true))

		op := buildOperator(id, inst, store, 0.01)
		d := newDescender(op, inst, store, 0.01, false)

		d.heap.Reset()
		if op.symmetric() {
			d.symmetricInit(sol)
		} else {
			d.asymmetricInit(sol)
		}

		for n := 0; n < d.heap.Size(); n++ {
			move := d.heap.Spy(n)

			if !op.feasible(sol, move) {
				continue
			}
			if id == EJCH {
				// The ejection-chain feasibility search may already have
				// mutated its bookkeeping; only the plain-relocate shape of
				// its delta is comparable here.
				if move.Second() == sol.NextVertexIn(sol.RouteIndexOf(move.First(), move.Second()), move.First()) {
					continue
				}
			}

			exact := op.exactCost(sol, move)
			require.LessOrEqualf(t, math.Abs(move.Delta()-exact), 0.01,
				"operator %d move (%d,%d): cached %f exact %f",
				id, move.First(), move.Second(), move.Delta(), exact)
		}

		d.heap.Reset()
	}
}
