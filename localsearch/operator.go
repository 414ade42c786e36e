package localsearch

import (
	"errors"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// ErrPartialEjectionChain is returned when an ejection chain is requested in
// partial-solution mode, which it does not support.
var ErrPartialEjectionChain = errors.New("localsearch: ejection chain does not support partial solutions")

// OperatorID identifies a neighborhood operator.
type OperatorID int

// The operator catalog. Exx moves relocate or swap customer strings of the
// given lengths; RExx variants reinsert one or both strings reversed (B
// reverses both, S a single one); TWOPT is the intra-route 2-opt; SPLIT and
// TAILS exchange route parts across two routes; EJCH is the ejection chain.
const (
	E10 OperatorID = iota
	E11
	E20
	E21
	E22
	E30
	E31
	E32
	E33
	SPLIT
	TAILS
	TWOPT
	EJCH
	RE20
	RE21
	RE22B
	RE22S
	RE30
	RE31
	RE32B
	RE32S
	RE33B
	RE33S
)

// cache carries the per-endpoint precomputable parts of a move cost. Every
// operator fills the topology fields it needs plus up to two partial sums
// whose meaning is operator-specific (rem1 is the "vertex as first endpoint"
// part, rem2 the "vertex as second endpoint" part).
type cache struct {
	v int

	prev             int
	prevprev         int
	prevprevprev     int
	prevprevprevprev int

	next             int
	nextnext         int
	nextnextnext     int
	nextnextnextnext int

	rem1 float64
	rem2 float64
}

// operator is the per-neighborhood contract consumed by the shared engine.
// backup arguments identify the route when the vertex is the depot; they are
// solution.DummyVertex otherwise.
type operator interface {
	// symmetric reports whether delta(i, j) == delta(j, i), in which case
	// only base entries are evaluated.
	symmetric() bool

	preProcess(sol *solution.Solution)
	postProcess(sol *solution.Solution)

	// exactCost recomputes the move delta from scratch, ignoring
	// feasibility. Debug and test support only.
	exactCost(sol *solution.Solution, move *movegen.Entry) float64

	// feasible reports whether executing the move keeps the solution
	// capacity- and topology-consistent.
	feasible(sol *solution.Solution, move *movegen.Entry) bool

	// execute applies the move, records the vertices whose move generators
	// may now be stale into affected, and raises their update bits.
	execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet)

	// cacheBoth prepares the parts needed with the vertex in either role;
	// cacheFirst and cacheSecond prepare the single-role subsets used by
	// restricted updates.
	cacheBoth(sol *solution.Solution, vertex, backup int) cache
	cacheFirst(sol *solution.Solution, vertex, backup int) cache
	cacheSecond(sol *solution.Solution, vertex, backup int) cache

	// cost combines two caches into the delta of (ci.v, cj.v); pairCost
	// additionally returns the delta of the twin (cj.v, ci.v).
	cost(move *movegen.Entry, ci, cj cache) float64
	pairCost(move *movegen.Entry, ci, cj cache) (float64, float64)
}

// operatorBase carries the shared operator state and the default no-op
// hooks. Symmetric operators inherit stub single-role caches that the engine
// never invokes for them.
type operatorBase struct {
	inst       *instance.Instance
	moves      *movegen.Store
	tolerance  float64
	updateBits *container.BoolGrid
}

func newOperatorBase(inst *instance.Instance, moves *movegen.Store, tolerance float64) operatorBase {
	return operatorBase{
		inst:       inst,
		moves:      moves,
		tolerance:  tolerance,
		updateBits: moves.UpdateBits(),
	}
}

func (operatorBase) preProcess(*solution.Solution)  {}
func (operatorBase) postProcess(*solution.Solution) {}

func (b *operatorBase) markFirst(vertex int)  { b.updateBits.Set(vertex, movegen.UpdateFirst, true) }
func (b *operatorBase) markSecond(vertex int) { b.updateBits.Set(vertex, movegen.UpdateSecond, true) }
func (b *operatorBase) markBoth(vertex int) {
	b.markFirst(vertex)
	b.markSecond(vertex)
}

// symmetricStubs completes the operator interface for symmetric operators,
// whose single-role caches and paired costs are never requested.
type symmetricStubs struct{}

func (symmetricStubs) cacheFirst(*solution.Solution, int, int) cache  { return cache{} }
func (symmetricStubs) cacheSecond(*solution.Solution, int, int) cache { return cache{} }
func (symmetricStubs) pairCost(*movegen.Entry, cache, cache) (float64, float64) {
	return 0, 0
}
