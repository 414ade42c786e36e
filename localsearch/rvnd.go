package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// Descent applies a variable neighborhood descent to a solution.
type Descent interface {
	Apply(sol *solution.Solution)
}

// RVND is a randomized variable neighborhood descent: on every Apply the
// operator list is shuffled and each operator runs exactly one rough
// best-improvement cycle. Re-running improved operators to a joint fixed
// point buys little quality for its cost, so it is deliberately skipped.
type RVND struct {
	descenders []*descender
	rng        *rand.Rand
}

// NewRVND builds an RVND over the given operators. All descenders share the
// store's heap and update bits; the engine leaves both empty between cycles.
func NewRVND(inst *instance.Instance, moves *movegen.Store, operators []OperatorID, rng *rand.Rand, tolerance float64) (*RVND, error) {
	return newRVND(inst, moves, operators, rng, tolerance, false)
}

// NewPartialRVND builds an RVND whose operators gate every vertex access on
// solution membership, for use on partial solutions. The ejection chain is
// rejected in this mode.
func NewPartialRVND(inst *instance.Instance, moves *movegen.Store, operators []OperatorID, rng *rand.Rand, tolerance float64) (*RVND, error) {
	return newRVND(inst, moves, operators, rng, tolerance, true)
}

func newRVND(inst *instance.Instance, moves *movegen.Store, operators []OperatorID, rng *rand.Rand, tolerance float64, partial bool) (*RVND, error) {
	r := &RVND{rng: rng}

	for _, id := range operators {
		if id == EJCH && partial {
			return nil, ErrPartialEjectionChain
		}

		op := buildOperator(id, inst, moves, tolerance)
		r.descenders = append(r.descenders, newDescender(op, inst, moves, tolerance, partial))
	}

	return r, nil
}

// Apply shuffles the operator order and runs each operator once.
func (r *RVND) Apply(sol *solution.Solution) {
	r.rng.Shuffle(len(r.descenders), func(a, b int) {
		r.descenders[a], r.descenders[b] = r.descenders[b], r.descenders[a]
	})

	for _, d := range r.descenders {
		d.apply(sol)
	}
}

func buildOperator(id OperatorID, inst *instance.Instance, moves *movegen.Store, tolerance float64) operator {
	switch id {
	case E10:
		return newOneZeroExchange(inst, moves, tolerance)
	case E11:
		return newOneOneExchange(inst, moves, tolerance)
	case E20:
		return newTwoZeroExchange(inst, moves, tolerance)
	case E21:
		return newTwoOneExchange(inst, moves, tolerance)
	case E22:
		return newTwoTwoExchange(inst, moves, tolerance)
	case E30:
		return newThreeZeroExchange(inst, moves, tolerance)
	case E31:
		return newThreeOneExchange(inst, moves, tolerance)
	case E32:
		return newThreeTwoExchange(inst, moves, tolerance)
	case E33:
		return newThreeThreeExchange(inst, moves, tolerance)
	case SPLIT:
		return newSplitExchange(inst, moves, tolerance)
	case TAILS:
		return newTailsExchange(inst, moves, tolerance)
	case TWOPT:
		return newTwoOptExchange(inst, moves, tolerance)
	case EJCH:
		return newEjectionChain(inst, moves, tolerance)
	case RE20:
		return newRevTwoZeroExchange(inst, moves, tolerance)
	case RE21:
		return newRevTwoOneExchange(inst, moves, tolerance)
	case RE22B:
		return newRevTwoTwoExchange(inst, moves, tolerance, true)
	case RE22S:
		return newRevTwoTwoExchange(inst, moves, tolerance, false)
	case RE30:
		return newRevThreeZeroExchange(inst, moves, tolerance)
	case RE31:
		return newRevThreeOneExchange(inst, moves, tolerance)
	case RE32B:
		return newRevThreeTwoExchange(inst, moves, tolerance, true)
	case RE32S:
		return newRevThreeTwoExchange(inst, moves, tolerance, false)
	case RE33B:
		return newRevThreeThreeExchange(inst, moves, tolerance, true)
	case RE33S:
		return newRevThreeThreeExchange(inst, moves, tolerance, false)
	}

	return nil
}

// DefaultTier0 is the operator list of the main descent tier.
var DefaultTier0 = []OperatorID{
	E11, E10, TAILS, SPLIT, RE22B, E22, RE20, RE21,
	RE22S, E21, E20, TWOPT, RE30, E30, RE33B, E33,
	RE31, RE32B, RE33S, E31, E32, RE32S,
}

// DefaultTier1 is the operator list of the intensification tier.
var DefaultTier1 = []OperatorID{EJCH}

// Composer chains descent tiers: tiers run in order, and whenever a tier
// after the first improves the cost by more than the tolerance the
// composition restarts from the first tier.
type Composer struct {
	tolerance float64
	tiers     []Descent
}

// NewComposer builds an empty composer with the given tolerance.
func NewComposer(tolerance float64) *Composer {
	return &Composer{tolerance: tolerance}
}

// Append adds a tier after the existing ones.
func (c *Composer) Append(tier Descent) {
	c.tiers = append(c.tiers, tier)
}

// SequentialApply runs the tier composition on sol until no tier beyond the
// first improves.
func (c *Composer) SequentialApply(sol *solution.Solution) {
again:
	for n := 0; n < len(c.tiers); n++ {
		currCost := sol.Cost()
		c.tiers[n].Apply(sol)
		if n > 0 && sol.Cost()+c.tolerance < currCost {
			goto again
		}
	}
}
