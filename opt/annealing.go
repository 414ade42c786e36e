package opt

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/cvrp/solution"
)

// SimulatedAnnealing implements the geometric-cooling acceptance rule: a
// neighbor is accepted iff cost < reference - T * ln(U) with U uniform in
// (0, 1), and T decays by a fixed factor per step from the initial to the
// final temperature over the iteration budget.
type SimulatedAnnealing struct {
	temperature float64
	factor      float64
	rng         *rand.Rand
}

// NewSimulatedAnnealing builds the schedule: factor = (final/initial)^(1/n).
func NewSimulatedAnnealing(initialTemperature, finalTemperature float64, rng *rand.Rand, maxIterations int) *SimulatedAnnealing {
	return &SimulatedAnnealing{
		temperature: initialTemperature,
		factor:      math.Pow(finalTemperature/initialTemperature, 1.0/float64(maxIterations)),
		rng:         rng,
	}
}

// Accept draws from the stream and applies the acceptance rule against the
// reference cost. At T == 0 only strict improvements pass.
func (sa *SimulatedAnnealing) Accept(referenceCost float64, neighbor *solution.Solution) bool {
	return neighbor.Cost() < referenceCost-sa.temperature*math.Log(sa.rng.Float64())
}

// DecreaseTemperature advances the geometric schedule one step.
func (sa *SimulatedAnnealing) DecreaseTemperature() {
	sa.temperature *= sa.factor
}

// Temperature returns the current temperature.
func (sa *SimulatedAnnealing) Temperature() float64 { return sa.temperature }
