package opt

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// CoreOpt is the outer optimization loop: iterated ruin-and-recreate plus
// RVND under simulated-annealing acceptance, with per-vertex adaptation of
// the sparsification vector gamma and the ruin-depth vector omega.
//
// The incumbent ("reference") solution is never copied: the working neighbor
// rolls back to it through the undo list on every iteration, and the best
// solution is brought forward by replaying committed do-lists.
type CoreOpt struct {
	inst   *instance.Instance
	moves  *movegen.Store
	params Parameters
	rng    *rand.Rand

	// logger receives optional verbose progress; nil disables it.
	logger *slog.Logger
}

// NewCoreOpt wires the loop. logger may be nil.
func NewCoreOpt(inst *instance.Instance, moves *movegen.Store, params Parameters, rng *rand.Rand, logger *slog.Logger) *CoreOpt {
	return &CoreOpt{inst: inst, moves: moves, params: params, rng: rng, logger: logger}
}

// Run optimizes bestSolution in place for the configured iteration budget
// and returns it.
func (c *CoreOpt) Run(bestSolution *solution.Solution) (*solution.Solution, error) {
	inst := c.inst

	rvnd0, err := localsearch.NewRVND(inst, c.moves, localsearch.DefaultTier0, c.rng, c.params.Tolerance)
	if err != nil {
		return nil, err
	}
	rvnd1, err := localsearch.NewRVND(inst, c.moves, localsearch.DefaultTier1, c.rng, c.params.Tolerance)
	if err != nil {
		return nil, err
	}
	search := localsearch.NewComposer(c.params.Tolerance)
	search.Append(rvnd0)
	search.Append(rvnd1)

	iterations := c.params.CoreOptIterations

	neighbor := bestSolution.Clone()

	gammaBase := c.params.GammaBase
	gamma := make([]float64, inst.NumVertices())
	gammaCounter := make([]int, inst.NumVertices())

	gammaVertices := make([]int, 0, inst.NumVertices())
	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		gamma[i] = gammaBase
		gammaVertices = append(gammaVertices, i)
	}
	c.moves.SetActivePercentage(gamma, gammaVertices)

	var meanSVCSize container.Welford

	ruinedCustomers := make([]int, 0, inst.NumVertices())

	shaker := NewRuinAndRecreate(inst, c.rng)

	// Shaking bands scale with the mean arc cost of the incumbent.
	meanArcCost := func(s *solution.Solution) float64 {
		return s.Cost() / (float64(inst.NumCustomers()) + 2.0*float64(s.NumRoutes()))
	}
	shakingLB := meanArcCost(neighbor) * c.params.ShakingLowerBound
	shakingUB := meanArcCost(neighbor) * c.params.ShakingUpperBound

	omegaBase := int(math.Ceil(math.Log(float64(inst.NumVertices()))))
	if omegaBase < 1 {
		omegaBase = 1
	}
	omega := make([]int, inst.NumVertices())
	for i := range omega {
		omega[i] = omegaBase
	}

	// The initial temperature derives from the mean cost of random arcs.
	var arcCosts container.Welford
	for n := 0; n < inst.NumVertices(); n++ {
		a := inst.VerticesBegin() + c.rng.Intn(inst.NumVertices())
		b := inst.VerticesBegin() + c.rng.Intn(inst.NumVertices())
		arcCosts.Update(inst.Cost(a, b))
	}
	saInitialTemperature := arcCosts.Mean() * c.params.SAInitialFactor
	saFinalTemperature := saInitialTemperature * c.params.SAFinalFactor

	sa := NewSimulatedAnnealing(saInitialTemperature, saFinalTemperature, c.rng, iterations)

	if c.logger != nil {
		c.logger.Info("coreopt start",
			"iterations", iterations,
			"initial-temperature", saInitialTemperature,
			"final-temperature", saFinalTemperature,
			"shaking-lb", shakingLB,
			"shaking-ub", shakingUB)
	}

	referenceCost := neighbor.Cost()

	start := time.Now()
	lastReport := start

	for iter := 0; iter < iterations; iter++ {
		// Roll the neighbor back to the incumbent and start a fresh journal.
		neighbor.ApplyUndoList1(neighbor)
		neighbor.ClearDoList1()
		neighbor.ClearUndoList1()
		neighbor.ClearSVC()

		walkSeed := shaker.Apply(neighbor, omega)

		ruinedCustomers = ruinedCustomers[:0]
		for i := neighbor.SVCBegin(); i != neighbor.SVCEnd(); i = neighbor.SVCNext(i) {
			ruinedCustomers = append(ruinedCustomers, i)
		}

		search.SequentialApply(neighbor)

		meanSVCSize.Update(float64(neighbor.SVCSize()))

		maxNonImproving := int(math.Ceil(c.params.Delta * float64(iterations) *
			meanSVCSize.Mean() / float64(inst.NumVertices())))

		improvedBest := false

		if neighbor.Cost() < bestSolution.Cost() {
			improvedBest = true

			// Bring the best solution forward: committed changes first, then
			// the pending ones.
			neighbor.ApplyDoList2(bestSolution)
			neighbor.ApplyDoList1(bestSolution)
			neighbor.ClearDoList2()

			gammaVertices = gammaVertices[:0]
			for i := neighbor.SVCBegin(); i != neighbor.SVCEnd(); i = neighbor.SVCNext(i) {
				gamma[i] = gammaBase
				gammaCounter[i] = 0
				gammaVertices = append(gammaVertices, i)
			}
			c.moves.SetActivePercentage(gamma, gammaVertices)
		} else {
			for i := neighbor.SVCBegin(); i != neighbor.SVCEnd(); i = neighbor.SVCNext(i) {
				gammaCounter[i]++
				if gammaCounter[i] >= maxNonImproving {
					gamma[i] = math.Min(gamma[i]*2.0, 1.0)
					gammaCounter[i] = 0
					gammaVertices = gammaVertices[:0]
					gammaVertices = append(gammaVertices, i)
					c.moves.SetActivePercentage(gamma, gammaVertices)
				}
			}
		}

		// Omega adaptation around the seed's depth: worsening beyond the
		// upper band shortens future walks, landing inside the lower band
		// lengthens them, anything else drifts randomly.
		seedShake := omega[walkSeed]
		switch {
		case neighbor.Cost() > referenceCost+shakingUB:
			for _, i := range ruinedCustomers {
				if omega[i] > seedShake-1 {
					omega[i]--
				}
			}
		case neighbor.Cost() >= referenceCost && neighbor.Cost() < referenceCost+shakingLB:
			for _, i := range ruinedCustomers {
				if omega[i] < seedShake+1 {
					omega[i]++
				}
			}
		default:
			for _, i := range ruinedCustomers {
				if c.rng.Intn(2) == 1 {
					if omega[i] > seedShake-1 {
						omega[i]--
					}
				} else {
					if omega[i] < seedShake+1 {
						omega[i]++
					}
				}
			}
		}

		if sa.Accept(referenceCost, neighbor) {
			if !improvedBest {
				neighbor.AppendDoList1ToDoList2()
			}

			neighbor.ClearDoList1()
			neighbor.ClearUndoList1()

			referenceCost = neighbor.Cost()

			shakingLB = meanArcCost(neighbor) * c.params.ShakingLowerBound
			shakingUB = meanArcCost(neighbor) * c.params.ShakingUpperBound
		}

		sa.DecreaseTemperature()

		if c.logger != nil && time.Since(lastReport) > time.Second {
			lastReport = time.Now()

			elapsed := time.Since(start).Seconds()
			iterPerSecond := float64(iter+1) / (elapsed + 0.01)

			gammaMean := 0.0
			for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
				gammaMean += gamma[i]
			}
			gammaMean /= float64(inst.NumVertices())

			omegaMean := 0.0
			for i := inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
				omegaMean += float64(omega[i])
			}
			omegaMean /= float64(inst.NumCustomers())

			c.logger.Info("coreopt progress",
				"percent", 100.0*float64(iter+1)/float64(iterations),
				"iteration", iter+1,
				"objective", bestSolution.Cost(),
				"routes", bestSolution.NumRoutes(),
				"iter-per-second", iterPerSecond,
				"eta-seconds", float64(iterations-iter)/iterPerSecond,
				"gamma-mean", gammaMean,
				"omega-mean", omegaMean,
				"temperature", sa.Temperature())
		}
	}

	return bestSolution, nil
}
