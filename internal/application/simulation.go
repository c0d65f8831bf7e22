package application

import (
	"math/rand"

	"smart-attendance/internal/domain"
)

// SimulationStrategy supplies the non-deterministic pieces of the
// simulated recognition flow. Tests substitute a fixed strategy;
// production uses RandomSimulation.
type SimulationStrategy interface {
	// SelectEmployee picks the employee a scan "recognized", or reports
	// that nobody was recognized.
	SelectEmployee(candidates []domain.Employee) (domain.Employee, bool)
	// Confidence returns a recognition confidence in [min, max].
	Confidence(min, max float64) float64
}

type RandomSimulation struct {
	rng *rand.Rand
}

func NewRandomSimulation(seed int64) *RandomSimulation {
	return &RandomSimulation{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSimulation) SelectEmployee(candidates []domain.Employee) (domain.Employee, bool) {
	if len(candidates) == 0 {
		return domain.Employee{}, false
	}
	// Roughly one scan in ten fails to recognize anyone.
	if s.rng.Float64() < 0.1 {
		return domain.Employee{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

func (s *RandomSimulation) Confidence(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.rng.Float64()*(max-min)
}

// FixedSimulation always recognizes the employee at Index with the given
// Score. Deterministic stand-in for tests.
type FixedSimulation struct {
	Index int
	Score float64
	Miss  bool
}

func (s FixedSimulation) SelectEmployee(candidates []domain.Employee) (domain.Employee, bool) {
	if s.Miss || len(candidates) == 0 || s.Index >= len(candidates) {
		return domain.Employee{}, false
	}
	return candidates[s.Index], true
}

func (s FixedSimulation) Confidence(min, max float64) float64 {
	return s.Score
}
