package solver

import (
	"errors"
	"fmt"
	"math"

	"econlab/internal/model"
)

// probTolerance is how far state probabilities may drift from summing to 1.
const probTolerance = 1e-9

// ErrInfeasible is returned when no saving choice keeps consumption
// strictly positive in every realized state.
var ErrInfeasible = errors.New("no feasible saving choice keeps consumption positive")

// Utility returns CRRA utility u(c) = c^(1-σ)/(1-σ), with the explicit
// log branch at σ=1 where the power form divides by zero.
func Utility(c, sigma float64) (float64, error) {
	if sigma <= 0 {
		return 0, fmt.Errorf("sigma must be positive, got %g", sigma)
	}
	if c <= 0 {
		return 0, fmt.Errorf("consumption must be positive, got %g", c)
	}
	if sigma == 1 {
		return math.Log(c), nil
	}
	return math.Pow(c, 1-sigma) / (1 - sigma), nil
}

// MarginalUtility returns u'(c) = c^(-σ). Callers must ensure c > 0.
func MarginalUtility(c, sigma float64) float64 {
	return math.Pow(c, -sigma)
}

// ValidatePreferences rejects parameter values outside the model's domain.
func ValidatePreferences(p model.Preferences) error {
	if p.Sigma <= 0 {
		return fmt.Errorf("sigma must be positive, got %g", p.Sigma)
	}
	if p.Beta <= 0 || p.Beta > 1 {
		return fmt.Errorf("beta must be in (0, 1], got %g", p.Beta)
	}
	return nil
}

// ValidateEndowment rejects endowments that make the problem degenerate.
func ValidateEndowment(e model.Endowment) error {
	if e.M1 <= 0 {
		return fmt.Errorf("period-1 endowment must be positive, got %g", e.M1)
	}
	if e.GrossReturn <= 0 {
		return fmt.Errorf("gross return must be positive, got %g", e.GrossReturn)
	}
	if e.Income2 < 0 {
		return fmt.Errorf("period-2 income must be non-negative, got %g", e.Income2)
	}
	return nil
}

// ValidateProcess checks that an income process is a proper distribution.
func ValidateProcess(p model.IncomeProcess) error {
	if len(p.States) == 0 {
		return errors.New("income process has no states")
	}
	var sum float64
	for i, s := range p.States {
		if s.Prob < 0 {
			return fmt.Errorf("state %d has negative probability %g", i, s.Prob)
		}
		if s.Income < 0 {
			return fmt.Errorf("state %d has negative income %g", i, s.Income)
		}
		sum += s.Prob
	}
	if math.Abs(sum-1) > probTolerance {
		return fmt.Errorf("state probabilities sum to %g, want 1", sum)
	}
	return nil
}
