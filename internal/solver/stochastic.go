package solver

import (
	"math"

	"econlab/internal/model"
)

// Bisection settings for the stochastic Euler equation. The residual is
// strictly increasing in saving on the feasible interval, so plain
// bisection always converges.
const (
	maxBisectIter = 200
	savingTol     = 1e-12
)

// SolveStochastic solves the two-period problem with a finite discrete
// distribution over period-2 income. There is no closed form: the saving
// choice s must satisfy the Euler equation in expectation,
//
//	u'(m1-s) = βR · Σᵢ pᵢ·u'(R·s + yᵢ)
//
// which is found by bisection. Every realized period-2 consumption stays
// strictly positive at the returned saving level.
func SolveStochastic(pref model.Preferences, endow model.Endowment, proc model.IncomeProcess) (model.Allocation, error) {
	if err := ValidatePreferences(pref); err != nil {
		return model.Allocation{}, err
	}
	if err := ValidateEndowment(endow); err != nil {
		return model.Allocation{}, err
	}
	if err := ValidateProcess(proc); err != nil {
		return model.Allocation{}, err
	}

	r := endow.GrossReturn
	minIncome := math.Inf(1)
	for _, s := range proc.States {
		if s.Income < minIncome {
			minIncome = s.Income
		}
	}

	// Feasible interval: c1 = m1-s > 0 caps s above, and R·s + yᵢ > 0 in
	// the worst state bounds it below.
	lo := -minIncome / r
	hi := endow.M1
	if hi <= lo {
		return model.Allocation{}, ErrInfeasible
	}

	residual := func(s float64) float64 {
		var expMU float64
		for _, st := range proc.States {
			expMU += st.Prob * MarginalUtility(r*s+st.Income, pref.Sigma)
		}
		return MarginalUtility(endow.M1-s, pref.Sigma) - pref.Beta*r*expMU
	}

	// The residual runs from -inf at lo to +inf at hi, so the midpoint
	// sign alone drives the search; the endpoints are never evaluated.
	for i := 0; i < maxBisectIter && hi-lo > savingTol; i++ {
		mid := lo + (hi-lo)/2
		if residual(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	saving := lo + (hi-lo)/2

	c1 := endow.M1 - saving
	u1, err := Utility(c1, pref.Sigma)
	if err != nil {
		return model.Allocation{}, err
	}
	var expC2, expU2 float64
	for _, st := range proc.States {
		c2 := r*saving + st.Income
		u2, err := Utility(c2, pref.Sigma)
		if err != nil {
			return model.Allocation{}, ErrInfeasible
		}
		expC2 += st.Prob * c2
		expU2 += st.Prob * u2
	}

	return model.Allocation{
		C1:      c1,
		Saving:  saving,
		C2:      expC2,
		Utility: u1 + pref.Beta*expU2,
	}, nil
}

// EulerResidual reports how far a saving choice is from satisfying the
// stochastic Euler equation. Exposed for diagnostics and tests.
func EulerResidual(pref model.Preferences, endow model.Endowment, proc model.IncomeProcess, saving float64) float64 {
	r := endow.GrossReturn
	var expMU float64
	for _, st := range proc.States {
		expMU += st.Prob * MarginalUtility(r*saving+st.Income, pref.Sigma)
	}
	return MarginalUtility(endow.M1-saving, pref.Sigma) - pref.Beta*r*expMU
}
