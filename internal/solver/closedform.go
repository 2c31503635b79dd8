package solver

import (
	"math"

	"econlab/internal/model"
)

// SolveDeterministic solves the two-period problem with certain period-2
// income. The Euler equation u'(c1) = βR·u'(c2) together with the budget
// constraint c2 = R·(m1-c1) + y2 reduces to
//
//	c1* = (R·m1 + y2) / ((βR)^(1/σ) + R)
//
// Saving may be negative when period-2 income is large (borrowing).
func SolveDeterministic(pref model.Preferences, endow model.Endowment) (model.Allocation, error) {
	if err := ValidatePreferences(pref); err != nil {
		return model.Allocation{}, err
	}
	if err := ValidateEndowment(endow); err != nil {
		return model.Allocation{}, err
	}

	r := endow.GrossReturn
	growth := math.Pow(pref.Beta*r, 1/pref.Sigma)
	c1 := (r*endow.M1 + endow.Income2) / (growth + r)
	saving := endow.M1 - c1
	c2 := r*saving + endow.Income2

	u, err := lifetimeUtility(c1, c2, pref)
	if err != nil {
		return model.Allocation{}, err
	}
	return model.Allocation{C1: c1, Saving: saving, C2: c2, Utility: u}, nil
}

// SolveLog is the σ=1 special case solved directly from the log-utility
// first-order condition: c1* = (m1 + y2/R) / (1 + β). It must agree with
// SolveDeterministic at σ=1.
func SolveLog(beta float64, endow model.Endowment) (model.Allocation, error) {
	pref := model.Preferences{Sigma: 1, Beta: beta}
	if err := ValidatePreferences(pref); err != nil {
		return model.Allocation{}, err
	}
	if err := ValidateEndowment(endow); err != nil {
		return model.Allocation{}, err
	}

	r := endow.GrossReturn
	c1 := (endow.M1 + endow.Income2/r) / (1 + beta)
	saving := endow.M1 - c1
	c2 := r*saving + endow.Income2

	u, err := lifetimeUtility(c1, c2, pref)
	if err != nil {
		return model.Allocation{}, err
	}
	return model.Allocation{C1: c1, Saving: saving, C2: c2, Utility: u}, nil
}

func lifetimeUtility(c1, c2 float64, pref model.Preferences) (float64, error) {
	u1, err := Utility(c1, pref.Sigma)
	if err != nil {
		return 0, err
	}
	u2, err := Utility(c2, pref.Sigma)
	if err != nil {
		return 0, err
	}
	return u1 + pref.Beta*u2, nil
}
