// Package exchange implements a two-agent Cobb-Douglas endowment economy
// for two goods, with demand functions and market-clearing price search.
package exchange

import (
	"errors"
	"fmt"
	"math"
)

// Economy holds the preference shares and endowments. Total endowment of
// each good is normalized to 1, so agent B holds the remainder of A's.
type Economy struct {
	Alpha float64 `yaml:"alpha"` // A's expenditure share on good 1
	Beta  float64 `yaml:"beta"`  // B's expenditure share on good 1
	W1A   float64 `yaml:"w1a"`   // A's endowment of good 1
	W2A   float64 `yaml:"w2a"`   // A's endowment of good 2
}

// NewEconomy returns the baseline parameterization.
func NewEconomy() Economy {
	return Economy{Alpha: 1.0 / 3.0, Beta: 2.0 / 3.0, W1A: 0.8, W2A: 0.3}
}

// Validate rejects shares or endowments outside the unit interval.
func (e Economy) Validate() error {
	if e.Alpha <= 0 || e.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", e.Alpha)
	}
	if e.Beta <= 0 || e.Beta >= 1 {
		return fmt.Errorf("beta must be in (0, 1), got %g", e.Beta)
	}
	if e.W1A < 0 || e.W1A > 1 || e.W2A < 0 || e.W2A > 1 {
		return fmt.Errorf("endowments must be in [0, 1], got w1A=%g w2A=%g", e.W1A, e.W2A)
	}
	return nil
}

// UtilityA is agent A's Cobb-Douglas utility over the two goods.
func (e Economy) UtilityA(x1, x2 float64) float64 {
	return math.Pow(x1, e.Alpha) * math.Pow(x2, 1-e.Alpha)
}

// UtilityB is agent B's Cobb-Douglas utility over the two goods.
func (e Economy) UtilityB(x1, x2 float64) float64 {
	return math.Pow(x1, e.Beta) * math.Pow(x2, 1-e.Beta)
}

// DemandA returns A's demand at relative price p1 (good 2 is numeraire).
func (e Economy) DemandA(p1 float64) (x1, x2 float64) {
	wealth := e.W1A*p1 + e.W2A
	return e.Alpha * wealth / p1, (1 - e.Alpha) * wealth
}

// DemandB returns B's demand at relative price p1.
func (e Economy) DemandB(p1 float64) (x1, x2 float64) {
	wealth := (1-e.W1A)*p1 + (1 - e.W2A)
	return e.Beta * wealth / p1, (1 - e.Beta) * wealth
}

// ClearingError returns the excess demand in both markets at price p1.
// Walras' law ties the two: p1·ε1 + ε2 = 0.
func (e Economy) ClearingError(p1 float64) (eps1, eps2 float64) {
	x1A, x2A := e.DemandA(p1)
	x1B, x2B := e.DemandB(p1)
	eps1 = x1A + x1B - 1
	eps2 = x2A + x2B - 1
	return eps1, eps2
}

// FindClearingPrice bisects the good-1 excess demand on [lo, hi]. Excess
// demand for good 1 is strictly decreasing in p1, so a sign change
// brackets the unique equilibrium price.
func (e Economy) FindClearingPrice(lo, hi float64) (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if lo <= 0 || hi <= lo {
		return 0, fmt.Errorf("price bracket must satisfy 0 < lo < hi, got [%g, %g]", lo, hi)
	}

	excess := func(p float64) float64 {
		eps1, _ := e.ClearingError(p)
		return eps1
	}
	fLo, fHi := excess(lo), excess(hi)
	if fLo < 0 || fHi > 0 {
		return 0, errors.New("price bracket does not contain the clearing price")
	}

	for i := 0; i < 200 && hi-lo > 1e-12; i++ {
		mid := lo + (hi-lo)/2
		if excess(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2, nil
}
