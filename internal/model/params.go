package model

// Preferences describes a CRRA agent.
type Preferences struct {
	Sigma float64 `yaml:"sigma"` // relative risk aversion, > 0; 1 means log utility
	Beta  float64 `yaml:"beta"`  // discount factor, in (0, 1]
}

// Endowment holds the resources on both sides of the budget constraint.
type Endowment struct {
	M1          float64 `yaml:"m1"`           // period-1 resources
	Income2     float64 `yaml:"income2"`      // certain period-2 income, may be zero
	GrossReturn float64 `yaml:"gross_return"` // R = 1 + net interest rate on savings
}

// IncomeState is one realization of period-2 income.
type IncomeState struct {
	Income float64 `yaml:"income"`
	Prob   float64 `yaml:"prob"`
}

// IncomeProcess is a finite discrete distribution over period-2 income.
// Probabilities must sum to 1.
type IncomeProcess struct {
	States []IncomeState `yaml:"states"`
}

// Mean returns the expected period-2 income.
func (p IncomeProcess) Mean() float64 {
	var m float64
	for _, s := range p.States {
		m += s.Prob * s.Income
	}
	return m
}

// Allocation is the solved consumption/saving plan.
type Allocation struct {
	C1      float64 // period-1 consumption
	Saving  float64 // m1 - c1, negative means borrowing
	C2      float64 // period-2 consumption (expected value in the stochastic case)
	Utility float64 // expected lifetime utility at the optimum
}
