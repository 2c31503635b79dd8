package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econlab/internal/model"
)

var riskyIncome = model.IncomeProcess{States: []model.IncomeState{
	{Income: 50, Prob: 0.5},
	{Income: 150, Prob: 0.5},
}}

func TestSolveStochastic_EulerResidualAtOptimum(t *testing.T) {
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}
	alloc, err := SolveStochastic(basePref, endow, riskyIncome)
	require.NoError(t, err)

	res := EulerResidual(basePref, endow, riskyIncome, alloc.Saving)
	assert.InDelta(t, 0, res, 1e-8,
		"expected marginal utility equality at the returned saving")
}

func TestSolveStochastic_BudgetAndPositivity(t *testing.T) {
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}
	alloc, err := SolveStochastic(basePref, endow, riskyIncome)
	require.NoError(t, err)

	assert.InDelta(t, endow.M1, alloc.C1+alloc.Saving, 1e-9)
	assert.Greater(t, alloc.C1, 0.0)
	for _, st := range riskyIncome.States {
		c2 := endow.GrossReturn*alloc.Saving + st.Income
		assert.Greater(t, c2, 0.0, "consumption must stay positive in every state")
	}
	assert.False(t, math.IsNaN(alloc.Utility))
}

func TestSolveStochastic_DegenerateMatchesClosedForm(t *testing.T) {
	certain := model.IncomeProcess{States: []model.IncomeState{{Income: 100, Prob: 1}}}
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}

	stoch, err := SolveStochastic(basePref, endow, certain)
	require.NoError(t, err)

	detEndow := endow
	detEndow.Income2 = 100
	det, err := SolveDeterministic(basePref, detEndow)
	require.NoError(t, err)

	assert.InDelta(t, det.Saving, stoch.Saving, 1e-8)
	assert.InDelta(t, det.C1, stoch.C1, 1e-8)
}

func TestSolveStochastic_PrecautionarySaving(t *testing.T) {
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}
	risky, err := SolveStochastic(basePref, endow, riskyIncome)
	require.NoError(t, err)

	certainEndow := endow
	certainEndow.Income2 = riskyIncome.Mean()
	certain, err := SolveDeterministic(basePref, certainEndow)
	require.NoError(t, err)

	assert.Greater(t, risky.Saving, certain.Saving,
		"income risk with equal mean must raise saving")
}

func TestSolveStochastic_MoreRiskAverseSavesNoLess(t *testing.T) {
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}

	low, err := SolveStochastic(model.Preferences{Sigma: 2, Beta: 0.95}, endow, riskyIncome)
	require.NoError(t, err)
	high, err := SolveStochastic(model.Preferences{Sigma: 3, Beta: 0.95}, endow, riskyIncome)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, high.Saving, low.Saving-1e-9)
}

func TestSolveStochastic_InvalidProcess(t *testing.T) {
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}
	tests := []struct {
		name string
		proc model.IncomeProcess
	}{
		{"empty", model.IncomeProcess{}},
		{"probabilities below one", model.IncomeProcess{States: []model.IncomeState{
			{Income: 50, Prob: 0.5}, {Income: 150, Prob: 0.4},
		}}},
		{"negative probability", model.IncomeProcess{States: []model.IncomeState{
			{Income: 50, Prob: 1.5}, {Income: 150, Prob: -0.5},
		}}},
		{"negative income", model.IncomeProcess{States: []model.IncomeState{
			{Income: -50, Prob: 0.5}, {Income: 150, Prob: 0.5},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveStochastic(basePref, endow, tt.proc)
			assert.Error(t, err)
		})
	}
}
