package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econlab/internal/exchange"
	"econlab/internal/model"
)

func TestFormatAllocation(t *testing.T) {
	pref := model.Preferences{Sigma: 2, Beta: 0.95}
	endow := model.Endowment{M1: 100, GrossReturn: 1.05}
	alloc := model.Allocation{C1: 51.25, Saving: 48.75, C2: 51.19, Utility: -0.038}

	out := FormatAllocation("baseline", "deterministic", pref, endow, alloc)
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "deterministic")
	assert.Contains(t, out, "51.2500")
	assert.NotContains(t, out, "borrowing")

	alloc.Saving = -3
	out = FormatAllocation("baseline", "deterministic", pref, endow, alloc)
	assert.Contains(t, out, "borrowing")
}

func TestFormatPopulation(t *testing.T) {
	res := &model.PopulationResult{
		Types: []model.TypeResult{{
			Type: model.AgentType{
				Name:   "cautious",
				Weight: 1,
				Pref:   model.Preferences{Sigma: 3, Beta: 0.95},
				Endow:  model.Endowment{M1: 100, GrossReturn: 1.05},
			},
			Alloc:      model.Allocation{C1: 50, Saving: 50},
			SavingRate: 0.5,
		}},
		AggSaving:     50,
		AggEndowment:  100,
		AggSavingRate: 0.5,
	}

	out := FormatPopulation("hetero", res)
	assert.Contains(t, out, "hetero")
	assert.Contains(t, out, "cautious")
	assert.Contains(t, out, "50.00%")
}

func TestFormatCounties_Limit(t *testing.T) {
	rows := []model.CountyReport{
		{CountyFIPS: "51027", CountyName: "Buchanan County", State: "VA", TotalMME: 20500},
		{CountyFIPS: "21095", CountyName: "Harlan County", State: "KY", TotalMME: 4000},
		{CountyFIPS: "47001", CountyName: "Anderson County", State: "TN", TotalMME: 100},
	}

	out := FormatCounties(rows, 2)
	assert.Contains(t, out, "Buchanan County")
	assert.Contains(t, out, "Harlan County")
	assert.NotContains(t, out, "Anderson County")
	assert.Contains(t, out, "1 more")

	// Zero limit means everything.
	out = FormatCounties(rows, 0)
	assert.Equal(t, 3, strings.Count(out, "County"))
}

func TestFormatExchange(t *testing.T) {
	e := exchange.NewEconomy()
	p1, err := e.FindClearingPrice(0.1, 10)
	require.NoError(t, err)

	out := FormatExchange(e, p1)
	assert.Contains(t, out, "clearing price")
	assert.Contains(t, out, "agent A")
	assert.Contains(t, out, "agent B")
}
