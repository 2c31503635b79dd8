// Package population solves the two-period problem independently for every
// agent type in a heterogeneous population and aggregates the results.
package population

import (
	"errors"
	"fmt"

	"econlab/internal/model"
	"econlab/internal/solver"
)

// Solve solves each agent type with its own solver variant (closed form
// when the income process is absent, Euler bisection otherwise) and
// aggregates saving with weights normalized to population shares.
func Solve(types []model.AgentType) (*model.PopulationResult, error) {
	if len(types) == 0 {
		return nil, errors.New("population has no agent types")
	}

	var totalWeight float64
	for _, t := range types {
		if t.Weight <= 0 {
			return nil, fmt.Errorf("agent type %q has non-positive weight %g", t.Name, t.Weight)
		}
		totalWeight += t.Weight
	}

	res := &model.PopulationResult{Types: make([]model.TypeResult, 0, len(types))}
	for _, t := range types {
		alloc, err := solveType(t)
		if err != nil {
			return nil, fmt.Errorf("solve agent type %q: %w", t.Name, err)
		}

		share := t.Weight / totalWeight
		res.Types = append(res.Types, model.TypeResult{
			Type:       t,
			Alloc:      alloc,
			SavingRate: alloc.Saving / t.Endow.M1,
		})
		res.AggSaving += share * alloc.Saving
		res.AggEndowment += share * t.Endow.M1
		res.AggConsumption1 += share * alloc.C1
	}
	res.AggSavingRate = res.AggSaving / res.AggEndowment

	return res, nil
}

func solveType(t model.AgentType) (model.Allocation, error) {
	if t.Process == nil {
		return solver.SolveDeterministic(t.Pref, t.Endow)
	}
	return solver.SolveStochastic(t.Pref, t.Endow, *t.Process)
}
