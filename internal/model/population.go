package model

// AgentType is one parameterization in a heterogeneous population.
// Weight is a population share; shares are normalized before aggregation,
// so they only need to be positive, not sum to 1.
type AgentType struct {
	Name    string         `yaml:"name"`
	Weight  float64        `yaml:"weight"`
	Pref    Preferences    `yaml:"preferences"`
	Endow   Endowment      `yaml:"endowment"`
	Process *IncomeProcess `yaml:"income_process,omitempty"` // nil means deterministic
}

// TypeResult pairs an agent type with its solved allocation.
type TypeResult struct {
	Type       AgentType
	Alloc      Allocation
	SavingRate float64 // saving / m1
}

// PopulationResult aggregates solved allocations over all agent types.
type PopulationResult struct {
	Types            []TypeResult
	AggSaving        float64 // Σ wᵢ·sᵢ with normalized weights
	AggEndowment     float64 // Σ wᵢ·m1ᵢ with normalized weights
	AggSavingRate    float64 // AggSaving / AggEndowment
	AggConsumption1  float64 // Σ wᵢ·c1ᵢ with normalized weights
}
