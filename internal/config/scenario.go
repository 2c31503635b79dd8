package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"econlab/internal/model"
	"econlab/internal/solver"
)

// Scenario is a YAML model parameterization. A scenario always carries a
// baseline agent; agent_types and income_process are optional extensions.
type Scenario struct {
	Name        string                `yaml:"name"`
	Preferences model.Preferences     `yaml:"preferences"`
	Endowment   model.Endowment       `yaml:"endowment"`
	Income      *model.IncomeProcess  `yaml:"income_process,omitempty"`
	AgentTypes  []model.AgentType     `yaml:"agent_types,omitempty"`
	Bequest     *solver.BequestParams `yaml:"bequest,omitempty"`
}

// LoadScenario reads a scenario file, filling unset baseline parameters
// with the standard textbook calibration.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	// Defaults
	if sc.Name == "" {
		sc.Name = "baseline"
	}
	if sc.Preferences.Sigma == 0 {
		sc.Preferences.Sigma = 2.0
	}
	if sc.Preferences.Beta == 0 {
		sc.Preferences.Beta = 0.95
	}
	if sc.Endowment.GrossReturn == 0 {
		sc.Endowment.GrossReturn = 1.05
	}
	if sc.Endowment.M1 == 0 {
		sc.Endowment.M1 = 100
	}
	for i := range sc.AgentTypes {
		t := &sc.AgentTypes[i]
		if t.Endow.GrossReturn == 0 {
			t.Endow.GrossReturn = sc.Endowment.GrossReturn
		}
		if t.Endow.M1 == 0 {
			t.Endow.M1 = sc.Endowment.M1
		}
		if t.Weight == 0 {
			t.Weight = 1
		}
	}

	return sc, sc.Validate()
}

// Validate surfaces malformed parameters before any solving starts.
func (s *Scenario) Validate() error {
	if err := solver.ValidatePreferences(s.Preferences); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if err := solver.ValidateEndowment(s.Endowment); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if s.Income != nil {
		if err := solver.ValidateProcess(*s.Income); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	for _, t := range s.AgentTypes {
		if err := solver.ValidatePreferences(t.Pref); err != nil {
			return fmt.Errorf("scenario %q, agent type %q: %w", s.Name, t.Name, err)
		}
		if err := solver.ValidateEndowment(t.Endow); err != nil {
			return fmt.Errorf("scenario %q, agent type %q: %w", s.Name, t.Name, err)
		}
		if t.Process != nil {
			if err := solver.ValidateProcess(*t.Process); err != nil {
				return fmt.Errorf("scenario %q, agent type %q: %w", s.Name, t.Name, err)
			}
		}
	}
	return nil
}
