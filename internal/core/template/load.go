package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/caseflow/internal/core/workflow"
)

// templateFile is the YAML shape of a deployment template overlay.
type templateFile struct {
	CaseTypes []struct {
		CaseType    string `yaml:"case_type"`
		StatusTable string `yaml:"status_table"`
		Phases      []struct {
			Number int    `yaml:"number"`
			Name   string `yaml:"name"`
			Gates  []struct {
				Key         string `yaml:"key"`
				Label       string `yaml:"label"`
				Requirement string `yaml:"requirement"`
			} `yaml:"gates"`
		} `yaml:"phases"`
	} `yaml:"case_types"`
}

// LoadFile reads additional case-type templates from a YAML file and
// returns a registry containing the built-in templates plus the overlay.
// Overlay templates may replace built-in case types.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return loadYAML(data)
}

func loadYAML(data []byte) (*Registry, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	merged := map[string]Template{
		CaseTypeEnforcement: enforcementTemplate(),
		CaseTypePetition:    petitionTemplate(),
	}
	order := []string{CaseTypeEnforcement, CaseTypePetition}

	for _, ct := range file.CaseTypes {
		t := Template{CaseType: ct.CaseType, StatusTable: ct.StatusTable}
		if t.StatusTable == "" {
			t.StatusTable = "default"
		}
		for _, p := range ct.Phases {
			phase := PhaseSpec{Number: p.Number, Name: p.Name}
			for _, g := range p.Gates {
				phase.Gates = append(phase.Gates, GateSpec{
					Key:         g.Key,
					Label:       g.Label,
					Requirement: workflow.Requirement(g.Requirement),
				})
			}
			t.Phases = append(t.Phases, phase)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := merged[t.CaseType]; !exists {
			order = append(order, t.CaseType)
		}
		merged[t.CaseType] = t
	}

	templates := make([]Template, 0, len(order))
	for _, caseType := range order {
		templates = append(templates, merged[caseType])
	}
	return NewRegistry(templates...)
}
