package rule

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Seed is a rule definition loaded from YAML.
type Seed struct {
	Name        string         `yaml:"name"`
	EventType   string         `yaml:"event_type"`
	Description string         `yaml:"description"`
	Pattern     map[string]any `yaml:"pattern"`
}

// DefaultSeeds returns the built-in rules.
func DefaultSeeds() ([]Seed, error) {
	return ParseSeeds(defaultsYAML)
}

// ParseSeeds decodes a YAML list of rule seeds.
func ParseSeeds(data []byte) ([]Seed, error) {
	var seeds []Seed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse rule seeds: %w", err)
	}
	for i, s := range seeds {
		if s.Name == "" {
			return nil, fmt.Errorf("seed %d: %w", i, ErrNameRequired)
		}
		if len(s.Pattern) == 0 {
			return nil, fmt.Errorf("seed %q: %w", s.Name, ErrInvalidPattern)
		}
	}
	return seeds, nil
}
