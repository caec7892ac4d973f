// Package partners holds the roster shown on the about page.
package partners

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Partner is one entry of the about-page roster.
type Partner struct {
	Name    string `yaml:"nama"`
	Company string `yaml:"company"`
}

// Default returns the built-in roster.
func Default() []Partner {
	return []Partner{
		{Name: "Elon Musk", Company: "Space X"},
		{Name: "Bill Gates", Company: "Microsoft"},
		{Name: "Vladimir Putin", Company: "Russia's Missile"},
	}
}

// Load reads the roster from a YAML file, falling back to the built-in roster
// when no path is configured.
func Load(path string) ([]Partner, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read partners file: %w", err)
	}

	var roster []Partner
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse partners file: %w", err)
	}

	return roster, nil
}
