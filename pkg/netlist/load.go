package netlist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// documentYAML is the on-disk shape a netlist file takes when the external
// schematic collaborator hands one to the CLI rather than calling
// TestFootprintsAgainstNetlist directly from Go.
type documentYAML struct {
	Components []struct {
		Reference string `yaml:"reference"`
		Value     string `yaml:"value"`
		Pins      []struct {
			Number string `yaml:"number"`
			Name   string `yaml:"name"`
			Net    string `yaml:"net"`
		} `yaml:"pins"`
	} `yaml:"components"`
}

// Load reads a YAML netlist file, following the same loader shape as
// pkg/config's design-settings loader.
func Load(path string) (Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Netlist{}, fmt.Errorf("read netlist %s: %w", path, err)
	}

	var doc documentYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Netlist{}, fmt.Errorf("parse netlist %s: %w", path, err)
	}

	var nl Netlist
	for _, c := range doc.Components {
		comp := Component{Reference: c.Reference, Value: c.Value}
		for _, p := range c.Pins {
			comp.Pins = append(comp.Pins, Pin{Number: p.Number, Name: p.Name, Net: p.Net})
		}
		nl.Components = append(nl.Components, comp)
	}
	return nl, nil
}
