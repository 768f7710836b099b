package lexdfa

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is a rule set as written by its author.
//
// In YAML:
//
//	macros:
//	  digit: "[0-9]"
//	rules:
//	  - "%Number {digit}+"
//	  - "%Space [ \\t\\n]+"
type Definition struct {
	// Macros maps {name} references to rule text.
	Macros map[string]string `yaml:"macros"`

	// Rules are tried in declaration order; earlier rules win ties.
	Rules []string `yaml:"rules"`
}

// LoadDefinition parses a YAML rule set.
func LoadDefinition(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML definition: %w", err)
	}
	return &def, nil
}

// ReadDefinitionFile loads a YAML rule set from a file.
func ReadDefinitionFile(filename string) (*Definition, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition file '%s': %w", filename, err)
	}
	defer f.Close()

	def, err := LoadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return def, nil
}
