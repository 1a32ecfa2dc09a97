package scenariofile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/chaincommand-go/internal/application/scenario"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
)

// Load reads and validates a scenario file
func Load(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario, rejecting unknown fields, then validates it
func Parse(r io.Reader) (*scenario.Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s scenario.Scenario
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("scenario is empty")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := config.NewValidator().Validate(&s); err != nil {
		return nil, err
	}
	if err := s.CheckReferences(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes a scenario as YAML
func Write(w io.Writer, s *scenario.Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
