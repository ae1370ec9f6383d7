package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/genpare/genpare/internal/anonymize"
	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/fixture"
	"github.com/genpare/genpare/internal/ir"
)

// Scenario defines one query scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. The golden file is named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Now is the reference time of the request, as YYYY-MM-DD or RFC 3339.
	Now string `yaml:"now"`

	// Bucketing selects the list anonymization rule. Empty means the
	// default rule.
	Bucketing string `yaml:"bucketing,omitempty"`

	// Members are stored before the request runs.
	Members []fixture.Member `yaml:"members"`

	// Request is the request body, either as a YAML mapping or as a
	// string holding raw JSON (used for malformed bodies).
	Request any `yaml:"request"`

	// Expect describes the outcome.
	Expect Expect `yaml:"expect"`
}

// Expect describes a scenario's outcome. Without Error the request must
// succeed.
type Expect struct {
	Error      *ExpectError `yaml:"error,omitempty"`
	Assertions []Assertion  `yaml:"assertions,omitempty"`
}

// ExpectError is the expected rejection of a request.
type ExpectError struct {
	Code      engine.ErrorCode `yaml:"code"`
	Component engine.Component `yaml:"component,omitempty"`
	Index     *int             `yaml:"index,omitempty"`
}

// Assertion checks one value of the snapshot, addressed by a gjson path
// such as "results.1.results.#".
type Assertion struct {
	Path   string `yaml:"path"`
	Equals any    `yaml:"equals"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ReferenceTime parses Now.
func (s *Scenario) ReferenceTime() (time.Time, error) {
	if t, err := ir.ParseDate(s.Now); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %q is neither YYYY-MM-DD nor RFC 3339", s.Now)
	}
	return t, nil
}

// Bucketer returns the list anonymization of the scenario.
func (s *Scenario) Bucketer() (anonymize.Bucketer, error) {
	if s.Bucketing == "" {
		return anonymize.DefaultBucketer(), nil
	}
	rule, err := anonymize.ParseRule(s.Bucketing)
	if err != nil {
		return anonymize.Bucketer{}, err
	}
	return anonymize.NewBucketer(rule, anonymize.AgeWidth, anonymize.SalaryWidth)
}

// Body returns the request body bytes.
func (s *Scenario) Body() ([]byte, error) {
	if raw, ok := s.Request.(string); ok {
		return []byte(raw), nil
	}
	body, err := json.Marshal(s.Request)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := s.ReferenceTime(); err != nil {
		return err
	}
	if _, err := s.Bucketer(); err != nil {
		return fmt.Errorf("bucketing: %w", err)
	}
	if s.Request == nil {
		return fmt.Errorf("request is required")
	}
	if _, err := s.Body(); err != nil {
		return err
	}

	for i, m := range s.Members {
		if _, _, err := m.Convert(); err != nil {
			return fmt.Errorf("members[%d]: %w", i, err)
		}
	}

	if s.Expect.Error != nil && s.Expect.Error.Code == "" {
		return fmt.Errorf("expect.error: code is required")
	}
	for i, a := range s.Expect.Assertions {
		if a.Path == "" {
			return fmt.Errorf("expect.assertions[%d]: path is required", i)
		}
	}
	return nil
}
