package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted run against one base collection.
//
// Fields carry json tags as well as yaml tags: the CUE schema check encodes
// the decoded scenario through them.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// CollectionID fixes the base ID. Defaults to Name.
	CollectionID string `yaml:"collection_id,omitempty" json:"collection_id,omitempty"`

	// Initial is the base content before the first step.
	Initial []Item `yaml:"initial,omitempty" json:"initial,omitempty"`

	// Derived names the observable collections attached before the first step.
	Derived []string `yaml:"derived,omitempty" json:"derived,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Expect is evaluated after the last step.
	Expect *Expectation `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Step is one scripted operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op" json:"op"`

	// Index is used by set and get.
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// A and B are the swap indices.
	A *int `yaml:"a,omitempty" json:"a,omitempty"`
	B *int `yaml:"b,omitempty" json:"b,omitempty"`

	// Item is used by set, append and find.
	Item *Item `yaml:"item,omitempty" json:"item,omitempty"`

	// Items is used by append_range.
	Items []Item `yaml:"items,omitempty" json:"items,omitempty"`

	// Target names a derived collection (attach, detach, find, get).
	// A get without target reads the base.
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// ExpectError is the error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`

	// ExpectFound is the expected outcome of a find.
	ExpectFound *bool `yaml:"expect_found,omitempty" json:"expect_found,omitempty"`
}

// Expectation validates the final state.
type Expectation struct {
	// Len is the expected base length.
	Len *int `yaml:"len,omitempty" json:"len,omitempty"`

	// Base is the expected base content.
	Base []Item `yaml:"base,omitempty" json:"base,omitempty"`

	// Derived maps a derived collection name to its expected labels.
	Derived map[string][]string `yaml:"derived,omitempty" json:"derived,omitempty"`

	// Changes maps an observable name to the number of changes it emitted.
	Changes map[string]int `yaml:"changes,omitempty" json:"changes,omitempty"`
}

// Step op constants.
const (
	OpSet         = "set"
	OpAppend      = "append"
	OpAppendRange = "append_range"
	OpClear       = "clear"
	OpSwap        = "swap"
	OpAttach      = "attach"
	OpDetach      = "detach"
	OpFind        = "find"
	OpGet         = "get"
)

// LoadScenario reads, parses and validates a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or fails the schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateSchema(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks what the schema cannot: derived names must be
// unique and every target must refer to a collection attached earlier.
func validateScenario(s *Scenario) error {
	known := make(map[string]bool)
	for _, name := range s.Derived {
		if known[name] {
			return fmt.Errorf("derived: duplicate name %q", name)
		}
		known[name] = true
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpAttach:
			if known[step.Target] {
				return fmt.Errorf("steps[%d]: %q is already attached", i, step.Target)
			}
			known[step.Target] = true
		case OpDetach, OpFind:
			if !known[step.Target] {
				return fmt.Errorf("steps[%d]: unknown target %q", i, step.Target)
			}
		case OpGet:
			if step.Target != "" && !known[step.Target] {
				return fmt.Errorf("steps[%d]: unknown target %q", i, step.Target)
			}
		}
	}

	if s.Expect != nil {
		for name := range s.Expect.Derived {
			if !known[name] {
				return fmt.Errorf("expect.derived: unknown collection %q", name)
			}
		}
		for name := range s.Expect.Changes {
			if !known[name] {
				return fmt.Errorf("expect.changes: unknown collection %q", name)
			}
		}
	}

	return nil
}
