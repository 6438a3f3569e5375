package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Op names a sequence operation.
type Op string

// Operations a step can perform. OpNone marks a step that only checks.
const (
	OpNone    Op = ""
	OpStart   Op = "start"
	OpAdvance Op = "advance"
	OpInsert  Op = "insert"
	OpAttach  Op = "attach"
	OpRemove  Op = "remove"
	OpResize  Op = "resize"
)

// Scenario is one YAML document.
type Scenario struct {
	Name string `yaml:"name"`
	// Capacity is the initial capacity. 0 keeps the runner's default.
	Capacity int `yaml:"capacity"`
	// MaxCapacity caps allocations. 0 keeps the runner's default.
	MaxCapacity int     `yaml:"max_capacity"`
	Steps       []Step  `yaml:"steps"`
	Expect      *Expect `yaml:"expect"`
}

// Step is one operation with optional expectations.
type Step struct {
	Op     Op
	Value  float64 // argument of insert and attach
	N      int     // argument of resize
	Expect *Expect
	Line   int

	ops []Op
}

// Expect lists the checks made after a step or at the end of a scenario.
// Unset fields are not checked. An empty items list checks for an empty
// sequence.
type Expect struct {
	Items           []float64 `yaml:"items"`
	Size            *int      `yaml:"size"`
	Current         *float64  `yaml:"current"`
	HasCurrent      *bool     `yaml:"has_current"`
	CapacityAtLeast *int      `yaml:"capacity_at_least"`
	// Panics expects the step to be a contract violation.
	Panics bool `yaml:"panics"`
	// AllocError expects the step to fail to allocate.
	AllocError bool `yaml:"alloc_error"`
}

var expectKeys = map[string]bool{
	"items":             true,
	"size":              true,
	"current":           true,
	"has_current":       true,
	"capacity_at_least": true,
	"panics":            true,
	"alloc_error":       true,
}

// UnmarshalYAML rejects unknown expectation names.
func (e *Expect) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expect must be a mapping", value.Line)
	}
	for i := 0; i < len(value.Content); i += 2 {
		key := value.Content[i]
		if !expectKeys[key.Value] {
			return fmt.Errorf("line %d: unknown expectation %q", key.Line, key.Value)
		}
	}
	type plain Expect
	return value.Decode((*plain)(e))
}

// UnmarshalYAML accepts either a bare operation name ("start") or a
// mapping such as {attach: 5, expect: {...}}.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	s.Line = value.Line

	switch value.Kind {
	case yaml.ScalarNode:
		switch op := Op(value.Value); op {
		case OpStart, OpAdvance, OpRemove:
			s.addOp(op)
			return nil
		case OpInsert, OpAttach, OpResize:
			return fmt.Errorf("line %d: %s needs an argument", value.Line, op)
		default:
			return fmt.Errorf("line %d: unknown operation %q", value.Line, value.Value)
		}
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: step must be an operation name or a mapping", value.Line)
	}

	for i := 0; i < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]

		switch op := Op(key.Value); op {
		case OpStart, OpAdvance, OpRemove:
			enabled, err := flagValue(val)
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", val.Line, op, err)
			}
			if enabled {
				s.addOp(op)
			}
		case OpInsert, OpAttach:
			if err := val.Decode(&s.Value); err != nil {
				return fmt.Errorf("line %d: %s: %w", val.Line, op, err)
			}
			s.addOp(op)
		case OpResize:
			if err := val.Decode(&s.N); err != nil {
				return fmt.Errorf("line %d: resize: %w", val.Line, err)
			}
			s.addOp(op)
		case "expect":
			s.Expect = &Expect{}
			if err := val.Decode(s.Expect); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: unknown step key %q", key.Line, key.Value)
		}
	}
	return nil
}

func (s *Step) addOp(op Op) {
	s.ops = append(s.ops, op)
	s.Op = op
}

// flagValue reads the value of an argument-less operation. A null value
// ("advance:") counts as true.
func flagValue(n *yaml.Node) (bool, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return true, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, err
	}
	return b, nil
}

// Validate checks that every step holds at most one operation and that
// no step is empty.
func (sc *Scenario) Validate() error {
	for i, step := range sc.Steps {
		switch {
		case len(step.ops) > 1:
			return &StepError{Scenario: sc.Name, Index: i, Message: fmt.Sprintf("more than one operation %v", step.ops)}
		case step.Op == OpNone && step.Expect == nil:
			return &StepError{Scenario: sc.Name, Index: i, Message: "no operation and no expectation"}
		}
	}
	return nil
}

// Parse reads every scenario document from r and validates them.
func Parse(r io.Reader) ([]*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []*Scenario
	for {
		var sc Scenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}

		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario %d", len(out)+1)
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &sc)
	}

	if len(out) == 0 {
		return nil, ErrNoScenarios
	}
	return out, nil
}

// Load reads every scenario in the YAML file at path.
func Load(path string) ([]*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scs, nil
}
