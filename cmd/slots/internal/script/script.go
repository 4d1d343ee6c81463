// Package script loads and replays YAML scripts of UI events against the
// demo components. Replays are headless and reproducible: record ids are
// sequential and every step is followed by a flush.
//
//	name: groceries
//	component: todo
//	steps:
//	  - change: "buy milk"
//	  - submit: true
//	  - add: "walk dog"
//	  - remove: "buy milk"
//	  - expect:
//	      items: ["walk dog"]
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Component names accepted by Script.Component.
const (
	ComponentTodo  = "todo"
	ComponentHover = "hover"
)

// Script is a recorded sequence of UI events.
type Script struct {
	Name      string   `yaml:"name"`
	Component string   `yaml:"component"`
	Seed      []string `yaml:"seed,omitempty"`
	Cards     int      `yaml:"cards,omitempty"`
	Steps     []Step   `yaml:"steps"`
}

// Step is one event or assertion. Exactly one field must be set.
type Step struct {
	Change *string `yaml:"change,omitempty"`
	Submit bool    `yaml:"submit,omitempty"`
	Add    *string `yaml:"add,omitempty"`
	Remove *string `yaml:"remove,omitempty"`
	Move   string  `yaml:"move,omitempty"`
	Enter  *int    `yaml:"enter,omitempty"`
	Leave  *int    `yaml:"leave,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists assertions checked against the latest output. Nil fields are
// not checked.
type Expect struct {
	Items    []string `yaml:"items,omitempty"`
	Input    *string  `yaml:"input,omitempty"`
	Selected *int     `yaml:"selected,omitempty"`
	Hovering []bool   `yaml:"hovering,omitempty"`
	Visits   []int    `yaml:"visits,omitempty"`
}

// Kind returns the name of the single field set on the step.
func (s Step) Kind() string {
	var kinds []string
	if s.Change != nil {
		kinds = append(kinds, "change")
	}
	if s.Submit {
		kinds = append(kinds, "submit")
	}
	if s.Add != nil {
		kinds = append(kinds, "add")
	}
	if s.Remove != nil {
		kinds = append(kinds, "remove")
	}
	if s.Move != "" {
		kinds = append(kinds, "move")
	}
	if s.Enter != nil {
		kinds = append(kinds, "enter")
	}
	if s.Leave != nil {
		kinds = append(kinds, "leave")
	}
	if s.Expect != nil {
		kinds = append(kinds, "expect")
	}
	if len(kinds) != 1 {
		return strings.Join(kinds, "+")
	}
	return kinds[0]
}

var todoSteps = map[string]bool{"change": true, "submit": true, "add": true, "remove": true, "move": true, "expect": true}
var hoverSteps = map[string]bool{"enter": true, "leave": true, "expect": true}

// Validate reports every malformed step.
func (s *Script) Validate() error {
	var allowed map[string]bool
	switch s.Component {
	case ComponentTodo:
		allowed = todoSteps
	case ComponentHover:
		allowed = hoverSteps
		if s.Cards <= 0 {
			return fmt.Errorf("hover script needs cards > 0 (got %d)", s.Cards)
		}
	case "":
		return errors.New("component is required")
	default:
		return fmt.Errorf("unknown component %q (want %q or %q)", s.Component, ComponentTodo, ComponentHover)
	}

	var err error
	for i, step := range s.Steps {
		kind := step.Kind()
		switch {
		case kind == "":
			err = multierr.Append(err, fmt.Errorf("step %d: empty step", i+1))
		case !allowed[kind]:
			err = multierr.Append(err, fmt.Errorf("step %d: %q is not a %s step", i+1, kind, s.Component))
		case kind == "move" && step.Move != "up" && step.Move != "down":
			err = multierr.Append(err, fmt.Errorf("step %d: move must be up or down (got %q)", i+1, step.Move))
		case kind == "enter" && (*step.Enter < 0 || *step.Enter >= s.Cards):
			err = multierr.Append(err, fmt.Errorf("step %d: card %d out of range", i+1, *step.Enter))
		case kind == "leave" && (*step.Leave < 0 || *step.Leave >= s.Cards):
			err = multierr.Append(err, fmt.Errorf("step %d: card %d out of range", i+1, *step.Leave))
		}
	}
	return err
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}
