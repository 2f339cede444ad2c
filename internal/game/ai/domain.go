// Package ai drives every non-player actor: hostile creatures plan with a
// Hierarchical Task Network (HTN), colonists flee toward the exit, and
// friendly marines hunt the queen.
//
// HTN planning decomposes the root task "behave" into primitive operators via
// ordered methods. Method preconditions name a built-in condition or, failing
// that, a Lua hook; operators map to melee, ranged, pursuit, or holding
// still.
package ai

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDomainID is the domain used by hostiles whose template names none.
const DefaultDomainID = "hostile_default"

//go:embed default_domain.yaml
var defaultDomainYAML []byte

// Operator actions.
const (
	ActionMelee  = "melee"
	ActionShoot  = "shoot"
	ActionPursue = "pursue"
	ActionHold   = "hold"
)

var knownActions = map[string]bool{
	ActionMelee:  true,
	ActionShoot:  true,
	ActionPursue: true,
	ActionHold:   true,
}

// Task is an abstract goal that can be decomposed by methods.
//
// Precondition: ID must be non-empty.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition: TaskID, ID, and Subtasks must be non-empty.
// Precondition: Precondition names a built-in condition or a Lua function;
// empty means always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive action.
//
// Precondition: ID must be non-empty and Action one of melee, shoot, pursue,
// hold.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"` // "nearest", "nearest_visible", "weakest", "player", "last_known"
}

// Domain holds the full HTN domain loaded from a YAML file.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks all required fields and cross-field constraints.
//
// Postcondition: nil return guarantees a non-empty ID, a "behave" task, valid
// methods and operators, no duplicate IDs within any slice, and resolvable
// cross-references.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("ai.Domain %q: must have at least one task", d.ID)
	}
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("ai.Domain %q: task has empty ID", d.ID)
		}
	}
	for _, m := range d.Methods {
		if m.TaskID == "" || m.ID == "" {
			return fmt.Errorf("ai.Domain %q: method missing TaskID or ID", d.ID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
	}
	for _, op := range d.Operators {
		if op.ID == "" || op.Action == "" {
			return fmt.Errorf("ai.Domain %q: operator missing ID or Action", d.ID)
		}
		if !knownActions[op.Action] {
			return fmt.Errorf("ai.Domain %q operator %q: unknown action %q", d.ID, op.ID, op.Action)
		}
	}

	taskIDs, err := uniqueIDs(d.ID, "task", d.Tasks, func(t *Task) string { return t.ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs(d.ID, "method", d.Methods, func(m *Method) string { return m.ID }); err != nil {
		return err
	}
	operatorIDs, err := uniqueIDs(d.ID, "operator", d.Operators, func(o *Operator) string { return o.ID })
	if err != nil {
		return err
	}
	if _, ok := taskIDs[rootTask]; !ok {
		return fmt.Errorf("ai.Domain %q: missing root task %q", d.ID, rootTask)
	}

	for _, m := range d.Methods {
		if _, ok := taskIDs[m.TaskID]; !ok {
			return fmt.Errorf("ai.Domain %q method %q: TaskID %q references unknown task", d.ID, m.ID, m.TaskID)
		}
		for _, sub := range m.Subtasks {
			_, isTask := taskIDs[sub]
			_, isOp := operatorIDs[sub]
			if !isTask && !isOp {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

func uniqueIDs[T any](domain, kind string, items []T, id func(T) string) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := id(it)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("ai.Domain %q: duplicate %s ID %q", domain, kind, k)
		}
		seen[k] = struct{}{}
	}
	return seen, nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// yamlDomainFile wraps the YAML top-level key.
type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomainFromBytes parses and validates one domain document.
func LoadDomainFromBytes(data []byte) (*Domain, error) {
	var f yamlDomainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ai.LoadDomainFromBytes: %w", err)
	}
	if f.Domain == nil {
		return nil, errors.New("ai.LoadDomainFromBytes: missing top-level 'domain' key")
	}
	if err := f.Domain.Validate(); err != nil {
		return nil, err
	}
	return f.Domain, nil
}

// DefaultDomain returns a fresh copy of the built-in hostile domain: melee
// when adjacent, shoot when a target is in range, otherwise pursue according
// to the creature's aggro mode.
func DefaultDomain() *Domain {
	d, err := LoadDomainFromBytes(defaultDomainYAML)
	if err != nil {
		panic(fmt.Sprintf("ai: built-in domain is invalid: %v", err))
	}
	return d
}

// LoadDomains reads all *.yaml files from dir and returns parsed Domains.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
// Postcondition: returns (nil, nil) if dir contains no .yaml files.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		d, err := LoadDomainFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		domains = append(domains, d)
	}
	return domains, nil
}
