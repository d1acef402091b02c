package merge

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/klytics/contentkit/internal/errors"
)

// Hierarchy maps a parent key to the ordered keys of its children.
// Parents keep the order they were declared in.
type Hierarchy struct {
	parents  []string
	children map[string][]string
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{children: make(map[string][]string)}
}

// Add declares parent with its children. Adding a parent twice is an error.
func (h *Hierarchy) Add(parent string, children ...string) error {
	if _, ok := h.children[parent]; ok {
		return errors.NewValidationError("hierarchy", parent, fmt.Sprintf("parent key %q declared twice", parent))
	}
	h.parents = append(h.parents, parent)
	h.children[parent] = append([]string(nil), children...)
	return nil
}

// Children returns the child keys of parent by exact match.
func (h *Hierarchy) Children(parent string) ([]string, bool) {
	c, ok := h.children[parent]
	return c, ok
}

// Parents returns the parent keys in declaration order.
func (h *Hierarchy) Parents() []string {
	return append([]string(nil), h.parents...)
}

// Len returns the number of parents.
func (h *Hierarchy) Len() int {
	return len(h.parents)
}

// LoadHierarchyFile reads a hierarchy from a YAML file.
func LoadHierarchyFile(path string) (*Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("read hierarchy", path, err)
	}
	h, err := ParseHierarchy(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ParseHierarchy reads a YAML document whose top level is a mapping from
// parent key to a sequence of child keys:
//
//	A_1:
//	  - C_1_A_01_2018.1102
//	  - C_1_A_02_2019.389
//
// An empty document yields an empty hierarchy.
func ParseHierarchy(r io.Reader) (*Hierarchy, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return NewHierarchy(), nil
		}
		return nil, fmt.Errorf("could not parse hierarchy YAML: %w", err)
	}

	h := NewHierarchy()
	if len(root.Content) == 0 {
		return h, nil
	}

	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, errors.NewValidationError("hierarchy", nil, fmt.Sprintf("line %d: expected a mapping of parent keys", m.Line))
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]

		var children []string
		switch val.Kind {
		case yaml.SequenceNode:
			if err := val.Decode(&children); err != nil {
				return nil, fmt.Errorf("line %d: children of %q: %w", val.Line, key.Value, err)
			}
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				return nil, errors.NewValidationError("hierarchy", key.Value, fmt.Sprintf("line %d: children of %q must be a list", val.Line, key.Value))
			}
		default:
			return nil, errors.NewValidationError("hierarchy", key.Value, fmt.Sprintf("line %d: children of %q must be a list", val.Line, key.Value))
		}

		if err := h.Add(key.Value, children...); err != nil {
			return nil, err
		}
	}

	return h, nil
}
