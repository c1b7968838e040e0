package depgraph

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Mapping is an ordered dependency mapping. Keys keep their insertion order,
// which determines the order nodes and edges are emitted in.
type Mapping struct {
	order []string
	deps  map[string][]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{deps: make(map[string][]string)}
}

// Set records the dependencies of id and returns m for chaining. Setting an
// existing key replaces its list but keeps its original position.
func (m *Mapping) Set(id string, deps ...string) *Mapping {
	if m.deps == nil {
		m.deps = make(map[string][]string)
	}
	if _, ok := m.deps[id]; !ok {
		m.order = append(m.order, id)
	}
	m.deps[id] = slices.Clone(deps)
	if m.deps[id] == nil {
		m.deps[id] = []string{}
	}
	return m
}

// Keys returns the module identifiers in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Deps returns the dependencies of id and whether id is a key.
func (m *Mapping) Deps(id string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	d, ok := m.deps[id]
	return d, ok
}

// Has reports whether id is a key of the mapping.
func (m *Mapping) Has(id string) bool {
	_, ok := m.Deps(id)
	return ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// EdgeCount returns the sum of all dependency list lengths.
func (m *Mapping) EdgeCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, d := range m.deps {
		n += len(d)
	}
	return n
}

// UnmarshalYAML decodes a YAML (or JSON) mapping node while keeping the
// document order of its keys. A null value is treated as an empty list.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dependency mapping must be a mapping", node.Line)
	}
	*m = Mapping{deps: make(map[string][]string, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var deps []string
		if val.Tag != "!!null" {
			if err := val.Decode(&deps); err != nil {
				return fmt.Errorf("module %q: %w", key.Value, err)
			}
		}
		m.Set(key.Value, deps...)
	}
	return nil
}
