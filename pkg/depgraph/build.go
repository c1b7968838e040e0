package depgraph

import (
	"github.com/matzehuels/modgraph/pkg/style"
)

// GraphName is the identifier of every built digraph.
const GraphName = "G"

// CyclicSet is the flattened set of identifiers taking part in any cycle.
type CyclicSet map[string]struct{}

// NewCyclicSet flattens a cycle list. Order and duplicates are irrelevant.
func NewCyclicSet(cycles [][]string) CyclicSet {
	set := make(CyclicSet)
	for _, c := range cycles {
		for _, id := range c {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is part of a cycle.
func (s CyclicSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// rule is one entry of the highlight precedence list.
type rule struct {
	class Class
	match func(b *builder, id string) bool
}

// rules is evaluated top to bottom; the first match decides the class.
var rules = []rule{
	{ClassNoDependency, func(b *builder, id string) bool {
		deps, _ := b.mapping.Deps(id)
		return len(deps) == 0
	}},
	{ClassCyclic, func(b *builder, id string) bool {
		return b.cyclic.Contains(id)
	}},
}

// Classify returns the highlight class of id under m and cycles.
// Identifiers that are not keys of m count as having no dependencies.
func Classify(m *Mapping, cyclic CyclicSet, id string) Class {
	b := &builder{mapping: m, cyclic: cyclic}
	return b.classify(id)
}

type builder struct {
	mapping *Mapping
	cyclic  CyclicSet
	cfg     style.Config
	graph   *Graph
}

// Build constructs the graph description for m. The cycle list marks
// cyclic modules, cfg supplies default attributes, highlight colours and
// the optional per-identifier attribute callback.
//
// Build never fails: dependency targets missing from m become leaf nodes.
// The returned Graph is freshly allocated on every call.
func Build(m *Mapping, cycles [][]string, cfg style.Config) *Graph {
	b := &builder{
		mapping: m,
		cyclic:  NewCyclicSet(cycles),
		cfg:     cfg,
		graph:   newGraph(GraphName, style.Resolve(cfg)),
	}

	for _, id := range m.Keys() {
		node := b.node(id)
		b.apply(node, b.classify(id))

		deps, _ := m.Deps(id)
		for _, depID := range deps {
			dep := b.node(depID)
			if !m.Has(depID) {
				b.apply(dep, ClassNoDependency)
			}
			b.graph.addEdge(node, dep)
		}
	}
	return b.graph
}

// node returns the memoised node for id, creating it on first sight. The
// attribute callback runs exactly once per identifier and fixes its group.
func (b *builder) node(id string) *Node {
	if n, ok := b.graph.Node(id); ok {
		return n
	}
	n := &Node{ID: id, Attrs: style.Attributes{}}
	if b.cfg.NodeAttributes != nil {
		if attrs, ok := b.cfg.NodeAttributes(id); ok {
			n.Group = attrs.Group
			n.Attrs.Merge(attrs.Attrs)
		}
	}
	b.graph.addNode(n)
	return n
}

func (b *builder) classify(id string) Class {
	for _, r := range rules {
		if r.match(b, id) {
			return r.class
		}
	}
	return ClassDefault
}

func (b *builder) apply(n *Node, c Class) {
	n.Class = c
	switch c {
	case ClassNoDependency:
		n.Attrs.Merge(highlight(b.cfg.NoDependencyColor))
	case ClassCyclic:
		n.Attrs.Merge(highlight(b.cfg.CyclicNodeColor))
	}
}

func highlight(color string) style.Attributes {
	if color == "" {
		return nil
	}
	return style.Highlight(color)
}
