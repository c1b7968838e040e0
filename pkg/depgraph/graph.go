package depgraph

import (
	"github.com/matzehuels/modgraph/pkg/style"
)

// Class is the highlight category assigned to a node.
type Class int

const (
	// ClassDefault nodes inherit the node defaults of the graph.
	ClassDefault Class = iota
	// ClassNoDependency marks modules without recorded dependencies.
	ClassNoDependency
	// ClassCyclic marks modules taking part in a circular dependency.
	ClassCyclic
)

// String returns the class name used in logs and tests.
func (c Class) String() string {
	switch c {
	case ClassNoDependency:
		return "no-dependency"
	case ClassCyclic:
		return "cyclic"
	default:
		return "default"
	}
}

// Node is a module in the graph description.
type Node struct {
	ID    string
	Group string // empty for top-level nodes
	Class Class
	Attrs style.Attributes
}

// Edge is a directed dependency From -> To.
type Edge struct {
	From string
	To   string
}

// Subgraph is a named container for the nodes of one group and the edges
// between them.
type Subgraph struct {
	Name  string
	Nodes []*Node
	Edges []Edge
}

// Graph is a directed graph description built by [Build]. It is populated
// in a single pass and should be treated as read-only afterwards.
type Graph struct {
	Name     string
	Defaults style.Sets

	nodes     []*Node
	edges     []Edge
	subgraphs []*Subgraph

	byID    map[string]*Node
	byGroup map[string]*Subgraph
	total   []*Node
}

func newGraph(name string, defaults style.Sets) *Graph {
	return &Graph{
		Name:     name,
		Defaults: defaults,
		byID:     make(map[string]*Node),
		byGroup:  make(map[string]*Subgraph),
	}
}

// Node returns the node for id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns every node, including subgraph members, in creation order.
func (g *Graph) Nodes() []*Node {
	return g.total
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.total)
}

// TopLevelNodes returns the nodes that belong to no subgraph.
func (g *Graph) TopLevelNodes() []*Node {
	return g.nodes
}

// TopLevelEdges returns the edges placed directly in the graph.
func (g *Graph) TopLevelEdges() []Edge {
	return g.edges
}

// Edges returns all edges: top-level edges first, then each subgraph's
// edges in subgraph creation order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	out = append(out, g.edges...)
	for _, sg := range g.subgraphs {
		out = append(out, sg.Edges...)
	}
	return out
}

// EdgeCount returns the number of edges across the whole graph.
func (g *Graph) EdgeCount() int {
	n := len(g.edges)
	for _, sg := range g.subgraphs {
		n += len(sg.Edges)
	}
	return n
}

// Subgraphs returns the subgraphs in creation order.
func (g *Graph) Subgraphs() []*Subgraph {
	return g.subgraphs
}

// Subgraph returns the subgraph for a group name.
func (g *Graph) Subgraph(name string) (*Subgraph, bool) {
	sg, ok := g.byGroup[name]
	return sg, ok
}

// subgraph returns the subgraph for name, creating it on first use.
func (g *Graph) subgraph(name string) *Subgraph {
	if sg, ok := g.byGroup[name]; ok {
		return sg
	}
	sg := &Subgraph{Name: name}
	g.byGroup[name] = sg
	g.subgraphs = append(g.subgraphs, sg)
	return sg
}

func (g *Graph) addNode(n *Node) {
	g.byID[n.ID] = n
	g.total = append(g.total, n)
	if n.Group == "" {
		g.nodes = append(g.nodes, n)
		return
	}
	sg := g.subgraph(n.Group)
	sg.Nodes = append(sg.Nodes, n)
}

func (g *Graph) addEdge(from, to *Node) {
	e := Edge{From: from.ID, To: to.ID}
	if from.Group != "" && from.Group == to.Group {
		sg := g.byGroup[from.Group]
		sg.Edges = append(sg.Edges, e)
		return
	}
	g.edges = append(g.edges, e)
}
