package style

import (
	"maps"
	"slices"
)

// Attributes is a set of Graphviz attributes keyed by attribute name.
type Attributes map[string]string

// Clone returns a copy of a. A nil set clones to an empty, non-nil set.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	maps.Copy(out, a)
	return out
}

// Merge writes every entry of over into a, replacing existing keys.
func (a Attributes) Merge(over Attributes) {
	maps.Copy(a, over)
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Sets groups the three default attribute sets of a graph description.
type Sets struct {
	Graph Attributes
	Node  Attributes
	Edge  Attributes
}

// Overrides holds engine-specific attributes that take precedence over the
// defaults computed from a Config.
type Overrides struct {
	Graph Attributes `toml:"graph" json:"graph,omitempty" yaml:"graph,omitempty"`
	Node  Attributes `toml:"node" json:"node,omitempty" yaml:"node,omitempty"`
	Edge  Attributes `toml:"edge" json:"edge,omitempty" yaml:"edge,omitempty"`
}

// NodeAttributes is what a [NodeAttributesFunc] reports for one identifier.
type NodeAttributes struct {
	// Group places the node in the subgraph of that name. Empty means top level.
	Group string
	// Attrs are applied to the node before highlight colours.
	Attrs Attributes
}

// NodeAttributesFunc returns attributes for a module identifier, or false
// when the identifier has none.
type NodeAttributesFunc func(id string) (NodeAttributes, bool)

// Config is the styling and engine configuration of a render.
type Config struct {
	RankDir         string `toml:"rankdir" json:"rankdir,omitempty" yaml:"rankdir,omitempty"`
	Layout          string `toml:"layout" json:"layout,omitempty" yaml:"layout,omitempty"`
	BackgroundColor string `toml:"background_color" json:"background_color,omitempty" yaml:"background_color,omitempty"`
	EdgeColor       string `toml:"edge_color" json:"edge_color,omitempty" yaml:"edge_color,omitempty"`

	FontName  string `toml:"font_name" json:"font_name,omitempty" yaml:"font_name,omitempty"`
	FontSize  string `toml:"font_size" json:"font_size,omitempty" yaml:"font_size,omitempty"`
	NodeColor string `toml:"node_color" json:"node_color,omitempty" yaml:"node_color,omitempty"`
	NodeShape string `toml:"node_shape" json:"node_shape,omitempty" yaml:"node_shape,omitempty"`
	NodeStyle string `toml:"node_style" json:"node_style,omitempty" yaml:"node_style,omitempty"`

	NoDependencyColor string `toml:"no_dependency_color" json:"no_dependency_color,omitempty" yaml:"no_dependency_color,omitempty"`
	CyclicNodeColor   string `toml:"cyclic_node_color" json:"cyclic_node_color,omitempty" yaml:"cyclic_node_color,omitempty"`

	// GraphvizPath is an alternate directory holding the Graphviz executables.
	GraphvizPath    string    `toml:"graphviz_path" json:"-" yaml:"-"`
	GraphvizOptions Overrides `toml:"graphviz" json:"graphviz,omitempty" yaml:"graphviz,omitempty"`

	// NodeAttributes is consulted once per identifier during a build.
	NodeAttributes NodeAttributesFunc `toml:"-" json:"-" yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RankDir:           "LR",
		Layout:            "dot",
		BackgroundColor:   "#111111",
		EdgeColor:         "#757575",
		FontName:          "Arial",
		FontSize:          "14px",
		NodeColor:         "#c6c5fe",
		NodeShape:         "box",
		NodeStyle:         "rounded",
		NoDependencyColor: "#cfffac",
		CyclicNodeColor:   "#ff6c60",
	}
}

// Resolve computes the graph, node and edge attribute sets for cfg.
// Empty configuration values are left out so Graphviz applies its own defaults.
func Resolve(cfg Config) Sets {
	graph := Attributes{
		"overlap": "false",
		"pad":     "0.3",
	}
	setIf(graph, "rankdir", cfg.RankDir)
	setIf(graph, "layout", cfg.Layout)
	setIf(graph, "bgcolor", cfg.BackgroundColor)
	graph.Merge(cfg.GraphvizOptions.Graph)

	edge := Attributes{}
	setIf(edge, "color", cfg.EdgeColor)
	edge.Merge(cfg.GraphvizOptions.Edge)

	node := Attributes{"height": "0"}
	setIf(node, "fontname", cfg.FontName)
	setIf(node, "fontsize", cfg.FontSize)
	setIf(node, "color", cfg.NodeColor)
	setIf(node, "shape", cfg.NodeShape)
	setIf(node, "style", cfg.NodeStyle)
	setIf(node, "fontcolor", cfg.NodeColor)
	node.Merge(cfg.GraphvizOptions.Node)

	return Sets{Graph: graph, Node: node, Edge: edge}
}

// Highlight returns the color/fontcolor pair used to mark a node.
func Highlight(color string) Attributes {
	return Attributes{"color": color, "fontcolor": color}
}

func setIf(a Attributes, key, value string) {
	if value != "" {
		a[key] = value
	}
}
