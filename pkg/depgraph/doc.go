// Package depgraph turns a module dependency mapping into a directed graph
// description ready for Graphviz.
//
// # Overview
//
// The input is a [Mapping] from module identifier to the ordered list of
// identifiers it depends on, plus a list of circular dependency chains. The
// output is a [Graph]: nodes, edges, named subgraphs and the default
// attribute sets computed by [style.Resolve].
//
//	m := depgraph.NewMapping().
//	    Set("app", "db", "auth").
//	    Set("db").
//	    Set("auth", "db")
//	g := depgraph.Build(m, nil, style.Default())
//
// # Invariants
//
// Every identifier that appears as a key or as a dependency target yields
// exactly one [Node]. The first time an identifier is seen its group is
// decided through [style.Config.NodeAttributes]; later lookups reuse the
// same node and subgraph. An edge is placed inside a subgraph only when both
// endpoints belong to that group, otherwise it lives at the top level.
//
// # Highlighting
//
// Nodes are classified with an ordered rule list, first match wins:
//
//  1. [ClassNoDependency]: the module has no recorded dependencies, either
//     because its list is empty or because it never appears as a key.
//  2. [ClassCyclic]: the module is part of a circular chain.
//  3. [ClassDefault]: everything else; inherits the node defaults.
//
// # Cycles
//
// [FindCycles] derives circular chains from a mapping for inputs that do not
// ship their own list. Build never calls it.
//
// [style.Resolve]: github.com/matzehuels/modgraph/pkg/style.Resolve
// [style.Config.NodeAttributes]: github.com/matzehuels/modgraph/pkg/style.Config
package depgraph
