// Package pkg provides the core libraries for modgraph dependency visualization.
//
// # Overview
//
// Modgraph turns a mapping of modules to the modules they depend on into a
// Graphviz diagram. Modules on a circular dependency chain and modules
// without dependencies are highlighted. The pkg directory is organized into:
//
//  1. [depgraph] - Graph model (mapping, classification, cycle detection)
//  2. [style] - Attribute resolution from configuration
//  3. [render] - DOT serialization and Graphviz engines
//  4. [output] - SVG, DOT, image and interactive page adapters
//
// # Architecture
//
// The typical data flow through modgraph:
//
//	JSON/YAML input
//	         ↓
//	    [io] package (decode mapping + cycle list)
//	         ↓
//	    [depgraph] package (classify + build graph model)
//	         ↓
//	    [render] package (DOT + Graphviz)
//	         ↓
//	    [output] package (SVG/DOT/PNG/HTML)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/modgraph/pkg/depgraph"
//	    "github.com/matzehuels/modgraph/pkg/output"
//	    "github.com/matzehuels/modgraph/pkg/render"
//	    "github.com/matzehuels/modgraph/pkg/style"
//	)
//
//	m := depgraph.NewMapping().Set("app.js", "db.js").Set("db.js", "app.js")
//	r := output.NewRenderer(&render.ExecEngine{})
//	svg, err := r.SVG(context.Background(), m, depgraph.FindCycles(m), style.Default())
//
// # Main Packages
//
// [depgraph] - Ordered module mapping, node classification (regular, cyclic,
// no dependency) and the graph model with optional group subgraphs.
//
// [style] - Configuration to Graphviz attribute sets, plus glob-based group
// rules for per-module attributes.
//
// [render] - Deterministic DOT writer, the Graphviz subprocess engine, the
// embedded go-graphviz engine and a caching decorator.
//
// [output] - Renderer adapters returning bytes or writing files, and the
// interactive HTML page.
//
// [interactive] - Standalone HTML page with pan, zoom and edge highlighting.
//
// ## Infrastructure
//
// [config] - TOML configuration with environment overrides.
//
// [cache] - Render cache backends: file, in-memory LRU, Redis and null.
//
// [observability] - Hooks for render, cache and HTTP events.
//
// [errors] - Structured error codes shared by the CLI and HTTP API.
//
// [io] - Input decoding and cycle list export.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/depgraph
// [style]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/style
// [render]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/render
// [output]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/output
// [interactive]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/interactive
// [config]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/io
package pkg
