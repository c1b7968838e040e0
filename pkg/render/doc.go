// Package render turns a graph description into Graphviz output.
//
// # Overview
//
// Rendering is two steps: [ToDOT] serialises a [depgraph.Graph] into DOT
// text, and an [Engine] runs Graphviz on that text to produce the requested
// format. [Render] does both and reports timing through the observability
// hooks.
//
//	g := depgraph.Build(m, cycles, cfg)
//	svg, err := render.Render(ctx, &render.ExecEngine{Dir: cfg.GraphvizPath}, g, render.FormatSVG)
//
// # Engines
//
// [ExecEngine] runs the Graphviz "dot" executable as a subprocess, writing
// the description to stdin and collecting stdout. It is the default and
// honours a configured Graphviz directory.
//
// [EmbeddedEngine] uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no external installation is needed. It
// supports fewer output formats than a native install.
//
// [CachedEngine] wraps any engine with a [cache.Cache], keyed by the engine
// name, layout, format and a hash of the description.
//
// # Formats
//
// Formats are Graphviz -T names. [FormatSVG] and [FormatDOT] are used by the
// SVG and DOT outputs; image outputs derive the format from the destination
// file extension with [FormatFromPath], falling back to [DefaultImageFormat].
//
// # Errors
//
// Engines report two error codes from pkg/errors:
//   - ENGINE_UNAVAILABLE when the executable cannot be found
//   - ENGINE_EXECUTION when Graphviz rejects the input or exits non-zero
//
// [cache.Cache]: github.com/matzehuels/modgraph/pkg/cache.Cache
// [depgraph.Graph]: github.com/matzehuels/modgraph/pkg/depgraph.Graph
package render
