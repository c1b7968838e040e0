// Package style maps a modgraph configuration to Graphviz attribute sets.
//
// # Overview
//
// [Resolve] turns a [Config] into three attribute sets: graph-level defaults,
// node-level defaults and edge-level defaults. Built-in defaults derived from
// the configuration are written first, then the engine-specific overrides in
// [Config.GraphvizOptions] are spread over them, so an override always wins
// for the same attribute key.
//
//	sets := style.Resolve(style.Default())
//	sets.Graph["rankdir"] // "LR"
//
// Resolve is a pure function: it never mutates the Config and returns fresh
// maps on every call.
//
// # Per-identifier attributes
//
// A Config may carry a [NodeAttributesFunc] that is asked once per module
// identifier for extra node attributes and an optional group. [GroupRules]
// builds such a callback from glob patterns, which is how the TOML config
// file expresses it.
package style
