// Package io reads dependency mappings and writes cycle reports.
//
// # Input Format
//
// Inputs are YAML or JSON documents (JSON is accepted as YAML). Two shapes
// are recognised. A bare mapping from module to its dependencies:
//
//	{
//	  "app.js": ["db.js", "auth.js"],
//	  "db.js": [],
//	  "auth.js": ["db.js"]
//	}
//
// or a wrapper carrying a precomputed cycle list next to the mapping:
//
//	{
//	  "modules": {"a.js": ["b.js"], "b.js": ["a.js"]},
//	  "circular": [["a.js", "b.js"]]
//	}
//
// A document is a wrapper when its "modules" key holds a mapping. Key order
// is preserved, so nodes are created in document order and the rendered
// graph is stable across runs. A null dependency list is read as empty.
//
// # Import
//
// Use [ImportInput] to read from a file path ("-" reads standard input), or
// [ReadInput] to read from any io.Reader:
//
//	in, err := io.ImportInput("deps.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every module identifier is validated; decoding errors carry the
// INVALID_INPUT code and a missing file carries FILE_NOT_FOUND.
//
// # Export
//
// [WriteCycles] writes a cycle list as indented JSON, the same shape as the
// "circular" key above, so its output can be fed back as input.
package io
