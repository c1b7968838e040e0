package io

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteCycles encodes a cycle list as indented JSON and writes it to w.
// A nil list is written as an empty array.
func WriteCycles(w io.Writer, cycles [][]string) error {
	if cycles == nil {
		cycles = [][]string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cycles); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
