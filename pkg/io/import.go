package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/errors"
)

// Stdin is the path that makes ImportInput read standard input.
const Stdin = "-"

// Input is a decoded render input.
type Input struct {
	Modules *depgraph.Mapping

	// Circular is the precomputed cycle list. It is nil when the document
	// carries none; HasCircular distinguishes that from an explicit empty list.
	Circular    [][]string
	HasCircular bool
}

type wrapper struct {
	Modules  *depgraph.Mapping `yaml:"modules"`
	Circular *[][]string       `yaml:"circular"`
}

// UnmarshalYAML decodes either a wrapper document or a bare mapping.
func (in *Input) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: input must be a mapping", node.Line)
	}
	if !isWrapper(node) {
		m := depgraph.NewMapping()
		if err := node.Decode(m); err != nil {
			return err
		}
		*in = Input{Modules: m}
		return nil
	}

	var w wrapper
	if err := node.Decode(&w); err != nil {
		return err
	}
	*in = Input{Modules: w.Modules}
	if w.Circular != nil {
		in.Circular = *w.Circular
		in.HasCircular = true
	}
	return nil
}

func isWrapper(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "modules" && node.Content[i+1].Kind == yaml.MappingNode {
			return true
		}
	}
	return false
}

// ReadInput decodes a YAML or JSON input from r.
//
// ReadInput returns an INVALID_INPUT error if the document is empty,
// malformed, has an unexpected shape, or contains an invalid module
// identifier. It does not close r.
func ReadInput(r io.Reader) (*Input, error) {
	var in Input
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "input is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode input")
	}
	if in.Modules == nil {
		in.Modules = depgraph.NewMapping()
	}
	if err := validate(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ImportInput reads the input file at path, or standard input when path
// is "-".
func ImportInput(path string) (*Input, error) {
	if path == Stdin {
		return ReadInput(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := ReadInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func validate(in *Input) error {
	for _, id := range in.Modules.Keys() {
		if err := errors.ValidateModuleID(id); err != nil {
			return err
		}
		deps, _ := in.Modules.Deps(id)
		for _, dep := range deps {
			if err := errors.ValidateModuleID(dep); err != nil {
				return fmt.Errorf("dependency of %q: %w", id, err)
			}
		}
	}
	for i, cycle := range in.Circular {
		for _, id := range cycle {
			if err := errors.ValidateModuleID(id); err != nil {
				return fmt.Errorf("cycle %d: %w", i, err)
			}
		}
	}
	return nil
}
