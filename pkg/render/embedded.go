package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/modgraph/pkg/errors"
)

// EmbeddedName is the Engine name of EmbeddedEngine.
const EmbeddedName = "embedded"

// EmbeddedEngine renders in-process with the Graphviz build bundled in
// github.com/goccy/go-graphviz. It needs no installed Graphviz.
type EmbeddedEngine struct{}

// Name returns "embedded".
func (e *EmbeddedEngine) Name() string { return EmbeddedName }

// Probe initialises the embedded runtime once.
func (e *EmbeddedEngine) Probe(ctx context.Context) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEngineUnavailable, err, "init embedded graphviz")
	}
	return gv.Close()
}

// Render parses req.DOT and renders it in req.Format.
func (e *EmbeddedEngine) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := ValidateFormat(req.Format); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineUnavailable, err, "init embedded graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(req.DOT)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineExecution, err, "parse DOT")
	}
	defer g.Close()

	if req.Layout != "" {
		g.SetLayout(req.Layout)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format(req.Format), &buf); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(errors.ErrCodeEngineExecution, err, "render %s", req.Format)
	}
	return buf.Bytes(), nil
}

var _ Engine = (*EmbeddedEngine)(nil)
