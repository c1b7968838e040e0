package render

import (
	"context"
	"time"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/observability"
)

// NewRequest serialises g into a request for format. The layout program is
// taken from the graph's "layout" attribute.
func NewRequest(g *depgraph.Graph, format string) Request {
	return Request{
		DOT:    []byte(ToDOT(g)),
		Format: format,
		Layout: g.Defaults.Graph["layout"],
	}
}

// Render serialises g and invokes eng once, returning its complete output.
func Render(ctx context.Context, eng Engine, g *depgraph.Graph, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, eng.Name(), format)
	start := time.Now()

	out, err := eng.Render(ctx, NewRequest(g, format))

	hooks.OnRenderComplete(ctx, eng.Name(), format, len(out), time.Since(start), err)
	return out, err
}

// Probe checks eng and reports the result through the observability hooks.
func Probe(ctx context.Context, eng Engine) error {
	err := eng.Probe(ctx)
	observability.Render().OnProbe(ctx, eng.Name(), err)
	return err
}
