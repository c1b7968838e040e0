// Package output renders dependency mappings to bytes, strings and files.
//
// A [Renderer] runs the same pipeline for every output kind: probe the
// engine, resolve styles, build the graph description, render it, and
// persist or return the result. No state is shared between calls, so one
// Renderer may serve concurrent requests.
package output

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/interactive"
	"github.com/matzehuels/modgraph/pkg/observability"
	"github.com/matzehuels/modgraph/pkg/render"
	"github.com/matzehuels/modgraph/pkg/style"
)

// PageGenerator turns rendered SVG into an interactive document.
type PageGenerator interface {
	Generate(svg []byte) ([]byte, error)
}

// Renderer binds an engine and page generator to the output operations.
type Renderer struct {
	Engine render.Engine
	Pages  PageGenerator
	Logger *log.Logger
}

// NewRenderer returns a Renderer using eng, the default interactive page
// generator and a discarding logger.
func NewRenderer(eng render.Engine) *Renderer {
	return &Renderer{Engine: eng}
}

// SVG renders the graph as SVG and returns the bytes.
func (r *Renderer) SVG(ctx context.Context, m *depgraph.Mapping, cycles [][]string, cfg style.Config) ([]byte, error) {
	return r.run(ctx, m, cycles, cfg, render.FormatSVG)
}

// DOT renders through the engine's "dot" output, which adds layout
// positions to the description, and returns it as text.
func (r *Renderer) DOT(ctx context.Context, m *depgraph.Mapping, cycles [][]string, cfg style.Config) (string, error) {
	out, err := r.run(ctx, m, cycles, cfg, render.FormatDOT)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(out), "�"), nil
}

// Image renders in the format implied by path's extension, writes the file
// and returns its absolute path.
func (r *Renderer) Image(ctx context.Context, m *depgraph.Mapping, cycles [][]string, path string, cfg style.Config) (string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	format := render.FormatFromPath(path)
	out, err := r.run(ctx, m, cycles, cfg, format)
	if err != nil {
		return "", err
	}
	return r.write(path, out, "format", format)
}

// Interactive renders SVG, wraps it in an interactive page, writes the page
// and returns its absolute path.
func (r *Renderer) Interactive(ctx context.Context, m *depgraph.Mapping, cycles [][]string, path string, cfg style.Config) (string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	r.logger().Debug("generating interactive page", "path", path)
	page, err := r.Page(ctx, m, cycles, cfg)
	if err != nil {
		return "", err
	}
	return r.write(path, page, "format", "html")
}

// Page renders SVG and wraps it in an interactive page without writing it.
func (r *Renderer) Page(ctx context.Context, m *depgraph.Mapping, cycles [][]string, cfg style.Config) ([]byte, error) {
	svg, err := r.run(ctx, m, cycles, cfg, render.FormatSVG)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("got svg", "bytes", len(svg))

	page, err := r.pages(cfg).Generate(svg)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("got html", "bytes", len(page))
	return page, nil
}

// Bytes renders in any Graphviz output format and returns the result.
func (r *Renderer) Bytes(ctx context.Context, m *depgraph.Mapping, cycles [][]string, format string, cfg style.Config) ([]byte, error) {
	return r.run(ctx, m, cycles, cfg, format)
}

// IsInteractivePath reports whether path names an HTML page.
func IsInteractivePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// WriteAll renders every path concurrently, choosing Interactive for HTML
// destinations and Image otherwise. It returns the absolute paths in input
// order, or the first error; other renders are cancelled on failure.
func (r *Renderer) WriteAll(ctx context.Context, m *depgraph.Mapping, cycles [][]string, paths []string, cfg style.Config) ([]string, error) {
	written := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			var (
				abs string
				err error
			)
			if IsInteractivePath(p) {
				abs, err = r.Interactive(gctx, m, cycles, p, cfg)
			} else {
				abs, err = r.Image(gctx, m, cycles, p, cfg)
			}
			written[i] = abs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// Graph probes the engine and builds the graph description without
// rendering it.
func (r *Renderer) Graph(ctx context.Context, m *depgraph.Mapping, cycles [][]string, cfg style.Config) (*depgraph.Graph, error) {
	if err := render.Probe(ctx, r.Engine); err != nil {
		return nil, err
	}
	start := time.Now()
	g := depgraph.Build(m, cycles, cfg)
	observability.Render().OnBuild(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start))
	r.logger().Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "groups", len(g.Subgraphs()))
	return g, nil
}

func (r *Renderer) run(ctx context.Context, m *depgraph.Mapping, cycles [][]string, cfg style.Config, format string) ([]byte, error) {
	g, err := r.Graph(ctx, m, cycles, cfg)
	if err != nil {
		return nil, err
	}
	out, err := render.Render(ctx, r.Engine, g, format)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("rendered", "engine", r.Engine.Name(), "format", format, "bytes", len(out))
	return out, nil
}

func (r *Renderer) write(path string, data []byte, keyvals ...any) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "directory of %s does not exist", abs)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", abs)
	}
	r.logger().Debug("wrote file", append([]any{"path", abs, "bytes", len(data)}, keyvals...)...)
	return abs, nil
}

func (r *Renderer) pages(cfg style.Config) PageGenerator {
	if r.Pages != nil {
		return r.Pages
	}
	return &interactive.Generator{Background: cfg.BackgroundColor}
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return discard
}

var discard = log.New(io.Discard)
