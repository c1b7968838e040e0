package cli

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/depgraph"
	modio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/observability"
	"github.com/matzehuels/modgraph/pkg/output"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	outputs      []string
	dot          bool
	embedded     bool
	detectCycles bool
	noCache      bool
	watch        bool
	layout       string
	rankDir      string
}

// renderCommand creates the render command for drawing a module graph.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a module dependency graph",
		Long: `Render a module dependency graph with Graphviz.

The input is a YAML or JSON file mapping each module to its dependencies,
either bare or as {modules: ..., circular: [[...]]}. Use "-" to read stdin.

Without --output the SVG (or DOT with --dot) is written to stdout. Each
--output path is rendered in the format named by its extension; .html
paths produce an interactive page.`,
		Example: `  # SVG to stdout
  modgraph render deps.json > graph.svg

  # Several files at once, re-rendered when deps.yaml changes
  modgraph render deps.yaml -o graph.png -o graph.html --watch

  # DOT source with detected cycles highlighted
  modgraph render deps.json --dot --detect-cycles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.outputs, "output", "o", nil, "output file (repeatable, format from extension)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "write DOT source instead of SVG to stdout")
	cmd.Flags().BoolVar(&opts.embedded, "embedded", false, "use the built-in Graphviz engine instead of the dot executable")
	cmd.Flags().BoolVar(&opts.detectCycles, "detect-cycles", false, "find circular dependencies when the input lists none")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input file changes")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "Graphviz layout engine (dot, neato, fdp, ...)")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "graph direction: TB, LR, BT or RL")

	_ = cmd.RegisterFlagCompletionFunc("layout", cobra.FixedCompletions(config.Layouts, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("rankdir", cobra.FixedCompletions(config.RankDirs, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, opts renderOpts) error {
	if opts.watch && input == modio.Stdin {
		return errInvalidWatch
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cfg, opts); err != nil {
		return err
	}

	eng, err := c.newEngine(cfg, opts.embedded, opts.noCache)
	if err != nil {
		return err
	}
	r := output.NewRenderer(eng)
	r.Logger = c.Logger

	render := func(ctx context.Context) error {
		return c.renderInput(ctx, w, r, input, cfg, opts)
	}
	if err := render(ctx); err != nil {
		if !opts.watch {
			return err
		}
		c.Logger.Error("render failed", "error", err)
	}
	if !opts.watch {
		return nil
	}
	return c.watch(ctx, input, render)
}

func applyRenderFlags(cfg *config.Config, opts renderOpts) error {
	if opts.layout != "" {
		cfg.Layout = opts.layout
	}
	if opts.rankDir != "" {
		cfg.RankDir = opts.rankDir
	}
	return cfg.Validate()
}

// renderInput reads input and writes every requested output once.
func (c *CLI) renderInput(ctx context.Context, w io.Writer, r *output.Renderer, input string, cfg *config.Config, opts renderOpts) error {
	in, err := modio.ImportInput(input)
	if err != nil {
		return err
	}

	cycles := in.Circular
	if opts.detectCycles && !in.HasCircular {
		cycles = depgraph.FindCycles(in.Modules)
		c.Logger.Debug("detected cycles", "count", len(cycles))
	}

	stats := &cacheStats{}
	observability.SetCacheHooks(stats)
	defer observability.SetCacheHooks(observability.NoopCacheHooks{})

	prog := newProgress(c.Logger)
	style := cfg.Style()

	if len(opts.outputs) == 0 {
		if opts.dot {
			src, err := r.DOT(ctx, in.Modules, cycles, style)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, src)
			return err
		}
		svg, err := r.SVG(ctx, in.Modules, cycles, style)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}

	written, err := r.WriteAll(ctx, in.Modules, cycles, opts.outputs, style)
	if err != nil {
		return err
	}
	prog.done("Rendered " + input)

	printSuccess(w, "Rendered %d file(s)", len(written))
	for _, path := range written {
		printFile(w, path)
	}
	printStats(w, in.Modules.Len(), in.Modules.EdgeCount(), len(cycles), stats.cached())
	if len(cycles) > 0 && !opts.watch {
		printNextStep(w, "List the cycles", appName+" cycles "+input)
	}
	return nil
}

// cacheStats counts render cache events for the stats line.
type cacheStats struct {
	observability.NoopCacheHooks
	hits, misses atomic.Int64
}

func (s *cacheStats) OnCacheHit(context.Context, string)  { s.hits.Add(1) }
func (s *cacheStats) OnCacheMiss(context.Context, string) { s.misses.Add(1) }

// cached reports whether every render was served from the cache.
func (s *cacheStats) cached() bool {
	return s.hits.Load() > 0 && s.misses.Load() == 0
}
