package cli

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/internal/metrics"
	"github.com/matzehuels/modgraph/internal/server"
	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/output"
	"github.com/matzehuels/modgraph/pkg/render"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr      string
	embedded  bool
	noMetrics bool
}

// serveCommand creates the serve command for the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP render API",
		Long: `Serve the HTTP render API.

Endpoints:
  POST /v1/render/{format}  render {"modules": ..., "circular": ..., "config": ...}
  GET  /healthz             Graphviz availability
  GET  /metrics             Prometheus metrics

Rendered output is cached in memory, or in Redis when redis_url is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&opts.embedded, "embedded", false, "use the built-in Graphviz engine instead of the dot executable")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	store, backend, err := newServeCache(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer store.Close()

	var eng render.Engine = &render.ExecEngine{Dir: cfg.GraphvizPath}
	if opts.embedded {
		eng = &render.EmbeddedEngine{}
	}
	r := output.NewRenderer(render.NewCachedEngine(eng, store, cfg.Server.CacheTTL))
	r.Logger = c.Logger

	var metricsHandler http.Handler
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := metrics.New(reg)
		hooks.Register()
		metricsHandler = hooks.Handler()
	}

	if err := render.Probe(ctx, eng); err != nil {
		c.Logger.Warn("graphviz unavailable, renders will fail", "engine", eng.Name(), "error", err)
	}

	srv := server.New(server.Options{
		Renderer: r,
		Config:   cfg,
		Logger:   c.Logger,
		Metrics:  metricsHandler,
	})

	printInfo(w, "Serving the render API on %s", cfg.Server.Addr)
	printKeyValue(w, "engine", eng.Name())
	printKeyValue(w, "cache", backend)
	if metricsHandler != nil {
		printKeyValue(w, "metrics", "/metrics")
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// newServeCache returns a Redis cache when configured and an in-memory LRU
// otherwise, along with the backend name.
func newServeCache(ctx context.Context, s config.Server) (cache.Cache, string, error) {
	if s.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, s.RedisURL)
		if err != nil {
			return nil, "", err
		}
		return cache.Scoped(rc, s.RedisPrefix), "redis", nil
	}
	mc, err := cache.NewMemoryCache(s.CacheEntries)
	if err != nil {
		return nil, "", err
	}
	return mc, "memory", nil
}
