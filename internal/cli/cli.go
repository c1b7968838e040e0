package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/buildinfo"
	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "modgraph"

	// renderCacheDir is the subdirectory of the cache holding rendered output.
	renderCacheDir = "renders"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Modgraph renders module dependency graphs with Graphviz",
		Long:         `Modgraph turns a mapping of modules to their dependencies into a Graphviz diagram, highlighting circular dependencies and modules without dependencies. Output can be SVG, DOT, any raster format Graphviz supports, or an interactive HTML page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.DefaultFileName+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "layout", cfg.Layout, "rankdir", cfg.RankDir)
	return cfg, nil
}

// newEngine returns the Graphviz engine for cfg wrapped in the render cache.
func (c *CLI) newEngine(cfg *config.Config, embedded, noCache bool) (render.Engine, error) {
	var eng render.Engine = &render.ExecEngine{Dir: cfg.GraphvizPath}
	if embedded {
		eng = &render.EmbeddedEngine{}
	}
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("using engine", "engine", eng.Name(), "cache", !noCache)
	return render.NewCachedEngine(eng, store, cfg.Server.CacheTTL), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, renderCacheDir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/modgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
