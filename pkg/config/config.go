// Package config loads modgraph settings from a TOML file and the environment.
//
// Settings start from [style.Default], are overlaid by the config file, and
// finally by MODGRAPH_* environment variables. A missing default file is not
// an error; a missing file named explicitly is.
//
// Example modgraph.toml:
//
//	rankdir = "TB"
//	node_color = "#333333"
//
//	[graphviz.node]
//	penwidth = "2"
//
//	[[group]]
//	name = "cluster_lib"
//	patterns = ["lib/**"]
//	attrs = { fillcolor = "#eeeeee" }
//
//	[server]
//	addr = ":9090"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/style"
)

// DefaultFileName is looked up in the working directory when no config
// path is given.
const DefaultFileName = "modgraph.toml"

// Environment variables that override file settings.
const (
	EnvGraphvizPath = "MODGRAPH_GRAPHVIZ_PATH"
	EnvLayout       = "MODGRAPH_LAYOUT"
	EnvRedisURL     = "MODGRAPH_REDIS_URL"
	EnvAddr         = "MODGRAPH_ADDR"
	EnvCacheTTL     = "MODGRAPH_CACHE_TTL"
)

// Server defaults.
const (
	DefaultAddr          = ":8080"
	DefaultRedisPrefix   = "modgraph:"
	DefaultCacheEntries  = 256
	DefaultCacheTTL      = 24 * time.Hour
	DefaultRenderTimeout = 30 * time.Second
	DefaultMaxBodyBytes  = 8 << 20
)

// Accepted values of rankdir and layout.
var (
	RankDirs = []string{"TB", "LR", "BT", "RL"}
	Layouts  = []string{"dot", "neato", "fdp", "sfdp", "twopi", "circo", "osage", "patchwork"}
)

// Config is the complete modgraph configuration.
type Config struct {
	style.Config `yaml:",inline"`

	// Groups become the per-identifier attribute callback.
	Groups []style.GroupRule `toml:"group" yaml:"groups,omitempty"`

	Server Server `toml:"server" yaml:"-"`
}

// Server configures the HTTP render API and its cache.
type Server struct {
	Addr          string        `toml:"addr"`
	RedisURL      string        `toml:"redis_url"`
	RedisPrefix   string        `toml:"redis_prefix"`
	CacheEntries  int           `toml:"cache_entries"`
	CacheTTL      time.Duration `toml:"cache_ttl"`
	RenderTimeout time.Duration `toml:"render_timeout"`
	MaxBodyBytes  int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Config: style.Default(),
		Server: Server{
			Addr:          DefaultAddr,
			RedisPrefix:   DefaultRedisPrefix,
			CacheEntries:  DefaultCacheEntries,
			CacheTTL:      DefaultCacheTTL,
			RenderTimeout: DefaultRenderTimeout,
			MaxBodyBytes:  DefaultMaxBodyBytes,
		},
	}
}

// Load reads the config file at path over the defaults and applies the
// environment. An empty path tries DefaultFileName and falls back to the
// defaults when it does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if err := cfg.decodeFile(path); err != nil {
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvGraphvizPath); v != "" {
		c.GraphvizPath = v
	}
	if v := getenv(EnvLayout); v != "" {
		c.Layout = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Server.RedisURL = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvCacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s=%s", EnvCacheTTL, strconv.Quote(v))
		}
		c.Server.CacheTTL = ttl
	}
	return nil
}

// Validate checks value ranges. Empty styling values are allowed and leave
// the attribute to Graphviz.
func (c *Config) Validate() error {
	if c.RankDir != "" && !slices.Contains(RankDirs, c.RankDir) {
		return errors.New(errors.ErrCodeInvalidConfig, "rankdir must be one of %s, got %q", strings.Join(RankDirs, ", "), c.RankDir)
	}
	if c.Layout != "" && !slices.Contains(Layouts, c.Layout) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown layout %q (expected one of %s)", c.Layout, strings.Join(Layouts, ", "))
	}
	if c.NoDependencyColor == "" || c.CyclicNodeColor == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no_dependency_color and cyclic_node_color cannot be empty")
	}
	for i, g := range c.Groups {
		if g.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "group %d: name is required", i+1)
		}
		if len(g.Patterns) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "group %q: at least one pattern is required", g.Name)
		}
		for _, p := range g.Patterns {
			if !doublestar.ValidatePattern(p) {
				return errors.New(errors.ErrCodeInvalidConfig, "group %q: bad pattern %q", g.Name, p)
			}
		}
	}
	if c.Server.CacheEntries < 0 || c.Server.CacheTTL < 0 || c.Server.RenderTimeout < 0 || c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server limits cannot be negative")
	}
	return nil
}

// Style returns the styling configuration with the group rules installed as
// the per-identifier attribute callback.
func (c *Config) Style() style.Config {
	s := c.Config
	if fn := style.GroupRules(c.Groups); fn != nil {
		s.NodeAttributes = fn
	}
	return s
}

// Clone returns a deep copy, so request-scoped overrides do not leak into
// the shared configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.GraphvizOptions = style.Overrides{
		Graph: c.GraphvizOptions.Graph.Clone(),
		Node:  c.GraphvizOptions.Node.Clone(),
		Edge:  c.GraphvizOptions.Edge.Clone(),
	}
	out.Groups = slices.Clone(c.Groups)
	return &out
}
