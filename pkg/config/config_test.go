package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/style"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modgraph.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvGraphvizPath, EnvLayout, EnvRedisURL, EnvAddr, EnvCacheTTL} {
		t.Setenv(k, "")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
rankdir = "TB"
node_color = "#333333"
graphviz_path = "/opt/graphviz/bin"

[graphviz.graph]
splines = "ortho"

[graphviz.node]
penwidth = "2"

[[group]]
name = "cluster_lib"
patterns = ["lib/**", "vendor/*"]
attrs = { fillcolor = "#eeeeee" }

[server]
addr = ":9090"
cache_ttl = "1h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RankDir != "TB" || cfg.NodeColor != "#333333" {
		t.Errorf("file values not applied: rankdir=%q node_color=%q", cfg.RankDir, cfg.NodeColor)
	}
	if cfg.FontName != "Arial" || cfg.Layout != "dot" {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.GraphvizPath != "/opt/graphviz/bin" {
		t.Errorf("GraphvizPath = %q", cfg.GraphvizPath)
	}
	if cfg.GraphvizOptions.Graph["splines"] != "ortho" || cfg.GraphvizOptions.Node["penwidth"] != "2" {
		t.Errorf("GraphvizOptions = %+v", cfg.GraphvizOptions)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.CacheTTL != time.Hour {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.CacheEntries != DefaultCacheEntries {
		t.Errorf("CacheEntries = %d, want default", cfg.Server.CacheEntries)
	}

	s := cfg.Style()
	if s.NodeAttributes == nil {
		t.Fatal("groups should install a NodeAttributesFunc")
	}
	attrs, ok := s.NodeAttributes("vendor/x.js")
	if !ok || attrs.Group != "cluster_lib" || attrs.Attrs["fillcolor"] != "#eeeeee" {
		t.Errorf("NodeAttributes(vendor/x.js) = %+v, %v", attrs, ok)
	}
	if attrs, ok := s.NodeAttributes("lib/util/b.js"); !ok || attrs.Group != "cluster_lib" {
		t.Errorf("NodeAttributes(lib/util/b.js) = %+v, %v; ** should span directories", attrs, ok)
	}
	if _, ok := s.NodeAttributes("app.js"); ok {
		t.Error("unmatched identifier should report no attributes")
	}
}

func TestLoad_DefaultFileMissing(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.RankDir != style.Default().RankDir {
		t.Error("should fall back to defaults")
	}
}

func TestLoad_DefaultFilePresent(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(`layout = "neato"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != "neato" {
		t.Errorf("Layout = %q, want neato from %s", cfg.Layout, DefaultFileName)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", `rankdir = `, errors.ErrCodeInvalidConfig},
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidConfig},
		{"bad rankdir", `rankdir = "diagonal"`, errors.ErrCodeInvalidConfig},
		{"bad layout", `layout = "spring"`, errors.ErrCodeInvalidConfig},
		{"empty highlight", `cyclic_node_color = ""`, errors.ErrCodeInvalidConfig},
		{"unnamed group", "[[group]]\npatterns = [\"a\"]", errors.ErrCodeInvalidConfig},
		{"group without patterns", "[[group]]\nname = \"g\"", errors.ErrCodeInvalidConfig},
		{"bad pattern", "[[group]]\nname = \"g\"\npatterns = [\"[\"]", errors.ErrCodeInvalidConfig},
		{"unclosed brace", "[[group]]\nname = \"g\"\npatterns = [\"src/{a,b\"]", errors.ErrCodeInvalidConfig},
		{"negative entries", "[server]\ncache_entries = -1", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvGraphvizPath: "/usr/local/bin",
		EnvLayout:       "fdp",
		EnvRedisURL:     "redis://cache:6379/1",
		EnvAddr:         "127.0.0.1:7000",
		EnvCacheTTL:     "90m",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.GraphvizPath != "/usr/local/bin" || cfg.Layout != "fdp" {
		t.Errorf("style overrides not applied: %+v", cfg.Config)
	}
	if cfg.Server.RedisURL != env[EnvRedisURL] || cfg.Server.Addr != env[EnvAddr] || cfg.Server.CacheTTL != 90*time.Minute {
		t.Errorf("server overrides not applied: %+v", cfg.Server)
	}

	env[EnvCacheTTL] = "soon"
	if err := Default().ApplyEnv(func(k string) string { return env[k] }); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad duration: error = %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLayout, "circo")
	cfg, err := Load(writeConfig(t, `layout = "neato"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != "circo" {
		t.Errorf("Layout = %q, environment should win", cfg.Layout)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	cfg.GraphvizOptions.Node = style.Attributes{"penwidth": "1"}
	cfg.Groups = []style.GroupRule{{Name: "g", Patterns: []string{"*"}}}

	c := cfg.Clone()
	c.GraphvizOptions.Node["penwidth"] = "5"
	c.Groups[0].Name = "changed"
	c.RankDir = "TB"

	if cfg.GraphvizOptions.Node["penwidth"] != "1" || cfg.Groups[0].Name != "g" || cfg.RankDir != "LR" {
		t.Error("Clone should not share state with the original")
	}
}

func TestLoad_Example(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("..", "..", "examples", DefaultFileName))
	if err != nil {
		t.Fatalf("Load(example) error: %v", err)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[0].Name != "cluster_lib" {
		t.Errorf("Groups = %+v", cfg.Groups)
	}
	if cfg.Server.CacheTTL != 12*time.Hour || cfg.Server.CacheEntries != 512 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.GraphvizOptions.Graph["splines"] != "ortho" {
		t.Errorf("graph overrides = %v", cfg.GraphvizOptions.Graph)
	}
	if cfg.Style().NodeAttributes == nil {
		t.Error("groups should install a node attribute callback")
	}
}
