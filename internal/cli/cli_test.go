package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/render"
)

// fakeDot stands in for the Graphviz executable: it echoes its arguments
// followed by stdin.
const fakeDot = `#!/bin/sh
if [ "$1" = "-V" ]; then echo "dot - graphviz version 9.0.0" >&2; exit 0; fi
echo "$@"
cat
`

const cyclicInput = `{
  "modules": {
    "app.js": ["db.js", "log.js"],
    "db.js": ["app.js"],
    "log.js": []
  }
}
`

// testEnv isolates a CLI run: a fake Graphviz, a private cache directory and
// an empty config file.
type testEnv struct {
	dir    string
	config string
	logs   bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	env := &testEnv{dir: t.TempDir()}

	bin := filepath.Join(env.dir, "bin")
	if err := os.Mkdir(bin, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, render.Executable), []byte(fakeDot), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvGraphvizPath, bin)
	t.Setenv(config.EnvLayout, "")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(env.dir, "cache"))

	env.config = env.write(t, "modgraph.toml", "")
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(&e.logs, log.DebugLevel)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	for _, name := range []string{"render", "cycles", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := env.run(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion script does not mention %s", appName)
			}
		})
	}
}

func TestCompletionUnknownShell(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestBadConfig(t *testing.T) {
	env := newTestEnv(t)
	env.config = env.write(t, "bad.toml", `rankdir = "diagonal"`)
	input := env.write(t, "deps.json", cyclicInput)

	if _, err := env.run(t, "render", input); err == nil {
		t.Error("expected error for invalid rankdir")
	}
}
