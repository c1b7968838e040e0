package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matzehuels/modgraph/pkg/errors"
)

// Engine runs Graphviz on a DOT description.
type Engine interface {
	// Name identifies the engine in logs, metrics and cache keys. Engines
	// that can differ under the same Name also implement fmt.Stringer.
	Name() string

	// Probe checks that the engine can run. It returns an
	// ENGINE_UNAVAILABLE error when it cannot.
	Probe(ctx context.Context) error

	// Render lays out req.DOT and returns the complete output in req.Format.
	Render(ctx context.Context, req Request) ([]byte, error)
}

// Request is a single Graphviz invocation.
type Request struct {
	DOT    []byte
	Format string
	Layout string // layout program (dot, neato, ...); empty uses the DOT graph attribute
}

// Executable is the Graphviz program run by ExecEngine.
const Executable = "dot"

// ExecEngine renders by running the Graphviz executable as a subprocess.
// The zero value looks up "dot" on PATH.
type ExecEngine struct {
	// Dir is the directory containing the Graphviz executables. Empty means PATH.
	Dir string
}

// Name returns "dot".
func (e *ExecEngine) Name() string { return Executable }

// Probe runs "dot -V" to verify that Graphviz is installed.
func (e *ExecEngine) Probe(ctx context.Context) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, e.executable(), "-V")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return e.wrapErr(ctx, err, out.String())
	}
	return nil
}

// Render pipes req.DOT through "dot -T<format>" and returns its stdout.
func (e *ExecEngine) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := ValidateFormat(req.Format); err != nil {
		return nil, err
	}

	args := []string{"-T" + req.Format}
	if req.Layout != "" {
		args = append(args, "-K"+req.Layout)
	}

	cmd := exec.CommandContext(ctx, e.executable(), args...)
	cmd.Stdin = bytes.NewReader(req.DOT)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, e.wrapErr(ctx, err, errBuf.String())
	}
	return out.Bytes(), nil
}

// String describes the engine for log lines and render cache keys.
func (e *ExecEngine) String() string {
	return fmt.Sprintf("exec(%s)", e.executable())
}

func (e *ExecEngine) executable() string {
	if e.Dir == "" {
		return Executable
	}
	return filepath.Join(e.Dir, Executable)
}

func (e *ExecEngine) wrapErr(ctx context.Context, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if isNotFound(err) {
		return errors.Wrap(errors.ErrCodeEngineUnavailable, err,
			"Graphviz could not be found. Ensure that %q is in your $PATH or set graphviz_path", e.executable())
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = err.Error()
	}
	return errors.Wrap(errors.ErrCodeEngineExecution, err, "graphviz: %s", msg)
}

func isNotFound(err error) bool {
	return stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist)
}

var _ Engine = (*ExecEngine)(nil)
