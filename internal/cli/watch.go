package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/modgraph/pkg/errors"
)

// watchDebounce is how long to wait for further events before re-rendering.
// Editors often write a file in several steps.
const watchDebounce = 100 * time.Millisecond

var errInvalidWatch = errors.New(errors.ErrCodeInvalidInput, "--watch needs an input file, not stdin")

// watch calls fn each time input changes until ctx is done. It watches the
// parent directory so that editors replacing the file by rename are seen.
// Errors from fn are logged and do not stop the watch.
func (c *CLI) watch(ctx context.Context, input string, fn func(context.Context) error) error {
	path, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", input)
	}
	c.Logger.Info("watching for changes", "path", path)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !relevant(event.Op) {
				continue
			}
			c.Logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if err := fn(ctx); err != nil {
				c.Logger.Error("render failed", "error", errors.UserMessage(err))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
