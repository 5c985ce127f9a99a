package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jatakam/dashatree/internal/chart"
)

// Watch runs an initial pass over dir, then reprocesses each chart file as
// it changes, until the context is cancelled.
func (p *Pipeline) Watch(ctx context.Context, dir string) error {
	if _, err := p.RunDir(ctx, dir); err != nil {
		return err
	}

	w, err := NewWatcher(dir, time.Duration(p.Cfg.WatchDebounceMs)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("pipeline: create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("pipeline: watch %s: %w", dir, err)
	}
	defer w.Stop()
	p.UI.WatchStart(dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == ChangeRemoved {
				p.UI.Info(fmt.Sprintf("removed %s, artifacts kept", filepath.Base(change.File)))
				continue
			}
			c, err := chart.Load(change.File)
			if err != nil {
				p.UI.Error(err.Error())
				continue
			}
			if _, err := p.ProcessChart(ctx, c); err != nil {
				p.UI.ChartFailed(c.Person.Name, err)
			}
		}
	}
}
