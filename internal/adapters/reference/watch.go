package reference

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/creditscore/pkg/logger"
)

const invalidatingOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch invalidates the cache whenever the dataset file changes. The parent
// directory is watched so editors that replace the file are noticed too.
// Watching stops when ctx is done or Close is called.
func (p *Provider) Watch(ctx context.Context) error {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()

	if p.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reference watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(p.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("reference watcher: %w", err)
	}
	p.watcher = w
	go p.watchLoop(ctx, w)
	return nil
}

// Close stops the file watcher, if any.
func (p *Provider) Close() error {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()

	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Close()
	p.watcher = nil
	return err
}

func (p *Provider) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			p.watchMu.Lock()
			if p.watcher == w {
				p.watcher = nil
			}
			p.watchMu.Unlock()
			_ = w.Close()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != p.path || ev.Op&invalidatingOps == 0 {
				continue
			}
			p.logger.Debug(ctx, "reference benchmarks changed", logger.String("op", ev.Op.String()))
			p.Invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			p.logger.Warn(ctx, "reference watcher error", logger.Error(err))
		}
	}
}
