package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/engine"
)

// WatchInput re-runs the pipeline whenever the input file changes, so
// an updated dataset is reclassified without restarting the server.
// Reloads retry briefly to ride out partially written files.
func WatchInput(ctx context.Context, pipeline *engine.Pipeline, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors and exporters typically replace the
	// file, which drops the watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			common.LogInfo("Dataset changed, reloading", common.Fields{"path": path})
			err := common.WithRetry(ctx, func() error {
				_, runErr := pipeline.Run(ctx, path)
				return runErr
			}, common.RetryOptions{
				MaxAttempts:  5,
				InitialDelay: 200 * time.Millisecond,
				MaxDelay:     5 * time.Second,
			})
			if err != nil {
				common.LogError(err, "Failed to reload dataset", common.Fields{"path": path})
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "error", watchErr)
		}
	}
}
