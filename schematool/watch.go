package schematool

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/ridge/must/v2"
	"github.com/ridge/parallel"
	"github.com/stratadb/strata/tlog"
	"go.uber.org/zap"
)

// Watch generates DDL once, then again every time the schema file changes,
// until the context is closed. A failed generation is logged rather than
// fatal: the next save of the schema file gets a fresh attempt.
func Watch(ctx context.Context, config Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory rather than the file: editors often replace the
	// file on save, and a watch on the old inode goes silent.
	if err := watcher.Add(filepath.Dir(config.SchemaFile)); err != nil {
		must.OK(watcher.Close())
		return err
	}
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("closer", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			must.OK(watcher.Close())
			return ctx.Err()
		})
		spawn("generator", parallel.Fail, func(ctx context.Context) error {
			generate(ctx, config)
			target := filepath.Clean(config.SchemaFile)
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case event, ok := <-watcher.Events:
					if !ok {
						return ctx.Err()
					}
					if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					tlog.Get(ctx).Info("Schema file changed", zap.String("file", config.SchemaFile))
					generate(ctx, config)
				case err, ok := <-watcher.Errors:
					if !ok {
						return ctx.Err()
					}
					return err
				}
			}
		})
		return nil
	})
}

func generate(ctx context.Context, config Config) {
	if err := Run(ctx, config); err != nil {
		tlog.Get(ctx).Error("Generation failed", zap.Error(err))
	}
}
