package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/derivekit/derivekit/compiler/gen"
)

// watchDebounce coalesces bursts of file events into one regeneration.
const watchDebounce = 250 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [patterns]",
	Short: "Regenerate whenever an annotated package changes",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dir, err := setup(cmd)
		if err != nil {
			return err
		}
		return runWatch(cmd, cfg, dir, args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, cfg *config, dir string, patterns []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watchTree(watcher, dir); err != nil {
		return err
	}

	generated := cfg.Filename
	if generated == "" {
		generated = gen.DefaultFilename
	}
	regenerate := func() {
		run := uuid.New()
		logger.Info("regenerating", "run", run)
		if err := runGenerate(cmd.Context(), cfg, dir, patterns); err != nil {
			// Watch mode keeps running across bad intermediate states.
			logger.Error("generation failed", "run", run, "err", err)
		}
	}
	regenerate()

	ctx := cmd.Context()
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	dirty := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories join the watch set.
				_ = watchTree(watcher, event.Name)
			}
			if !isSourceFile(event.Name) || filepath.Base(event.Name) == generated {
				continue
			}
			logger.Debug("changed", "file", event.Name)
			dirty = true
			timer.Reset(watchDebounce)
		case <-timer.C:
			if dirty {
				dirty = false
				regenerate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// watchTree adds path and every directory under it to the watcher.
// Non-directories and hidden directories are skipped.
func watchTree(w *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		name := d.Name()
		if p != path && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return fs.SkipDir
		}
		return w.Add(p)
	})
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
