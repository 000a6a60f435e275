package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/formblock/formstool/internal/components"
	xlog "github.com/formblock/formstool/internal/log"
	"github.com/formblock/formstool/internal/mappings"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run sync whenever the component folders change",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer := mappings.NewSyncer(mappings.PathsFromConfig(a.cfg))
			return runWatch(cmd.Context(), syncer, nil)
		},
	}
}

type watchSyncer interface {
	Paths() mappings.Paths
	Sync(ctx context.Context) (mappings.Result, error)
}

// runWatch syncs once, then again after each burst of changes under the
// component folders, until ctx is done. synced, when set, receives the
// outcome of every run. It returns only after any scheduled sync finished.
func runWatch(ctx context.Context, syncer watchSyncer, synced chan<- error) error {
	logger := xlog.WithComponent("watch")
	layout := syncer.Paths().Layout

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{layout.CustomDir, layout.OOTBDir} {
		if err := addWatchRecursive(watcher, dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.New("no component directory could be watched")
	}

	var mu sync.Mutex
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		res, err := syncer.Sync(ctx)
		var invalid *components.InvalidNamesError
		switch {
		case errors.As(err, &invalid):
			logger.Error().Strs("names", invalid.Names).Msg(invalid.Error())
		case err != nil:
			logger.Error().Err(err).Msg("sync failed")
		case res.MappingChanged:
			logger.Info().Int("custom", len(res.Lists.Custom)).Int("ootb", len(res.Lists.OOTB)).Msg("mappings regenerated")
		}
		if synced != nil {
			select {
			case synced <- err:
			case <-ctx.Done():
			}
		}
	}
	trigger()
	logger.Info().Str("custom", layout.CustomDir).Str("ootb", layout.OOTBDir).Msg("watching component folders")

	var (
		timer    *time.Timer
		inflight sync.WaitGroup
	)
	schedule := func() {
		if timer != nil && timer.Stop() {
			inflight.Done()
		}
		inflight.Add(1)
		timer = time.AfterFunc(watchDebounce, func() {
			defer inflight.Done()
			trigger()
		})
	}
	defer func() {
		if timer != nil && timer.Stop() {
			inflight.Done()
		}
		inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch error")
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
