package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/ggsvg"
)

// defaultWatchDebounce groups the bursts of events editors produce when
// saving a file.
const defaultWatchDebounce = 200 * time.Millisecond

// watchFile calls onChange every time path is written, until ctx is done.
// Errors returned by onChange are logged and watching continues.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by a rename are noticed.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if evAbs, _ := filepath.Abs(ev.Name); evAbs != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := onChange(); err != nil {
				ggsvg.Logger().Warn("conversion failed", "input", path, "err", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ggsvg.Logger().Warn("watch error", "err", err)
		}
	}
}
