package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
)

// watcher reports changes to record files in a directory tree. Bursts of
// events are coalesced into one callback after the debounce interval.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(ctx context.Context, paths []string)
	logger   *zerolog.Logger
}

func newWatcher(dir string, debounce time.Duration, onChange func(context.Context, []string), logger *zerolog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapResource("create", "watcher", dir, err)
	}

	// fsnotify is not recursive, so every subdirectory is added
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapIO("watch", dir, err)
	}

	return &watcher{fs: fw, debounce: debounce, onChange: onChange, logger: logger}, nil
}

// run dispatches events until ctx is done, then closes the watcher.
func (w *watcher) run(ctx context.Context) {
	defer func() { _ = w.fs.Close() }()

	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				w.addIfDir(ev.Name)
			}
			if !relevant(ev) {
				continue
			}
			if !slices.Contains(pending, ev.Name) {
				pending = append(pending, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			paths := pending
			pending, fire = nil, nil
			w.onChange(ctx, paths)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Record watcher error")
		}
	}
}

func (w *watcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fs.Add(path); err != nil {
		w.logger.Warn().Err(err).Str("dir", path).Msg("Failed to watch new directory")
	}
}

// relevant reports whether ev concerns a record file. Chmod-only events are
// ignored, as are editor swap and hidden files.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), constants.DefaultRecordExtension)
}
