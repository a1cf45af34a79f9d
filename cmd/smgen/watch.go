package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// debounce is how long the watcher waits for more changes before rebuilding.
var debounce = 200 * time.Millisecond

// watcher calls rebuild when one of the watched files changes.
type watcher struct {
	files   map[string]bool // Absolute paths.
	rebuild func() error
	report  func(error)
	rebuilt func() // Called after each rebuild, if not nil.
}

func newWatcher(files []string, rebuild func() error, report func(error)) (*watcher, error) {
	w := &watcher{files: map[string]bool{}, rebuild: rebuild, report: report}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path of %s: %w", file, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// dirs returns the directories to subscribe to. Editors often replace files
// instead of writing them, so the files themselves are not watched.
func (w *watcher) dirs() []string {
	seen := map[string]bool{}
	result := []string{}
	for file := range w.files {
		dir := filepath.Dir(file)
		if !seen[dir] {
			seen[dir] = true
			result = append(result, dir)
		}
	}
	return result
}

func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && w.files[abs]
}

// loop handles events until ctx is done or one of the channels is closed.
func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugf("%s changed.", event.Name)
			timer.Reset(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.rebuild(); err != nil {
				w.report(err)
			}
			if w.rebuilt != nil {
				w.rebuilt()
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.report(fmt.Errorf("watch error: %w", err))

		case <-ctx.Done():
			return nil
		}
	}
}

// watch blocks rebuilding files as they change until the command's context
// is canceled.
func (a *app) watch(cmd *cobra.Command, files []string, rebuild func() error) error {
	w, err := newWatcher(files, rebuild, func(err error) { printError(cmd, err) })
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	for _, dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	printf(cmd, color.FgGreen, "Watching for changes...\n")
	return w.loop(cmd.Context(), fsw.Events, fsw.Errors)
}
