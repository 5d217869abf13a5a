// File: watch.go
// Title: Locale Directory Watching
// Description: Watches a locales directory with fsnotify and reports changed
//              dictionary files so callers can reload and re-render.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of locale file watching (polling)
// - 2025-10-19 v0.2.0: Replaced polling with fsnotify events

package i18n

import (
	"context"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	"github.com/msto63/leitstand/foundation/utils/stringx"
)

// ChangeHandler receives the path of a dictionary file that was written,
// created, removed or renamed.
type ChangeHandler func(path string)

// ErrorHandler receives watcher errors; watching continues afterwards.
type ErrorHandler func(err error)

// Watch blocks until ctx is done, calling onChange for every dictionary file
// event in dir. Setup failures are returned immediately.
func Watch(ctx context.Context, dir string, onChange ChangeHandler, onError ErrorHandler) error {
	if stringx.IsBlank(dir) {
		return mdwerror.New("invalid locales directory for watching").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.Watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("i18n.Watch")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return mdwerror.Wrap(err, "failed to watch locales directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.Watch").
			WithDetail("directory", dir)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 {
				continue
			}
			if _, ok := FormatFromPath(event.Name); !ok {
				continue
			}
			onChange(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
