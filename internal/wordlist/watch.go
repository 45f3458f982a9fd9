package wordlist

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a word list file whenever it is written.
type Watcher struct {
	path     string
	lang     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher watches the directory holding path. Editors often replace files
// instead of writing them in place, so watching the file itself is not enough.
func NewWatcher(path, lang string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, lang: lang, debounce: defaultDebounce, watcher: fw}, nil
}

// Run delivers reloaded words to onLoad and failures to onErr until ctx is
// done. Reloads run one at a time on the calling goroutine. It closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onLoad func([]string), onErr func(error)) {
	defer func() {
		_ = w.watcher.Close()
	}()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			words, _, err := Resolve(w.path, w.lang)
			if err != nil {
				onErr(err)
				continue
			}
			onLoad(words)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			onErr(err)
		}
	}
}
