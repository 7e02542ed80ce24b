package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"vertex-mask/internal/dataset"
)

// ErrClosed is returned by Run when the file watcher stops on its own.
var ErrClosed = errors.New("watch: watcher closed")

// DefaultSettle is how long a pair must stay quiet before it is handled.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports image/annotation pairs that appear or change in a
// directory. Events for the same pair are coalesced until the pair has been
// quiet for Settle, so a file still being written is not picked up half way.
type Watcher struct {
	Settle time.Duration

	dir       string
	imageExts []string
	fs        *fsnotify.Watcher
	logger    *log.Logger
	pending   map[string]pendingPair
}

type pendingPair struct {
	pair dataset.Pair
	last time.Time
}

// New starts watching dir (non-recursively).
func New(dir string, imageExts []string, logger *log.Logger) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		Settle:    DefaultSettle,
		dir:       dir,
		imageExts: imageExts,
		fs:        fsWatch,
		logger:    logger,
		pending:   make(map[string]pendingPair),
	}, nil
}

// Run calls handle for each settled pair until ctx is done, then closes the
// underlying watcher. handle runs on the Run goroutine, one pair at a time.
// It returns ErrClosed if the watcher shuts down before ctx is done.
func (w *Watcher) Run(ctx context.Context, handle func(dataset.Pair)) error {
	defer w.fs.Close()

	tick := w.Settle / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(e.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Error("watch error", "err", err)

		case now := <-ticker.C:
			for name, p := range w.pending {
				if now.Sub(p.last) < w.Settle {
					continue
				}
				delete(w.pending, name)
				if _, err := os.Stat(p.pair.Annotation); err != nil {
					continue
				}
				if _, err := os.Stat(p.pair.Image); err != nil {
					continue
				}
				handle(p.pair)
			}
		}
	}
}

func (w *Watcher) handleFileEvent(path string) {
	p, ok := dataset.Match(w.dir, filepath.Base(path), w.imageExts)
	if !ok {
		return
	}
	w.logger.Debug("file changed", "path", path, "pair", p.Name)
	w.pending[p.Name] = pendingPair{pair: p, last: time.Now()}
}
