// Package watcher feeds file system changes into the record store. Roots are
// watched with fsnotify; writes are debounced before the upsert handler runs,
// removals fire immediately.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Handler receives file paths once the watcher decides they need ingesting
// or dropping. Either func may be nil.
type Handler struct {
	Upsert func(path string)
	Remove func(path string)
}

// Watcher watches directory roots and routes file changes to a Handler.
type Watcher struct {
	handler    Handler
	extensions []string
	recursive  bool
	debounce   time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	roots   []string
	watched map[string][]string // root -> directories registered with fsnotify
	pending map[string]*time.Timer
	done    chan struct{}
	stop    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger enables debug logging of watch events.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the write-settle window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over roots. extensions filters which files are
// reported (empty means all); recursive descends into subdirectories.
func New(roots, extensions []string, recursive bool, h Handler, opts ...Option) *Watcher {
	w := &Watcher{
		handler:    h,
		extensions: extensions,
		recursive:  recursive,
		debounce:   defaultDebounce,
		roots:      append([]string(nil), roots...),
		watched:    make(map[string][]string),
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers the roots and begins dispatching events. It returns once
// watching is active; the event loop runs until ctx is cancelled or Stop is
// called. Missing root directories are created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.fsw != nil {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	for _, root := range w.roots {
		if err := w.registerRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Debug("watcher started",
			zap.Strings("roots", w.Directories()),
			zap.Strings("extensions", w.extensions),
			zap.Bool("recursive", w.recursive),
		)
	}
	go w.loop(ctx)
	return nil
}

// loop owns its own reference to the fsnotify watcher so Stop can nil the
// struct field without racing the channel reads. Closing the watcher closes
// both channels, which ends the loop.
func (w *Watcher) loop(ctx context.Context) {
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	path := ev.Name
	if !w.underRoot(path) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watch event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.adoptDirectory(path)
			return
		}
		if matchExtension(path, w.extensions) {
			w.schedule(path)
		}
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.cancel(path)
		if matchExtension(path, w.extensions) && w.handler.Remove != nil {
			w.handler.Remove(path)
		}
	}
}

// adoptDirectory starts watching a directory that appeared inside a root,
// then ingests whatever it already contains. Directories copied in arrive as
// a single create event, so the scan is what picks up their files.
func (w *Watcher) adoptDirectory(dir string) {
	w.mu.Lock()
	fsw := w.fsw
	recursive := w.recursive
	w.mu.Unlock()
	if fsw == nil || !recursive {
		return
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := fsw.Add(path); addErr != nil && w.logger != nil {
				w.logger.Debug("watch add failed", zap.String("path", path), zap.Error(addErr))
			}
		}
		return nil
	})
	w.scan(dir)
}

func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	clean := filepath.Clean(path)
	for _, root := range roots {
		if inDir(filepath.Clean(root), clean) {
			return true
		}
	}
	return false
}

// inDir reports whether path is dir itself or lies beneath it.
func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// schedule arms (or re-arms) the debounce timer for path. The upsert handler
// runs once writes settle.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if w.logger != nil {
			w.logger.Debug("ingesting file", zap.String("path", path))
		}
		if w.handler.Upsert != nil {
			w.handler.Upsert(path)
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// AddDirectory adds a root at runtime. With syncExisting, files already in
// the directory are ingested in the background.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return nil
	}
	for _, r := range w.roots {
		if filepath.Clean(r) == filepath.Clean(abs) {
			w.mu.Unlock()
			return nil
		}
	}
	if err := w.registerRootLocked(abs); err != nil {
		w.mu.Unlock()
		return err
	}
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Debug("watch root added", zap.String("path", abs), zap.Bool("sync", syncExisting))
	}
	if syncExisting && w.handler.Upsert != nil {
		go w.scan(abs)
	}
	return nil
}

// registerRootLocked adds root (and its subtree when recursive) to fsnotify,
// creating the directory if it does not exist. Caller holds w.mu.
func (w *Watcher) registerRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	}

	var dirs []string
	if !w.recursive {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		dirs = []string{root}
	} else {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.fsw.Add(path); err != nil {
				return err
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return err
		}
	}
	w.watched[root] = dirs
	return nil
}

// RemoveDirectory stops watching a root. Records already ingested from it
// are left in the store.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	idx := -1
	for i, r := range w.roots {
		if filepath.Clean(r) == abs {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for _, dir := range w.watched[abs] {
		_ = w.fsw.Remove(dir)
	}
	delete(w.watched, abs)
	w.roots = append(w.roots[:idx], w.roots[idx+1:]...)
	if w.logger != nil {
		w.logger.Debug("watch root removed", zap.String("path", abs))
	}
	return nil
}

// Directories returns a copy of the watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// SyncExistingFiles ingests every matching file already present under the
// watched roots. Call after Start to pick up files that predate the watch.
func (w *Watcher) SyncExistingFiles() {
	for _, root := range w.Directories() {
		w.scan(root)
	}
}

func (w *Watcher) scan(root string) {
	if w.handler.Upsert == nil {
		return
	}
	root = filepath.Clean(root)
	if w.logger != nil {
		w.logger.Debug("scanning directory", zap.String("root", root))
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && !w.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if matchExtension(path, w.extensions) {
			w.handler.Upsert(path)
		}
		return nil
	})
}

// Stop closes the watcher and cancels pending ingests. Safe to call more
// than once and alongside context cancellation.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.fsw != nil {
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		_ = w.fsw.Close()
		w.fsw = nil
	}
	w.mu.Unlock()
	w.stop.Do(func() { close(w.done) })
}
