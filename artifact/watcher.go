package artifact

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gradesense/logging"
)

// Watcher reloads the artifact directory when the offline fitting job
// drops new blobs in, so a new model version can go live without a
// process restart. A failed reload keeps the previous bundle active.
type Watcher struct {
	dir      string
	store    *Store
	fs       *fsnotify.Watcher
	done     chan struct{}
	onReload func()
}

// debounce window: exports write the three blobs one after another, and
// we want a single reload once the directory settles.
const reloadDelay = 500 * time.Millisecond

// WatchDir starts watching dir. onReload, when non-nil, runs after every
// successful swap.
func WatchDir(dir string, store *Store, onReload func()) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{dir: dir, store: store, fs: fs, done: make(chan struct{}), onReload: onReload}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.L().Warn("artifact watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Base(event.Name) {
	case EncodersFile, ScalerFile, ModelFile:
		return true
	}
	return false
}

func (w *Watcher) reload() {
	bundle, status, err := Load(w.dir)
	if err != nil {
		logging.L().Error("artifact reload failed, keeping previous bundle",
			zap.String("dir", w.dir), zap.Error(err))
		return
	}
	w.store.Swap(bundle, status)
	_, version := w.store.Current()
	logging.L().Info("artifacts reloaded",
		zap.String("model_version", bundle.ModelVersion),
		zap.Uint64("generation", version))
	if w.onReload != nil {
		w.onReload()
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
