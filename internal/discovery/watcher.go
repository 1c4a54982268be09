package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"pathgrip/internal/config"
	"pathgrip/internal/domain"
	"pathgrip/internal/eventbus"
)

type watchRoot struct {
	root string // as configured, used for display paths
	abs  string
}

// Watcher follows file system changes below the indexed roots and
// publishes FileCreated / FileRemoved events.
type Watcher struct {
	bus      eventbus.EventBus
	settings config.IndexSettings
	fsw      *fsnotify.Watcher
	roots    []watchRoot
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher; nothing is watched until Start
func NewWatcher(bus eventbus.EventBus, settings config.IndexSettings) *Watcher {
	return &Watcher{bus: bus, settings: settings}
}

// Start registers every directory below roots and begins forwarding
// events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context, roots []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.fsw = fsw

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			fsw.Close()
			return fmt.Errorf("watch %s: %w", root, err)
		}
		wr := watchRoot{root: root, abs: abs}
		w.roots = append(w.roots, wr)
		if err := w.addTree(wr, abs); err != nil {
			fsw.Close()
			return err
		}
	}

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Close stops watching
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addTree(wr watchRoot, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != dir {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != wr.abs {
			if w.settings.IsIgnored(d.Name()) {
				return fs.SkipDir
			}
			rel, _ := filepath.Rel(wr.abs, p)
			if w.settings.MaxDepth > 0 && depth(rel) >= w.settings.MaxDepth {
				return fs.SkipDir
			}
		}
		if err := w.fsw.Add(p); err != nil {
			log.Debug("watcher: cannot watch", "path", p, "err", err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("watcher: error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	wr, rel, ok := w.locate(ev.Name)
	if !ok {
		return
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.settings.IsIgnored(part) {
			return
		}
	}

	switch {
	case ev.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if !info.IsDir() {
			w.bus.Publish(domain.FileCreatedEvent{File: NewEntry(wr.root, rel, false)})
			return
		}
		w.bus.Publish(domain.FileCreatedEvent{File: NewEntry(wr.root, rel, true)})
		if err := w.addTree(wr, ev.Name); err != nil {
			log.Warn("watcher: cannot follow new directory", "path", ev.Name, "err", err)
		}
		w.publishTree(wr, ev.Name)

	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.bus.Publish(domain.FileRemovedEvent{Root: wr.root, Path: DisplayPath(wr.root, rel)})
	}
}

// publishTree announces the contents of a directory that appeared after
// the initial scan.
func (w *Watcher) publishTree(wr watchRoot, dir string) {
	var batch []domain.FileEntry
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == dir {
			return nil
		}
		if w.settings.IsIgnored(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(wr.abs, p)
		if relErr != nil {
			return nil
		}
		batch = append(batch, NewEntry(wr.root, rel, d.IsDir()))
		return nil
	})
	if len(batch) > 0 {
		w.bus.Publish(domain.FilesDiscoveredBatchEvent{Files: batch})
	}
}

func (w *Watcher) locate(name string) (watchRoot, string, bool) {
	for _, wr := range w.roots {
		rel, err := filepath.Rel(wr.abs, name)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return wr, rel, true
	}
	return watchRoot{}, "", false
}
