package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pathgrip/internal/config"
	"pathgrip/internal/domain"
	"pathgrip/internal/eventbus"
)

// ErrScanInProgress is returned by StartScan while another scan runs
var ErrScanInProgress = errors.New("scan already in progress")

// DiscoveryService indexes the files below a set of roots
type DiscoveryService interface {
	StartScan(ctx context.Context, roots []string) error
	StopScan()
	IsScanning() bool
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus        eventbus.EventBus
	settings   config.IndexSettings
	mu         sync.Mutex
	isScanning bool
	lastRoots  []string
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus, settings config.IndexSettings) DiscoveryService {
	ds := &discoveryService{
		bus:      bus,
		settings: settings,
	}

	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		event, ok := e.(domain.ScanRequestedEvent)
		if !ok {
			return
		}
		roots := event.Roots
		if len(roots) == 0 {
			ds.mu.Lock()
			roots = ds.lastRoots
			ds.mu.Unlock()
		}
		if err := ds.StartScan(context.Background(), roots); err != nil {
			log.Warn("discovery: rescan refused", "err", err)
		}
	})

	return ds
}

// StartScan indexes roots in the background, publishing batches of
// entries as they are found.
func (ds *discoveryService) StartScan(ctx context.Context, roots []string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return ErrScanInProgress
	}
	ds.isScanning = true
	ds.lastRoots = append([]string(nil), roots...)

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(domain.ScanStartedEvent{Roots: roots})

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()

		found, err := Scan(scanCtx, roots, ds.settings, func(batch []domain.FileEntry) {
			ds.bus.Publish(domain.FilesDiscoveredBatchEvent{Files: batch})
		})

		ds.mu.Lock()
		ds.isScanning = false
		ds.cancelFunc = nil
		ds.mu.Unlock()
		cancel()

		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("discovery: scan failed", "roots", roots, "err", err)
			ds.bus.Publish(domain.ErrorEvent{
				Message: "Failed to index files",
				Err:     err,
			})
		}
		ds.bus.Publish(domain.ScanCompletedEvent{FilesFound: found})
	}()

	return nil
}

// StopScan stops any ongoing scan
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

func (ds *discoveryService) IsScanning() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.isScanning
}

// Scan walks every root concurrently and hands entries to emit in batches
// of settings.BatchSize. emit may be called from several goroutines. It
// returns the number of entries found.
func Scan(ctx context.Context, roots []string, settings config.IndexSettings, emit func([]domain.FileEntry)) (int, error) {
	var total atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		g.Go(func() error {
			n, err := scanRoot(ctx, root, settings, emit)
			total.Add(int64(n))
			return err
		})
	}
	err := g.Wait()
	return int(total.Load()), err
}

func scanRoot(ctx context.Context, root string, settings config.IndexSettings, emit func([]domain.FileEntry)) (int, error) {
	if err := checkDir(root); err != nil {
		return 0, err
	}

	batchSize := settings.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	batch := make([]domain.FileEntry, 0, batchSize)
	found := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		emit(batch)
		batch = make([]domain.FileEntry, 0, batchSize)
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Debug("discovery: skipping unreadable path", "path", p, "err", err)
			if d != nil && d.IsDir() && p != root {
				return fs.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}

		if settings.IsIgnored(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}

		if d.IsDir() && settings.MaxDepth > 0 && depth(rel) >= settings.MaxDepth {
			batch = append(batch, NewEntry(root, rel, true))
			found++
			return fs.SkipDir
		}

		batch = append(batch, NewEntry(root, rel, d.IsDir()))
		found++
		if len(batch) >= batchSize {
			flush()
		}
		return nil
	})
	flush()

	if err != nil {
		return found, fmt.Errorf("scan %s: %w", root, err)
	}
	return found, nil
}

// NewEntry builds the entry for rel below root. The entry path is what the
// user types: relative to the working directory when root is ".", prefixed
// with root otherwise.
func NewEntry(root, rel string, isDir bool) domain.FileEntry {
	return domain.FileEntry{
		Root:  root,
		Path:  DisplayPath(root, rel),
		IsDir: isDir,
	}
}

// DisplayPath joins root and rel with forward slashes
func DisplayPath(root, rel string) string {
	rel = filepath.ToSlash(rel)
	r := filepath.ToSlash(filepath.Clean(root))
	if r == "." {
		return rel
	}
	return path.Join(r, rel)
}

// depth counts the directories between a root and rel (0 for a direct child)
func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator))
}

func checkDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan %s: not a directory", root)
	}
	return nil
}
