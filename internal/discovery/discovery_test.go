package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathgrip/internal/config"
	"pathgrip/internal/domain"
	"pathgrip/internal/eventbus"
	"pathgrip/internal/logic"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}
	return root
}

func collectScan(t *testing.T, roots []string, settings config.IndexSettings) []string {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	n, err := Scan(context.Background(), roots, settings, func(batch []domain.FileEntry) {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range batch {
			p := e.Path
			if e.IsDir {
				p += "/"
			}
			paths = append(paths, p)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, len(paths), n)
	sort.Strings(paths)
	return paths
}

func TestScan_SkipsIgnoredAndHidden(t *testing.T) {
	root := makeTree(t,
		"main.go",
		"src/app.ts",
		"node_modules/pkg/index.js",
		".git/HEAD",
		".env",
	)

	settings := config.DefaultConfig().Index
	settings.BatchSize = 2

	got := collectScan(t, []string{root}, settings)
	want := []string{
		DisplayPath(root, "main.go"),
		DisplayPath(root, "src") + "/",
		DisplayPath(root, "src/app.ts"),
	}
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestScan_MaxDepth(t *testing.T) {
	root := makeTree(t, "a/b/c/deep.txt", "a/top.txt")

	settings := config.DefaultConfig().Index
	settings.MaxDepth = 1

	got := collectScan(t, []string{root}, settings)
	assert.Contains(t, got, DisplayPath(root, "a/b")+"/")
	assert.Contains(t, got, DisplayPath(root, "a/top.txt"))
	assert.NotContains(t, got, DisplayPath(root, "a/b/c")+"/")
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, config.DefaultConfig().Index, func([]domain.FileEntry) {})
	assert.Error(t, err)
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "src/a.go", DisplayPath(".", filepath.Join("src", "a.go")))
	assert.Equal(t, "../lib/x.go", DisplayPath("../lib", "x.go"))
	assert.Equal(t, "lib/x.go", DisplayPath("./lib/", "x.go"))
}

func TestStartScan_FillsBoundStore(t *testing.T) {
	root := makeTree(t, "one.go", "two.go", "pkg/three.go")

	bus := eventbus.New()
	defer bus.Close()

	store := logic.NewMemoryFileStore()
	unbind := BindStore(bus, store)
	defer unbind()

	done := make(chan int, 1)
	bus.Subscribe(eventbus.EventScanCompleted, func(e eventbus.DomainEvent) {
		done <- e.(domain.ScanCompletedEvent).FilesFound
	})

	ds := NewDiscoveryService(bus, config.DefaultConfig().Index)
	require.NoError(t, ds.StartScan(context.Background(), []string{root}))

	select {
	case n := <-done:
		assert.Equal(t, 4, n)
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not complete")
	}

	// the completion event is dispatched after every batch
	assert.Equal(t, 4, store.Len())
	assert.False(t, ds.IsScanning())
}

func TestBindStore_AppliesWatcherEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	store := logic.NewMemoryFileStore()
	defer BindStore(bus, store)()

	bus.Publish(domain.FileCreatedEvent{File: domain.FileEntry{Path: "src/new.go"}})
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(domain.FileRemovedEvent{Path: "src/new.go"})
	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWatcher_PublishesCreateAndRemove(t *testing.T) {
	root := makeTree(t, "keep.txt")

	bus := eventbus.New()
	defer bus.Close()

	created := make(chan domain.FileEntry, 4)
	removed := make(chan string, 4)
	bus.Subscribe(eventbus.EventFileCreated, func(e eventbus.DomainEvent) {
		created <- e.(domain.FileCreatedEvent).File
	})
	bus.Subscribe(eventbus.EventFileRemoved, func(e eventbus.DomainEvent) {
		removed <- e.(domain.FileRemovedEvent).Path
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(bus, config.DefaultConfig().Index)
	require.NoError(t, w.Start(ctx, []string{root}))
	defer w.Close()

	target := filepath.Join(root, "fresh.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	select {
	case e := <-created:
		assert.Equal(t, DisplayPath(root, "fresh.txt"), e.Path)
		assert.False(t, e.IsDir)
	case <-time.After(5 * time.Second):
		t.Fatal("no create event")
	}

	require.NoError(t, os.Remove(target))

	select {
	case p := <-removed:
		assert.Equal(t, DisplayPath(root, "fresh.txt"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no remove event")
	}
}
