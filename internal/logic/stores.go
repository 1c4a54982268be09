package logic

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"

	"pathgrip/internal/domain"
)

// keySep separates the lower-cased lookup key from the exact path so that
// paths differing only in case keep distinct entries.
const keySep = "\x00"

// how many entries a full scan visits between context checks
const ctxCheckInterval = 512

// MemoryFileStore is an in-memory FileStore backed by two prefix tries:
// one keyed by the relative path, one by the base name.
type MemoryFileStore struct {
	mu    sync.RWMutex
	paths *patricia.Trie
	names *patricia.Trie
	count int
}

// NewMemoryFileStore creates an empty store
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		paths: patricia.NewTrie(),
		names: patricia.NewTrie(),
	}
}

func pathKey(p string) patricia.Prefix {
	return patricia.Prefix(strings.ToLower(p) + keySep + p)
}

func nameKey(r domain.SearchResult) patricia.Prefix {
	return patricia.Prefix(strings.ToLower(r.Name) + keySep + r.Path)
}

// Add inserts entries, returning how many were new.
func (s *MemoryFileStore) Add(entries ...domain.FileEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.Path == "" || e.Path == "." {
			continue
		}
		r := e.Result()
		if s.paths.Insert(pathKey(r.Path), r) {
			s.names.Insert(nameKey(r), r)
			added++
		}
	}
	s.count += added
	return added
}

// Remove deletes path and everything below it, returning how many entries
// were dropped.
func (s *MemoryFileStore) Remove(path string) int {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doomed []domain.SearchResult
	_ = s.paths.VisitSubtree(patricia.Prefix(strings.ToLower(path)), func(_ patricia.Prefix, item patricia.Item) error {
		r := item.(domain.SearchResult)
		if r.Path == path || strings.HasPrefix(r.Path, path+"/") {
			doomed = append(doomed, r)
		}
		return nil
	})

	for _, r := range doomed {
		s.paths.Delete(pathKey(r.Path))
		s.names.Delete(nameKey(r))
	}
	s.count -= len(doomed)
	return len(doomed)
}

// Clear drops every entry
func (s *MemoryFileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = patricia.NewTrie()
	s.names = patricia.NewTrie()
	s.count = 0
}

// Len returns the number of indexed entries
func (s *MemoryFileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Search matches query case-insensitively. Results come in three tiers:
// base name prefix matches, path prefix matches, then substring matches.
// Within a tier shorter paths sort first. At most limit results are
// returned when limit > 0.
func (s *MemoryFileStore) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	q := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(query), "./"))
	if q == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []domain.SearchResult

	full := func() bool { return limit > 0 && len(out) >= limit }

	take := func(tier []domain.SearchResult) {
		sortTier(tier)
		for _, r := range tier {
			if full() {
				return
			}
			if _, dup := seen[r.Path]; dup {
				continue
			}
			seen[r.Path] = struct{}{}
			out = append(out, r)
		}
	}

	if !strings.Contains(q, "/") {
		tier, err := collect(ctx, s.names, patricia.Prefix(q), nil)
		if err != nil {
			return nil, err
		}
		take(tier)
	}

	if !full() {
		tier, err := collect(ctx, s.paths, patricia.Prefix(q), nil)
		if err != nil {
			return nil, err
		}
		take(tier)
	}

	if !full() {
		tier, err := collect(ctx, s.paths, nil, func(key patricia.Prefix) bool {
			lower, _, _ := strings.Cut(string(key), keySep)
			return strings.Contains(lower, q)
		})
		if err != nil {
			return nil, err
		}
		take(tier)
	}

	return out, nil
}

func collect(ctx context.Context, trie *patricia.Trie, prefix patricia.Prefix, keep func(patricia.Prefix) bool) ([]domain.SearchResult, error) {
	var (
		tier    []domain.SearchResult
		visited int
	)
	visit := func(key patricia.Prefix, item patricia.Item) error {
		visited++
		if visited%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if keep == nil || keep(key) {
			tier = append(tier, item.(domain.SearchResult))
		}
		return nil
	}

	var err error
	if prefix == nil {
		err = trie.Visit(visit)
	} else {
		err = trie.VisitSubtree(prefix, visit)
	}
	if err != nil {
		return nil, err
	}
	return tier, ctx.Err()
}

func sortTier(tier []domain.SearchResult) {
	sort.SliceStable(tier, func(i, j int) bool {
		if len(tier[i].Path) != len(tier[j].Path) {
			return len(tier[i].Path) < len(tier[j].Path)
		}
		return tier[i].Path < tier[j].Path
	})
}
