// Package provider implements the search backends that answer
// autocomplete queries.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"pathgrip/internal/config"
	"pathgrip/internal/domain"
	"pathgrip/internal/logic"
)

// ErrNoCommand is returned when a command provider has nothing to run
var ErrNoCommand = errors.New("no search command configured")

// Provider answers a path query. Implementations must return promptly
// once ctx is cancelled.
type Provider interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Func adapts a plain function to Provider
type Func func(ctx context.Context, query string) ([]domain.SearchResult, error)

func (f Func) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return f(ctx, query)
}

// IndexProvider searches the in-memory file index
type IndexProvider struct {
	store logic.FileStore
	limit int
}

// NewIndexProvider creates a provider over store returning at most limit
// results (0 for no limit).
func NewIndexProvider(store logic.FileStore, limit int) *IndexProvider {
	return &IndexProvider{store: store, limit: limit}
}

func (p *IndexProvider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	results, err := p.store.Search(ctx, query, p.limit)
	if err != nil {
		return nil, fmt.Errorf("index search %q: %w", query, err)
	}
	return results, nil
}

// Chain tries each provider in order and returns the first success.
// Cancellation is never retried.
type Chain []Provider

func (c Chain) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var errs []error
	for _, p := range c {
		results, err := p.Search(ctx, query)
		if err == nil {
			return results, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("provider: falling back", "query", query, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return nil, errors.Join(errs...)
}

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// WithTimeout bounds every search of next by d. A zero d returns next.
func WithTimeout(next Provider, d time.Duration) Provider {
	if d <= 0 {
		return next
	}
	return &timeoutProvider{next: next, timeout: d}
}

func (p *timeoutProvider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Search(ctx, query)
}

// New builds the provider described by settings. A configured command is
// preferred and falls back to the index when it fails.
func New(settings config.SearchSettings, dir string, store logic.FileStore) (Provider, error) {
	index := NewIndexProvider(store, settings.MaxResults)
	if strings.TrimSpace(settings.Command) == "" {
		return WithTimeout(index, settings.Timeout()), nil
	}

	cmd, err := NewCommandProvider(settings.Command, dir, settings.MaxResults)
	if err != nil {
		return nil, err
	}
	return WithTimeout(Chain{cmd, index}, settings.Timeout()), nil
}
