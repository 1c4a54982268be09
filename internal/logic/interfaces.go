package logic

import (
	"context"

	"pathgrip/internal/domain"
)

// FileStore provides access to the indexed file tree
type FileStore interface {
	Add(entries ...domain.FileEntry) int
	Remove(path string) int
	Clear()
	Len() int
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
