package storage

import (
	"context"

	"github.com/bunchhieng/sqid/internal/model"
)

// Storage defines the interface for link storage operations. Links are
// addressed by their integer key; turning keys into public IDs is the
// caller's job.
type Storage interface {
	// Add creates a new link, or merges into the link with the same URL.
	// merged reports which of the two happened.
	Add(ctx context.Context, link *model.Link) (stored *model.Link, merged bool, err error)

	// Get retrieves a link by key.
	Get(ctx context.Context, key uint64) (*model.Link, error)

	// List retrieves links with optional filters.
	List(ctx context.Context, opts ListOptions) ([]*model.Link, error)

	// Delete removes a link by key. Keys are never reused.
	Delete(ctx context.Context, key uint64) error

	// MarkRead sets the read_at timestamp for a link.
	MarkRead(ctx context.Context, key uint64) error

	// MarkUnread clears the read_at timestamp for a link.
	MarkUnread(ctx context.Context, key uint64) error

	// Export returns all links for export.
	Export(ctx context.Context) ([]*model.Link, error)

	// Import imports links, merging by URL and keeping keys that were never
	// issued.
	Import(ctx context.Context, links []*model.Link) (ImportResult, error)

	// Search performs a full-text search across links.
	Search(ctx context.Context, query string) ([]*model.Link, error)

	// Meta returns a stored metadata value; ok is false when unset.
	Meta(ctx context.Context, key string) (value string, ok bool, err error)

	// SetMeta stores a metadata value.
	SetMeta(ctx context.Context, key, value string) error

	// Close closes the storage connection.
	Close() error
}

// ListOptions specifies filtering options for List.
type ListOptions struct {
	ReadStatus ReadStatus
	Tag        string
	Limit      int
}

// ReadStatus indicates which links to include.
type ReadStatus int

const (
	ReadStatusUnread ReadStatus = iota
	ReadStatusRead
	ReadStatusAll
)

// ImportResult counts what Import did.
type ImportResult struct {
	Inserted int
	Merged   int
	// Rekeyed counts inserted links whose key was taken and got a new one.
	Rekeyed int
}
