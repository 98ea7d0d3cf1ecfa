// Package ledger reads and writes the JSON ledger of issued notes.
package ledger

import "context"

// Store persists a ledger document.
type Store interface {
	// URL returns the ledger location.
	URL() string

	Exists(ctx context.Context) (bool, error)

	// Load returns ErrNotFound when the ledger does not exist.
	Load(ctx context.Context) (*Document, error)

	Save(ctx context.Context, document *Document) error

	// Create writes a new document and fails with ErrExists if one is present.
	Create(ctx context.Context, document *Document) error
}
