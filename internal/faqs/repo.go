package faqs

import "context"

// Repo defines persistence operations for FAQ requests.
type Repo interface {
	// Insert writes a new row with current timestamps and returns the
	// server-generated identifier.
	Insert(ctx context.Context, req Request) (int64, error)
	// GetByID performs a single-row lookup, returning ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (Request, error)
	// UpdateResult overwrites the result column and refreshes the update
	// timestamp. An empty result is stored as ResultPlaceholder.
	UpdateResult(ctx context.Context, id int64, result string) error
}
