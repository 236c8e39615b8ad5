package member

import (
	"context"
	"errors"
)

// ErrConflict reports a concurrent modification detected by the store.
// Callers must re-fetch and re-submit; the store never retries on its own.
var ErrConflict = errors.New("member was modified concurrently")

// Repository describes member persistence needs from use cases.
//
// Natural order is insertion/identifier order: List and ListPage return
// members ordered by ascending ID so that repeated page walks are
// reproducible regardless of backend.
type Repository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Member, error)
	ListPage(ctx context.Context, offset, limit int) ([]Member, error)
	GetByID(ctx context.Context, id int64) (Member, bool, error)
	// Insert stores the member, assigning an identifier when ID is zero,
	// and returns the stored record.
	Insert(ctx context.Context, item Member) (Member, error)
	// Update replaces the full record keyed by item.ID. The bool result is
	// false when no such member exists.
	Update(ctx context.Context, item Member) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
