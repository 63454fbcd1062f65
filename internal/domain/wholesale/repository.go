package wholesale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
)

// LinkRepository defines the interface for wholesale link persistence
type LinkRepository interface {
	// FindByID finds a link with its curated product ids
	FindByID(ctx context.Context, id uuid.UUID) (*Link, error)

	// FindByToken finds a link by token or custom slug, without usage metering
	FindByToken(ctx context.Context, token string) (*Link, error)

	// FindAll lists links newest first. Supported filter keys: active_only.
	FindAll(ctx context.Context, filter shared.Filter) ([]Link, error)

	// Count counts links matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a link
	Create(ctx context.Context, link *Link) error

	// Save updates a link row
	Save(ctx context.Context, link *Link) error

	// Delete removes a link and its product curation
	Delete(ctx context.Context, id uuid.UUID) error

	// RecordUse increments the use counter of a usable link matched by token or slug.
	// Returns false when no active, unexpired link matched.
	RecordUse(ctx context.Context, token string, now time.Time) (bool, error)

	// ReplaceProducts swaps the curated product set of a link
	ReplaceProducts(ctx context.Context, linkID uuid.UUID, productIDs []uuid.UUID) error
}
