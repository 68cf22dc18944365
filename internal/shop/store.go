package shop

import (
	"context"
	"time"

	"CampusStore/internal/catalog"
)

// Purchase is an immutable record of one committed transaction. UnitPrice and
// Total are the catalog values in effect at commit time, never anything the
// client sent.
type Purchase struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice int64           `json:"unit_price"`
	Total     int64           `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// PurchaseLog is append-only; records are never updated or deleted.
type PurchaseLog interface {
	Append(ctx context.Context, p Purchase) error

	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]Purchase, error)

	Ping(ctx context.Context) error
}
