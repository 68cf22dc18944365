package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageRef    string `json:"image_ref"`
}

// Store is the catalog the rest of the system consumes. Price is only ever
// read through here; nothing exposes a way to change it.
type Store interface {
	Get(ctx context.Context, id int) (Product, bool, error)
	ListSortedByID(ctx context.Context) ([]Product, error)

	// UpdateDescription is the single admin-reachable mutation and is
	// atomic per product id. It fails with ErrNotFound for unknown ids.
	UpdateDescription(ctx context.Context, id int, description string) error

	Ping(ctx context.Context) error
}
