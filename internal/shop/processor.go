package shop

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Processor executes purchases and the admin-side catalog operations.
type Processor struct {
	Users     auth.UserStore
	Catalog   catalog.Store
	Purchases PurchaseLog
	Log       *zap.Logger
}

// Purchase debits cost = catalog price x quantity and appends the record. The
// price is re-read from the catalog here; whatever the client claimed a
// product costs never enters this path. A failed debit changes nothing and
// records nothing.
func (p *Processor) Purchase(ctx context.Context, user auth.User, productID, quantity int) (Purchase, error) {
	if quantity < 1 {
		return Purchase{}, ErrInvalidQuantity
	}

	prod, ok, err := p.Catalog.Get(ctx, productID)
	if err != nil {
		return Purchase{}, err
	}
	if !ok {
		return Purchase{}, ErrInvalidProduct
	}

	if prod.Price > 0 && int64(quantity) > math.MaxInt64/prod.Price {
		return Purchase{}, ErrInvalidQuantity
	}
	total := prod.Price * int64(quantity)

	newBalance, err := p.Users.Debit(ctx, user.Username, total)
	if err != nil {
		return Purchase{}, err
	}

	rec := Purchase{
		ID:        "pur_" + uuid.NewString(),
		Username:  user.Username,
		Product:   prod,
		Quantity:  quantity,
		UnitPrice: prod.Price,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.Purchases.Append(ctx, rec); err != nil {
		return Purchase{}, err
	}

	p.Log.Info("purchase",
		zap.String("username", user.Username),
		zap.Int("product_id", prod.ID),
		zap.Int("quantity", quantity),
		zap.Int64("total", total),
		zap.Int64("balance", newBalance),
	)

	return rec, nil
}

func (p *Processor) RecentPurchases(ctx context.Context, n int) ([]Purchase, error) {
	return p.Purchases.Recent(ctx, n)
}

func (p *Processor) UpdateProductDescription(ctx context.Context, productID int, description string) error {
	err := p.Catalog.UpdateDescription(ctx, productID, description)
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrInvalidProduct
	}
	return err
}
