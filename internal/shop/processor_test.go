package shop

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/internal/catalog"
)

func newTestProcessor(t *testing.T) (*Processor, auth.UserStore) {
	t.Helper()

	users := auth.NewMemStore(auth.BcryptHasher{Cost: 4})
	require.NoError(t, auth.SeedUsers(context.Background(), users))

	p := &Processor{
		Users:     users,
		Catalog:   catalog.NewMemStore(),
		Purchases: NewMemLog(),
		Log:       zap.NewNop(),
	}
	return p, users
}

func testUser(t *testing.T, users auth.UserStore, username string) auth.User {
	t.Helper()

	u, ok, err := users.Get(context.Background(), username)
	require.NoError(t, err)
	require.True(t, ok)
	return u
}

func TestProcessor_Purchase(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()

	// test (balance 100) buys two toasters at 23 each.
	rec, err := p.Purchase(ctx, testUser(t, users, "test"), 0, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "test", rec.Username)
	assert.Equal(t, 2, rec.Quantity)
	assert.EqualValues(t, 23, rec.UnitPrice)
	assert.EqualValues(t, 46, rec.Total)

	u := testUser(t, users, "test")
	assert.EqualValues(t, 54, u.Balance)

	recent, err := p.RecentPurchases(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, rec.ID, recent[0].ID)
}

func TestProcessor_Purchase_InsufficientFunds(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()

	// Product 3 is the 800 laptop; test only has 100.
	_, err := p.Purchase(ctx, testUser(t, users, "test"), 3, 1)
	require.ErrorIs(t, err, auth.ErrInsufficientFunds)

	u := testUser(t, users, "test")
	assert.EqualValues(t, 100, u.Balance)

	recent, err := p.RecentPurchases(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestProcessor_Purchase_Validation(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()
	u := testUser(t, users, "test")

	_, err := p.Purchase(ctx, u, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = p.Purchase(ctx, u, 0, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = p.Purchase(ctx, u, 42, 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	// Validation failures never touch the balance.
	assert.EqualValues(t, 100, testUser(t, users, "test").Balance)
}

func TestProcessor_Purchase_RecordedPriceIsCatalogPrice(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()

	rec, err := p.Purchase(ctx, testUser(t, users, "test"), 4, 5)
	require.NoError(t, err)

	prod, ok, err := p.Catalog.Get(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, prod.Price, rec.UnitPrice)
	assert.Equal(t, prod.Price*5, rec.Total)
}

func TestProcessor_Purchase_ConcurrentDoubleSpend(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()
	u := testUser(t, users, "test")

	// Two purchases of the 65 oud against a balance of 100: the combined
	// cost exceeds the balance, so at most one may commit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Purchase(ctx, u, 6, 1)
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, auth.ErrInsufficientFunds)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	got := testUser(t, users, "test")
	assert.EqualValues(t, 35, got.Balance)

	recent, err := p.RecentPurchases(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestProcessor_RecentPurchases_NewestFirstWindow(t *testing.T) {
	t.Parallel()

	p, users := newTestProcessor(t)
	ctx := context.Background()
	admin := testUser(t, users, "admin")

	// Twelve worm-on-a-string purchases at 1 apiece.
	var last Purchase
	for i := 0; i < 12; i++ {
		rec, err := p.Purchase(ctx, admin, 4, 1)
		require.NoError(t, err)
		last = rec
	}

	recent, err := p.RecentPurchases(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, last.ID, recent[0].ID)
}

func TestProcessor_UpdateProductDescription(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	require.NoError(t, p.UpdateProductDescription(ctx, 2, "Still just one sock."))

	prod, ok, err := p.Catalog.Get(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Still just one sock.", prod.Description)

	assert.ErrorIs(t, p.UpdateProductDescription(ctx, 42, "x"), ErrInvalidProduct)
}
