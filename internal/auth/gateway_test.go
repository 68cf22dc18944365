package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	return &Gateway{
		Users:    newTestStore(t),
		Sessions: NewMemSessionStore(),
	}
}

func TestGateway_LoginAndCurrentUser(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	tok, err := g.Login(ctx, "test", "test")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	u, err := g.CurrentUser(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "test", u.Username)
}

func TestGateway_LoginFailures(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	_, err := g.Login(ctx, "test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = g.Login(ctx, "nobody", "test")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGateway_CurrentUser_FailsClosed(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	_, err := g.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = g.CurrentUser(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// A token resolving to a username with no credential entry is treated
	// as unauthenticated, not as corruption worth crashing over.
	tok, err := g.Sessions.Issue(ctx, "ghost")
	require.NoError(t, err)
	_, err = g.CurrentUser(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGateway_RegisterAutoLogin(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	tok, err := g.Register(ctx, "newbie", "hunter22")
	require.NoError(t, err)

	u, err := g.CurrentUser(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "newbie", u.Username)
	assert.EqualValues(t, StartingBalance, u.Balance)
	assert.False(t, u.IsAdmin)

	_, err = g.Register(ctx, "newbie", "other")
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestGateway_Logout(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	ctx := context.Background()

	tok, err := g.Login(ctx, "test", "test")
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx, tok))

	_, err = g.CurrentUser(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Logging out an invalid or empty token still succeeds.
	require.NoError(t, g.Logout(ctx, tok))
	require.NoError(t, g.Logout(ctx, ""))
}
