package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemSessionStore_IssueResolve(t *testing.T) {
	t.Parallel()

	s := NewMemSessionStore()
	ctx := context.Background()

	tok1, err := s.Issue(ctx, "test")
	require.NoError(t, err)
	tok2, err := s.Issue(ctx, "test")
	require.NoError(t, err)

	// Two logins for the same user get independent tokens.
	assert.NotEqual(t, tok1, tok2)
	assert.Len(t, tok1, tokenBytes*2) // hex-encoded
	assert.NotEqual(t, "test", tok1)

	for _, tok := range []string{tok1, tok2} {
		username, ok, err := s.Resolve(ctx, tok)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "test", username)
	}
}

func TestMemSessionStore_RevokeOneKeepsOther(t *testing.T) {
	t.Parallel()

	s := NewMemSessionStore()
	ctx := context.Background()

	tok1, err := s.Issue(ctx, "test")
	require.NoError(t, err)
	tok2, err := s.Issue(ctx, "test")
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, tok1))

	_, ok, err := s.Resolve(ctx, tok1)
	require.NoError(t, err)
	assert.False(t, ok)

	username, ok, err := s.Resolve(ctx, tok2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "test", username)
}

func TestMemSessionStore_RevokeIdempotent(t *testing.T) {
	t.Parallel()

	s := NewMemSessionStore()
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "never-issued"))

	tok, err := s.Issue(ctx, "test")
	require.NoError(t, err)
	require.NoError(t, s.Revoke(ctx, tok))
	require.NoError(t, s.Revoke(ctx, tok))
}

func TestMemSessionStore_ResolveUnknown(t *testing.T) {
	t.Parallel()

	s := NewMemSessionStore()

	_, ok, err := s.Resolve(context.Background(), "bogus")
	require.NoError(t, err)
	assert.False(t, ok)
}
