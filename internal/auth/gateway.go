package auth

import (
	"context"
	"errors"
)

var ErrUnauthenticated = errors.New("not logged in")

// Gateway resolves inbound session cookies to users and owns the
// login/register/logout lifecycle on top of the two stores.
type Gateway struct {
	Users    UserStore
	Sessions SessionStore
}

// CurrentUser fails closed: a missing cookie, an unknown token, or a token
// pointing at a vanished user all come back as ErrUnauthenticated.
func (g *Gateway) CurrentUser(ctx context.Context, cookieValue string) (User, error) {
	if cookieValue == "" {
		return User{}, ErrUnauthenticated
	}

	username, ok, err := g.Sessions.Resolve(ctx, cookieValue)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrUnauthenticated
	}

	u, ok, err := g.Users.Get(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrUnauthenticated
	}
	return u, nil
}

func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	if _, err := g.Users.Verify(ctx, username, password); err != nil {
		return "", err
	}
	return g.Sessions.Issue(ctx, username)
}

// Register creates the account and immediately issues a session for it, so a
// fresh signup lands logged in.
func (g *Gateway) Register(ctx context.Context, username, password string) (string, error) {
	if err := g.Users.Create(ctx, username, password, StartingBalance, false); err != nil {
		return "", err
	}
	return g.Sessions.Issue(ctx, username)
}

// Logout revokes the token and always succeeds, even for a token that was
// never valid.
func (g *Gateway) Logout(ctx context.Context, cookieValue string) error {
	if cookieValue == "" {
		return nil
	}
	return g.Sessions.Revoke(ctx, cookieValue)
}
