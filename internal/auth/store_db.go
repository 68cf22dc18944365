package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

type PostgresStore struct {
	db     *sql.DB
	hasher Hasher
}

func NewPostgresStore(db *sql.DB, h Hasher) *PostgresStore {
	return &PostgresStore{db: db, hasher: h}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Create(ctx context.Context, username, password string, balance int64, admin bool) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (username, pass_hash, balance, is_admin)
			VALUES ($1, $2, $3, $4)
		`, username, hash, balance, admin)

		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	})
}

func (s *PostgresStore) Get(ctx context.Context, username string) (User, bool, error) {
	var u User
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT username, pass_hash, balance, is_admin
			FROM users
			WHERE username = $1
		`, username).Scan(&u.Username, &u.Hash, &u.Balance, &u.IsAdmin)
	})
	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) Verify(ctx context.Context, username, password string) (User, error) {
	u, ok, err := s.Get(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrUserNotFound
	}
	if err := s.hasher.Compare(u.Hash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Debit relies on a conditional UPDATE so the balance check and the decrement
// are one statement; the database serializes concurrent debits per row.
func (s *PostgresStore) Debit(ctx context.Context, username string, amount int64) (int64, error) {
	var newBalance int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			UPDATE users
			SET balance = balance - $2
			WHERE username = $1 AND balance >= $2
			RETURNING balance
		`, username, amount).Scan(&newBalance)
	})
	if err == sql.ErrNoRows {
		if _, ok, gerr := s.Get(ctx, username); gerr == nil && !ok {
			return 0, ErrUserNotFound
		}
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
