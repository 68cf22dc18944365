package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Get(ctx context.Context, id int) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, description, price, image_ref
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, price, image_ref
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) UpdateDescription(ctx context.Context, id int, description string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE products
			SET description = $2
			WHERE id = $1
		`, id, description)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
