package shop

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresLog struct {
	db *sql.DB
}

func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

func (l *PostgresLog) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return l.db.PingContext(ctx)
	})
}

func (l *PostgresLog) Append(ctx context.Context, p Purchase) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := l.db.ExecContext(ctx, `
			INSERT INTO purchases (id, username, product_id, product_name, quantity, unit_price, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.Username, p.Product.ID, p.Product.Name, p.Quantity, p.UnitPrice, p.Total, p.CreatedAt)
		return err
	})
}

func (l *PostgresLog) Recent(ctx context.Context, n int) ([]Purchase, error) {
	var out []Purchase

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := l.db.QueryContext(ctx, `
			SELECT id, username, product_id, product_name, quantity, unit_price, total, created_at
			FROM purchases
			ORDER BY created_at DESC
			LIMIT $1
		`, n)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Purchase, 0, n)
		for rows.Next() {
			var p Purchase
			if err := rows.Scan(&p.ID, &p.Username, &p.Product.ID, &p.Product.Name,
				&p.Quantity, &p.UnitPrice, &p.Total, &p.CreatedAt); err != nil {
				return err
			}
			p.Product.Price = p.UnitPrice
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
