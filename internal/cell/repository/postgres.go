package repository

import (
	"context"
	"database/sql"
	"errors"

	"cell-community/backend/internal/cell/domain"
)

type PostgresRepository struct {
	pool *sql.DB
}

// NewPostgresRepository returns a cell repository that uses the given pool for persistence.
func NewPostgresRepository(pool *sql.DB) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists the cell. The cell must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Cell) error {
	_, err := r.pool.ExecContext(ctx,
		`INSERT INTO cells (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	return err
}

// GetByName returns the cell with the given name, or nil if not found.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Cell, error) {
	var c domain.Cell
	err := r.pool.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM cells WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
