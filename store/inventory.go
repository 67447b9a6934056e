package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	models "shop-backend/model"
)

// MutateProduct is an optimistic read-modify-write: the UPDATE only matches
// when the row still carries the version that was read.
func (s *PostgresStore) MutateProduct(ctx context.Context, id int64, fn func(*models.Product) error) (models.Product, error) {
	cur, err := s.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	next := cur
	if err := fn(&next); err != nil {
		return models.Product{}, err
	}
	if next.Stock < 0 {
		return models.Product{}, fmt.Errorf("%w: product %d", models.ErrInsufficientStock, id)
	}

	err = s.DB.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5,
		    rating_total = $6, rating_count = $7, version = version + 1, updated_at = now()
		WHERE id = $8 AND version = $9
		RETURNING version, updated_at`,
		next.Name, next.Description, next.Category, next.Price, next.Stock,
		next.RatingTotal, next.RatingCount, id, cur.Version,
	).Scan(&next.Version, &next.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Either another writer bumped the version or the row is gone; a
		// retry re-reads and tells the two apart.
		return models.Product{}, fmt.Errorf("%w: product %d changed since version %d", models.ErrConflict, id, cur.Version)
	}
	if err != nil {
		return models.Product{}, classify(err)
	}
	return next, nil
}
