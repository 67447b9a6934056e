package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	models "shop-backend/model"
)

// UpsertCart creates the user's cart or returns the existing one. The no-op
// DO UPDATE makes RETURNING yield the existing row on conflict.
func (s *PostgresStore) UpsertCart(ctx context.Context, userID string) (models.Cart, error) {
	var c models.Cart
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return models.Cart{}, classify(err)
	}
	if c.Items, err = s.cartItems(ctx, c.ID); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

func (s *PostgresStore) GetCart(ctx context.Context, cartID int64) (models.Cart, error) {
	var c models.Cart
	err := s.DB.QueryRowContext(ctx, `SELECT id, user_id, created_at FROM carts WHERE id = $1`, cartID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cart{}, fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	if err != nil {
		return models.Cart{}, classify(err)
	}
	if c.Items, err = s.cartItems(ctx, cartID); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

func (s *PostgresStore) cartItems(ctx context.Context, cartID int64) ([]models.CartLineItem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY product_id`, cartID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []models.CartLineItem{}
	for rows.Next() {
		var it models.CartLineItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, classify(err)
		}
		out = append(out, it)
	}
	return out, classify(rows.Err())
}

// MergeCartItem upserts the line and adds to its quantity in one statement.
// The (cart_id, product_id) primary key rules out duplicate lines and the
// foreign keys reject unknown carts or products.
func (s *PostgresStore) MergeCartItem(ctx context.Context, cartID, productID int64, qty int) (models.Cart, error) {
	if qty <= 0 {
		return models.Cart{}, fmt.Errorf("%w: quantity must be > 0", models.ErrInvalidInput)
	}
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, productID, qty); err != nil {
		return models.Cart{}, classify(err)
	}
	return s.GetCart(ctx, cartID)
}

func (s *PostgresStore) RemoveCartItem(ctx context.Context, cartID, productID int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return classify(err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("%w: product %d not in cart %d", models.ErrNotFound, productID, cartID)
	}
	return nil
}
