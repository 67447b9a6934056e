package store

import (
	"context"
	"fmt"

	models "shop-backend/model"
)

func (s *PostgresStore) AddWishlistItem(ctx context.Context, userID string, productID int64) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2) ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	if err != nil {
		return classify(err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("%w: product %d already in wishlist", models.ErrAlreadyExists, productID)
	}
	return nil
}

func (s *PostgresStore) GetWishlist(ctx context.Context, userID string) (models.Wishlist, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY added_at, product_id`, userID)
	if err != nil {
		return models.Wishlist{}, classify(err)
	}
	defer rows.Close()
	w := models.Wishlist{UserID: userID, ProductIDs: []int64{}}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return models.Wishlist{}, classify(err)
		}
		w.ProductIDs = append(w.ProductIDs, id)
	}
	return w, classify(rows.Err())
}
