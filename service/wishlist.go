package service

import (
	"context"
	"errors"
	"fmt"

	models "shop-backend/model"
)

func (s *Service) AddToWishlist(ctx context.Context, userID string, productID int64) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	if productID <= 0 {
		return fmt.Errorf("%w: product id must be > 0", models.ErrInvalidInput)
	}
	if err := s.store.AddWishlistItem(ctx, userID, productID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Int64("product_id", productID).Msg("wishlist item added")
	return nil
}

// Wishlist returns the products on the user's wishlist in the order they
// were added.
func (s *Service) Wishlist(ctx context.Context, userID string) ([]ProductDTO, error) {
	w, err := s.store.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(w.ProductIDs))
	for _, id := range w.ProductIDs {
		p, err := s.store.GetProduct(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, toProductDTO(p))
	}
	return out, nil
}
