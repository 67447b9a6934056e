package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	models "shop-backend/model"
)

// CreateCart returns the user's cart, creating it on first use.
func (s *Service) CreateCart(ctx context.Context, userID string) (CartView, error) {
	if userID == "" {
		return CartView{}, fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	c, err := s.store.UpsertCart(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	s.log.Debug().Int64("cart_id", c.ID).Str("user_id", userID).Msg("cart ready")
	return s.cartView(ctx, c)
}

// AddItem merges quantity into the cart's line for the product. Stock is
// not reserved.
func (s *Service) AddItem(ctx context.Context, req AddItemRequest) (CartView, error) {
	if err := validateStruct(req); err != nil {
		return CartView{}, err
	}
	if _, err := s.ownedCart(ctx, req.UserID, req.CartID); err != nil {
		return CartView{}, err
	}
	if _, err := s.store.GetProduct(ctx, req.ProductID); err != nil {
		return CartView{}, err
	}
	c, err := s.store.MergeCartItem(ctx, req.CartID, req.ProductID, req.Quantity)
	if err != nil {
		return CartView{}, err
	}
	s.log.Info().Int64("cart_id", c.ID).Int64("product_id", req.ProductID).Int("quantity", c.Quantity(req.ProductID)).Msg("cart item added")
	return s.cartView(ctx, c)
}

func (s *Service) GetCart(ctx context.Context, userID string, cartID int64) (CartView, error) {
	c, err := s.ownedCart(ctx, userID, cartID)
	if err != nil {
		return CartView{}, err
	}
	return s.cartView(ctx, c)
}

func (s *Service) RemoveItem(ctx context.Context, userID string, cartID, productID int64) error {
	if _, err := s.ownedCart(ctx, userID, cartID); err != nil {
		return err
	}
	if err := s.store.RemoveCartItem(ctx, cartID, productID); err != nil {
		return err
	}
	s.log.Info().Int64("cart_id", cartID).Int64("product_id", productID).Msg("cart item removed")
	return nil
}

// ownedCart loads the cart and hides carts that belong to someone else.
func (s *Service) ownedCart(ctx context.Context, userID string, cartID int64) (models.Cart, error) {
	c, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return models.Cart{}, err
	}
	if c.UserID != userID {
		return models.Cart{}, fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	return c, nil
}

// cartView prices each line from the catalog. Lines whose product has been
// deleted meanwhile are skipped.
func (s *Service) cartView(ctx context.Context, c models.Cart) (CartView, error) {
	view := CartView{ID: c.ID, UserID: c.UserID, Items: make([]CartDTO, 0, len(c.Items)), Total: decimal.Zero}
	for _, it := range c.Items {
		p, err := s.store.GetProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return CartView{}, err
		}
		view.Items = append(view.Items, CartDTO{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
		view.Total = view.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return view, nil
}
