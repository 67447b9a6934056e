package service

import (
	"context"
	"fmt"
	"time"

	models "shop-backend/model"
)

// Purchase takes quantity units out of stock. The availability check and
// the decrement commit together; under contention the mutation is retried
// and re-checked against fresh stock, so stock never goes negative.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResult, error) {
	if err := validateStruct(req); err != nil {
		return PurchaseResult{}, err
	}
	p, err := s.mutateProduct(ctx, "purchase", req.ProductID, func(p *models.Product) error {
		if req.Quantity > p.Stock {
			return fmt.Errorf("%w: requested %d, available %d", models.ErrInsufficientStock, req.Quantity, p.Stock)
		}
		p.Stock -= req.Quantity
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.log.Info().Int64("product_id", p.ID).Int("quantity", req.Quantity).Int("stock", p.Stock).Msg("product purchased")

	if s.events != nil {
		ev := models.StockEvent{ProductID: p.ID, Quantity: req.Quantity, RemainingStock: p.Stock, OccurredAt: time.Now().UTC()}
		// the purchase has committed; a lost event must not fail it
		if err := s.events.PublishStockEvent(ctx, ev); err != nil {
			s.log.Error().Err(err).Int64("product_id", p.ID).Msg("stock event not published")
		}
	}
	return PurchaseResult{ProductID: p.ID, Quantity: req.Quantity, Stock: p.Stock}, nil
}

// SetStock overwrites the stock level (restocking).
func (s *Service) SetStock(ctx context.Context, productID int64, stock int) (ProductDTO, error) {
	if stock < 0 {
		return ProductDTO{}, fmt.Errorf("%w: stock cannot be negative", models.ErrInvalidInput)
	}
	p, err := s.mutateProduct(ctx, "set stock", productID, func(p *models.Product) error {
		p.Stock = stock
		return nil
	})
	if err != nil {
		return ProductDTO{}, err
	}
	s.log.Info().Int64("product_id", p.ID).Int("stock", p.Stock).Msg("stock updated")
	return toProductDTO(p), nil
}
