package service

import (
	"context"
	"fmt"
	"strings"

	models "shop-backend/model"
)

const (
	defaultTopRatedLimit = 10
	maxTopRatedLimit     = 100
)

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return ProductDTO{}, err
	}
	if req.Price.IsNegative() {
		return ProductDTO{}, fmt.Errorf("%w: price must be >= 0", models.ErrInvalidInput)
	}
	p, err := s.store.CreateProduct(ctx, models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		return ProductDTO{}, err
	}
	s.invalidateTopRated(ctx)
	s.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Int("stock", p.Stock).Msg("product created")
	return toProductDTO(p), nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (ProductDTO, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}

// UpdateProduct applies the set fields of req. Stock and ratings are left to
// Purchase, SetStock and Rate.
func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (ProductDTO, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := validateStruct(req); err != nil {
		return ProductDTO{}, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return ProductDTO{}, fmt.Errorf("%w: price must be >= 0", models.ErrInvalidInput)
	}
	p, err := s.mutateProduct(ctx, "update product", id, func(p *models.Product) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		return nil
	})
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateTopRated(ctx)
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	ps, err := s.store.FindProducts(ctx, models.ProductQuery{})
	if err != nil {
		return nil, err
	}
	return toProductDTOs(ps), nil
}

// FindByName matches term as a case-insensitive substring of the name.
func (s *Service) FindByName(ctx context.Context, term string) ([]ProductDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	ps, err := s.store.FindProducts(ctx, models.ProductQuery{NameContains: term})
	if err != nil {
		return nil, err
	}
	return toProductDTOs(ps), nil
}

func (s *Service) FindByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", models.ErrInvalidInput)
	}
	ps, err := s.store.FindProducts(ctx, models.ProductQuery{Category: category})
	if err != nil {
		return nil, err
	}
	return toProductDTOs(ps), nil
}

// TopRated lists rated products by average rating, best first; equal
// averages keep insertion order. Unrated products are not listed.
func (s *Service) TopRated(ctx context.Context, limit int) ([]ProductDTO, error) {
	if limit <= 0 {
		limit = defaultTopRatedLimit
	}
	if limit > maxTopRatedLimit {
		limit = maxTopRatedLimit
	}

	if s.cache != nil {
		ps, ok, err := s.cache.Get(ctx, limit)
		if err != nil {
			s.log.Warn().Err(err).Msg("top-rated cache read failed")
		} else if ok {
			return toProductDTOs(ps), nil
		}
	}

	ps, err := s.store.FindProducts(ctx, models.ProductQuery{RatedOnly: true, ByRating: true, Limit: limit})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, limit, ps); err != nil {
			s.log.Warn().Err(err).Msg("top-rated cache write failed")
		}
	}
	return toProductDTOs(ps), nil
}

// Rate folds one rating into the product's running totals. Ratings are not
// tied to a user, so repeated ratings from one caller all count.
func (s *Service) Rate(ctx context.Context, req RateRequest) (ProductDTO, error) {
	if err := validateStruct(req); err != nil {
		return ProductDTO{}, err
	}
	p, err := s.mutateProduct(ctx, "rate", req.ProductID, func(p *models.Product) error {
		p.RatingTotal += int64(req.Rating)
		p.RatingCount++
		return nil
	})
	if err != nil {
		return ProductDTO{}, err
	}
	s.log.Info().Int64("product_id", p.ID).Int("rating", req.Rating).Int64("rating_count", p.RatingCount).Msg("product rated")
	return toProductDTO(p), nil
}

func (s *Service) invalidateTopRated(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("top-rated cache invalidation failed")
	}
}
