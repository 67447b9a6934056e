package service

import (
	"time"

	"github.com/shopspring/decimal"

	models "shop-backend/model"
)

// requests

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest changes only the fields that are set.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitnil,min=1"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

type PurchaseRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1"`
}

type RateRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Rating    int   `json:"rating" validate:"gte=1,lte=5"`
}

type AddItemRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	CartID    int64  `json:"cart_id" validate:"gt=0"`
	ProductID int64  `json:"product_id" validate:"gt=0"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type SignupRequest struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	State     string `json:"state"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
}

// results

type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	RatingTotal   int64           `json:"rating_total"`
	RatingCount   int64           `json:"rating_count"`
	AverageRating *float64        `json:"average_rating,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		RatingTotal: p.RatingTotal,
		RatingCount: p.RatingCount,
		CreatedAt:   p.CreatedAt,
	}
	if avg, ok := p.AverageRating(); ok {
		dto.AverageRating = &avg
	}
	return dto
}

func toProductDTOs(ps []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductDTO(p))
	}
	return out
}

type PurchaseResult struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Stock     int   `json:"stock"`
}

// CartDTO is one priced cart line.
type CartDTO struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CartView struct {
	ID     int64           `json:"id"`
	UserID string          `json:"user_id"`
	Items  []CartDTO       `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
