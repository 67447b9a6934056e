package service

import (
	"context"

	models "shop-backend/model"
)

type ServiceInterface interface {
	// catalog
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	FindByName(ctx context.Context, term string) ([]ProductDTO, error)
	FindByCategory(ctx context.Context, category string) ([]ProductDTO, error)
	TopRated(ctx context.Context, limit int) ([]ProductDTO, error)
	Rate(ctx context.Context, req RateRequest) (ProductDTO, error)

	// stock
	Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResult, error)
	SetStock(ctx context.Context, productID int64, stock int) (ProductDTO, error)

	// cart
	CreateCart(ctx context.Context, userID string) (CartView, error)
	AddItem(ctx context.Context, req AddItemRequest) (CartView, error)
	GetCart(ctx context.Context, userID string, cartID int64) (CartView, error)
	RemoveItem(ctx context.Context, userID string, cartID, productID int64) error

	// wishlist
	AddToWishlist(ctx context.Context, userID string, productID int64) error
	Wishlist(ctx context.Context, userID string) ([]ProductDTO, error)

	// accounts
	Signup(ctx context.Context, req SignupRequest) (UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	VerifyToken(ctx context.Context, token string) (string, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

var _ ServiceInterface = (*Service)(nil)
