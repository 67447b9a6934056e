package store

import (
	"context"

	models "shop-backend/model"
)

// CatalogStore owns product records. MutateProduct is the only way stock
// and rating counters change.
type CatalogStore interface {
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	FindProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)

	// MutateProduct reads product id, applies fn to a copy and commits the
	// copy only if no other write landed in between. A lost race returns
	// models.ErrConflict and nothing is written; an error from fn aborts the
	// mutation and is returned unchanged.
	MutateProduct(ctx context.Context, id int64, fn func(*models.Product) error) (models.Product, error)
}

type CartStore interface {
	// UpsertCart returns the user's cart, creating it on first use.
	UpsertCart(ctx context.Context, userID string) (models.Cart, error)
	GetCart(ctx context.Context, cartID int64) (models.Cart, error)
	// MergeCartItem adds qty to the cart's line for productID, creating the
	// line if needed. The add is atomic.
	MergeCartItem(ctx context.Context, cartID, productID int64, qty int) (models.Cart, error)
	RemoveCartItem(ctx context.Context, cartID, productID int64) error
}

type WishlistStore interface {
	// AddWishlistItem returns models.ErrAlreadyExists when productID is
	// already on the user's wishlist and models.ErrNotFound when the user or
	// the product does not exist.
	AddWishlistItem(ctx context.Context, userID string, productID int64) error
	GetWishlist(ctx context.Context, userID string) (models.Wishlist, error)
}

type AccountStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type Store interface {
	CatalogStore
	CartStore
	WishlistStore
	AccountStore

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
