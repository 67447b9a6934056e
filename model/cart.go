package models

import "time"

// CartLineItem is one (product, quantity) pair. A cart holds at most one
// line per product.
type CartLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Cart struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []CartLineItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

// Quantity returns the quantity held for productID, or 0.
func (c Cart) Quantity(productID int64) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

type Wishlist struct {
	UserID     string  `json:"user_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// Contains reports whether productID is on the wishlist.
func (w Wishlist) Contains(productID int64) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
