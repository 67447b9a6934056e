package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock and the rating counters only change
// through atomic, version-checked mutations.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	RatingTotal int64           `json:"rating_total"`
	RatingCount int64           `json:"rating_count"`
	Version     int64           `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AverageRating reports ratingTotal/ratingCount. ok is false while the
// product has not been rated.
func (p Product) AverageRating() (avg float64, ok bool) {
	if p.RatingCount == 0 {
		return 0, false
	}
	return float64(p.RatingTotal) / float64(p.RatingCount), true
}

// ProductQuery is the predicate accepted by CatalogStore.FindProducts. Zero
// fields do not filter.
type ProductQuery struct {
	NameContains string
	Category     string
	RatedOnly    bool
	ByRating     bool // average rating desc, then id asc
	Limit        int
}
