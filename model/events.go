package models

import "time"

// StockEvent is emitted after a purchase commits.
type StockEvent struct {
	ProductID      int64     `json:"product_id"`
	Quantity       int       `json:"quantity"`
	RemainingStock int       `json:"remaining_stock"`
	OccurredAt     time.Time `json:"occurred_at"`
}
