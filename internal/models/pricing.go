package models

import "github.com/google/uuid"

type QuoteItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
}

// Quote is the priced view of a cart. Skipped lists product ids that could not
// be resolved against the catalog and were left out of the subtotal.
type Quote struct {
	Items           []QuoteItem `json:"items"`
	Skipped         []uuid.UUID `json:"skipped,omitempty"`
	Subtotal        float64     `json:"subtotal"`
	DiscountPercent float64     `json:"discount_percent"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
}
