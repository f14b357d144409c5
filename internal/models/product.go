package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var ErrMalformedProduct = errors.New("malformed product")

const ProductStatusActive = "active"

type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Stock         int       `json:"stock"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Featured      bool      `json:"featured"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate rejects catalog rows that cannot be priced or sold.
func (p *Product) Validate() error {
	switch {
	case p.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrMalformedProduct)
	case p.Name == "":
		return fmt.Errorf("%w: missing name", ErrMalformedProduct)
	case p.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrMalformedProduct)
	case p.DiscountPrice != nil && *p.DiscountPrice < 0:
		return fmt.Errorf("%w: negative discount price", ErrMalformedProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: negative stock", ErrMalformedProduct)
	}

	return nil
}

// OffersSize reports whether size is acceptable for the product. Products
// without declared sizes accept only an empty size.
func (p *Product) OffersSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}

	return slices.Contains(p.Sizes, size)
}

func (p *Product) OffersColor(color string) bool {
	if len(p.Colors) == 0 {
		return color == ""
	}

	return slices.Contains(p.Colors, color)
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
