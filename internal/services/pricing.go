package service

import (
	"context"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the discount price when it undercuts the list price.
func EffectivePrice(p *models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(p.Price)

	if p.DiscountPrice != nil {
		discounted := decimal.NewFromFloat(*p.DiscountPrice)
		if discounted.LessThan(price) {
			return discounted
		}
	}

	return price
}

// round2 rounds half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MinorUnits converts a major-unit amount to the gateway's integer minor unit.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// Quote prices lines against products. Lines whose product is missing from
// products are reported in Skipped and left out of every total.
func Quote(lines []models.CartLine, products map[uuid.UUID]*models.Product, discountPercent float64) *models.Quote {
	quote := &models.Quote{
		Items:           make([]models.QuoteItem, 0, len(lines)),
		DiscountPercent: discountPercent,
	}

	subtotal := decimal.Zero
	skipped := map[uuid.UUID]bool{}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			if !skipped[line.ProductID] {
				skipped[line.ProductID] = true
				quote.Skipped = append(quote.Skipped, line.ProductID)
			}

			continue
		}

		unit := EffectivePrice(product)
		lineTotal := round2(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
		subtotal = subtotal.Add(lineTotal)

		quote.Items = append(quote.Items, models.QuoteItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: unit.InexactFloat64(),
			LineTotal: lineTotal.InexactFloat64(),
		})
	}

	subtotal = round2(subtotal)
	discount := round2(subtotal.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred))

	quote.Subtotal = subtotal.InexactFloat64()
	quote.Discount = discount.InexactFloat64()
	quote.Total = round2(subtotal.Sub(discount)).InexactFloat64()

	return quote
}

type PricingService interface {
	QuoteLines(ctx context.Context, lines []models.CartLine, discountPercent float64) (*models.Quote, error)
}

type pricingService struct {
	catalog CatalogService
}

func NewPricingService(catalog CatalogService) PricingService {
	return &pricingService{catalog: catalog}
}

func (s *pricingService) QuoteLines(ctx context.Context, lines []models.CartLine, discountPercent float64) (*models.Quote, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, _, err := s.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	return Quote(lines, products, discountPercent), nil
}
