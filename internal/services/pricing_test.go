package service_test

import (
	"math/rand"
	"testing"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		product  *models.Product
		expected float64
	}{
		{"No discount", newProduct("Mug", 450, nil), 450},
		{"Lower discount wins", newProduct("Scarf", 1000, price(800)), 800},
		{"Higher discount ignored", newProduct("Rug", 1000, price(1200)), 1000},
		{"Equal discount", newProduct("Bowl", 300, price(300)), 300},
		{"Zero discount", newProduct("Sample", 300, price(0)), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, service.EffectivePrice(tc.product).InexactFloat64(), 0.0001)
		})
	}
}

func TestQuote(t *testing.T) {
	t.Run("Success - Discounted Product With Coupon", func(t *testing.T) {
		// Arrange
		p1 := newProduct("P1", 1000, price(800))
		lines := []models.CartLine{{ProductID: p1.ID, Quantity: 2}}
		products := map[uuid.UUID]*models.Product{p1.ID: p1}

		// Act
		noCoupon := service.Quote(lines, products, 0)
		withCoupon := service.Quote(lines, products, 15)

		// Assert
		assert.InDelta(t, 1600.00, noCoupon.Subtotal, 0.0001)
		assert.InDelta(t, 0.0, noCoupon.Discount, 0.0001)
		assert.InDelta(t, 1600.00, noCoupon.Total, 0.0001)

		assert.InDelta(t, 1600.00, withCoupon.Subtotal, 0.0001)
		assert.InDelta(t, 240.00, withCoupon.Discount, 0.0001)
		assert.InDelta(t, 1360.00, withCoupon.Total, 0.0001)
		assert.InDelta(t, 15.0, withCoupon.DiscountPercent, 0.0001)

		require.Len(t, withCoupon.Items, 1)
		assert.InDelta(t, 800.0, withCoupon.Items[0].UnitPrice, 0.0001)
		assert.InDelta(t, 1600.0, withCoupon.Items[0].LineTotal, 0.0001)
	})

	t.Run("Success - Unresolvable Products Are Skipped", func(t *testing.T) {
		known := newProduct("Vase", 250, nil)
		ghost := uuid.New()
		lines := []models.CartLine{
			{ProductID: ghost, Quantity: 3},
			{ProductID: known.ID, Quantity: 1},
			{ProductID: ghost, Quantity: 1, Size: "L"},
		}

		quote := service.Quote(lines, map[uuid.UUID]*models.Product{known.ID: known}, 0)

		assert.InDelta(t, 250.0, quote.Subtotal, 0.0001)
		assert.Equal(t, []uuid.UUID{ghost}, quote.Skipped)
		assert.Len(t, quote.Items, 1)
	})

	t.Run("Success - Discount Rounds Half Away From Zero", func(t *testing.T) {
		// 10.05 * 15% = 1.5075
		p := newProduct("Coaster", 10.05, nil)

		quote := service.Quote([]models.CartLine{{ProductID: p.ID, Quantity: 1}}, map[uuid.UUID]*models.Product{p.ID: p}, 15)

		assert.InDelta(t, 1.51, quote.Discount, 0.0001)
		assert.InDelta(t, 8.54, quote.Total, 0.0001)
	})

	t.Run("Success - Empty Cart", func(t *testing.T) {
		quote := service.Quote(nil, nil, 10)

		assert.Zero(t, quote.Subtotal)
		assert.Zero(t, quote.Total)
		assert.Empty(t, quote.Items)
	})

	t.Run("Subtotal never decreases under positive adds", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		catalog := map[uuid.UUID]*models.Product{}
		ids := make([]uuid.UUID, 0, 5)

		for range 5 {
			p := newProduct("Item", float64(rng.Intn(5000)+1)/100, nil)
			catalog[p.ID] = p
			ids = append(ids, p.ID)
		}

		var lines []models.CartLine

		previous := 0.0

		for range 200 {
			lines = append(lines, models.CartLine{ProductID: ids[rng.Intn(len(ids))], Quantity: rng.Intn(3) + 1})

			subtotal := service.Quote(lines, catalog, 0).Subtotal
			require.GreaterOrEqual(t, subtotal, previous)
			previous = subtotal
		}
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(136000), service.MinorUnits(1360))
	assert.Equal(t, int64(1999), service.MinorUnits(19.99))
	assert.Equal(t, int64(1), service.MinorUnits(0.005))
	assert.Equal(t, int64(0), service.MinorUnits(0))
}

func TestPricingService_QuoteLines(t *testing.T) {
	t.Run("Success - Resolves Then Prices", func(t *testing.T) {
		// Arrange
		catalog := mocks.NewMockCatalogService(t)
		p1 := newProduct("P1", 1000, price(800))
		missing := uuid.New()
		lines := []models.CartLine{{ProductID: p1.ID, Quantity: 2}, {ProductID: missing, Quantity: 1}}

		catalog.On("ResolveProducts", t.Context(), []uuid.UUID{p1.ID, missing}).
			Return(map[uuid.UUID]*models.Product{p1.ID: p1}, []uuid.UUID{missing}, nil).Once()

		// Act
		quote, err := service.NewPricingService(catalog).QuoteLines(t.Context(), lines, 15)

		// Assert
		require.NoError(t, err)
		assert.InDelta(t, 1360.0, quote.Total, 0.0001)
		assert.Equal(t, []uuid.UUID{missing}, quote.Skipped)
	})
}
