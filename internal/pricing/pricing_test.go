package pricing_test

import (
	"testing"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.CartLine
		rate  float64
		want  models.PriceBreakdown
	}{
		{
			name:  "rounds half up",
			lines: []models.CartLine{{ProductID: uuid.New(), Quantity: 2, UnitPrice: 10.005}},
			rate:  0.15,
			want:  models.PriceBreakdown{ItemsPrice: 20.01, ShippingPrice: 0, TaxPrice: 3.00, TotalPrice: 20.01},
		},
		{
			name:  "single product",
			lines: []models.CartLine{{ProductID: uuid.New(), Quantity: 2, UnitPrice: 50}},
			rate:  0.15,
			want:  models.PriceBreakdown{ItemsPrice: 100, TaxPrice: 15, TotalPrice: 100},
		},
		{
			name: "total excludes tax",
			lines: []models.CartLine{
				{ProductID: uuid.New(), Quantity: 3, UnitPrice: 19.99},
				{ProductID: uuid.New(), Quantity: 1, UnitPrice: 0.1},
			},
			rate: 0.15,
			want: models.PriceBreakdown{ItemsPrice: 60.07, TaxPrice: 9.01, TotalPrice: 60.07},
		},
		{
			name:  "zero rate falls back to default",
			lines: []models.CartLine{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 10}},
			want:  models.PriceBreakdown{ItemsPrice: 10, TaxPrice: 1.5, TotalPrice: 10},
		},
		{
			name: "empty",
			rate: 0.15,
			want: models.PriceBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Calculate(tt.lines, tt.rate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculate_DoesNotMutateInput(t *testing.T) {
	lines := []models.CartLine{{ProductID: uuid.New(), Quantity: 2, UnitPrice: 10.005}}
	before := lines[0]

	pricing.Calculate(lines, 0.15)

	assert.Equal(t, before, lines[0])
}
