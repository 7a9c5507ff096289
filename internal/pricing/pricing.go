// Package pricing derives the price breakdown of a set of cart lines.
package pricing

import (
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/shopspring/decimal"
)

const places = 2

// DefaultTaxRate is applied when the configured rate is zero.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// Calculate is pure. Amounts are computed in decimal and rounded half-up to
// two places. Shipping is flat zero. TotalPrice is the raw sum of line
// extensions and does not include tax or shipping.
func Calculate(lines []models.CartLine, taxRate float64) models.PriceBreakdown {
	rate := DefaultTaxRate
	if taxRate > 0 {
		rate = decimal.NewFromFloat(taxRate)
	}

	raw := decimal.Zero
	for _, line := range lines {
		raw = raw.Add(Extension(line.Quantity, line.UnitPrice))
	}

	items := round(raw)
	shipping := decimal.Zero
	tax := round(items.Mul(rate))

	return models.PriceBreakdown{
		ItemsPrice:    items.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		TotalPrice:    raw.InexactFloat64(),
	}
}

// Extension is quantity times unit price, unrounded.
func Extension(quantity int, unitPrice float64) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// round is half-up for the non-negative amounts handled here.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}
