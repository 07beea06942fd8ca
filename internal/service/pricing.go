package service

import (
	"github.com/shopspring/decimal"
)

type Pricing struct {
	TaxRate                    decimal.Decimal
	ShippingCents              int64
	FreeShippingThresholdCents int64
}

// Totals is the monetary breakdown stored on an order. Catalog discounts are
// already reflected in each product's price_cents, so DiscountCents only
// carries order-level reductions. No order-level promotion exists yet and it
// is always zero.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	ShippingCents int64
	DiscountCents int64
	TotalCents    int64
}

// Compute derives the order breakdown from a subtotal. Tax is rounded half
// away from zero to whole cents; shipping is waived at the threshold.
func (p Pricing) Compute(subtotalCents int64) Totals {
	t := Totals{SubtotalCents: subtotalCents}
	t.TaxCents = decimal.NewFromInt(subtotalCents).Mul(p.TaxRate).Round(0).IntPart()
	if subtotalCents > 0 && subtotalCents < p.FreeShippingThresholdCents {
		t.ShippingCents = p.ShippingCents
	}
	t.TotalCents = t.SubtotalCents + t.TaxCents + t.ShippingCents - t.DiscountCents
	return t
}
