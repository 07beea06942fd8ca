package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPricing_Compute(t *testing.T) {
	p := Pricing{
		TaxRate:                    decimal.RequireFromString("0.18"),
		ShippingCents:              4900,
		FreeShippingThresholdCents: 50000,
	}

	tests := []struct {
		name     string
		subtotal int64
		want     Totals
	}{
		{"below threshold", 10000, Totals{SubtotalCents: 10000, TaxCents: 1800, ShippingCents: 4900, TotalCents: 16700}},
		{"at threshold", 50000, Totals{SubtotalCents: 50000, TaxCents: 9000, TotalCents: 59000}},
		{"tax half cent rounds up", 25, Totals{SubtotalCents: 25, TaxCents: 5, ShippingCents: 4900, TotalCents: 4930}},
		{"tax rounds to nearest cent", 1249, Totals{SubtotalCents: 1249, TaxCents: 225, ShippingCents: 4900, TotalCents: 6374}},
		{"empty", 0, Totals{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Compute(tt.subtotal))
		})
	}
}
