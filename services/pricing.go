package services

import (
	"github.com/shopspring/decimal"

	"github.com/soluxsolar/solux-store/models"
)

// GSTRate is the flat tax rate applied to every order. On invoices it is
// presented as two equal halves, CGST and SGST.
var GSTRate = decimal.NewFromFloat(0.18)

var two = decimal.NewFromInt(2)

// Totals holds the server-computed money amounts of an order.
// Total = Subtotal + GSTAmount always holds exactly.
type Totals struct {
	Subtotal  decimal.Decimal
	GSTAmount decimal.Decimal
	Total     decimal.Decimal
}

// PriceItems computes subtotal, tax and total for a list of line items.
func PriceItems(items []models.OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	gst := subtotal.Mul(GSTRate).Round(2)
	return Totals{
		Subtotal:  subtotal,
		GSTAmount: gst,
		Total:     subtotal.Add(gst),
	}
}

// TaxHalves splits the tax amount into the two labeled halves shown on
// invoices. Any rounding remainder goes to the second half, so the halves
// always sum back to the full amount.
func TaxHalves(gst decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	first := gst.Div(two).RoundFloor(2)
	return first, gst.Sub(first)
}
