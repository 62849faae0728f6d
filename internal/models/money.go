package models

import "github.com/shopspring/decimal"

// TaxRate is the fixed sales tax applied to every cart.
var TaxRate = decimal.RequireFromString("0.10")

// currencyPlaces is the number of decimal places money is rounded to.
const currencyPlaces = 2

// Subtotal sums price times quantity over items.
func Subtotal(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// TaxOn returns the tax due on subtotal, rounded to currency precision.
func TaxOn(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(currencyPlaces)
}

// Totals returns subtotal, tax and total for items.
func Totals(items []CartItem) (subtotal, tax, total decimal.Decimal) {
	subtotal = Subtotal(items)
	tax = TaxOn(subtotal)
	return subtotal, tax, subtotal.Add(tax)
}
