package models_test

import (
	"testing"

	"kasir/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(price string, qty int) models.CartItem {
	return models.CartItem{Product: models.Product{Price: decimal.RequireFromString(price)}, Quantity: qty}
}

func TestTotals(t *testing.T) {
	subtotal, tax, total := models.Totals([]models.CartItem{item("1500", 1)})
	assert.Equal(t, "1500", subtotal.String())
	assert.Equal(t, "150", tax.String())
	assert.Equal(t, "1650", total.String())

	subtotal, tax, total = models.Totals(nil)
	assert.True(t, subtotal.IsZero())
	assert.True(t, tax.IsZero())
	assert.True(t, total.IsZero())
}

func TestTaxIsRoundedToCents(t *testing.T) {
	// 0.10 * 1.99 * 3 = 0.597
	_, tax, total := models.Totals([]models.CartItem{item("1.99", 3)})
	assert.Equal(t, "0.6", tax.String())
	assert.Equal(t, "6.57", total.String())

	// decimal money never drifts the way 0.1 + 0.2 does in floating point
	subtotal := models.Subtotal([]models.CartItem{item("0.1", 1), item("0.2", 1)})
	assert.True(t, subtotal.Equal(decimal.RequireFromString("0.3")))
}

func TestTransactionSnapshot(t *testing.T) {
	product := models.Product{ID: "1", Barcode: "8901234567890", Name: "Wireless Mouse",
		Category: models.CategoryElectronics, Price: decimal.NewFromInt(1500), Stock: 50}
	items := models.SnapshotItems([]models.CartItem{{Product: product, Quantity: 2}})

	product.Name = "Renamed"
	product.Price = decimal.NewFromInt(1)

	assert.Equal(t, "Wireless Mouse", items[0].Name)
	assert.True(t, items[0].LineTotal().Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 2, models.Transaction{Items: items}.ItemCount())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range models.Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, models.CategoryAll.Valid())
	assert.False(t, models.Category("Toys").Valid())
	assert.True(t, models.PaymentCard.Valid())
	assert.False(t, models.PaymentMethod("voucher").Valid())
}
