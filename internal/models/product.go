package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog.
type Category string

const (
	// CategoryAll is a filter value only; no product is stored under it.
	CategoryAll          Category = "All"
	CategoryElectronics  Category = "Electronics"
	CategoryGroceries    Category = "Groceries"
	CategoryBeverages    Category = "Beverages"
	CategorySnacks       Category = "Snacks"
	CategoryHousehold    Category = "Household"
	CategoryPersonalCare Category = "Personal Care"
	CategoryOther        Category = "Other"
)

// Categories lists every category a product can be stored under.
var Categories = []Category{
	CategoryElectronics,
	CategoryGroceries,
	CategoryBeverages,
	CategorySnacks,
	CategoryHousehold,
	CategoryPersonalCare,
	CategoryOther,
}

// Valid reports whether c is a storable category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a sellable item in the catalog.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Barcode   string          `json:"barcode" gorm:"uniqueIndex;type:varchar(64)" validate:"required,max=64"`
	Name      string          `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Category  Category        `json:"category" gorm:"type:varchar(32);index" validate:"required,category"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)" validate:"gte=0"`
	Stock     int             `json:"stock" validate:"gte=0"`
	Image     string          `json:"image,omitempty" gorm:"type:varchar(32)"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// StockValue is the price of every unit currently on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// StockChange is a quantity taken from (or returned to) a product's stock.
type StockChange struct {
	ProductID string
	Quantity  int
}
