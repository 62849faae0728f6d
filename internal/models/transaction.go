package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// TransactionItem is the immutable snapshot of a cart line at completion time.
type TransactionItem struct {
	ID            uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	TransactionID string          `json:"-" gorm:"index;type:varchar(40)"`
	ProductID     string          `json:"product_id" gorm:"type:varchar(40);index"`
	Barcode       string          `json:"barcode" gorm:"type:varchar(64)"`
	Name          string          `json:"name" gorm:"type:varchar(100)"`
	Category      Category        `json:"category" gorm:"type:varchar(32)"`
	Image         string          `json:"image,omitempty" gorm:"type:varchar(32)"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Quantity      int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Transaction is a completed sale. Once created it is never modified.
type Transaction struct {
	ID            string            `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Cashier       string            `json:"cashier" gorm:"type:varchar(100);index"`
	Items         []TransactionItem `json:"items" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Subtotal      decimal.Decimal   `json:"subtotal" gorm:"type:decimal(12,2)"`
	Tax           decimal.Decimal   `json:"tax" gorm:"type:decimal(12,2)"`
	Total         decimal.Decimal   `json:"total" gorm:"type:decimal(12,2)"`
	PaymentMethod PaymentMethod     `json:"payment_method" gorm:"type:varchar(8)"`
	AmountPaid    decimal.Decimal   `json:"amount_paid" gorm:"type:decimal(12,2)"`
	Change        decimal.Decimal   `json:"change" gorm:"type:decimal(12,2)"`
	Timestamp     time.Time         `json:"timestamp" gorm:"index"`
}

// ItemCount is the number of units sold.
func (t Transaction) ItemCount() int {
	n := 0
	for _, item := range t.Items {
		n += item.Quantity
	}
	return n
}

// SnapshotItems freezes cart lines into transaction items.
func SnapshotItems(items []CartItem) []TransactionItem {
	out := make([]TransactionItem, 0, len(items))
	for _, item := range items {
		out = append(out, TransactionItem{
			ProductID: item.Product.ID,
			Barcode:   item.Product.Barcode,
			Name:      item.Product.Name,
			Category:  item.Product.Category,
			Image:     item.Product.Image,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return out
}
