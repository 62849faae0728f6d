package repositories

import (
	"kasir/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByBarcode(barcode string) (*models.Product, error)
	Count() (int, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// Delete removes a product. Deleting an absent id is a no-op.
	Delete(id string) error
	// DecrementStock applies every change or none of them.
	DecrementStock(changes []models.StockChange) error
	// IncrementStock returns stock taken by DecrementStock.
	IncrementStock(changes []models.StockChange) error
}

// mergeChanges folds repeated product ids into one change each, keeping first-seen order.
func mergeChanges(changes []models.StockChange) []models.StockChange {
	merged := make([]models.StockChange, 0, len(changes))
	index := make(map[string]int, len(changes))
	for _, c := range changes {
		if i, ok := index[c.ProductID]; ok {
			merged[i].Quantity += c.Quantity
			continue
		}
		index[c.ProductID] = len(merged)
		merged = append(merged, c)
	}
	return merged
}
