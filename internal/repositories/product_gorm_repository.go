package repositories

import (
	"errors"
	"fmt"

	"kasir/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByBarcode retrieves the product carrying barcode.
func (r *GORMProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with barcode %s: %w", barcode, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by barcode %s: %w", barcode, err)
	}
	return &product, nil
}

// Count returns the number of products.
func (r *GORMProductRepository) Count() (int, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(n), nil
}

func (r *GORMProductRepository) exists(query string, args ...interface{}) (bool, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if taken, err := r.exists("id = ?", product.ID); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	} else if taken {
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrDuplicateKey)
	}
	if taken, err := r.exists("barcode = ?", product.Barcode); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	} else if taken {
		return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrDuplicateKey)
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	if taken, err := r.exists("barcode = ? AND id <> ?", product.Barcode, product.ID); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	} else if taken {
		return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrDuplicateKey)
	}

	// Updates with a map so zero stock and zero price are written too.
	res := r.db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"barcode":  product.Barcode,
		"name":     product.Name,
		"category": product.Category,
		"price":    product.Price,
		"stock":    product.Stock,
		"image":    product.Image,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	if err := r.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// DecrementStock takes stock inside one database transaction.
func (r *GORMProductRepository) DecrementStock(changes []models.StockChange) error {
	changes = mergeChanges(changes)
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range changes {
			if c.Quantity < 0 {
				return fmt.Errorf("product %s negative quantity %d: %w", c.ProductID, c.Quantity, models.ErrInsufficientStock)
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", c.ProductID, c.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", c.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", c.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				var product models.Product
				if err := tx.First(&product, "id = ?", c.ProductID).Error; err != nil {
					return fmt.Errorf("product with ID %s: %w", c.ProductID, models.ErrNotFound)
				}
				return fmt.Errorf("product %s (requested: %d, available: %d): %w",
					product.Name, c.Quantity, product.Stock, models.ErrInsufficientStock)
			}
		}
		return nil
	})
}

// IncrementStock puts stock back inside one database transaction.
func (r *GORMProductRepository) IncrementStock(changes []models.StockChange) error {
	changes = mergeChanges(changes)
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range changes {
			res := tx.Model(&models.Product{}).
				Where("id = ?", c.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", c.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to increment stock for %s: %w", c.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product with ID %s: %w", c.ProductID, models.ErrNotFound)
			}
		}
		return nil
	})
}
