package services

import (
	"fmt"
	"strings"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultProductImage is shown for products created without a glyph.
const DefaultProductImage = "📦"

// InventoryStats summarizes the catalog for the management view.
type InventoryStats struct {
	ProductCount    int             `json:"product_count"`
	UnitsInStock    int             `json:"units_in_stock"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	LowStockBelow   int             `json:"low_stock_below"`
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo              repositories.ProductRepository
	validate          *validator.Validate
	lowStockThreshold int
}

// NewProductService creates a new ProductService. Products with stock below
// lowStockThreshold are reported as low stock.
func NewProductService(repo repositories.ProductRepository, lowStockThreshold int) *ProductService {
	return &ProductService{
		repo:              repo,
		validate:          models.NewValidator(),
		lowStockThreshold: lowStockThreshold,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// FindByBarcode returns the product for a scanned code.
func (s *ProductService) FindByBarcode(code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalidField("barcode", "barcode is required")
	}
	return s.repo.GetByBarcode(code)
}

// SearchProducts matches term against name (case-insensitive) or barcode and
// keeps products in category. An empty category or "All" keeps everything.
func (s *ProductService) SearchProducts(term string, category models.Category) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(p.Barcode, term) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func (s *ProductService) normalize(product *models.Product) error {
	product.Barcode = strings.TrimSpace(product.Barcode)
	product.Name = strings.TrimSpace(product.Name)
	if product.Category == "" {
		product.Category = models.CategoryOther
	}
	if product.Image == "" {
		product.Image = DefaultProductImage
	}
	return validateStruct(s.validate, product)
}

// CreateProduct validates product and adds it with a fresh id when none is set.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.normalize(product); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = newID("PRD")
	}
	return s.repo.Create(product)
}

// UpdateProduct replaces the stored product with the same id.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.ID == "" {
		return invalidField("id", "id is required")
	}
	if err := s.normalize(product); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// DecrementStock takes amount units of a product.
func (s *ProductService) DecrementStock(id string, amount int) error {
	if amount < 0 {
		return invalidField("amount", "amount must not be negative")
	}
	if err := s.repo.DecrementStock([]models.StockChange{{ProductID: id, Quantity: amount}}); err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

// LowStockProducts lists products whose stock is below the threshold.
func (s *ProductService) LowStockProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	low := make([]models.Product, 0)
	for _, p := range products {
		if p.Stock < s.lowStockThreshold {
			low = append(low, p)
		}
	}
	return low, nil
}

// InventoryStats computes catalog totals.
func (s *ProductService) InventoryStats() (*InventoryStats, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	stats := &InventoryStats{
		ProductCount:   len(products),
		InventoryValue: decimal.Zero,
		LowStockBelow:  s.lowStockThreshold,
	}
	for _, p := range products {
		stats.UnitsInStock += p.Stock
		stats.InventoryValue = stats.InventoryValue.Add(p.StockValue())
		if p.Stock < s.lowStockThreshold {
			stats.LowStockCount++
		}
		if !p.InStock() {
			stats.OutOfStockCount++
		}
	}
	return stats, nil
}
