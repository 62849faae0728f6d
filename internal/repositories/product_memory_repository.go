package repositories

import (
	"fmt"
	"sync"
	"time"

	"kasir/internal/models"
	"kasir/internal/storage"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory ProductRepository that writes the
// whole catalog to a storage.Store after every mutation.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string
	store    storage.Store
	mu       sync.RWMutex
}

// NewMemoryProductRepository loads the persisted catalog, if any, from store.
func NewMemoryProductRepository(store storage.Store) (*MemoryProductRepository, error) {
	r := &MemoryProductRepository{
		products: make(map[string]models.Product),
		store:    store,
	}

	var saved []models.Product
	if _, err := store.Load(storage.KeyProducts, &saved); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range saved {
		if _, dup := r.products[p.ID]; dup {
			continue
		}
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

func (r *MemoryProductRepository) list() []models.Product {
	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		productList = append(productList, r.products[id])
	}
	return productList
}

func (r *MemoryProductRepository) flush() error {
	if err := r.store.Save(storage.KeyProducts, r.list()); err != nil {
		return fmt.Errorf("failed to persist products: %w", err)
	}
	return nil
}

func (r *MemoryProductRepository) barcodeOwner(barcode string) (string, bool) {
	for id, p := range r.products {
		if p.Barcode == barcode {
			return id, true
		}
	}
	return "", false
}

// GetAll returns all products in insertion order.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	return &product, nil
}

// GetByBarcode returns the product carrying barcode.
func (r *MemoryProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.barcodeOwner(barcode)
	if !ok {
		return nil, fmt.Errorf("product with barcode %s: %w", barcode, models.ErrNotFound)
	}
	product := r.products[id]
	return &product, nil
}

// Count returns the number of products.
func (r *MemoryProductRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrDuplicateKey)
	}
	if _, ok := r.barcodeOwner(product.Barcode); ok {
		return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrDuplicateKey)
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)

	if err := r.flush(); err != nil {
		delete(r.products, product.ID)
		r.order = r.order[:len(r.order)-1]
		return err
	}
	return nil
}

// Update replaces an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, models.ErrNotFound)
	}
	if owner, ok := r.barcodeOwner(product.Barcode); ok && owner != product.ID {
		return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrDuplicateKey)
	}

	product.CreatedAt = previous.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product

	if err := r.flush(); err != nil {
		r.products[product.ID] = previous
		return err
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.products[id]
	if !ok {
		return nil
	}
	previousOrder := r.order
	delete(r.products, id)
	r.order = make([]string, 0, len(previousOrder))
	for _, other := range previousOrder {
		if other != id {
			r.order = append(r.order, other)
		}
	}

	if err := r.flush(); err != nil {
		r.products[id] = previous
		r.order = previousOrder
		return err
	}
	return nil
}

// DecrementStock validates every change before applying any of them.
func (r *MemoryProductRepository) DecrementStock(changes []models.StockChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	changes = mergeChanges(changes)
	for _, c := range changes {
		product, ok := r.products[c.ProductID]
		if !ok {
			return fmt.Errorf("product with ID %s: %w", c.ProductID, models.ErrNotFound)
		}
		if c.Quantity < 0 || c.Quantity > product.Stock {
			return fmt.Errorf("product %s (requested: %d, available: %d): %w",
				product.Name, c.Quantity, product.Stock, models.ErrInsufficientStock)
		}
	}
	return r.applyLocked(changes, -1)
}

// IncrementStock adds the quantities back.
func (r *MemoryProductRepository) IncrementStock(changes []models.StockChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	changes = mergeChanges(changes)
	for _, c := range changes {
		if _, ok := r.products[c.ProductID]; !ok {
			return fmt.Errorf("product with ID %s: %w", c.ProductID, models.ErrNotFound)
		}
	}
	return r.applyLocked(changes, 1)
}

func (r *MemoryProductRepository) applyLocked(changes []models.StockChange, sign int) error {
	previous := make(map[string]models.Product, len(changes))
	now := time.Now()
	for _, c := range changes {
		product := r.products[c.ProductID]
		previous[c.ProductID] = product
		product.Stock += sign * c.Quantity
		product.UpdatedAt = now
		r.products[c.ProductID] = product
	}

	if err := r.flush(); err != nil {
		for id, product := range previous {
			r.products[id] = product
		}
		return err
	}
	return nil
}
