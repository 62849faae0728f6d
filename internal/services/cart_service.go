package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartService is the cart of the active session. Quantities are kept within
// the current stock of each product.
type CartService struct {
	products repositories.ProductRepository
	items    []models.CartItem
	mu       sync.Mutex
}

// NewCartService creates an empty cart that reads stock from products.
func NewCartService(products repositories.ProductRepository) *CartService {
	return &CartService{products: products}
}

func (c *CartService) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *CartService) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// AddToCart adds one unit of the product. A product already at its stock
// ceiling is left unchanged.
func (c *CartService) AddToCart(productID string) (models.CartItem, error) {
	product, err := c.products.GetByID(productID)
	if err != nil {
		return models.CartItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(*product)
}

// ScanBarcode adds one unit of the product carrying code.
func (c *CartService) ScanBarcode(code string) (models.CartItem, error) {
	product, err := c.products.GetByBarcode(strings.TrimSpace(code))
	if err != nil {
		return models.CartItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(*product)
}

func (c *CartService) addLocked(product models.Product) (models.CartItem, error) {
	if !product.InStock() {
		return models.CartItem{}, fmt.Errorf("%s: %w", product.Name, models.ErrOutOfStock)
	}

	if i := c.indexOf(product.ID); i >= 0 {
		item := &c.items[i]
		item.Product = product
		if item.Quantity < product.Stock {
			item.Quantity++
		} else {
			item.Quantity = product.Stock
		}
		return *item, nil
	}

	item := models.CartItem{Product: product, Quantity: 1}
	c.items = append(c.items, item)
	return item, nil
}

// RemoveFromCart deletes the product's line. Removing an absent product is a no-op.
func (c *CartService) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

// UpdateQuantity sets the quantity of a line already in the cart, clamped to
// [1, stock]. A quantity of zero or less removes the line.
func (c *CartService) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		c.RemoveFromCart(productID)
		return nil
	}

	product, lookupErr := c.products.GetByID(productID)

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return nil
	}
	if lookupErr != nil {
		if errors.Is(lookupErr, models.ErrNotFound) {
			c.removeAt(i)
		}
		return lookupErr
	}
	if !product.InStock() {
		c.removeAt(i)
		return fmt.Errorf("%s: %w", product.Name, models.ErrOutOfStock)
	}
	if quantity > product.Stock {
		quantity = product.Stock
	}
	c.items[i].Product = *product
	c.items[i].Quantity = quantity
	return nil
}

// Clear empties the cart.
func (c *CartService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *CartService) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem(nil), c.items...)
}

// Subtotal is the sum of price times quantity.
func (c *CartService) Subtotal() decimal.Decimal {
	return models.Subtotal(c.Items())
}

// Tax is the tax due on the subtotal.
func (c *CartService) Tax() decimal.Decimal {
	return models.TaxOn(c.Subtotal())
}

// Total is subtotal plus tax.
func (c *CartService) Total() decimal.Decimal {
	_, _, total := models.Totals(c.Items())
	return total
}

// Summary prices the cart in one pass.
func (c *CartService) Summary() models.CartSummary {
	items := c.Items()
	subtotal, tax, total := models.Totals(items)
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartSummary{
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
	}
}
