package handlers

import (
	"fmt"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes. Reads need a session,
// mutations need an administrator.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	productRoutes := router.Group("/products", g.Auth)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/stats", h.HandleGetStats)
	productRoutes.Get("/barcode/:code", h.HandleGetByBarcode)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", g.Admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", g.Admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", g.Admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog, optionally filtered by ?q= and ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("q"), models.Category(c.Query("category")))
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetStats returns inventory totals.
func (h *ProductHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.service.InventoryStats()
	if err != nil {
		return respondError(c, "Could not compute inventory stats", err)
	}
	return c.JSON(stats)
}

// HandleGetByBarcode looks up a scanned barcode.
func (h *ProductHandler) HandleGetByBarcode(c *fiber.Ctx) error {
	code := c.Params("code")
	product, err := h.service.FindByBarcode(code)
	if err != nil {
		return respondError(c, fmt.Sprintf("No product with barcode %s", code), err)
	}
	return c.JSON(product)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("Product with ID %s not found", id), err)
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product. The id in the path wins over the body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(&product); err != nil {
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
