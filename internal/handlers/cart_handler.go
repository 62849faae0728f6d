package handlers

import (
	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the cart of the active session.
type CartHandler struct {
	cart     *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart, validate: models.NewValidator()}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	cartRoutes := router.Group("/cart", g.Auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Post("/scan", h.HandleScan)
	cartRoutes.Put("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the items and totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.cart.Summary())
}

// HandleAddItem adds one unit of a product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}
	if _, err := h.cart.AddToCart(req.ProductID); err != nil {
		return respondError(c, "Could not add product to cart", err)
	}
	return c.JSON(h.cart.Summary())
}

// HandleScan adds one unit of the product carrying the scanned barcode.
func (h *CartHandler) HandleScan(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}
	if _, err := h.cart.ScanBarcode(req.Barcode); err != nil {
		return respondError(c, "Could not add scanned product to cart", err)
	}
	return c.JSON(h.cart.Summary())
}

// HandleUpdateQuantity sets the quantity of a line. Zero or less removes it.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.cart.UpdateQuantity(c.Params("id"), req.Quantity); err != nil {
		return respondError(c, "Could not update quantity", err)
	}
	return c.JSON(h.cart.Summary())
}

// HandleRemoveItem drops a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cart.RemoveFromCart(c.Params("id"))
	return c.JSON(h.cart.Summary())
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	h.cart.Clear()
	return c.JSON(h.cart.Summary())
}
