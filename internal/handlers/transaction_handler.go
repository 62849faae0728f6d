package handlers

import (
	"fmt"
	"time"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// TransactionHandler handles checkout and ledger queries.
type TransactionHandler struct {
	service  *services.TransactionService
	reports  *services.ReportService
	validate *validator.Validate
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service *services.TransactionService, reports *services.ReportService) *TransactionHandler {
	return &TransactionHandler{
		service:  service,
		reports:  reports,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the checkout and ledger routes.
func (h *TransactionHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Post("/checkout", g.Auth, h.HandleCheckout)

	txnRoutes := router.Group("/transactions", g.Auth)
	txnRoutes.Get("/", h.HandleGetTransactions)
	txnRoutes.Get("/:id", h.HandleGetTransactionByID)
	txnRoutes.Delete("/", g.Admin, h.HandleClearTransactions)
}

// CheckoutRequest is the payment for the active cart. AmountPaid is ignored
// for card payments.
type CheckoutRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
}

// HandleCheckout finalizes the active cart.
func (h *TransactionHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	txn, err := h.service.Checkout(req.PaymentMethod, req.AmountPaid)
	if err != nil {
		return respondError(c, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

// HandleGetTransactions lists the ledger, most recent first. Supports
// ?cashier=, ?date= and ?limit=.
func (h *TransactionHandler) HandleGetTransactions(c *fiber.Ctx) error {
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := h.reports.ParseDate(raw)
		if err != nil {
			return respondError(c, "Invalid date", err)
		}
		day = &parsed
	}

	txns, err := h.reports.Transactions(c.Query("cashier"), day)
	if err != nil {
		return respondError(c, "Could not retrieve transactions", err)
	}
	if limit := cast.ToInt(c.Query("limit")); limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return c.JSON(fiber.Map{
		"transactions": txns,
		"summary":      services.Summarize(txns),
	})
}

// HandleGetTransactionByID retrieves a single transaction.
func (h *TransactionHandler) HandleGetTransactionByID(c *fiber.Ctx) error {
	id := c.Params("id")
	txn, err := h.service.GetTransactionByID(id)
	if err != nil {
		return respondError(c, fmt.Sprintf("Transaction with ID %s not found", id), err)
	}
	return c.JSON(txn)
}

// HandleClearTransactions empties the ledger.
func (h *TransactionHandler) HandleClearTransactions(c *fiber.Ctx) error {
	if err := h.service.ClearTransactions(); err != nil {
		return respondError(c, "Could not clear transactions", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
