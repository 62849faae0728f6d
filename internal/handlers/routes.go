package handlers

import (
	"time"

	"kasir/internal/app"
	"kasir/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires every handler of application under /api/v1 and the
// health check at /health.
func RegisterRoutes(router fiber.Router, application *app.Application) {
	g := Guards{
		Auth:  middleware.AuthRequired(application.AuthService),
		Admin: middleware.AdminRequired(),
	}

	apiV1 := router.Group("/api/v1")
	NewAuthHandler(application.AuthService).RegisterRoutes(apiV1, g)
	NewProductHandler(application.ProductService).RegisterRoutes(apiV1, g)
	NewCartHandler(application.CartService).RegisterRoutes(apiV1, g)
	NewTransactionHandler(application.TransactionService, application.ReportService).RegisterRoutes(apiV1, g)
	NewReportHandler(application.ReportService).RegisterRoutes(apiV1, g)
	NewUserHandler(application.UserService).RegisterRoutes(apiV1, g)

	router.Get("/health", func(c *fiber.Ctx) error {
		session := "none"
		if cashier, ok := application.AuthService.CurrentSession(); ok {
			session = cashier.Username
		}
		mq := "disabled"
		if application.MQ() != nil {
			mq = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"storage":  application.Config().StorageDriver,
			"session":  session,
			"rabbitMQ": mq,
		})
	})
}

// ErrorHandler answers errors no handler mapped itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"message": e.Message,
			"error":   e.Message,
		})
	}
	return respondError(c, "Unexpected server error", err)
}
