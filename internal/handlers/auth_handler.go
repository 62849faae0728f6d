package handlers

import (
	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for the terminal session.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    models.NewValidator(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, g Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", g.Auth, h.HandleLogout)
	authRoutes.Get("/me", g.Auth, h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin starts a session and issues a JWT for it.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validateRequest(c, h.validate, req); !ok {
		return err
	}

	cashier, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		zap.S().Infof("Login denied for %s: %v", req.Username, err)
		return respondError(c, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"cashier": cashier,
	})
}

// HandleLogout ends the session and empties the cart.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(); err != nil {
		return respondError(c, "Could not log out", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleMe returns the active session.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	cashier, err := h.authService.RequireSession()
	if err != nil {
		return respondError(c, "No active session", err)
	}
	return c.JSON(cashier)
}
