package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionProvider exposes the active session to services that gate on it.
type SessionProvider interface {
	RequireSession() (models.Cashier, error)
	RequireAdmin() (models.Cashier, error)
}

// AuthService owns the single active session of the terminal.
type AuthService struct {
	userRepo   repositories.UserRepository
	sessions   repositories.SessionRepository
	cart       *CartService
	hasher     PasswordHasher
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid

	mu      sync.RWMutex
	current *models.Cashier
}

var _ SessionProvider = (*AuthService)(nil)

// NewAuthService creates a new AuthService. Call RestoreSession to pick up a
// session persisted by a previous run.
func NewAuthService(
	userRepo repositories.UserRepository,
	sessions repositories.SessionRepository,
	cart *CartService,
	hasher PasswordHasher,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		cart:       cart,
		hasher:     hasher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// RestoreSession loads the persisted session, if any.
func (s *AuthService) RestoreSession() error {
	cashier, err := s.sessions.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cashier
	if cashier != nil {
		zap.S().Infof("Restored session for %s", cashier.Username)
	}
	return nil
}

// Login checks the credentials and makes the account the active session. A
// denied login leaves the current session and cart untouched.
func (s *AuthService) Login(username, password string) (*models.Cashier, string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.hasher.Compare(user.Password, password) {
		return nil, "", models.ErrInvalidCredentials
	}

	cashier := user.Cashier()
	cashier.SessionID = uuid.New().String()

	token, err := s.issueToken(cashier)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Save(cashier); err != nil {
		return nil, "", err
	}
	// a new session never inherits the previous cart
	s.cart.Clear()
	s.current = &cashier
	zap.S().Infow("Cashier logged in", "username", cashier.Username, "role", cashier.Role)
	return &cashier, token, nil
}

// Logout destroys the session and empties the cart.
func (s *AuthService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Clear(); err != nil {
		return err
	}
	if s.current != nil {
		zap.S().Infow("Cashier logged out", "username", s.current.Username)
	}
	s.current = nil
	s.cart.Clear()
	return nil
}

// CurrentSession returns the active session, if any.
func (s *AuthService) CurrentSession() (models.Cashier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Cashier{}, false
	}
	return *s.current, true
}

// RequireSession fails with models.ErrNoSession when nobody is logged in.
func (s *AuthService) RequireSession() (models.Cashier, error) {
	cashier, ok := s.CurrentSession()
	if !ok {
		return models.Cashier{}, models.ErrNoSession
	}
	return cashier, nil
}

// RequireAdmin fails with models.ErrUnauthorized unless an admin is logged in.
func (s *AuthService) RequireAdmin() (models.Cashier, error) {
	cashier, err := s.RequireSession()
	if err != nil {
		return models.Cashier{}, err
	}
	if !cashier.IsAdmin() {
		return models.Cashier{}, fmt.Errorf("%s is not an administrator: %w", cashier.Username, models.ErrUnauthorized)
	}
	return cashier, nil
}

func (s *AuthService) issueToken(cashier models.Cashier) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username":   cashier.Username,
		"role":       string(cashier.Role),
		"session_id": cashier.SessionID,
		"exp":        time.Now().Add(s.tokenDurat).Unix(),
		"iat":        time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a JWT and checks it belongs to the active session.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, models.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}

	current, active := s.CurrentSession()
	if !active || claims["session_id"] != current.SessionID || claims["username"] != current.Username {
		return nil, fmt.Errorf("invalid token: session ended: %w", models.ErrUnauthorized)
	}
	return claims, nil
}
