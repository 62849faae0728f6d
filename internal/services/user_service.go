package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// UserService manages accounts. Everything except EnsureBootstrapAdmin
// requires an administrator session.
type UserService struct {
	repo     repositories.UserRepository
	sessions SessionProvider
	hasher   PasswordHasher
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, sessions SessionProvider, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:     repo,
		sessions: sessions,
		hasher:   hasher,
		validate: models.NewValidator(),
	}
}

// ListUsers returns every account without passwords.
func (s *UserService) ListUsers() ([]models.User, error) {
	if _, err := s.sessions.RequireAdmin(); err != nil {
		return nil, err
	}
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// AddUser creates an account with a fresh id and the current time.
func (s *UserService) AddUser(data models.User) (*models.User, error) {
	actor, err := s.sessions.RequireAdmin()
	if err != nil {
		return nil, err
	}

	data.Username = strings.TrimSpace(data.Username)
	data.Name = strings.TrimSpace(data.Name)
	if data.Role == "" {
		data.Role = models.RoleCashier
	}
	if err := validateStruct(s.validate, data); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(data.Username); err == nil {
		return nil, fmt.Errorf("'%s': %w", data.Username, models.ErrDuplicateUsername)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(data.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		ID:        newID("USR"),
		Username:  data.Username,
		Password:  hashed,
		Name:      data.Name,
		Role:      data.Role,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(&user); err != nil {
		return nil, err
	}

	zap.S().Infow("User created", "username", user.Username, "role", user.Role, "by", actor.Username)
	created := user.Sanitized()
	return &created, nil
}

// DeleteUser removes an account. The bootstrap admin can never be deleted.
func (s *UserService) DeleteUser(id string) error {
	if id == models.BootstrapAdminID {
		return fmt.Errorf("cannot delete the default admin user: %w", models.ErrProtected)
	}
	actor, err := s.sessions.RequireAdmin()
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	zap.S().Infow("User deleted", "id", id, "by", actor.Username)
	return nil
}

// EnsureBootstrapAdmin recreates the bootstrap admin account when it is missing.
func (s *UserService) EnsureBootstrapAdmin(admin models.User) error {
	if _, err := s.repo.GetByID(models.BootstrapAdminID); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hashed, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	admin.ID = models.BootstrapAdminID
	admin.Password = hashed
	admin.Role = models.RoleAdmin
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}
	if err := s.repo.Create(&admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	zap.S().Infow("Bootstrap admin created", "username", admin.Username)
	return nil
}
