package repositories

import "kasir/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	// Delete removes a user. Deleting an absent id is a no-op.
	Delete(id string) error
}
