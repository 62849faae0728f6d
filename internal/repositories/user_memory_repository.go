package repositories

import (
	"fmt"
	"sync"
	"time"

	"kasir/internal/models"
	"kasir/internal/storage"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory UserRepository persisted to a storage.Store.
type MemoryUserRepository struct {
	users []models.User
	store storage.Store
	mu    sync.RWMutex
}

// NewMemoryUserRepository loads the persisted accounts, if any, from store.
func NewMemoryUserRepository(store storage.Store) (*MemoryUserRepository, error) {
	r := &MemoryUserRepository{store: store}
	if _, err := store.Load(storage.KeyUsers, &r.users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return r, nil
}

func (r *MemoryUserRepository) flush() error {
	if err := r.store.Save(storage.KeyUsers, r.users); err != nil {
		return fmt.Errorf("failed to persist users: %w", err)
	}
	return nil
}

func (r *MemoryUserRepository) find(match func(models.User) bool) (*models.User, bool) {
	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, true
		}
	}
	return nil, false
}

// GetAll returns all users in creation order.
func (r *MemoryUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.User(nil), r.users...), nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.find(func(u models.User) bool { return u.ID == id })
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
	}
	return user, nil
}

// GetByUsername returns a user by exact username.
func (r *MemoryUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.find(func(u models.User) bool { return u.Username == username })
	if !ok {
		return nil, fmt.Errorf("user with username %s: %w", username, models.ErrNotFound)
	}
	return user, nil
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, ok := r.find(func(u models.User) bool { return u.Username == user.Username }); ok {
		return fmt.Errorf("'%s': %w", user.Username, models.ErrDuplicateUsername)
	}
	if _, ok := r.find(func(u models.User) bool { return u.ID == user.ID }); ok {
		return fmt.Errorf("user with ID %s: %w", user.ID, models.ErrDuplicateKey)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	r.users = append(r.users, *user)
	if err := r.flush(); err != nil {
		r.users = r.users[:len(r.users)-1]
		return err
	}
	return nil
}

// Delete removes a user by its ID.
func (r *MemoryUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.users
	kept := make([]models.User, 0, len(previous))
	for _, u := range previous {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(previous) {
		return nil
	}

	r.users = kept
	if err := r.flush(); err != nil {
		r.users = previous
		return err
	}
	return nil
}
