package repositories

import (
	"errors"
	"fmt"
	"time"

	"kasir/internal/models"
	"kasir/internal/storage"

	"gorm.io/gorm"
)

// SessionRepository persists the single active session so it survives restarts.
type SessionRepository interface {
	// Load returns the persisted session, or nil when nobody is logged in.
	Load() (*models.Cashier, error)
	Save(cashier models.Cashier) error
	Clear() error
}

// StoreSessionRepository keeps the session under storage.KeyCashier.
type StoreSessionRepository struct {
	store storage.Store
}

// NewStoreSessionRepository creates a SessionRepository over store.
func NewStoreSessionRepository(store storage.Store) *StoreSessionRepository {
	return &StoreSessionRepository{store: store}
}

// Load returns the persisted session.
func (r *StoreSessionRepository) Load() (*models.Cashier, error) {
	var cashier models.Cashier
	found, err := r.store.Load(storage.KeyCashier, &cashier)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &cashier, nil
}

// Save persists cashier as the active session.
func (r *StoreSessionRepository) Save(cashier models.Cashier) error {
	if err := r.store.Save(storage.KeyCashier, cashier); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (r *StoreSessionRepository) Clear() error {
	if err := r.store.Delete(storage.KeyCashier); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SessionRecord is the single-row table behind GORMSessionRepository.
type SessionRecord struct {
	ID        uint `gorm:"primaryKey"`
	Username  string
	Name      string
	Role      models.Role
	SessionID string
	UpdatedAt time.Time
}

// activeSessionID is the primary key of the only row.
const activeSessionID = 1

// GORMSessionRepository keeps the session in the database.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{db: db}
}

// Load returns the persisted session.
func (r *GORMSessionRepository) Load() (*models.Cashier, error) {
	var rec SessionRecord
	if err := r.db.First(&rec, activeSessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &models.Cashier{
		Username:  rec.Username,
		Name:      rec.Name,
		Role:      rec.Role,
		SessionID: rec.SessionID,
	}, nil
}

// Save persists cashier as the active session.
func (r *GORMSessionRepository) Save(cashier models.Cashier) error {
	rec := SessionRecord{
		ID:        activeSessionID,
		Username:  cashier.Username,
		Name:      cashier.Name,
		Role:      cashier.Role,
		SessionID: cashier.SessionID,
	}
	if err := r.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (r *GORMSessionRepository) Clear() error {
	if err := r.db.Delete(&SessionRecord{}, activeSessionID).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
