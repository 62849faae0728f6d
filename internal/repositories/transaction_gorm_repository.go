package repositories

import (
	"errors"
	"fmt"

	"kasir/internal/models"

	"gorm.io/gorm"
)

// GORMTransactionRepository is a GORM implementation of TransactionRepository.
type GORMTransactionRepository struct {
	db *gorm.DB
}

// NewGORMTransactionRepository creates a new instance of GORMTransactionRepository.
func NewGORMTransactionRepository(db *gorm.DB) *GORMTransactionRepository {
	return &GORMTransactionRepository{
		db: db,
	}
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// GetAll retrieves every transaction with its items, most recent first.
func (r *GORMTransactionRepository) GetAll() ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Preload("Items", itemsInOrder).Order("timestamp DESC").Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all transactions: %w", err)
	}
	return transactions, nil
}

// GetByID retrieves a single transaction with its items.
func (r *GORMTransactionRepository) GetByID(id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Preload("Items", itemsInOrder).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction by ID %s: %w", id, err)
	}
	return &txn, nil
}

// Create stores the transaction and its items in one database transaction.
func (r *GORMTransactionRepository) Create(txn *models.Transaction) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Transaction{}).Where("id = ?", txn.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("transaction with ID %s: %w", txn.ID, models.ErrDuplicateKey)
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Clear deletes every transaction and item.
func (r *GORMTransactionRepository) Clear() error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Transaction{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}
