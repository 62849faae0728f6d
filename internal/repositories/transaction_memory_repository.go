package repositories

import (
	"fmt"
	"sync"

	"kasir/internal/models"
	"kasir/internal/storage"
)

// MemoryTransactionRepository is an in-memory ledger persisted to a storage.Store.
type MemoryTransactionRepository struct {
	transactions []models.Transaction // most recent first
	store        storage.Store
	mu           sync.RWMutex
}

// NewMemoryTransactionRepository loads the persisted ledger, if any, from store.
func NewMemoryTransactionRepository(store storage.Store) (*MemoryTransactionRepository, error) {
	r := &MemoryTransactionRepository{store: store}
	if _, err := store.Load(storage.KeyTransactions, &r.transactions); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return r, nil
}

func (r *MemoryTransactionRepository) flush() error {
	if err := r.store.Save(storage.KeyTransactions, r.transactions); err != nil {
		return fmt.Errorf("failed to persist transactions: %w", err)
	}
	return nil
}

// GetAll returns all transactions, most recent first.
func (r *MemoryTransactionRepository) GetAll() ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Transaction(nil), r.transactions...), nil
}

// GetByID returns a transaction by its ID.
func (r *MemoryTransactionRepository) GetByID(id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, txn := range r.transactions {
		if txn.ID == id {
			found := txn
			return &found, nil
		}
	}
	return nil, fmt.Errorf("transaction with ID %s: %w", id, models.ErrNotFound)
}

// Create prepends txn to the ledger.
func (r *MemoryTransactionRepository) Create(txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.transactions {
		if existing.ID == txn.ID {
			return fmt.Errorf("transaction with ID %s: %w", txn.ID, models.ErrDuplicateKey)
		}
	}

	previous := r.transactions
	r.transactions = append([]models.Transaction{*txn}, previous...)
	if err := r.flush(); err != nil {
		r.transactions = previous
		return err
	}
	return nil
}

// Clear empties the ledger.
func (r *MemoryTransactionRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.transactions
	r.transactions = []models.Transaction{}
	if err := r.flush(); err != nil {
		r.transactions = previous
		return err
	}
	return nil
}
