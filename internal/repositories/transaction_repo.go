package repositories

import "kasir/internal/models"

// TransactionRepository defines the interface for ledger data access.
// The ledger is append-only; entries are only ever removed together.
type TransactionRepository interface {
	// GetAll returns every transaction, most recent first.
	GetAll() ([]models.Transaction, error)
	GetByID(id string) (*models.Transaction, error)
	Create(txn *models.Transaction) error
	Clear() error
}
