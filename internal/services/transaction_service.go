package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventTransactionCompleted is the routing key of a finalized sale.
const EventTransactionCompleted = "transaction.completed"

// Publisher delivers domain events to an external broker.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(string, []byte) error { return nil }

// TransactionService turns carts into ledger entries.
type TransactionService struct {
	txnRepo     repositories.TransactionRepository
	productRepo repositories.ProductRepository
	cart        *CartService
	sessions    SessionProvider
	publisher   Publisher
	now         func() time.Time

	mu sync.Mutex // serializes finalize
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo repositories.TransactionRepository,
	productRepo repositories.ProductRepository,
	cart *CartService,
	sessions SessionProvider,
	publisher Publisher,
) *TransactionService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &TransactionService{
		txnRepo:     txnRepo,
		productRepo: productRepo,
		cart:        cart,
		sessions:    sessions,
		publisher:   publisher,
		now:         time.Now,
	}
}

// GetAllTransactions returns the ledger, most recent first.
func (s *TransactionService) GetAllTransactions() ([]models.Transaction, error) {
	return s.txnRepo.GetAll()
}

// GetTransactionByID retrieves a single transaction.
func (s *TransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	return s.txnRepo.GetByID(id)
}

// Checkout finalizes the active cart for the logged-in cashier and empties
// the cart on success.
func (s *TransactionService) Checkout(method models.PaymentMethod, tendered decimal.Decimal) (*models.Transaction, error) {
	cashier, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.finalizeLocked(s.cart.Items(), cashier.Username, method, tendered)
	if err != nil {
		return nil, err
	}
	s.cart.Clear()
	return txn, nil
}

// Finalize records items as a completed sale. Stock for every item is taken
// or none is; a failure leaves catalog and ledger unchanged.
func (s *TransactionService) Finalize(
	items []models.CartItem,
	cashier string,
	method models.PaymentMethod,
	tendered decimal.Decimal,
) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked(items, cashier, method, tendered)
}

func (s *TransactionService) finalizeLocked(
	items []models.CartItem,
	cashier string,
	method models.PaymentMethod,
	tendered decimal.Decimal,
) (*models.Transaction, error) {
	if cashier == "" {
		return nil, models.ErrNoSession
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%q: %w", method, models.ErrInvalidPaymentMethod)
	}

	changes := make([]models.StockChange, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, invalidField("quantity", fmt.Sprintf("quantity of %s must be positive", item.Product.Name))
		}
		changes = append(changes, models.StockChange{ProductID: item.Product.ID, Quantity: item.Quantity})
	}

	subtotal, tax, total := models.Totals(items)
	paid, change := total, decimal.Zero
	if method == models.PaymentCash {
		if tendered.LessThan(total) {
			return nil, fmt.Errorf("tendered %s, due %s: %w", tendered.StringFixed(2), total.StringFixed(2), models.ErrInsufficientPayment)
		}
		paid = tendered
		change = tendered.Sub(total)
	}

	if err := s.productRepo.DecrementStock(changes); err != nil {
		return nil, fmt.Errorf("failed to finalize sale: %w", err)
	}

	txn := &models.Transaction{
		ID:            newID("TXN"),
		Cashier:       cashier,
		Items:         models.SnapshotItems(items),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		AmountPaid:    paid,
		Change:        change,
		Timestamp:     s.now(),
	}
	if err := s.txnRepo.Create(txn); err != nil {
		if restoreErr := s.productRepo.IncrementStock(changes); restoreErr != nil {
			zap.S().Errorw("Failed to restore stock after ledger write failure",
				"transaction", txn.ID, "error", restoreErr)
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	zap.S().Infow("Transaction completed",
		"id", txn.ID, "cashier", cashier, "total", txn.Total.StringFixed(2), "method", method)
	s.publishCompleted(txn)
	return txn, nil
}

func (s *TransactionService) publishCompleted(txn *models.Transaction) {
	message := map[string]interface{}{
		"eventID":       uuid.New().String(),
		"transactionID": txn.ID,
		"cashier":       txn.Cashier,
		"total":         txn.Total,
		"paymentMethod": txn.PaymentMethod,
		"items":         txn.ItemCount(),
		"timestamp":     txn.Timestamp,
	}
	body, err := json.Marshal(message)
	if err != nil {
		zap.S().Warnf("Failed to marshal transaction %s event: %v", txn.ID, err)
		return
	}
	if err := s.publisher.Publish(EventTransactionCompleted, body); err != nil {
		zap.S().Warnf("Failed to publish completed event for transaction %s: %v", txn.ID, err)
	}
}

// ClearTransactions irreversibly empties the ledger. Administrators only.
func (s *TransactionService) ClearTransactions() error {
	actor, err := s.sessions.RequireAdmin()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.txnRepo.Clear(); err != nil {
		return err
	}
	zap.S().Warnw("Transaction ledger cleared", "by", actor.Username)
	return nil
}
