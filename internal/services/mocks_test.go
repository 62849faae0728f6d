package services_test

import (
	"testing"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"
	"kasir/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	args := m.Called(barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(changes []models.StockChange) error {
	args := m.Called(changes)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementStock(changes []models.StockChange) error {
	args := m.Called(changes)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repositories.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetAll() ([]models.Transaction, error) {
	args := m.Called()
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByID(id string) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(txn *models.Transaction) error {
	args := m.Called(txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// stubSessions is a fixed SessionProvider.
type stubSessions struct {
	cashier *models.Cashier
}

func (s stubSessions) RequireSession() (models.Cashier, error) {
	if s.cashier == nil {
		return models.Cashier{}, models.ErrNoSession
	}
	return *s.cashier, nil
}

func (s stubSessions) RequireAdmin() (models.Cashier, error) {
	c, err := s.RequireSession()
	if err != nil {
		return c, err
	}
	if !c.IsAdmin() {
		return models.Cashier{}, models.ErrUnauthorized
	}
	return c, nil
}

func adminSession() stubSessions {
	return stubSessions{cashier: &models.Cashier{Username: "admin", Name: "Administrator", Role: models.RoleAdmin}}
}

func cashierSession() stubSessions {
	return stubSessions{cashier: &models.Cashier{Username: "budi", Name: "Budi", Role: models.RoleCashier}}
}

// terminal is a set of real in-memory stores for end-to-end service tests.
type terminal struct {
	store        *storage.MemoryStore
	products     *repositories.MemoryProductRepository
	users        *repositories.MemoryUserRepository
	transactions *repositories.MemoryTransactionRepository
	sessions     repositories.SessionRepository
}

func newTerminal(t *testing.T, products ...models.Product) *terminal {
	t.Helper()
	store := storage.NewMemoryStore()
	productRepo, err := repositories.NewMemoryProductRepository(store)
	require.NoError(t, err)
	userRepo, err := repositories.NewMemoryUserRepository(store)
	require.NoError(t, err)
	txnRepo, err := repositories.NewMemoryTransactionRepository(store)
	require.NoError(t, err)
	for i := range products {
		require.NoError(t, productRepo.Create(&products[i]))
	}
	return &terminal{
		store:        store,
		products:     productRepo,
		users:        userRepo,
		transactions: txnRepo,
		sessions:     repositories.NewStoreSessionRepository(store),
	}
}

func mouse() models.Product {
	return models.Product{
		ID:       "1",
		Barcode:  "8901234567890",
		Name:     "Wireless Mouse",
		Category: models.CategoryElectronics,
		Price:    decimal.NewFromInt(1500),
		Stock:    50,
		Image:    "🖱️",
	}
}

func cable() models.Product {
	return models.Product{
		ID:       "2",
		Barcode:  "8901234567891",
		Name:     "USB Cable",
		Category: models.CategoryElectronics,
		Price:    decimal.NewFromInt(500),
		Stock:    2,
	}
}

func chips() models.Product {
	return models.Product{
		ID:       "13",
		Barcode:  "8901234567802",
		Name:     "Potato Chips",
		Category: models.CategorySnacks,
		Price:    decimal.RequireFromString("1.99"),
		Stock:    0,
	}
}

var _ services.Publisher = (*MockPublisher)(nil)
