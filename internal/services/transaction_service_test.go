package services_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_CheckoutCash(t *testing.T) {
	term := newTerminal(t, mouse())
	cart := services.NewCartService(term.products)
	publisher := new(MockPublisher)
	publisher.On("Publish", services.EventTransactionCompleted, mock.Anything).Return(nil).Once()
	service := services.NewTransactionService(term.transactions, term.products, cart, cashierSession(), publisher)

	_, err := cart.ScanBarcode("8901234567890")
	require.NoError(t, err)

	txn, err := service.Checkout(models.PaymentCash, decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txn.ID, "TXN"))
	assert.Equal(t, "budi", txn.Cashier)
	assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(1500)))
	assert.True(t, txn.Tax.Equal(decimal.NewFromInt(150)))
	assert.True(t, txn.Total.Equal(decimal.NewFromInt(1650)))
	assert.True(t, txn.AmountPaid.Equal(decimal.NewFromInt(2000)))
	assert.True(t, txn.Change.Equal(decimal.NewFromInt(350)))
	require.Len(t, txn.Items, 1)
	assert.Equal(t, "Wireless Mouse", txn.Items[0].Name)

	product, err := term.products.GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, 49, product.Stock)

	ledger, err := service.GetAllTransactions()
	require.NoError(t, err)
	assert.Len(t, ledger, 1)
	assert.Empty(t, cart.Items())

	body := publisher.Calls[0].Arguments.Get(1).([]byte)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, txn.ID, event["transactionID"])
	assert.NotEmpty(t, event["eventID"])
	publisher.AssertExpectations(t)
}

func TestTransactionService_FinalizeCard(t *testing.T) {
	term := newTerminal(t, mouse(), cable())
	service := services.NewTransactionService(term.transactions, term.products, nil, cashierSession(), nil)

	items := []models.CartItem{{Product: mouse(), Quantity: 2}, {Product: cable(), Quantity: 1}}
	txn, err := service.Finalize(items, "budi", models.PaymentCard, decimal.Zero)
	require.NoError(t, err)
	// 3000 + 500 = 3500, tax 350
	assert.True(t, txn.Total.Equal(decimal.NewFromInt(3850)))
	assert.True(t, txn.AmountPaid.Equal(txn.Total))
	assert.True(t, txn.Change.IsZero())
	assert.Equal(t, 3, txn.ItemCount())
}

func TestTransactionService_FinalizeRejects(t *testing.T) {
	term := newTerminal(t, mouse(), cable())
	service := services.NewTransactionService(term.transactions, term.products, nil, cashierSession(), nil)
	items := []models.CartItem{{Product: mouse(), Quantity: 1}}

	_, err := service.Finalize(nil, "budi", models.PaymentCash, decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	_, err = service.Finalize(items, "budi", "voucher", decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, models.ErrInvalidPaymentMethod)

	_, err = service.Finalize(items, "", models.PaymentCash, decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, models.ErrNoSession)

	_, err = service.Finalize(items, "budi", models.PaymentCash, decimal.NewFromInt(1649))
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)

	ledger, err := service.GetAllTransactions()
	require.NoError(t, err)
	assert.Empty(t, ledger)
	product, _ := term.products.GetByID("1")
	assert.Equal(t, 50, product.Stock)
}

func TestTransactionService_FinalizeIsAllOrNothing(t *testing.T) {
	term := newTerminal(t, mouse(), cable())
	service := services.NewTransactionService(term.transactions, term.products, nil, cashierSession(), nil)

	items := []models.CartItem{{Product: mouse(), Quantity: 3}, {Product: cable(), Quantity: 5}}
	_, err := service.Finalize(items, "budi", models.PaymentCard, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	m, _ := term.products.GetByID("1")
	c, _ := term.products.GetByID("2")
	assert.Equal(t, 50, m.Stock)
	assert.Equal(t, 2, c.Stock)
	ledger, _ := service.GetAllTransactions()
	assert.Empty(t, ledger)
}

func TestTransactionService_RestoresStockWhenLedgerFails(t *testing.T) {
	term := newTerminal(t, mouse())
	txnRepo := new(MockTransactionRepository)
	txnRepo.On("Create", mock.Anything).Return(errors.New("disk full")).Once()
	service := services.NewTransactionService(txnRepo, term.products, nil, cashierSession(), nil)

	_, err := service.Finalize([]models.CartItem{{Product: mouse(), Quantity: 4}}, "budi", models.PaymentCard, decimal.Zero)
	assert.Error(t, err)

	product, _ := term.products.GetByID("1")
	assert.Equal(t, 50, product.Stock)
	txnRepo.AssertExpectations(t)
}

func TestTransactionService_PublishFailureDoesNotFailSale(t *testing.T) {
	term := newTerminal(t, mouse())
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	service := services.NewTransactionService(term.transactions, term.products, nil, cashierSession(), publisher)

	_, err := service.Finalize([]models.CartItem{{Product: mouse(), Quantity: 1}}, "budi", models.PaymentCard, decimal.Zero)
	assert.NoError(t, err)
}

func TestTransactionService_CheckoutKeepsCartOnFailure(t *testing.T) {
	term := newTerminal(t, mouse())
	cart := services.NewCartService(term.products)
	service := services.NewTransactionService(term.transactions, term.products, cart, cashierSession(), nil)
	_, err := cart.AddToCart("1")
	require.NoError(t, err)

	_, err = service.Checkout(models.PaymentCash, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)
	assert.Len(t, cart.Items(), 1)

	loggedOut := services.NewTransactionService(term.transactions, term.products, cart, stubSessions{}, nil)
	_, err = loggedOut.Checkout(models.PaymentCard, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrNoSession)
}

func TestTransactionService_MostRecentFirstAndClear(t *testing.T) {
	term := newTerminal(t, mouse())
	service := services.NewTransactionService(term.transactions, term.products, nil, adminSession(), nil)
	items := []models.CartItem{{Product: mouse(), Quantity: 1}}

	first, err := service.Finalize(items, "admin", models.PaymentCard, decimal.Zero)
	require.NoError(t, err)
	second, err := service.Finalize(items, "admin", models.PaymentCard, decimal.Zero)
	require.NoError(t, err)

	ledger, err := service.GetAllTransactions()
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, second.ID, ledger[0].ID)
	assert.Equal(t, first.ID, ledger[1].ID)

	found, err := service.GetTransactionByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	_, err = service.GetTransactionByID("TXN0")
	assert.ErrorIs(t, err, models.ErrNotFound)

	cashierOnly := services.NewTransactionService(term.transactions, term.products, nil, cashierSession(), nil)
	assert.ErrorIs(t, cashierOnly.ClearTransactions(), models.ErrUnauthorized)

	require.NoError(t, service.ClearTransactions())
	ledger, err = service.GetAllTransactions()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}
