package services_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sale(id, cashier string, method models.PaymentMethod, at time.Time, items ...models.CartItem) *models.Transaction {
	subtotal, tax, total := models.Totals(items)
	return &models.Transaction{
		ID:            id,
		Cashier:       cashier,
		Items:         models.SnapshotItems(items),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		AmountPaid:    total,
		Change:        decimal.Zero,
		Timestamp:     at,
	}
}

func seedLedger(t *testing.T, term *terminal) {
	t.Helper()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	txns := []*models.Transaction{
		// 1500 -> 1650
		sale("TXN1", "budi", models.PaymentCash, day.Add(9*time.Hour), models.CartItem{Product: mouse(), Quantity: 1}),
		// 1000 -> 1100
		sale("TXN2", "budi", models.PaymentCard, day.Add(9*time.Hour+30*time.Minute), models.CartItem{Product: cable(), Quantity: 2}),
		// 3000 + 500 -> 3850
		sale("TXN3", "admin", models.PaymentCard, day.Add(14*time.Hour),
			models.CartItem{Product: mouse(), Quantity: 2}, models.CartItem{Product: cable(), Quantity: 1}),
		// another day
		sale("TXN4", "budi", models.PaymentCash, day.Add(-2*time.Hour), models.CartItem{Product: mouse(), Quantity: 5}),
	}
	for _, txn := range txns {
		require.NoError(t, term.transactions.Create(txn))
	}
}

func TestReportService_ParseDate(t *testing.T) {
	service := services.NewReportService(newTerminal(t).transactions, time.UTC)

	for _, input := range []string{"2024-03-05", "03/05/2024", "March 5, 2024", "2024-03-05T17:45:00Z"} {
		day, err := service.ParseDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day, input)
	}

	_, err := service.ParseDate("not a date")
	assert.ErrorIs(t, err, models.ErrValidation)

	today, err := service.ParseDate("")
	require.NoError(t, err)
	assert.Equal(t, 0, today.Hour())
}

func TestReportService_Transactions(t *testing.T) {
	term := newTerminal(t)
	seedLedger(t, term)
	service := services.NewReportService(term.transactions, time.UTC)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	onDay, err := service.Transactions("", &day)
	require.NoError(t, err)
	assert.Len(t, onDay, 3)

	byBudi, err := service.Transactions("budi", nil)
	require.NoError(t, err)
	assert.Len(t, byBudi, 3)

	both, err := service.Transactions("budi", &day)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "TXN2", both[0].ID, "most recent first")

	summary := services.Summarize(onDay)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 6, summary.Items)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(6600)), summary.Revenue.String())
}

func TestReportService_DailyReport(t *testing.T) {
	term := newTerminal(t)
	seedLedger(t, term)
	service := services.NewReportService(term.transactions, time.UTC)

	report, err := service.DailyReport(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", report.Date)
	assert.Equal(t, 3, report.Transactions)
	assert.Equal(t, 6, report.Items)
	assert.True(t, report.Revenue.Equal(decimal.NewFromInt(6600)))
	assert.Equal(t, 1, report.CashTransactions)
	assert.True(t, report.CashRevenue.Equal(decimal.NewFromInt(1650)))
	assert.Equal(t, 2, report.CardTransactions)
	assert.True(t, report.CardRevenue.Equal(decimal.NewFromInt(4950)))
	assert.True(t, report.AverageTransaction.Equal(decimal.NewFromInt(2200)), report.AverageTransaction.String())

	require.Len(t, report.ByCashier, 2)
	assert.Equal(t, "admin", report.ByCashier[0].Cashier)
	assert.True(t, report.ByCashier[0].Revenue.Equal(decimal.NewFromInt(3850)))

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "USB Cable", report.TopProducts[0].Name, "ties are ordered by name")
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
	assert.Equal(t, 3, report.TopProducts[1].Quantity)

	require.Len(t, report.Hourly, 2)
	assert.Equal(t, 9, report.Hourly[0].Hour)
	assert.Equal(t, 2, report.Hourly[0].Transactions)
	assert.Equal(t, 14, report.Hourly[1].Hour)
}

func TestReportService_DailyReportUsesLocation(t *testing.T) {
	term := newTerminal(t)
	seedLedger(t, term)
	jakarta := time.FixedZone("WIB", 7*60*60)
	service := services.NewReportService(term.transactions, jakarta)

	// 14:00 UTC is 21:00 WIB the same day; 22:00 UTC the day before is 05:00 WIB on the 5th
	report, err := service.DailyReport(time.Date(2024, 3, 5, 0, 0, 0, 0, jakarta))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Transactions)
}

func TestReportService_EmptyDay(t *testing.T) {
	service := services.NewReportService(newTerminal(t).transactions, time.UTC)

	report, err := service.DailyReport(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Transactions)
	assert.True(t, report.AverageTransaction.IsZero())
	assert.Empty(t, report.TopProducts)
}

func TestReportService_ExportCSV(t *testing.T) {
	term := newTerminal(t)
	seedLedger(t, term)
	service := services.NewReportService(term.transactions, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, service.ExportCSV(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus one row per sold item")
	assert.Equal(t, "transaction_id", rows[0][0])
	assert.Contains(t, rows[0], "line_total")
}

func TestReportService_ExportXLSX(t *testing.T) {
	term := newTerminal(t)
	seedLedger(t, term)
	service := services.NewReportService(term.transactions, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, service.ExportXLSX(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Sales"}, f.GetSheetList())
	revenue, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "6600", revenue)

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
