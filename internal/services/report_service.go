package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	dateLayout     = "2006-01-02"
	topProductsLen = 10
)

// Summary aggregates a set of transactions.
type Summary struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Items   int             `json:"items"`
}

// CashierTotal is the revenue taken by one cashier.
type CashierTotal struct {
	Cashier      string          `json:"cashier"`
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ProductSales is the quantity and revenue of one product.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// HourlySales is the revenue of one hour of the day.
type HourlySales struct {
	Hour         int             `json:"hour"`
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailyReport is the sales report of a calendar day.
type DailyReport struct {
	Date               string          `json:"date"`
	Revenue            decimal.Decimal `json:"revenue"`
	Transactions       int             `json:"transactions"`
	Items              int             `json:"items"`
	CashTransactions   int             `json:"cash_transactions"`
	CashRevenue        decimal.Decimal `json:"cash_revenue"`
	CardTransactions   int             `json:"card_transactions"`
	CardRevenue        decimal.Decimal `json:"card_revenue"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
	ByCashier          []CashierTotal  `json:"by_cashier"`
	TopProducts        []ProductSales  `json:"top_products"`
	Hourly             []HourlySales   `json:"hourly"`
}

// SalesRow is one exported ledger line.
type SalesRow struct {
	TransactionID string `csv:"transaction_id"`
	Timestamp     string `csv:"timestamp"`
	Cashier       string `csv:"cashier"`
	PaymentMethod string `csv:"payment_method"`
	ProductID     string `csv:"product_id"`
	Barcode       string `csv:"barcode"`
	Name          string `csv:"name"`
	Category      string `csv:"category"`
	Price         string `csv:"price"`
	Quantity      int    `csv:"quantity"`
	LineTotal     string `csv:"line_total"`
}

// ReportService answers read-only queries over the ledger.
type ReportService struct {
	txnRepo repositories.TransactionRepository
	loc     *time.Location
	now     func() time.Time
}

// NewReportService creates a ReportService that buckets days and hours in loc.
func NewReportService(txnRepo repositories.TransactionRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{txnRepo: txnRepo, loc: loc, now: time.Now}
}

// ParseDate reads a calendar date in any common layout. An empty value is today.
func (s *ReportService) ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.dayStart(s.now()), nil
	}
	t, err := dateparse.ParseIn(value, s.loc)
	if err != nil {
		return time.Time{}, invalidField("date", fmt.Sprintf("unrecognized date %q", value))
	}
	return s.dayStart(t), nil
}

func (s *ReportService) dayStart(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *ReportService) sameDay(a, b time.Time) bool {
	return s.dayStart(a).Equal(s.dayStart(b))
}

// Transactions returns the ledger filtered by cashier and day, most recent
// first. Empty filters match everything.
func (s *ReportService) Transactions(cashier string, day *time.Time) ([]models.Transaction, error) {
	all, err := s.txnRepo.GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(all))
	for _, txn := range all {
		if cashier != "" && txn.Cashier != cashier {
			continue
		}
		if day != nil && !s.sameDay(txn.Timestamp, *day) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

// Summarize counts transactions, revenue and units sold.
func Summarize(txns []models.Transaction) Summary {
	sum := Summary{Revenue: decimal.Zero}
	for _, txn := range txns {
		sum.Count++
		sum.Revenue = sum.Revenue.Add(txn.Total)
		sum.Items += txn.ItemCount()
	}
	return sum
}

// DailyReport builds the report of the day containing day.
func (s *ReportService) DailyReport(day time.Time) (*DailyReport, error) {
	day = s.dayStart(day)
	txns, err := s.Transactions("", &day)
	if err != nil {
		return nil, err
	}
	return s.buildReport(day, txns)
}

func (s *ReportService) buildReport(day time.Time, txns []models.Transaction) (*DailyReport, error) {
	sum := Summarize(txns)
	report := &DailyReport{
		Date:               day.Format(dateLayout),
		Revenue:            sum.Revenue,
		Transactions:       sum.Count,
		Items:              sum.Items,
		CashRevenue:        decimal.Zero,
		CardRevenue:        decimal.Zero,
		AverageTransaction: decimal.Zero,
		ByCashier:          []CashierTotal{},
		TopProducts:        []ProductSales{},
		Hourly:             []HourlySales{},
	}

	totals := make(stats.Float64Data, 0, len(txns))
	cashiers := map[string]*CashierTotal{}
	products := map[string]*ProductSales{}
	hours := map[int]*HourlySales{}

	for _, txn := range txns {
		totals = append(totals, txn.Total.InexactFloat64())

		switch txn.PaymentMethod {
		case models.PaymentCash:
			report.CashTransactions++
			report.CashRevenue = report.CashRevenue.Add(txn.Total)
		case models.PaymentCard:
			report.CardTransactions++
			report.CardRevenue = report.CardRevenue.Add(txn.Total)
		}

		c, ok := cashiers[txn.Cashier]
		if !ok {
			c = &CashierTotal{Cashier: txn.Cashier, Revenue: decimal.Zero}
			cashiers[txn.Cashier] = c
		}
		c.Transactions++
		c.Revenue = c.Revenue.Add(txn.Total)

		hour := txn.Timestamp.In(s.loc).Hour()
		h, ok := hours[hour]
		if !ok {
			h = &HourlySales{Hour: hour, Revenue: decimal.Zero}
			hours[hour] = h
		}
		h.Transactions++
		h.Revenue = h.Revenue.Add(txn.Total)

		for _, item := range txn.Items {
			p, ok := products[item.ProductID]
			if !ok {
				p = &ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				products[item.ProductID] = p
			}
			p.Quantity += item.Quantity
			p.Revenue = p.Revenue.Add(item.LineTotal())
		}
	}

	if len(totals) > 0 {
		mean, err := stats.Mean(totals)
		if err != nil {
			return nil, fmt.Errorf("failed to compute average transaction: %w", err)
		}
		report.AverageTransaction = decimal.NewFromFloat(mean).Round(2)
	}

	for _, c := range cashiers {
		report.ByCashier = append(report.ByCashier, *c)
	}
	sort.Slice(report.ByCashier, func(i, j int) bool {
		a, b := report.ByCashier[i], report.ByCashier[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.Cashier < b.Cashier
	})

	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductsLen {
		report.TopProducts = report.TopProducts[:topProductsLen]
	}

	for _, h := range hours {
		report.Hourly = append(report.Hourly, *h)
	}
	sort.Slice(report.Hourly, func(i, j int) bool { return report.Hourly[i].Hour < report.Hourly[j].Hour })

	return report, nil
}

// SalesRows flattens transactions into one row per sold item.
func (s *ReportService) SalesRows(txns []models.Transaction) []*SalesRow {
	rows := make([]*SalesRow, 0)
	for _, txn := range txns {
		ts := txn.Timestamp.In(s.loc).Format(time.RFC3339)
		for _, item := range txn.Items {
			rows = append(rows, &SalesRow{
				TransactionID: txn.ID,
				Timestamp:     ts,
				Cashier:       txn.Cashier,
				PaymentMethod: string(txn.PaymentMethod),
				ProductID:     item.ProductID,
				Barcode:       item.Barcode,
				Name:          item.Name,
				Category:      string(item.Category),
				Price:         item.Price.StringFixed(2),
				Quantity:      item.Quantity,
				LineTotal:     item.LineTotal().StringFixed(2),
			})
		}
	}
	return rows
}

// ExportCSV writes the sales of day as CSV, one row per item.
func (s *ReportService) ExportCSV(day time.Time, w io.Writer) error {
	day = s.dayStart(day)
	txns, err := s.Transactions("", &day)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(s.SalesRows(txns), w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ExportXLSX writes a workbook with a Summary sheet and a Sales sheet for day.
func (s *ReportService) ExportXLSX(day time.Time, w io.Writer) error {
	day = s.dayStart(day)
	txns, err := s.Transactions("", &day)
	if err != nil {
		return err
	}
	report, err := s.buildReport(day, txns)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet, salesSheet = "Summary", "Sales"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Date", report.Date},
		{"Revenue", report.Revenue.InexactFloat64()},
		{"Transactions", report.Transactions},
		{"Items sold", report.Items},
		{"Cash transactions", report.CashTransactions},
		{"Cash revenue", report.CashRevenue.InexactFloat64()},
		{"Card transactions", report.CardTransactions},
		{"Card revenue", report.CardRevenue.InexactFloat64()},
		{"Average transaction", report.AverageTransaction.InexactFloat64()},
	}
	for i, row := range summary {
		row := row
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(salesSheet); err != nil {
		return err
	}
	header := []interface{}{"Transaction", "Timestamp", "Cashier", "Payment", "Product ID", "Barcode", "Name", "Category", "Price", "Quantity", "Line total"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range s.SalesRows(txns) {
		price, _ := decimal.NewFromString(r.Price)
		line, _ := decimal.NewFromString(r.LineTotal)
		row := []interface{}{r.TransactionID, r.Timestamp, r.Cashier, r.PaymentMethod, r.ProductID,
			r.Barcode, r.Name, r.Category, price.InexactFloat64(), r.Quantity, line.InexactFloat64()}
		if err := f.SetSheetRow(salesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
