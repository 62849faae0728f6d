package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() error {
	a.sched = cron.New(cron.WithLocation(a.loc), cron.WithParser(cronParser))

	if a.cfg.ReportCron != "" {
		if _, err := a.sched.AddFunc(a.cfg.ReportCron, a.SchedDailySummaryTask); err != nil {
			return fmt.Errorf("init job error %s: %w", a.cfg.ReportCron, err)
		}
	}
	if a.cfg.LowStockCron != "" {
		if _, err := a.sched.AddFunc(a.cfg.LowStockCron, a.SchedLowStockTask); err != nil {
			return fmt.Errorf("init job error %s: %w", a.cfg.LowStockCron, err)
		}
	}

	a.sched.Start()
	return nil
}

// SchedDailySummaryTask logs today's sales totals.
func (a *Application) SchedDailySummaryTask() {
	report, err := a.ReportService.DailyReport(time.Now().In(a.loc))
	if err != nil {
		zap.S().Errorf("daily summary failed: %v", err)
		return
	}
	zap.S().Infow("Daily sales summary",
		"date", report.Date,
		"transactions", report.Transactions,
		"items", report.Items,
		"revenue", report.Revenue.StringFixed(2),
		"cash", report.CashRevenue.StringFixed(2),
		"card", report.CardRevenue.StringFixed(2),
	)
}

// SchedLowStockTask warns about every product below the low stock threshold.
func (a *Application) SchedLowStockTask() {
	products, err := a.ProductService.LowStockProducts()
	if err != nil {
		zap.S().Errorf("low stock check failed: %v", err)
		return
	}
	for _, p := range products {
		zap.S().Warnw("Low stock", "id", p.ID, "name", p.Name, "stock", p.Stock)
	}
}
