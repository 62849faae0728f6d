package handlers

import (
	"bytes"
	"fmt"
	"strings"

	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves sales reports to administrators.
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(router fiber.Router, g Guards) {
	reportRoutes := router.Group("/reports", g.Auth, g.Admin)
	reportRoutes.Get("/daily", h.HandleDailyReport)
	reportRoutes.Get("/daily/export", h.HandleExport)
}

// HandleDailyReport returns the report of ?date= (today when omitted).
func (h *ReportHandler) HandleDailyReport(c *fiber.Ctx) error {
	day, err := h.reports.ParseDate(c.Query("date"))
	if err != nil {
		return respondError(c, "Invalid date", err)
	}
	report, err := h.reports.DailyReport(day)
	if err != nil {
		return respondError(c, "Could not build report", err)
	}
	return c.JSON(report)
}

// HandleExport downloads a day's sales as ?format=csv (default) or xlsx.
func (h *ReportHandler) HandleExport(c *fiber.Ctx) error {
	day, err := h.reports.ParseDate(c.Query("date"))
	if err != nil {
		return respondError(c, "Invalid date", err)
	}

	var buf bytes.Buffer
	format := strings.ToLower(c.Query("format", "csv"))
	switch format {
	case "csv":
		err = h.reports.ExportCSV(day, &buf)
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	case "xlsx":
		err = h.reports.ExportXLSX(day, &buf)
		c.Set(fiber.HeaderContentType, xlsxContentType)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported export format",
			"error":   fmt.Sprintf("format %q must be csv or xlsx", format),
		})
	}
	if err != nil {
		return respondError(c, "Could not export sales", err)
	}

	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sales-%s.%s"`, day.Format("2006-01-02"), format))
	return c.Send(buf.Bytes())
}
