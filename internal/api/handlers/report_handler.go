package handlers

import (
	"bytes"
	"fmt"
	"time"

	"fin-guardian/internal/dto"
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService   *service.ReportService
	categoryService *service.CategoryService
	now             func() time.Time
	logger          *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, categoryService *service.CategoryService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		categoryService: categoryService,
		now:             time.Now,
		logger:          logger,
	}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Category
// @Router /api/v1/categories [get]
func (h *ReportHandler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list categories")
	}
	return c.JSON(cats)
}

// ListCategoriesByType godoc
// @Summary List categories of one type
// @Tags categories
// @Produce json
// @Param type path string true "income or expense"
// @Security Bearer
// @Success 200 {array} models.Category
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/categories/type/{type} [get]
func (h *ReportHandler) ListCategoriesByType(c *fiber.Ctx) error {
	cats, err := h.categoryService.ListByType(c.UserContext(), models.EntryType(c.Params("type")))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list categories")
	}
	return c.JSON(cats)
}

// CategoryStats godoc
// @Summary Current month totals by category
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryTotalResponse
// @Router /api/v1/categories/stats [get]
func (h *ReportHandler) CategoryStats(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	totals, err := h.categoryService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute category stats")
	}
	return c.JSON(dto.NewCategoryTotals(totals))
}

// Summary godoc
// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Param period query string false "today, week or month" default(month)
// @Security Bearer
// @Success 200 {object} dto.SummaryResponse
// @Router /api/v1/dashboard/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	summary, err := h.reportService.Summary(c.UserContext(), userID, c.Query("period", service.SummaryMonth))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to build summary")
	}
	return c.JSON(dto.NewSummaryResponse(summary))
}

// Trend godoc
// @Summary Daily income and expense
// @Tags reports
// @Produce json
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Security Bearer
// @Success 200 {array} dto.DailyTotalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/reports/trend [get]
func (h *ReportHandler) Trend(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	from, to, err := parseRange(c, h.now())
	if err != nil {
		return respondError(c, h.logger, err, "Invalid date range")
	}

	days, err := h.reportService.Trend(c.UserContext(), userID, from, to)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to build trend")
	}
	return c.JSON(dto.NewDailyTotals(days))
}

// ByCategory godoc
// @Summary Expenses by category
// @Tags reports
// @Produce json
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Security Bearer
// @Success 200 {array} dto.CategoryTotalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/reports/category [get]
func (h *ReportHandler) ByCategory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	from, to, err := parseRange(c, h.now())
	if err != nil {
		return respondError(c, h.logger, err, "Invalid date range")
	}

	totals, err := h.reportService.ExpensesByCategory(c.UserContext(), userID, from, to)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to group expenses")
	}
	return c.JSON(dto.NewCategoryTotals(totals))
}

// Analysis godoc
// @Summary Spending analysis
// @Description Rule-based findings for the period, with GigaChat advice when configured
// @Tags reports
// @Produce json
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Security Bearer
// @Success 200 {object} dto.AnalysisResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/reports/analysis [get]
func (h *ReportHandler) Analysis(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	from, to, err := parseRange(c, h.now())
	if err != nil {
		return respondError(c, h.logger, err, "Invalid date range")
	}

	analysis, err := h.reportService.Analyze(c.UserContext(), userID, from, to)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to analyse spending")
	}
	return c.JSON(dto.NewAnalysisResponse(analysis))
}

// ExportCSV godoc
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Security Bearer
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/export/csv [get]
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	from, to, err := parseRange(c, h.now())
	if err != nil {
		return respondError(c, h.logger, err, "Invalid date range")
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportCSV(c.UserContext(), userID, from, to, &buf); err != nil {
		return respondError(c, h.logger, err, "Failed to export transactions")
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", from.Format(dateLayout), to.Format(dateLayout))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
