package handlers

import (
	"strconv"

	"smart-elib/internal/core/services"
	"smart-elib/internal/pkg/pagination"
	"smart-elib/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles the admin report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// OverdueReport returns the overdue report
// @Summary Overdue report
// @Description Every overdue loan plus per-month overdue and grace-save counts
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/overdue [get]
func (h *ReportHandler) OverdueReport(c *fiber.Ctx) error {
	report, err := h.reportService.GetOverdueReport(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build overdue report")
	}

	return response.Success(c, "Overdue report retrieved successfully", report)
}

// IssuedStats returns the issued-books overview
// @Summary Issued stats
// @Description Issuance totals and per-month counts
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/issued-stats [get]
func (h *ReportHandler) IssuedStats(c *fiber.Ctx) error {
	stats, err := h.reportService.GetIssuedStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build issued stats")
	}

	return response.Success(c, "Issued stats retrieved successfully", stats)
}

// MostIssuedMonthly returns the monthly top books ranking
// @Summary Most issued books per month
// @Description Books ranked by issue count within each month
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param top query int false "Books per month (default 5)"
// @Success 200 {object} response.Response
// @Router /reports/most-issued-monthly [get]
func (h *ReportHandler) MostIssuedMonthly(c *fiber.Ctx) error {
	topN, _ := strconv.Atoi(c.Query("top", "5"))

	result, err := h.reportService.GetMostIssuedMonthly(c.Context(), topN)
	if err != nil {
		return response.InternalServerError(c, "Failed to build ranking")
	}

	return response.Success(c, "Most issued books retrieved successfully", fiber.Map{
		"months": result,
	})
}

// IssueHistory returns the paginated transaction history
// @Summary Issue history
// @Description Full loan transaction history, newest first
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /reports/issue-history [get]
func (h *ReportHandler) IssueHistory(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.reportService.GetIssueHistory(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to build history")
	}

	return response.Success(c, "Issue history retrieved successfully",
		pagination.NewResponse(loans, params, total))
}

// CalculateOverdues re-evaluates every open loan and persists penalties
// @Summary Recalculate overdues
// @Description Re-evaluate every open loan and persist penalty snapshots
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/calculate-overdues [put]
func (h *ReportHandler) CalculateOverdues(c *fiber.Ctx) error {
	msg, err := h.reportService.CalculateOverdues(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to recalculate overdues")
	}

	return response.Success(c, msg, nil)
}

// BookSync reconciles catalog availability with open loans
// @Summary Sync book availability
// @Description Reconcile the catalog availability flags with open loans
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/book-sync [put]
func (h *ReportHandler) BookSync(c *fiber.Ctx) error {
	msg, err := h.reportService.SyncBookAvailability(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to sync book availability")
	}

	return response.Success(c, msg, nil)
}
