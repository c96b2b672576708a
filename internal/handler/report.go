package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/quanh171/youtube-analysis/internal/middleware"
	"github.com/quanh171/youtube-analysis/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Videos handles GET /api/reports/videos
func (h *ReportHandler) Videos(c fiber.Ctx) error {
	rows, err := h.svc.BaseMetrics(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch video metrics")
	}
	return c.JSON(rows)
}

// Types handles GET /api/reports/types
func (h *ReportHandler) Types(c fiber.Ctx) error {
	rows, err := h.svc.TypeSummaries(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch type summaries")
	}
	return c.JSON(rows)
}

// Categories handles GET /api/reports/categories
func (h *ReportHandler) Categories(c fiber.Ctx) error {
	rows, err := h.svc.CategorySummaries(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch category summaries")
	}
	return c.JSON(rows)
}

// Monthly handles GET /api/reports/monthly?month=YYYY-MM
func (h *ReportHandler) Monthly(c fiber.Ctx) error {
	month, errMsg := middleware.ValidateYearMonth(fiber.Query[string](c, "month"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}

	rows, err := h.svc.MonthlyKPIs(c.Context(), month)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch monthly KPIs")
	}
	return c.JSON(rows)
}

// TopViews handles GET /api/reports/top/views
func (h *ReportHandler) TopViews(c fiber.Ctx) error {
	rows, err := h.svc.TopByViews(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch top videos by views")
	}
	return c.JSON(rows)
}

// TopEngagement handles GET /api/reports/top/engagement
func (h *ReportHandler) TopEngagement(c fiber.Ctx) error {
	rows, err := h.svc.TopByEngagement(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch top videos by engagement")
	}
	return c.JSON(rows)
}

// Correlations handles GET /api/reports/correlations
func (h *ReportHandler) Correlations(c fiber.Ctx) error {
	resp, err := h.svc.Correlations(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch correlation matrix")
	}
	return c.JSON(resp)
}

// Channels handles GET /api/reports/channels
func (h *ReportHandler) Channels(c fiber.Ctx) error {
	rows, err := h.svc.ChannelRates(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch channel rates")
	}
	return c.JSON(rows)
}
