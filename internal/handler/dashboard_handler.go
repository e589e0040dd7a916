package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetAdminMetrics
// GET /api/v1/admin/dashboard/metrics?timeframe=Month&month=2026-01
func (h *DashboardHandler) GetAdminMetrics(c *fiber.Ctx) error {
	tf := service.ParseTimeframe(c.Query("timeframe"), service.TimeframeMonth)

	metrics, err := h.service.AdminMetrics(c.UserContext(), tf, c.Query("month"))
	if err != nil {
		return respondError(c, err, "Failed to load dashboard")
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// GET /api/v1/admin/dashboard/graphs?timeframe=Month&month=2026-01
func (h *DashboardHandler) GetAdminGraphs(c *fiber.Ctx) error {
	tf := service.ParseTimeframe(c.Query("timeframe"), service.TimeframeMonth)

	graphs, err := h.service.AdminGraphs(c.UserContext(), tf, c.Query("month"))
	if err != nil {
		return respondError(c, err, "Failed to load graph data")
	}
	return c.JSON(fiber.Map{"data": graphs})
}

// GetMyMetrics is the cashier's own dashboard, daily by default
// GET /api/v1/dashboard/me?timeframe=Day
func (h *DashboardHandler) GetMyMetrics(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	tf := service.ParseTimeframe(c.Query("timeframe"), service.TimeframeDay)

	metrics, err := h.service.CashierMetrics(c.UserContext(), actor.ID, tf, c.Query("month"))
	if err != nil {
		return respondError(c, err, "Failed to load dashboard")
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// GET /api/v1/dashboard/me/daily-report?date=2026-01-31
func (h *DashboardHandler) GetMyDailyReport(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}

	report, err := h.service.DailyReport(c.UserContext(), actor.ID, c.Query("date"))
	if err != nil {
		return respondError(c, err, "Failed to load daily report")
	}
	return c.JSON(fiber.Map{"data": report})
}
