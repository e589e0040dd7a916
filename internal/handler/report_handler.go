package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetReports ranks cashiers by sales or stockers by units stocked
// GET /api/v1/admin/reports?type=employees|stockers&timeframe=Month
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	tf := service.ParseTimeframe(c.Query("timeframe"), service.TimeframeMonth)

	switch c.Query("type", "employees") {
	case "employees":
		report, err := h.service.EmployeeRankings(c.UserContext(), tf)
		if err != nil {
			return respondError(c, err, "Failed to build report")
		}
		return c.JSON(fiber.Map{"data": report})
	case "stockers":
		report, err := h.service.StockerRankings(c.UserContext(), tf)
		if err != nil {
			return respondError(c, err, "Failed to build report")
		}
		return c.JSON(fiber.Map{"data": report})
	default:
		return c.Status(400).JSON(fiber.Map{"error": "type must be employees or stockers"})
	}
}
