package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

// GET /api/v1/admin/settings
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	targets, err := h.service.Targets(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch settings")
	}
	return c.JSON(fiber.Map{"data": targets})
}

// PUT /api/v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	var req service.UpdateTargetsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	targets, err := h.service.UpdateTargets(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, "Failed to update settings")
	}
	return c.JSON(fiber.Map{"message": "Settings updated", "data": targets})
}
