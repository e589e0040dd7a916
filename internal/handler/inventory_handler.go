package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GET /api/v1/admin/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	rows, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory")
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/admin/inventory/:id
func (h *InventoryHandler) GetInventoryItem(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}
	row, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory")
	}
	return c.JSON(fiber.Map{"data": row})
}

// GET /api/v1/admin/inventory/:id/history
func (h *InventoryHandler) GetHistory(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}
	logs, err := h.service.History(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch stock history")
	}
	return c.JSON(fiber.Map{"data": logs})
}

// POST /api/v1/admin/inventory
func (h *InventoryHandler) CreateInventory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	var req service.CreateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	row, err := h.service.Create(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, "Failed to create inventory")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Inventory created", "data": row})
}

// PUT /api/v1/admin/inventory/:id
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}
	var req service.UpdateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	row, err := h.service.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return respondError(c, err, "Failed to update inventory")
	}
	return c.JSON(fiber.Map{"message": "Inventory updated", "data": row})
}

// DELETE /api/v1/admin/inventory/:id
func (h *InventoryHandler) DeleteInventory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err, "Failed to delete inventory")
	}
	return c.JSON(fiber.Map{"message": "Inventory deleted"})
}
