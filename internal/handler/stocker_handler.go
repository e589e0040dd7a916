package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockerHandler struct {
	service service.StockerService
}

func NewStockerHandler(s service.StockerService) *StockerHandler {
	return &StockerHandler{service: s}
}

// GetInventory lists stock with who last restocked each row
// GET /api/v1/stocker/inventory
func (h *StockerHandler) GetInventory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}

	rows, err := h.service.Inventory(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory")
	}
	summary, err := h.service.Summary(c.UserContext(), actor.ID)
	if err != nil {
		return respondError(c, err, "Failed to fetch inventory")
	}

	return c.JSON(fiber.Map{"data": rows, "summary": summary})
}

// POST /api/v1/stocker/stock-in
func (h *StockerHandler) StockIn(c *fiber.Ctx) error {
	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	return h.stockIn(c, req)
}

// StockInByID takes the inventory row from the path
// POST /api/v1/stocker/:id/stock-in
func (h *StockerHandler) StockInByID(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid inventory ID"})
	}

	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	req.InventoryID = id
	return h.stockIn(c, req)
}

func (h *StockerHandler) stockIn(c *fiber.Ctx, req service.StockInRequest) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.service.StockIn(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, service.ErrStockInFailed.Error())
	}

	return c.JSON(fiber.Map{"message": "Stock added", "data": result})
}
