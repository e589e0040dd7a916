package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.SaleService
}

func NewTransactionHandler(s service.SaleService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// GET /api/v1/transactions?limit=50
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	sales, err := h.service.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	return c.JSON(fiber.Map{"data": sales})
}

// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	sale, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Internal Server Error")
	}
	return c.JSON(fiber.Map{"data": sale})
}
