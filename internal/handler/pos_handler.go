package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type POSHandler struct {
	checkoutService service.CheckoutService
	productService  service.ProductService
}

func NewPOSHandler(checkout service.CheckoutService, products service.ProductService) *POSHandler {
	return &POSHandler{checkoutService: checkout, productService: products}
}

// GetProducts lists sellable products with their stock
// GET /api/v1/pos/products
func (h *POSHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productService.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch products")
	}
	return c.JSON(fiber.Map{"data": products})
}

// Checkout sells a cart on behalf of the authenticated cashier
// POST /api/v1/pos/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	result, err := h.checkoutService.Checkout(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, service.ErrCheckoutFailed.Error())
	}

	return c.Status(201).JSON(fiber.Map{"message": "Checkout completed", "data": result})
}
