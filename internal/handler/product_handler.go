package handler

import (
	"strings"

	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// FindProductRequest carries scanner input, a barcode or a SKU
type FindProductRequest struct {
	Code string `json:"code"`
}

// GET /api/v1/admin/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch products")
	}
	return c.JSON(fiber.Map{"data": products})
}

// GET /api/v1/admin/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch product")
	}
	return c.JSON(fiber.Map{"data": product})
}

// POST /api/v1/admin/products/find
func (h *ProductHandler) FindProduct(c *fiber.Ctx) error {
	var req FindProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Code is required"})
	}

	product, err := h.service.FindByCode(c.UserContext(), code)
	if err != nil {
		return respondError(c, err, "Failed to find product")
	}
	return c.JSON(fiber.Map{"data": product})
}

// POST /api/v1/admin/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.Create(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, "Failed to create product")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return respondError(c, err, "Failed to update product")
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err, "Failed to delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
