package handler

import (
	"errors"
	"log"

	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errUnauthorized = errors.New("unauthorized")

// currentActor reads the user set by RequireAuth.
func currentActor(c *fiber.Ctx) (service.Actor, error) {
	raw, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return service.Actor{}, errUnauthorized
	}
	name, _ := c.Locals("user_name").(string)
	email, _ := c.Locals("user_email").(string)
	return service.Actor{ID: id, Name: name, Email: email}, nil
}

func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported with fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var stock *service.StockUnavailableError
	var invalid *service.ValidationError
	switch {
	case errors.As(err, &stock):
		return c.Status(409).JSON(fiber.Map{
			"error":      stock.Error(),
			"product_id": stock.ProductID,
			"requested":  stock.Requested,
			"available":  stock.Available,
		})
	case errors.As(err, &invalid):
		return c.Status(422).JSON(fiber.Map{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrCategoryInUse):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrCheckoutFailed), errors.Is(err, service.ErrStockInFailed):
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errUnauthorized):
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	log.Printf("handler: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": fallback})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}
