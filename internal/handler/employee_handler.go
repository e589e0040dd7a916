package handler

import (
	"nexus-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	service service.EmployeeService
}

func NewEmployeeHandler(s service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: s}
}

// GET /api/v1/admin/employees
func (h *EmployeeHandler) GetEmployees(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch employees")
	}
	return c.JSON(fiber.Map{"data": list.Employees, "stats": list.Stats})
}

// GET /api/v1/admin/employees/:id
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	employee, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch employee")
	}
	return c.JSON(fiber.Map{"data": employee})
}

// CreateEmployee registers a cashier; the generated password is mailed, not returned
// POST /api/v1/admin/employees
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	var req service.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	employee, err := h.service.Create(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err, "Failed to create employee")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Employee created", "data": employee})
}

// PUT /api/v1/admin/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	var req service.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	employee, err := h.service.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return respondError(c, err, "Failed to update employee")
	}
	return c.JSON(fiber.Map{"message": "Employee updated", "data": employee})
}

// DELETE /api/v1/admin/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err, "")
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid employee ID"})
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err, "Failed to delete employee")
	}
	return c.JSON(fiber.Map{"message": "Employee deleted"})
}
