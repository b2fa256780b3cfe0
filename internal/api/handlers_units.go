package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/models"
)

type unitInput struct {
	Name string `json:"name" form:"name"`
}

type bulkPowerInput struct {
	On bool `json:"on" form:"on"`
}

func (handler *Handler) GetUnits(c *fiber.Ctx) error {
	units, err := handler.stores.Units.ListUnits(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"units": units})
}

func (handler *Handler) CreateUnit(c *fiber.Ctx) error {
	input := unitInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	unit, err := handler.stores.Units.AddUnit(c.UserContext(), input.Name)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"unit": unit})
}

func (handler *Handler) ToggleUnitPower(c *fiber.Ctx) error {
	unit, err := handler.stores.Units.ToggleUnitPower(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"unit": unit})
}

func (handler *Handler) BulkSetPower(c *fiber.Ctx) error {
	input := bulkPowerInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	units, err := handler.stores.Units.BulkSetPower(c.UserContext(), input.On)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"units": units})
}

func (handler *Handler) DeleteUnit(c *fiber.Ctx) error {
	if err := handler.stores.Units.DeleteUnit(c.UserContext(), c.Params("id"), confirmedQuery(c)); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetAssignmentDraft(c *fiber.Ctx) error {
	draft, found, err := handler.stores.Units.AssignmentDraft(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"draft": draft, "found": found})
}

func (handler *Handler) SaveAssignmentDraft(c *fiber.Ctx) error {
	draft := models.TenantAssignment{}
	if err := c.BodyParser(&draft); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}
	if _, err := handler.stores.Units.FindUnit(c.UserContext(), c.Params("id")); err != nil {
		return handler.respondServiceError(c, err)
	}

	if err := handler.stores.Units.SaveAssignmentDraft(c.UserContext(), c.Params("id"), draft); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"draft": draft})
}

func (handler *Handler) ClearAssignmentDraft(c *fiber.Ctx) error {
	if err := handler.stores.Units.ClearAssignmentDraft(c.UserContext(), c.Params("id")); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) AssignTenant(c *fiber.Ctx) error {
	input := models.TenantAssignment{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	unit, err := handler.stores.Units.AssignTenantToUnit(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"unit": unit})
}

func (handler *Handler) UnitsOverview(c *fiber.Ctx) error {
	overview, err := handler.unitsView.Overview(c.UserContext(), c.Query("q"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(overview)
}
