package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/models"
)

func (handler *Handler) GetTenants(c *fiber.Ctx) error {
	tenants, err := handler.stores.Tenants.ListTenants(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tenants": tenants})
}

func (handler *Handler) CreateTenant(c *fiber.Ctx) error {
	input := models.TenantInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	tenant, err := handler.stores.Tenants.AddTenant(c.UserContext(), input)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tenant": tenant})
}

func (handler *Handler) DeleteTenant(c *fiber.Ctx) error {
	index, err := parseIndexParam(c, "index")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.stores.Tenants.DeleteTenant(c.UserContext(), index, confirmedQuery(c)); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ToggleTenantPower(c *fiber.Ctx) error {
	index, err := parseIndexParam(c, "index")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	tenant, err := handler.stores.Tenants.TogglePower(c.UserContext(), index)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tenant": tenant})
}

func (handler *Handler) AddTransaction(c *fiber.Ctx) error {
	index, err := parseIndexParam(c, "index")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	input := models.TransactionInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	tenant, err := handler.stores.Tenants.AddTransaction(c.UserContext(), index, input)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tenant": tenant})
}

func (handler *Handler) DeleteTransaction(c *fiber.Ctx) error {
	index, err := parseIndexParam(c, "index")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	transactionIndex, err := parseIndexParam(c, "tx")
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := handler.stores.Tenants.DeleteTransaction(c.UserContext(), index, transactionIndex); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) TenantDetails(c *fiber.Ctx) error {
	details, err := handler.tenantDetails.Details(c.UserContext())
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tenants": details})
}
