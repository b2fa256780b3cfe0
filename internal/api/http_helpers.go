package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

type errorMapping struct {
	target error
	status int
	key    string
}

var serviceErrorMappings = []errorMapping{
	{services.ErrEmptyName, fiber.StatusBadRequest, "errors.empty_name"},
	{services.ErrMissingField, fiber.StatusBadRequest, "errors.missing_field"},
	{services.ErrInvalidEmail, fiber.StatusBadRequest, "errors.invalid_email"},
	{services.ErrInvalidRole, fiber.StatusBadRequest, "errors.invalid_role"},
	{services.ErrInvalidAmount, fiber.StatusBadRequest, "errors.invalid_amount"},
	{services.ErrInvalidDate, fiber.StatusBadRequest, "errors.invalid_date"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "errors.invalid_status"},
	{services.ErrInvalidRentPlan, fiber.StatusBadRequest, "errors.invalid_rent_plan"},
	{services.ErrInvalidGracePeriod, fiber.StatusBadRequest, "errors.invalid_grace_period"},
	{services.ErrConfirmationRequired, fiber.StatusBadRequest, "errors.confirmation_required"},
	{services.ErrInvalidPeriod, fiber.StatusBadRequest, "errors.invalid_period"},
	{services.ErrInvalidWindow, fiber.StatusBadRequest, "errors.invalid_window"},
	{services.ErrDuplicateUnit, fiber.StatusConflict, "errors.duplicate_unit"},
	{services.ErrDuplicateEmail, fiber.StatusConflict, "errors.duplicate_email"},
	{services.ErrUnitVacant, fiber.StatusConflict, "errors.unit_vacant"},
	{services.ErrNotFound, fiber.StatusNotFound, "errors.not_found"},
	{services.ErrOutOfRange, fiber.StatusNotFound, "errors.out_of_range"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "errors.invalid_credentials"},
}

// apiError writes {"error": <localized message>, "code": <key>}.
func (handler *Handler) apiError(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": handler.translate(c, key),
		"code":  strings.TrimPrefix(key, "errors."),
	})
}

// respondServiceError maps store and view errors onto HTTP statuses. Anything
// unknown is logged and reported as a 500 without leaking details.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	for _, mapping := range serviceErrorMappings {
		if !errors.Is(err, mapping.target) {
			continue
		}
		payload := fiber.Map{
			"error": handler.translate(c, mapping.key),
			"code":  strings.TrimPrefix(mapping.key, "errors."),
		}
		if mapping.status == fiber.StatusBadRequest {
			payload["detail"] = err.Error()
		}
		return c.Status(mapping.status).JSON(payload)
	}

	handler.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return handler.apiError(c, fiber.StatusInternalServerError, "errors.internal")
}

func parseIndexParam(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Params(name))
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", services.ErrOutOfRange, name, raw)
	}
	return index, nil
}

func confirmedQuery(c *fiber.Ctx) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query("confirm"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
