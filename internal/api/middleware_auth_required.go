package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if !errors.Is(err, errUnauthenticated) {
			handler.logger.Error("load session failed", zap.Error(err))
			return handler.apiError(c, fiber.StatusInternalServerError, "errors.internal")
		}
		return handler.apiError(c, fiber.StatusUnauthorized, "errors.unauthorized")
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}
