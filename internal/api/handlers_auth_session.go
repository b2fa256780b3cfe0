package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

type registerInput struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type loginInput struct {
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	user, err := handler.stores.Sessions.Register(c.UserContext(), input.Name, input.Email, input.Password, input.Role)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "errors.invalid_input")
	}

	limiterKey := loginLimiterKey(c, input.Name)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "errors.too_many_attempts")
	}

	user, err := handler.stores.Sessions.Login(c.UserContext(), input.Name, input.Password, input.Role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.recordFailure(limiterKey, now, loginAttemptWindow)
			handler.logger.Info("login rejected", zap.String("name", input.Name), zap.String("ip", c.IP()))
		}
		return handler.respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, user); err != nil {
		handler.logger.Error("sign auth token failed", zap.Error(err))
		return handler.apiError(c, fiber.StatusInternalServerError, "errors.internal")
	}
	return c.JSON(fiber.Map{"user": user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if err := handler.stores.Sessions.Logout(c.UserContext()); err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Session(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	return c.JSON(fiber.Map{"user": user})
}
