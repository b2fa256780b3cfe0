package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/tenanto/internal/models"
	"github.com/terraincognita07/tenanto/internal/services"
)

var errUnauthenticated = errors.New("unauthenticated")

type authClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// authenticateRequest accepts the auth cookie only while it names the user
// holding the stored session; logging in elsewhere invalidates older cookies.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (models.User, error) {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		return models.User{}, errUnauthenticated
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return models.User{}, errUnauthenticated
	}
	if claims.ExpiresAt == nil {
		return models.User{}, errUnauthenticated
	}

	user, found, err := handler.stores.Sessions.CurrentSession(c.UserContext())
	if err != nil {
		return models.User{}, err
	}
	if !found || services.NormalizeAuthEmail(user.Email) != claims.Email || user.Role != claims.Role {
		return models.User{}, errUnauthenticated
	}
	return user, nil
}
