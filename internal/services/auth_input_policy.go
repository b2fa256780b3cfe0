package services

import (
	"net/mail"
	"strings"

	"github.com/terraincognita07/tenanto/internal/models"
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

// NormalizeRole defaults a blank role to landlord, the first option of the
// registration and login forms.
func NormalizeRole(raw string) (string, bool) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		return models.RoleLandlord, true
	}
	return role, models.IsKnownRole(role)
}
