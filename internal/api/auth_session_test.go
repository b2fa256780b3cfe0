package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/models"
)

func TestHealthIsPublic(t *testing.T) {
	env := newTestApp(t)

	response := env.do(t, http.MethodGet, "/healthz", nil, "")
	expectStatus(t, response, http.StatusOK)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestApp(t)

	response := env.do(t, http.MethodGet, "/api/units", nil, "")
	expectStatus(t, response, http.StatusUnauthorized)
	payload := readAPIError(t, response.Body)
	if payload.Code != "unauthorized" || payload.Error != "Please log in first." {
		t.Fatalf("unexpected error payload %#v", payload)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/units", nil)
	request.Header.Set("Accept-Language", "sw-TZ,sw;q=0.9")
	localized, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("localized request failed: %v", err)
	}
	defer localized.Body.Close()
	if got := readAPIError(t, localized.Body).Error; got != "Tafadhali ingia kwanza." {
		t.Fatalf("expected swahili message, got %q", got)
	}

	forged := env.do(t, http.MethodGet, "/api/units", nil, "not-a-jwt")
	expectStatus(t, forged, http.StatusUnauthorized)
}

func TestRegisterLoginSessionAndLogout(t *testing.T) {
	env := newTestApp(t)
	cookie := env.loginLandlord(t)

	session := env.do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	expectStatus(t, session, http.StatusOK)
	payload := struct {
		User models.User `json:"user"`
	}{}
	decodeBody(t, session.Body, &payload)
	if payload.User.Name != "Amina" || payload.User.Email != "amina@example.com" || payload.User.PasswordHash != "" {
		t.Fatalf("unexpected session user %#v", payload.User)
	}

	logout := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	expectStatus(t, logout, http.StatusOK)

	// The cookie outlives the stored session but is no longer accepted.
	stale := env.do(t, http.MethodGet, "/api/auth/session", nil, cookie)
	expectStatus(t, stale, http.StatusUnauthorized)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	env := newTestApp(t)
	env.loginLandlord(t)

	missing := env.do(t, http.MethodPost, "/api/auth/register", fiber.Map{"name": "Juma"}, "")
	expectStatus(t, missing, http.StatusBadRequest)
	if payload := readAPIError(t, missing.Body); payload.Code != "missing_field" || payload.Detail == "" {
		t.Fatalf("unexpected error payload %#v", payload)
	}

	duplicate := env.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":     "Other",
		"email":    " AMINA@example.com ",
		"password": "secret-pass",
		"role":     "admin",
	}, "")
	expectStatus(t, duplicate, http.StatusConflict)
	if code := readAPIError(t, duplicate.Body).Code; code != "duplicate_email" {
		t.Fatalf("expected duplicate_email, got %q", code)
	}
}

func TestLoginRejectsWrongCredentialsAndRateLimits(t *testing.T) {
	env := newTestApp(t)
	cookie := env.loginLandlord(t)

	wrongRole := env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"name":     "Amina",
		"password": "secret-pass",
		"role":     "admin",
	}, "")
	expectStatus(t, wrongRole, http.StatusUnauthorized)
	if code := readAPIError(t, wrongRole.Body).Code; code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", code)
	}

	// A failed login leaves the existing session in place.
	expectStatus(t, env.do(t, http.MethodGet, "/api/auth/session", nil, cookie), http.StatusOK)

	for attempt := 1; attempt < loginAttemptLimit; attempt++ {
		response := env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"name":     "Amina",
			"password": "wrong",
			"role":     "landlord",
		}, "")
		expectStatus(t, response, http.StatusUnauthorized)
	}

	limited := env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"name":     "Amina",
		"password": "secret-pass",
		"role":     "landlord",
	}, "")
	expectStatus(t, limited, http.StatusTooManyRequests)
}
