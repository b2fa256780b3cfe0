package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tenanto/internal/i18n"
	"github.com/terraincognita07/tenanto/internal/kvstore"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app    *fiber.App
	stores *services.Stores
	kv     *kvstore.Memory
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	kv := kvstore.NewMemory()
	stores := services.NewStores(kv, zap.NewNop())
	manager, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	handler, err := NewHandler(stores, testSecretKey, time.UTC, manager, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHandler() unexpected error: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return testApp{app: app, stores: stores, kv: kv}
}

func (env testApp) do(t *testing.T, method string, path string, body any, authCookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { response.Body.Close() })
	return response
}

// loginLandlord registers a landlord account, logs in and returns the auth
// cookie value.
func (env testApp) loginLandlord(t *testing.T) string {
	t.Helper()

	register := env.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":     "Amina",
		"email":    "amina@example.com",
		"password": "secret-pass",
		"role":     "landlord",
	}, "")
	expectStatus(t, register, http.StatusCreated)

	login := env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"name":     "Amina",
		"password": "secret-pass",
		"role":     "landlord",
	}, "")
	expectStatus(t, login, http.StatusOK)

	cookie := responseCookieValue(login.Cookies(), authCookieName)
	if cookie == "" {
		t.Fatal("expected auth cookie after login")
	}
	return cookie
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, body)
	}
}

func decodeBody(t *testing.T, body io.Reader, target any) {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", raw, err)
	}
}

type apiErrorPayload struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func readAPIError(t *testing.T, body io.Reader) apiErrorPayload {
	t.Helper()
	payload := apiErrorPayload{}
	decodeBody(t, body, &payload)
	return payload
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
