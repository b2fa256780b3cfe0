package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/tenanto/internal/api"
	"github.com/terraincognita07/tenanto/internal/i18n"
	"github.com/terraincognita07/tenanto/internal/kvstore"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

func TestResolveSecretKey(t *testing.T) {
	for _, invalid := range []string{"", "change_me_in_production", "replace_with_at_least_32_random_characters", "too-short-secret"} {
		t.Setenv("SECRET_KEY", invalid)
		if _, err := resolveSecretKey(); err == nil {
			t.Fatalf("expected error for SECRET_KEY %q", invalid)
		}
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", valid)
	secret, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	t.Setenv("PORT", "")
	port, err := resolvePort()
	if err != nil {
		t.Fatalf("expected default port, got error: %v", err)
	}
	if port != "8080" {
		t.Fatalf("expected default port 8080, got %q", port)
	}

	t.Setenv("PORT", "9090")
	if port, err = resolvePort(); err != nil || port != "9090" {
		t.Fatalf("expected port 9090, got %q (%v)", port, err)
	}

	for _, invalid := range []string{"0", "70000", "not-a-number"} {
		t.Setenv("PORT", invalid)
		if _, err := resolvePort(); err == nil {
			t.Fatalf("expected invalid port %q to fail", invalid)
		}
	}
}

func TestResolveStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("REDIS_DB", "")
	config, err := resolveStorage()
	if err != nil {
		t.Fatalf("resolveStorage() unexpected error: %v", err)
	}
	if config.Driver != storageSQLite || config.DBPath != filepath.Join("data", "tenanto.db") {
		t.Fatalf("unexpected default storage %#v", config)
	}

	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "2")
	config, err = resolveStorage()
	if err != nil {
		t.Fatalf("resolveStorage() unexpected error: %v", err)
	}
	if config.Driver != storageRedis || config.Redis.DB != 2 || config.Redis.Prefix != kvstore.DefaultRedisPrefix {
		t.Fatalf("unexpected redis storage %#v", config)
	}

	t.Setenv("REDIS_DB", "-1")
	if _, err := resolveStorage(); err == nil {
		t.Fatal("expected negative REDIS_DB to fail")
	}

	t.Setenv("REDIS_DB", "")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := resolveStorage(); err == nil {
		t.Fatal("expected postgres without DATABASE_URL to fail")
	}

	t.Setenv("STORAGE_DRIVER", "floppy")
	if _, err := resolveStorage(); err == nil {
		t.Fatal("expected unknown driver to fail")
	}
}

func TestResolveCookieSecure(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "")
	if secure, err := resolveCookieSecure(); err != nil || secure {
		t.Fatalf("expected insecure default, got %v (%v)", secure, err)
	}
	t.Setenv("COOKIE_SECURE", "true")
	if secure, err := resolveCookieSecure(); err != nil || !secure {
		t.Fatalf("expected secure cookies, got %v (%v)", secure, err)
	}
	t.Setenv("COOKIE_SECURE", "maybe")
	if _, err := resolveCookieSecure(); err == nil {
		t.Fatal("expected invalid COOKIE_SECURE to fail")
	}
}

func TestNewServerServesHealth(t *testing.T) {
	manager, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	stores := services.NewStores(kvstore.NewMemory(), zap.NewNop())
	handler, err := api.NewHandler(stores, "0123456789abcdef0123456789abcdef", time.UTC, manager, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHandler() unexpected error: %v", err)
	}

	response, err := newServer(handler).Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
}

func TestImportExportCommandsRoundTripThroughSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", storageSQLite)
	t.Setenv("DB_PATH", filepath.Join(dir, "tenanto.db"))
	t.Setenv("LOG_LEVEL", "error")

	dumpPath := filepath.Join(dir, "dump.json")
	dump := `{"units":"[{\"id\":\"G1\",\"tenant\":\"Vacant\",\"status\":\"vacant\",\"grace\":0,\"power\":false}]","users":"[]"}`
	if err := os.WriteFile(dumpPath, []byte(dump), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	var importOut bytes.Buffer
	importRoot := newRootCommand()
	importRoot.SetOut(&importOut)
	importRoot.SetArgs([]string{"import", dumpPath})
	if err := importRoot.Execute(); err != nil {
		t.Fatalf("import command unexpected error: %v", err)
	}
	if !strings.Contains(importOut.String(), "Imported 2 keys") {
		t.Fatalf("unexpected import output %q", importOut.String())
	}

	var exportOut bytes.Buffer
	exportRoot := newRootCommand()
	exportRoot.SetOut(&exportOut)
	exportRoot.SetArgs([]string{"export", "-"})
	if err := exportRoot.Execute(); err != nil {
		t.Fatalf("export command unexpected error: %v", err)
	}

	exported := map[string]string{}
	if err := json.Unmarshal(exportOut.Bytes(), &exported); err != nil {
		t.Fatalf("decode exported dump %q: %v", exportOut.String(), err)
	}
	if len(exported) != 2 || exported["users"] != "[]" || !strings.Contains(exported["units"], `"G1"`) {
		t.Fatalf("unexpected exported dump %#v", exported)
	}
}
