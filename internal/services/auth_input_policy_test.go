package services

import (
	"testing"

	"github.com/terraincognita07/tenanto/internal/models"
)

func TestNormalizeAuthEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "normalizes case and spaces", raw: " ALICE@X.COM ", want: "alice@x.com"},
		{name: "invalid email returns empty", raw: "not-email", want: ""},
		{name: "empty returns empty", raw: "   ", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeAuthEmail(testCase.raw); got != testCase.want {
				t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	if role, ok := NormalizeRole(""); !ok || role != models.RoleLandlord {
		t.Fatalf("expected blank role to default to landlord, got %q ok=%v", role, ok)
	}
	if role, ok := NormalizeRole(" Admin "); !ok || role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q ok=%v", role, ok)
	}
	if _, ok := NormalizeRole("tenant"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}
