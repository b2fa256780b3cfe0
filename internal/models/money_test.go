package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "300000", want: "300000"},
		{raw: "300,000", want: "300000"},
		{raw: "TZS 450000", want: "450000"},
		{raw: " 12.50 ", want: "12.5"},
		{raw: "Tsh 1,000", want: "1000"},
		{raw: "300000/=", want: "300000"},
	}

	for _, testCase := range tests {
		got, err := ParseMoney(testCase.raw)
		if err != nil {
			t.Fatalf("ParseMoney(%q) unexpected error: %v", testCase.raw, err)
		}
		if got.String() != testCase.want {
			t.Fatalf("ParseMoney(%q) = %s, want %s", testCase.raw, got, testCase.want)
		}
	}
}

func TestParseMoneyRejectsBlankAndText(t *testing.T) {
	if _, err := ParseMoney("   "); !errors.Is(err, ErrInvalidMoney) {
		t.Fatalf("expected ErrInvalidMoney for blank input, got %v", err)
	}
	for _, raw := range []string{"a lot", "-500", "abc5xyz", "5 apples", "12.5.1"} {
		if _, err := ParseMoney(raw); !errors.Is(err, ErrInvalidMoney) {
			t.Fatalf("ParseMoney(%q) expected ErrInvalidMoney, got %v", raw, err)
		}
	}
}

func TestMoneyJSONKeepsUnreadableText(t *testing.T) {
	var tenant Tenant
	if err := json.Unmarshal([]byte(`{"name":"Neema","rent":"negotiable"}`), &tenant); err != nil {
		t.Fatalf("unmarshal tenant: %v", err)
	}
	text, unreadable := tenant.Rent.Unreadable()
	if !unreadable || text != "negotiable" || !tenant.Rent.Decimal.IsZero() {
		t.Fatalf("expected unreadable rent counted as zero, got %q %v %s", text, unreadable, tenant.Rent.Decimal)
	}
	if tenant.Rent.IsZero() {
		t.Fatal("expected unreadable rent not to count as missing")
	}

	encoded, err := json.Marshal(tenant.Rent)
	if err != nil {
		t.Fatalf("marshal rent: %v", err)
	}
	if string(encoded) != `"negotiable"` {
		t.Fatalf("expected text written back unchanged, got %s", encoded)
	}
}

func TestMoneyJSONUsesQuotedString(t *testing.T) {
	var transaction Transaction
	if err := json.Unmarshal([]byte(`{"date":"2025-07-01","status":"Paid","amount":250000}`), &transaction); err != nil {
		t.Fatalf("unmarshal transaction: %v", err)
	}
	if transaction.Amount.String() != "250000" {
		t.Fatalf("expected numeric amount to decode, got %s", transaction.Amount)
	}

	encoded, err := json.Marshal(transaction)
	if err != nil {
		t.Fatalf("marshal transaction: %v", err)
	}
	want := `{"date":"2025-07-01","status":"Paid","amount":"250000"}`
	if string(encoded) != want {
		t.Fatalf("expected %s, got %s", want, encoded)
	}
}
