package security

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "zero length", length: 0, alphabet: ""},
		{name: "single character", length: 8, alphabet: "X"},
		{name: "password alphabet", length: 64, alphabet: TemporaryPasswordAlphabet},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d, %q) unexpected error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d", test.length, test.alphabet, len(got))
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}

func TestTemporaryPasswordAvoidsAmbiguousCharacters(t *testing.T) {
	for attempt := 0; attempt < 20; attempt++ {
		password, err := TemporaryPassword()
		if err != nil {
			t.Fatalf("TemporaryPassword() unexpected error: %v", err)
		}
		if len(password) != TemporaryPasswordLength {
			t.Fatalf("expected %d characters, got %q", TemporaryPasswordLength, password)
		}
		if strings.ContainsAny(password, "0O1lI") {
			t.Fatalf("unexpected ambiguous character in %q", password)
		}
	}
}
