package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/terraincognita07/tenanto/internal/services"
)

// RunResetPasswordCommand replaces the password of the account registered
// with email and prints the temporary password to out.
func RunResetPasswordCommand(ctx context.Context, sessions *services.SessionStore, email string, out io.Writer) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	temporaryPassword, err := sessions.ResetPassword(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "Share it with the account owner and ask them to log in with it.")
	return nil
}
