package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/terraincognita07/tenanto/internal/models"
	"github.com/terraincognita07/tenanto/internal/security"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type SessionStore struct {
	ledger   *ledger
	hashCost int
}

func newSessionStore(shared *ledger) *SessionStore {
	return &SessionStore{ledger: shared, hashCost: bcrypt.DefaultCost}
}

func (store *SessionStore) Register(ctx context.Context, name string, email string, password string, role string) (models.User, error) {
	name = strings.TrimSpace(name)
	rawEmail := strings.TrimSpace(email)
	missing := make([]string, 0, 3)
	if name == "" {
		missing = append(missing, "name")
	}
	if rawEmail == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return models.User{}, missingFieldError(missing)
	}

	normalizedEmail := NormalizeAuthEmail(rawEmail)
	if normalizedEmail == "" {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidEmail, rawEmail)
	}
	normalizedRole, ok := NormalizeRole(role)
	if !ok {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), store.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Name:         name,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		Role:         normalizedRole,
	}

	err = store.ledger.mutate(func() error {
		users, err := loadCollection[models.User](ctx, store.ledger, KeyUsers)
		if err != nil {
			return err
		}
		for _, existing := range users {
			if NormalizeAuthEmail(existing.Email) == normalizedEmail {
				return fmt.Errorf("%w: %s", ErrDuplicateEmail, normalizedEmail)
			}
		}
		return store.ledger.save(ctx, KeyUsers, append(users, user))
	})
	if err != nil {
		return models.User{}, err
	}

	store.ledger.logger.Info("user registered", zap.String("email", normalizedEmail), zap.String("role", normalizedRole))
	return user.Public(), nil
}

// Login opens the single active session. Name and role must match a stored
// user exactly; records still holding a plaintext password are rehashed on
// success.
func (store *SessionStore) Login(ctx context.Context, name string, password string, role string) (models.User, error) {
	normalizedRole, ok := NormalizeRole(role)
	if !ok || name == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	var authenticated models.User
	err := store.ledger.mutate(func() error {
		users, err := loadCollection[models.User](ctx, store.ledger, KeyUsers)
		if err != nil {
			return err
		}

		for index := range users {
			candidate := &users[index]
			if candidate.Name != name || candidate.Role != normalizedRole {
				continue
			}
			upgraded, matched := store.verifyPassword(candidate, password)
			if !matched {
				continue
			}
			if upgraded {
				if err := store.ledger.save(ctx, KeyUsers, users); err != nil {
					return err
				}
				store.ledger.logger.Info("upgraded legacy plaintext credential", zap.String("email", candidate.Email))
			}
			authenticated = candidate.Public()
			return store.ledger.save(ctx, KeyCurrentUser, authenticated)
		}
		return ErrInvalidCredentials
	})
	if err != nil {
		return models.User{}, err
	}
	return authenticated, nil
}

func (store *SessionStore) verifyPassword(user *models.User, password string) (bool, bool) {
	if user.PasswordHash != "" {
		return false, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	if user.Password == "" || subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return false, false
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), store.hashCost)
	if err != nil {
		store.ledger.logger.Warn("rehash legacy password failed", zap.Error(err))
		return false, true
	}
	user.PasswordHash = string(passwordHash)
	user.Password = ""
	return true, true
}

func (store *SessionStore) Logout(ctx context.Context) error {
	return store.ledger.mutate(func() error {
		return store.ledger.remove(ctx, KeyCurrentUser)
	})
}

func (store *SessionStore) CurrentSession(ctx context.Context) (models.User, bool, error) {
	user, found, err := loadRecord[models.User](ctx, store.ledger, KeyCurrentUser)
	if err != nil || !found {
		return models.User{}, false, err
	}
	return user.Public(), true, nil
}

// ResetPassword replaces the password of the user with the given email by a
// random temporary one and returns it.
func (store *SessionStore) ResetPassword(ctx context.Context, email string) (string, error) {
	normalizedEmail := NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	temporaryPassword, err := security.TemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), store.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash temporary password: %w", err)
	}

	err = store.ledger.mutate(func() error {
		users, err := loadCollection[models.User](ctx, store.ledger, KeyUsers)
		if err != nil {
			return err
		}
		for index := range users {
			if NormalizeAuthEmail(users[index].Email) != normalizedEmail {
				continue
			}
			users[index].PasswordHash = string(passwordHash)
			users[index].Password = ""
			return store.ledger.save(ctx, KeyUsers, users)
		}
		return fmt.Errorf("%w: user %s", ErrNotFound, normalizedEmail)
	})
	if err != nil {
		return "", err
	}
	return temporaryPassword, nil
}
