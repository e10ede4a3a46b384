package credentials

import (
	"context"
	"fmt"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.CredentialVerifier = (*Store)(nil)

// dummyHash is compared against for unknown emails so that
// both failure paths take about the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

type Account struct {
	Email        string
	PasswordHash string
}

// A Store verifies operator credentials against bcrypt password hashes.
type Store struct {
	hashes map[string][]byte
}

func NewStore(accounts []Account) (Store, error) {
	const op = "credentials.NewStore"

	hashes := make(map[string][]byte, len(accounts))
	for _, a := range accounts {
		if _, err := bcrypt.Cost([]byte(a.PasswordHash)); err != nil {
			return Store{}, fmt.Errorf("%s: account %q: %w", op, a.Email, err)
		}
		hashes[a.Email] = []byte(a.PasswordHash)
	}
	return Store{hashes}, nil
}

func (s Store) Verify(ctx context.Context, email, password string) error {
	const op = "Store.Verify"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, ok := s.hashes[email]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}
	return nil
}

// HashPassword returns the bcrypt hash to put into the accounts config.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
