package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.Authenticator = (*Auth)(nil)

type Auth struct {
	verifier port.CredentialVerifier
	sessions port.SessionStore
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

func NewAuth(
	verifier port.CredentialVerifier,
	sessions port.SessionStore,
	ttl time.Duration,
) Auth {
	return Auth{
		verifier: verifier,
		sessions: sessions,
		ttl:      ttl,
		now:      utcNow,
		newToken: uuid.NewString,
	}
}

func (s Auth) Authenticate(
	ctx context.Context, email, password string,
) (domain.Session, error) {
	const op = "Auth.Authenticate"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.verifier.Verify(ctx, email, password); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	session := domain.Session{
		Token:     s.newToken(),
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

func (s Auth) Authorize(ctx context.Context, token string) (domain.Session, error) {
	const op = "Auth.Authorize"

	if token == "" {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}

	session, err := s.sessions.Load(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			return domain.Session{}, fmt.Errorf("%s: %w", op, err)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrSessionExpired)
	}
	return session, nil
}

func (s Auth) Logout(ctx context.Context, token string) error {
	const op = "Auth.Logout"

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
