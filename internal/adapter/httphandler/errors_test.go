package httphandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	wrap := func(errs ...error) error {
		err := errors.New("remote")
		for _, e := range errs {
			err = fmt.Errorf("op: %w: %w", e, err)
		}
		return err
	}

	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{"nil", nil, "", http.StatusOK},
		{"bad_request", badRequest{"invalid JSON data"}, "bad_request", http.StatusBadRequest},
		{"validation", wrap(domain.ErrValidation), "validation", http.StatusBadRequest},
		{"invalid_price", wrap(domain.ErrInvalidPrice), "invalid_price", http.StatusBadRequest},
		{"invalid_status", wrap(domain.ErrInvalidStatus), "invalid_status", http.StatusBadRequest},
		{"not_confirmed", wrap(domain.ErrNotConfirmed), "not_confirmed", http.StatusPreconditionRequired},
		{"credentials", wrap(domain.ErrInvalidCredentials), "invalid_credentials", http.StatusUnauthorized},
		{"unauthorized", wrap(domain.ErrUnauthorized), "unauthorized", http.StatusUnauthorized},
		{"expired", wrap(domain.ErrSessionExpired), "session_expired", http.StatusUnauthorized},
		{"not_found", wrap(domain.ErrNotFound), "not_found", http.StatusNotFound},
		{"update_not_found", wrap(domain.ErrNotFound, domain.ErrUpdate), "not_found", http.StatusNotFound},
		{"fetch", wrap(domain.ErrFetch), "fetch", http.StatusBadGateway},
		{"upload", wrap(domain.ErrUpload), "upload", http.StatusBadGateway},
		{"upload_invalid_image", wrap(domain.ErrInvalidImage, domain.ErrUpload), "invalid_image", http.StatusBadRequest},
		{"create", wrap(domain.ErrCreate), "create", http.StatusBadGateway},
		{"update", wrap(domain.ErrUpdate), "update", http.StatusBadGateway},
		{"delete", wrap(domain.ErrDelete), "delete", http.StatusBadGateway},
		{"fetch_over_timeout", wrap(domain.ErrFetch, context.DeadlineExceeded), "fetch", http.StatusBadGateway},
		{"deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), "timeout", http.StatusGatewayTimeout},
		{"internal", errors.New("boom"), "internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, errorKind(tt.err))
			assert.Equal(t, tt.wantStatus, httpStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "This action cannot be undone!", errorMessage(domain.ErrNotConfirmed))
	assert.Equal(t, "All fields are required", errorMessage(domain.ErrValidation))
	assert.Equal(t, "invalid JSON data", errorMessage(badRequest{"invalid JSON data"}))
	assert.Equal(t, "Internal error", errorMessage(errors.New("secret detail")))
}
