package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

// kinder is satisfied by request errors that carry their own kind.
type kinder interface {
	Kind() string
}

type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }
func (e badRequest) Kind() string  { return "bad_request" }

var kinds = []struct {
	err  error
	kind string
}{
	{domain.ErrNotConfirmed, "not_confirmed"},
	{domain.ErrValidation, "validation"},
	{domain.ErrInvalidPrice, "invalid_price"},
	{domain.ErrInvalidStatus, "invalid_status"},
	{domain.ErrInvalidCredentials, "invalid_credentials"},
	{domain.ErrSessionExpired, "session_expired"},
	{domain.ErrUnauthorized, "unauthorized"},
	{domain.ErrNotFound, "not_found"},
	{domain.ErrInvalidImage, "invalid_image"},
	{domain.ErrUpload, "upload"},
	{domain.ErrCreate, "create"},
	{domain.ErrUpdate, "update"},
	{domain.ErrDelete, "delete"},
	{domain.ErrFetch, "fetch"},
	{context.DeadlineExceeded, "timeout"},
	{context.Canceled, "canceled"},
}

var kindToStatus = map[string]int{
	"bad_request":         http.StatusBadRequest,
	"validation":          http.StatusBadRequest,
	"invalid_price":       http.StatusBadRequest,
	"invalid_status":      http.StatusBadRequest,
	"invalid_image":       http.StatusBadRequest,
	"not_confirmed":       http.StatusPreconditionRequired,
	"invalid_credentials": http.StatusUnauthorized,
	"unauthorized":        http.StatusUnauthorized,
	"session_expired":     http.StatusUnauthorized,
	"not_found":           http.StatusNotFound,
	"upload":              http.StatusBadGateway,
	"create":              http.StatusBadGateway,
	"update":              http.StatusBadGateway,
	"delete":              http.StatusBadGateway,
	"fetch":               http.StatusBadGateway,
	"timeout":             http.StatusGatewayTimeout,
	"canceled":            http.StatusRequestTimeout,
}

var kindToMessage = map[string]string{
	"validation":          "All fields are required",
	"invalid_price":       "Price must be a number",
	"invalid_status":      "Unknown order status",
	"invalid_image":       "File is not a supported image",
	"not_confirmed":       "This action cannot be undone!",
	"invalid_credentials": "Invalid email or password",
	"unauthorized":        "Login required",
	"session_expired":     "Session expired, login again",
	"not_found":           "Not found",
	"upload":              "Image upload failed",
	"create":              "Something went wrong while creating",
	"update":              "Something went wrong while updating",
	"delete":              "Something went wrong while deleting",
	"fetch":               "Failed to fetch data",
	"timeout":             "Remote service timed out",
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	for _, c := range kinds {
		if errors.Is(err, c.err) {
			return c.kind
		}
	}
	return "internal"
}

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := kindToStatus[errorKind(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	kind := errorKind(err)
	if kind == "bad_request" {
		return err.Error()
	}
	if msg, ok := kindToMessage[kind]; ok {
		return msg
	}
	return "Internal error"
}

// writeError logs err and writes the error body.
// Client errors are logged at warn level.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := httpStatus(err)
	kind := errorKind(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "kind", kind, "err", err)
	} else {
		log.Warn("request rejected", "kind", kind, "err", err)
	}

	writeJSON(w, log, status, ErrorBody{Error: ErrorDetail{
		Kind:    kind,
		Message: errorMessage(err),
	}})
}
