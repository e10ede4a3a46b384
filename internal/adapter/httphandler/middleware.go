package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

const (
	SessionCookie   = "admin_session"
	RequestIDHeader = "X-Request-Id"
)

// AllowMediaTypes rejects request bodies of other media types.
func AllowMediaTypes(types ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || !slices.Contains(types, mt) {
				http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hf)
	}
}

// AllowJSON accepts JSON bodies and multipart forms with image uploads.
func AllowJSON(next http.Handler) http.Handler {
	return AllowMediaTypes("application/json", "multipart/form-data")(next)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		slog.Info("request",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}

type sessionKey struct{}

func withSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session put by [RequireSession].
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.Session)
	return s, ok
}

// RequireSession authorizes the request by the session cookie or
// the bearer token. Unauthorized browser requests are redirected
// to loginPath, others get the error body.
func RequireSession(
	auth port.Authenticator, loginPath string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "RequireSession"
			log := slog.With("op", op)

			s, err := auth.Authorize(r.Context(), sessionToken(r))
			if err != nil {
				if wantsHTML(r) {
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				writeError(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
		}
		return http.HandlerFunc(hf)
	}
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
