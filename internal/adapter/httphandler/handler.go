package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest{"invalid JSON data"}
	}
	return nil
}

// queryBool reports whether the query parameter is set to a true value.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest{"invalid " + name + " parameter"}
	}
	return v, nil
}

func RegisterLanding(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		const op = "Landing"
		writeJSON(w, slog.With("op", op), http.StatusOK, Landing{
			Service: "shop-admin",
			Links: map[string]string{
				"login":    "/v1/auth/login",
				"orders":   "/v1/orders",
				"products": "/v1/products",
			},
		})
	})
}

// RegisterAssets serves stored images under /assets/.
func RegisterAssets(mux *http.ServeMux, files http.Handler) {
	if files == nil {
		panic(errors.New("RegisterAssets: files handler is nil")) // develop mistake
	}
	mux.Handle("GET /assets/", http.StripPrefix("/assets", files))
}
