package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter/httphandler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	var cfg config.Config
	cfg.HTTPServerAddr = "127.0.0.1:0"
	cfg.Gateway.Backend = config.BackendMemory
	cfg.Assets.Backend = config.AssetsFS
	cfg.Assets.FSRoot = t.TempDir()
	cfg.Assets.PublicURL = "/assets"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Auth.Accounts = []config.Account{
		{Email: "admin@shop.test", PasswordHash: string(hash)},
	}
	return cfg
}

func TestNewMemoryBackend(t *testing.T) {
	app := New(t.Context(), memoryConfig(t))
	require.NotNil(t, app.handler)
	assert.Nil(t, app.events)
	assert.NotNil(t, app.gateways.files)

	login := httptest.NewRequest(
		http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"admin@shop.test","password":"secret"}`),
	)
	login.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, login)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp httphandler.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	list := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	list.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	app.handler.ServeHTTP(w, list)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	unauthorized := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	w = httptest.NewRecorder()
	app.handler.ServeHTTP(w, unauthorized)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	app.Close(t.Context())
}

func TestNewFallsDown(t *testing.T) {
	t.Run("UnknownBackend", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.Gateway.Backend = "mongo"
		assert.Panics(t, func() { New(t.Context(), cfg) })
	})

	t.Run("PlaintextPassword", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.Auth.Accounts[0].PasswordHash = "secret"
		assert.Panics(t, func() { New(t.Context(), cfg) })
	})
}
