package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/shop-admin/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("Plaintext", func(t *testing.T) {
		cfg, err := adapter.MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("MissingCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(filepath.Join(t.TempDir(), "ca.pem"), "", "")
		assert.Error(t, err)
	})

	t.Run("BrokenCA", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a pem"), 0o600))
		_, err := adapter.MakeTLSConfig(ca, "", "")
		assert.ErrorContains(t, err, "failed to parse CA certificate")
	})
}
