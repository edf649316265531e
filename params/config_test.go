package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/setcodec/pkg/crypto"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, crypto.DefaultDomain(), cfg.EIP712Domain())
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 10*time.Second, cfg.Signer.Timeout)
	assert.Empty(t, cfg.Signer.RPCURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EIP712_DOMAIN_NAME", "Set Protocol")
	t.Setenv("EIP712_DOMAIN_VERSION", "2")
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SIGNER_TIMEOUT_MS", "250")
	t.Setenv("API_SHUTDOWN_TIMEOUT_MS", "not-a-number")

	cfg := LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "2", cfg.Domain.Version)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.Signer.Timeout)
	assert.Equal(t, 5*time.Second, cfg.API.ShutdownTimeout)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SIGNER_RPC_URL=http://127.0.0.1:8545\nLOG_LEVEL=debug\n"), 0o600))

	// godotenv never overrides variables that are already set
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("SIGNER_RPC_URL") })

	cfg := LoadFromEnv(path)
	assert.Equal(t, "http://127.0.0.1:8545", cfg.Signer.RPCURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}
