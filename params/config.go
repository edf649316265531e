package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/uhyunpark/setcodec/pkg/crypto"
)

type Domain struct {
	Name    string
	Version string
}

type API struct {
	Addr           string
	AllowedOrigins []string
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
}

// Signer selects the collaborator used by the sign endpoints.
// RPCURL wins over PrivateKey; with neither set signing is disabled.
type Signer struct {
	RPCURL     string
	Timeout    time.Duration
	PrivateKey string // hex, devnet only
}

type Log struct {
	File  string
	Level string
}

type Config struct {
	Domain Domain
	API    API
	Signer Signer
	Log    Log
}

func Default() Config {
	return Config{
		Domain: Domain{
			Name:    crypto.DefaultDomainName,
			Version: crypto.DefaultDomainVersion,
		},
		API: API{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:3001"},
			ShutdownTimeout: 5 * time.Second,
		},
		Signer: Signer{
			Timeout: 10 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	cfg.Domain.Name = getEnv("EIP712_DOMAIN_NAME", cfg.Domain.Name)
	cfg.Domain.Version = getEnv("EIP712_DOMAIN_VERSION", cfg.Domain.Version)

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.API.AllowedOrigins = splitList(origins)
	}
	cfg.API.ShutdownTimeout = getMillis("API_SHUTDOWN_TIMEOUT_MS", cfg.API.ShutdownTimeout)

	cfg.Signer.RPCURL = getEnv("SIGNER_RPC_URL", cfg.Signer.RPCURL)
	cfg.Signer.Timeout = getMillis("SIGNER_TIMEOUT_MS", cfg.Signer.Timeout)
	cfg.Signer.PrivateKey = getEnv("SIGNER_PRIVATE_KEY", cfg.Signer.PrivateKey)

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg
}

// EIP712Domain converts the configured domain for the hash engine.
func (c Config) EIP712Domain() crypto.EIP712Domain {
	return crypto.EIP712Domain{Name: c.Domain.Name, Version: c.Domain.Version}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMillis reads a millisecond count; unparsable values keep the default.
func getMillis(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
