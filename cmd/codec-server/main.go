package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uhyunpark/setcodec/params"
	"github.com/uhyunpark/setcodec/pkg/api"
	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	logger, err := util.Build(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Hash engine ----
	hasher := crypto.NewEIP712Hasher(cfg.EIP712Domain())
	sugar.Infow("eip712_domain",
		"name", cfg.Domain.Name,
		"version", cfg.Domain.Version,
		"domain_hash", hasher.DomainHash().Hex())

	// ---- Signer (optional) ----
	signer, closeSigner := newSigner(ctx, cfg.Signer, sugar)
	defer closeSigner()

	// ---- API Server ----
	apiServer := api.NewServer(api.Config{
		Hasher:         hasher,
		Signer:         signer,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("api_server_starting", "addr", cfg.API.Addr)
		errCh <- apiServer.Start(cfg.API.Addr)
	}()

	select {
	case <-ctx.Done():
		sugar.Infow("shutdown_requested")
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("api_server_shutdown_failed", "err", err)
	}
	sugar.Infow("api_server_stopped")
}

// newSigner returns nil when no signer is configured; the sign endpoint then answers 503.
func newSigner(ctx context.Context, cfg params.Signer, sugar *zap.SugaredLogger) (crypto.MessageSigner, func()) {
	switch {
	case cfg.RPCURL != "":
		s, err := crypto.DialRPCSigner(ctx, cfg.RPCURL, cfg.Timeout)
		if err != nil {
			sugar.Fatalw("signer_dial_failed", "url", cfg.RPCURL, "err", err)
		}
		sugar.Infow("signer_enabled", "kind", "rpc", "url", cfg.RPCURL, "timeout_ms", cfg.Timeout.Milliseconds())
		return s, s.Close
	case cfg.PrivateKey != "":
		s, err := crypto.FromPrivateKeyHex(cfg.PrivateKey)
		if err != nil {
			sugar.Fatalw("signer_key_invalid", "err", err)
		}
		sugar.Infow("signer_enabled", "kind", "local_key", "address", s.Address().Hex())
		return s, func() {}
	default:
		sugar.Info("signer_disabled - /api/v1/issuance/sign will return 503")
		return nil, func() {}
	}
}
