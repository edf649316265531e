package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/setcodec/pkg/crypto"
)

// maxBodyBytes caps request bodies; order batches are small.
const maxBodyBytes = 1 << 20

type Config struct {
	Hasher         *crypto.EIP712Hasher
	Signer         crypto.MessageSigner // nil disables /issuance/sign
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server exposes the codec over HTTP
type Server struct {
	router         *mux.Router
	hasher         *crypto.EIP712Hasher
	signer         crypto.MessageSigner
	allowedOrigins []string
	log            *zap.SugaredLogger
	httpServer     *http.Server
}

// NewServer creates a new API server
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = crypto.NewEIP712Hasher(crypto.DefaultDomain())
	}

	s := &Server{
		router:         mux.NewRouter(),
		hasher:         hasher,
		signer:         cfg.Signer,
		allowedOrigins: cfg.AllowedOrigins,
		log:            logger.Sugar(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestID, s.accessLog)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Encoding endpoints
	api.HandleFunc("/orders/serialize", s.handleSerializeOrders).Methods("POST")
	api.HandleFunc("/issuance/hash", s.handleHashIssuanceOrder).Methods("POST")
	api.HandleFunc("/issuance/sign", s.handleSignIssuanceOrder).Methods("POST")
	api.HandleFunc("/signatures/parse", s.handleParseSignature).Methods("POST")

	// Constants and generators
	api.HandleFunc("/eip712/domain", s.handleGetDomain).Methods("GET")
	api.HandleFunc("/salt", s.handleGetSalt).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Infow("api_server_listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
