package api

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/encoding"
	"github.com/uhyunpark/setcodec/pkg/exchange"
	"github.com/uhyunpark/setcodec/pkg/issuance"
	"github.com/uhyunpark/setcodec/pkg/metrics"
)

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleSerializeOrders(w http.ResponseWriter, r *http.Request) {
	var req SerializeOrdersRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.PaymentAmount == nil {
		s.respondError(w, r, http.StatusBadRequest, "missing paymentAmount", "")
		return
	}

	orders, err := exchange.DecodeRawOrders(req.Orders)
	if err != nil {
		s.respondCoreError(w, r, "serialize", err)
		return
	}
	buckets, err := exchange.Partition(orders)
	if err != nil {
		s.respondCoreError(w, r, "serialize", err)
		return
	}
	data, err := buckets.Encode(req.PaymentToken, (*big.Int)(req.PaymentAmount))
	if err != nil {
		s.respondCoreError(w, r, "serialize", err)
		return
	}

	venues := buckets.Venues()
	names := make([]string, len(venues))
	for i, v := range venues {
		names[i] = v.String()
		metrics.AddOrdersSerialized(v.String(), buckets.Len(v))
	}
	metrics.ObserveSerializedBytes(len(data))

	respondJSON(w, SerializeOrdersResponse{
		Data:   encoding.ToHex(data),
		Length: len(data),
		Venues: names,
	})
}

func (s *Server) handleHashIssuanceOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.decodeIssuanceOrder(w, r)
	if !ok {
		return
	}

	encoded, err := order.EncodeHex()
	if err != nil {
		s.respondCoreError(w, r, "issuance_hash", err)
		return
	}
	structHash, err := order.StructHash()
	if err != nil {
		s.respondCoreError(w, r, "issuance_hash", err)
		return
	}

	respondJSON(w, IssuanceHashResponse{
		Encoded:    encoded,
		StructHash: structHash,
		Digest:     s.hasher.MessageHash(structHash),
	})
}

func (s *Server) handleSignIssuanceOrder(w http.ResponseWriter, r *http.Request) {
	if s.signer == nil {
		s.respondError(w, r, http.StatusServiceUnavailable, "signing disabled", "no signer configured")
		return
	}
	order, ok := s.decodeIssuanceOrder(w, r)
	if !ok {
		return
	}

	start := time.Now()
	signed, err := issuance.Sign(r.Context(), s.signer, s.hasher, order)
	if errors.Is(err, crypto.ErrSigner) {
		metrics.IncSignerRequest("error")
	} else if err == nil {
		metrics.IncSignerRequest("ok")
		metrics.ObserveDuration(metrics.SignerLatency, start)
	}
	if err != nil {
		s.respondCoreError(w, r, "issuance_sign", err)
		return
	}

	digest, err := signed.Digest(s.hasher)
	if err != nil {
		s.respondCoreError(w, r, "issuance_sign", err)
		return
	}
	s.log.Infow("issuance_order_signed",
		"request_id", RequestID(r.Context()),
		"maker", order.MakerAddress.Hex(),
		"digest", digest.Hex())

	respondJSON(w, IssuanceSignResponse{
		Digest:       digest,
		Signer:       order.MakerAddress.Hex(),
		V:            signed.Signature.V,
		R:            signed.Signature.R,
		S:            signed.Signature.S,
		SignatureHex: signed.Signature.Hex(),
	})
}

func (s *Server) handleParseSignature(w http.ResponseWriter, r *http.Request) {
	var req ParseSignatureRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	sig, err := crypto.ParseSignatureHex(req.Signature)
	if err != nil {
		s.respondCoreError(w, r, "signature_parse", err)
		return
	}
	respondJSON(w, SignatureResponse{V: sig.V, R: sig.R, S: sig.S})
}

func (s *Server) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	d := s.hasher.Domain()
	respondJSON(w, DomainResponse{
		Name:       d.Name,
		Version:    d.Version,
		SchemaHash: crypto.DomainSeparatorSchemaHash(),
		DomainHash: s.hasher.DomainHash(),
	})
}

func (s *Server) handleGetSalt(w http.ResponseWriter, r *http.Request) {
	salt, err := issuance.GenerateSalt(nil)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to generate salt", err.Error())
		return
	}
	respondJSON(w, SaltResponse{Salt: salt.String()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":         "ok",
		"signingEnabled": s.signer != nil,
	})
}

// ==============================
// Helper Functions
// ==============================

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

func (s *Server) decodeIssuanceOrder(w http.ResponseWriter, r *http.Request) (*issuance.Order, bool) {
	var req IssuanceOrderRequest
	if !s.decodeBody(w, r, &req) {
		return nil, false
	}
	if req.Order == nil {
		s.respondError(w, r, http.StatusBadRequest, "missing order", "")
		return nil, false
	}
	return req.Order, true
}

// respondCoreError maps codec errors onto status codes.
func (s *Server) respondCoreError(w http.ResponseWriter, r *http.Request, component string, err error) {
	var (
		status int
		reason string
	)
	switch {
	case errors.Is(err, crypto.ErrSigner):
		status, reason = http.StatusBadGateway, "signer_error"
	case errors.Is(err, exchange.ErrUnclassifiableOrder):
		status, reason = http.StatusUnprocessableEntity, "unclassifiable_order"
	case errors.Is(err, crypto.ErrMalformedSignature):
		status, reason = http.StatusUnprocessableEntity, "malformed_signature"
	case errors.Is(err, encoding.ErrEncoding):
		status, reason = http.StatusUnprocessableEntity, "encoding_error"
	default:
		status, reason = http.StatusBadRequest, "bad_request"
	}

	metrics.IncError(component, reason)
	if status >= http.StatusInternalServerError {
		s.log.Warnw("request_failed",
			"request_id", RequestID(r.Context()),
			"component", component,
			"err", err)
	}
	s.respondError(w, r, status, reason, err.Error())
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:     error,
		Message:   message,
		RequestID: RequestID(r.Context()),
	})
}

