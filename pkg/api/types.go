package api

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/uhyunpark/setcodec/pkg/issuance"
)

// ==============================
// Request Types
// ==============================

// SerializeOrdersRequest carries untyped venue orders; each one's venue is
// read off the keys it carries.
type SerializeOrdersRequest struct {
	PaymentToken  common.Address        `json:"paymentToken"`
	PaymentAmount *math.HexOrDecimal256 `json:"paymentAmount"`
	Orders        []json.RawMessage     `json:"orders"`
}

type IssuanceOrderRequest struct {
	Order *issuance.Order `json:"order"`
}

type ParseSignatureRequest struct {
	Signature string `json:"signature"` // 0x + 65 bytes
}

// ==============================
// Response Types
// ==============================

type SerializeOrdersResponse struct {
	Data   string   `json:"data"`   // 0x-prefixed order data
	Length int      `json:"length"` // bytes
	Venues []string `json:"venues"` // canonical order
}

type IssuanceHashResponse struct {
	Encoded    string      `json:"encoded"`
	StructHash common.Hash `json:"structHash"`
	Digest     common.Hash `json:"digest"`
}

type IssuanceSignResponse struct {
	Digest       common.Hash `json:"digest"`
	Signer       string      `json:"signer"`
	V            uint8       `json:"v"`
	R            common.Hash `json:"r"`
	S            common.Hash `json:"s"`
	SignatureHex string      `json:"signatureHex"`
}

type SignatureResponse struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

type DomainResponse struct {
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	SchemaHash common.Hash `json:"schemaHash"`
	DomainHash common.Hash `json:"domainHash"`
}

type SaltResponse struct {
	Salt string `json:"salt"` // decimal
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
