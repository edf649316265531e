package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCSigner delegates signing to a node or remote signer exposing eth_sign.
type RPCSigner struct {
	client  *rpc.Client
	timeout time.Duration
}

// NewRPCSigner wraps an existing client. A zero timeout leaves deadlines to the caller's context.
func NewRPCSigner(client *rpc.Client, timeout time.Duration) *RPCSigner {
	return &RPCSigner{client: client, timeout: timeout}
}

// DialRPCSigner connects to an eth_sign endpoint (http, ws or ipc).
func DialRPCSigner(ctx context.Context, url string, timeout time.Duration) (*RPCSigner, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial signer %s: %w", url, err)
	}
	return NewRPCSigner(client, timeout), nil
}

// SignMessage calls eth_sign(signer, message). The endpoint applies the
// personal-message prefix itself.
func (s *RPCSigner) SignMessage(ctx context.Context, signer common.Address, message []byte) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var sig hexutil.Bytes
	if err := s.client.CallContext(ctx, &sig, "eth_sign", signer, hexutil.Bytes(message)); err != nil {
		return nil, err
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("eth_sign returned %d bytes, want %d", len(sig), SignatureLength)
	}
	return sig, nil
}

// Close releases the underlying connection.
func (s *RPCSigner) Close() {
	s.client.Close()
}

var _ MessageSigner = (*RPCSigner)(nil)
