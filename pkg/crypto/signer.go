package crypto

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSigner wraps any failure reported by a signing collaborator.
var ErrSigner = errors.New("signer error")

// MessageSigner is the key-holding collaborator. SignMessage has eth_sign
// semantics: the signer applies the "\x19Ethereum Signed Message:\n" prefix
// to message before signing and returns a raw 65-byte signature.
type MessageSigner interface {
	SignMessage(ctx context.Context, signer common.Address, message []byte) ([]byte, error)
}

// Sign asks signer for a signature over message and returns it in canonical
// form. The collaborator is called exactly once; its errors (including
// context cancellation) are returned wrapped in ErrSigner and never retried,
// because re-signing with fresh inputs would change the digest.
func Sign(ctx context.Context, signer MessageSigner, address common.Address, message []byte) (ECSig, error) {
	raw, err := signer.SignMessage(ctx, address, message)
	if err != nil {
		return ECSig{}, fmt.Errorf("%w: %w", ErrSigner, err)
	}
	return ParseSignature(normalizeRecoveryID(raw))
}

// KeySigner holds a local secp256k1 key pair.
type KeySigner struct {
	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey
	address    common.Address
}

// GenerateKey creates a new random secp256k1 key pair
func GenerateKey() (*KeySigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newKeySigner(privateKey)
}

// FromPrivateKeyHex creates a KeySigner from a hex-encoded private key
// Format: "0x1234..." or "1234..." (64 hex chars)
func FromPrivateKeyHex(hexKey string) (*KeySigner, error) {
	if len(hexKey) >= 2 && hexKey[:2] == "0x" {
		hexKey = hexKey[2:]
	}
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return newKeySigner(privateKey)
}

func newKeySigner(privateKey *ecdsa.PrivateKey) (*KeySigner, error) {
	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast public key to ECDSA")
	}
	return &KeySigner{
		privateKey: privateKey,
		publicKey:  publicKeyECDSA,
		address:    crypto.PubkeyToAddress(*publicKeyECDSA),
	}, nil
}

// Address returns the Ethereum address derived from the public key
func (s *KeySigner) Address() common.Address {
	return s.address
}

// PrivateKeyHex returns the private key as hex string (WITHOUT 0x prefix)
// WARNING: Keep this secret! Never expose to users or logs
func (s *KeySigner) PrivateKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(s.privateKey))
}

// PublicKeyHex returns the public key as hex string (uncompressed, 130 chars)
func (s *KeySigner) PublicKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSAPub(s.publicKey))
}

// SignHash signs a 32-byte digest as-is.
// Returns signature in [R || S || V] format with V = 27 or 28.
func (s *KeySigner) SignHash(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}

	signature, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	signature[64] += recoveryIDOffset
	return signature, nil
}

// SignMessage implements MessageSigner with the eth_sign prefix.
func (s *KeySigner) SignMessage(ctx context.Context, signer common.Address, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if signer != s.address {
		return nil, fmt.Errorf("key for %s cannot sign for %s", s.address.Hex(), signer.Hex())
	}
	return s.SignHash(accounts.TextHash(message))
}

var _ MessageSigner = (*KeySigner)(nil)

// RecoverAddress recovers the signer's address from a digest and a 27/28 signature
func RecoverAddress(hash []byte, signature []byte) (common.Address, error) {
	if len(hash) != 32 {
		return common.Address{}, fmt.Errorf("invalid hash length: %d", len(hash))
	}
	sig, err := ParseSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	publicKey, err := crypto.SigToPub(hash, sig.recoverable())
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*publicKey), nil
}

// RecoverMessageSigner recovers the address behind an eth_sign style signature over message.
func RecoverMessageSigner(message []byte, signature []byte) (common.Address, error) {
	return RecoverAddress(accounts.TextHash(message), signature)
}

// VerifySignature reports whether signature over hash was produced by address
func VerifySignature(address common.Address, hash []byte, signature []byte) bool {
	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		return false
	}
	return recovered == address
}
