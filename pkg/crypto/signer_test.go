package crypto

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
)

func TestGenerateKey(t *testing.T) {
	signer, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	if signer.Address() == (common.Address{}) {
		t.Error("generated zero address")
	}

	if privHex := signer.PrivateKeyHex(); len(privHex) != 64 {
		t.Errorf("private key hex length = %d, want 64", len(privHex))
	}

	// 04 prefix + 64 bytes uncompressed
	if pubHex := signer.PublicKeyHex(); len(pubHex) != 130 {
		t.Errorf("public key hex length = %d, want 130", len(pubHex))
	}
}

func TestFromPrivateKeyHex(t *testing.T) {
	signer1, _ := GenerateKey()
	privHex := signer1.PrivateKeyHex()

	for _, in := range []string{privHex, "0x" + privHex} {
		signer2, err := FromPrivateKeyHex(in)
		if err != nil {
			t.Fatalf("failed to load key %q: %v", in, err)
		}
		if signer2.Address() != signer1.Address() {
			t.Errorf("address = %s, want %s", signer2.Address().Hex(), signer1.Address().Hex())
		}
	}

	if _, err := FromPrivateKeyHex("not-a-key"); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestSignHashAndVerify(t *testing.T) {
	signer, _ := GenerateKey()
	hash := eth_crypto.Keccak256([]byte("Hello, settlement!"))

	signature, err := signer.SignHash(hash)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if len(signature) != SignatureLength {
		t.Fatalf("signature length = %d, want %d", len(signature), SignatureLength)
	}
	if v := signature[64]; v != 27 && v != 28 {
		t.Errorf("v = %d, want 27 or 28", v)
	}

	if !VerifySignature(signer.Address(), hash, signature) {
		t.Error("signature verification failed")
	}

	wrongAddr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	if VerifySignature(wrongAddr, hash, signature) {
		t.Error("signature should not verify with wrong address")
	}
}

func TestSignHashRejectsShortDigest(t *testing.T) {
	signer, _ := GenerateKey()
	if _, err := signer.SignHash([]byte("short")); err == nil {
		t.Error("expected error for non-32-byte hash")
	}
}

func TestSignMessageRecovers(t *testing.T) {
	signer, _ := GenerateKey()
	message := eth_crypto.Keccak256([]byte("digest"))

	raw, err := signer.SignMessage(context.Background(), signer.Address(), message)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	recovered, err := RecoverMessageSigner(message, raw)
	if err != nil {
		t.Fatalf("failed to recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}

	// The prefixed digest is what was signed, not the message itself.
	if VerifySignature(signer.Address(), message, raw) {
		t.Error("unprefixed digest should not verify")
	}
}

func TestSignMessageForeignAddress(t *testing.T) {
	signer, _ := GenerateKey()
	other := common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")

	if _, err := signer.SignMessage(context.Background(), other, []byte("m")); err == nil {
		t.Error("expected error when signing for another address")
	}
}

type failingSigner struct{ err error }

func (f failingSigner) SignMessage(context.Context, common.Address, []byte) ([]byte, error) {
	return nil, f.err
}

type staticSigner struct{ sig []byte }

func (s staticSigner) SignMessage(context.Context, common.Address, []byte) ([]byte, error) {
	return s.sig, nil
}

func TestSign(t *testing.T) {
	signer, _ := GenerateKey()
	message := eth_crypto.Keccak256([]byte("issuance"))

	sig, err := Sign(context.Background(), signer, signer.Address(), message)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	recovered, err := RecoverMessageSigner(message, sig.Bytes())
	if err != nil {
		t.Fatalf("failed to recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestSign_PropagatesCollaboratorFailure(t *testing.T) {
	tests := []struct {
		name  string
		cause error
	}{
		{"opaque", errors.New("keystore locked")},
		{"timeout", context.DeadlineExceeded},
		{"cancelled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sign(context.Background(), failingSigner{tt.cause}, common.Address{}, []byte("m"))
			if !errors.Is(err, ErrSigner) {
				t.Errorf("error = %v, want ErrSigner", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestSign_NormalizesRecoveryID(t *testing.T) {
	raw := make([]byte, SignatureLength)
	raw[0], raw[32], raw[64] = 0xaa, 0xbb, 1

	sig, err := Sign(context.Background(), staticSigner{raw}, common.Address{}, []byte("m"))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if sig.V != 28 {
		t.Errorf("v = %d, want 28", sig.V)
	}
	if raw[64] != 1 {
		t.Error("collaborator output was mutated")
	}
}

func TestSign_RejectsMalformedCollaboratorOutput(t *testing.T) {
	_, err := Sign(context.Background(), staticSigner{[]byte{1, 2, 3}}, common.Address{}, []byte("m"))
	if !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("error = %v, want ErrMalformedSignature", err)
	}
}

func TestRecoverAddress_InvalidInput(t *testing.T) {
	signer, _ := GenerateKey()
	hash := common.BytesToHash([]byte("test")).Bytes()

	if VerifySignature(signer.Address(), hash, []byte{1, 2, 3}) {
		t.Error("invalid signature should not verify")
	}

	validSig := make([]byte, SignatureLength)
	validSig[64] = 27
	if VerifySignature(signer.Address(), []byte("short"), validSig) {
		t.Error("invalid hash should not verify")
	}

	if _, err := RecoverAddress(hash, make([]byte, SignatureLength)); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("error = %v, want ErrMalformedSignature for v=0", err)
	}
}
