package crypto

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SignatureLength is the size of a raw secp256k1 signature: R (32) || S (32) || V (1).
const SignatureLength = 65

// Recovery ids are reported in the eth_sign convention (27 or 28).
const (
	recoveryIDOffset = 27
	minRecoveryID    = 27
	maxRecoveryID    = 28
)

// ErrMalformedSignature is returned for signatures of the wrong length or
// with a recovery id outside 27/28.
var ErrMalformedSignature = errors.New("malformed signature")

// ECSig is the canonical (v, r, s) form of a signature.
type ECSig struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

// ParseSignature splits a 65-byte [R || S || V] signature into its components.
func ParseSignature(sig []byte) (ECSig, error) {
	if len(sig) != SignatureLength {
		return ECSig{}, fmt.Errorf("%w: length %d, want %d", ErrMalformedSignature, len(sig), SignatureLength)
	}
	v := sig[64]
	if v < minRecoveryID || v > maxRecoveryID {
		return ECSig{}, fmt.Errorf("%w: recovery id %d not in [%d, %d]", ErrMalformedSignature, v, minRecoveryID, maxRecoveryID)
	}
	return ECSig{
		V: v,
		R: common.BytesToHash(sig[:32]),
		S: common.BytesToHash(sig[32:64]),
	}, nil
}

// ParseSignatureHex parses a "0x"-prefixed signature.
func ParseSignatureHex(sig string) (ECSig, error) {
	b, err := hexutil.Decode(sig)
	if err != nil {
		return ECSig{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return ParseSignature(b)
}

// Bytes re-assembles the raw [R || S || V] signature.
func (s ECSig) Bytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

// Hex returns Bytes as a "0x" string.
func (s ECSig) Hex() string {
	return hexutil.Encode(s.Bytes())
}

// RecoveryID returns v in the 0/1 form expected by curve recovery.
func (s ECSig) RecoveryID() byte {
	return s.V - recoveryIDOffset
}

// recoverable returns the [R || S || V] form with V as 0/1.
func (s ECSig) recoverable() []byte {
	out := s.Bytes()
	out[64] = s.RecoveryID()
	return out
}

// normalizeRecoveryID lifts a 0/1 recovery id to 27/28. Other values pass
// through untouched so ParseSignature can reject them.
func normalizeRecoveryID(sig []byte) []byte {
	if len(sig) != SignatureLength || sig[64] > 1 {
		return sig
	}
	out := make([]byte, SignatureLength)
	copy(out, sig)
	out[64] += recoveryIDOffset
	return out
}
