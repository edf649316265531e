// Package issuance builds the off-chain issuance orders makers sign: a
// request to mint a set token against a list of required components.
package issuance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// ErrComponentMismatch is returned when the component and amount lists differ in length.
var ErrComponentMismatch = fmt.Errorf("%w: required components and amounts differ in length", encoding.ErrEncoding)

// Order is an issuance order. Field order matches the encoding order.
type Order struct {
	SetAddress               common.Address
	MakerAddress             common.Address
	MakerToken               common.Address
	RelayerAddress           common.Address
	RelayerToken             common.Address
	Quantity                 *big.Int
	MakerTokenAmount         *big.Int
	Expiration               *big.Int
	MakerRelayerFee          *big.Int
	TakerRelayerFee          *big.Int
	Salt                     *big.Int
	RequiredComponents       []common.Address
	RequiredComponentAmounts []*big.Int // RequiredComponentAmounts[i] belongs to RequiredComponents[i]
}

// SignedOrder is an issuance order with the maker's signature over its digest.
type SignedOrder struct {
	Order
	Signature crypto.ECSig
}

// slots returns every field as 32-byte slots. The two lists follow the scalar
// fields, each as its elements back to back with no length prefix.
func (o *Order) slots() ([][]byte, error) {
	if len(o.RequiredComponents) != len(o.RequiredComponentAmounts) {
		return nil, fmt.Errorf("%w: %d components, %d amounts",
			ErrComponentMismatch, len(o.RequiredComponents), len(o.RequiredComponentAmounts))
	}

	out := make([][]byte, 0, 11+2*len(o.RequiredComponents))
	for _, addr := range []common.Address{o.SetAddress, o.MakerAddress, o.MakerToken, o.RelayerAddress, o.RelayerToken} {
		slot, err := encoding.EncodePrimitive(addr)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}

	values := []struct {
		name  string
		value *big.Int
	}{
		{"quantity", o.Quantity},
		{"makerTokenAmount", o.MakerTokenAmount},
		{"expiration", o.Expiration},
		{"makerRelayerFee", o.MakerRelayerFee},
		{"takerRelayerFee", o.TakerRelayerFee},
		{"salt", o.Salt},
	}
	for _, v := range values {
		slot, err := encoding.EncodeBigUnsigned(v.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.name, err)
		}
		out = append(out, slot)
	}

	for _, addr := range o.RequiredComponents {
		slot, err := encoding.EncodePrimitive(addr)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	for i, amount := range o.RequiredComponentAmounts {
		slot, err := encoding.EncodeBigUnsigned(amount)
		if err != nil {
			return nil, fmt.Errorf("requiredComponentAmounts[%d]: %w", i, err)
		}
		out = append(out, slot)
	}
	return out, nil
}

// Encode returns the packed byte string the struct hash is taken over.
func (o *Order) Encode() ([]byte, error) {
	slots, err := o.slots()
	if err != nil {
		return nil, err
	}
	return encoding.Concat(slots...), nil
}

// EncodeHex returns Encode as a "0x" string.
func (o *Order) EncodeHex() (string, error) {
	b, err := o.Encode()
	if err != nil {
		return "", err
	}
	return encoding.ToHex(b), nil
}

// StructHash is keccak256 over the packed encoding.
func (o *Order) StructHash() (common.Hash, error) {
	slots, err := o.slots()
	if err != nil {
		return common.Hash{}, err
	}
	h := sha3.NewLegacyKeccak256()
	for _, slot := range slots {
		h.Write(slot)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out, nil
}

// Digest is the EIP-712 message hash the maker signs.
func (o *Order) Digest(hasher *crypto.EIP712Hasher) (common.Hash, error) {
	structHash, err := o.StructHash()
	if err != nil {
		return common.Hash{}, err
	}
	return hasher.MessageHash(structHash), nil
}

// Sign has the maker sign the order's digest through signer.
func Sign(ctx context.Context, signer crypto.MessageSigner, hasher *crypto.EIP712Hasher, order *Order) (*SignedOrder, error) {
	digest, err := order.Digest(hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to hash order: %w", err)
	}

	sig, err := crypto.Sign(ctx, signer, order.MakerAddress, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign order: %w", err)
	}
	return &SignedOrder{Order: *order, Signature: sig}, nil
}

// ErrWrongSigner is returned by Verify when the signature belongs to someone other than the maker.
var ErrWrongSigner = errors.New("signature does not belong to maker")

// Verify checks that the signature was produced by the maker.
func (s *SignedOrder) Verify(hasher *crypto.EIP712Hasher) error {
	digest, err := s.Digest(hasher)
	if err != nil {
		return fmt.Errorf("failed to hash order: %w", err)
	}

	recovered, err := crypto.RecoverMessageSigner(digest[:], s.Signature.Bytes())
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", err)
	}
	if recovered != s.MakerAddress {
		return fmt.Errorf("%w: recovered %s, maker %s", ErrWrongSigner, recovered.Hex(), s.MakerAddress.Hex())
	}
	return nil
}
