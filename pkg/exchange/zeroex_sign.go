package exchange

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// 0x v2 EIP-712 domain.
const (
	ZeroExDomainName    = "0x Protocol"
	ZeroExDomainVersion = "2"
)

// ZeroExSignatureTypeEthSign marks a signature over the eth_sign prefixed order hash.
const ZeroExSignatureTypeEthSign byte = 0x03

// ZeroExSignatureLength is v · r · s · signature type.
const ZeroExSignatureLength = crypto.SignatureLength + 1

var zeroExTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "makerAddress", Type: "address"},
		{Name: "takerAddress", Type: "address"},
		{Name: "feeRecipientAddress", Type: "address"},
		{Name: "senderAddress", Type: "address"},
		{Name: "makerAssetAmount", Type: "uint256"},
		{Name: "takerAssetAmount", Type: "uint256"},
		{Name: "makerFee", Type: "uint256"},
		{Name: "takerFee", Type: "uint256"},
		{Name: "expirationTimeSeconds", Type: "uint256"},
		{Name: "salt", Type: "uint256"},
		{Name: "makerAssetData", Type: "bytes"},
		{Name: "takerAssetData", Type: "bytes"},
	},
}

// HashZeroExOrder returns the 0x v2 order hash, bound to the order's exchange address.
func HashZeroExOrder(order *ZeroExOrder) (common.Hash, error) {
	amounts := []struct {
		name  string
		value *big.Int
	}{
		{"makerAssetAmount", order.MakerAssetAmount},
		{"takerAssetAmount", order.TakerAssetAmount},
		{"makerFee", order.MakerFee},
		{"takerFee", order.TakerFee},
		{"expirationTimeSeconds", order.ExpirationTimeSeconds},
		{"salt", order.Salt},
	}

	message := apitypes.TypedDataMessage{
		"makerAddress":        order.MakerAddress.Hex(),
		"takerAddress":        order.TakerAddress.Hex(),
		"feeRecipientAddress": order.FeeRecipientAddress.Hex(),
		"senderAddress":       order.SenderAddress.Hex(),
		"makerAssetData":      hexutil.Encode(order.MakerAssetData),
		"takerAssetData":      hexutil.Encode(order.TakerAssetData),
	}
	for _, a := range amounts {
		if a.value == nil || a.value.Sign() < 0 {
			return common.Hash{}, fmt.Errorf("%w: invalid %s %v", encoding.ErrEncoding, a.name, a.value)
		}
		message[a.name] = a.value.String()
	}

	typedData := apitypes.TypedData{
		Types:       zeroExTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              ZeroExDomainName,
			Version:           ZeroExDomainVersion,
			VerifyingContract: order.ExchangeAddress.Hex(),
		},
		Message: message,
	}
	return crypto.HashTypedData(typedData)
}

// SignZeroExOrder has the maker sign the order hash with eth_sign and returns
// the 0x signature blob v · r · s · 0x03.
func SignZeroExOrder(ctx context.Context, signer crypto.MessageSigner, order *ZeroExOrder) ([]byte, error) {
	hash, err := HashZeroExOrder(order)
	if err != nil {
		return nil, fmt.Errorf("failed to hash 0x order: %w", err)
	}
	sig, err := crypto.Sign(ctx, signer, order.MakerAddress, hash[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, ZeroExSignatureLength)
	out = append(out, sig.V)
	out = append(out, sig.R[:]...)
	out = append(out, sig.S[:]...)
	return append(out, ZeroExSignatureTypeEthSign), nil
}

// RecoverZeroExSigner returns the address behind an EthSign 0x signature blob.
func RecoverZeroExSigner(order *ZeroExOrder, signature []byte) (common.Address, error) {
	if len(signature) != ZeroExSignatureLength || signature[ZeroExSignatureLength-1] != ZeroExSignatureTypeEthSign {
		return common.Address{}, fmt.Errorf("%w: not an EthSign 0x signature", crypto.ErrMalformedSignature)
	}
	hash, err := HashZeroExOrder(order)
	if err != nil {
		return common.Address{}, err
	}
	raw := make([]byte, 0, crypto.SignatureLength)
	raw = append(raw, signature[1:65]...)
	raw = append(raw, signature[0])
	return crypto.RecoverMessageSigner(hash[:], raw)
}

// GenerateZeroExSignedFillOrder builds, signs and wraps an ERC20 0x order in one step.
func GenerateZeroExSignedFillOrder(
	ctx context.Context,
	signer crypto.MessageSigner,
	order *ZeroExOrder,
	fillAmount *big.Int,
) (*ZeroExSignedFillOrder, error) {
	sig, err := SignZeroExOrder(ctx, signer, order)
	if err != nil {
		return nil, err
	}
	return NewZeroExSignedFillOrder(order, sig, fillAmount), nil
}
