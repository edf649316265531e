package exchange

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// Snapshot deployment of the 0x v2 contracts the settlement wrapper targets.
var (
	NullAddress             = common.Address{}
	ZeroExExchangeAddress   = common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788")
	ZeroExERC20ProxyAddress = common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48")
	ZeroExTokenAddress      = common.HexToAddress("0x871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c")
)

// ERC20ProxyID is bytes4(keccak256("ERC20Token(address)")), the asset data prefix for ERC20 tokens.
var ERC20ProxyID = [4]byte{0xf4, 0x72, 0x61, 0xb0}

// erc20AssetDataLength is the proxy id plus one padded address.
const erc20AssetDataLength = 4 + encoding.SlotSize

// ZeroExOrder is a 0x v2 order.
type ZeroExOrder struct {
	MakerAddress          common.Address
	TakerAddress          common.Address
	FeeRecipientAddress   common.Address
	SenderAddress         common.Address
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerFee              *big.Int
	TakerFee              *big.Int
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
	ExchangeAddress       common.Address
}

// ZeroExSignedFillOrder is a maker-signed 0x order plus the amount to fill.
type ZeroExSignedFillOrder struct {
	ZeroExOrder
	Signature  []byte // 0x signature blob, see SignZeroExOrder
	FillAmount *big.Int
}

// NewZeroExOrder builds an ERC20-for-ERC20 order.
func NewZeroExOrder(
	sender, maker, taker common.Address,
	makerFee, takerFee *big.Int,
	makerAssetAmount, takerAssetAmount *big.Int,
	makerToken, takerToken common.Address,
	salt *big.Int,
	exchangeAddress, feeRecipient common.Address,
	expirationTimeSeconds *big.Int,
) *ZeroExOrder {
	return &ZeroExOrder{
		MakerAddress:          maker,
		TakerAddress:          taker,
		FeeRecipientAddress:   feeRecipient,
		SenderAddress:         sender,
		MakerAssetAmount:      makerAssetAmount,
		TakerAssetAmount:      takerAssetAmount,
		MakerFee:              makerFee,
		TakerFee:              takerFee,
		ExpirationTimeSeconds: expirationTimeSeconds,
		Salt:                  salt,
		MakerAssetData:        EncodeERC20AssetData(makerToken),
		TakerAssetData:        EncodeERC20AssetData(takerToken),
		ExchangeAddress:       exchangeAddress,
	}
}

// NewZeroExSignedFillOrder attaches a signature and fill amount to order.
func NewZeroExSignedFillOrder(order *ZeroExOrder, signature []byte, fillAmount *big.Int) *ZeroExSignedFillOrder {
	return &ZeroExSignedFillOrder{
		ZeroExOrder: *order,
		Signature:   signature,
		FillAmount:  fillAmount,
	}
}

// EncodeERC20AssetData returns the 0x asset data for an ERC20 token.
func EncodeERC20AssetData(token common.Address) []byte {
	out := make([]byte, 0, erc20AssetDataLength)
	out = append(out, ERC20ProxyID[:]...)
	return append(out, common.LeftPadBytes(token.Bytes(), encoding.SlotSize)...)
}

// DecodeERC20AssetData extracts the token address from ERC20 asset data.
func DecodeERC20AssetData(assetData []byte) (common.Address, error) {
	if len(assetData) != erc20AssetDataLength {
		return common.Address{}, fmt.Errorf("%w: ERC20 asset data is %d bytes, want %d",
			encoding.ErrEncoding, len(assetData), erc20AssetDataLength)
	}
	if !bytes.Equal(assetData[:4], ERC20ProxyID[:]) {
		return common.Address{}, fmt.Errorf("%w: asset proxy id %x is not ERC20", encoding.ErrEncoding, assetData[:4])
	}
	return encoding.DecodeAddress(assetData[4:])
}

func (*ZeroExSignedFillOrder) Venue() Venue { return VenueZeroEx }

// orderSection encodes the ten order fields followed by the raw maker and taker asset data.
func (o *ZeroExOrder) orderSection() ([]byte, error) {
	out := make([]byte, 0, 10*encoding.SlotSize+len(o.MakerAssetData)+len(o.TakerAssetData))
	for _, addr := range []common.Address{o.MakerAddress, o.TakerAddress, o.FeeRecipientAddress, o.SenderAddress} {
		slot, err := encoding.EncodePrimitive(addr)
		if err != nil {
			return nil, err
		}
		out = append(out, slot...)
	}

	values := []struct {
		name  string
		value *big.Int
	}{
		{"makerAssetAmount", o.MakerAssetAmount},
		{"takerAssetAmount", o.TakerAssetAmount},
		{"makerFee", o.MakerFee},
		{"takerFee", o.TakerFee},
		{"expirationTimeSeconds", o.ExpirationTimeSeconds},
		{"salt", o.Salt},
	}
	for _, v := range values {
		slot, err := encoding.EncodeBigUnsigned(v.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.name, err)
		}
		out = append(out, slot...)
	}

	out = append(out, o.MakerAssetData...)
	return append(out, o.TakerAssetData...), nil
}

// encodeBody writes the sub-header [signature length, order length, maker
// asset data length, taker asset data length, fill amount], the raw
// signature, then the order section.
func (o *ZeroExSignedFillOrder) encodeBody() ([]byte, error) {
	if len(o.Signature) == 0 {
		return nil, fmt.Errorf("%w: missing signature", encoding.ErrEncoding)
	}
	section, err := o.orderSection()
	if err != nil {
		return nil, err
	}

	sub := make([][]byte, 0, 5)
	for _, n := range []*big.Int{
		encoding.NumBytes(o.Signature),
		encoding.NumBytes(section),
		encoding.NumBytes(o.MakerAssetData),
		encoding.NumBytes(o.TakerAssetData),
	} {
		slot, err := encoding.EncodeBigUnsigned(n)
		if err != nil {
			return nil, err
		}
		sub = append(sub, slot)
	}
	fill, err := encoding.EncodeBigUnsigned(o.FillAmount)
	if err != nil {
		return nil, fmt.Errorf("fillAmount: %w", err)
	}
	sub = append(sub, fill)

	return encoding.Concat(encoding.Concat(sub...), o.Signature, section), nil
}

// EncodeZeroExOrders encodes a ZERO_EX venue section.
func EncodeZeroExOrders(paymentToken common.Address, paymentAmount *big.Int, orders []*ZeroExSignedFillOrder) ([]byte, error) {
	generic := make([]Order, len(orders))
	for i, o := range orders {
		if o == nil {
			return nil, &UnclassifiableOrderError{Index: i}
		}
		generic[i] = o
	}
	return encodeSection(VenueZeroEx, paymentToken, paymentAmount, generic)
}
