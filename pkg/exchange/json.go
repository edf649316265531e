package exchange

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// Keys an untyped JSON object must carry to be read as a given venue's order.
var venueKeys = map[Venue][]string{
	VenueZeroEx: {
		"makerAddress", "takerAddress", "feeRecipientAddress", "senderAddress",
		"makerAssetAmount", "takerAssetAmount", "makerFee", "takerFee",
		"expirationTimeSeconds", "salt", "makerAssetData", "takerAssetData",
		"exchangeAddress", "signature", "fillAmount",
	},
	VenueKyber: {
		"sourceToken", "destinationToken", "sourceTokenQuantity",
		"minimumConversionRate", "maxDestinationQuantity",
	},
	VenueTakerWallet: {"takerTokenAddress", "takerTokenAmount"},
}

type zeroExJSON struct {
	MakerAddress          common.Address        `json:"makerAddress"`
	TakerAddress          common.Address        `json:"takerAddress"`
	FeeRecipientAddress   common.Address        `json:"feeRecipientAddress"`
	SenderAddress         common.Address        `json:"senderAddress"`
	MakerAssetAmount      *math.HexOrDecimal256 `json:"makerAssetAmount"`
	TakerAssetAmount      *math.HexOrDecimal256 `json:"takerAssetAmount"`
	MakerFee              *math.HexOrDecimal256 `json:"makerFee"`
	TakerFee              *math.HexOrDecimal256 `json:"takerFee"`
	ExpirationTimeSeconds *math.HexOrDecimal256 `json:"expirationTimeSeconds"`
	Salt                  *math.HexOrDecimal256 `json:"salt"`
	MakerAssetData        hexutil.Bytes         `json:"makerAssetData"`
	TakerAssetData        hexutil.Bytes         `json:"takerAssetData"`
	ExchangeAddress       common.Address        `json:"exchangeAddress"`
	Signature             hexutil.Bytes         `json:"signature"`
	FillAmount            *math.HexOrDecimal256 `json:"fillAmount"`
}

type kyberJSON struct {
	SourceToken            common.Address        `json:"sourceToken"`
	DestinationToken       common.Address        `json:"destinationToken"`
	SourceTokenQuantity    *math.HexOrDecimal256 `json:"sourceTokenQuantity"`
	MinimumConversionRate  *math.HexOrDecimal256 `json:"minimumConversionRate"`
	MaxDestinationQuantity *math.HexOrDecimal256 `json:"maxDestinationQuantity"`
}

type takerWalletJSON struct {
	TakerTokenAddress common.Address        `json:"takerTokenAddress"`
	TakerTokenAmount  *math.HexOrDecimal256 `json:"takerTokenAmount"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(v))
}

func (o *ZeroExSignedFillOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(zeroExJSON{
		MakerAddress:          o.MakerAddress,
		TakerAddress:          o.TakerAddress,
		FeeRecipientAddress:   o.FeeRecipientAddress,
		SenderAddress:         o.SenderAddress,
		MakerAssetAmount:      hexOrDecimal(o.MakerAssetAmount),
		TakerAssetAmount:      hexOrDecimal(o.TakerAssetAmount),
		MakerFee:              hexOrDecimal(o.MakerFee),
		TakerFee:              hexOrDecimal(o.TakerFee),
		ExpirationTimeSeconds: hexOrDecimal(o.ExpirationTimeSeconds),
		Salt:                  hexOrDecimal(o.Salt),
		MakerAssetData:        o.MakerAssetData,
		TakerAssetData:        o.TakerAssetData,
		ExchangeAddress:       o.ExchangeAddress,
		Signature:             o.Signature,
		FillAmount:            hexOrDecimal(o.FillAmount),
	})
}

func (o *ZeroExSignedFillOrder) UnmarshalJSON(data []byte) error {
	var j zeroExJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*o = ZeroExSignedFillOrder{
		ZeroExOrder: ZeroExOrder{
			MakerAddress:          j.MakerAddress,
			TakerAddress:          j.TakerAddress,
			FeeRecipientAddress:   j.FeeRecipientAddress,
			SenderAddress:         j.SenderAddress,
			MakerAssetAmount:      bigOf(j.MakerAssetAmount),
			TakerAssetAmount:      bigOf(j.TakerAssetAmount),
			MakerFee:              bigOf(j.MakerFee),
			TakerFee:              bigOf(j.TakerFee),
			ExpirationTimeSeconds: bigOf(j.ExpirationTimeSeconds),
			Salt:                  bigOf(j.Salt),
			MakerAssetData:        j.MakerAssetData,
			TakerAssetData:        j.TakerAssetData,
			ExchangeAddress:       j.ExchangeAddress,
		},
		Signature:  j.Signature,
		FillAmount: bigOf(j.FillAmount),
	}
	return nil
}

func (t *KyberTrade) MarshalJSON() ([]byte, error) {
	return json.Marshal(kyberJSON{
		SourceToken:            t.SourceToken,
		DestinationToken:       t.DestinationToken,
		SourceTokenQuantity:    hexOrDecimal(t.SourceTokenQuantity),
		MinimumConversionRate:  hexOrDecimal(t.MinimumConversionRate),
		MaxDestinationQuantity: hexOrDecimal(t.MaxDestinationQuantity),
	})
}

func (t *KyberTrade) UnmarshalJSON(data []byte) error {
	var j kyberJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*t = KyberTrade{
		SourceToken:            j.SourceToken,
		DestinationToken:       j.DestinationToken,
		SourceTokenQuantity:    bigOf(j.SourceTokenQuantity),
		MinimumConversionRate:  bigOf(j.MinimumConversionRate),
		MaxDestinationQuantity: bigOf(j.MaxDestinationQuantity),
	}
	return nil
}

func (o *TakerWalletOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(takerWalletJSON{
		TakerTokenAddress: o.TakerTokenAddress,
		TakerTokenAmount:  hexOrDecimal(o.TakerTokenAmount),
	})
}

func (o *TakerWalletOrder) UnmarshalJSON(data []byte) error {
	var j takerWalletJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*o = TakerWalletOrder{
		TakerTokenAddress: j.TakerTokenAddress,
		TakerTokenAmount:  bigOf(j.TakerTokenAmount),
	}
	return nil
}

// Classify reports which venues' key sets are fully present in fields.
func Classify(fields map[string]json.RawMessage) []Venue {
	var matches []Venue
	for _, v := range canonicalVenues {
		ok := true
		for _, k := range venueKeys[v] {
			if _, present := fields[k]; !present {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, v)
		}
	}
	return matches
}

func decodeOrder(index int, data []byte) (Order, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("order %d: %w", index, err)
	}
	if fields == nil {
		return nil, &UnclassifiableOrderError{Index: index}
	}

	matches := Classify(fields)
	if len(matches) != 1 {
		return nil, &UnclassifiableOrderError{Index: index, Matches: matches}
	}

	var order Order
	switch matches[0] {
	case VenueZeroEx:
		order = new(ZeroExSignedFillOrder)
	case VenueKyber:
		order = new(KyberTrade)
	case VenueTakerWallet:
		order = new(TakerWalletOrder)
	}
	if err := json.Unmarshal(data, order); err != nil {
		return nil, fmt.Errorf("order %d (%s): %w", index, matches[0], err)
	}
	return order, nil
}

// DecodeOrder reads one untyped JSON order, picking its venue from the keys
// it carries. Exactly one venue must match.
func DecodeOrder(data []byte) (Order, error) {
	return decodeOrder(0, data)
}

// DecodeOrders reads a JSON array of untyped orders. It stops at the first
// order that cannot be classified.
func DecodeOrders(data []byte) ([]Order, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	return DecodeRawOrders(raw)
}

// DecodeRawOrders is DecodeOrders over already split array elements.
func DecodeRawOrders(raw []json.RawMessage) ([]Order, error) {
	orders := make([]Order, 0, len(raw))
	for i, r := range raw {
		o, err := decodeOrder(i, r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
