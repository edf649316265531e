package exchange

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// KyberTrade swaps SourceTokenQuantity of SourceToken through the Kyber network.
type KyberTrade struct {
	SourceToken            common.Address
	DestinationToken       common.Address
	SourceTokenQuantity    *big.Int
	MinimumConversionRate  *big.Int
	MaxDestinationQuantity *big.Int
}

// NewKyberTrade builds a Kyber trade.
func NewKyberTrade(source, destination common.Address, sourceQuantity, minimumRate, maxDestinationQuantity *big.Int) *KyberTrade {
	return &KyberTrade{
		SourceToken:            source,
		DestinationToken:       destination,
		SourceTokenQuantity:    sourceQuantity,
		MinimumConversionRate:  minimumRate,
		MaxDestinationQuantity: maxDestinationQuantity,
	}
}

func (*KyberTrade) Venue() Venue { return VenueKyber }

func (t *KyberTrade) encodeBody() ([]byte, error) {
	out := make([]byte, 0, 5*encoding.SlotSize)
	for _, addr := range []common.Address{t.SourceToken, t.DestinationToken} {
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
		{"sourceTokenQuantity", t.SourceTokenQuantity},
		{"minimumConversionRate", t.MinimumConversionRate},
		{"maxDestinationQuantity", t.MaxDestinationQuantity},
	}
	for _, v := range values {
		slot, err := encoding.EncodeBigUnsigned(v.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.name, err)
		}
		out = append(out, slot...)
	}
	return out, nil
}

// EncodeKyberTrades encodes a KYBER venue section.
func EncodeKyberTrades(paymentToken common.Address, paymentAmount *big.Int, trades []*KyberTrade) ([]byte, error) {
	generic := make([]Order, len(trades))
	for i, t := range trades {
		if t == nil {
			return nil, &UnclassifiableOrderError{Index: i}
		}
		generic[i] = t
	}
	return encodeSection(VenueKyber, paymentToken, paymentAmount, generic)
}
