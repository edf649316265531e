package exchange

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// ErrUnclassifiableOrder is the sentinel behind *UnclassifiableOrderError.
var ErrUnclassifiableOrder = errors.New("unclassifiable order")

// UnclassifiableOrderError reports an order that matched no venue, or more than one.
type UnclassifiableOrderError struct {
	Index   int     // position in the input list
	Matches []Venue // venues whose shape matched; empty when none did
}

func (e *UnclassifiableOrderError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("%s: order %d matches no venue", ErrUnclassifiableOrder, e.Index)
	}
	names := make([]string, len(e.Matches))
	for i, v := range e.Matches {
		names[i] = v.String()
	}
	return fmt.Sprintf("%s: order %d matches %s", ErrUnclassifiableOrder, e.Index, strings.Join(names, ", "))
}

func (e *UnclassifiableOrderError) Unwrap() error { return ErrUnclassifiableOrder }

// Buckets holds orders grouped by venue, each in input order.
type Buckets struct {
	ZeroEx      []*ZeroExSignedFillOrder
	Kyber       []*KyberTrade
	TakerWallet []*TakerWalletOrder
}

// Len returns how many orders went to venue v.
func (b *Buckets) Len(v Venue) int {
	switch v {
	case VenueZeroEx:
		return len(b.ZeroEx)
	case VenueKyber:
		return len(b.Kyber)
	case VenueTakerWallet:
		return len(b.TakerWallet)
	default:
		return 0
	}
}

// Venues lists the non-empty venues in canonical order.
func (b *Buckets) Venues() []Venue {
	var out []Venue
	for _, v := range canonicalVenues {
		if b.Len(v) > 0 {
			out = append(out, v)
		}
	}
	return out
}

// Partition groups orders by venue. Nil orders are unclassifiable.
func Partition(orders []Order) (*Buckets, error) {
	b := &Buckets{}
	for i, order := range orders {
		switch o := order.(type) {
		case *ZeroExSignedFillOrder:
			if o == nil {
				return nil, &UnclassifiableOrderError{Index: i}
			}
			b.ZeroEx = append(b.ZeroEx, o)
		case *KyberTrade:
			if o == nil {
				return nil, &UnclassifiableOrderError{Index: i}
			}
			b.Kyber = append(b.Kyber, o)
		case *TakerWalletOrder:
			if o == nil {
				return nil, &UnclassifiableOrderError{Index: i}
			}
			b.TakerWallet = append(b.TakerWallet, o)
		default:
			return nil, &UnclassifiableOrderError{Index: i}
		}
	}
	return b, nil
}

// Encode writes one section per non-empty venue, in canonical order.
func (b *Buckets) Encode(paymentToken common.Address, paymentAmount *big.Int) ([]byte, error) {
	var sections [][]byte
	for _, v := range canonicalVenues {
		if b.Len(v) == 0 {
			continue
		}

		var (
			section []byte
			err     error
		)
		switch v {
		case VenueZeroEx:
			section, err = EncodeZeroExOrders(paymentToken, paymentAmount, b.ZeroEx)
		case VenueKyber:
			section, err = EncodeKyberTrades(paymentToken, paymentAmount, b.Kyber)
		case VenueTakerWallet:
			section, err = EncodeTakerWalletOrders(paymentToken, b.TakerWallet)
		}
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return encoding.Concat(sections...), nil
}

// SerializeOrders packs orders from any mix of venues into the settlement
// contract's order data. An empty list yields an empty result.
func SerializeOrders(paymentToken common.Address, paymentAmount *big.Int, orders []Order) ([]byte, error) {
	buckets, err := Partition(orders)
	if err != nil {
		return nil, err
	}
	return buckets.Encode(paymentToken, paymentAmount)
}

// SerializeOrdersHex is SerializeOrders as a "0x" string.
func SerializeOrdersHex(paymentToken common.Address, paymentAmount *big.Int, orders []Order) (string, error) {
	b, err := SerializeOrders(paymentToken, paymentAmount, orders)
	if err != nil {
		return "", err
	}
	return encoding.ToHex(b), nil
}

// Section is one venue's header and body inside a serialized buffer.
type Section struct {
	Header Header
	Body   []byte
}

// SplitVenues walks data section by section, skipping each body by the
// length its header reports. It fails on truncated or trailing bytes.
func SplitVenues(data []byte) ([]Section, error) {
	var out []Section
	for offset := 0; offset < len(data); {
		h, err := DecodeHeader(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("section at byte %d: %w", offset, err)
		}
		start := offset + HeaderLength
		remaining := uint64(len(data) - start)
		if h.BodyLength > remaining {
			return nil, fmt.Errorf("%w: %s body claims %d bytes, %d remain",
				encoding.ErrEncoding, h.Venue, h.BodyLength, remaining)
		}
		end := start + int(h.BodyLength)
		out = append(out, Section{Header: h, Body: data[start:end]})
		offset = end
	}
	return out, nil
}
