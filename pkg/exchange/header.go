package exchange

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// HeaderLength is the size of a venue header: five slots.
const HeaderLength = 5 * encoding.SlotSize

// Header opens every venue section:
// venue tag · order count · payment token · payment amount · body length.
// BodyLength is the exact byte length of the body that follows, blobs included.
type Header struct {
	Venue         Venue
	OrderCount    uint64
	PaymentToken  common.Address
	PaymentAmount *big.Int
	BodyLength    uint64
}

// Encode packs the header into HeaderLength bytes.
func (h Header) Encode() ([]byte, error) {
	amount, err := encoding.EncodeBigUnsigned(h.PaymentAmount)
	if err != nil {
		return nil, fmt.Errorf("payment amount: %w", err)
	}

	out := make([]byte, 0, HeaderLength)
	for _, v := range []any{h.Venue, h.OrderCount, h.PaymentToken} {
		slot, err := encoding.EncodePrimitive(v)
		if err != nil {
			return nil, err
		}
		out = append(out, slot...)
	}
	out = append(out, amount...)

	length, err := encoding.EncodePrimitive(h.BodyLength)
	if err != nil {
		return nil, err
	}
	return append(out, length...), nil
}

// DecodeHeader reads a header from the first HeaderLength bytes of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderLength {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", encoding.ErrEncoding, HeaderLength, len(data))
	}
	slot := func(i int) []byte { return data[i*encoding.SlotSize : (i+1)*encoding.SlotSize] }

	tag, err := decodeUint64(slot(0))
	if err != nil {
		return Header{}, fmt.Errorf("venue: %w", err)
	}
	count, err := decodeUint64(slot(1))
	if err != nil {
		return Header{}, fmt.Errorf("order count: %w", err)
	}
	token, err := encoding.DecodeAddress(slot(2))
	if err != nil {
		return Header{}, fmt.Errorf("payment token: %w", err)
	}
	amount, err := encoding.DecodeUint256(slot(3))
	if err != nil {
		return Header{}, fmt.Errorf("payment amount: %w", err)
	}
	length, err := decodeUint64(slot(4))
	if err != nil {
		return Header{}, fmt.Errorf("body length: %w", err)
	}

	v := Venue(tag)
	if tag > 0xff || !v.Valid() {
		return Header{}, fmt.Errorf("%w: unknown venue tag %d", encoding.ErrEncoding, tag)
	}
	return Header{
		Venue:         v,
		OrderCount:    count,
		PaymentToken:  token,
		PaymentAmount: amount,
		BodyLength:    length,
	}, nil
}

func decodeUint64(slot []byte) (uint64, error) {
	n, err := encoding.DecodeUint256(slot)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s does not fit in 64 bits", encoding.ErrEncoding, n)
	}
	return n.Uint64(), nil
}

// encodeSection builds header and body for one venue. Nothing is returned
// unless every order encodes.
func encodeSection(venue Venue, token common.Address, amount *big.Int, orders []Order) ([]byte, error) {
	bodies := make([][]byte, 0, len(orders))
	for i, o := range orders {
		b, err := o.encodeBody()
		if err != nil {
			return nil, fmt.Errorf("%s order %d: %w", venue, i, err)
		}
		bodies = append(bodies, b)
	}
	body := encoding.Concat(bodies...)

	header, err := Header{
		Venue:         venue,
		OrderCount:    uint64(len(orders)),
		PaymentToken:  token,
		PaymentAmount: amount,
		BodyLength:    uint64(len(body)),
	}.Encode()
	if err != nil {
		return nil, fmt.Errorf("%s header: %w", venue, err)
	}
	return encoding.Concat(header, body), nil
}
