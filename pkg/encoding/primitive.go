// Package encoding implements the fixed-width primitives every settlement
// payload is built from: 32-byte right-aligned slots, raw byte lengths and
// plain concatenation.
package encoding

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// SlotSize is the width of every encoded primitive.
const SlotSize = 32

// ErrEncoding is returned when a value cannot be represented in a slot.
var ErrEncoding = errors.New("encoding error")

var (
	// MaxUint256 is 2^256 - 1, the largest value a slot can hold.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// UnlimitedAllowance is the conventional "infinite" ERC20 approval amount.
	UnlimitedAllowance = new(big.Int).Set(MaxUint256)
)

// EncodePrimitive pads a short scalar into a 32-byte big-endian slot.
//
// Addresses are right-aligned 20-byte values, integers (including named enum
// types) use their numeric value, "0x" strings are raw bytes and any other
// string is parsed as a base-10 integer.
func EncodePrimitive(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrEncoding)
	case common.Address:
		return common.LeftPadBytes(v.Bytes(), SlotSize), nil
	case *common.Address:
		if v == nil {
			return nil, fmt.Errorf("%w: nil address", ErrEncoding)
		}
		return common.LeftPadBytes(v.Bytes(), SlotSize), nil
	case common.Hash:
		return v.Bytes(), nil
	case *big.Int:
		return EncodeBigUnsigned(v)
	case *uint256.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil integer", ErrEncoding)
		}
		b := v.Bytes32()
		return b[:], nil
	case uint256.Int:
		b := v.Bytes32()
		return b[:], nil
	case bool:
		if v {
			return EncodeBigUnsigned(big.NewInt(1))
		}
		return EncodeBigUnsigned(new(big.Int))
	case []byte:
		return padBytes(v)
	case string:
		return encodeString(v)
	}

	// Named integer types (venue tags, enums) encode as their underlying value.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return EncodeBigUnsigned(big.NewInt(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return EncodeBigUnsigned(new(big.Int).SetUint64(rv.Uint()))
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrEncoding, value)
}

// EncodeBigUnsigned pads an arbitrary-precision unsigned integer into a slot.
// Negative values and values of 2^256 or more are rejected.
func EncodeBigUnsigned(value *big.Int) ([]byte, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil integer", ErrEncoding)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", ErrEncoding, value)
	}
	u, overflow := uint256.FromBig(value)
	if overflow {
		return nil, fmt.Errorf("%w: value %s exceeds 256 bits", ErrEncoding, value)
	}
	b := u.Bytes32()
	return b[:], nil
}

func encodeString(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := FromHex(s)
		if err != nil {
			return nil, err
		}
		return padBytes(b)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: cannot encode string %q", ErrEncoding, s)
	}
	return EncodeBigUnsigned(n)
}

func padBytes(b []byte) ([]byte, error) {
	if len(b) > SlotSize {
		return nil, fmt.Errorf("%w: %d bytes do not fit a %d-byte slot", ErrEncoding, len(b), SlotSize)
	}
	return common.LeftPadBytes(b, SlotSize), nil
}

// NumBytesFromHex returns the number of bytes a hex string represents.
// This is the raw data length, not the length of its padded form.
func NumBytesFromHex(s string) (*big.Int, error) {
	b, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	return NumBytes(b), nil
}

// NumBytes returns len(b) as a big integer, ready for slot encoding.
func NumBytes(b []byte) *big.Int {
	return big.NewInt(int64(len(b)))
}

// NumBytesFromBuffers returns the total byte length of a list of buffers.
func NumBytesFromBuffers(bufs [][]byte) *big.Int {
	var n int64
	for _, b := range bufs {
		n += int64(len(b))
	}
	return big.NewInt(n)
}

// Concat joins byte strings in order with nothing between them.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ToHex renders bytes as "0x" followed by lowercase hex.
func ToHex(b []byte) string {
	return hexutil.Encode(b)
}

// FromHex decodes a "0x"-prefixed hex string. "0x" alone decodes to an empty slice.
func FromHex(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex %q: %v", ErrEncoding, s, err)
	}
	return b, nil
}

// DecodeUint256 reads a slot back into an integer.
func DecodeUint256(slot []byte) (*big.Int, error) {
	if len(slot) != SlotSize {
		return nil, fmt.Errorf("%w: slot is %d bytes, want %d", ErrEncoding, len(slot), SlotSize)
	}
	return new(big.Int).SetBytes(slot), nil
}

// DecodeAddress reads a slot back into an address. The 12 leading bytes must be zero.
func DecodeAddress(slot []byte) (common.Address, error) {
	if len(slot) != SlotSize {
		return common.Address{}, fmt.Errorf("%w: slot is %d bytes, want %d", ErrEncoding, len(slot), SlotSize)
	}
	for _, b := range slot[:SlotSize-common.AddressLength] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: slot does not hold an address", ErrEncoding)
		}
	}
	return common.BytesToAddress(slot), nil
}
