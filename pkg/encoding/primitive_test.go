package encoding

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type venueTag uint8

func pow2(n uint) *big.Int { return new(big.Int).Lsh(big.NewInt(1), n) }

func TestEncodeBigUnsigned_RoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1541723033),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
		pow2(128),
		MaxUint256,
	}
	for _, v := range values {
		slot, err := EncodeBigUnsigned(v)
		require.NoError(t, err, v.String())
		require.Len(t, slot, SlotSize)

		got, err := DecodeUint256(slot)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Cmp(v), "round trip %s -> %s", v, got)
	}
}

func TestEncodeBigUnsigned_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
	}{
		{"nil", nil},
		{"negative", big.NewInt(-1)},
		{"2^256", pow2(256)},
		{"2^300", pow2(300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := EncodeBigUnsigned(tt.value)
			require.ErrorIs(t, err, ErrEncoding)
			assert.Nil(t, slot)
		})
	}
}

func TestEncodePrimitive_Address(t *testing.T) {
	addr := common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")

	slot, err := EncodePrimitive(addr)
	require.NoError(t, err)
	require.Len(t, slot, SlotSize)
	assert.Equal(t, make([]byte, 12), slot[:12])
	assert.Equal(t, addr.Bytes(), slot[12:])

	fromString, err := EncodePrimitive("0x5409ed021d9299bf6814279a6a1411a7e866a631")
	require.NoError(t, err)
	assert.Equal(t, slot, fromString)

	back, err := DecodeAddress(slot)
	require.NoError(t, err)
	assert.Equal(t, addr, back)
}

func TestEncodePrimitive_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *big.Int
	}{
		{"int", 3, big.NewInt(3)},
		{"uint8", uint8(255), big.NewInt(255)},
		{"named enum", venueTag(2), big.NewInt(2)},
		{"uint64 max", ^uint64(0), new(big.Int).SetUint64(^uint64(0))},
		{"decimal string", "1000000000000000000", new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)},
		{"bool", true, big.NewInt(1)},
		{"uint256", uint256.NewInt(42), big.NewInt(42)},
		{"big", big.NewInt(7), big.NewInt(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := EncodePrimitive(tt.value)
			require.NoError(t, err)
			require.Len(t, slot, SlotSize)
			got, err := DecodeUint256(slot)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Cmp(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestEncodePrimitive_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"negative int", -5},
		{"too many bytes", make([]byte, 33)},
		{"garbage string", "not-a-number"},
		{"odd hex", "0x123"},
		{"unsupported", 1.5},
		{"too large", new(big.Int).Add(MaxUint256, big.NewInt(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodePrimitive(tt.value)
			assert.ErrorIs(t, err, ErrEncoding)
		})
	}
}

func TestNumBytesFromHex(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0x", 0},
		{"0x00", 1},
		{"0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48", 36},
	}
	for _, tt := range tests {
		n, err := NumBytesFromHex(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n.Int64(), tt.in)
	}

	_, err := NumBytesFromHex("1234")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestNumBytesFromBuffers(t *testing.T) {
	n := NumBytesFromBuffers([][]byte{make([]byte, 32), {1, 2, 3}, nil})
	assert.Equal(t, int64(35), n.Int64())
}

func TestConcat(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3, 4}, Concat([]byte{1}, nil, []byte{2, 3}, []byte{4}))
	assert.Empty(t, Concat())
}

func TestToHex(t *testing.T) {
	assert.Equal(t, "0xabcdef", ToHex([]byte{0xab, 0xcd, 0xef}))
	assert.Equal(t, "0x", ToHex(nil))
}

func TestDecodeAddress_RejectsWideSlot(t *testing.T) {
	slot, err := EncodeBigUnsigned(pow2(200))
	require.NoError(t, err)
	_, err = DecodeAddress(slot)
	assert.ErrorIs(t, err, ErrEncoding)
}
