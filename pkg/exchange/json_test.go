package exchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zeroExJSONOrder = `{
	"makerAddress": "0x5409ed021d9299bf6814279a6a1411a7e866a631",
	"takerAddress": "0x0000000000000000000000000000000000000000",
	"feeRecipientAddress": "0x0000000000000000000000000000000000000000",
	"senderAddress": "0x0000000000000000000000000000000000000000",
	"makerAssetAmount": "1000000000000000000",
	"takerAssetAmount": "2000000000000000000",
	"makerFee": "0",
	"takerFee": "0",
	"expirationTimeSeconds": "1541723033",
	"salt": "1",
	"makerAssetData": "0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48",
	"takerAssetData": "0xf47261b0000000000000000000000000871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c",
	"exchangeAddress": "0x48bacb9266a570d521063ef5dd96e61686dbe788",
	"signature": "0x1c01020304",
	"fillAmount": "0xde0b6b3a7640000"
}`

func TestDecodeOrderShapes(t *testing.T) {
	o, err := DecodeOrder([]byte(zeroExJSONOrder))
	require.NoError(t, err)
	z, ok := o.(*ZeroExSignedFillOrder)
	require.True(t, ok)
	assert.Equal(t, maker, z.MakerAddress)
	assert.Equal(t, 0, ether(1).Cmp(z.FillAmount))
	assert.Equal(t, []byte{0x1c, 1, 2, 3, 4}, z.Signature)

	hash, err := HashZeroExOrder(&z.ZeroExOrder)
	require.NoError(t, err)
	assert.Equal(t, "0xd06b3befbf962ca4970e2bf440a3e6725146de30dc3eafc8b9eab73c2717d3b8", hash.Hex())

	o, err = DecodeOrder([]byte(`{
		"sourceToken": "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
		"destinationToken": "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84",
		"sourceTokenQuantity": "100",
		"minimumConversionRate": "0x10",
		"maxDestinationQuantity": "200"
	}`))
	require.NoError(t, err)
	k, ok := o.(*KyberTrade)
	require.True(t, ok)
	assert.Equal(t, int64(16), k.MinimumConversionRate.Int64())

	o, err = DecodeOrder([]byte(`{"takerTokenAddress": "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84", "takerTokenAmount": "5"}`))
	require.NoError(t, err)
	w, ok := o.(*TakerWalletOrder)
	require.True(t, ok)
	assert.Equal(t, componentA, w.TakerTokenAddress)
}

func TestDecodeOrderUnclassifiable(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		matches []Venue
	}{
		{"no keys", `{}`, nil},
		{"partial kyber", `{"sourceToken": "0x00", "destinationToken": "0x00"}`, nil},
		{"null", `null`, nil},
		{
			"kyber and wallet",
			`{"sourceToken": "0x1dc4c1cefef38a777b15aa20260a54e584b16c48", "destinationToken": "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
			  "sourceTokenQuantity": "1", "minimumConversionRate": "1", "maxDestinationQuantity": "1",
			  "takerTokenAddress": "0x1dc4c1cefef38a777b15aa20260a54e584b16c48", "takerTokenAmount": "1"}`,
			[]Venue{VenueKyber, VenueTakerWallet},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeOrder([]byte(c.input))
			require.ErrorIs(t, err, ErrUnclassifiableOrder)
			var uerr *UnclassifiableOrderError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, c.matches, uerr.Matches)
		})
	}
}

func TestDecodeOrdersIndex(t *testing.T) {
	input := `[
		{"takerTokenAddress": "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84", "takerTokenAmount": "5"},
		{"takerTokenAddress": "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84"}
	]`
	_, err := DecodeOrders([]byte(input))
	var uerr *UnclassifiableOrderError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 1, uerr.Index)

	_, err = DecodeOrders([]byte(`{"not": "an array"}`))
	require.Error(t, err)
}

func TestOrdersJSONRoundTrip(t *testing.T) {
	orders := []Order{
		NewTakerWalletOrder(componentA, ether(2)),
		testFillOrder(),
		NewKyberTrade(paymentToken, componentB, ether(1), ether(3), ether(4)),
	}
	data, err := json.Marshal(orders)
	require.NoError(t, err)

	decoded, err := DecodeOrders(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(orders))
	for i := range orders {
		assert.Equal(t, orders[i].Venue(), decoded[i].Venue())
	}

	want, err := SerializeOrders(paymentToken, ether(1), orders)
	require.NoError(t, err)
	got, err := SerializeOrders(paymentToken, ether(1), decoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
