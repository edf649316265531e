// Package units converts between human token amounts and base units.
package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// Decimals of the tokens the protocol deals in.
const (
	SetDecimals  int32 = 18
	WETHDecimals int32 = 18
	WBTCDecimals int32 = 8
)

var (
	// SetFullTokenUnits is one whole set token in base units.
	SetFullTokenUnits = FullTokenUnits(SetDecimals)
	// WETHFullTokenUnits is one whole WETH in base units.
	WETHFullTokenUnits = FullTokenUnits(WETHDecimals)
	// WBTCFullTokenUnits is one whole WBTC in base units.
	WBTCFullTokenUnits = FullTokenUnits(WBTCDecimals)
)

// FullTokenUnits returns 10^decimals.
func FullTokenUnits(decimals int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// UnlimitedAllowance is 2^256 - 1, the conventional "approve everything" amount.
func UnlimitedAllowance() *big.Int {
	return new(big.Int).Set(encoding.UnlimitedAllowance)
}

// ToBaseUnits parses a human amount such as "1.5" into base units.
// Amounts with more fractional digits than decimals are rejected.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: negative", amount)
	}
	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimal places", amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FromBaseUnits renders base units as a human amount without trailing zeros.
func FromBaseUnits(amount *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(amount, -decimals).String()
}
