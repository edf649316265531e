package exchange

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// TakerWalletOrder is filled by the taker directly from their own balance.
type TakerWalletOrder struct {
	TakerTokenAddress common.Address
	TakerTokenAmount  *big.Int
}

// NewTakerWalletOrder builds a taker wallet order.
func NewTakerWalletOrder(token common.Address, amount *big.Int) *TakerWalletOrder {
	return &TakerWalletOrder{TakerTokenAddress: token, TakerTokenAmount: amount}
}

func (*TakerWalletOrder) Venue() Venue { return VenueTakerWallet }

func (o *TakerWalletOrder) encodeBody() ([]byte, error) {
	token, err := encoding.EncodePrimitive(o.TakerTokenAddress)
	if err != nil {
		return nil, err
	}
	amount, err := encoding.EncodeBigUnsigned(o.TakerTokenAmount)
	if err != nil {
		return nil, fmt.Errorf("takerTokenAmount: %w", err)
	}
	return encoding.Concat(token, amount), nil
}

// EncodeTakerWalletOrders encodes a TAKER_WALLET venue section. Wallet fills
// spend no payment token, so the header amount is always zero.
func EncodeTakerWalletOrders(paymentToken common.Address, orders []*TakerWalletOrder) ([]byte, error) {
	generic := make([]Order, len(orders))
	for i, o := range orders {
		if o == nil {
			return nil, &UnclassifiableOrderError{Index: i}
		}
		generic[i] = o
	}
	return encodeSection(VenueTakerWallet, paymentToken, new(big.Int), generic)
}
