package exchange

// Order is a fill order for exactly one venue. The set of implementations is
// closed: *ZeroExSignedFillOrder, *KyberTrade and *TakerWalletOrder.
type Order interface {
	Venue() Venue
	// encodeBody returns the order's own encoding inside its venue's body.
	encodeBody() ([]byte, error)
}

var (
	_ Order = (*ZeroExSignedFillOrder)(nil)
	_ Order = (*KyberTrade)(nil)
	_ Order = (*TakerWalletOrder)(nil)
)
