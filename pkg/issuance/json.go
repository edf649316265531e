package issuance

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/uhyunpark/setcodec/pkg/crypto"
)

// orderJSON is the wire form. Integers accept decimal or 0x-hex strings and
// are emitted as 0x-hex.
type orderJSON struct {
	SetAddress               common.Address          `json:"setAddress"`
	MakerAddress             common.Address          `json:"makerAddress"`
	MakerToken               common.Address          `json:"makerToken"`
	RelayerAddress           common.Address          `json:"relayerAddress"`
	RelayerToken             common.Address          `json:"relayerToken"`
	Quantity                 *math.HexOrDecimal256   `json:"quantity"`
	MakerTokenAmount         *math.HexOrDecimal256   `json:"makerTokenAmount"`
	Expiration               *math.HexOrDecimal256   `json:"expiration"`
	MakerRelayerFee          *math.HexOrDecimal256   `json:"makerRelayerFee"`
	TakerRelayerFee          *math.HexOrDecimal256   `json:"takerRelayerFee"`
	Salt                     *math.HexOrDecimal256   `json:"salt"`
	RequiredComponents       []common.Address        `json:"requiredComponents"`
	RequiredComponentAmounts []*math.HexOrDecimal256 `json:"requiredComponentAmounts"`
	Signature                *crypto.ECSig           `json:"signature,omitempty"`
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

func fromBig(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func (o Order) toJSON() orderJSON {
	out := orderJSON{
		SetAddress:         o.SetAddress,
		MakerAddress:       o.MakerAddress,
		MakerToken:         o.MakerToken,
		RelayerAddress:     o.RelayerAddress,
		RelayerToken:       o.RelayerToken,
		Quantity:           fromBig(o.Quantity),
		MakerTokenAmount:   fromBig(o.MakerTokenAmount),
		Expiration:         fromBig(o.Expiration),
		MakerRelayerFee:    fromBig(o.MakerRelayerFee),
		TakerRelayerFee:    fromBig(o.TakerRelayerFee),
		Salt:               fromBig(o.Salt),
		RequiredComponents: o.RequiredComponents,
	}
	for _, a := range o.RequiredComponentAmounts {
		out.RequiredComponentAmounts = append(out.RequiredComponentAmounts, fromBig(a))
	}
	return out
}

func (j orderJSON) toOrder() (Order, error) {
	required := []struct {
		name  string
		value *math.HexOrDecimal256
	}{
		{"quantity", j.Quantity},
		{"makerTokenAmount", j.MakerTokenAmount},
		{"expiration", j.Expiration},
		{"makerRelayerFee", j.MakerRelayerFee},
		{"takerRelayerFee", j.TakerRelayerFee},
		{"salt", j.Salt},
	}
	for _, f := range required {
		if f.value == nil {
			return Order{}, fmt.Errorf("missing field %q", f.name)
		}
	}

	o := Order{
		SetAddress:         j.SetAddress,
		MakerAddress:       j.MakerAddress,
		MakerToken:         j.MakerToken,
		RelayerAddress:     j.RelayerAddress,
		RelayerToken:       j.RelayerToken,
		Quantity:           toBig(j.Quantity),
		MakerTokenAmount:   toBig(j.MakerTokenAmount),
		Expiration:         toBig(j.Expiration),
		MakerRelayerFee:    toBig(j.MakerRelayerFee),
		TakerRelayerFee:    toBig(j.TakerRelayerFee),
		Salt:               toBig(j.Salt),
		RequiredComponents: j.RequiredComponents,
	}
	for i, a := range j.RequiredComponentAmounts {
		if a == nil {
			return Order{}, fmt.Errorf("missing requiredComponentAmounts[%d]", i)
		}
		o.RequiredComponentAmounts = append(o.RequiredComponentAmounts, toBig(a))
	}
	return o, nil
}

// MarshalJSON emits integers as 0x-hex strings.
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toJSON())
}

// UnmarshalJSON accepts integers as decimal or 0x-hex strings.
func (o *Order) UnmarshalJSON(data []byte) error {
	var j orderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	order, err := j.toOrder()
	if err != nil {
		return err
	}
	*o = order
	return nil
}

// MarshalJSON emits the order fields plus a signature object.
func (s SignedOrder) MarshalJSON() ([]byte, error) {
	j := s.Order.toJSON()
	j.Signature = &s.Signature
	return json.Marshal(j)
}

// UnmarshalJSON requires the signature object.
func (s *SignedOrder) UnmarshalJSON(data []byte) error {
	var j orderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.Signature == nil {
		return fmt.Errorf("missing field %q", "signature")
	}
	order, err := j.toOrder()
	if err != nil {
		return err
	}
	s.Order = order
	s.Signature = *j.Signature
	return nil
}
