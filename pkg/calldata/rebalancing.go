// Package calldata builds the extra call data Core expects when creating
// rebalancing set tokens.
package calldata

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/setcodec/pkg/encoding"
)

// RebalancingState mirrors the rebalancing set token's lifecycle states.
type RebalancingState uint8

const (
	StateDefault RebalancingState = iota
	StateProposal
	StateRebalance
	StateDrawdown
)

func (s RebalancingState) String() string {
	switch s {
	case StateDefault:
		return "DEFAULT"
	case StateProposal:
		return "PROPOSAL"
	case StateRebalance:
		return "REBALANCE"
	case StateDrawdown:
		return "DRAWDOWN"
	default:
		return fmt.Sprintf("RebalancingState(%d)", uint8(s))
	}
}

// RebalancingSetV1 is the creation call data of a v1 rebalancing set token.
type RebalancingSetV1 struct {
	Manager           common.Address
	ProposalPeriod    *big.Int // seconds holders may exit after a proposal
	RebalanceInterval *big.Int // minimum seconds between rebalances
}

// Encode returns manager · proposal period · rebalance interval.
func (p RebalancingSetV1) Encode() ([]byte, error) {
	return pack(
		[]common.Address{p.Manager},
		[]field{
			{"proposalPeriod", p.ProposalPeriod},
			{"rebalanceInterval", p.RebalanceInterval},
		},
	)
}

// RebalancingSetV2 is the creation call data of a v2 rebalancing set token.
type RebalancingSetV2 struct {
	Manager                common.Address
	Liquidator             common.Address
	FeeRecipient           common.Address
	RebalanceFeeCalculator common.Address
	RebalanceInterval      *big.Int
	FailRebalancePeriod    *big.Int
	LastRebalanceTimestamp *big.Int
	EntryFee               *big.Int // scaled by 10^18
	// FeeCalculatorData is appended raw, e.g. FixedFeeCalculatorData.
	FeeCalculatorData []byte
}

// Encode returns the four addresses, the four integers, then the calculator data.
func (p RebalancingSetV2) Encode() ([]byte, error) {
	head, err := pack(
		[]common.Address{p.Manager, p.Liquidator, p.FeeRecipient, p.RebalanceFeeCalculator},
		[]field{
			{"rebalanceInterval", p.RebalanceInterval},
			{"failRebalancePeriod", p.FailRebalancePeriod},
			{"lastRebalanceTimestamp", p.LastRebalanceTimestamp},
			{"entryFee", p.EntryFee},
		},
	)
	if err != nil {
		return nil, err
	}
	return encoding.Concat(head, p.FeeCalculatorData), nil
}

// FixedFeeCalculatorData is the calculator data for a fixed rebalance fee (scaled by 10^18).
func FixedFeeCalculatorData(rebalanceFee *big.Int) ([]byte, error) {
	b, err := encoding.EncodeBigUnsigned(rebalanceFee)
	if err != nil {
		return nil, fmt.Errorf("rebalanceFee: %w", err)
	}
	return b, nil
}

type field struct {
	name  string
	value *big.Int
}

func pack(addrs []common.Address, fields []field) ([]byte, error) {
	slots := make([][]byte, 0, len(addrs)+len(fields))
	for _, a := range addrs {
		slot, err := encoding.EncodePrimitive(a)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	for _, f := range fields {
		slot, err := encoding.EncodeBigUnsigned(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		slots = append(slots, slot)
	}
	return encoding.Concat(slots...), nil
}
