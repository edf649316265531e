package main

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/uhyunpark/setcodec/params"
	"github.com/uhyunpark/setcodec/pkg/calldata"
	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/encoding"
	"github.com/uhyunpark/setcodec/pkg/exchange"
	"github.com/uhyunpark/setcodec/pkg/issuance"
	"github.com/uhyunpark/setcodec/pkg/units"
	"github.com/uhyunpark/setcodec/pkg/util"
)

func newSerializeCmd() *cobra.Command {
	var (
		token    string
		amount   string
		decimals int32
	)
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Serialize a JSON array of exchange orders into order data",
		Long: `Reads a JSON array of 0x, Kyber and taker wallet orders and prints the
order data the settlement contract expects, venues in canonical order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paymentToken, err := parseAddress("payment-token", token)
			if err != nil {
				return err
			}
			paymentAmount, err := parseAmount(amount, decimals)
			if err != nil {
				return err
			}
			input, err := readInput(cmd)
			if err != nil {
				return err
			}
			orders, err := exchange.DecodeOrders(input)
			if err != nil {
				return err
			}
			data, err := exchange.SerializeOrdersHex(paymentToken, paymentAmount, orders)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().String(flagFile, "-", "orders file (- for stdin)")
	cmd.Flags().StringVar(&token, "payment-token", "", "token used to pay for the orders")
	cmd.Flags().StringVar(&amount, "payment-amount", "0", "amount of payment token")
	cmd.Flags().Int32Var(&decimals, flagDecimals, 0, "read --payment-amount as a human amount with this many decimals")
	_ = cmd.MarkFlagRequired("payment-token")
	return cmd
}

func readIssuanceOrder(cmd *cobra.Command) (*issuance.Order, error) {
	input, err := readInput(cmd)
	if err != nil {
		return nil, err
	}
	var order issuance.Order
	if err := json.Unmarshal(input, &order); err != nil {
		return nil, fmt.Errorf("invalid issuance order: %w", err)
	}
	return &order, nil
}

func newHashOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-order",
		Short: "Print the packed encoding, struct hash and digest of an issuance order",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readIssuanceOrder(cmd)
			if err != nil {
				return err
			}
			encoded, err := order.EncodeHex()
			if err != nil {
				return err
			}
			structHash, err := order.StructHash()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"encoded":    encoded,
				"structHash": structHash.Hex(),
				"digest":     hasherFromFlags(cmd).MessageHash(structHash).Hex(),
			})
		},
	}
	cmd.Flags().String(flagFile, "-", "issuance order file (- for stdin)")
	return cmd
}

func newSignOrderCmd(fallback params.Signer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-order",
		Short: "Sign an issuance order as its maker",
		Long: `Signs the order digest with eth_sign semantics, either with a local key
(--key) or through a node or remote signer (--rpc), and prints the signed order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readIssuanceOrder(cmd)
			if err != nil {
				return err
			}
			signer, closeSigner, err := signerFromFlags(cmd.Context(), cmd, fallback)
			if err != nil {
				return err
			}
			defer closeSigner()

			hasher := hasherFromFlags(cmd)
			signed, err := issuance.Sign(cmd.Context(), signer, hasher, order)
			if err != nil {
				return err
			}
			if err := signed.Verify(hasher); err != nil {
				return fmt.Errorf("signature check failed: %w", err)
			}
			return printJSON(cmd, signed)
		},
	}
	cmd.Flags().String(flagFile, "-", "issuance order file (- for stdin)")
	cmd.Flags().String(flagKey, "", "hex private key of the maker")
	cmd.Flags().String(flagRPC, "", "eth_sign endpoint (http, ws or ipc)")
	cmd.Flags().Duration(flagTimeout, defaultSignerTimeout, "signer call timeout")
	return cmd
}

func newParseSigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-sig <signature>",
		Short: "Split a 65-byte r|s|v signature into its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := crypto.ParseSignatureHex(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, sig)
		},
	}
}

func newSaltCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "salt",
		Short: "Print a random 256-bit salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := issuance.GenerateSalt(nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), salt.String())
			return nil
		},
	}
}

func newTimestampCmd() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "timestamp",
		Short: "Print the unix time a number of minutes from now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), issuance.GenerateTimestamp(util.RealClock{}, minutes).String())
			return nil
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 60, "minutes until expiration")
	return cmd
}

func newDomainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domain",
		Short: "Print the EIP-712 domain and its hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher := hasherFromFlags(cmd)
			return printJSON(cmd, map[string]string{
				"name":       hasher.Domain().Name,
				"version":    hasher.Domain().Version,
				"schemaHash": crypto.DomainSeparatorSchemaHash().Hex(),
				"domainHash": hasher.DomainHash().Hex(),
			})
		},
	}
}

func newRebalanceCalldataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance-calldata",
		Short: "Build call data for creating rebalancing set tokens",
	}

	var manager, proposalPeriod, rebalanceInterval string
	v1 := &cobra.Command{
		Use:   "v1",
		Short: "Call data for a v1 rebalancing set token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseAddress("manager", manager)
			if err != nil {
				return err
			}
			ints, err := parseInts(map[string]string{
				"proposal-period":    proposalPeriod,
				"rebalance-interval": rebalanceInterval,
			})
			if err != nil {
				return err
			}
			b, err := calldata.RebalancingSetV1{
				Manager:           m,
				ProposalPeriod:    ints["proposal-period"],
				RebalanceInterval: ints["rebalance-interval"],
			}.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoding.ToHex(b))
			return nil
		},
	}
	v1.Flags().StringVar(&manager, "manager", "", "manager address")
	v1.Flags().StringVar(&proposalPeriod, "proposal-period", "86400", "proposal period in seconds")
	v1.Flags().StringVar(&rebalanceInterval, "rebalance-interval", "86400", "rebalance interval in seconds")

	var (
		v2Manager, liquidator, feeRecipient, feeCalculator string
		v2Interval, failPeriod, lastRebalance, entryFee     string
		rebalanceFee                                       string
	)
	v2 := &cobra.Command{
		Use:   "v2",
		Short: "Call data for a v2 rebalancing set token with a fixed fee calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := map[string]string{
				"manager":        v2Manager,
				"liquidator":     liquidator,
				"fee-recipient":  feeRecipient,
				"fee-calculator": feeCalculator,
			}
			parsed := make(map[string]common.Address, len(addrs))
			for flag, v := range addrs {
				a, err := parseAddress(flag, v)
				if err != nil {
					return err
				}
				parsed[flag] = a
			}
			ints, err := parseInts(map[string]string{
				"rebalance-interval":       v2Interval,
				"fail-rebalance-period":    failPeriod,
				"last-rebalance-timestamp": lastRebalance,
				"entry-fee":                entryFee,
				"rebalance-fee":            rebalanceFee,
			})
			if err != nil {
				return err
			}
			feeData, err := calldata.FixedFeeCalculatorData(ints["rebalance-fee"])
			if err != nil {
				return err
			}
			b, err := calldata.RebalancingSetV2{
				Manager:                parsed["manager"],
				Liquidator:             parsed["liquidator"],
				FeeRecipient:           parsed["fee-recipient"],
				RebalanceFeeCalculator: parsed["fee-calculator"],
				RebalanceInterval:      ints["rebalance-interval"],
				FailRebalancePeriod:    ints["fail-rebalance-period"],
				LastRebalanceTimestamp: ints["last-rebalance-timestamp"],
				EntryFee:               ints["entry-fee"],
				FeeCalculatorData:      feeData,
			}.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoding.ToHex(b))
			return nil
		},
	}
	v2.Flags().StringVar(&v2Manager, "manager", "", "manager address")
	v2.Flags().StringVar(&liquidator, "liquidator", "", "liquidator address")
	v2.Flags().StringVar(&feeRecipient, "fee-recipient", "", "fee recipient address")
	v2.Flags().StringVar(&feeCalculator, "fee-calculator", "", "rebalance fee calculator address")
	v2.Flags().StringVar(&v2Interval, "rebalance-interval", "86400", "rebalance interval in seconds")
	v2.Flags().StringVar(&failPeriod, "fail-rebalance-period", "86400", "seconds before a rebalance can be failed")
	v2.Flags().StringVar(&lastRebalance, "last-rebalance-timestamp", "0", "unix time of the last rebalance")
	v2.Flags().StringVar(&entryFee, "entry-fee", "0", "mint fee scaled by 10^18")
	v2.Flags().StringVar(&rebalanceFee, "rebalance-fee", "0", "fixed rebalance fee scaled by 10^18")

	cmd.AddCommand(v1, v2)
	return cmd
}

func parseInts(values map[string]string) (map[string]*big.Int, error) {
	out := make(map[string]*big.Int, len(values))
	for flag, v := range values {
		n, err := parseAmount(v, 0)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flag, err)
		}
		out[flag] = n
	}
	return out, nil
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a throwaway secp256k1 key pair for devnets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"address":    key.Address().Hex(),
				"privateKey": key.PrivateKeyHex(),
			})
		},
	}
}

func newUnitsCmd() *cobra.Command {
	var decimals int32
	var reverse bool
	cmd := &cobra.Command{
		Use:   "units <amount>",
		Short: "Convert a human token amount to base units (or back with --reverse)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reverse {
				n, err := parseAmount(args[0], 0)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), units.FromBaseUnits(n, decimals))
				return nil
			}
			n, err := units.ToBaseUnits(args[0], decimals)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.String())
			return nil
		},
	}
	cmd.Flags().Int32Var(&decimals, flagDecimals, units.SetDecimals, "token decimals")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "convert base units to a human amount")
	return cmd
}
