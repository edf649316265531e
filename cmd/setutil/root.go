package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/uhyunpark/setcodec/params"
	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/units"
)

const (
	flagFile          = "file"
	flagDomainName    = "domain-name"
	flagDomainVersion = "domain-version"
	flagKey           = "key"
	flagRPC           = "rpc"
	flagTimeout       = "timeout"
	flagDecimals      = "decimals"
)

func newRootCmd() *cobra.Command {
	cfg := params.LoadFromEnv("")

	rootCmd := &cobra.Command{
		Use:           "setutil",
		Short:         "Set Protocol order encoding utilities",
		Long:          `Serialize exchange orders, hash and sign issuance orders, and build rebalancing call data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().String(flagDomainName, cfg.Domain.Name, "EIP-712 domain name")
	rootCmd.PersistentFlags().String(flagDomainVersion, cfg.Domain.Version, "EIP-712 domain version")

	rootCmd.AddCommand(
		newSerializeCmd(),
		newHashOrderCmd(),
		newSignOrderCmd(cfg.Signer),
		newParseSigCmd(),
		newSaltCmd(),
		newTimestampCmd(),
		newDomainCmd(),
		newRebalanceCalldataCmd(),
		newKeygenCmd(),
		newUnitsCmd(),
	)
	return rootCmd
}

// hasherFromFlags builds the hasher for the domain selected on the command line.
func hasherFromFlags(cmd *cobra.Command) *crypto.EIP712Hasher {
	name, _ := cmd.Flags().GetString(flagDomainName)
	version, _ := cmd.Flags().GetString(flagDomainVersion)
	return crypto.NewEIP712Hasher(crypto.EIP712Domain{Name: name, Version: version})
}

// readInput reads --file, or stdin when the flag is "-" or empty.
func readInput(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString(flagFile)
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// signerFromFlags prefers --rpc, then --key, then the environment.
func signerFromFlags(ctx context.Context, cmd *cobra.Command, fallback params.Signer) (crypto.MessageSigner, func(), error) {
	rpcURL, _ := cmd.Flags().GetString(flagRPC)
	key, _ := cmd.Flags().GetString(flagKey)
	timeout, _ := cmd.Flags().GetDuration(flagTimeout)
	if rpcURL == "" && key == "" {
		rpcURL, key = fallback.RPCURL, fallback.PrivateKey
	}

	switch {
	case rpcURL != "":
		s, err := crypto.DialRPCSigner(ctx, rpcURL, timeout)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case key != "":
		s, err := crypto.FromPrivateKeyHex(key)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("no signer: pass --%s or --%s (or set SIGNER_RPC_URL / SIGNER_PRIVATE_KEY)", flagRPC, flagKey)
	}
}

// parseAmount reads a base-unit integer, or a human amount when decimals > 0.
func parseAmount(s string, decimals int32) (*big.Int, error) {
	if decimals > 0 {
		return units.ToBaseUnits(s, decimals)
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

func parseAddress(flag, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("--%s: invalid address %q", flag, s)
	}
	return common.HexToAddress(s), nil
}

var defaultSignerTimeout = 10 * time.Second
