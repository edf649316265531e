package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/setcodec/pkg/crypto"
	"github.com/uhyunpark/setcodec/pkg/issuance"
)

const fixtureOrder = `{
	"setAddress": "0x3c5e1a1fbe4d4f4b8a0b1c2d3e4f5a6b7c8d9e0f",
	"makerAddress": "MAKER",
	"makerToken": "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
	"relayerAddress": "0x6ecbe1db9ef729cbe972c83fb886247691fb6beb",
	"relayerToken": "0x871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c",
	"quantity": "4000000000000000000",
	"makerTokenAmount": "10000000000000000000",
	"expiration": "1541723033",
	"makerRelayerFee": "1000000000000000000",
	"takerRelayerFee": "2000000000000000000",
	"salt": "46240185024355614306812981219017853417453398117096349837536137298893622706131",
	"requiredComponents": ["0xe36ea790bc9d7ab70c55260c66d52b1eca985f84", "0xe834ec434daba538cd1b9fe1582052b880bd7e63"],
	"requiredComponentAmounts": ["2000000000000000000", "2000000000000000000"]
}`

func orderFor(maker string) string {
	return strings.Replace(fixtureOrder, "MAKER", maker, 1)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SIGNER_RPC_URL", "")
	t.Setenv("SIGNER_PRIVATE_KEY", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashOrderCmd(t *testing.T) {
	out, err := run(t, orderFor("0x5409ed021d9299bf6814279a6a1411a7e866a631"), "hash-order")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "0xd95c5f54b59664da5e7fdcc6171eb2509a514a93f9febbbe7f1f1ffdccb78c43", got["digest"])
	assert.Equal(t, "0x675df07e3e160b58802b8cd3941ca648fcc9d2e026eb249a1217d2769749aad0", got["structHash"])
}

func TestHashOrderCmdFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(path, []byte(orderFor("0x5409ed021d9299bf6814279a6a1411a7e866a631")), 0o600))

	out, err := run(t, "", "hash-order", "--file", path, "--domain-version", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "0xd95c5f54b59664da5e7fdcc6171eb2509a514a93f9febbbe7f1f1ffdccb78c43")
}

func TestSignOrderCmd(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	out, err := run(t, orderFor(key.Address().Hex()), "sign-order", "--key", key.PrivateKeyHex())
	require.NoError(t, err)

	var signed issuance.SignedOrder
	require.NoError(t, json.Unmarshal([]byte(out), &signed))
	require.NoError(t, signed.Verify(crypto.NewEIP712Hasher(crypto.DefaultDomain())))
}

func TestSignOrderCmdWithoutSigner(t *testing.T) {
	_, err := run(t, orderFor("0x5409ed021d9299bf6814279a6a1411a7e866a631"), "sign-order")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signer")
}

func TestSerializeCmd(t *testing.T) {
	orders := `[{"takerTokenAddress": "0xe36ea790bc9d7ab70c55260c66d52b1eca985f84", "takerTokenAmount": "5"}]`
	out, err := run(t, orders, "serialize",
		"--payment-token", "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
		"--payment-amount", "1.5", "--decimals", "18")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 2+2*(160+64))

	_, err = run(t, `[{"nope": 1}]`, "serialize", "--payment-token", "0x1dc4c1cefef38a777b15aa20260a54e584b16c48")
	require.Error(t, err)
}

func TestParseSigCmd(t *testing.T) {
	sig := "0x" + strings.Repeat("11", 32) + strings.Repeat("22", 32) + "1b"
	out, err := run(t, "", "parse-sig", sig)
	require.NoError(t, err)
	assert.Contains(t, out, `"v": 27`)

	_, err = run(t, "", "parse-sig", "0x00")
	require.ErrorIs(t, err, crypto.ErrMalformedSignature)
}

func TestDomainCmd(t *testing.T) {
	out, err := run(t, "", "domain")
	require.NoError(t, err)
	assert.Contains(t, out, "0xa8dcc602486c63f3c678c9b3c5d615c4d6ab4b7d51868af6881272b5d8bb31ff")
}

func TestRebalanceCalldataCmd(t *testing.T) {
	out, err := run(t, "", "rebalance-calldata", "v1",
		"--manager", "0x5409ed021d9299bf6814279a6a1411a7e866a631",
		"--proposal-period", "86400", "--rebalance-interval", "2592000")
	require.NoError(t, err)
	assert.Equal(t, 2+2*96, len(strings.TrimSpace(out)))

	out, err = run(t, "", "rebalance-calldata", "v2",
		"--manager", "0x5409ed021d9299bf6814279a6a1411a7e866a631",
		"--liquidator", "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
		"--fee-recipient", "0x6ecbe1db9ef729cbe972c83fb886247691fb6beb",
		"--fee-calculator", "0x871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c",
		"--rebalance-fee", "10000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 2+2*9*32, len(strings.TrimSpace(out)))

	_, err = run(t, "", "rebalance-calldata", "v1", "--manager", "nope")
	require.Error(t, err)
}

func TestUnitsCmd(t *testing.T) {
	out, err := run(t, "", "units", "1.5", "--decimals", "8")
	require.NoError(t, err)
	assert.Equal(t, "150000000", strings.TrimSpace(out))

	out, err = run(t, "", "units", "150000000", "--decimals", "8", "--reverse")
	require.NoError(t, err)
	assert.Equal(t, "1.5", strings.TrimSpace(out))
}

func TestSaltAndTimestampCmd(t *testing.T) {
	out, err := run(t, "", "salt")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, "", "timestamp", "--minutes", "5")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 10)
}
