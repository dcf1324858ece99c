package client

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aevoxyz/aevo-sdk/aevo/signing"
	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/eip712"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	c, err := NewClient(Config{
		Env:        types.Testnet,
		SigningKey: key,
	})
	require.NoError(t, err)
	return c
}

func TestScaleAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1200.5", "1200500000"},
		{"0.000001", "1"},
		{"100", "100000000"},
		{"0", "0"},
		// banker's rounding on the sub-unit remainder
		{"0.0000005", "0"},
		{"0.0000015", "2"},
		{"0.0000025", "2"},
	}
	for _, c := range cases {
		got, err := scaleAmount(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got.String(), c.in)
	}

	_, err := scaleAmount("-1")
	assert.Error(t, err)
	_, err = scaleAmount("not a number")
	assert.Error(t, err)
}

func TestBuildLimitOrder(t *testing.T) {
	c := testClient(t)
	req, signed, err := c.buildOrder(OrderParams{
		Instrument: 2054,
		IsBuy:      true,
		Price:      "1200.5",
		Quantity:   "0.01",
		PostOnly:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2054), req.Instrument)
	assert.True(t, req.IsBuy)
	assert.Equal(t, "1200500000", req.LimitPrice)
	assert.Equal(t, "10000", req.Amount)
	assert.True(t, req.PostOnly)
	assert.Equal(t, signed.Salt.String(), req.Salt)
	assert.Equal(t, signed.Signature, req.Signature)
	assert.NotEmpty(t, signed.ID)
	assert.NotZero(t, req.Timestamp)
	assert.Equal(t, crypto.PubkeyToAddress(c.cfg.SigningKey.PublicKey).Hex(), req.Maker)
}

func TestBuildMarketOrder(t *testing.T) {
	c := testClient(t)

	buy, _, err := c.buildOrder(OrderParams{Instrument: 1, IsBuy: true, Quantity: "1", Market: true})
	require.NoError(t, err)
	assert.Equal(t, maxUint256.String(), buy.LimitPrice)
	// post-only makes no sense on an order meant to cross
	assert.False(t, buy.PostOnly)

	sell, _, err := c.buildOrder(OrderParams{Instrument: 1, IsBuy: false, Quantity: "1", Market: true, PostOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "0", sell.LimitPrice)
	assert.False(t, sell.PostOnly)
}

func TestBuildOrderRequiresSigningKey(t *testing.T) {
	c, err := NewClient(Config{Env: types.Testnet})
	require.NoError(t, err)
	_, _, err = c.buildOrder(OrderParams{Instrument: 1, IsBuy: true, Price: "1", Quantity: "1"})
	assert.Error(t, err)
}

func TestBuildWithdrawDefaultsRecipient(t *testing.T) {
	c := testClient(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	req, err := c.buildWithdraw(key, "", "", "250")
	require.NoError(t, err)
	proxy := types.Testnet.Contracts().L2WithdrawProxy
	require.NotEmpty(t, proxy)
	assert.Equal(t, proxy, req.To)

	// the signature must commit to the proxy address, not the zero address
	salt, ok := new(big.Int).SetString(req.Salt, 10)
	require.True(t, ok)
	msg, err := signing.WithdrawType.New(map[string]interface{}{
		"collateral": req.Collateral,
		"to":         proxy,
		"amount":     big.NewInt(250000000),
		"salt":       salt,
		"data":       make([]byte, 32),
	})
	require.NoError(t, err)
	domain, err := signing.Domain(types.Testnet)
	require.NoError(t, err)
	digest, err := eip712.SignableHash(msg, domain)
	require.NoError(t, err)

	sig, err := hexutil.Decode(req.Signature)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	sig[64] -= 27
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(*pub))
}

func TestBuildWithdrawDefaultsCollateral(t *testing.T) {
	c := testClient(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	req, err := c.buildWithdraw(key, "", "0x0000000000000000000000000000000000000003", "250")
	require.NoError(t, err)
	assert.Equal(t, types.Testnet.Contracts().L2USDC, req.Collateral)
	assert.Equal(t, "250000000", req.Amount)
	assert.NotEmpty(t, req.Signature)
	// without a configured wallet address the account falls back to the
	// withdrawing key
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), req.Account)
}

func TestMaxUint256(t *testing.T) {
	want, ok := new(big.Int).SetString(
		"115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)
	assert.Zero(t, maxUint256.Cmp(want))
}
