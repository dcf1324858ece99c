package signing

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/eip712"
)

func TestTypeHashes(t *testing.T) {
	cases := []struct {
		typ  *eip712.StructType
		want string
	}{
		{OrderType, "4541d7d3946046b6a386e51fa6fada6ebfcd2aa847235437708916fe4c3df82b"},
		{WithdrawType, "6dc4b9db376b4ac683b1d5f78bbed02b58ae61997e651ea0bc8885cb2e464788"},
		{RegisterType, "157ed7c01ed70a003867bde55d54d8bbb312f5a6b7d4333b35aaec1e24c76be9"},
		{SignKeyType, "2ff9e607f7eb3ff4057084887a1e540f46f1a773c72f756e09451eaf455c34fd"},
	}
	for _, c := range cases {
		if got := hex.EncodeToString(c.typ.TypeHash()); got != c.want {
			t.Errorf("%s: type hash = %s, want %s", c.typ.Name(), got, c.want)
		}
	}
}

func TestSignOrderDeterministicDigest(t *testing.T) {
	key, err := crypto.HexToECDSA("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	if err != nil {
		t.Fatal(err)
	}
	signed, err := SignOrder(types.Testnet, key, OrderParams{
		Maker:      "0x0000000000000000000000000000000000000001",
		IsBuy:      true,
		LimitPrice: big.NewInt(1200000000),
		Amount:     big.NewInt(10000),
		Instrument: 2054,
		Timestamp:  1700000000,
	}, big.NewInt(42))
	if err != nil {
		t.Fatal(err)
	}
	const want = "0xb551ada0f1c612c6e3d309bffd899f3dd044567d2d28b2fb0f161b7464bee9ab"
	if signed.ID != want {
		t.Errorf("order id = %s, want %s", signed.ID, want)
	}
	if signed.Salt.Int64() != 42 {
		t.Errorf("salt = %s, want 42", signed.Salt)
	}
	digest, err := hexutil.Decode(want)
	if err != nil {
		t.Fatal(err)
	}
	assertSignedBy(t, signed.Signature, digest, crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestSignWithdrawDeterministicDigest(t *testing.T) {
	key, err := crypto.HexToECDSA("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	if err != nil {
		t.Fatal(err)
	}
	signed, err := SignWithdraw(types.Testnet, key, WithdrawParams{
		Collateral: "0x0000000000000000000000000000000000000002",
		To:         "0x0000000000000000000000000000000000000003",
		Amount:     big.NewInt(250000000),
	}, big.NewInt(7))
	if err != nil {
		t.Fatal(err)
	}
	if signed.Salt.Int64() != 7 {
		t.Errorf("salt = %s, want 7", signed.Salt)
	}
	digest, err := hexutil.Decode("0xda8f2d295dcf26d0fd1ed88b253f51012b4b897647e9592654677d46d234d677")
	if err != nil {
		t.Fatal(err)
	}
	assertSignedBy(t, signed.Signature, digest, crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestSignRegisterBothSignatures(t *testing.T) {
	accountKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signingKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	req, err := SignRegister(types.Testnet, accountKey, signingKey, 1750000000)
	if err != nil {
		t.Fatal(err)
	}
	if req.Account != crypto.PubkeyToAddress(accountKey.PublicKey).Hex() {
		t.Errorf("account = %s", req.Account)
	}
	if req.SigningKey != crypto.PubkeyToAddress(signingKey.PublicKey).Hex() {
		t.Errorf("signing key = %s", req.SigningKey)
	}
	if req.Expiry != "1750000000" {
		t.Errorf("expiry = %s", req.Expiry)
	}

	// Register is signed by the account, SignKey by the new key.
	domain, err := Domain(types.Testnet)
	if err != nil {
		t.Fatal(err)
	}
	register, err := RegisterType.New(map[string]interface{}{
		"key":    req.SigningKey,
		"expiry": big.NewInt(1750000000),
	})
	if err != nil {
		t.Fatal(err)
	}
	registerDigest, err := eip712.SignableHash(register, domain)
	if err != nil {
		t.Fatal(err)
	}
	assertSignedBy(t, req.AccountSignature, registerDigest.Bytes(), req.Account)

	signKey, err := SignKeyType.New(map[string]interface{}{"account": req.Account})
	if err != nil {
		t.Fatal(err)
	}
	signKeyDigest, err := eip712.SignableHash(signKey, domain)
	if err != nil {
		t.Fatal(err)
	}
	assertSignedBy(t, req.SigningKeySignature, signKeyDigest.Bytes(), req.SigningKey)
}

func TestKnownDomainDigests(t *testing.T) {
	// Digests pinned against an independent implementation.
	domain, err := Domain(types.Testnet)
	if err != nil {
		t.Fatal(err)
	}

	register, err := RegisterType.New(map[string]interface{}{
		"key":    "0x0000000000000000000000000000000000000004",
		"expiry": big.NewInt(1750000000),
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := eip712.SignableHash(register, domain)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hex() != "0xca1757843e4fe1b3c9de1826a61340c60100b5e456306d3da0c971c607ff61b0" {
		t.Errorf("register digest = %s", got.Hex())
	}

	signKey, err := SignKeyType.New(map[string]interface{}{
		"account": "0x0000000000000000000000000000000000000005",
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err = eip712.SignableHash(signKey, domain)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hex() != "0x5bcc9fd5921922629d1078562bc940d32c543afdf097fce6b96acce3f3f80a23" {
		t.Errorf("signkey digest = %s", got.Hex())
	}
}

func TestNewSaltRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		salt, err := NewSalt()
		if err != nil {
			t.Fatal(err)
		}
		if salt.Sign() < 0 || salt.Cmp(saltBound) >= 0 {
			t.Fatalf("salt %s out of range", salt)
		}
	}
}

// assertSignedBy checks the 27/28 recovery id convention and that the
// signature recovers to wantAddr over digest.
func assertSignedBy(t *testing.T, sigHex string, digest []byte, wantAddr string) {
	t.Helper()
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != 65 || (sig[64] != 27 && sig[64] != 28) {
		t.Fatalf("malformed signature %s", sigHex)
	}
	recovery := make([]byte, 65)
	copy(recovery, sig)
	recovery[64] -= 27
	pub, err := crypto.SigToPub(digest, recovery)
	if err != nil {
		t.Fatal(err)
	}
	if got := crypto.PubkeyToAddress(*pub).Hex(); got != wantAddr {
		t.Errorf("recovered %s, want %s", got, wantAddr)
	}
}
