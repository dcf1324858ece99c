package eip712

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
)

func TestMakeDomainMinimality(t *testing.T) {
	if _, err := MakeDomain(DomainConfig{}); !errors.Is(err, ErrEmptyDomain) {
		t.Fatalf("empty config: got %v, want ErrEmptyDomain", err)
	}

	d, err := MakeDomain(DomainConfig{Name: "X"})
	if err != nil {
		t.Fatal(err)
	}
	fields := d.Type().Fields()
	if len(fields) != 1 || fields[0].Name != "name" || fields[0].Type.TypeName() != "string" {
		t.Fatalf("name-only domain fields = %+v, want exactly one string field 'name'", fields)
	}
	if got := d.Type().Encode(false); got != "EIP712Domain(string name)" {
		t.Errorf("signature = %q", got)
	}
}

func TestMakeDomainFieldOrder(t *testing.T) {
	d, err := MakeDomain(DomainConfig{
		Name:              "App",
		Version:           "1",
		ChainID:           big.NewInt(1),
		VerifyingContract: "0x0000000000000000000000000000000000000002",
		Salt:              make([]byte, 32),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract,bytes32 salt)"
	if got := d.Type().Encode(false); got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

// Golden vector: the Order shape signed against the Aevo testnet domain.
// The digests are pinned; any encoder change that moves them is a signing
// break, not a refactor.
func TestSignableHashGoldenVector(t *testing.T) {
	domain, err := MakeDomain(DomainConfig{
		Name:    "Aevo Testnet",
		Version: "1",
		ChainID: big.NewInt(11155111),
	})
	if err != nil {
		t.Fatal(err)
	}
	const wantDomainHash = "30c073629d8bf03b436295d4ded682a22940796d7206014ffb285f106019df8d"
	domainHash, err := domain.HashStruct()
	if err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(domainHash); got != wantDomainHash {
		t.Fatalf("domain hash = %s, want %s", got, wantDomainHash)
	}

	order, err := testOrderType(t).New(testOrderValues())
	if err != nil {
		t.Fatal(err)
	}

	digest, err := SignableHash(order, domain)
	if err != nil {
		t.Fatal(err)
	}
	const wantBuy = "b551ada0f1c612c6e3d309bffd899f3dd044567d2d28b2fb0f161b7464bee9ab"
	if got := hex.EncodeToString(digest[:]); got != wantBuy {
		t.Fatalf("digest = %s, want %s", got, wantBuy)
	}

	// Flipping one field while holding everything else equal must move the
	// digest.
	if err := order.Set("isBuy", false); err != nil {
		t.Fatal(err)
	}
	digest, err = SignableHash(order, domain)
	if err != nil {
		t.Fatal(err)
	}
	const wantSell = "090ac8ef5d9d5e943995168a80bd8225bd4037ae2c3b322a94a9c2abe1b1939d"
	if got := hex.EncodeToString(digest[:]); got != wantSell {
		t.Fatalf("digest with isBuy=false = %s, want %s", got, wantSell)
	}
}

func TestSignableHashRequiresDomain(t *testing.T) {
	order, err := testOrderType(t).New(testOrderValues())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SignableHash(order, nil); err == nil {
		t.Fatal("nil domain must be rejected")
	}
}
