package eip712

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestCanonicalSignature(t *testing.T) {
	order := MustStructType("Order",
		Field{Name: "maker", Type: Address()},
		Field{Name: "isBuy", Type: Boolean()},
		Field{Name: "limitPrice", Type: Uint(256)},
		Field{Name: "amount", Type: Uint(256)},
		Field{Name: "salt", Type: Uint(256)},
		Field{Name: "instrument", Type: Uint(256)},
		Field{Name: "timestamp", Type: Uint(256)},
	)
	want := "Order(address maker,bool isBuy,uint256 limitPrice,uint256 amount,uint256 salt,uint256 instrument,uint256 timestamp)"
	if got := order.Encode(false); got != want {
		t.Errorf("Encode(false) = %q, want %q", got, want)
	}
	// No nested types: resolved signature is identical.
	if got := order.Encode(true); got != want {
		t.Errorf("Encode(true) = %q, want %q", got, want)
	}

	const wantHash = "4541d7d3946046b6a386e51fa6fada6ebfcd2aa847235437708916fe4c3df82b"
	if got := hex.EncodeToString(order.TypeHash()); got != wantHash {
		t.Errorf("TypeHash = %s, want %s", got, wantHash)
	}
}

func TestFieldOrderChangesTypeHash(t *testing.T) {
	ab := MustStructType("Pair",
		Field{Name: "a", Type: Uint(256)},
		Field{Name: "b", Type: Uint(256)},
	)
	ba := MustStructType("Pair",
		Field{Name: "b", Type: Uint(256)},
		Field{Name: "a", Type: Uint(256)},
	)
	if ab.Encode(true) == ba.Encode(true) {
		t.Fatal("declaration order must be part of the signature")
	}
	if hex.EncodeToString(ab.TypeHash()) == hex.EncodeToString(ba.TypeHash()) {
		t.Fatal("declaration order must be part of the type hash")
	}
}

func TestReferenceSorting(t *testing.T) {
	a := MustStructType("Apple", Field{Name: "x", Type: Uint(256)})
	b := MustStructType("Banana", Field{Name: "y", Type: Uint(256)})
	// Declared B before A: the resolved signature must still append Apple
	// before Banana (lexicographic, not declaration order).
	outer := MustStructType("Basket",
		Field{Name: "second", Type: b},
		Field{Name: "first", Type: a},
	)
	sig := outer.Encode(true)
	wantPrefix := "Basket(Banana second,Apple first)"
	if !strings.HasPrefix(sig, wantPrefix) {
		t.Fatalf("signature = %q, want prefix %q", sig, wantPrefix)
	}
	rest := strings.TrimPrefix(sig, wantPrefix)
	if rest != "Apple(uint256 x)Banana(uint256 y)" {
		t.Errorf("referenced types appended as %q, want Apple before Banana", rest)
	}
}

func TestTransitiveReferencesThroughArrays(t *testing.T) {
	leaf := MustStructType("Leaf", Field{Name: "v", Type: Uint(8)})
	branch := MustStructType("Branch", Field{Name: "leaves", Type: ArrayOf(leaf)})
	tree := MustStructType("Tree", Field{Name: "branches", Type: FixedArrayOf(branch, 2)})

	sig := tree.Encode(true)
	want := "Tree(Branch[2] branches)Branch(Leaf[] leaves)Leaf(uint8 v)"
	if sig != want {
		t.Errorf("signature = %q, want %q", sig, want)
	}
}

func TestNewStructTypeValidation(t *testing.T) {
	if _, err := NewStructType(""); err == nil {
		t.Error("empty name must be rejected")
	}
	if _, err := NewStructType("T", Field{Name: "a", Type: Uint(8)}, Field{Name: "a", Type: Uint(8)}); err == nil {
		t.Error("duplicate field must be rejected")
	}
	if _, err := NewStructType("T", Field{Name: "a"}); err == nil {
		t.Error("field without a type must be rejected")
	}
}
