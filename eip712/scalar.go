// Package eip712 implements EIP-712 typed structured data: canonical type
// signatures, struct hashing, domain separation and the wire-message form
// used to transport a struct + domain pair. Type definitions are built once
// at startup and are immutable; all operations are pure and synchronous.
package eip712

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// FieldType is the closed set of member types a struct field can carry:
// a scalar, an Array, or a nested *StructType. Every implementation encodes
// a value into exactly one 32-byte word.
type FieldType interface {
	// TypeName returns the canonical solidity-style type name, e.g. "uint256".
	TypeName() string

	// encodeValue verifies value and converts it into the canonical 32-byte
	// word. Failures are reported as *EncodingError.
	encodeValue(value interface{}) ([]byte, error)

	// noneValue is the value substituted when a struct field was never
	// assigned. Nested structs have no none value and return nil.
	noneValue() interface{}
}

const wordSize = 32

// Address returns the "address" scalar type. Values are accepted as hex
// strings, common.Address, raw bytes or integers, and are encoded like a
// uint160.
func Address() FieldType { return addressType{} }

// Boolean returns the "bool" scalar type, encoded as a uint256 of 0 or 1.
func Boolean() FieldType { return booleanType{} }

// String returns the "string" scalar type. String values are encoded as the
// keccak256 hash of their UTF-8 bytes.
func String() FieldType { return stringType{} }

// Bytes returns a bytes type. A length of 0 means the dynamic "bytes" type
// (keccak256 hashed); 1..32 means the static "bytesN" type (right padded).
// Bytes panics on lengths outside 0..32: byte widths are part of a schema
// fixed at definition time, not runtime input.
func Bytes(length int) FieldType {
	if length < 0 || length > wordSize {
		panic("eip712: bytes length must be between 0 and 32")
	}
	return bytesType{length: length}
}

// Uint returns an unsigned integer type of the given bit width. The width
// must be a multiple of 8 between 8 and 256; Uint panics otherwise, for the
// same reason Bytes does.
func Uint(bits int) FieldType {
	if !validBits(bits) {
		panic("eip712: uint width must be a multiple of 8 between 8 and 256")
	}
	return uintType{bits: bits}
}

// Int returns a signed integer type of the given bit width, with the same
// width constraint as Uint.
func Int(bits int) FieldType {
	if !validBits(bits) {
		panic("eip712: int width must be a multiple of 8 between 8 and 256")
	}
	return intType{bits: bits}
}

func validBits(bits int) bool {
	return bits >= 8 && bits <= 256 && bits%8 == 0
}

type addressType struct{}

func (addressType) TypeName() string       { return "address" }
func (addressType) noneValue() interface{} { return new(big.Int) }

func (t addressType) encodeValue(value interface{}) ([]byte, error) {
	var v *big.Int
	switch x := value.(type) {
	case common.Address:
		v = new(big.Int).SetBytes(x.Bytes())
	case []byte:
		v = new(big.Int).SetBytes(x)
	case string:
		b, err := hexutil.Decode(normalizeHex(x))
		if err != nil {
			return nil, encodingErr(t.TypeName(), value, "invalid hex string: %v", err)
		}
		v = new(big.Int).SetBytes(b)
	default:
		var err error
		v, err = toInteger(t.TypeName(), value)
		if err != nil {
			return nil, err
		}
	}
	if v.Sign() < 0 || v.BitLen() > 160 {
		return nil, encodingErr(t.TypeName(), value, "value outside 160-bit range")
	}
	return math.PaddedBigBytes(v, wordSize), nil
}

type booleanType struct{}

func (booleanType) TypeName() string       { return "bool" }
func (booleanType) noneValue() interface{} { return false }

func (t booleanType) encodeValue(value interface{}) ([]byte, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, encodingErr(t.TypeName(), value, "must be true or false")
	}
	word := make([]byte, wordSize)
	if b {
		word[wordSize-1] = 1
	}
	return word, nil
}

type stringType struct{}

func (stringType) TypeName() string       { return "string" }
func (stringType) noneValue() interface{} { return "" }

func (t stringType) encodeValue(value interface{}) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, encodingErr(t.TypeName(), value, "must be a string")
	}
	return crypto.Keccak256([]byte(s)), nil
}

type bytesType struct {
	length int // 0 means dynamic
}

func (t bytesType) TypeName() string {
	if t.length == 0 {
		return "bytes"
	}
	return "bytes" + strconv.Itoa(t.length)
}

func (t bytesType) noneValue() interface{} { return []byte{} }

func (t bytesType) encodeValue(value interface{}) ([]byte, error) {
	raw, err := toBytes(t.TypeName(), value)
	if err != nil {
		return nil, err
	}
	if t.length == 0 {
		return crypto.Keccak256(raw), nil
	}
	if len(raw) > t.length {
		return nil, encodingErr(t.TypeName(), value, "got %d bytes, want at most %d", len(raw), t.length)
	}
	word := make([]byte, wordSize)
	copy(word, raw)
	return word, nil
}

type uintType struct {
	bits int
}

func (t uintType) TypeName() string       { return "uint" + strconv.Itoa(t.bits) }
func (t uintType) noneValue() interface{} { return new(big.Int) }

func (t uintType) encodeValue(value interface{}) ([]byte, error) {
	v, err := toInteger(t.TypeName(), value)
	if err != nil {
		return nil, err
	}
	if v.Sign() < 0 {
		return nil, encodingErr(t.TypeName(), value, "negative value for unsigned type")
	}
	if v.BitLen() > t.bits {
		return nil, encodingErr(t.TypeName(), value, "value does not fit in %d bits", t.bits)
	}
	return math.PaddedBigBytes(v, wordSize), nil
}

type intType struct {
	bits int
}

func (t intType) TypeName() string       { return "int" + strconv.Itoa(t.bits) }
func (t intType) noneValue() interface{} { return new(big.Int) }

func (t intType) encodeValue(value interface{}) ([]byte, error) {
	v, err := toInteger(t.TypeName(), value)
	if err != nil {
		return nil, err
	}
	// Two's complement range check before widening to the full word.
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.bits-1))
	max := new(big.Int).Sub(limit, big.NewInt(1))
	min := new(big.Int).Neg(limit)
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return nil, encodingErr(t.TypeName(), value, "value does not fit in %d bits", t.bits)
	}
	return math.U256Bytes(new(big.Int).Set(v)), nil
}

// toInteger accepts the integer shapes seen both from Go callers and from
// JSON-decoded wire messages.
func toInteger(typeName string, value interface{}) (*big.Int, error) {
	switch x := value.(type) {
	case *big.Int:
		if x == nil {
			return nil, encodingErr(typeName, value, "nil *big.Int")
		}
		return x, nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		// encoding/json decodes numbers to float64; only integral values
		// survive the trip.
		if float64(int64(x)) != x {
			return nil, encodingErr(typeName, value, "non-integral number")
		}
		return big.NewInt(int64(x)), nil
	case string:
		v, ok := math.ParseBig256(x)
		if !ok {
			return nil, encodingErr(typeName, value, "invalid integer string")
		}
		return v, nil
	default:
		return nil, encodingErr(typeName, value, "unsupported value of type %T", value)
	}
}

func toBytes(typeName string, value interface{}) ([]byte, error) {
	switch x := value.(type) {
	case []byte:
		return x, nil
	case [wordSize]byte:
		return x[:], nil
	case common.Hash:
		return x.Bytes(), nil
	case string:
		b, err := hexutil.Decode(normalizeHex(x))
		if err != nil {
			return nil, encodingErr(typeName, value, "invalid hex string: %v", err)
		}
		return b, nil
	default:
		return nil, encodingErr(typeName, value, "unsupported value of type %T", value)
	}
}

// normalizeHex tolerates hex strings without the 0x prefix and odd-length
// nibbles, both of which appear in upstream payloads.
func normalizeHex(s string) string {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if len(s)%2 != 0 {
		s = "0x0" + s[2:]
	}
	return s
}

