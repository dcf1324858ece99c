package eip712

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Field is one named member of a struct type. Declaration order is part of
// the signed content: two types with the same fields in a different order
// hash differently.
type Field struct {
	Name string
	Type FieldType
}

// StructType is an ordered, named list of fields, defined once at startup
// and immutable afterwards. A StructType is itself a FieldType, so structs
// nest.
type StructType struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewStructType builds a struct type from its fields in declaration order.
func NewStructType(name string, fields ...Field) (*StructType, error) {
	if name == "" {
		return nil, fmt.Errorf("eip712: struct type name must not be empty")
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("eip712: struct type %s: field %d has no name", name, i)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("eip712: struct type %s: field %s has no type", name, f.Name)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("eip712: struct type %s: duplicate field %s", name, f.Name)
		}
		index[f.Name] = i
	}
	return &StructType{name: name, fields: append([]Field(nil), fields...), index: index}, nil
}

// MustStructType is NewStructType for package-level schema declarations.
func MustStructType(name string, fields ...Field) *StructType {
	t, err := NewStructType(name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the struct type's name.
func (t *StructType) Name() string { return t.name }

// Fields returns the declared fields in declaration order.
func (t *StructType) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// TypeName implements FieldType; nested struct members are rendered by name.
func (t *StructType) TypeName() string { return t.name }

func (t *StructType) noneValue() interface{} { return nil }

// encodeValue encodes a nested struct member as the 32-byte HashStruct of
// its instance. The instance's type must carry the identical signature.
func (t *StructType) encodeValue(value interface{}) ([]byte, error) {
	s, ok := value.(*Struct)
	if !ok || s == nil {
		return nil, encodingErr(t.name, value, "expected a %s struct instance", t.name)
	}
	if s.typ.Encode(false) != t.Encode(false) {
		return nil, encodingErr(t.name, value, "struct signature mismatch: got %s", s.typ.Encode(false))
	}
	return s.HashStruct()
}

// Encode returns the canonical type signature. With resolveRefs, the
// signatures of all transitively referenced struct types (excluding this
// one) are appended sorted by type name; the sort is plain byte-wise string
// ordering, which keeps the digest locale independent.
func (t *StructType) Encode(resolveRefs bool) string {
	var b strings.Builder
	b.WriteString(t.name)
	b.WriteByte('(')
	for i, f := range t.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Type.TypeName())
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')

	if resolveRefs {
		refs := make(map[string]*StructType)
		t.gatherRefs(refs)
		delete(refs, t.name)
		names := make([]string, 0, len(refs))
		for name := range refs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(refs[name].Encode(false))
		}
	}
	return b.String()
}

// TypeHash returns keccak256 of the resolved canonical signature.
func (t *StructType) TypeHash() []byte {
	return crypto.Keccak256([]byte(t.Encode(true)))
}

// gatherRefs collects every struct type referenced directly or through
// arrays, including t itself.
func (t *StructType) gatherRefs(refs map[string]*StructType) {
	if _, seen := refs[t.name]; seen {
		return
	}
	refs[t.name] = t
	for _, f := range t.fields {
		if ref := structMember(f.Type); ref != nil {
			ref.gatherRefs(refs)
		}
	}
}

// structMember unwraps array nesting and reports the struct type a field
// refers to, or nil for scalar members.
func structMember(ft FieldType) *StructType {
	for {
		switch m := ft.(type) {
		case *StructType:
			return m
		case arrayType:
			ft = m.member
		default:
			return nil
		}
	}
}

// ArrayOf returns a dynamically sized array of the member type, named
// "<member>[]".
func ArrayOf(member FieldType) FieldType {
	return arrayType{member: member}
}

// FixedArrayOf returns an array with a fixed length, named "<member>[N]".
func FixedArrayOf(member FieldType, length int) FieldType {
	if length <= 0 {
		panic("eip712: fixed array length must be positive")
	}
	return arrayType{member: member, fixedLen: length}
}

type arrayType struct {
	member   FieldType
	fixedLen int // 0 means dynamically sized
}

func (t arrayType) TypeName() string {
	if t.fixedLen == 0 {
		return t.member.TypeName() + "[]"
	}
	return t.member.TypeName() + "[" + strconv.Itoa(t.fixedLen) + "]"
}

func (t arrayType) noneValue() interface{} { return []interface{}{} }

// encodeValue concatenates each element's encoding and hashes the result:
// an array contributes a single word regardless of its length.
func (t arrayType) encodeValue(value interface{}) ([]byte, error) {
	elems, err := toSlice(t.TypeName(), value)
	if err != nil {
		return nil, err
	}
	if t.fixedLen > 0 && len(elems) != t.fixedLen {
		return nil, encodingErr(t.TypeName(), value, "got %d elements, want %d", len(elems), t.fixedLen)
	}
	buf := make([]byte, 0, len(elems)*wordSize)
	for i, el := range elems {
		word, err := t.member.encodeValue(el)
		if err != nil {
			return nil, encodingErr(t.TypeName(), value, "element %d: %v", i, err)
		}
		buf = append(buf, word...)
	}
	return crypto.Keccak256(buf), nil
}

// toSlice normalizes any slice value to []interface{} so callers can pass
// concrete element types ([]*big.Int, []*Struct, ...).
func toSlice(typeName string, value interface{}) ([]interface{}, error) {
	if els, ok := value.([]interface{}); ok {
		return els, nil
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, encodingErr(typeName, value, "expected a slice")
	}
	els := make([]interface{}, rv.Len())
	for i := range els {
		els[i] = rv.Index(i).Interface()
	}
	return els, nil
}
