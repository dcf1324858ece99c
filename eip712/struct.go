package eip712

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
)

// Struct is one instance of a StructType: the type plus a value for each
// field. Instances are created per signing operation and are not safe for
// concurrent mutation; the type itself is immutable and freely shared.
type Struct struct {
	typ    *StructType
	values map[string]interface{}
}

// New instantiates the struct type with the given field values. Scalar
// fields left out encode as their type's none value. A key that is not a
// declared field is an *UnknownFieldError. Nested struct fields accept
// either a ready *Struct or a plain map, which is instantiated recursively
// (the shape wire messages decode to).
func (t *StructType) New(values map[string]interface{}) (*Struct, error) {
	s := &Struct{typ: t, values: make(map[string]interface{}, len(t.fields))}
	for name, v := range values {
		i, ok := t.index[name]
		if !ok {
			return nil, &UnknownFieldError{Struct: t.name, Field: name}
		}
		coerced, err := coerceValue(t.fields[i].Type, v)
		if err != nil {
			return nil, err
		}
		s.values[name] = coerced
	}
	return s, nil
}

// coerceValue turns wire-shaped values (maps for structs, []interface{} of
// maps for struct arrays) into instances; everything else passes through
// untouched and is validated at encode time.
func coerceValue(ft FieldType, v interface{}) (interface{}, error) {
	switch m := ft.(type) {
	case *StructType:
		if raw, ok := v.(map[string]interface{}); ok {
			return m.New(raw)
		}
	case arrayType:
		if structMember(ft) == nil {
			return v, nil
		}
		elems, err := toSlice(ft.TypeName(), v)
		if err != nil {
			return v, nil // let encodeValue report it against the right type
		}
		out := make([]interface{}, len(elems))
		for i, el := range elems {
			cv, err := coerceValue(m.member, el)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	}
	return v, nil
}

// Type returns the struct's type.
func (s *Struct) Type() *StructType { return s.typ }

// Get returns the assigned value of a declared field. Unassigned fields
// return nil.
func (s *Struct) Get(name string) (interface{}, error) {
	if _, ok := s.typ.index[name]; !ok {
		return nil, &UnknownFieldError{Struct: s.typ.name, Field: name}
	}
	return s.values[name], nil
}

// Set assigns a field value, validating it eagerly so a bad value surfaces
// at the call site rather than inside a later digest computation.
func (s *Struct) Set(name string, value interface{}) error {
	i, ok := s.typ.index[name]
	if !ok {
		return &UnknownFieldError{Struct: s.typ.name, Field: name}
	}
	coerced, err := coerceValue(s.typ.fields[i].Type, value)
	if err != nil {
		return err
	}
	if _, err := s.typ.fields[i].Type.encodeValue(coerced); err != nil {
		return err
	}
	s.values[name] = coerced
	return nil
}

// EncodeData concatenates the 32-byte encoding of every field in
// declaration order. Nested structs contribute their HashStruct. The result
// is always exactly 32*len(fields) bytes.
func (s *Struct) EncodeData() ([]byte, error) {
	buf := make([]byte, 0, len(s.typ.fields)*wordSize)
	for _, f := range s.typ.fields {
		v, assigned := s.values[f.Name]
		if !assigned || v == nil {
			v = f.Type.noneValue()
			if v == nil {
				return nil, encodingErr(f.Type.TypeName(), nil, "field %s of %s has no value", f.Name, s.typ.name)
			}
		}
		word, err := f.Type.encodeValue(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, word...)
	}
	return buf, nil
}

// HashStruct returns keccak256(typeHash || encodeData).
func (s *Struct) HashStruct() ([]byte, error) {
	data, err := s.EncodeData()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(s.typ.TypeHash(), data), nil
}

// Equal reports structural equality: identical resolved type signatures and
// byte-identical encoded data. Equality is independent of any domain the
// structs may later be signed under.
func (s *Struct) Equal(other *Struct) bool {
	if other == nil {
		return false
	}
	if s == other {
		return true
	}
	if s.typ.Encode(true) != other.typ.Encode(true) {
		return false
	}
	a, err := s.EncodeData()
	if err != nil {
		return false
	}
	b, err := other.EncodeData()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
