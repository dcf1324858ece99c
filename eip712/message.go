package eip712

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TypeField is one field entry in a wire message's type dictionary.
type TypeField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// WireMessage is the transport form of a struct + domain pair. It is the
// only shape that crosses the network boundary and must round-trip
// losslessly through ToMessage/FromMessage.
type WireMessage struct {
	PrimaryType string                 `json:"primaryType"`
	Types       map[string][]TypeField `json:"types"`
	Domain      map[string]interface{} `json:"domain"`
	Message     map[string]interface{} `json:"message"`
}

// ToMessage serializes a struct and its domain. The type dictionary carries
// the domain's type, the struct's type and every transitively referenced
// struct type, each with its fields in declaration order. Byte values render
// as 0x-prefixed lowercase hex; integers wider than what a JSON number can
// carry exactly render as decimal strings.
func ToMessage(msg *Struct, domain *Domain) (*WireMessage, error) {
	if domain == nil || domain.Struct == nil {
		return nil, ErrEmptyDomain
	}
	refs := make(map[string]*StructType)
	msg.typ.gatherRefs(refs)
	domain.typ.gatherRefs(refs)

	types := make(map[string][]TypeField, len(refs))
	for name, st := range refs {
		entries := make([]TypeField, len(st.fields))
		for i, f := range st.fields {
			entries[i] = TypeField{Name: f.Name, Type: f.Type.TypeName()}
		}
		types[name] = entries
	}

	domainValues, err := renderStruct(domain.Struct)
	if err != nil {
		return nil, err
	}
	msgValues, err := renderStruct(msg)
	if err != nil {
		return nil, err
	}
	return &WireMessage{
		PrimaryType: msg.typ.name,
		Types:       types,
		Domain:      domainValues,
		Message:     msgValues,
	}, nil
}

func renderStruct(s *Struct) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(s.typ.fields))
	for _, f := range s.typ.fields {
		v, assigned := s.values[f.Name]
		if !assigned || v == nil {
			v = f.Type.noneValue()
			if v == nil {
				return nil, encodingErr(f.Type.TypeName(), nil, "field %s of %s has no value", f.Name, s.typ.name)
			}
		}
		rendered, err := renderValue(f.Type, v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = rendered
	}
	return out, nil
}

func renderValue(ft FieldType, v interface{}) (interface{}, error) {
	switch t := ft.(type) {
	case *StructType:
		s, ok := v.(*Struct)
		if !ok || s == nil {
			return nil, encodingErr(t.name, v, "expected a %s struct instance", t.name)
		}
		return renderStruct(s)
	case arrayType:
		elems, err := toSlice(t.TypeName(), v)
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(elems))
		for i, el := range elems {
			out[i], err = renderValue(t.member, el)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case addressType:
		word, err := t.encodeValue(v)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(common.BytesToAddress(word).Hex()), nil
	case bytesType:
		raw, err := toBytes(t.TypeName(), v)
		if err != nil {
			return nil, err
		}
		return hexutil.Encode(raw), nil
	case uintType, intType:
		n, err := toInteger(ft.TypeName(), v)
		if err != nil {
			return nil, err
		}
		return renderInteger(n), nil
	default:
		// bool, string: already JSON-native; validate shape only.
		if _, err := ft.encodeValue(v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// renderInteger keeps small values as JSON numbers and widens the rest to
// decimal strings so nothing is squeezed through float64 precision.
func renderInteger(n *big.Int) interface{} {
	if n.IsInt64() && n.BitLen() <= 53 {
		return n.Int64()
	}
	return n.String()
}

var (
	scalarNameRe = regexp.MustCompile(`^([a-z]+)([0-9]+)?(\[([0-9]+)?\])?$`)
	refNameRe    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\[([0-9]+)?\])?$`)
)

// scalarFromName parses a declared type-name string into a scalar (or array
// of scalar) FieldType. Reference types report ok=false and are resolved in
// FromMessage's second pass.
func scalarFromName(name string) (FieldType, bool) {
	m := scalarNameRe.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	base, size, isArray, arrayLen := m[1], m[2], m[3], m[4]

	var ft FieldType
	switch base {
	case "address", "bool", "string":
		if size != "" {
			return nil, false
		}
		switch base {
		case "address":
			ft = Address()
		case "bool":
			ft = Boolean()
		default:
			ft = String()
		}
	case "bytes":
		n := 0
		if size != "" {
			n, _ = strconv.Atoi(size)
			if n < 1 || n > wordSize {
				return nil, false
			}
		}
		ft = Bytes(n)
	case "uint", "int":
		bits := 256
		if size != "" {
			bits, _ = strconv.Atoi(size)
			if !validBits(bits) {
				return nil, false
			}
		}
		if base == "uint" {
			ft = Uint(bits)
		} else {
			ft = Int(bits)
		}
	default:
		return nil, false
	}

	if isArray != "" {
		if arrayLen != "" {
			n, _ := strconv.Atoi(arrayLen)
			return FixedArrayOf(ft, n), true
		}
		return ArrayOf(ft), true
	}
	return ft, true
}

type pendingField struct {
	owner    string
	index    int
	declared string
}

// FromMessage reconstructs the struct and domain a wire message describes.
// Every declared type name gets a slot first, then field types are resolved
// against scalars and the now-complete slot set, so forward references and
// arrays of struct types work regardless of dictionary order.
func FromMessage(wire *WireMessage) (*Struct, *Domain, error) {
	if wire == nil {
		return nil, nil, schemaErr("nil wire message")
	}
	if wire.PrimaryType == "" {
		return nil, nil, schemaErr("wire message has no primary type")
	}
	if _, ok := wire.Types[wire.PrimaryType]; !ok {
		return nil, nil, schemaErr("primary type %q missing from types", wire.PrimaryType)
	}
	if _, ok := wire.Types[DomainName]; !ok {
		return nil, nil, schemaErr("%s missing from types", DomainName)
	}

	// First pass: a slot per declared name, scalar fields resolved in place.
	shells := make(map[string]*StructType, len(wire.Types))
	for name := range wire.Types {
		if name == "" {
			return nil, nil, schemaErr("empty type name in types")
		}
		shells[name] = &StructType{name: name}
	}
	var pending []pendingField
	for name, entries := range wire.Types {
		shell := shells[name]
		shell.fields = make([]Field, len(entries))
		shell.index = make(map[string]int, len(entries))
		for i, entry := range entries {
			if entry.Name == "" {
				return nil, nil, schemaErr("type %s: field %d has no name", name, i)
			}
			if _, dup := shell.index[entry.Name]; dup {
				return nil, nil, schemaErr("type %s: duplicate field %s", name, entry.Name)
			}
			shell.index[entry.Name] = i
			shell.fields[i] = Field{Name: entry.Name}
			if ft, ok := scalarFromName(entry.Type); ok {
				shell.fields[i].Type = ft
				continue
			}
			pending = append(pending, pendingField{owner: name, index: i, declared: entry.Type})
		}
	}

	// Second pass: the remaining names must refer to declared struct types,
	// optionally as arrays with or without a fixed length.
	for _, p := range pending {
		m := refNameRe.FindStringSubmatch(p.declared)
		if m == nil {
			return nil, nil, schemaErr("type %s: field %s: unresolvable type %q", p.owner, wire.Types[p.owner][p.index].Name, p.declared)
		}
		base, isArray, arrayLen := m[1], m[2], m[3]
		ref, ok := shells[base]
		if !ok {
			return nil, nil, schemaErr("type %s: field %s: unresolvable type %q", p.owner, wire.Types[p.owner][p.index].Name, p.declared)
		}
		var ft FieldType = ref
		if isArray != "" {
			if arrayLen != "" {
				n, _ := strconv.Atoi(arrayLen)
				ft = FixedArrayOf(ref, n)
			} else {
				ft = ArrayOf(ref)
			}
		}
		shells[p.owner].fields[p.index].Type = ft
	}

	if err := checkAcyclic(shells); err != nil {
		return nil, nil, err
	}

	primary, err := shells[wire.PrimaryType].New(wire.Message)
	if err != nil {
		return nil, nil, err
	}
	domainStruct, err := shells[DomainName].New(wire.Domain)
	if err != nil {
		return nil, nil, err
	}
	return primary, &Domain{Struct: domainStruct}, nil
}

// checkAcyclic rejects self-referential and circular type graphs, which the
// encoding cannot terminate on.
func checkAcyclic(shells map[string]*StructType) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(shells))
	var visit func(t *StructType) error
	visit = func(t *StructType) error {
		switch state[t.name] {
		case visiting:
			return schemaErr("type %s is part of a circular type graph", t.name)
		case done:
			return nil
		}
		state[t.name] = visiting
		for _, f := range t.fields {
			if ref := structMember(f.Type); ref != nil {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}
		state[t.name] = done
		return nil
	}
	for _, t := range shells {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}
