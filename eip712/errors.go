package eip712

import (
	"errors"
	"fmt"
)

// ErrEmptyDomain is returned by MakeDomain when every domain field is absent.
var ErrEmptyDomain = errors.New("eip712: domain requires at least one field")

// EncodingError reports a value that fails a scalar type's range, length or
// shape check. Encoding never proceeds past the first failing field: a wrong
// word in a digest is not recoverable downstream.
type EncodingError struct {
	Type   string // canonical type name, e.g. "uint8"
	Value  interface{}
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("eip712: cannot encode %v as %s: %s", e.Value, e.Type, e.Reason)
}

func encodingErr(typeName string, value interface{}, format string, args ...interface{}) error {
	return &EncodingError{Type: typeName, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// UnknownFieldError reports a value assigned to or read from a field that the
// struct type does not declare.
type UnknownFieldError struct {
	Struct string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("eip712: %s has no field %q", e.Struct, e.Field)
}

// SchemaError reports a malformed or unresolvable wire message: a missing
// primary type, a missing EIP712Domain entry, a field type name that never
// resolves, or a circular type graph.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "eip712: " + e.Reason
}

func schemaErr(format string, args ...interface{}) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}
