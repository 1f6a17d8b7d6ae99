package ssz

import "fmt"

// Error is the SSZ codec's error type. Kind lets callers (sync, gossip
// validation) map a decode failure to "drop and downscore peer" without
// string-matching, per spec.md §7.
type Error struct {
	Kind    Kind2
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Kind2 enumerates the codec failure modes named in spec.md §4.1. Named
// Kind2 to avoid colliding with the schema Kind type in the same package.
type Kind2 uint8

const (
	SchemaMismatch Kind2 = iota
	UnexpectedEOF
	OffsetOutOfRange
	LengthExceedsBound
	MissingDelimiter
)

func newErr(k Kind2, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func errUnexpectedValueKind(want string, v Value) *Error {
	return newErr(SchemaMismatch, "ssz: value %T does not implement the %s accessor required by its schema", v, want)
}

func errUnknownSchemaKind(k Kind) *Error {
	return newErr(SchemaMismatch, "ssz: unknown schema kind %d", k)
}
