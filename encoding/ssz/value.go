package ssz

// Value is implemented by anything the codec can encode, decode into, or
// hash. It is the pluggable accessor layer spec.md §4.1 calls for: the
// engine never type-switches on a concrete Go type, only on the Kind of
// the Schema the Value reports.
type Value interface {
	// SSZSchema returns this value's schema. Must be constant for a given
	// Go type (schemas are not data-dependent).
	SSZSchema() *Schema
}

// BasicValue is a Value whose SSZSchema().Kind == KindBasic. Bytes returns its
// canonical little-endian encoding, exactly ByteLen bytes long.
type BasicValue interface {
	Value
	Bytes() []byte
}

// ContainerValue is a Value whose SSZSchema().Kind == KindContainer. Field
// returns the i-th field's value, i indexing SSZSchema().Fields.
type ContainerValue interface {
	Value
	Field(i int) Value
}

// SequenceValue is a Value whose SSZSchema().Kind is KindVector or KindList.
// Len returns the number of elements actually present (for List, Len() <=
// SSZSchema().Length, the declared limit; for Vector, Len() == SSZSchema().Length).
type SequenceValue interface {
	Value
	Len() int
	Elem(i int) Value
}

// BitsValue is a Value whose SSZSchema().Kind is KindBitvector or KindBitlist.
type BitsValue interface {
	Value
	BitLen() uint64
	BitAt(i uint64) bool
}

// UnionValue is a Value whose SSZSchema().Kind == KindUnion.
type UnionValue interface {
	Value
	Selector() uint8
	Selected() Value
}

// Loadable is implemented by concrete Go types that can populate themselves
// from a decoded generic tree (see decode.go). This is the other half of
// the view abstraction: decoding never constructs concrete Go values
// itself, it only produces a Decoded tree matching the schema, and
// Loadable.LoadSSZ maps that tree back onto the caller's own fields.
type Loadable interface {
	Value
	LoadSSZ(d *Decoded) error
}
