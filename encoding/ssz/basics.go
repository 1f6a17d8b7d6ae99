package ssz

import "github.com/prylabs-zero/beacon-core/encoding/bytesutil"

// U64 is a KindBasic(ByteLen=8) view over a uint64-backed value.
type U64 uint64

func (U64) SSZSchema() *Schema  { return Uint64Schema }
func (u U64) Bytes() []byte     { return bytesutil.Bytes8(uint64(u)) }

// U32 is a KindBasic(ByteLen=4) view.
type U32 uint32

func (U32) SSZSchema() *Schema { return Uint32Schema }
func (u U32) Bytes() []byte    { return bytesutil.Bytes4(uint64(u)) }

// U8 is a KindBasic(ByteLen=1) view.
type U8 uint8

func (U8) SSZSchema() *Schema { return Uint8Schema }
func (u U8) Bytes() []byte    { return []byte{byte(u)} }

// Bool is encoded as a single byte, 0x00 or 0x01.
type Bool bool

func (Bool) SSZSchema() *Schema { return BoolSchema }
func (b Bool) Bytes() []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// byteElem is a single-byte element used by FixedBytes/VarBytes's
// SequenceValue implementation.
type byteElem byte

func (byteElem) SSZSchema() *Schema { return Uint8Schema }
func (e byteElem) Bytes() []byte    { return []byte{byte(e)} }

// FixedBytes is a Vector[byte, N] view over Root / BlsPubkey / BlsSignature
// / ForkVersion / DomainType-shaped values.
type FixedBytes struct {
	b []byte
}

// NewFixedBytes wraps b (which must already be exactly n bytes) as a Vector
// schema of n byte elements.
func NewFixedBytes(b []byte) FixedBytes { return FixedBytes{b: b} }

func (f FixedBytes) SSZSchema() *Schema { return BytesVectorSchema(uint64(len(f.b))) }
func (f FixedBytes) Len() int           { return len(f.b) }
func (f FixedBytes) Elem(i int) Value   { return byteElem(f.b[i]) }
func (f FixedBytes) Raw() []byte        { return f.b }

// VarBytes is a List[byte, limit] view, used for bytes-typed fields with no
// fixed width (none in the phase-0 data model, kept for schema parity).
type VarBytes struct {
	b     []byte
	limit uint64
}

func NewVarBytes(b []byte, limit uint64) VarBytes { return VarBytes{b: b, limit: limit} }
func (v VarBytes) SSZSchema() *Schema              { return ListSchema(Uint8Schema, v.limit) }
func (v VarBytes) Len() int                        { return len(v.b) }
func (v VarBytes) Elem(i int) Value                { return byteElem(v.b[i]) }
func (v VarBytes) Raw() []byte                     { return v.b }
