package ssz

import bitfield "github.com/prysmaticlabs/go-bitfield"

// Bitvector is a fixed-length bitfield view (justification_bits). It
// carries no length delimiter.
type Bitvector struct {
	bits  []byte
	nbits uint64
}

// NewBitvector allocates a zeroed bitvector of nbits bits.
func NewBitvector(nbits uint64) *Bitvector {
	return &Bitvector{bits: make([]byte, (nbits+7)/8), nbits: nbits}
}

// BitvectorFromBytes wraps raw, already-packed bytes as a Bitvector of
// nbits bits. raw must be at least (nbits+7)/8 bytes.
func BitvectorFromBytes(raw []byte, nbits uint64) *Bitvector {
	b := NewBitvector(nbits)
	copy(b.bits, raw)
	return b
}

func (b *Bitvector) SSZSchema() *Schema  { return BitvectorSchema(b.nbits) }
func (b *Bitvector) BitLen() uint64      { return b.nbits }
func (b *Bitvector) Bytes() []byte       { return b.bits }
func (b *Bitvector) BitAt(i uint64) bool {
	if i >= b.nbits {
		return false
	}
	return b.bits[i/8]&(1<<(i%8)) != 0
}

// Copy returns an independent copy of b.
func (b *Bitvector) Copy() *Bitvector {
	cp := &Bitvector{bits: append([]byte(nil), b.bits...), nbits: b.nbits}
	return cp
}

// SetBitAt sets or clears bit i.
func (b *Bitvector) SetBitAt(i uint64, val bool) {
	if i >= b.nbits {
		return
	}
	if val {
		b.bits[i/8] |= 1 << (i % 8)
	} else {
		b.bits[i/8] &^= 1 << (i % 8)
	}
}

// Bitlist is a variable-length bitfield bounded by a declared limit,
// backed by github.com/prysmaticlabs/go-bitfield so attestation-pool
// aggregation (OR, Overlaps, Count) reuses the ecosystem's bit-twiddling
// rather than reimplementing it (spec.md §4.8).
type Bitlist struct {
	inner bitfield.Bitlist
	limit uint64
}

// NewBitlist allocates an all-zero bitlist of n bits bounded by limit.
func NewBitlist(n, limit uint64) *Bitlist {
	return &Bitlist{inner: bitfield.NewBitlist(n), limit: limit}
}

// WrapBitlist adapts an existing go-bitfield Bitlist (e.g. one just
// decoded off the wire) as an ssz.Bitlist bounded by limit.
func WrapBitlist(b bitfield.Bitlist, limit uint64) *Bitlist {
	return &Bitlist{inner: b, limit: limit}
}

func (b *Bitlist) SSZSchema() *Schema  { return BitlistSchema(b.limit) }
func (b *Bitlist) BitLen() uint64      { return b.inner.Len() }
func (b *Bitlist) BitAt(i uint64) bool { return b.inner.BitAt(i) }
func (b *Bitlist) Limit() uint64       { return b.limit }

// Inner exposes the underlying go-bitfield value for pool aggregation.
func (b *Bitlist) Inner() bitfield.Bitlist { return b.inner }
