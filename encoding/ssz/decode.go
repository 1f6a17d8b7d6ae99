package ssz

import "encoding/binary"

// Decoded is the generic tree the decode engine produces. It mirrors a
// Schema's shape but carries no Go-type knowledge; concrete types read
// their fields back out of it via Loadable.LoadSSZ (value.go). This keeps
// decoding, like hashing and encoding, closed over the finite schema
// vocabulary instead of dispatching on a destination type.
type Decoded struct {
	Schema *Schema

	Basic []byte // KindBasic

	Fields []*Decoded // KindContainer, len(Fields) == len(Schema.Fields)
	Elems  []*Decoded // KindVector / KindList

	Bits   []byte // KindBitvector / KindBitlist, little-endian packed, delimiter stripped for Bitlist
	BitLen uint64 // number of semantic bits (KindBitlist only; for Bitvector equals Schema.Bits)

	Selector uint8    // KindUnion
	Inner    *Decoded // KindUnion
}

// Unmarshal decodes data against schema, enforcing every rejection rule in
// spec.md §4.1: trailing bytes, non-monotonic or out-of-range offsets,
// length fields exceeding declared maxima, and bitlists missing their
// delimiter bit.
func Unmarshal(schema *Schema, data []byte) (*Decoded, error) {
	d, n, err := decodeValue(schema, data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, newErr(UnexpectedEOF, "ssz: %d trailing bytes after decoding %s", len(data)-n, kindName(schema.Kind))
	}
	return d, nil
}

func decodeValue(s *Schema, data []byte) (*Decoded, int, error) {
	switch s.Kind {
	case KindBasic:
		if len(data) < s.ByteLen {
			return nil, 0, newErr(UnexpectedEOF, "ssz: need %d bytes for basic value, have %d", s.ByteLen, len(data))
		}
		b := make([]byte, s.ByteLen)
		copy(b, data[:s.ByteLen])
		return &Decoded{Schema: s, Basic: b}, s.ByteLen, nil

	case KindBitvector:
		n := int((s.Bits + 7) / 8)
		if len(data) < n {
			return nil, 0, newErr(UnexpectedEOF, "ssz: need %d bytes for bitvector, have %d", n, len(data))
		}
		b := make([]byte, n)
		copy(b, data[:n])
		return &Decoded{Schema: s, Bits: b, BitLen: s.Bits}, n, nil

	case KindBitlist:
		return decodeBitlist(s, data)

	case KindVector:
		return decodeVector(s, data)

	case KindList:
		return decodeList(s, data)

	case KindContainer:
		return decodeContainer(s, data)

	case KindUnion:
		if len(data) < 1 {
			return nil, 0, newErr(UnexpectedEOF, "ssz: union missing selector byte")
		}
		sel := data[0]
		if int(sel) >= len(s.Variants) {
			return nil, 0, newErr(SchemaMismatch, "ssz: union selector %d out of range", sel)
		}
		inner, n, err := decodeValue(s.Variants[sel], data[1:])
		if err != nil {
			return nil, 0, err
		}
		return &Decoded{Schema: s, Selector: sel, Inner: inner}, n + 1, nil
	}
	return nil, 0, errUnknownSchemaKind(s.Kind)
}

func decodeBitlist(s *Schema, data []byte) (*Decoded, int, error) {
	if len(data) == 0 {
		return nil, 0, newErr(MissingDelimiter, "ssz: empty bitlist has no delimiter bit")
	}
	// The whole remaining buffer is consumed; a bitlist is only ever used
	// as a container's final variable-size field or the entire message.
	last := data[len(data)-1]
	if last == 0 {
		return nil, 0, newErr(MissingDelimiter, "ssz: bitlist final byte has no delimiter bit set")
	}
	highBit := 7
	for ; highBit >= 0; highBit-- {
		if last&(1<<uint(highBit)) != 0 {
			break
		}
	}
	bitLen := uint64((len(data)-1)*8 + highBit)
	if bitLen > s.Length {
		return nil, 0, newErr(LengthExceedsBound, "ssz: bitlist has %d bits, exceeds limit %d", bitLen, s.Length)
	}
	bits := make([]byte, len(data))
	copy(bits, data)
	bits[len(bits)-1] &^= 1 << uint(highBit) // strip delimiter for the semantic view
	return &Decoded{Schema: s, Bits: bits, BitLen: bitLen}, len(data), nil
}

func decodeVector(s *Schema, data []byte) (*Decoded, int, error) {
	if !s.Elem.IsVariableSize() {
		elemSize := int(s.Elem.FixedSize())
		total := elemSize * int(s.Length)
		if len(data) < total {
			return nil, 0, newErr(UnexpectedEOF, "ssz: need %d bytes for vector, have %d", total, len(data))
		}
		elems := make([]*Decoded, s.Length)
		for i := range elems {
			e, _, err := decodeValue(s.Elem, data[i*elemSize:(i+1)*elemSize])
			if err != nil {
				return nil, 0, err
			}
			elems[i] = e
		}
		return &Decoded{Schema: s, Elems: elems}, total, nil
	}
	elems, n, err := decodeOffsetSequence(s.Elem, data, int(s.Length))
	if err != nil {
		return nil, 0, err
	}
	return &Decoded{Schema: s, Elems: elems}, n, nil
}

func decodeList(s *Schema, data []byte) (*Decoded, int, error) {
	if len(data) == 0 {
		return &Decoded{Schema: s, Elems: nil}, 0, nil
	}
	if !s.Elem.IsVariableSize() {
		elemSize := int(s.Elem.FixedSize())
		if elemSize == 0 || len(data)%elemSize != 0 {
			return nil, 0, newErr(SchemaMismatch, "ssz: list byte length %d not a multiple of element size %d", len(data), elemSize)
		}
		count := len(data) / elemSize
		if uint64(count) > s.Length {
			return nil, 0, newErr(LengthExceedsBound, "ssz: list has %d elements, exceeds limit %d", count, s.Length)
		}
		elems := make([]*Decoded, count)
		for i := range elems {
			e, _, err := decodeValue(s.Elem, data[i*elemSize:(i+1)*elemSize])
			if err != nil {
				return nil, 0, err
			}
			elems[i] = e
		}
		return &Decoded{Schema: s, Elems: elems}, len(data), nil
	}
	elems, n, err := decodeOffsetSequence(s.Elem, data, -1)
	if err != nil {
		return nil, 0, err
	}
	if uint64(len(elems)) > s.Length {
		return nil, 0, newErr(LengthExceedsBound, "ssz: list has %d elements, exceeds limit %d", len(elems), s.Length)
	}
	return &Decoded{Schema: s, Elems: elems}, n, nil
}

// decodeOffsetSequence decodes a run of variable-size elements laid out as
// an offset table followed by variable bodies, the scheme spec.md §4.1
// prescribes for containers, reused here for vectors/lists of variable
// elements. If want >= 0, exactly that many offsets are expected (vector);
// otherwise the offset count is inferred from the first offset (list).
func decodeOffsetSequence(elem *Schema, data []byte, want int) ([]*Decoded, int, error) {
	if len(data) < 4 && want != 0 {
		return nil, 0, newErr(UnexpectedEOF, "ssz: truncated offset table")
	}
	var count int
	if want >= 0 {
		count = want
	} else {
		if len(data) == 0 {
			return nil, 0, nil
		}
		firstOffset := int(binary.LittleEndian.Uint32(data[:4]))
		if firstOffset%4 != 0 || firstOffset < 4 {
			return nil, 0, newErr(OffsetOutOfRange, "ssz: first offset %d is not a valid offset-table length", firstOffset)
		}
		count = firstOffset / 4
	}
	if count == 0 {
		return nil, 0, nil
	}
	if len(data) < count*4 {
		return nil, 0, newErr(UnexpectedEOF, "ssz: truncated offset table, need %d bytes have %d", count*4, len(data))
	}
	offsets := make([]int, count)
	for i := 0; i < count; i++ {
		offsets[i] = int(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}
	for i, off := range offsets {
		if off < count*4 || off > len(data) {
			return nil, 0, newErr(OffsetOutOfRange, "ssz: offset %d out of range [%d,%d]", off, count*4, len(data))
		}
		if i > 0 && off < offsets[i-1] {
			return nil, 0, newErr(OffsetOutOfRange, "ssz: offsets not monotonically non-decreasing at index %d", i)
		}
	}
	elems := make([]*Decoded, count)
	for i := 0; i < count; i++ {
		end := len(data)
		if i+1 < count {
			end = offsets[i+1]
		}
		e, _, err := decodeValue(elem, data[offsets[i]:end])
		if err != nil {
			return nil, 0, err
		}
		elems[i] = e
	}
	return elems, len(data), nil
}

func decodeContainer(s *Schema, data []byte) (*Decoded, int, error) {
	fixedSizes := make([]int, len(s.Fields))
	variable := make([]bool, len(s.Fields))
	fixedTotal := 0
	for i, f := range s.Fields {
		if f.Schema.IsVariableSize() {
			variable[i] = true
			fixedSizes[i] = 4
		} else {
			fixedSizes[i] = int(f.Schema.FixedSize())
		}
		fixedTotal += fixedSizes[i]
	}
	if len(data) < fixedTotal {
		return nil, 0, newErr(UnexpectedEOF, "ssz: need %d bytes for container fixed region, have %d", fixedTotal, len(data))
	}
	fields := make([]*Decoded, len(s.Fields))
	offsets := make([]int, 0, len(s.Fields))
	offsetFieldIdx := make([]int, 0, len(s.Fields))
	pos := 0
	for i, f := range s.Fields {
		if variable[i] {
			off := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
			if off < fixedTotal || off > len(data) {
				return nil, 0, newErr(OffsetOutOfRange, "ssz: field %q offset %d out of range [%d,%d]", f.Name, off, fixedTotal, len(data))
			}
			if len(offsets) > 0 && off < offsets[len(offsets)-1] {
				return nil, 0, newErr(OffsetOutOfRange, "ssz: field %q offset not monotonically non-decreasing", f.Name)
			}
			offsets = append(offsets, off)
			offsetFieldIdx = append(offsetFieldIdx, i)
		} else {
			e, _, err := decodeValue(f.Schema, data[pos:pos+fixedSizes[i]])
			if err != nil {
				return nil, 0, err
			}
			fields[i] = e
		}
		pos += fixedSizes[i]
	}
	for j, idx := range offsetFieldIdx {
		end := len(data)
		if j+1 < len(offsets) {
			end = offsets[j+1]
		}
		e, _, err := decodeValue(s.Fields[idx].Schema, data[offsets[j]:end])
		if err != nil {
			return nil, 0, err
		}
		fields[idx] = e
	}
	if len(offsetFieldIdx) == 0 {
		// A fixed-size container consumes only its fixed region, so any
		// bytes past it surface as trailing bytes to Unmarshal.
		return &Decoded{Schema: s, Fields: fields}, fixedTotal, nil
	}
	return &Decoded{Schema: s, Fields: fields}, len(data), nil
}

func kindName(k Kind) string {
	names := [...]string{"basic", "container", "vector", "list", "union", "bitvector", "bitlist"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Uint64 reads a KindBasic(ByteLen=8) decoded leaf.
func (d *Decoded) Uint64() uint64 {
	return binary.LittleEndian.Uint64(d.Basic)
}

// Uint32 reads a KindBasic(ByteLen=4) decoded leaf.
func (d *Decoded) Uint32() uint32 {
	return binary.LittleEndian.Uint32(d.Basic)
}

// Bytes reads a fixed-length byte vector's raw content (Root, BlsPubkey, ...).
func (d *Decoded) Bytes() []byte {
	out := make([]byte, len(d.Elems))
	for i, e := range d.Elems {
		out[i] = e.Basic[0]
	}
	return out
}
