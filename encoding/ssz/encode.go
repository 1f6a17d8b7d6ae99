package ssz

import "encoding/binary"

// Marshal serializes v to its canonical SSZ encoding per spec.md §4.1: basic
// types little-endian fixed-width, vectors/containers concatenate fixed
// parts inline, and every variable-size field contributes a 4-byte offset
// in the fixed region with its variable part appended in declared order.
func Marshal(v Value) ([]byte, error) {
	buf := make([]byte, 0, 128)
	return appendValue(buf, v, v.SSZSchema())
}

func appendValue(buf []byte, v Value, s *Schema) ([]byte, error) {
	switch s.Kind {
	case KindBasic:
		bv, ok := v.(BasicValue)
		if !ok {
			return nil, errUnexpectedValueKind("basic", v)
		}
		return append(buf, bv.Bytes()...), nil

	case KindVector, KindList:
		sv, ok := v.(SequenceValue)
		if !ok {
			return nil, errUnexpectedValueKind("sequence", v)
		}
		if s.Kind == KindList && uint64(sv.Len()) > s.Length {
			return nil, newErr(LengthExceedsBound, "ssz: list has %d elements, exceeds limit %d", sv.Len(), s.Length)
		}
		return appendSequenceFixedOrVariable(buf, sv, s.Elem)

	case KindContainer:
		cv, ok := v.(ContainerValue)
		if !ok {
			return nil, errUnexpectedValueKind("container", v)
		}
		return appendContainer(buf, cv, s.Fields)

	case KindBitvector:
		bv, ok := v.(BitsValue)
		if !ok {
			return nil, errUnexpectedValueKind("bitvector", v)
		}
		n := (s.Bits + 7) / 8
		raw := make([]byte, n)
		for i := uint64(0); i < s.Bits; i++ {
			if bv.BitAt(i) {
				raw[i/8] |= 1 << (i % 8)
			}
		}
		return append(buf, raw...), nil

	case KindBitlist:
		bv, ok := v.(BitsValue)
		if !ok {
			return nil, errUnexpectedValueKind("bitlist", v)
		}
		if bv.BitLen() > s.Length {
			return nil, newErr(LengthExceedsBound, "ssz: bitlist has %d bits, exceeds limit %d", bv.BitLen(), s.Length)
		}
		n := bv.BitLen()/8 + 1
		raw := make([]byte, n)
		for i := uint64(0); i < bv.BitLen(); i++ {
			if bv.BitAt(i) {
				raw[i/8] |= 1 << (i % 8)
			}
		}
		raw[bv.BitLen()/8] |= 1 << (bv.BitLen() % 8) // trailing delimiter bit
		return append(buf, raw...), nil

	case KindUnion:
		uv, ok := v.(UnionValue)
		if !ok {
			return nil, errUnexpectedValueKind("union", v)
		}
		buf = append(buf, uv.Selector())
		return appendValue(buf, uv.Selected(), s.Variants[uv.Selector()])
	}
	return nil, errUnknownSchemaKind(s.Kind)
}

// appendSequenceFixedOrVariable encodes a vector/list: basic elements are
// concatenated directly; composite fixed-size elements likewise; composite
// variable-size elements use the same offset scheme as a container.
func appendSequenceFixedOrVariable(buf []byte, sv SequenceValue, elem *Schema) ([]byte, error) {
	if !elem.IsVariableSize() {
		for i := 0; i < sv.Len(); i++ {
			var err error
			buf, err = appendValue(buf, sv.Elem(i), elem)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil
	}
	// Offset table followed by variable parts, same layout as a container
	// whose fields are all variable-size.
	fixedStart := len(buf)
	offsetSlots := make([]int, sv.Len())
	for i := range offsetSlots {
		offsetSlots[i] = fixedStart + i*4
		buf = append(buf, 0, 0, 0, 0)
	}
	for i := 0; i < sv.Len(); i++ {
		offset := uint32(len(buf) - fixedStart)
		binary.LittleEndian.PutUint32(buf[offsetSlots[i]:offsetSlots[i]+4], offset)
		var err error
		buf, err = appendValue(buf, sv.Elem(i), elem)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendContainer encodes a container's fixed region (inline values or
// 4-byte offsets) followed by the variable-size fields' bodies in order.
func appendContainer(buf []byte, cv ContainerValue, fields []Field) ([]byte, error) {
	fixedStart := len(buf)
	type pending struct {
		offsetPos int
		fieldIdx  int
	}
	var pendings []pending
	for i, f := range fields {
		if f.Schema.IsVariableSize() {
			pendings = append(pendings, pending{offsetPos: len(buf), fieldIdx: i})
			buf = append(buf, 0, 0, 0, 0)
		} else {
			var err error
			buf, err = appendValue(buf, cv.Field(i), f.Schema)
			if err != nil {
				return nil, err
			}
		}
	}
	for _, p := range pendings {
		offset := uint32(len(buf) - fixedStart)
		binary.LittleEndian.PutUint32(buf[p.offsetPos:p.offsetPos+4], offset)
		var err error
		buf, err = appendValue(buf, cv.Field(p.fieldIdx), fields[p.fieldIdx].Schema)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}
