package ssz

import (
	"encoding/binary"

	"github.com/prylabs-zero/beacon-core/crypto/hash"
)

var defaultHasher = hash.NewSHA256()

// HashTreeRoot computes the canonical Merkle root of v per spec.md §4.1:
// basic elements are packed into 32-byte chunks, chunk counts are padded to
// the next power of two, and a binary Merkle tree is built with SHA-256.
// Lists and bitlists additionally mix in their length.
func HashTreeRoot(v Value) ([32]byte, error) {
	return hashValue(v, v.SSZSchema())
}

func hashValue(v Value, s *Schema) ([32]byte, error) {
	switch s.Kind {
	case KindBasic:
		bv, ok := v.(BasicValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("basic", v)
		}
		chunk := [32]byte{}
		copy(chunk[:], bv.Bytes())
		return chunk, nil

	case KindContainer:
		cv, ok := v.(ContainerValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("container", v)
		}
		roots := make([][32]byte, len(s.Fields))
		for i, f := range s.Fields {
			r, err := hashValue(cv.Field(i), f.Schema)
			if err != nil {
				return [32]byte{}, err
			}
			roots[i] = r
		}
		return merkleize(roots, uint64(len(roots))), nil

	case KindVector:
		sv, ok := v.(SequenceValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("vector", v)
		}
		return hashHomogeneousSequence(sv, s.Elem, chunkLimit(s.Elem, s.Length))

	case KindList:
		sv, ok := v.(SequenceValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("list", v)
		}
		limit := chunkLimit(s.Elem, s.Length)
		root, err := hashHomogeneousSequence(sv, s.Elem, limit)
		if err != nil {
			return [32]byte{}, err
		}
		return mixInLength(root, uint64(sv.Len())), nil

	case KindBitvector:
		bv, ok := v.(BitsValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("bitvector", v)
		}
		chunks := packBits(bv, (s.Bits+7)/8)
		return merkleize(chunks, chunkCount(uint64(len(chunks)), bitvectorChunkLimit(s.Bits))), nil

	case KindBitlist:
		bv, ok := v.(BitsValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("bitlist", v)
		}
		byteLen := (bv.BitLen() + 7) / 8
		chunks := packBits(bv, byteLen)
		limit := bitvectorChunkLimit(s.Length)
		root := merkleize(chunks, limit)
		return mixInLength(root, bv.BitLen()), nil

	case KindUnion:
		uv, ok := v.(UnionValue)
		if !ok {
			return [32]byte{}, errUnexpectedValueKind("union", v)
		}
		inner, err := hashValue(uv.Selected(), s.Variants[uv.Selector()])
		if err != nil {
			return [32]byte{}, err
		}
		selectorChunk := [32]byte{}
		selectorChunk[0] = uv.Selector()
		return defaultHasher.HashTwo(inner, selectorChunk), nil
	}
	return [32]byte{}, errUnknownSchemaKind(s.Kind)
}

// hashHomogeneousSequence packs elem-typed elements into 32-byte chunks (or,
// for composite/variable-size elements, hashes each element to its own
// chunk) and Merkleizes to chunkLimit chunks.
func hashHomogeneousSequence(sv SequenceValue, elem *Schema, chunkLimitChunks uint64) ([32]byte, error) {
	if elem.Kind == KindBasic {
		perChunk := 32 / elem.ByteLen
		nChunks := (sv.Len() + perChunk - 1) / perChunk
		if nChunks == 0 {
			nChunks = 0
		}
		chunks := make([][32]byte, 0, nChunks)
		var cur [32]byte
		pos := 0
		for i := 0; i < sv.Len(); i++ {
			ev := sv.Elem(i).(BasicValue)
			copy(cur[pos*elem.ByteLen:], ev.Bytes())
			pos++
			if pos == perChunk {
				chunks = append(chunks, cur)
				cur = [32]byte{}
				pos = 0
			}
		}
		if pos != 0 {
			chunks = append(chunks, cur)
		}
		limit := chunkLimit(elem, chunkLimitChunks*uint64(perChunk))
		return merkleize(chunks, limit), nil
	}
	// Composite elements: each element hashes to its own chunk.
	chunks := make([][32]byte, sv.Len())
	for i := 0; i < sv.Len(); i++ {
		r, err := hashValue(sv.Elem(i), elem)
		if err != nil {
			return [32]byte{}, err
		}
		chunks[i] = r
	}
	return merkleize(chunks, chunkLimitChunks), nil
}

// chunkLimit converts a declared element-count limit into a chunk-count
// limit for basic-typed sequences (packed elem.ByteLen-wide values share a
// chunk); for composite elements the chunk limit equals the element limit.
func chunkLimit(elem *Schema, limit uint64) uint64 {
	if elem.Kind == KindBasic {
		perChunk := uint64(32 / elem.ByteLen)
		return (limit + perChunk - 1) / perChunk
	}
	return limit
}

func bitvectorChunkLimit(bits uint64) uint64 {
	return ((bits + 7) / 8 + 31) / 32
}

func chunkCount(have, limit uint64) uint64 {
	if have > limit {
		return have
	}
	return limit
}

// packBits packs a bitfield's raw bytes into 32-byte chunks.
func packBits(b BitsValue, byteLen uint64) [][32]byte {
	raw := make([]byte, byteLen)
	for i := uint64(0); i < b.BitLen(); i++ {
		if b.BitAt(i) {
			raw[i/8] |= 1 << (i % 8)
		}
	}
	return Pack(raw)
}

// Pack splits raw bytes into 32-byte chunks, zero-padding the final chunk.
func Pack(raw []byte) [][32]byte {
	if len(raw) == 0 {
		return nil
	}
	n := (len(raw) + 31) / 32
	chunks := make([][32]byte, n)
	for i := 0; i < n; i++ {
		end := (i + 1) * 32
		if end > len(raw) {
			end = len(raw)
		}
		copy(chunks[i][:], raw[i*32:end])
	}
	return chunks
}

// merkleize builds a binary Merkle tree over chunks (padded with zero
// chunks up to the next power of two count, or to limit if limit is
// larger) and returns its root. An empty chunk set with limit 0 hashes to
// the zero root.
func merkleize(chunks [][32]byte, limit uint64) [32]byte {
	count := limit
	if uint64(len(chunks)) > count {
		count = uint64(len(chunks))
	}
	depth := nextPow2Log2(count)
	layer := make([][32]byte, pow2(depth))
	copy(layer, chunks)
	for d := depth; d > 0; d-- {
		next := make([][32]byte, len(layer)/2)
		for i := range next {
			next[i] = defaultHasher.HashTwo(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	if len(layer) == 0 {
		return [32]byte{}
	}
	return layer[0]
}

func nextPow2Log2(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	depth := uint64(0)
	size := uint64(1)
	for size < n {
		size <<= 1
		depth++
	}
	return depth
}

func pow2(n uint64) uint64 {
	return uint64(1) << n
}

// mixInLength returns HashTwo(root, length-as-32-bytes), the scheme used to
// bind a list's or bitlist's variable length into its Merkle root.
func mixInLength(root [32]byte, length uint64) [32]byte {
	var lengthChunk [32]byte
	binary.LittleEndian.PutUint64(lengthChunk[:8], length)
	return defaultHasher.HashTwo(root, lengthChunk)
}
