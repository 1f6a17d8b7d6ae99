package ssz

// FieldCache gives a container-typed value (most usefully BeaconState,
// whose hash_tree_root is recomputed on every slot and block) an
// incremental hashing mode: subtree roots are cached per field index and
// only recomputed when that field is marked dirty. Embed a FieldCache in a
// container's struct and call MarkDirty from every setter.
//
// This is deliberately a plain index-keyed cache, not a reflection-driven
// one: the owning type knows its own field count and indices statically.
type FieldCache struct {
	roots []fieldRoot
}

type fieldRoot struct {
	root  [32]byte
	dirty bool
}

// Init (re)sizes the cache for n fields, marking all of them dirty. Call
// once from the container's constructor.
func (c *FieldCache) Init(n int) {
	c.roots = make([]fieldRoot, n)
	for i := range c.roots {
		c.roots[i].dirty = true
	}
}

// MarkDirty invalidates the cached root for field i, forcing the next
// CachedContainerRoot call to recompute it.
func (c *FieldCache) MarkDirty(i int) {
	if i < 0 || i >= len(c.roots) {
		return
	}
	c.roots[i].dirty = true
}

// MarkAllDirty invalidates every cached field root, used after a bulk
// mutation (e.g. loading a freshly decoded state).
func (c *FieldCache) MarkAllDirty() {
	for i := range c.roots {
		c.roots[i].dirty = true
	}
}

// CachedContainerRoot computes a container's hash_tree_root, reusing any
// field whose cached root is still valid and recomputing + re-caching the
// rest. fields/schemas must have the same length as the cache was Init'd
// with, in declared field order.
func CachedContainerRoot(c *FieldCache, fields []Value, schemas []*Schema) ([32]byte, error) {
	if len(c.roots) != len(fields) {
		c.Init(len(fields))
	}
	roots := make([][32]byte, len(fields))
	for i, f := range fields {
		if !c.roots[i].dirty {
			roots[i] = c.roots[i].root
			continue
		}
		r, err := hashValue(f, schemas[i])
		if err != nil {
			return [32]byte{}, err
		}
		c.roots[i].root = r
		c.roots[i].dirty = false
		roots[i] = r
	}
	return merkleize(roots, uint64(len(roots))), nil
}
