package ssz

// GenericList adapts an arbitrary indexable collection into a SequenceValue
// of KindList, for callers whose element type does not warrant its own named
// SequenceValue (BeaconState's operation lists, block body's operation
// lists). Elem is called lazily, at encode/hash time.
type GenericList struct {
	Elem_  *Schema
	Limit  uint64
	N      int
	At     func(i int) Value
}

func (g GenericList) SSZSchema() *Schema { return ListSchema(g.Elem_, g.Limit) }
func (g GenericList) Len() int           { return g.N }
func (g GenericList) Elem(i int) Value   { return g.At(i) }

// GenericVector is the fixed-length counterpart of GenericList.
type GenericVector struct {
	Elem_  *Schema
	Length uint64
	At     func(i int) Value
}

func (g GenericVector) SSZSchema() *Schema { return VectorSchema(g.Elem_, g.Length) }
func (g GenericVector) Len() int           { return int(g.Length) }
func (g GenericVector) Elem(i int) Value   { return g.At(i) }
