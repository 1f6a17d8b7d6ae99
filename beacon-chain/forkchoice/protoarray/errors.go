// Package protoarray implements spec.md §4.6's LMD-GHOST fork-choice rule
// over a flat, append-only array of Nodes instead of a pointer-linked tree:
// every node caches its best-weighted descendant, refreshed by one reverse
// pass over the array per Head call, so get_head reads the justified
// checkpoint's best descendant directly. Grounded on the teacher's
// beacon-chain/forkchoice/protoarray package (same Node/Store/ForkChoice
// split, same nodeIndices-by-root map, same errors.go sentinel set).
package protoarray

import "github.com/pkg/errors"

// ForkChoiceError is spec.md §7's ForkChoiceError{kind}: an update that
// cannot be applied against the current store state.
type ForkChoiceError struct {
	Kind string
	Err  error
}

func (e *ForkChoiceError) Error() string { return e.Kind + ": " + e.Err.Error() }
func (e *ForkChoiceError) Unwrap() error { return e.Err }

func unknownParent(err error) error {
	return &ForkChoiceError{Kind: "UnknownParent", Err: err}
}

func belowFinalized(err error) error {
	return &ForkChoiceError{Kind: "BelowFinalized", Err: err}
}

var (
	errNilNode                  = errors.New("invalid nil or unknown node")
	errInvalidNodeIndex         = errors.New("node index out of bounds")
	errInvalidBestDescendantIdx = errors.New("best descendant index out of bounds")
	errUnknownJustifiedRoot     = errors.New("unknown justified root")
	errUnknownFinalizedRoot     = errors.New("unknown finalized root")
)
