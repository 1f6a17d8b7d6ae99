// Package blocks implements spec.md §4.4 phases 2-5: block-header
// verification, randao mixing, eth1 data voting, and per-type operation
// processing, each exported as a ProcessXxx(state, ...) function the
// transition package sequences. Grounded on the teacher's
// beacon-chain/core/blocks package (same one-file-per-operation layout,
// same error taxonomy), adapted throughout to this repository's own
// beacon-chain/state.BeaconState rather than the teacher's proto-backed
// state and validator pool caches.
package blocks

// OpKind names which block operation a BadOperation TransitionError came
// from, so callers can report spec.md §7's TransitionError{BadOperation}
// with the failing operation kind attached.
type OpKind string

const (
	OpProposerSlashing OpKind = "proposer_slashing"
	OpAttesterSlashing OpKind = "attester_slashing"
	OpAttestation      OpKind = "attestation"
	OpDeposit          OpKind = "deposit"
	OpVoluntaryExit    OpKind = "voluntary_exit"
	OpTransfer         OpKind = "transfer"
)

// TransitionError is spec.md §7's TransitionError{kind}: the block is
// invalid and the writer must leave pre-state unchanged.
type TransitionError struct {
	Kind   string
	OpKind OpKind
	Err    error
}

func (e *TransitionError) Error() string {
	if e.OpKind != "" {
		return string(e.Kind) + "(" + string(e.OpKind) + "): " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *TransitionError) Unwrap() error { return e.Err }

func invalidHeader(err error) error {
	return &TransitionError{Kind: "InvalidHeader", Err: err}
}

func badRandao(err error) error {
	return &TransitionError{Kind: "BadRandao", Err: err}
}

func badOperation(kind OpKind, err error) error {
	return &TransitionError{Kind: "BadOperation", OpKind: kind, Err: err}
}

// StateRootMismatch reports spec.md §7's TransitionError{StateRootMismatch}:
// the post-state root the transition function computed does not match the
// root the block itself claims. Exported (unlike invalidHeader/badRandao/
// badOperation) since core/transition, not this package, is the one caller
// in a position to detect it.
func StateRootMismatch(err error) error {
	return &TransitionError{Kind: "StateRootMismatch", Err: err}
}
