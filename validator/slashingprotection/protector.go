// Package slashingprotection implements spec.md §4.10's "persistent
// slashing-protection state is a prerequisite contract of the signer
// interface": before any block or attestation leaves the validator
// duties engine, it is checked against — and recorded into — this
// package's per-pubkey history, refusing a second block at an
// already-signed slot and refusing a surrounding or surrounded
// attestation vote. Grounded on the teacher's
// validator/client/propose_protect.go's preBlockSignValidations /
// postBlockSignUpdate pair, generalized here to also cover attestations
// (the teacher's attester-side EIP-3076 checks live in its separate
// slasher/detection package, out of reach of the retrieval pack, so the
// attestation half of this file is this repository's own, following the
// same check-then-record shape).
package slashingprotection

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

var (
	// ErrDoubleProposal is returned when a pubkey has already signed a
	// different block at the same slot.
	ErrDoubleProposal = errors.New("slashing protection: refusing to sign a double proposal")
	// ErrSurroundOrDoubleVote is returned when a pubkey's new attestation
	// would double-vote or surround-vote against one already on file.
	ErrSurroundOrDoubleVote = errors.New("slashing protection: refusing to sign a surrounding or double attestation vote")
)

type proposalRecord struct {
	signingRoot [32]byte
}

type attestationRecord struct {
	sourceEpoch primitives.Epoch
	targetEpoch primitives.Epoch
}

// History is the persistent per-pubkey record slashing protection checks
// against. Grounded on the teacher's ProposalHistoryForSlot/
// LowestSignedProposal pair, backed here by a plain in-memory map; a
// production node would back this with beacon-chain/db's key space
// (spec.md §6's `slashing_protection:{pubkey}`) instead.
type History struct {
	mu           sync.Mutex
	proposals    map[[48]byte]map[primitives.Slot]proposalRecord
	attestations map[[48]byte][]attestationRecord
}

// NewHistory constructs an empty History.
func NewHistory() *History {
	return &History{
		proposals:    make(map[[48]byte]map[primitives.Slot]proposalRecord),
		attestations: make(map[[48]byte][]attestationRecord),
	}
}

// CheckAndRecordProposal enforces spec.md §4.10's "refuse to sign two
// different blocks at the same slot": if pubKey has already signed a
// block at slot with a different signingRoot, it returns
// ErrDoubleProposal without recording anything. A repeat of the exact
// same (slot, signingRoot) — a retried broadcast — is allowed through and
// treated as a no-op. Otherwise the proposal is recorded and nil is
// returned.
func (h *History) CheckAndRecordProposal(pubKey [48]byte, slot primitives.Slot, signingRoot [32]byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	bySlot, ok := h.proposals[pubKey]
	if !ok {
		bySlot = make(map[primitives.Slot]proposalRecord)
		h.proposals[pubKey] = bySlot
	}
	if existing, ok := bySlot[slot]; ok {
		if existing.signingRoot != signingRoot {
			return ErrDoubleProposal
		}
		return nil
	}
	bySlot[slot] = proposalRecord{signingRoot: signingRoot}
	return nil
}

// CheckAndRecordAttestation enforces spec.md §4.10's "refuse ... two
// attestations with surrounding/conflicting votes": a new vote
// (sourceEpoch, targetEpoch) is rejected if it double-votes an existing
// target, surrounds an existing vote (new source < old source and new
// target > old target), or is surrounded by one (new source > old source
// and new target < old target). Otherwise it is recorded and nil is
// returned.
func (h *History) CheckAndRecordAttestation(pubKey [48]byte, sourceEpoch, targetEpoch primitives.Epoch) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, prev := range h.attestations[pubKey] {
		if targetEpoch == prev.targetEpoch {
			return ErrSurroundOrDoubleVote
		}
		if sourceEpoch < prev.sourceEpoch && targetEpoch > prev.targetEpoch {
			return ErrSurroundOrDoubleVote
		}
		if sourceEpoch > prev.sourceEpoch && targetEpoch < prev.targetEpoch {
			return ErrSurroundOrDoubleVote
		}
	}
	h.attestations[pubKey] = append(h.attestations[pubKey], attestationRecord{sourceEpoch: sourceEpoch, targetEpoch: targetEpoch})
	return nil
}
