// Package attestations implements spec.md §4.8's attestation aggregation
// pool. Grounded on the teacher's beacon-chain/operations/attestations
// package (a Pool interface in front of a map-of-slices kv.AttCaches, plus
// an aggregateRoutine folding unaggregated attestations together on a
// timer); this repository collapses the teacher's four sub-pools
// (unaggregated/aggregated/block/forkchoice) into the single aggregated
// pool spec.md describes, since nothing else here consumes the other
// three.
package attestations

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

// errOverlappingBits is returned by Insert when att shares an attesting
// index with the aggregate already on file for its AttestationData.
var errOverlappingBits = errors.New("attestation aggregation bits overlap an existing contributor")

// Pool aggregates attestations sharing an AttestationData by merging their
// aggregation_bits with a bitwise OR and their signatures with BLS
// aggregation, keyed by hash_tree_root(data) so lookups don't depend on
// object identity or field order.
type Pool struct {
	mu     sync.RWMutex
	byData map[[32]byte]*eth.Attestation
}

// NewPool constructs an empty aggregation pool.
func NewPool() *Pool {
	return &Pool{byData: make(map[[32]byte]*eth.Attestation)}
}

// Insert merges att into the pool. The first attestation seen for a given
// AttestationData is stored as-is. A later attestation for the same data
// must not overlap any index already folded into the aggregate — an
// overlap means two attestations claim to speak for the same validator,
// which BLS aggregation cannot represent, so the insert is rejected rather
// than silently dropped or double-counted.
func (p *Pool) Insert(att *eth.Attestation) error {
	if att == nil || att.Data == nil || att.AggregationBits == nil {
		return errors.New("cannot insert incomplete attestation")
	}
	dataRoot, err := ssz.HashTreeRoot(att.Data)
	if err != nil {
		return errors.Wrap(err, "could not hash attestation data")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	existing, ok := p.byData[dataRoot]
	if !ok {
		p.byData[dataRoot] = att
		aggregatedAttestationsGauge.Set(float64(len(p.byData)))
		return nil
	}

	overlaps, err := existing.AggregationBits.Inner().Overlaps(att.AggregationBits.Inner())
	if err != nil {
		return errors.Wrap(err, "could not check aggregation bits overlap")
	}
	if overlaps {
		attestationOverlapTotal.Inc()
		return errOverlappingBits
	}

	merged, err := mergeAttestations(existing, att)
	if err != nil {
		return err
	}
	p.byData[dataRoot] = merged
	return nil
}

// mergeAttestations folds b's contribution into a: aggregation_bits OR'd
// together, signatures BLS-aggregated. a and b are assumed to already
// share an AttestationData and to have disjoint aggregation_bits.
func mergeAttestations(a, b *eth.Attestation) (*eth.Attestation, error) {
	sigA, err := bls.SignatureFromBytes(a.Signature[:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature on existing attestation")
	}
	sigB, err := bls.SignatureFromBytes(b.Signature[:])
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature on incoming attestation")
	}
	aggregated, err := bls.AggregateSignatures([]bls.Signature{sigA, sigB})
	if err != nil {
		return nil, errors.Wrap(err, "could not aggregate signatures")
	}

	orBits, err := a.AggregationBits.Inner().Or(b.AggregationBits.Inner())
	if err != nil {
		return nil, errors.Wrap(err, "could not OR aggregation bits")
	}
	mergedBits := ssz.WrapBitlist(orBits, a.AggregationBits.Limit())

	out := &eth.Attestation{
		AggregationBits: mergedBits,
		Data:            a.Data,
		CustodyBits:     a.CustodyBits,
	}
	copy(out.Signature[:], aggregated.Marshal())
	return out, nil
}

// Count returns how many distinct AttestationData entries the pool holds.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byData)
}

// All returns every aggregated attestation currently in the pool.
func (p *Pool) All() []*eth.Attestation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*eth.Attestation, 0, len(p.byData))
	for _, att := range p.byData {
		out = append(out, att)
	}
	return out
}

// Delete drops the aggregate on file for att's AttestationData, called
// once a block has included it.
func (p *Pool) Delete(att *eth.Attestation) error {
	if att == nil || att.Data == nil {
		return errors.New("cannot delete incomplete attestation")
	}
	dataRoot, err := ssz.HashTreeRoot(att.Data)
	if err != nil {
		return errors.Wrap(err, "could not hash attestation data")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byData, dataRoot)
	aggregatedAttestationsGauge.Set(float64(len(p.byData)))
	return nil
}
