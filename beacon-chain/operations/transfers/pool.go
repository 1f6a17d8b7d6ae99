// Package transfers holds spec.md §4.8's bounded, canonical-id-keyed set
// of pending validator balance-transfer operations, grounded on the
// sibling beacon-chain/operations/{slashings,voluntaryexits} pools' same
// map-keyed-by-id shape.
package transfers

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// defaultMaxPending bounds the pool against an unbounded flood of
// transfer gossip.
const defaultMaxPending = 4096

// Pool holds pending transfers keyed by their own signing root, the
// canonical id for an operation with no single natural index (unlike a
// slashing or an exit, a sender may submit more than one transfer).
type Pool struct {
	mu   sync.RWMutex
	byID map[[32]byte]*eth.Transfer
}

// NewPool constructs an empty transfer pool.
func NewPool() *Pool {
	return &Pool{byID: make(map[[32]byte]*eth.Transfer)}
}

// Insert adds t to the pool, keyed by its signing root. A transfer
// already on file under that root is treated as a duplicate, not an
// error.
func (p *Pool) Insert(t *eth.Transfer) error {
	if t == nil {
		return errors.New("cannot insert nil transfer")
	}
	id, err := t.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute transfer id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.byID) >= defaultMaxPending {
		return errors.New("transfer pool is full")
	}
	if _, ok := p.byID[id]; ok {
		return nil
	}
	p.byID[id] = t
	return nil
}

// PendingTransfers returns every pending transfer.
func (p *Pool) PendingTransfers() []*eth.Transfer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*eth.Transfer, 0, len(p.byID))
	for _, t := range p.byID {
		out = append(out, t)
	}
	return out
}

// Delete removes t from the pool, once a block has included it.
func (p *Pool) Delete(t *eth.Transfer) error {
	if t == nil {
		return errors.New("cannot delete nil transfer")
	}
	id, err := t.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute transfer id")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, id)
	return nil
}
