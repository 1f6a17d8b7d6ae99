// Package voluntaryexits defines an in-memory pool of received voluntary
// exit events by the beacon node: spec.md §4.8's bounded set keyed by
// canonical id, duplicates dropped. Grounded on the teacher's
// beacon-chain/operations/voluntaryexits package doc comment (the
// retrieval pack carried only that doc.go, no concrete pool — this file's
// storage shape follows the sibling beacon-chain/operations/slashings
// pool's map-keyed-by-id approach instead).
package voluntaryexits

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// defaultMaxPending bounds the pool against an unbounded flood of exit
// gossip; a validator can only ever have one live exit.
const defaultMaxPending = 4096

// Pool holds pending voluntary exits keyed by the exiting validator's
// index — the canonical id, since a validator can exit at most once.
type Pool struct {
	mu   sync.RWMutex
	byID map[primitives.ValidatorIndex]*eth.SignedVoluntaryExit
}

// NewPool constructs an empty voluntary exit pool.
func NewPool() *Pool {
	return &Pool{byID: make(map[primitives.ValidatorIndex]*eth.SignedVoluntaryExit)}
}

// Insert adds exit to the pool, keyed by its validator index. An exit
// already on file for that validator is left in place and the insert is
// treated as a duplicate, not an error.
func (p *Pool) Insert(exit *eth.SignedVoluntaryExit) error {
	if exit == nil || exit.Exit == nil {
		return errors.New("cannot insert incomplete voluntary exit")
	}
	index := exit.Exit.ValidatorIndex

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.byID) >= defaultMaxPending {
		return errors.New("voluntary exit pool is full")
	}
	if _, ok := p.byID[index]; ok {
		return nil
	}
	p.byID[index] = exit
	return nil
}

// PendingExits returns every pending voluntary exit.
func (p *Pool) PendingExits() []*eth.SignedVoluntaryExit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*eth.SignedVoluntaryExit, 0, len(p.byID))
	for _, exit := range p.byID {
		out = append(out, exit)
	}
	return out
}

// Delete removes the exit on file for the validator named in exit, once a
// block has included it.
func (p *Pool) Delete(exit *eth.SignedVoluntaryExit) error {
	if exit == nil || exit.Exit == nil {
		return errors.New("cannot delete incomplete voluntary exit")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, exit.Exit.ValidatorIndex)
	return nil
}

// HasBeenPooled reports whether index already has a pending exit on file.
func (p *Pool) HasBeenPooled(index primitives.ValidatorIndex) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byID[index]
	return ok
}
