// Package stateutils holds BeaconState helper structures that do not
// themselves need to be part of the SSZ-hashed container, grounded on the
// teacher's beacon-chain/state/v1.BeaconState.valMapHandler field.
package stateutils

import "sync"

// ValidatorMap is a pubkey-to-index lookup rebuilt whenever the validator
// registry list is replaced wholesale, and updated incrementally on
// individual appends. BeaconState keeps one alongside its validator list so
// get_validator_index_by_pubkey does not need a linear scan every call.
type ValidatorMap struct {
	mu      sync.RWMutex
	byPubkey map[[48]byte]uint64
}

// NewValidatorMap builds a map from an initial validator pubkey list, in
// registry order.
func NewValidatorMap(pubkeys [][48]byte) *ValidatorMap {
	m := &ValidatorMap{byPubkey: make(map[[48]byte]uint64, len(pubkeys))}
	for i, pk := range pubkeys {
		m.byPubkey[pk] = uint64(i)
	}
	return m
}

// Index returns the validator index for pubkey and whether it was found.
func (m *ValidatorMap) Index(pubkey [48]byte) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.byPubkey[pubkey]
	return idx, ok
}

// Set records pubkey as belonging to index, called when a new validator is
// appended to the registry during deposit processing.
func (m *ValidatorMap) Set(pubkey [48]byte, index uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPubkey[pubkey] = index
}

// Copy returns an independent copy of the map, used when BeaconState is
// copied for concurrent-reader working copies.
func (m *ValidatorMap) Copy() *ValidatorMap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[[48]byte]uint64, len(m.byPubkey))
	for k, v := range m.byPubkey {
		cp[k] = v
	}
	return &ValidatorMap{byPubkey: cp}
}
