package sync

import (
	"sync"

	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// HandshakeState is a peer's position in spec.md §4.9's per-peer state
// machine: Disconnected -> Handshaking -> Active -> Disconnected.
type HandshakeState int

const (
	// StateDisconnected is both the initial state and the state a peer
	// returns to when its connection closes.
	StateDisconnected HandshakeState = iota
	// StateHandshaking means a Hello has been sent and a response is
	// outstanding.
	StateHandshaking
	// StateActive means a valid, fork-version-matching Hello exchange has
	// completed; the peer is eligible for sync requests.
	StateActive
)

// errWrongForkVersion is returned from RecordHandshake when a peer's
// advertised fork_version doesn't match the local chain's, per spec.md
// §4.9's "mismatched fork_version ⇒ drop".
var errWrongForkVersion = errors.New("peer advertised a mismatched fork version")

// ChainState is the peer information exchanged during a handshake,
// spec.md §4.9's {fork_version, finalized_root, finalized_epoch,
// head_root, head_slot}.
type ChainState struct {
	ForkVersion     [4]byte
	FinalizedRoot   [32]byte
	FinalizedEpoch  primitives.Epoch
	HeadRoot        [32]byte
	HeadSlot        primitives.Slot
}

type peerRecord struct {
	state       HandshakeState
	chainState  ChainState
	badResponses int
}

// PeerStatus tracks every peer's handshake state and last-known chain
// state. Grounded on the teacher's beacon-chain/p2p/peers.Status (a
// mutex-guarded map[peer.ID]*peerStatus with connection-state tracking
// and a bad-response counter that eventually blacklists a peer),
// collapsed onto this repository's three-state handshake machine instead
// of the teacher's four connection states, since there's no transport
// layer here to report "connecting"/"disconnecting" transitions.
type PeerStatus struct {
	mu              sync.RWMutex
	maxBadResponses int
	peers           map[peer.ID]*peerRecord
}

// NewPeerStatus constructs an empty PeerStatus, blacklisting a peer once
// its bad-response count reaches maxBadResponses.
func NewPeerStatus(maxBadResponses int) *PeerStatus {
	return &PeerStatus{
		maxBadResponses: maxBadResponses,
		peers:           make(map[peer.ID]*peerRecord),
	}
}

// Connect transitions pid into StateHandshaking, the state a newly
// dialed or newly accepted connection starts a Hello exchange from.
func (p *PeerStatus) Connect(pid peer.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.peers[pid] = &peerRecord{state: StateHandshaking}
}

// RecordHandshake validates remote against localFork and, if it matches,
// transitions pid to StateActive and records remote as the peer's chain
// state. A mismatched fork version drops the peer back to Disconnected
// and returns errWrongForkVersion, the caller's cue to close the
// connection.
func (p *PeerStatus) RecordHandshake(pid peer.ID, localFork [4]byte, remote ChainState) error {
	if remote.ForkVersion != localFork {
		p.Disconnect(pid)
		return errWrongForkVersion
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.peers[pid]
	if !ok {
		rec = &peerRecord{}
		p.peers[pid] = rec
	}
	rec.state = StateActive
	rec.chainState = remote
	peersActive.Set(float64(p.countActiveLocked()))
	return nil
}

// Disconnect transitions pid to StateDisconnected. Its chain state is
// left on file for diagnostics but no longer eligible for sync requests.
func (p *PeerStatus) Disconnect(pid peer.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.peers[pid]; ok {
		rec.state = StateDisconnected
	}
	peersActive.Set(float64(p.countActiveLocked()))
}

// IncrementBadResponses records a bad response from pid (a malformed
// reply, an STF rejection downstream of it), disconnecting the peer once
// it crosses maxBadResponses.
func (p *PeerStatus) IncrementBadResponses(pid peer.ID) {
	p.mu.Lock()
	rec, ok := p.peers[pid]
	if !ok {
		p.mu.Unlock()
		return
	}
	rec.badResponses++
	bad := rec.badResponses
	p.mu.Unlock()

	if bad >= p.maxBadResponses {
		p.Disconnect(pid)
	}
}

// ChainState returns the last-recorded chain state for pid.
func (p *PeerStatus) ChainState(pid peer.ID) (ChainState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.peers[pid]
	if !ok {
		return ChainState{}, false
	}
	return rec.chainState, true
}

// IsActive reports whether pid has completed a valid handshake and
// hasn't since disconnected.
func (p *PeerStatus) IsActive(pid peer.ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.peers[pid]
	return ok && rec.state == StateActive
}

// ActivePeers returns every peer currently in StateActive.
func (p *PeerStatus) ActivePeers() []peer.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]peer.ID, 0, len(p.peers))
	for pid, rec := range p.peers {
		if rec.state == StateActive {
			out = append(out, pid)
		}
	}
	return out
}

func (p *PeerStatus) countActiveLocked() int {
	n := 0
	for _, rec := range p.peers {
		if rec.state == StateActive {
			n++
		}
	}
	return n
}
