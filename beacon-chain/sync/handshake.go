package sync

import (
	"context"

	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// HandshakeSender is the transport's half of the Hello/Status exchange:
// given a peer, send our own ChainState and return theirs. Grounded on
// the teacher's beacon-chain/sync/rpc_hello.go's helloRPCHandler, which
// likewise only validates fork_version and leaves the actual stream
// read/write to the p2p collaborator.
type HandshakeSender interface {
	SendHandshake(ctx context.Context, pid peer.ID, local ChainState) (ChainState, error)
}

// PerformHandshake drives spec.md §4.9's Handshaking state: it sends the
// local chain state to pid, validates the response's fork_version, and
// records the result in peers. On a fork-version mismatch the peer is
// dropped (transitioned to StateDisconnected) and errWrongForkVersion is
// returned so the caller can close the underlying connection.
func PerformHandshake(ctx context.Context, sender HandshakeSender, peers *PeerStatus, pid peer.ID, localFork [4]byte, local ChainState) error {
	peers.Connect(pid)

	remote, err := sender.SendHandshake(ctx, pid, local)
	if err != nil {
		peers.Disconnect(pid)
		return err
	}

	return peers.RecordHandshake(pid, localFork, remote)
}

// LocalChainState builds the ChainState this node advertises in a
// handshake from its current head and finality view.
func LocalChainState(forkVersion [4]byte, finalizedRoot [32]byte, finalizedEpoch primitives.Epoch, headRoot [32]byte, headSlot primitives.Slot) ChainState {
	return ChainState{
		ForkVersion:    forkVersion,
		FinalizedRoot:  finalizedRoot,
		FinalizedEpoch: finalizedEpoch,
		HeadRoot:       headRoot,
		HeadSlot:       headSlot,
	}
}
