package helpers

import (
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
)

// ComputeDomain mixes a domain type with a fork version to produce the
// signature domain a SigningRoot is combined with before verification. It
// never touches genesis_validators_root (a later-fork addition); phase 0
// domains are fork-version-only.
//
//	def compute_domain(domain_type: DomainType, fork_version: Version) -> Domain:
//	  return Domain(domain_type + fork_version)
func ComputeDomain(domainType [4]byte, forkVersion [4]byte) [8]byte {
	var out [8]byte
	copy(out[:4], domainType[:])
	copy(out[4:], forkVersion[:])
	return out
}

// Domain returns the signature domain active at epoch under fork,
// selecting fork.PreviousVersion or fork.CurrentVersion depending on
// whether epoch precedes the fork's activation epoch.
//
//	def get_domain(state: BeaconState, domain_type: DomainType, message_epoch: Epoch=None) -> Domain:
//	  epoch = get_current_epoch(state) if message_epoch is None else message_epoch
//	  fork_version = state.fork.previous_version if epoch < state.fork.epoch else state.fork.current_version
//	  return compute_domain(domain_type, fork_version)
func Domain(fork *eth.Fork, epoch primitives.Epoch, domainType [4]byte) [8]byte {
	forkVersion := fork.CurrentVersion
	if epoch < fork.Epoch {
		forkVersion = fork.PreviousVersion
	}
	return ComputeDomain(domainType, forkVersion)
}
