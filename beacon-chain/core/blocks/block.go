package blocks

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// ProcessBlock runs every block-level sub-transition against st in the
// declared order of spec.md §4.4 phases 2-5, mutating st in place. Callers
// are responsible for taking a copy of the pre-state first: a
// TransitionError partway through this function leaves st mutated up to
// the failing operation.
//
//	def process_block(state: BeaconState, block: BeaconBlock) -> None:
//	  process_block_header(state, block)
//	  process_randao(state, block.body)
//	  process_eth1_data(state, block.body)
//	  process_operations(state, block.body)
func ProcessBlock(st *state.BeaconState, block *eth.BeaconBlock) error {
	if err := ProcessBlockHeader(st, block); err != nil {
		return err
	}
	if err := ProcessRandao(st, block.Body); err != nil {
		return err
	}
	if err := ProcessEth1DataVote(st, block.Body.Eth1Data); err != nil {
		return err
	}
	return processOperations(st, block.Body)
}

// processOperations applies each operation type in the fixed order
// declared by spec.md §4.4: proposer slashings, attester slashings,
// attestations, deposits, voluntary exits, transfers.
func processOperations(st *state.BeaconState, body *eth.BeaconBlockBody) error {
	if err := ProcessProposerSlashings(st, body.ProposerSlashings); err != nil {
		return err
	}
	if err := ProcessAttesterSlashings(st, body.AttesterSlashings); err != nil {
		return err
	}
	if err := ProcessAttestations(st, body.Attestations); err != nil {
		return err
	}
	if err := ProcessDeposits(st, body.Deposits); err != nil {
		return err
	}
	if err := ProcessVoluntaryExits(st, body.VoluntaryExits); err != nil {
		return err
	}
	return ProcessTransfers(st, body.Transfers)
}
