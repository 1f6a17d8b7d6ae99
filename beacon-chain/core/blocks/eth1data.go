package blocks

import (
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
)

// ProcessEth1DataVote appends body's eth1 vote to the running tally and
// adopts it once it has been seen by more than half the voting period's
// slots.
//
//	def process_eth1_data(state: BeaconState, body: BeaconBlockBody) -> None:
//	  state.eth1_data_votes.append(body.eth1_data)
//	  if state.eth1_data_votes.count(body.eth1_data) * 2 > EPOCHS_PER_ETH1_VOTING_PERIOD * SLOTS_PER_EPOCH:
//	    state.eth1_data = body.eth1_data
func ProcessEth1DataVote(st *state.BeaconState, body *eth.Eth1Data) error {
	st.AppendEth1DataVote(body)

	votes := st.Eth1DataVotes()
	count := 0
	for _, v := range votes {
		if v.Equals(body) {
			count++
		}
	}

	cfg := params.BeaconConfig()
	threshold := uint64(cfg.EpochsPerEth1VotingPeriod) * uint64(cfg.SlotsPerEpoch)
	if uint64(count)*2 > threshold {
		st.SetEth1Data(body)
	}
	return nil
}
