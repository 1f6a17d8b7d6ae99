package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

var randaoHasher = hash.NewSHA256()

// ProcessRandao verifies the proposer's randao_reveal against its own
// pubkey and DOMAIN_RANDAO, then mixes it into the current epoch's randao
// mix.
//
//	def process_randao(state: BeaconState, body: BeaconBlockBody) -> None:
//	  epoch = get_current_epoch(state)
//	  proposer = state.validators[get_beacon_proposer_index(state)]
//	  signing_root = compute_signing_root(epoch, get_domain(state, DOMAIN_RANDAO))
//	  assert bls_verify(proposer.pubkey, signing_root, body.randao_reveal)
//	  mix = xor(get_randao_mix(state, epoch), hash(body.randao_reveal))
//	  state.randao_mixes[epoch % EPOCHS_PER_HISTORICAL_VECTOR] = mix
func ProcessRandao(st *state.BeaconState, body *eth.BeaconBlockBody) error {
	epoch := helpers.CurrentEpoch(st.Slot())

	proposerIndex, err := helpers.BeaconProposerIndex(st)
	if err != nil {
		return badRandao(err)
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return badRandao(err)
	}

	objectRoot, err := ssz.HashTreeRoot(ssz.U64(epoch))
	if err != nil {
		return badRandao(err)
	}
	domain := helpers.Domain(st.Fork(), epoch, params.BeaconConfig().DomainRandao)
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return badRandao(err)
	}

	pub, err := bls.PublicKeyFromBytes(proposer.Pubkey[:])
	if err != nil {
		return badRandao(err)
	}
	sig, err := bls.SignatureFromBytes(body.RandaoReveal[:])
	if err != nil {
		return badRandao(err)
	}
	valid, err := bls.Verify(pub, signingRoot[:], sig)
	if err != nil {
		return badRandao(err)
	}
	if !valid {
		return badRandao(errors.New("invalid randao reveal signature"))
	}

	currentMix, err := helpers.RandaoMix(st, epoch)
	if err != nil {
		return badRandao(err)
	}
	revealHash := randaoHasher.Hash(body.RandaoReveal[:])
	var mixed [32]byte
	for i := range mixed {
		mixed[i] = currentMix[i] ^ revealHash[i]
	}

	vectorLen := uint64(params.BeaconConfig().EpochsPerHistoricalVector)
	return badRandaoIfErr(st.UpdateRandaoMixAtIndex(uint64(epoch)%vectorLen, mixed))
}

func badRandaoIfErr(err error) error {
	if err == nil {
		return nil
	}
	return badRandao(err)
}
