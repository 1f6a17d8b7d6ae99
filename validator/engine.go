package validator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/core/transition"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/attestations"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/slashings"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/transfers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/voluntaryexits"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
	"github.com/prylabs-zero/beacon-core/validator/slashingprotection"
)

// HeadProvider is the slice of beacon-chain/blockchain.Service the engine
// needs: the current canonical root and a state advanced to an arbitrary
// slot, the same two calls a proposer or attester needs before building
// anything.
type HeadProvider interface {
	HeadRoot() [32]byte
	HeadState(slot primitives.Slot) (*state.BeaconState, error)
}

// BlockSink accepts a freshly produced, signed block. In a full node this
// is beacon-chain/blockchain.Service.ProcessBlock followed by a gossip
// publish; the engine only needs the single call.
type BlockSink interface {
	ProcessBlock(signedBlock *eth.SignedBeaconBlock) error
}

// AttestationSink accepts a freshly produced, signed attestation. In a
// full node this both inserts into the local attestation pool (so the
// validator's own vote is aggregation-eligible before it round-trips
// through gossip) and publishes it.
type AttestationSink interface {
	Insert(att *eth.Attestation) error
}

// Pools bundles the operation pools a block proposal pulls from, each
// under the SSZ list-size cap its corresponding BeaconBlockBody field
// declares.
type Pools struct {
	Attestations   *attestations.Pool
	Slashings      *slashings.Pool
	VoluntaryExits *voluntaryexits.Pool
	Transfers      *transfers.Pool
}

// blockOperationCaps mirrors the unexported SSZ list limits
// consensus-types/eth.BeaconBlockBody declares for each operation list;
// duplicated here since those constants aren't exported across the
// package boundary, sourced from config/params so a future config-driven
// spec change can't silently diverge from the body's own schema.
func blockOperationCaps() (maxProposerSlashings, maxAttesterSlashings, maxAttestations, maxVoluntaryExits, maxTransfers int) {
	cfg := params.BeaconConfig()
	return int(cfg.MaxProposerSlashings), int(cfg.MaxAttesterSlashings), int(cfg.MaxAttestations), int(cfg.MaxVoluntaryExits), int(cfg.MaxTransfers)
}

// Engine is spec.md §4.10's validator duties engine: it drives block and
// attestation production for every local pubkey at the slot tick that
// duty is due, refusing (via slashingprotection.History) to ever sign a
// second conflicting block or attestation. Grounded on the teacher's
// validator/client package's per-slot RoleAt/ProposeBlock/SubmitAttestation
// sequence, collapsed here into two entry points a caller's slot ticker
// invokes directly instead of the teacher's gRPC stream loop.
type Engine struct {
	head   HeadProvider
	pools  *Pools
	signer Signer
	history *slashingprotection.History

	blockSink       BlockSink
	attestationSink AttestationSink

	graffiti [32]byte
}

// NewEngine constructs an Engine around its collaborators. graffiti is
// copied into every block this engine proposes.
func NewEngine(head HeadProvider, pools *Pools, signer Signer, history *slashingprotection.History, blockSink BlockSink, attestationSink AttestationSink, graffiti [32]byte) *Engine {
	return &Engine{
		head:            head,
		pools:           pools,
		signer:          signer,
		history:         history,
		blockSink:       blockSink,
		attestationSink: attestationSink,
		graffiti:        graffiti,
	}
}

// ProposeIfDue is called at slot tick s with pubKey, duty.Validator's
// pubkey as resolved by the caller. It builds, protects, signs and
// publishes a block for slot s. If signer holds no secret key for pubKey,
// the proposal is still recorded in the slashing-protection history and
// the signing error is returned.
func (e *Engine) ProposeIfDue(ctx context.Context, duty ProposerDuty, pubKey [48]byte) error {
	headState, err := e.head.HeadState(duty.Slot)
	if err != nil {
		return errors.Wrap(err, "could not load head state for proposal")
	}

	block, err := e.buildBlock(ctx, headState, duty, pubKey)
	if err != nil {
		return errors.Wrap(err, "could not build block")
	}

	objectRoot, err := block.SigningRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute block signing root")
	}
	domain := helpers.Domain(headState.Fork(), helpers.CurrentEpoch(duty.Slot), params.BeaconConfig().DomainBeaconProposer)
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return errors.Wrap(err, "could not compute signing root")
	}

	if err := e.history.CheckAndRecordProposal(pubKey, duty.Slot, signingRoot); err != nil {
		return errors.Wrap(err, "refusing to sign block")
	}

	sig, err := e.signer.Sign(ctx, pubKey, signingRoot)
	if err != nil {
		return errors.Wrap(err, "could not sign block")
	}

	signed := &eth.SignedBeaconBlock{Block: block}
	copy(signed.Signature[:], sig.Marshal())

	return e.blockSink.ProcessBlock(signed)
}

// buildBlock assembles a candidate block for duty.Slot over headState
// (already advanced to duty.Slot by HeadProvider.HeadState): it pulls operations from the pools under their caps, signs
// RANDAO, computes the trial state_root by running the full state
// transition over a copy of headState, and leaves signing of the outer
// block to the caller.
func (e *Engine) buildBlock(ctx context.Context, headState *state.BeaconState, duty ProposerDuty, pubKey [48]byte) (*eth.BeaconBlock, error) {
	parentRoot := e.head.HeadRoot()

	randaoReveal, err := e.signRandao(ctx, headState, duty.Slot, pubKey)
	if err != nil {
		return nil, errors.Wrap(err, "could not produce randao reveal")
	}

	return BuildBlock(headState, parentRoot, duty.Slot, randaoReveal, e.pools, e.graffiti)
}

// BuildBlock assembles a candidate block for slot over headState (a copy
// already advanced to slot), pulling operations from pools under their
// caps and computing state_root via a trial state transition with
// validateStateRoot=false, which skips the outer block signature and the
// state-root check (both happen once the returned block is signed and
// replayed through beacon-chain/blockchain.Service.ProcessBlock).
// process_randao still runs in the trial, so randaoReveal must already be
// a valid reveal by slot's proposer. randaoReveal is supplied
// by the caller rather than produced here, so this same assembly logic
// serves both Engine (which signs it locally) and api/validatorapi's
// GET /validator/block (which hands back an unsigned block for an
// external signer to complete).
func BuildBlock(headState *state.BeaconState, parentRoot [32]byte, slot primitives.Slot, randaoReveal [96]byte, pools *Pools, graffiti [32]byte) (*eth.BeaconBlock, error) {
	maxProposerSlashings, maxAttesterSlashings, maxAttestations, maxVoluntaryExits, maxTransfers := blockOperationCaps()

	proposerSlashings := pools.Slashings.ProposerSlashings()
	if len(proposerSlashings) > maxProposerSlashings {
		proposerSlashings = proposerSlashings[:maxProposerSlashings]
	}
	attesterSlashings := pools.Slashings.AttesterSlashings()
	if len(attesterSlashings) > maxAttesterSlashings {
		attesterSlashings = attesterSlashings[:maxAttesterSlashings]
	}
	atts, err := attestations.PeekAggregatedAttestations(pools.Attestations, headState, maxAttestations, slot)
	if err != nil {
		return nil, errors.Wrap(err, "could not peek aggregated attestations")
	}
	exits := pools.VoluntaryExits.PendingExits()
	if len(exits) > maxVoluntaryExits {
		exits = exits[:maxVoluntaryExits]
	}
	xfers := pools.Transfers.PendingTransfers()
	if len(xfers) > maxTransfers {
		xfers = xfers[:maxTransfers]
	}

	body := &eth.BeaconBlockBody{
		RandaoReveal:      randaoReveal,
		Eth1Data:          headState.Eth1Data(),
		Graffiti:          graffiti,
		ProposerSlashings: proposerSlashings,
		AttesterSlashings: attesterSlashings,
		Attestations:      atts,
		Deposits:          nil,
		VoluntaryExits:    exits,
		Transfers:         xfers,
	}

	block := &eth.BeaconBlock{
		Slot:       slot,
		ParentRoot: parentRoot,
		Body:       body,
	}

	signed := &eth.SignedBeaconBlock{Block: block}
	trialState, err := transition.Transition(headState, signed, false)
	if err != nil {
		return nil, errors.Wrap(err, "trial state transition failed")
	}
	stateRoot, err := trialState.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not compute trial state root")
	}
	block.StateRoot = stateRoot

	return block, nil
}

// signRandao produces the RANDAO reveal process_randao verifies: a
// DOMAIN_RANDAO signature over hash_tree_root(epoch).
func (e *Engine) signRandao(ctx context.Context, headState *state.BeaconState, slot primitives.Slot, pubKey [48]byte) ([96]byte, error) {
	var out [96]byte
	epoch := helpers.CurrentEpoch(slot)
	objectRoot, err := ssz.HashTreeRoot(ssz.U64(epoch))
	if err != nil {
		return out, err
	}
	domain := helpers.Domain(headState.Fork(), epoch, params.BeaconConfig().DomainRandao)
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return out, err
	}
	sig, err := e.signer.Sign(ctx, pubKey, signingRoot)
	if err != nil {
		return out, err
	}
	copy(out[:], sig.Marshal())
	return out, nil
}

// AttestIfDue is called once for each local attester whose duty.Slot has
// become due. spec.md §4.10 places this "at s + SLOTS_PER_EPOCH/2
// (mid-slot)" — read here as mid-way through slot s's own wall-clock
// duration (an offset of SECONDS_PER_SLOT/2 past the slot-s tick), since a
// literal SLOTS_PER_EPOCH/2 slot-count offset would land far outside slot
// s and contradicts the "(mid-slot)" parenthetical; the caller's ticker is
// responsible for the delay, AttestIfDue itself runs immediately.
func (e *Engine) AttestIfDue(ctx context.Context, duty AttesterDuty, pubKey [48]byte) error {
	headState, err := e.head.HeadState(duty.Slot)
	if err != nil {
		return errors.Wrap(err, "could not load head state for attestation")
	}

	data, err := e.buildAttestationData(headState, duty)
	if err != nil {
		return errors.Wrap(err, "could not build attestation data")
	}

	objectRoot, err := ssz.HashTreeRoot(data)
	if err != nil {
		return errors.Wrap(err, "could not compute attestation data root")
	}
	domain := helpers.Domain(headState.Fork(), data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester)
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return errors.Wrap(err, "could not compute signing root")
	}

	if err := e.history.CheckAndRecordAttestation(pubKey, data.Source.Epoch, data.Target.Epoch); err != nil {
		return errors.Wrap(err, "refusing to sign attestation")
	}

	sig, err := e.signer.Sign(ctx, pubKey, signingRoot)
	if err != nil {
		return errors.Wrap(err, "could not sign attestation")
	}

	bits := ssz.NewBitlist(uint64(duty.CommitteeLength), uint64(duty.CommitteeLength))
	bits.Inner().SetBitAt(uint64(duty.PositionInCommittee), true)

	att := &eth.Attestation{
		AggregationBits: bits,
		Data:            data,
	}
	copy(att.Signature[:], sig.Marshal())

	return e.attestationSink.Insert(att)
}

// buildAttestationData constructs the AttestationData a local attester
// votes for duty: head_block_root and source/target checkpoints taken
// directly from headState (already advanced to duty.Slot), per
// get_attestation_data. Crosslink is carried forward unchanged from
// headState's current crosslink at the committee's shard — this
// repository's ProcessAttestations never validates the crosslink field,
// so there is no vote to compute here, only a value to echo back.
func (e *Engine) buildAttestationData(headState *state.BeaconState, duty AttesterDuty) (*eth.AttestationData, error) {
	currentEpoch := helpers.CurrentEpoch(duty.Slot)

	headRoot, err := helpers.BlockRootAtSlot(headState, duty.Slot)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve head block root at attestation slot")
	}

	targetRoot, err := helpers.BlockRoot(headState, currentEpoch)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve epoch boundary block root")
	}

	crosslink, err := headState.CurrentCrosslinkAtShard(primitives.ShardNumber(duty.CommitteeIndex))
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve current crosslink")
	}

	return &eth.AttestationData{
		Slot:            duty.Slot,
		Index:           duty.CommitteeIndex,
		BeaconBlockRoot: headRoot,
		Source:          headState.CurrentJustifiedCheckpoint(),
		Target: &eth.Checkpoint{
			Epoch: currentEpoch,
			Root:  targetRoot,
		},
		Crosslink: crosslink,
	}, nil
}
