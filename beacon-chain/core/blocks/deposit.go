package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
	"github.com/prylabs-zero/beacon-core/encoding/bytesutil"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
)

var depositHasher = hash.NewSHA256()

const depositContractTreeDepth = 32

// ProcessDeposits applies every deposit in a block body, in list order,
// each capped at MAX_DEPOSITS by the body's SSZ schema.
func ProcessDeposits(st *state.BeaconState, deposits []*eth.Deposit) error {
	for _, d := range deposits {
		if err := processDeposit(st, d); err != nil {
			return badOperation(OpDeposit, err)
		}
	}
	return nil
}

// isValidMerkleBranch walks leaf up through branch, mixing in index's bit
// at each level, and reports whether the resulting root matches root.
//
//	def is_valid_merkle_branch(leaf, branch, depth, index, root) -> bool:
//	  value = leaf
//	  for i in range(depth):
//	    if index // (2**i) % 2:
//	      value = hash(branch[i] + value)
//	    else:
//	      value = hash(value + branch[i])
//	  return value == root
func isValidMerkleBranch(leaf [32]byte, branch [][32]byte, depth uint64, index uint64, root [32]byte) bool {
	value := leaf
	for i := uint64(0); i < depth; i++ {
		if (index>>i)&1 == 1 {
			value = depositHasher.HashTwo(branch[i], value)
		} else {
			value = depositHasher.HashTwo(value, branch[i])
		}
	}
	return value == root
}

// processDeposit verifies a deposit's Merkle inclusion proof against the
// eth1 deposit root, then either tops up an existing validator's balance
// or — once its own signature verifies — appends a brand new one.
//
//	def process_deposit(state, deposit) -> None:
//	  (see body)
func processDeposit(st *state.BeaconState, d *eth.Deposit) error {
	eth1Data := st.Eth1Data()
	depositIndex := st.Eth1DepositIndex()

	leaf, err := ssz.HashTreeRoot(d.Data)
	if err != nil {
		return err
	}
	if !isValidMerkleBranch(leaf, d.Proof[:], depositContractTreeDepth+1, depositIndex, eth1Data.DepositRoot) {
		return errors.New("invalid deposit merkle proof")
	}
	st.SetEth1DepositIndex(depositIndex + 1)

	pubkey := d.Data.Pubkey
	amount := d.Data.Amount

	if idx, ok := st.ValidatorIndexByPubkey(pubkey); ok {
		return helpers.IncreaseBalance(st, primitives.ValidatorIndex(idx), amount)
	}

	// A deposit for an unknown pubkey only joins the registry once its own
	// signature verifies against the fork-independent deposit domain; an
	// invalid signature leaves the deposit silently unapplied rather than
	// failing the whole block, since a bad deposit signature is the
	// depositor's mistake, not an attack on chain validity.
	pub, err := bls.PublicKeyFromBytes(pubkey[:])
	if err != nil {
		return nil
	}
	signingRoot, err := d.Data.SigningRoot()
	if err != nil {
		return err
	}
	cfg := params.BeaconConfig()
	domain := helpers.ComputeDomain(cfg.DomainDeposit, bytesutil.ToBytes4(cfg.GenesisForkVersion))
	wrappedRoot, err := helpers.ComputeSigningRoot(signingRoot, domain)
	if err != nil {
		return err
	}
	sig, err := bls.SignatureFromBytes(d.Data.Signature[:])
	if err != nil {
		return nil
	}
	valid, err := bls.Verify(pub, wrappedRoot[:], sig)
	if err != nil || !valid {
		return nil
	}
	return appendNewValidator(st, d)
}

func appendNewValidator(st *state.BeaconState, d *eth.Deposit) error {
	cfg := params.BeaconConfig()
	amount := d.Data.Amount
	effective := amount - amount%cfg.EffectiveBalanceIncrement
	if effective > cfg.MaxEffectiveBalance {
		effective = cfg.MaxEffectiveBalance
	}
	st.AppendValidator(&eth.Validator{
		Pubkey:                     d.Data.Pubkey,
		WithdrawalCredentials:      d.Data.WithdrawalCredentials,
		EffectiveBalance:           effective,
		ActivationEligibilityEpoch: cfg.FarFutureEpoch,
		ActivationEpoch:            cfg.FarFutureEpoch,
		ExitEpoch:                  cfg.FarFutureEpoch,
		WithdrawableEpoch:          cfg.FarFutureEpoch,
	})
	st.AppendBalance(amount)
	return nil
}
