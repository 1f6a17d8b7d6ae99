package blocks

import (
	"github.com/pkg/errors"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/config/params"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/crypto/hash"
)

var transferHasher = hash.NewSHA256()

// blsWithdrawalPrefix marks withdrawal_credentials derived directly from a
// BLS pubkey rather than an eth1 address.
const blsWithdrawalPrefix = byte(0x00)

// ProcessTransfers applies every transfer in a block body, in list order,
// each capped at MAX_TRANSFERS by the body's SSZ schema.
func ProcessTransfers(st *state.BeaconState, transfers []*eth.Transfer) error {
	for _, t := range transfers {
		if err := processTransfer(st, t); err != nil {
			return badOperation(OpTransfer, err)
		}
	}
	return nil
}

// processTransfer verifies capacity, sender eligibility, withdrawal
// credentials, and signature, then moves the balance and pays the
// proposer's fee.
//
//	def process_transfer(state, transfer) -> None:
//	  (see body)
func processTransfer(st *state.BeaconState, t *eth.Transfer) error {
	cfg := params.BeaconConfig()

	senderBalance, err := st.BalanceAtIndex(t.Sender)
	if err != nil {
		return err
	}
	required := t.Amount
	if t.Fee > required {
		required = t.Fee
	}
	if senderBalance < required {
		return errors.Errorf("sender %d balance %d is below required %d", t.Sender, senderBalance, required)
	}
	if st.Slot() != t.Slot {
		return errors.Errorf("transfer slot %d does not match state slot %d", t.Slot, st.Slot())
	}

	sender, err := st.ValidatorAtIndex(t.Sender)
	if err != nil {
		return err
	}
	currentEpoch := helpers.CurrentEpoch(st.Slot())
	eligible := sender.ActivationEligibilityEpoch == cfg.FarFutureEpoch ||
		currentEpoch >= sender.WithdrawableEpoch ||
		uint64(t.Amount)+uint64(t.Fee)+uint64(cfg.MaxEffectiveBalance) <= uint64(senderBalance)
	if !eligible {
		return errors.Errorf("sender %d is not eligible to transfer", t.Sender)
	}

	pubkeyHash := transferHasher.Hash(t.Pubkey[:])
	var wantCredentials [32]byte
	wantCredentials[0] = blsWithdrawalPrefix
	copy(wantCredentials[1:], pubkeyHash[1:])
	if sender.WithdrawalCredentials != wantCredentials {
		return errors.New("transfer pubkey does not match sender withdrawal_credentials")
	}

	domain := helpers.Domain(st.Fork(), currentEpoch, cfg.DomainTransfer)
	objectRoot, err := t.SigningRoot()
	if err != nil {
		return err
	}
	signingRoot, err := helpers.ComputeSigningRoot(objectRoot, domain)
	if err != nil {
		return err
	}
	pub, err := bls.PublicKeyFromBytes(t.Pubkey[:])
	if err != nil {
		return err
	}
	sig, err := bls.SignatureFromBytes(t.Signature[:])
	if err != nil {
		return err
	}
	valid, err := bls.Verify(pub, signingRoot[:], sig)
	if err != nil {
		return err
	}
	if !valid {
		return errors.New("invalid transfer signature")
	}

	if err := helpers.DecreaseBalance(st, t.Sender, t.Amount.Add(t.Fee)); err != nil {
		return err
	}
	if err := helpers.IncreaseBalance(st, t.Recipient, t.Amount); err != nil {
		return err
	}
	proposerIndex, err := helpers.BeaconProposerIndex(st)
	if err != nil {
		return err
	}
	if err := helpers.IncreaseBalance(st, proposerIndex, t.Fee); err != nil {
		return err
	}

	newSenderBalance, err := st.BalanceAtIndex(t.Sender)
	if err != nil {
		return err
	}
	if newSenderBalance > 0 && newSenderBalance < cfg.MinDepositAmount {
		return errors.New("transfer leaves sender balance in the dust range")
	}
	newRecipientBalance, err := st.BalanceAtIndex(t.Recipient)
	if err != nil {
		return err
	}
	if newRecipientBalance > 0 && newRecipientBalance < cfg.MinDepositAmount {
		return errors.New("transfer leaves recipient balance in the dust range")
	}
	return nil
}
