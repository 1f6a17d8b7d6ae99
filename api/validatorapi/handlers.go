package validatorapi

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/prylabs-zero/beacon-core/beacon-chain/core/helpers"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
	"github.com/prylabs-zero/beacon-core/shared/version"
	"github.com/prylabs-zero/beacon-core/validator"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// GetVersion implements GET /node/version.
func (s *Server) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.GetVersion()})
}

// GetGenesisTime implements GET /node/genesis_time.
func (s *Server) GetGenesisTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]uint64{"time": uint64(s.cfg.Chain.GenesisTime().Unix())})
}

// GetSyncing implements GET /node/syncing.
func (s *Server) GetSyncing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"syncing": s.cfg.SyncChecker.Syncing()})
}

type dutyResponse struct {
	Pubkey          string          `json:"pubkey"`
	ProposalSlot    *primitives.Slot `json:"proposal_slot,omitempty"`
	AttestationSlot primitives.Slot `json:"attestation_slot"`
	CommitteeIndex  primitives.CommitteeIndex `json:"committee_index"`
}

// GetDuties implements GET /validator/duties?epoch&pubkeys[].
func (s *Server) GetDuties(w http.ResponseWriter, r *http.Request) {
	if s.cfg.SyncChecker.Syncing() {
		writeError(w, http.StatusServiceUnavailable, "node is syncing")
		return
	}

	rawEpoch := r.URL.Query().Get("epoch")
	if rawEpoch == "" {
		writeError(w, http.StatusBadRequest, "missing epoch")
		return
	}
	epochUint, err := strconv.ParseUint(rawEpoch, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed epoch")
		return
	}
	epoch := primitives.Epoch(epochUint)

	currentEpoch := helpers.CurrentEpoch(s.cfg.Chain.CurrentSlot())
	if epoch > currentEpoch+1 {
		writeError(w, http.StatusNotAcceptable, "epoch unavailable")
		return
	}

	rawPubkeys := r.URL.Query()["pubkeys[]"]
	if len(rawPubkeys) == 0 {
		writeError(w, http.StatusBadRequest, "missing pubkeys[]")
		return
	}
	pubkeys := make([][48]byte, 0, len(rawPubkeys))
	for _, raw := range rawPubkeys {
		decoded, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil || len(decoded) != 48 {
			writeError(w, http.StatusBadRequest, "malformed pubkey "+raw)
			return
		}
		var pk [48]byte
		copy(pk[:], decoded)
		pubkeys = append(pubkeys, pk)
	}

	headState, err := s.cfg.Chain.HeadState(helpers.StartSlot(epoch))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load state for epoch: "+err.Error())
		return
	}

	want := make(map[primitives.ValidatorIndex]bool, len(pubkeys))
	indexToPubkey := make(map[primitives.ValidatorIndex]string, len(pubkeys))
	for _, pk := range pubkeys {
		idx, ok := headState.ValidatorIndexByPubkey(pk)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown pubkey "+hex.EncodeToString(pk[:]))
			return
		}
		want[idx] = true
		indexToPubkey[idx] = hex.EncodeToString(pk[:])
	}

	proposerDuties, err := validator.ComputeProposerDuties(headState, epoch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not compute proposer duties: "+err.Error())
		return
	}
	attesterDuties, err := validator.ComputeAttesterDuties(headState, epoch, want)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not compute attester duties: "+err.Error())
		return
	}

	proposalSlots := make(map[primitives.ValidatorIndex]primitives.Slot)
	for _, d := range proposerDuties {
		if want[d.Validator] {
			proposalSlots[d.Validator] = d.Slot
		}
	}

	out := make([]dutyResponse, 0, len(attesterDuties))
	for _, d := range attesterDuties {
		resp := dutyResponse{
			Pubkey:          indexToPubkey[d.Validator],
			AttestationSlot: d.Slot,
			CommitteeIndex:  d.CommitteeIndex,
		}
		if slot, ok := proposalSlots[d.Validator]; ok {
			resp.ProposalSlot = &slot
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBlock implements GET /validator/block?slot&randao_reveal: it returns
// an unsigned candidate block's raw SSZ bytes for the caller to sign and
// resubmit via POST.
func (s *Server) GetBlock(w http.ResponseWriter, r *http.Request) {
	if s.cfg.SyncChecker.Syncing() {
		writeError(w, http.StatusServiceUnavailable, "node is syncing")
		return
	}

	rawSlot := r.URL.Query().Get("slot")
	slotUint, err := strconv.ParseUint(rawSlot, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed slot")
		return
	}
	slot := primitives.Slot(slotUint)

	rawReveal := r.URL.Query().Get("randao_reveal")
	revealBytes, err := hex.DecodeString(strings.TrimPrefix(rawReveal, "0x"))
	if err != nil || len(revealBytes) != 96 {
		writeError(w, http.StatusBadRequest, "malformed randao_reveal")
		return
	}
	var randaoReveal [96]byte
	copy(randaoReveal[:], revealBytes)

	headState, err := s.cfg.Chain.HeadState(slot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load head state: "+err.Error())
		return
	}

	block, err := validator.BuildBlock(headState, s.cfg.Chain.HeadRoot(), slot, randaoReveal, s.cfg.Pools, s.cfg.Graffiti)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not build block: "+err.Error())
		return
	}

	data, err := ssz.Marshal(block)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not encode block: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PostBlock implements POST /validator/block: the body is a raw SSZ
// eth.SignedBeaconBlock. A successful local import answers 200; if
// import fails but a broadcaster is configured, the block is relayed
// unvalidated and answered 202; any decode failure is 400.
func (s *Server) PostBlock(w http.ResponseWriter, r *http.Request) {
	if s.cfg.SyncChecker.Syncing() {
		writeError(w, http.StatusServiceUnavailable, "node is syncing")
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body: "+err.Error())
		return
	}

	signed := &eth.SignedBeaconBlock{}
	decoded, err := ssz.Unmarshal(signed.SSZSchema(), data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed block: "+err.Error())
		return
	}
	if err := signed.LoadSSZ(decoded); err != nil {
		writeError(w, http.StatusBadRequest, "malformed block: "+err.Error())
		return
	}

	if err := s.cfg.Importer.ProcessBlock(signed); err != nil {
		if s.cfg.Broadcaster != nil {
			if bErr := s.cfg.Broadcaster.Broadcast(signed); bErr == nil {
				writeJSON(w, http.StatusAccepted, nil)
				return
			}
		}
		writeError(w, http.StatusBadRequest, "could not import block: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
