package main

import (
	"context"
	"encoding/hex"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/prylabs-zero/beacon-core/api/validatorapi"
	"github.com/prylabs-zero/beacon-core/beacon-chain/blockchain"
	"github.com/prylabs-zero/beacon-core/beacon-chain/blockchain/statefeed"
	"github.com/prylabs-zero/beacon-core/beacon-chain/db/kv"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/attestations"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/slashings"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/transfers"
	"github.com/prylabs-zero/beacon-core/beacon-chain/operations/voluntaryexits"
	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/beacon-chain/sync"
	"github.com/prylabs-zero/beacon-core/crypto/bls"
	"github.com/prylabs-zero/beacon-core/encoding/ssz"
	"github.com/prylabs-zero/beacon-core/monitoring/prometheus"
	"github.com/prylabs-zero/beacon-core/runtime"
	"github.com/prylabs-zero/beacon-core/shared/cmd"
	"github.com/prylabs-zero/beacon-core/validator"
	"github.com/prylabs-zero/beacon-core/validator/slashingprotection"
)

// BeaconNode is the top-level struct wiring every long-running component
// of a beacon node together, the way the teacher's beacon-chain/node
// package's BeaconNode does, trimmed to the subset of services this
// repository implements: no p2p, no powchain, no gRPC gateway.
type BeaconNode struct {
	cliCtx   *cli.Context
	ctx      context.Context
	cancel   context.CancelFunc
	services *runtime.ServiceRegistry

	db *kv.Store

	attestationPool *attestations.Pool
	slashingPool    *slashings.Pool
	exitPool        *voluntaryexits.Pool
	transferPool    *transfers.Pool

	stateNotifier *statefeed.Notifier
	chain         *blockchain.Service
	sync          *sync.Service
}

// New builds every service New's caller is about to register and returns
// a BeaconNode ready for Start.
func New(cliCtx *cli.Context) (*BeaconNode, error) {
	ctx, cancel := context.WithCancel(cliCtx.Context)

	store, err := kv.NewKVStore()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not initialize store")
	}

	b := &BeaconNode{
		cliCtx:          cliCtx,
		ctx:             ctx,
		cancel:          cancel,
		services:        runtime.NewServiceRegistry(),
		db:              store,
		attestationPool: attestations.NewPool(),
		slashingPool:    slashings.NewPool(),
		exitPool:        voluntaryexits.NewPool(),
		transferPool:    transfers.NewPool(),
		stateNotifier:   statefeed.NewNotifier(),
	}

	if err := b.registerBlockchainService(); err != nil {
		return nil, err
	}
	if err := b.registerSyncService(); err != nil {
		return nil, err
	}
	if err := b.startChain(); err != nil {
		return nil, err
	}
	if err := b.registerValidatorAPI(); err != nil {
		return nil, err
	}
	if err := b.registerValidatorScheduler(); err != nil {
		return nil, err
	}
	if err := b.registerPrometheus(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BeaconNode) registerBlockchainService() error {
	b.chain = blockchain.NewService(b.ctx, &blockchain.Config{
		Database:          b.db,
		AttestationPool:   b.attestationPool,
		SlashingPool:      b.slashingPool,
		VoluntaryExitPool: b.exitPool,
		TransferPool:      b.transferPool,
		StateNotifier:     b.stateNotifier,
	})
	return b.services.RegisterService(b.chain)
}

func (b *BeaconNode) registerSyncService() error {
	b.sync = sync.NewService(b.ctx, &sync.Config{
		Acceptor: b.chain,
	})
	return b.services.RegisterService(b.sync)
}

// startChain seeds the store and fork choice from a genesis state file,
// if one was given, or resumes from whatever head is already on file.
// The in-memory db.kv.Store never survives a restart in this
// repository's backend, so resumption is only meaningful across
// StartFromGenesis calls within a single process lifetime's test
// harnesses; a real on-disk backend would make StartFromSavedHead the
// common path instead.
func (b *BeaconNode) startChain() error {
	genesisPath := b.cliCtx.String(cmd.GenesisStateFlag.Name)
	if genesisPath == "" {
		return b.chain.StartFromSavedHead()
	}
	raw, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "could not read genesis state file")
	}
	genesisState := state.New()
	decoded, err := ssz.Unmarshal(genesisState.SSZSchema(), raw)
	if err != nil {
		return errors.Wrap(err, "could not decode genesis state")
	}
	if err := genesisState.LoadSSZ(decoded); err != nil {
		return errors.Wrap(err, "could not load genesis state")
	}
	return b.chain.StartFromGenesis(genesisState)
}

func (b *BeaconNode) registerValidatorAPI() error {
	var graffiti [32]byte
	copy(graffiti[:], b.cliCtx.String(graffitiFlag.Name))

	server, err := validatorapi.New(b.ctx, &validatorapi.Config{
		Addr:        b.cliCtx.String(cmd.ValidatorAPIAddrFlag.Name),
		Chain:       b.chain,
		SyncChecker: b.sync,
		Pools: &validator.Pools{
			Attestations:   b.attestationPool,
			Slashings:      b.slashingPool,
			VoluntaryExits: b.exitPool,
			Transfers:      b.transferPool,
		},
		Importer: b.chain,
		Graffiti: graffiti,
	})
	if err != nil {
		return errors.Wrap(err, "could not initialize validator API")
	}
	return b.services.RegisterService(server)
}

func (b *BeaconNode) registerValidatorScheduler() error {
	rawKeys := b.cliCtx.StringSlice(validatorKeysFlag.Name)
	if len(rawKeys) == 0 {
		return nil
	}

	keys := make(map[[48]byte]bls.SecretKey, len(rawKeys))
	for _, raw := range rawKeys {
		decoded, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return errors.Wrapf(err, "malformed validator key %q", raw)
		}
		sk, err := bls.SecretKeyFromBytes(decoded)
		if err != nil {
			return errors.Wrapf(err, "invalid validator key %q", raw)
		}
		var pk [48]byte
		copy(pk[:], sk.PublicKey().Marshal())
		keys[pk] = sk
	}

	signer := validator.NewLocalSigner(keys)
	var graffiti [32]byte
	copy(graffiti[:], b.cliCtx.String(graffitiFlag.Name))

	engine := validator.NewEngine(
		b.chain,
		&validator.Pools{
			Attestations:   b.attestationPool,
			Slashings:      b.slashingPool,
			VoluntaryExits: b.exitPool,
			Transfers:      b.transferPool,
		},
		signer,
		slashingprotection.NewHistory(),
		b.chain,
		b.attestationPool,
		graffiti,
	)
	scheduler := validator.NewScheduler(engine, signer, b.chain, b.chain.GenesisTime())
	return b.services.RegisterService(scheduler)
}

func (b *BeaconNode) registerPrometheus() error {
	addr := b.cliCtx.String(cmd.MonitoringAddrFlag.Name)
	return b.services.RegisterService(prometheus.New(addr, b.services))
}

// Start kicks off every registered service and returns once they are all
// launched; main.go then waits for an interrupt signal and calls Close.
func (b *BeaconNode) Start() {
	log.Info("starting beacon node")
	b.services.StartAll()
}

// Close gracefully stops every registered service in reverse
// registration order and releases the store.
func (b *BeaconNode) Close() {
	log.Info("stopping beacon node")
	b.services.StopAll()
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("could not close database")
	}
	b.cancel()
}
