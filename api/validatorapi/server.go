// Package validatorapi implements spec.md §6's validator REST surface:
// the handler contracts an external validator client polls for duties
// and pushes proposed blocks through. Grounded on the teacher's
// api/server/http-rest.Server (a gorilla/mux router wrapped in an
// http.Server that satisfies runtime.Service), trimmed of the teacher's
// CORS middleware and web-UI catch-all route since this repository's
// surface is a fixed, small handler set rather than a generic gateway.
package validatorapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prylabs-zero/beacon-core/beacon-chain/state"
	"github.com/prylabs-zero/beacon-core/consensus-types/eth"
	"github.com/prylabs-zero/beacon-core/consensus-types/primitives"
	"github.com/prylabs-zero/beacon-core/validator"
)

var log = logrus.WithField("prefix", "validatorapi")

// ChainInfo is the slice of beacon-chain/blockchain.Service the API needs
// to answer /node/* and to build candidate blocks/duties.
type ChainInfo interface {
	CurrentSlot() primitives.Slot
	GenesisTime() time.Time
	HeadRoot() [32]byte
	HeadState(slot primitives.Slot) (*state.BeaconState, error)
}

// SyncChecker reports whether the node is still catching up, gating
// every duty-affecting endpoint per spec.md §6's 503-while-syncing rule.
type SyncChecker interface {
	Syncing() bool
}

// BlockImporter accepts a signed block for immediate validation and
// import, beacon-chain/blockchain.Service.ProcessBlock in production.
type BlockImporter interface {
	ProcessBlock(signedBlock *eth.SignedBeaconBlock) error
}

// BlockBroadcaster republishes a block that this node chose not to
// import itself (e.g. gossip-only relay). Optional: a Server with none
// configured always answers an import failure with 400.
type BlockBroadcaster interface {
	Broadcast(signedBlock *eth.SignedBeaconBlock) error
}

// Config bundles Server's constructor dependencies.
type Config struct {
	Addr        string
	Chain       ChainInfo
	SyncChecker SyncChecker
	Pools       *validator.Pools
	Importer    BlockImporter
	Broadcaster BlockBroadcaster
	Graffiti    [32]byte
}

// Server serves the validator REST surface over HTTP, satisfying
// runtime.Service so cmd/beacon-node can register it alongside every
// other long-running component.
type Server struct {
	cfg    *Config
	router *mux.Router
	server *http.Server

	ctx          context.Context
	cancel       context.CancelFunc
	startFailure error
}

// New constructs a Server around cfg, routes registered but not yet
// listening.
func New(ctx context.Context, cfg *Config) (*Server, error) {
	if cfg.Chain == nil || cfg.SyncChecker == nil || cfg.Pools == nil || cfg.Importer == nil {
		return nil, errors.New("validatorapi: Chain, SyncChecker, Pools and Importer are required")
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		ctx:    ctx,
		cancel: cancel,
	}
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/node/version", s.GetVersion).Methods(http.MethodGet)
	s.router.HandleFunc("/node/genesis_time", s.GetGenesisTime).Methods(http.MethodGet)
	s.router.HandleFunc("/node/syncing", s.GetSyncing).Methods(http.MethodGet)
	s.router.HandleFunc("/validator/duties", s.GetDuties).Methods(http.MethodGet)
	s.router.HandleFunc("/validator/block", s.GetBlock).Methods(http.MethodGet)
	s.router.HandleFunc("/validator/block", s.PostBlock).Methods(http.MethodPost)
}

// Start begins serving HTTP traffic in the background.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.cfg.Addr).Info("starting validator API server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("validator API server failed")
			s.startFailure = err
		}
	}()
}

// Status reports the most recent listen failure, if any.
func (s *Server) Status() error {
	return s.startFailure
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	s.cancel()
	return err
}
