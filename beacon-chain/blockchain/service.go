// Package blockchain defines the life-cycle of the lean chain at its core by
// owning the fork choice store. Blocks, votes and clock ticks are queued to a
// single goroutine that applies them to the store in arrival order, while
// readers are served from a published snapshot.
package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/async"
	"github.com/prysmaticlabs/lean/beacon-chain/core/transition"
	"github.com/prysmaticlabs/lean/beacon-chain/db"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/prysmaticlabs/lean/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

const requestQueueSize = 64

// Service represents a service that handles the internal
// logic of managing the full lean chain.
type Service struct {
	cfg    *config
	ctx    context.Context
	cancel context.CancelFunc

	// store is only touched by the run goroutine once Start returns.
	store    *forkchoice.Store
	requests chan *request

	snapshotLock sync.RWMutex
	snapshot     Snapshot
	initialized  bool

	persisted persistedView
	headFeed  event.Feed
	tickFeed  event.Feed
	ticker    slots.Ticker
}

// config options for the service.
type config struct {
	BeaconDB      db.HeadAccessDatabase
	GenesisState  *containers.State
	GenesisTime   uint64
	NumValidators uint64
	StoreOpts     []forkchoice.Option
	DisableClock  bool
}

type persistedView struct {
	head      [32]byte
	justified containers.Checkpoint
	finalized containers.Checkpoint
}

type request struct {
	kind string
	ctx  context.Context
	fn   func(ctx context.Context, store *forkchoice.Store) error
	done chan error
}

// NewService instantiates a new block service instance that will
// be registered into a running lean node.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	srv := &Service{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      &config{},
		requests: make(chan *request, requestQueueSize),
	}
	for _, opt := range opts {
		if err := opt(srv); err != nil {
			cancel()
			return nil, err
		}
	}
	return srv, nil
}

// Start a blockchain service's main event loop.
func (s *Service) Start() {
	if err := s.initializeStore(s.ctx); err != nil {
		log.WithError(err).Fatal("Could not initialize fork choice store")
	}
	go s.run()

	genesisTime := s.snapshotCopy().Config.GenesisTime
	if !s.cfg.DisableClock {
		if genesisTime == 0 {
			log.Warn("Zero genesis time, slot clock disabled")
		} else {
			cfg := params.BeaconConfig()
			s.ticker = slots.NewIntervalTicker(slots.StartTime(genesisTime, 0), cfg.SecondsPerSlot, cfg.IntervalsPerSlot)
			go s.runClock(s.ticker)
		}
	}
	async.RunEvery(s.ctx, params.BeaconConfig().SlotDuration(), s.logChainStatus)
}

// Stop the blockchain service's main event loop and associated goroutines.
func (s *Service) Stop() error {
	defer s.cancel()
	if s.ticker != nil {
		s.ticker.Done()
	}
	log.Info("Stopping blockchain service")
	return nil
}

// Status always returns nil unless there is an error condition that causes
// this service to be unhealthy.
func (s *Service) Status() error {
	if err := s.ctx.Err(); err != nil {
		return ErrServiceStopped
	}
	s.snapshotLock.RLock()
	defer s.snapshotLock.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

// run applies queued requests to the store one at a time.
func (s *Service) run() {
	for {
		select {
		case req := <-s.requests:
			requestQueueDepth.Dec()
			start := time.Now()
			err := req.fn(req.ctx, s.store)
			s.publish()
			requestLatency.WithLabelValues(req.kind).Observe(time.Since(start).Seconds())
			req.done <- err
		case <-s.ctx.Done():
			log.Debug("Context closed, exiting fork choice loop")
			return
		}
	}
}

// submit queues fn for the store owner and waits for its result.
func (s *Service) submit(ctx context.Context, kind string, fn func(context.Context, *forkchoice.Store) error) error {
	if s.ctx.Err() != nil {
		return ErrServiceStopped
	}
	req := &request{kind: kind, ctx: ctx, fn: fn, done: make(chan error, 1)}
	requestQueueDepth.Inc()
	select {
	case s.requests <- req:
	case <-ctx.Done():
		requestQueueDepth.Dec()
		return ctx.Err()
	case <-s.ctx.Done():
		requestQueueDepth.Dec()
		return ErrServiceStopped
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrServiceStopped
	}
}

func (s *Service) runClock(ticker slots.Ticker) {
	for {
		select {
		case tick := <-ticker.C():
			if err := s.ReceiveTick(s.ctx, tick.Time); err != nil {
				if errors.Is(err, forkchoice.ErrStaleTick) {
					log.WithField("time", tick.Time).Debug("Skipping stale tick")
				} else {
					log.WithError(err).WithField("slot", tick.Slot).Error("Could not process tick")
				}
				continue
			}
			s.tickFeed.Send(tick)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) initializeStore(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "blockchain.initializeStore")
	defer span.End()

	anchorBlock, anchorState, restored, err := s.loadAnchor(ctx)
	if err != nil {
		return err
	}
	store, err := forkchoice.New(anchorBlock, anchorState, s.cfg.StoreOpts...)
	if err != nil {
		return errors.Wrap(err, "could not create fork choice store")
	}
	s.store = store
	if restored {
		if err := s.replayBlocks(ctx); err != nil {
			return errors.Wrap(err, "could not replay saved blocks")
		}
	}
	s.publish()
	return nil
}

// loadAnchor returns the finalized block saved in the database, or the
// genesis block when the database is empty.
func (s *Service) loadAnchor(ctx context.Context) (*containers.Block, *containers.State, bool, error) {
	if s.cfg.BeaconDB != nil {
		cp, err := s.cfg.BeaconDB.FinalizedCheckpoint(ctx)
		if err != nil {
			return nil, nil, false, errors.Wrap(err, "could not get finalized checkpoint")
		}
		if cp.Root != params.BeaconConfig().ZeroHash {
			signed, err := s.cfg.BeaconDB.Block(ctx, cp.Root)
			if err != nil {
				return nil, nil, false, errors.Wrap(err, "could not get finalized block")
			}
			st, err := s.cfg.BeaconDB.State(ctx, cp.Root)
			if err != nil {
				return nil, nil, false, errors.Wrap(err, "could not get finalized state")
			}
			log.WithFields(logrus.Fields{
				"slot": cp.Slot,
				"root": fmt.Sprintf("%#x", bytesutil.Trunc(cp.Root[:])),
			}).Info("Restoring chain from finalized checkpoint")
			return &signed.Message, st, true, nil
		}
	}

	st := s.cfg.GenesisState
	if st == nil {
		if s.cfg.NumValidators == 0 {
			return nil, nil, false, errNoGenesis
		}
		var err error
		st, err = transition.GenesisState(s.cfg.GenesisTime, s.cfg.NumValidators)
		if err != nil {
			return nil, nil, false, errors.Wrap(err, "could not generate genesis state")
		}
	}
	blk, err := transition.GenesisBlock(st)
	if err != nil {
		return nil, nil, false, errors.Wrap(err, "could not generate genesis block")
	}
	root, err := blk.HashTreeRoot()
	if err != nil {
		return nil, nil, false, err
	}
	if s.cfg.BeaconDB != nil {
		if err := s.cfg.BeaconDB.SaveBlock(ctx, &containers.SignedBlock{Message: *blk}); err != nil {
			return nil, nil, false, errors.Wrap(err, "could not save genesis block")
		}
		if err := s.cfg.BeaconDB.SaveState(ctx, st, root); err != nil {
			return nil, nil, false, errors.Wrap(err, "could not save genesis state")
		}
		if err := s.cfg.BeaconDB.SaveGenesisBlockRoot(ctx, root); err != nil {
			return nil, nil, false, errors.Wrap(err, "could not save genesis block root")
		}
	}
	log.WithFields(logrus.Fields{
		"genesisTime":   st.Config.GenesisTime,
		"numValidators": st.Config.NumValidators,
		"root":          fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
	}).Info("Starting chain from genesis")
	return blk, st, false, nil
}

// replayBlocks imports the saved descendants of the anchor up to the saved
// head, slot by slot.
func (s *Service) replayBlocks(ctx context.Context) error {
	headRoot, err := s.cfg.BeaconDB.HeadBlockRoot(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	head, err := s.cfg.BeaconDB.Block(ctx, headRoot)
	if err != nil {
		return err
	}
	anchor, err := s.store.Block(s.store.AnchorRoot())
	if err != nil {
		return err
	}
	replayed := 0
	for slot := anchor.Slot + 1; slot <= head.Message.Slot; slot++ {
		roots, err := s.cfg.BeaconDB.BlockRootsBySlot(ctx, slot)
		if err != nil {
			return err
		}
		for _, root := range roots {
			signed, err := s.cfg.BeaconDB.Block(ctx, root)
			if err != nil {
				return err
			}
			if !s.store.HasBlock(signed.Message.ParentRoot) {
				continue
			}
			if _, err := s.store.OnBlock(ctx, &signed.Message); err != nil {
				log.WithError(err).WithField("slot", slot).Warn("Could not replay saved block")
				continue
			}
			replayed++
		}
	}
	if replayed > 0 {
		log.WithField("blocks", replayed).Info("Replayed saved blocks into fork choice")
	}
	return nil
}

// publish refreshes the read snapshot from the store, notifies head
// subscribers and persists what changed.
func (s *Service) publish() {
	snap := newSnapshot(s.store)

	s.snapshotLock.Lock()
	old := s.snapshot
	wasInitialized := s.initialized
	s.snapshot = snap
	s.initialized = true
	s.snapshotLock.Unlock()

	currentSlotGauge.Set(float64(s.store.CurrentSlot()))
	s.persist(snap)

	if !wasInitialized || old.Head != snap.Head {
		ev := &HeadEvent{
			Slot:      snap.HeadSlot,
			Root:      snap.Head,
			OldRoot:   old.Head,
			Justified: snap.Justified,
			Finalized: snap.Finalized,
		}
		logHeadChanged(ev)
		s.headFeed.Send(ev)
	}
}

func (s *Service) persist(snap Snapshot) {
	beaconDB := s.cfg.BeaconDB
	if beaconDB == nil {
		return
	}
	// Cancelled requests still have their result written.
	ctx := context.Background()
	if snap.Head != s.persisted.head {
		if err := beaconDB.SaveHeadBlockRoot(ctx, snap.Head); err != nil {
			log.WithError(err).Error("Could not save head block root")
		} else {
			s.persisted.head = snap.Head
		}
	}
	if snap.Justified != s.persisted.justified {
		cp := snap.Justified
		if err := beaconDB.SaveJustifiedCheckpoint(ctx, &cp); err != nil {
			log.WithError(err).Error("Could not save justified checkpoint")
		} else {
			s.persisted.justified = cp
		}
	}
	if snap.Finalized != s.persisted.finalized {
		cp := snap.Finalized
		if err := beaconDB.SaveFinalizedCheckpoint(ctx, &cp); err != nil {
			log.WithError(err).Error("Could not save finalized checkpoint")
		} else {
			s.persisted.finalized = cp
		}
	}
}

func (s *Service) logChainStatus() {
	snap := s.snapshotCopy()
	log.WithFields(logrus.Fields{
		"currentSlot":   slots.CurrentSlot(snap.Config.GenesisTime),
		"headSlot":      snap.HeadSlot,
		"headRoot":      fmt.Sprintf("%#x", bytesutil.Trunc(snap.Head[:])),
		"justifiedSlot": snap.Justified.Slot,
		"finalizedSlot": snap.Finalized.Slot,
		"blocks":        snap.BlockCount,
	}).Info("Chain status")
}

// CurrentSlot of the fork choice clock.
func (s *Service) CurrentSlot() primitives.Slot {
	return s.snapshotCopy().CurrentSlot
}
