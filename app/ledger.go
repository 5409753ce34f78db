package app

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/zcombinatorio/squads"
)

// Ledger owns the committed state and applies signed transactions to it
// one at a time. It stands in for the external consensus store: all
// submissions funnel through a single writer and each delivery is exactly
// one atomic transition. A delivery that returns an error leaves the
// committed state untouched, so the caller can rebuild against the newest
// state and resubmit.
type Ledger struct {
	db      squads.CacheableKVStore
	handler squads.Handler
	chainID string
	logger  log.Logger
	height  int64
}

// NewLedger wires the committed store with the full handler stack.
func NewLedger(db squads.CacheableKVStore, handler squads.Handler, chainID string) *Ledger {
	return &Ledger{
		db:      db,
		handler: handler,
		chainID: chainID,
		logger:  squads.DefaultLogger,
	}
}

// WithLogger sets the logger every applied transaction reports to.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger
	return l
}

// ChainID returns the chain this ledger commits to.
func (l *Ledger) ChainID() string {
	return l.chainID
}

// Height returns the number of transitions committed so far.
func (l *Ledger) Height() int64 {
	return l.height
}

// Check runs the pre-flight validation of the transaction against the
// latest committed state. Writes are always discarded.
func (l *Ledger) Check(now time.Time, tx squads.Tx) (*squads.CheckResult, error) {
	ctx := l.context(now)
	cache := l.db.CacheWrap()
	defer cache.Discard()
	return l.handler.Check(ctx, cache, tx)
}

// Deliver applies the transaction as one atomic transition evaluated at
// the given commit time. Either every write of the transition becomes
// part of the committed state, or none does.
func (l *Ledger) Deliver(now time.Time, tx squads.Tx) (*squads.DeliverResult, error) {
	ctx := l.context(now)
	cache := l.db.CacheWrap()
	res, err := l.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	cache.Write()
	l.height++
	return res, nil
}

// CommittedState exposes a read-only view of the latest committed state,
// which is what account-fetch services serve to callers.
func (l *Ledger) CommittedState() squads.ReadOnlyKVStore {
	return readOnly{l.db}
}

func (l *Ledger) context(now time.Time) squads.Context {
	ctx := context.Background()
	ctx = squads.WithChainID(ctx, l.chainID)
	ctx = squads.WithHeight(ctx, l.height+1)
	ctx = squads.WithBlockTime(ctx, now)
	ctx = squads.WithLogger(ctx, l.logger)
	return ctx
}

// readOnly hides the write methods of a KVStore.
type readOnly struct {
	squads.ReadOnlyKVStore
}

var _ squads.ReadOnlyKVStore = readOnly{}
