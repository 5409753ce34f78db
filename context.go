package squads

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/zcombinatorio/squads/errors"
)

// Context is just the standard context, with helpers below to read and
// write the values the engine cares about: height, block time, chain id
// and the logger. Extensions may add their own keys.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyChainID
	contextKeyLogger
)

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the ledger height for the Context.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current ledger height, ok is false if none set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the commit time of the transition being evaluated.
// This is the only time source the engine is allowed to observe, so that
// every party replaying a transition computes the same result.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// BlockTime returns the timestamp of the transition being evaluated.
// An error is returned for a context without the time set.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return val, nil
}

// WithChainID sets the chain id for the Context. The chain id is part of
// every signature payload, so a submission cannot be replayed on another
// chain.
func WithChainID(ctx Context, chainID string) Context {
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the context, or an empty string.
func GetChainID(ctx Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	return val
}

// WithLogger sets the logger this Context uses.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none
// was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
