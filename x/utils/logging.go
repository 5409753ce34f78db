package utils

import (
	"time"

	"github.com/zcombinatorio/squads"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ squads.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Checker) (*squads.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Deliverer) (*squads.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx squads.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := squads.GetLogger(ctx).With("duration", delta/time.Microsecond)

	if err != nil {
		logger = logger.With("err", err)
		logger.Error(msg)
		return
	}

	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}
