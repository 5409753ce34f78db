package utils

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ squads.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Checker) (_ *squads.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Deliverer) (_ *squads.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
