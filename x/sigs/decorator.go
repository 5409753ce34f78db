/*
Package sigs provides basic authentication middleware to verify the
signatures on a submission and maintain per-key sequences for replay
protection.
*/
package sigs

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

const (
	signatureVerifyCost = 500
)

// Decorator verifies the signatures and adds them to the context.
type Decorator struct {
	allowMissingSigs bool
}

var _ squads.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator, which mixes
// the chainID into the sign bytes and requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Checker) (*squads.CheckResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	chainID := squads.GetChainID(ctx)
	signers, err := VerifyTxSignatures(store, stx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	ctx = withSigners(ctx, signers)

	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	// Signature validation is the most expensive step, so account for it
	// proportionally. Only valid signatures are charged.
	res.GasAllocated += int64(len(signers) * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Deliverer) (*squads.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	chainID := squads.GetChainID(ctx)
	signers, err := VerifyTxSignatures(store, stx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	ctx = withSigners(ctx, signers)
	return next.Deliver(ctx, store, tx)
}
