package spendlimit

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
	"github.com/zcombinatorio/squads/x"
	"github.com/zcombinatorio/squads/x/registry"
	"github.com/zcombinatorio/squads/x/token"
	"github.com/zcombinatorio/squads/x/vault"
)

const (
	creationCost int64 = 200
	useCost      int64 = 150
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r squads.Registry, auth x.Authenticator, funds vault.Controller, tokens token.Controller) {
	limits := NewBucket()
	registries := registry.NewBucket()
	r.Handle(&CreateMsg{}, createHandler{auth: auth, limits: limits, registries: registries})
	r.Handle(&RemoveMsg{}, removeHandler{auth: auth, limits: limits, registries: registries})
	r.Handle(&UseMsg{}, useHandler{auth: auth, limits: limits, funds: funds, tokens: tokens})
}

// authorizeConfig allows the registry's config authority, or the registry
// identity itself as injected by the execution dispatcher.
func authorizeConfig(ctx squads.Context, auth x.Authenticator, regAddr solana.PublicKey, reg *registry.Registry) error {
	if reg.IsAutonomous() {
		if !auth.HasSigner(ctx, regAddr) {
			return errors.Wrap(errors.ErrUnauthorized, "autonomous registry accepts config changes only through an approved transaction")
		}
		return nil
	}
	if !auth.HasSigner(ctx, reg.ConfigAuthority) {
		return errors.Wrap(errors.ErrUnauthorized, "config authority did not sign")
	}
	return nil
}

type createHandler struct {
	auth       x.Authenticator
	limits     orm.ModelBucket
	registries orm.ModelBucket
}

var _ squads.Handler = createHandler{}

func (h createHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: creationCost}, nil
}

func (h createHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, addr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := squads.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	_, bump, err := derive.SpendingLimit(derive.ProgramID, msg.Registry, msg.CreateKey)
	if err != nil {
		return nil, err
	}

	members := append([]solana.PublicKey{}, msg.Members...)
	SortKeys(members)
	limit := SpendingLimit{
		Registry:        msg.Registry,
		CreateKey:       msg.CreateKey,
		VaultIndex:      msg.VaultIndex,
		Mint:            msg.Mint,
		Amount:          msg.Amount,
		Period:          msg.Period,
		RemainingAmount: msg.Amount,
		LastReset:       now.Unix(),
		Bump:            bump,
		Members:         members,
		Destinations:    msg.Destinations,
	}
	if err := h.limits.Put(db, addr.Bytes(), &limit); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("spendlimit", addr.String()))
	return res, nil
}

func (h createHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*CreateMsg, solana.PublicKey, error) {
	var msg CreateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, solana.PublicKey{}, err
	}
	var reg registry.Registry
	if err := h.registries.One(db, msg.Registry.Bytes(), &reg); err != nil {
		return nil, solana.PublicKey{}, errors.Wrapf(err, "registry %s", msg.Registry)
	}
	if err := authorizeConfig(ctx, h.auth, msg.Registry, &reg); err != nil {
		return nil, solana.PublicKey{}, err
	}
	addr, _, err := derive.SpendingLimit(derive.ProgramID, msg.Registry, msg.CreateKey)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	if h.limits.Has(db, addr.Bytes()) {
		return nil, solana.PublicKey{}, errors.Wrapf(errors.ErrDuplicate, "spending limit %s", addr)
	}
	return &msg, addr, nil
}

type removeHandler struct {
	auth       x.Authenticator
	limits     orm.ModelBucket
	registries orm.ModelBucket
}

var _ squads.Handler = removeHandler{}

func (h removeHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: useCost}, nil
}

func (h removeHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.limits.Delete(db, msg.SpendingLimit.Bytes()); err != nil {
		return nil, err
	}
	return &squads.DeliverResult{Data: msg.SpendingLimit.Bytes()}, nil
}

func (h removeHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*RemoveMsg, error) {
	var msg RemoveMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	var limit SpendingLimit
	if err := h.limits.One(db, msg.SpendingLimit.Bytes(), &limit); err != nil {
		return nil, err
	}
	var reg registry.Registry
	if err := h.registries.One(db, limit.Registry.Bytes(), &reg); err != nil {
		return nil, errors.Wrapf(err, "registry %s", limit.Registry)
	}
	if err := authorizeConfig(ctx, h.auth, limit.Registry, &reg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type useHandler struct {
	auth   x.Authenticator
	limits orm.ModelBucket
	funds  vault.Controller
	tokens token.Controller
}

var _ squads.Handler = useHandler{}

func (h useHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg UseMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: useCost}, nil
}

// Deliver runs the checks in a fixed order: membership, destination,
// rollover, budget. Only then funds move.
func (h useHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg UseMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	var limit SpendingLimit
	if err := h.limits.One(db, msg.SpendingLimit.Bytes(), &limit); err != nil {
		return nil, err
	}

	var member solana.PublicKey
	var found bool
	for _, signer := range h.auth.GetSigners(ctx) {
		if limit.HasMember(signer) {
			member, found = signer, true
			break
		}
	}
	if !found {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer may draw from this limit")
	}
	if !limit.AllowsDestination(msg.Destination) {
		return nil, errors.Wrapf(errors.ErrDestination, "%s is not a permitted destination", msg.Destination)
	}

	now, err := squads.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	limit.Rollover(now)
	if err := limit.Draw(msg.Amount); err != nil {
		return nil, err
	}

	vaultAddr, _, err := derive.Vault(derive.ProgramID, limit.Registry, limit.VaultIndex)
	if err != nil {
		return nil, err
	}
	if limit.IsNative() {
		err = h.funds.Move(db, vaultAddr, msg.Destination, msg.Amount)
	} else {
		err = h.tokens.Transfer(db, limit.Mint, vaultAddr, msg.Destination, msg.Amount)
	}
	if err != nil {
		return nil, err
	}

	if err := h.limits.Put(db, msg.SpendingLimit.Bytes(), &limit); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: msg.SpendingLimit.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("spender", member.String()))
	return res, nil
}
