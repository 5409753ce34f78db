package token

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
	"github.com/zcombinatorio/squads/x"
)

const (
	creationCost int64 = 300
	transferCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r squads.Registry, auth x.Authenticator, ctrl Controller) {
	mints := NewMintBucket()
	r.Handle(&CreateMintMsg{}, createMintHandler{auth: auth, mints: mints})
	r.Handle(&TransferMsg{}, transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintToMsg{}, mintToHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetAuthorityMsg{}, setAuthorityHandler{auth: auth, ctrl: ctrl})
}

type createMintHandler struct {
	auth  x.Authenticator
	mints orm.ModelBucket
}

var _ squads.Handler = createMintHandler{}

func (h createMintHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: creationCost}, nil
}

func (h createMintHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	mint := Mint{
		Authority: &msg.Authority,
		Decimals:  msg.Decimals,
	}
	if err := h.mints.Put(db, msg.MintKey.Bytes(), &mint); err != nil {
		return nil, err
	}
	return &squads.DeliverResult{Data: msg.MintKey.Bytes()}, nil
}

func (h createMintHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasSigner(ctx, msg.MintKey) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint key did not sign")
	}
	if h.mints.Has(db, msg.MintKey.Bytes()) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", msg.MintKey)
	}
	return &msg, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ squads.Handler = transferHandler{}

func (h transferHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: transferCost}, nil
}

func (h transferHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Mint, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{}
	res.Tags = append(res.Tags, squads.Pair("sender", msg.Source.String()))
	return res, nil
}

func (h transferHandler) validate(ctx squads.Context, tx squads.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasSigner(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner did not sign")
	}
	return &msg, nil
}

type mintToHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ squads.Handler = mintToHandler{}

func (h mintToHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: transferCost}, nil
}

func (h mintToHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MintTo(db, msg.Mint, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &squads.DeliverResult{}, nil
}

func (h mintToHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*MintToMsg, error) {
	var msg MintToMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	mint, err := h.ctrl.Mint(db, msg.Mint)
	if err != nil {
		return nil, err
	}
	if mint.Authority == nil {
		return nil, errors.Wrap(errors.ErrImmutable, "issuance is frozen")
	}
	if !h.auth.HasSigner(ctx, *mint.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority did not sign")
	}
	return &msg, nil
}

type setAuthorityHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ squads.Handler = setAuthorityHandler{}

func (h setAuthorityHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: transferCost}, nil
}

func (h setAuthorityHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetAuthority(db, msg.Mint, msg.NewAuthority); err != nil {
		return nil, err
	}
	return &squads.DeliverResult{}, nil
}

func (h setAuthorityHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*SetAuthorityMsg, error) {
	var msg SetAuthorityMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	mint, err := h.ctrl.Mint(db, msg.Mint)
	if err != nil {
		return nil, err
	}
	if mint.Authority == nil {
		return nil, errors.Wrap(errors.ErrImmutable, "authority is cleared")
	}
	if !h.auth.HasSigner(ctx, *mint.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority did not sign")
	}
	return &msg, nil
}
