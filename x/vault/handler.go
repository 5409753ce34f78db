package vault

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/x"
)

const transferCost int64 = 100

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r squads.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&TransferMsg{}, transferHandler{auth: auth, ctrl: ctrl})
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
	if err := h.ctrl.Move(db, msg.Source, msg.Destination, msg.Lamports); err != nil {
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
		return nil, errors.Wrap(errors.ErrUnauthorized, "source did not sign")
	}
	return &msg, nil
}
