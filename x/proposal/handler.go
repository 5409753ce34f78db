package proposal

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
	"github.com/zcombinatorio/squads/x"
	"github.com/zcombinatorio/squads/x/registry"
)

const (
	creationCost int64 = 200
	voteCost     int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r squads.Registry, auth x.Authenticator) {
	b := handlerBase{
		auth:       auth,
		proposals:  NewBucket(),
		registries: registry.NewBucket(),
	}
	r.Handle(&CreateMsg{}, createHandler{b})
	r.Handle(&ActivateMsg{}, activateHandler{b})
	r.Handle(&ApproveMsg{}, approveHandler{b})
	r.Handle(&RejectMsg{}, rejectHandler{b})
	r.Handle(&CancelMsg{}, cancelHandler{b})
}

type handlerBase struct {
	auth       x.Authenticator
	proposals  orm.ModelBucket
	registries orm.ModelBucket
}

// loadRegistry fetches the registry and the member matching one of the
// submission signers holding the required permission.
func (b handlerBase) loadRegistry(ctx squads.Context, db squads.ReadOnlyKVStore, addr solana.PublicKey, perm registry.Permissions) (*registry.Registry, solana.PublicKey, error) {
	var reg registry.Registry
	if err := b.registries.One(db, addr.Bytes(), &reg); err != nil {
		return nil, solana.PublicKey{}, errors.Wrapf(err, "registry %s", addr)
	}
	for _, signer := range b.auth.GetSigners(ctx) {
		if reg.HasPermission(signer, perm) {
			return &reg, signer, nil
		}
	}
	return nil, solana.PublicKey{}, errors.Wrap(errors.ErrUnauthorized, "no signer holds the required permission")
}

// loadProposal fetches the proposal for the given transaction index along
// with its derived address.
func (b handlerBase) loadProposal(db squads.ReadOnlyKVStore, regAddr solana.PublicKey, index uint64) (*Proposal, solana.PublicKey, error) {
	addr, _, err := derive.Proposal(derive.ProgramID, regAddr, index)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	var prop Proposal
	if err := b.proposals.One(db, addr.Bytes(), &prop); err != nil {
		return nil, solana.PublicKey{}, errors.Wrapf(err, "proposal %d", index)
	}
	return &prop, addr, nil
}

// assertFresh rejects votes on transactions voided by a configuration
// change.
func assertFresh(reg *registry.Registry, index uint64) error {
	if index <= reg.StaleTransactionIndex {
		return errors.Wrapf(errors.ErrStale, "transaction %d at or below cutoff %d", index, reg.StaleTransactionIndex)
	}
	return nil
}

type createHandler struct {
	handlerBase
}

var _ squads.Handler = createHandler{}

func (h createHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: creationCost}, nil
}

func (h createHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := squads.BlockTime(ctx)
	if err != nil {
		return nil, err
	}

	addr, bump, err := derive.Proposal(derive.ProgramID, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	prop := Proposal{
		Registry:         msg.Registry,
		TransactionIndex: msg.TransactionIndex,
		Bump:             bump,
	}
	if msg.Draft {
		prop.SetStatus(StatusDraft, now.Unix())
	} else {
		prop.SetStatus(StatusActive, now.Unix())
	}
	if err := h.proposals.Put(db, addr.Bytes(), &prop); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("proposal", prop.Status.String()))
	return res, nil
}

func (h createHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermInitiate)
	if err != nil {
		return nil, err
	}
	if msg.TransactionIndex > reg.TransactionIndex {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d not created yet", msg.TransactionIndex)
	}
	if err := assertFresh(reg, msg.TransactionIndex); err != nil {
		return nil, err
	}
	addr, _, err := derive.Proposal(derive.ProgramID, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if h.proposals.Has(db, addr.Bytes()) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "proposal for transaction %d", msg.TransactionIndex)
	}
	return &msg, nil
}

type activateHandler struct {
	handlerBase
}

var _ squads.Handler = activateHandler{}

func (h activateHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg ActivateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermInitiate); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: voteCost}, nil
}

func (h activateHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg ActivateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermInitiate)
	if err != nil {
		return nil, err
	}
	if err := assertFresh(reg, msg.TransactionIndex); err != nil {
		return nil, err
	}
	prop, addr, err := h.loadProposal(db, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if prop.Status != StatusDraft {
		return nil, errors.Wrapf(errors.ErrState, "cannot activate a %s proposal", prop.Status)
	}
	now, err := squads.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	prop.SetStatus(StatusActive, now.Unix())
	if err := h.proposals.Put(db, addr.Bytes(), prop); err != nil {
		return nil, err
	}
	return &squads.DeliverResult{Data: addr.Bytes()}, nil
}

type approveHandler struct {
	handlerBase
}

var _ squads.Handler = approveHandler{}

func (h approveHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg ApproveMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: voteCost}, nil
}

func (h approveHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg ApproveMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, voter, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote)
	if err != nil {
		return nil, err
	}
	if err := assertFresh(reg, msg.TransactionIndex); err != nil {
		return nil, err
	}
	prop, addr, err := h.loadProposal(db, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if prop.Status != StatusActive {
		return nil, errors.Wrapf(errors.ErrState, "cannot approve a %s proposal", prop.Status)
	}
	if err := prop.Approve(voter); err != nil {
		return nil, err
	}

	// the deciding vote flips the status in the same transition
	if len(prop.Approved) >= int(reg.Threshold) {
		now, err := squads.BlockTime(ctx)
		if err != nil {
			return nil, err
		}
		prop.SetStatus(StatusApproved, now.Unix())
	}

	if err := h.proposals.Put(db, addr.Bytes(), prop); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("proposal", prop.Status.String()))
	return res, nil
}

type rejectHandler struct {
	handlerBase
}

var _ squads.Handler = rejectHandler{}

func (h rejectHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg RejectMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: voteCost}, nil
}

func (h rejectHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg RejectMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, voter, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote)
	if err != nil {
		return nil, err
	}
	if err := assertFresh(reg, msg.TransactionIndex); err != nil {
		return nil, err
	}
	prop, addr, err := h.loadProposal(db, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if prop.Status != StatusActive {
		return nil, errors.Wrapf(errors.ErrState, "cannot reject a %s proposal", prop.Status)
	}
	if err := prop.Reject(voter); err != nil {
		return nil, err
	}

	// once this many voters rejected, approval became impossible
	cutoff := reg.VotingCount() - int(reg.Threshold) + 1
	if len(prop.Rejected) >= cutoff {
		now, err := squads.BlockTime(ctx)
		if err != nil {
			return nil, err
		}
		prop.SetStatus(StatusRejected, now.Unix())
	}

	if err := h.proposals.Put(db, addr.Bytes(), prop); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("proposal", prop.Status.String()))
	return res, nil
}

type cancelHandler struct {
	handlerBase
}

var _ squads.Handler = cancelHandler{}

func (h cancelHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg CancelMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, _, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: voteCost}, nil
}

func (h cancelHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg CancelMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, voter, err := h.loadRegistry(ctx, db, msg.Registry, registry.PermVote)
	if err != nil {
		return nil, err
	}
	// cancelling stays possible for stale transactions, it only ever
	// prevents an execution
	prop, addr, err := h.loadProposal(db, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	if prop.Status != StatusApproved {
		return nil, errors.Wrapf(errors.ErrState, "cannot cancel a %s proposal", prop.Status)
	}
	if err := prop.Cancel(voter); err != nil {
		return nil, err
	}

	if len(prop.Cancelled) >= int(reg.Threshold) {
		now, err := squads.BlockTime(ctx)
		if err != nil {
			return nil, err
		}
		prop.SetStatus(StatusCancelled, now.Unix())
	}

	if err := h.proposals.Put(db, addr.Bytes(), prop); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("proposal", prop.Status.String()))
	return res, nil
}
