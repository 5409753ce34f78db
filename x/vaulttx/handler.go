package vaulttx

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
	"github.com/zcombinatorio/squads/x"
	"github.com/zcombinatorio/squads/x/proposal"
	"github.com/zcombinatorio/squads/x/registry"
)

const (
	creationCost  int64 = 300
	executionCost int64 = 500
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The dispatcher carries the capabilities executed transactions
// may use.
func RegisterRoutes(r squads.Registry, auth x.Authenticator, d *Dispatcher) {
	r.Handle(&CreateMsg{}, createHandler{
		auth:         auth,
		transactions: NewBucket(),
		registries:   registry.NewBucket(),
	})
	r.Handle(&ExecuteMsg{}, executeHandler{
		auth:         auth,
		transactions: NewBucket(),
		registries:   registry.NewBucket(),
		proposals:    proposal.NewBucket(),
		dispatcher:   d,
	})
}

type createHandler struct {
	auth         x.Authenticator
	transactions orm.ModelBucket
	registries   orm.ModelBucket
}

var _ squads.Handler = createHandler{}

func (h createHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: creationCost}, nil
}

func (h createHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	msg, reg, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// claim the next index
	reg.TransactionIndex++
	index := reg.TransactionIndex

	txAddr, bump, err := derive.Transaction(derive.ProgramID, msg.Registry, index)
	if err != nil {
		return nil, err
	}
	_, vaultBump, err := derive.Vault(derive.ProgramID, msg.Registry, msg.VaultIndex)
	if err != nil {
		return nil, err
	}
	vtx := VaultTransaction{
		Registry:   msg.Registry,
		Creator:    creator,
		Index:      index,
		Bump:       bump,
		VaultIndex: msg.VaultIndex,
		VaultBump:  vaultBump,
		Message:    msg.Message,
	}
	for i := uint8(0); i < msg.EphemeralSigners; i++ {
		_, ephBump, err := derive.EphemeralSigner(derive.ProgramID, txAddr, i)
		if err != nil {
			return nil, err
		}
		vtx.EphemeralSignerBumps = append(vtx.EphemeralSignerBumps, ephBump)
	}

	if err := h.transactions.Put(db, txAddr.Bytes(), &vtx); err != nil {
		return nil, err
	}
	if err := h.registries.Put(db, msg.Registry.Bytes(), reg); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: txAddr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("transaction", txAddr.String()))
	return res, nil
}

func (h createHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*CreateMsg, *registry.Registry, solana.PublicKey, error) {
	var msg CreateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, nil, solana.PublicKey{}, err
	}
	var reg registry.Registry
	if err := h.registries.One(db, msg.Registry.Bytes(), &reg); err != nil {
		return nil, nil, solana.PublicKey{}, errors.Wrapf(err, "registry %s", msg.Registry)
	}
	for _, signer := range h.auth.GetSigners(ctx) {
		if reg.HasPermission(signer, registry.PermInitiate) {
			return &msg, &reg, signer, nil
		}
	}
	return nil, nil, solana.PublicKey{}, errors.Wrap(errors.ErrUnauthorized, "no signer may initiate")
}

type executeHandler struct {
	auth         x.Authenticator
	transactions orm.ModelBucket
	registries   orm.ModelBucket
	proposals    orm.ModelBucket
	dispatcher   *Dispatcher
}

var _ squads.Handler = executeHandler{}

func (h executeHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: executionCost}, nil
}

func (h executeHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	prepared, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// all instructions settle atomically: either the whole message is
	// applied, or the state is left untouched
	cache, canCache := db.(squads.CacheableKVStore)
	run := db
	var wrap squads.KVCacheWrap
	if canCache {
		wrap = cache.CacheWrap()
		run = wrap
	}

	execCtx := withExecution(ctx, prepared.identities)
	for i, ix := range prepared.instructions {
		if err := h.dispatcher.Execute(execCtx, run, ix); err != nil {
			if wrap != nil {
				wrap.Discard()
			}
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
	}

	now, err := squads.BlockTime(ctx)
	if err != nil {
		if wrap != nil {
			wrap.Discard()
		}
		return nil, err
	}
	prepared.proposal.SetStatus(proposal.StatusExecuted, now.Unix())
	if err := h.proposals.Put(run, prepared.proposalAddr.Bytes(), prepared.proposal); err != nil {
		if wrap != nil {
			wrap.Discard()
		}
		return nil, err
	}
	if wrap != nil {
		wrap.Write()
	}

	res := &squads.DeliverResult{Data: prepared.transactionAddr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("executed", prepared.transactionAddr.String()))
	return res, nil
}

// preparedExecution carries everything validate resolved, so Deliver does
// not resolve it twice.
type preparedExecution struct {
	proposal        *proposal.Proposal
	proposalAddr    solana.PublicKey
	transactionAddr solana.PublicKey
	instructions    []Instruction
	identities      []solana.PublicKey
}

func (h executeHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*preparedExecution, error) {
	var msg ExecuteMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}

	var reg registry.Registry
	if err := h.registries.One(db, msg.Registry.Bytes(), &reg); err != nil {
		return nil, errors.Wrapf(err, "registry %s", msg.Registry)
	}
	var allowed bool
	for _, signer := range h.auth.GetSigners(ctx) {
		if reg.HasPermission(signer, registry.PermExecute) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer may execute")
	}

	// staleness wins over every other failure mode, so a voided
	// transaction reports the reason it was voided
	if msg.TransactionIndex <= reg.StaleTransactionIndex {
		return nil, errors.Wrapf(errors.ErrStale, "transaction %d at or below cutoff %d", msg.TransactionIndex, reg.StaleTransactionIndex)
	}

	propAddr, _, err := derive.Proposal(derive.ProgramID, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	var prop proposal.Proposal
	if err := h.proposals.One(db, propAddr.Bytes(), &prop); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", msg.TransactionIndex)
	}
	if prop.Status != proposal.StatusApproved {
		return nil, errors.Wrapf(errors.ErrState, "cannot execute a %s proposal", prop.Status)
	}

	now, err := squads.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	if unlock := prop.StatusAt + int64(reg.TimeLock); now.Unix() < unlock {
		return nil, errors.Wrapf(errors.ErrState, "time locked until %d", unlock)
	}

	txAddr, _, err := derive.Transaction(derive.ProgramID, msg.Registry, msg.TransactionIndex)
	if err != nil {
		return nil, err
	}
	var vtx VaultTransaction
	if err := h.transactions.One(db, txAddr.Bytes(), &vtx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", msg.TransactionIndex)
	}

	// the identities the dispatcher signs for: the registry itself, the
	// selected vault, and the transaction's ephemeral signers
	identities := []solana.PublicKey{msg.Registry}
	vaultAddr, _, err := derive.Vault(derive.ProgramID, msg.Registry, vtx.VaultIndex)
	if err != nil {
		return nil, err
	}
	identities = append(identities, vaultAddr)
	for i := range vtx.EphemeralSignerBumps {
		eph, _, err := derive.EphemeralSigner(derive.ProgramID, txAddr, uint8(i))
		if err != nil {
			return nil, err
		}
		identities = append(identities, eph)
	}

	instructions, err := vtx.Message.Decompile()
	if err != nil {
		return nil, err
	}
	// a compiled message may only claim signatures of identities this
	// execution controls
	for i, ix := range instructions {
		for _, meta := range ix.Accounts {
			if !meta.IsSigner {
				continue
			}
			if !isIdentity(identities, meta.PublicKey) {
				return nil, errors.Wrapf(errors.ErrUnauthorized, "instruction %d claims a foreign signer %s", i, meta.PublicKey)
			}
		}
	}

	return &preparedExecution{
		proposal:        &prop,
		proposalAddr:    propAddr,
		transactionAddr: txAddr,
		instructions:    instructions,
		identities:      identities,
	}, nil
}

func isIdentity(identities []solana.PublicKey, key solana.PublicKey) bool {
	for _, id := range identities {
		if id.Equals(key) {
			return true
		}
	}
	return false
}
