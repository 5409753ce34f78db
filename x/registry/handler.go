package registry

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
	"github.com/zcombinatorio/squads/x"
)

const (
	creationCost int64 = 300
	updateCost   int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The authenticator must include the dispatcher's registry
// identity so autonomous registries can reconfigure themselves through
// approved transactions.
func RegisterRoutes(r squads.Registry, auth x.Authenticator) {
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, createHandler{auth: auth, bucket: bucket})
	r.Handle(&AddMemberMsg{}, addMemberHandler{auth: auth, bucket: bucket})
	r.Handle(&RemoveMemberMsg{}, removeMemberHandler{auth: auth, bucket: bucket})
	r.Handle(&ChangeThresholdMsg{}, changeThresholdHandler{auth: auth, bucket: bucket})
	r.Handle(&SetConfigAuthorityMsg{}, setConfigAuthorityHandler{auth: auth, bucket: bucket})
	r.Handle(&SetTimeLockMsg{}, setTimeLockHandler{auth: auth, bucket: bucket})
	r.Handle(&SetRentCollectorMsg{}, setRentCollectorHandler{auth: auth, bucket: bucket})
}

type createHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
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

	_, bump, err := derive.Registry(derive.ProgramID, msg.CreateKey)
	if err != nil {
		return nil, err
	}
	reg := Registry{
		CreateKey:       msg.CreateKey,
		ConfigAuthority: msg.ConfigAuthority,
		Threshold:       msg.Threshold,
		TimeLock:        msg.TimeLock,
		RentCollector:   msg.RentCollector,
		Bump:            bump,
		Members:         nil,
	}
	for _, m := range msg.Members {
		if err := reg.AddMember(m); err != nil {
			return nil, err
		}
	}
	if err := h.bucket.Put(db, addr.Bytes(), &reg); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("registry", addr.String()))
	return res, nil
}

func (h createHandler) validate(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*CreateMsg, solana.PublicKey, error) {
	var msg CreateMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, solana.PublicKey{}, err
	}
	// the one-time key must sign, proving the creator controls the
	// derivation input
	if !h.auth.HasSigner(ctx, msg.CreateKey) {
		return nil, solana.PublicKey{}, errors.Wrap(errors.ErrUnauthorized, "create key did not sign")
	}
	addr, _, err := derive.Registry(derive.ProgramID, msg.CreateKey)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	if h.bucket.Has(db, addr.Bytes()) {
		return nil, solana.PublicKey{}, errors.Wrapf(errors.ErrDuplicate, "registry %s", addr)
	}
	return &msg, addr, nil
}

// loadForConfig fetches the registry and authorizes a configuration
// change. A registry with a config authority requires that key's
// signature. An autonomous registry requires its own derived address as
// signer, which only the execution dispatcher injects.
func loadForConfig(ctx squads.Context, db squads.KVStore, bucket orm.ModelBucket, auth x.Authenticator, addr solana.PublicKey) (*Registry, error) {
	var reg Registry
	if err := bucket.One(db, addr.Bytes(), &reg); err != nil {
		return nil, errors.Wrapf(err, "registry %s", addr)
	}
	if reg.IsAutonomous() {
		if !auth.HasSigner(ctx, addr) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "autonomous registry accepts config changes only through an approved transaction")
		}
	} else if !auth.HasSigner(ctx, reg.ConfigAuthority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "config authority did not sign")
	}
	return &reg, nil
}

// saveConfigChange persists a mutated registry after invalidating all
// transactions still in flight.
func saveConfigChange(db squads.KVStore, bucket orm.ModelBucket, addr solana.PublicKey, reg *Registry) (*squads.DeliverResult, error) {
	reg.InvalidateInFlight()
	if err := bucket.Put(db, addr.Bytes(), reg); err != nil {
		return nil, err
	}
	res := &squads.DeliverResult{Data: addr.Bytes()}
	res.Tags = append(res.Tags, squads.Pair("registry", addr.String()))
	return res, nil
}

type addMemberHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = addMemberHandler{}

func (h addMemberHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg AddMemberMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h addMemberHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg AddMemberMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	if err := reg.AddMember(msg.NewMember); err != nil {
		return nil, err
	}
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}

type removeMemberHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = removeMemberHandler{}

func (h removeMemberHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg RemoveMemberMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h removeMemberHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg RemoveMemberMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	if err := reg.RemoveMember(msg.Key); err != nil {
		return nil, err
	}
	// removing a voter may leave the threshold unreachable, cap it to
	// what is still satisfiable
	if voting := reg.VotingCount(); voting > 0 && int(reg.Threshold) > voting {
		reg.Threshold = uint16(voting)
	}
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}

type changeThresholdHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = changeThresholdHandler{}

func (h changeThresholdHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg ChangeThresholdMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h changeThresholdHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg ChangeThresholdMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	reg.Threshold = msg.Threshold
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}

type setConfigAuthorityHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = setConfigAuthorityHandler{}

func (h setConfigAuthorityHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg SetConfigAuthorityMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h setConfigAuthorityHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg SetConfigAuthorityMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	reg.ConfigAuthority = msg.NewAuthority
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}

type setTimeLockHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = setTimeLockHandler{}

func (h setTimeLockHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg SetTimeLockMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h setTimeLockHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg SetTimeLockMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	reg.TimeLock = msg.TimeLock
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}

type setRentCollectorHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ squads.Handler = setRentCollectorHandler{}

func (h setRentCollectorHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	var msg SetRentCollectorMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry); err != nil {
		return nil, err
	}
	return &squads.CheckResult{GasAllocated: updateCost}, nil
}

func (h setRentCollectorHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	var msg SetRentCollectorMsg
	if err := squads.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	reg, err := loadForConfig(ctx, db, h.bucket, h.auth, msg.Registry)
	if err != nil {
		return nil, err
	}
	reg.RentCollector = msg.RentCollector
	return saveConfigChange(db, h.bucket, msg.Registry, reg)
}
