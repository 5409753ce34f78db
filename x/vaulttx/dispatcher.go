package vaulttx

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/x/token"
	"github.com/zcombinatorio/squads/x/vault"
)

// Capability applies instructions of one program. The dispatcher has
// already verified that every account flagged as signer is an identity it
// controls, so capabilities may trust the meta flags.
type Capability interface {
	Execute(ctx squads.Context, db squads.KVStore, ix Instruction) error
}

// Dispatcher routes decompiled instructions to capabilities by program
// ID. Programs without a capability cannot be executed.
type Dispatcher struct {
	caps map[solana.PublicKey]Capability
}

// NewDispatcher returns a dispatcher with no capabilities.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{caps: make(map[solana.PublicKey]Capability)}
}

// Register assigns a capability to a program ID. Registering the same
// program twice panics, as that is a setup error.
func (d *Dispatcher) Register(programID solana.PublicKey, c Capability) {
	if _, ok := d.caps[programID]; ok {
		panic("capability already registered for " + programID.String())
	}
	d.caps[programID] = c
}

// Execute runs one instruction. A capability failure is reported as an
// execution error with the cause in the message: the proposal stays
// approved and the caller may retry once the downstream state allows it.
func (d *Dispatcher) Execute(ctx squads.Context, db squads.KVStore, ix Instruction) error {
	c, ok := d.caps[ix.ProgramID]
	if !ok {
		return errors.Wrapf(errors.ErrExecution, "no capability for program %s", ix.ProgramID)
	}
	if err := c.Execute(ctx, db, ix); err != nil {
		if errors.ErrExecution.Is(err) {
			return err
		}
		return errors.Wrap(errors.ErrExecution, err.Error())
	}
	return nil
}

// ----- native transfers -----

// systemTransferOp is the operation tag of a transfer in the system
// program's instruction layout.
const systemTransferOp = 2

// NativeTransferCapability settles system program transfers against the
// native balance ledger.
type NativeTransferCapability struct {
	ctrl vault.Controller
}

var _ Capability = NativeTransferCapability{}

// NewNativeTransferCapability wires native transfers to the given ledger.
func NewNativeTransferCapability(ctrl vault.Controller) NativeTransferCapability {
	return NativeTransferCapability{ctrl: ctrl}
}

func (c NativeTransferCapability) Execute(ctx squads.Context, db squads.KVStore, ix Instruction) error {
	if len(ix.Data) != 12 {
		return errors.Wrap(errors.ErrExecution, "malformed system instruction")
	}
	if op := binary.LittleEndian.Uint32(ix.Data[:4]); op != systemTransferOp {
		return errors.Wrapf(errors.ErrExecution, "unsupported system operation %d", op)
	}
	if len(ix.Accounts) < 2 {
		return errors.Wrap(errors.ErrExecution, "transfer needs a source and a destination")
	}
	src, dest := ix.Accounts[0], ix.Accounts[1]
	if !src.IsSigner {
		return errors.Wrap(errors.ErrUnauthorized, "transfer source must sign")
	}
	lamports := binary.LittleEndian.Uint64(ix.Data[4:])
	return c.ctrl.Move(db, src.PublicKey, dest.PublicKey, lamports)
}

// NewNativeTransferInstruction builds a system program transfer for
// compilation into a vault transaction.
func NewNativeTransferInstruction(from, to solana.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[:4], systemTransferOp)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	return solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(from, true, true),
			solana.NewAccountMeta(to, true, false),
		},
		data,
	)
}

// ----- token operations -----

// Token program operation tags.
const (
	tokenTransferOp     = 3
	tokenSetAuthorityOp = 6
	tokenMintToOp       = 7
)

// TokenCapability settles token program instructions against the token
// book. Accounts are [mint, source owner, destination owner] for a
// transfer, [mint, authority, destination owner] for an issue and
// [mint, authority] for an authority handover.
type TokenCapability struct {
	ctrl token.Controller
}

var _ Capability = TokenCapability{}

// NewTokenCapability wires token operations to the given book.
func NewTokenCapability(ctrl token.Controller) TokenCapability {
	return TokenCapability{ctrl: ctrl}
}

func (c TokenCapability) Execute(ctx squads.Context, db squads.KVStore, ix Instruction) error {
	if len(ix.Data) == 0 {
		return errors.Wrap(errors.ErrExecution, "malformed token instruction")
	}
	switch op := ix.Data[0]; op {
	case tokenTransferOp:
		return c.transfer(db, ix)
	case tokenMintToOp:
		return c.mintTo(db, ix)
	case tokenSetAuthorityOp:
		return c.setAuthority(db, ix)
	default:
		return errors.Wrapf(errors.ErrExecution, "unsupported token operation %d", op)
	}
}

func (c TokenCapability) transfer(db squads.KVStore, ix Instruction) error {
	if len(ix.Data) != 9 {
		return errors.Wrap(errors.ErrExecution, "malformed token instruction")
	}
	if len(ix.Accounts) < 3 {
		return errors.Wrap(errors.ErrExecution, "transfer needs three accounts")
	}
	mint, src, dest := ix.Accounts[0], ix.Accounts[1], ix.Accounts[2]
	if !src.IsSigner {
		return errors.Wrap(errors.ErrUnauthorized, "transfer source owner must sign")
	}
	amount := binary.LittleEndian.Uint64(ix.Data[1:])
	return c.ctrl.Transfer(db, mint.PublicKey, src.PublicKey, dest.PublicKey, amount)
}

func (c TokenCapability) mintTo(db squads.KVStore, ix Instruction) error {
	if len(ix.Data) != 9 {
		return errors.Wrap(errors.ErrExecution, "malformed token instruction")
	}
	if len(ix.Accounts) < 3 {
		return errors.Wrap(errors.ErrExecution, "issue needs three accounts")
	}
	mint, authority, dest := ix.Accounts[0], ix.Accounts[1], ix.Accounts[2]
	if _, err := c.authorized(db, mint.PublicKey, authority); err != nil {
		return err
	}
	amount := binary.LittleEndian.Uint64(ix.Data[1:])
	return c.ctrl.MintTo(db, mint.PublicKey, dest.PublicKey, amount)
}

func (c TokenCapability) setAuthority(db squads.KVStore, ix Instruction) error {
	if len(ix.Data) != 2 && len(ix.Data) != 2+solana.PublicKeyLength {
		return errors.Wrap(errors.ErrExecution, "malformed token instruction")
	}
	if len(ix.Accounts) < 2 {
		return errors.Wrap(errors.ErrExecution, "authority handover needs the mint and its authority")
	}
	mint, authority := ix.Accounts[0], ix.Accounts[1]
	if _, err := c.authorized(db, mint.PublicKey, authority); err != nil {
		return err
	}
	var newAuthority *solana.PublicKey
	if ix.Data[1] == 1 {
		if len(ix.Data) != 2+solana.PublicKeyLength {
			return errors.Wrap(errors.ErrExecution, "malformed token instruction")
		}
		key := solana.PublicKeyFromBytes(ix.Data[2:])
		newAuthority = &key
	}
	return c.ctrl.SetAuthority(db, mint.PublicKey, newAuthority)
}

// authorized loads the mint and checks that the given account is its
// signing authority.
func (c TokenCapability) authorized(db squads.KVStore, mint solana.PublicKey, authority *solana.AccountMeta) (*token.Mint, error) {
	if !authority.IsSigner {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority must sign")
	}
	m, err := c.ctrl.Mint(db, mint)
	if err != nil {
		return nil, err
	}
	if m.Authority == nil || !m.Authority.Equals(authority.PublicKey) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not the mint authority")
	}
	return m, nil
}

// NewTokenTransferInstruction builds a token transfer for compilation
// into a vault transaction.
func NewTokenTransferInstruction(mint, srcOwner, destOwner solana.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = tokenTransferOp
	binary.LittleEndian.PutUint64(data[1:], amount)
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(mint, false, false),
			solana.NewAccountMeta(srcOwner, true, true),
			solana.NewAccountMeta(destOwner, true, false),
		},
		data,
	)
}

// NewTokenMintToInstruction builds a supply issue for compilation into a
// vault transaction.
func NewTokenMintToInstruction(mint, authority, destOwner solana.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = tokenMintToOp
	binary.LittleEndian.PutUint64(data[1:], amount)
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(mint, true, false),
			solana.NewAccountMeta(authority, false, true),
			solana.NewAccountMeta(destOwner, true, false),
		},
		data,
	)
}

// NewTokenSetAuthorityInstruction builds a mint authority handover for
// compilation into a vault transaction. A nil newAuthority permanently
// freezes issuance.
func NewTokenSetAuthorityInstruction(mint, authority solana.PublicKey, newAuthority *solana.PublicKey) solana.Instruction {
	data := make([]byte, 2, 2+solana.PublicKeyLength)
	data[0] = tokenSetAuthorityOp
	if newAuthority != nil {
		data[1] = 1
		data = append(data, newAuthority.Bytes()...)
	}
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(mint, true, false),
			solana.NewAccountMeta(authority, false, true),
		},
		data,
	)
}

// ----- engine messages -----

// engineInstruction frames a routed message inside an instruction
// payload.
type engineInstruction struct {
	Path    string
	Payload []byte
}

// EngineCapability lets an executed transaction submit messages back into
// the engine, acting as the identities the dispatcher signs for. This is
// how an autonomous registry reconfigures itself.
type EngineCapability struct {
	handler  squads.Handler
	decoders map[string]func() squads.Msg
}

var _ Capability = (*EngineCapability)(nil)

// NewEngineCapability routes embedded messages through the given handler,
// usually the application router.
func NewEngineCapability(h squads.Handler) *EngineCapability {
	return &EngineCapability{
		handler:  h,
		decoders: make(map[string]func() squads.Msg),
	}
}

// RegisterMsg declares a message type embeddable in vault transactions.
func (c *EngineCapability) RegisterMsg(newMsg func() squads.Msg) {
	path := newMsg().Path()
	if _, ok := c.decoders[path]; ok {
		panic("message already registered for path " + path)
	}
	c.decoders[path] = newMsg
}

func (c *EngineCapability) Execute(ctx squads.Context, db squads.KVStore, ix Instruction) error {
	var frame engineInstruction
	if err := bin.UnmarshalBorsh(&frame, ix.Data); err != nil {
		return errors.Wrap(errors.ErrExecution, "malformed engine instruction")
	}
	newMsg, ok := c.decoders[frame.Path]
	if !ok {
		return errors.Wrapf(errors.ErrExecution, "no embeddable message for path %q", frame.Path)
	}
	msg := newMsg()
	if err := msg.Unmarshal(frame.Payload); err != nil {
		return errors.Wrapf(errors.ErrExecution, "cannot unmarshal %q payload", frame.Path)
	}
	_, err := c.handler.Deliver(ctx, db, &innerTx{msg: msg})
	return err
}

// NewEngineInstruction wraps a message for compilation into a vault
// transaction. The signer accounts declare which derived identities the
// message needs.
func NewEngineInstruction(programID solana.PublicKey, msg squads.Msg, signers ...solana.PublicKey) (solana.Instruction, error) {
	payload, err := msg.Marshal()
	if err != nil {
		return nil, err
	}
	data, err := bin.MarshalBorsh(&engineInstruction{Path: msg.Path(), Payload: payload})
	if err != nil {
		return nil, err
	}
	metas := make(solana.AccountMetaSlice, 0, len(signers))
	for _, s := range signers {
		metas = append(metas, solana.NewAccountMeta(s, true, true))
	}
	return solana.NewInstruction(programID, metas, data), nil
}

// innerTx wraps a message routed by the engine capability. It is never
// signed itself, authorization comes from the execution context.
type innerTx struct {
	msg squads.Msg
}

var _ squads.Tx = (*innerTx)(nil)

func (tx *innerTx) GetMsg() (squads.Msg, error) {
	return tx.msg, nil
}

func (tx *innerTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *innerTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "inner transactions are never decoded")
}
