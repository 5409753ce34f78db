/*
Package app assembles the engine: the message router, the decorator
stack, the execution dispatcher with its capabilities, and the genesis
initialization. It also defines the concrete signed transaction type.
*/
package app

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/x"
	"github.com/zcombinatorio/squads/x/batch"
	"github.com/zcombinatorio/squads/x/proposal"
	"github.com/zcombinatorio/squads/x/registry"
	"github.com/zcombinatorio/squads/x/sigs"
	"github.com/zcombinatorio/squads/x/spendlimit"
	"github.com/zcombinatorio/squads/x/token"
	"github.com/zcombinatorio/squads/x/utils"
	"github.com/zcombinatorio/squads/x/vault"
	"github.com/zcombinatorio/squads/x/vaulttx"
)

// Authenticator returns the authentication of the full application: the
// transaction's verified signatures, plus the derived identities the
// execution dispatcher signs for.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, vaulttx.Authenticate{})
}

// Stack wires the full engine: every route, the dispatcher capabilities
// and the decorator chain. The returned handler verifies signatures,
// recovers panics and makes every delivery atomic.
func Stack(auth x.Authenticator) squads.Handler {
	if auth == nil {
		auth = Authenticator()
	}
	funds := vault.NewController()
	tokens := token.NewController()

	router := NewRouter()

	// The engine capability routes messages embedded in executed vault
	// transactions back through the router, acting as the derived
	// identities the dispatcher signs for.
	dispatcher := vaulttx.NewDispatcher()
	dispatcher.Register(solana.SystemProgramID, vaulttx.NewNativeTransferCapability(funds))
	dispatcher.Register(solana.TokenProgramID, vaulttx.NewTokenCapability(tokens))
	engine := vaulttx.NewEngineCapability(router)
	for _, newMsg := range embeddableMessages() {
		engine.RegisterMsg(newMsg)
	}
	dispatcher.Register(derive.ProgramID, engine)

	registry.RegisterRoutes(router, auth)
	vault.RegisterRoutes(router, auth, funds)
	token.RegisterRoutes(router, auth, tokens)
	proposal.RegisterRoutes(router, auth)
	vaulttx.RegisterRoutes(router, auth, dispatcher)
	spendlimit.RegisterRoutes(router, auth, funds, tokens)

	// Signatures are verified once on the outer transaction; the batch
	// decorator below splits it into messages that share the signer set.
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		batch.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
}

// NewApp returns a ledger running the default stack over the given store.
func NewApp(db squads.CacheableKVStore, chainID string) *Ledger {
	return NewLedger(db, Stack(nil), chainID)
}

// FromGenesis runs every extension's initializer against the raw genesis
// document.
func FromGenesis(raw []byte, db squads.KVStore) error {
	var opts squads.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot parse genesis")
	}
	inits := []squads.Initializer{
		registry.Initializer{},
		vault.Initializer{},
	}
	for _, init := range inits {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}

// messages lists every message type the engine routes, used to decode
// transactions and batches from the wire.
func messages() []func() squads.Msg {
	return []func() squads.Msg{
		func() squads.Msg { return &registry.CreateMsg{} },
		func() squads.Msg { return &registry.AddMemberMsg{} },
		func() squads.Msg { return &registry.RemoveMemberMsg{} },
		func() squads.Msg { return &registry.ChangeThresholdMsg{} },
		func() squads.Msg { return &registry.SetConfigAuthorityMsg{} },
		func() squads.Msg { return &registry.SetTimeLockMsg{} },
		func() squads.Msg { return &registry.SetRentCollectorMsg{} },
		func() squads.Msg { return &vault.TransferMsg{} },
		func() squads.Msg { return &token.CreateMintMsg{} },
		func() squads.Msg { return &token.TransferMsg{} },
		func() squads.Msg { return &token.MintToMsg{} },
		func() squads.Msg { return &token.SetAuthorityMsg{} },
		func() squads.Msg { return &proposal.CreateMsg{} },
		func() squads.Msg { return &proposal.ActivateMsg{} },
		func() squads.Msg { return &proposal.ApproveMsg{} },
		func() squads.Msg { return &proposal.RejectMsg{} },
		func() squads.Msg { return &proposal.CancelMsg{} },
		func() squads.Msg { return &vaulttx.CreateMsg{} },
		func() squads.Msg { return &vaulttx.ExecuteMsg{} },
		func() squads.Msg { return &spendlimit.CreateMsg{} },
		func() squads.Msg { return &spendlimit.RemoveMsg{} },
		func() squads.Msg { return &spendlimit.UseMsg{} },
	}
}

// embeddableMessages lists the message types a vault transaction may
// carry back into the engine: configuration changes, fund movements and
// mint administration, authorized by the execution itself.
func embeddableMessages() []func() squads.Msg {
	return []func() squads.Msg{
		func() squads.Msg { return &registry.AddMemberMsg{} },
		func() squads.Msg { return &registry.RemoveMemberMsg{} },
		func() squads.Msg { return &registry.ChangeThresholdMsg{} },
		func() squads.Msg { return &registry.SetConfigAuthorityMsg{} },
		func() squads.Msg { return &registry.SetTimeLockMsg{} },
		func() squads.Msg { return &registry.SetRentCollectorMsg{} },
		func() squads.Msg { return &vault.TransferMsg{} },
		func() squads.Msg { return &token.TransferMsg{} },
		func() squads.Msg { return &token.MintToMsg{} },
		func() squads.Msg { return &token.SetAuthorityMsg{} },
		func() squads.Msg { return &spendlimit.CreateMsg{} },
		func() squads.Msg { return &spendlimit.RemoveMsg{} },
	}
}

func init() {
	for _, newMsg := range messages() {
		registerTxMsg(newMsg)
		batch.RegisterMsg(newMsg)
	}
	// Batches do not nest, so the batch message is only decodable at the
	// transaction level.
	registerTxMsg(func() squads.Msg { return &batch.ExecuteBatchMsg{} })
}
