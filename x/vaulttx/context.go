package vaulttx

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/x"
)

type contextKey int // local to this package

const (
	contextKeyExecution contextKey = iota
)

// withExecution is private, only the execution dispatcher may declare the
// derived identities it signs for.
func withExecution(ctx squads.Context, signers []solana.PublicKey) squads.Context {
	return context.WithValue(ctx, contextKeyExecution, signers)
}

// Authenticate exposes the derived identities the dispatcher signs for
// during an execution: the registry itself, the selected vault and the
// transaction's ephemeral signers. Chain it with the signature
// authenticator when wiring handlers, so an executed transaction can act
// as the vault.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns the identities of the current execution. May be
// empty.
func (a Authenticate) GetSigners(ctx squads.Context) []solana.PublicKey {
	val, _ := ctx.Value(contextKeyExecution).([]solana.PublicKey)
	return val
}

// HasSigner returns true if the dispatcher signs for the given key.
func (a Authenticate) HasSigner(ctx squads.Context, key solana.PublicKey) bool {
	for _, s := range a.GetSigners(ctx) {
		if s.Equals(key) {
			return true
		}
	}
	return false
}
