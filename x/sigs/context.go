package sigs

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/x"
)

type contextKey int // local to this package

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, as only this package may declare a key signed.
func withSigners(ctx squads.Context, signers []solana.PublicKey) squads.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the verified signers to downstream handlers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current context. May be empty.
func (a Authenticate) GetSigners(ctx squads.Context) []solana.PublicKey {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]solana.PublicKey)
	return val
}

// HasSigner returns true if the given key signed the current context.
func (a Authenticate) HasSigner(ctx squads.Context, key solana.PublicKey) bool {
	for _, s := range a.GetSigners(ctx) {
		if s.Equals(key) {
			return true
		}
	}
	return false
}
