package squadstest

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/x"
)

// Auth is a mock implementing x.Authenticator interface. It authenticates
// the fixed set of keys given on construction.
type Auth struct {
	// Signer is declared as a signer of the context.
	Signer solana.PublicKey

	// Signers are declared as signers of the context. This is helpful
	// when a test needs more than one signer.
	Signers []solana.PublicKey
}

var _ x.Authenticator = (*Auth)(nil)

func (a *Auth) GetSigners(squads.Context) []solana.PublicKey {
	signers := a.Signers
	if !a.Signer.IsZero() {
		signers = append(signers, a.Signer)
	}
	return signers
}

func (a *Auth) HasSigner(ctx squads.Context, key solana.PublicKey) bool {
	for _, s := range a.GetSigners(ctx) {
		if s.Equals(key) {
			return true
		}
	}
	return false
}

// CtxAuth is an Authenticator that reads signers directly from the
// context, using the given key. Use SetSigners to store them.
type CtxAuth struct {
	Key string
}

var _ x.Authenticator = (*CtxAuth)(nil)

func (a *CtxAuth) SetSigners(ctx squads.Context, signers ...solana.PublicKey) squads.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetSigners(ctx squads.Context) []solana.PublicKey {
	val, _ := ctx.Value(ctxAuthKey(a.Key)).([]solana.PublicKey)
	return val
}

func (a *CtxAuth) HasSigner(ctx squads.Context, key solana.PublicKey) bool {
	for _, s := range a.GetSigners(ctx) {
		if s.Equals(key) {
			return true
		}
	}
	return false
}

type ctxAuthKey string
