package x

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system, rather than
// hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetSigners reveals all keys whose signatures were verified on the
	// current submission.
	GetSigners(squads.Context) []solana.PublicKey

	// HasSigner checks if the given key signed the current submission.
	HasSigner(squads.Context, solana.PublicKey) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetSigners combines all signers from all Authenticators.
func (m MultiAuth) GetSigners(ctx squads.Context) []solana.PublicKey {
	var res []solana.PublicKey
	for _, impl := range m.impls {
		res = append(res, impl.GetSigners(ctx)...)
	}
	return res
}

// HasSigner returns true iff any Authenticator supports this key.
func (m MultiAuth) HasSigner(ctx squads.Context, key solana.PublicKey) bool {
	for _, impl := range m.impls {
		if impl.HasSigner(ctx, key) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any, otherwise the zero key.
func MainSigner(ctx squads.Context, auth Authenticator) solana.PublicKey {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return solana.PublicKey{}
	}
	return signers[0]
}

// HasAllSigners returns true if all elements in required also signed the
// current submission.
func HasAllSigners(ctx squads.Context, auth Authenticator, required []solana.PublicKey) bool {
	for _, r := range required {
		if !auth.HasSigner(ctx, r) {
			return false
		}
	}
	return true
}

// HasNSigners returns true if at least n elements of requested also
// signed the current submission. Useful for threshold checks.
func HasNSigners(ctx squads.Context, auth Authenticator, requested []solana.PublicKey, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range requested {
		if auth.HasSigner(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
