// Package crypto wraps the ed25519 key handling used to authenticate
// submissions. Keys are the 32 byte public keys native to the ledger,
// rendered in base58 for human exchange.
package crypto

import (
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/zcombinatorio/squads/errors"
)

// Signer produces detached signatures over arbitrary messages.
type Signer interface {
	Sign(msg []byte) (solana.Signature, error)
	PublicKey() solana.PublicKey
}

// PrivateKey is an ed25519 signing key.
type PrivateKey struct {
	key solana.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivateKey creates a fresh random key.
func GenPrivateKey() *PrivateKey {
	return &PrivateKey{key: solana.NewWallet().PrivateKey}
}

// PrivateKeyFromBase58 loads a key from its base58 encoding.
func PrivateKeyFromBase58(enc string) (*PrivateKey, error) {
	key, err := solana.PrivateKeyFromBase58(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PrivateKey{key: key}, nil
}

// Sign creates a detached signature over the message.
func (k *PrivateKey) Sign(msg []byte) (solana.Signature, error) {
	sig, err := k.key.Sign(msg)
	if err != nil {
		return solana.Signature{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	return sig, nil
}

// PublicKey returns the verifying half of the key.
func (k *PrivateKey) PublicKey() solana.PublicKey {
	return k.key.PublicKey()
}

// Verify reports whether sig is a valid signature of msg under pub.
func Verify(pub solana.PublicKey, msg []byte, sig solana.Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pub.Bytes()), msg, sig[:])
}

// ParsePublicKey decodes a base58 public key and validates its length.
func ParsePublicKey(enc string) (solana.PublicKey, error) {
	raw, err := base58.Decode(enc)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(errors.ErrInput, "base58: %v", err)
	}
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, errors.Wrapf(errors.ErrInput, "public key must be %d bytes, got %d", solana.PublicKeyLength, len(raw))
	}
	return solana.PublicKeyFromBytes(raw), nil
}
