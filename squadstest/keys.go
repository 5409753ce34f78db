package squadstest

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/crypto"
)

// NewKey returns the public key of a fresh random keypair.
func NewKey() solana.PublicKey {
	return crypto.GenPrivateKey().PublicKey()
}

// SequentialKey returns a deterministic public key derived from the given
// byte. Use it when a test needs stable, distinguishable identities.
func SequentialKey(i byte) solana.PublicKey {
	var raw [solana.PublicKeyLength]byte
	for n := range raw {
		raw[n] = i
	}
	return solana.PublicKeyFromBytes(raw[:])
}
