package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/errors"
)

// signCodeV1 prefixes the bytes we use to build a signature, so sign
// bytes can never collide with another encoding of the same payload.
var signCodeV1 = []byte{0, 0x5D, 0xED, 0}

// VerifyTxSignatures checks all the signatures on the tx and updates the
// per-key sequence state. Returns the list of verified signer keys, or an
// error if any signature is invalid.
func VerifyTxSignatures(store squads.KVStore, tx SignedTx, chainID string) ([]solana.PublicKey, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}

	sigs := tx.GetSignatures()
	signers := make([]solana.PublicKey, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := verifySignature(store, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// verifySignature checks one signature against the sign bytes and
// increments the signer's sequence in the store.
func verifySignature(db squads.KVStore, sig StdSignature, signBytes []byte, chainID string) (solana.PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return solana.PublicKey{}, err
	}

	toSign := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if !crypto.Verify(sig.Pubkey, toSign, sig.Signature) {
		return solana.PublicKey{}, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	bucket := NewBucket()
	user, err := loadUser(db, bucket, sig.Pubkey.Bytes())
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return solana.PublicKey{}, err
	}
	if err := bucket.Put(db, sig.Pubkey.Bytes(), user); err != nil {
		return solana.PublicKey{}, err
	}
	return sig.Pubkey, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing:

	version | len(chainID) | chainID      | sequence           | signBytes
	4 bytes | uint8        | ascii string | uint64 (bigendian) | serialized payload

The result is prehashed with sha512 before being fed into ed25519, so
hardware signers always see a constant length input.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq uint64) []byte {
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, seq)

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, signCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:]
}

// SignTx creates a signature for the given tx, bound to the chain and the
// signer's sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq uint64) (StdSignature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return StdSignature{}, err
	}

	sig, err := signer.Sign(BuildSignBytes(signBytes, chainID, seq))
	if err != nil {
		return StdSignature{}, err
	}
	return StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
