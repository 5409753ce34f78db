package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivateKey()
	msg := []byte("the ship's cargo manifest")

	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	assert.True(t, Verify(priv.PublicKey(), msg, sig))
	assert.False(t, Verify(priv.PublicKey(), []byte("tampered"), sig))

	other := GenPrivateKey()
	assert.False(t, Verify(other.PublicKey(), msg, sig))
}

func TestParsePublicKey(t *testing.T) {
	priv := GenPrivateKey()
	enc := priv.PublicKey().String()

	parsed, err := ParsePublicKey(enc)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey(), parsed)

	_, err = ParsePublicKey("not base58 at all!!")
	assert.Error(t, err)

	_, err = ParsePublicKey("abc")
	assert.Error(t, err)
}
