package x509tools

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrivateKey(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	sec1, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)
	pkcs8, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)
	for _, der := range [][]byte{sec1, pkcs8} {
		key, err := ParsePrivateKey(der)
		require.NoError(t, err)
		assert.True(t, SameKey(&ecKey.PublicKey, key))
	}

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(edKey)
	require.NoError(t, err)
	key, err := ParsePrivateKey(der)
	require.NoError(t, err)
	assert.False(t, SameKey(&ecKey.PublicKey, key))

	_, err = ParsePrivateKey([]byte("garbage"))
	assert.Error(t, err)
}
