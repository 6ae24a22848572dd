package certstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/vnetdev/signhelpers/internal/testcerts"
	"github.com/vnetdev/signhelpers/lib/x509tools"
)

func TestStoreNames(t *testing.T) {
	for _, s := range []string{"CA", "ca", "CertificateAuthority"} {
		n, err := ParseStoreName(s)
		require.NoError(t, err)
		assert.Equal(t, CertificateAuthority, n)
	}
	assert.Equal(t, "CA", CertificateAuthority.SystemName())
	assert.Equal(t, "MY", StoreName(0).SystemName())
	assert.Equal(t, "My", My.String())
	assert.Equal(t, "StoreName(42)", StoreName(42).String())
	assert.Equal(t, "", StoreName(42).SystemName())
	_, err := ParseStoreName("Bogus")
	assert.Error(t, err)

	var n StoreName
	require.NoError(t, n.UnmarshalText([]byte("trustedpublisher")))
	assert.Equal(t, TrustedPublisher, n)
}

func TestStoreLocations(t *testing.T) {
	l, err := ParseStoreLocation("currentuser")
	require.NoError(t, err)
	assert.Equal(t, CurrentUser, l)
	assert.Equal(t, LocalMachine, StoreLocation(0))
	_, err = ParseStoreLocation("elsewhere")
	assert.Error(t, err)

	key := LookupKey{Name: My, Location: LocalMachine, Thumbprint: "AB"}
	assert.Equal(t, `LocalMachine\My`, key.StorePath())
	key = LookupKey{Name: Root, Location: CurrentUser}
	assert.Equal(t, `CurrentUser\Root`, key.StorePath())
}

func writeFile(t *testing.T, path string, data ...[]byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var blob []byte
	for _, d := range data {
		blob = append(blob, d...)
	}
	require.NoError(t, os.WriteFile(path, blob, 0o600))
}

func TestDirStore(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "LocalMachine", "My")
	withKey := testcerts.New(t, "with key", testcerts.CodeSigning)
	noKey := testcerts.New(t, "no key", testcerts.CodeSigning)
	writeFile(t, filepath.Join(dir, "a.pem"), withKey.CertPEM(), withKey.KeyPEM(t))
	writeFile(t, filepath.Join(dir, "b.crt"), noKey.CertPEM())
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not a certificate"))

	store, err := DirStore{Root: root}.Open(My, LocalMachine)
	require.NoError(t, err)
	certs, err := store.Certificates()
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, x509tools.Thumbprint(withKey.Leaf), certs[0].Thumbprint())
	assert.True(t, certs[0].HasPrivateKey())
	assert.Equal(t, x509tools.Thumbprint(noKey.Leaf), certs[1].Thumbprint())
	assert.False(t, certs[1].HasPrivateKey())
	assert.Zero(t, certs[0].NativeHandle())
	CloseAll(certs)
	require.NoError(t, store.Close())
	_, err = store.Certificates()
	assert.Error(t, err)

	// a store nobody created is empty
	store, err = DirStore{Root: root}.Open(TrustedPeople, CurrentUser)
	require.NoError(t, err)
	certs, err = store.Certificates()
	require.NoError(t, err)
	assert.Empty(t, certs)

	_, err = DirStore{}.Open(My, LocalMachine)
	assert.Error(t, err)
}

func TestDirStoreBadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "LocalMachine", "My", "broken.pem"), []byte("garbage"))
	store, err := DirStore{Root: root}.Open(My, LocalMachine)
	require.NoError(t, err)
	_, err = store.Certificates()
	assert.ErrorIs(t, err, ErrNoCerts)
}

func TestDirStorePKCS12(t *testing.T) {
	keyring.MockInit()
	cs := testcerts.New(t, "pfx", testcerts.CodeSigning)
	pfx, err := pkcs12.Modern.Encode(cs.Key, cs.Leaf, nil, "hunter2")
	require.NoError(t, err)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "CurrentUser", "My", "release.pfx"), pfx)

	// no keyring entry means an empty password, which is wrong here
	store, err := OpenDir(root)(My, CurrentUser)
	require.NoError(t, err)
	_, err = store.Certificates()
	require.Error(t, err)

	require.NoError(t, keyring.Set(KeyringService, "release.pfx", "hunter2"))
	certs, err := store.Certificates()
	require.NoError(t, err)
	require.Len(t, certs, 1)
	defer CloseAll(certs)
	assert.Equal(t, x509tools.Thumbprint(cs.Leaf), certs[0].Thumbprint())
	assert.True(t, certs[0].HasPrivateKey())
}

func TestParseBundle(t *testing.T) {
	a := testcerts.New(t, "a", testcerts.CodeSigning)
	b := testcerts.New(t, "b", testcerts.CodeSigning)

	cert, err := ParseBundle(a.Leaf.Raw)
	require.NoError(t, err)
	assert.Equal(t, "a", cert.Leaf().Subject.CommonName)
	assert.False(t, cert.HasPrivateKey())

	cert, err = ParseBundle(append(append(a.CertPEM(), b.CertPEM()...), a.KeyPEM(t)...))
	require.NoError(t, err)
	assert.True(t, cert.HasPrivateKey())
	require.Len(t, cert.Chain(), 1)
	assert.Equal(t, "b", cert.Chain()[0].Subject.CommonName)

	_, err = ParseBundle(append(a.CertPEM(), b.KeyPEM(t)...))
	assert.Error(t, err)

	_, err = ParseBundle(a.KeyPEM(t))
	assert.ErrorIs(t, err, ErrNoCerts)
}

func TestNativeCertificateClose(t *testing.T) {
	leaf := testcerts.New(t, "native", testcerts.CodeSigning).Leaf
	frees := 0
	cert := NewNative(leaf.Raw, true, 0x1234, func() error {
		frees++
		return nil
	})
	assert.Equal(t, uintptr(0x1234), cert.NativeHandle())
	assert.Equal(t, x509tools.Thumbprint(leaf), cert.Thumbprint())
	assert.True(t, cert.HasPrivateKey())
	require.NoError(t, cert.Close())
	require.NoError(t, cert.Close())
	assert.Equal(t, 1, frees)
	assert.Zero(t, cert.NativeHandle())

	var missing *Certificate
	assert.NoError(t, missing.Close())
	assert.Empty(t, missing.Thumbprint())
}
