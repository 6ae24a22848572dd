package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/lib/certstore"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signhelpers.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
defaults:
  store: TrustedPublisher
  location: CurrentUser
  timestampUrl: http://timestamp.example.com
  chainPolicy: AddOnlyCertificate
storeRoot: /srv/stores
`), 0o644))
	config, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, config.Path())
	assert.Equal(t, certstore.TrustedPublisher, config.Defaults.Store)
	assert.Equal(t, certstore.CurrentUser, config.Defaults.Location)
	assert.Equal(t, "http://timestamp.example.com", config.Defaults.TimestampURL)
	assert.Equal(t, codesign.OnlyLeafCertificate, config.Defaults.ChainPolicy)
	assert.Equal(t, "/srv/stores", config.StoreRoot)
	assert.Len(t, config.SignOptions(), 3)
}

func TestParseDefaults(t *testing.T) {
	for _, data := range []string{"", "defaults: {}\n"} {
		config, err := Parse([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, certstore.My, config.Defaults.Store)
		assert.Equal(t, certstore.LocalMachine, config.Defaults.Location)
		assert.Equal(t, codesign.FullChainExceptRoot, config.Defaults.ChainPolicy)
		assert.Empty(t, config.Defaults.TimestampURL)
		assert.Len(t, config.SignOptions(), 2)
	}
}

func TestParseErrors(t *testing.T) {
	for _, data := range []string{
		"defaults:\n  chainPolicy: everything\n",
		"defaults:\n  store: Attic\n",
		"defaults:\n  location: Nowhere\n",
		"storeroot: /tmp\n",
		"defaults: [\n",
	} {
		_, err := Parse([]byte(data))
		assert.Error(t, err, data)
	}
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("SIGNHELPERS_CONFIG", "/etc/signhelpers.yml")
	assert.Equal(t, "/etc/signhelpers.yml", DefaultConfig())
	t.Setenv("SIGNHELPERS_CONFIG", "")
	if dir := DefaultDir(); dir != "" {
		assert.Equal(t, filepath.Join(dir, "signhelpers.yml"), DefaultConfig())
	}
}
