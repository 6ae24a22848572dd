package shared

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnetdev/signhelpers/codesign"
	"github.com/vnetdev/signhelpers/config"
	"github.com/vnetdev/signhelpers/lib/certstore"
)

func TestFlagValues(t *testing.T) {
	var chain ChainPolicyFlag
	require.NoError(t, chain.Set("leaf"))
	assert.Equal(t, codesign.OnlyLeafCertificate, chain.ChainPolicy)
	assert.Equal(t, "leaf", chain.String())
	assert.Error(t, chain.Set("most"))

	var store StoreNameFlag
	require.NoError(t, store.Set("CA"))
	assert.Equal(t, certstore.CertificateAuthority, store.StoreName)

	var location StoreLocationFlag
	require.NoError(t, location.Set("CurrentUser"))
	assert.Equal(t, certstore.CurrentUser, location.StoreLocation)
}

func TestSelectedStore(t *testing.T) {
	CurrentConfig = config.New()
	CurrentConfig.Defaults.Store = certstore.TrustedPublisher
	t.Cleanup(func() { CurrentConfig = nil })

	cmd := &cobra.Command{Use: "test"}
	AddSignFlags(cmd)
	AddStoreFlags(cmd)
	name, location := SelectedStore(cmd)
	assert.Equal(t, certstore.TrustedPublisher, name)
	assert.Equal(t, certstore.LocalMachine, location)
	assert.Len(t, SignOptions(cmd), 2)

	require.NoError(t, cmd.Flags().Parse([]string{"--location", "CurrentUser", "--chain", "chain", "-t", "http://ts.example.com"}))
	name, location = SelectedStore(cmd)
	assert.Equal(t, certstore.TrustedPublisher, name)
	assert.Equal(t, certstore.CurrentUser, location)
	assert.Len(t, SignOptions(cmd), 5)
}
