package keyprovider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/types/environments"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

func newTestProvider(seed string) IKeyProvider {
	cfg := &config.AppConfig{
		Environment: environments.Test,
		Wallet:      config.WalletConfig{MasterSeed: seed},
	}
	return New(cfg, logger.New(environments.Test))
}

func TestResolvePrivateKey_Deterministic(t *testing.T) {
	for _, network := range model.AllNetworks() {
		network := network
		t.Run(network.String(), func(t *testing.T) {
			p1 := newTestProvider("test seed phrase")
			p2 := newTestProvider("test seed phrase")

			key1, err := p1.ResolvePrivateKey(network)
			require.NoError(t, err)
			key2, err := p2.ResolvePrivateKey(network)
			require.NoError(t, err)

			assert.NotEmpty(t, key1)
			assert.Equal(t, key1, key2)
		})
	}
}

func TestResolvePrivateKey_DiffersAcrossNetworksAndSeeds(t *testing.T) {
	p := newTestProvider("test seed phrase")
	other := newTestProvider("another seed phrase")

	seen := map[string]model.Network{}
	for _, network := range model.AllNetworks() {
		key, err := p.ResolvePrivateKey(network)
		require.NoError(t, err)
		if prev, ok := seen[key]; ok {
			t.Fatalf("networks %s and %s derived the same key", prev, network)
		}
		seen[key] = network

		otherKey, err := other.ResolvePrivateKey(network)
		require.NoError(t, err)
		assert.NotEqual(t, key, otherKey)
	}
}

func TestResolvePrivateKey_EnvOverrideWins(t *testing.T) {
	t.Setenv("TRON_PRIVATE_KEY", "deadbeefcafe")

	p := newTestProvider("test seed phrase")
	key, err := p.ResolvePrivateKey(model.NetworkTron)
	require.NoError(t, err)
	assert.Equal(t, "deadbeefcafe", key)

	// other networks still derive from the seed
	solKey, err := p.ResolvePrivateKey(model.NetworkSolana)
	require.NoError(t, err)
	assert.NotEqual(t, "deadbeefcafe", solKey)
}

func TestResolvePrivateKey_CachesFirstResolution(t *testing.T) {
	t.Setenv("MATIC_PRIVATE_KEY", "11223344")

	p := newTestProvider("test seed phrase")
	first, err := p.ResolvePrivateKey(model.NetworkPolygon)
	require.NoError(t, err)

	// a later env change does not affect an already resolved key
	t.Setenv("MATIC_PRIVATE_KEY", "55667788")
	second, err := p.ResolvePrivateKey(model.NetworkPolygon)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveMasterAddress_Formats(t *testing.T) {
	p := newTestProvider("test seed phrase")

	tron, err := p.ResolveMasterAddress(model.NetworkTron)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tron, "T"), "tron address %q should be base58check with 0x41 prefix", tron)

	polygon, err := p.ResolveMasterAddress(model.NetworkPolygon)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(polygon, "0x"))
	assert.Len(t, polygon, 42)

	solana, err := p.ResolveMasterAddress(model.NetworkSolana)
	require.NoError(t, err)
	assert.NotEmpty(t, solana)
	assert.False(t, strings.HasPrefix(solana, "0x"))
}

func TestResolveMasterAddress_EnvOverrideWins(t *testing.T) {
	t.Setenv("SOL_MASTER_ADDRESS", "SoMe11111111111111111111111111111111111111")

	p := newTestProvider("test seed phrase")
	addr, err := p.ResolveMasterAddress(model.NetworkSolana)
	require.NoError(t, err)
	assert.Equal(t, "SoMe11111111111111111111111111111111111111", addr)
}

func TestResolvePrivateKey_UnknownNetwork(t *testing.T) {
	p := newTestProvider("test seed phrase")

	_, err := p.ResolvePrivateKey(model.Network("DOGE"))
	require.Error(t, err)
	_, err = p.ResolveMasterAddress(model.Network("DOGE"))
	require.Error(t, err)
}
