package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testChainConfig struct {
	RpcServer string  `toml:"rpc_server" yaml:"rpc_server"`
	ChainId   string  `toml:"chain_id" yaml:"chain_id"`
	GasAdjust float64 `toml:"gas_adjustment" yaml:"gas_adjustment"`
}

type testConfig struct {
	Chain testChainConfig `toml:"chain" yaml:"chain"`
}

func TestTomlConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	in := testConfig{Chain: testChainConfig{RpcServer: "http://127.0.0.1:26657", ChainId: "cheqd-testnet-6", GasAdjust: 1.3}}

	require.NoError(t, WriteTomlConfig(in, path))

	var out testConfig
	require.NoError(t, LoadConfigFile(&out, path))
	require.Equal(t, in, out)
}

func TestLoadConfigFileYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "chain:\n  rpc_server: http://localhost:26657\n  chain_id: cheqd-mainnet-1\n  gas_adjustment: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	var out testConfig
	require.NoError(t, LoadConfigFile(&out, path))
	require.Equal(t, "cheqd-mainnet-1", out.Chain.ChainId)
	require.Equal(t, 2.0, out.Chain.GasAdjust)
}

func TestLoadTomlConfigMissingFile(t *testing.T) {
	var out testConfig
	require.Error(t, LoadTomlConfig(&out, filepath.Join(t.TempDir(), "missing.toml")))
}

func TestParseLogLevel(t *testing.T) {
	lv, err := ParseLogLevel("warn")
	require.NoError(t, err)
	require.Equal(t, Warn, lv)

	_, err = ParseLogLevel("verbose")
	require.Error(t, err)
}
