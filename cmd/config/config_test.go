package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleToml = `
admin = "0x00000000000000000000000000000000000000aa"
usdc = "USDC"

[ledger]
timestamp = 1710000000
sequence = 7

[[tokens]]
symbol = "XLM"
supply = 1000

[[tokens]]
symbol = "USDC"
supply = 2000

[[pools]]
kind = "soroswap"
token_a = "XLM"
token_b = "USDC"
reserve_a = 100
reserve_b = 10

[api]
port = 9000
`

const sampleYaml = `
admin: "0x00000000000000000000000000000000000000bb"
tokens:
  - symbol: XLM
    supply: 10
pools:
  - kind: comet
    token_a: XLM
    token_b: USDC
    reserve_a: 5
    reserve_b: 6
log:
  level: debug
`

func TestLoadString(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadString(sampleToml, cfg))

	assert.Equal(t, "0x00000000000000000000000000000000000000aa", cfg.Admin)
	assert.Equal(t, uint64(1710000000), cfg.Ledger.Timestamp)
	assert.Equal(t, uint32(7), cfg.Ledger.Sequence)
	require.Len(t, cfg.Tokens, 2)
	assert.Equal(t, "USDC", cfg.Tokens[1].Symbol)
	require.Len(t, cfg.Pools, 1)
	assert.Equal(t, &PoolConfig{Kind: "soroswap", TokenA: "XLM", TokenB: "USDC", ReserveA: 100, ReserveB: 10}, cfg.Pools[0])
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "0.0.0.0", cfg.API.Bind, "defaults survive")
	assert.Equal(t, "0.0.0.0:9000", cfg.BindAddress())
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hoops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYaml), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(path, cfg))
	assert.Equal(t, "0x00000000000000000000000000000000000000bb", cfg.Admin)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Pools, 1)
	assert.Equal(t, uint64(6), cfg.Pools[0].ReserveB)
	assert.Equal(t, 48000, cfg.API.Port)
}

func TestLoadReaderRejectsBrokenToml(t *testing.T) {
	assert.Error(t, LoadReader(strings.NewReader("admin = "), Default()))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HOOPS_API_PORT":        "7000",
		"HOOPS_LOG_LEVEL":       "warn",
		"HOOPS_LOG_DEVELOPMENT": "true",
		"HOOPS_HOLDERS":         "0x01, 0x02,",
		"OTHER_API_PORT":        "1",
	}
	lookup := func(k string) (string, bool) {
		v, has := env[k]
		return v, has
	}
	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, lookup))
	assert.Equal(t, 7000, cfg.API.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, []string{"0x01", "0x02"}, cfg.Holders)

	env["HOOPS_API_PORT"] = "port"
	assert.Error(t, ApplyEnv(cfg, lookup))
}

func TestLoadWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hoops.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleToml), 0o600))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("HOOPS_API_CACHE_SIZE=64\nHOOPS_USDC=EURC\n"), 0o600))

	cfg, err := Load(path, envPath, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.API.CacheSize)
	assert.Equal(t, "EURC", cfg.Usdc)
	assert.Equal(t, 9000, cfg.API.Port)
}
