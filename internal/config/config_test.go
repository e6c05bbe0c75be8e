package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptobern/thetacrypt-sub001/internal/config"
	"github.com/stretchr/testify/require"
)

const validYAML = `
listen_address: "0.0.0.0:7000"
keyfile_path: "keys.json"
peers:
  - id: 0
    ip: "10.0.0.1"
    p2p_port: 9000
    rpc_port: 9001
  - id: 1
    ip: "10.0.0.2"
    p2p_port: 9000
    rpc_port: 9001
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:7000", cfg.ListenAddress)
	require.Len(t, cfg.Peers, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen_address")
	require.Contains(t, err.Error(), "keyfile_path")
	require.Contains(t, err.Error(), "peers")
}

func TestValidateRejectsDuplicatePeerIDs(t *testing.T) {
	cfg := &config.Config{
		ListenAddress: "0.0.0.0:7000",
		KeyfilePath:   "keys.json",
		Peers: []config.Peer{
			{ID: 0, IP: "10.0.0.1"},
			{ID: 0, IP: "10.0.0.2"},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate peer id")
}
