// Package config loads the environment spec.md §6 describes: a peer
// list, listen address, optional event file and proxy settings, read
// from a YAML file. Parsing itself is an external collaborator's job
// in the protocol this core implements; this package is the thin glue
// a cmd/ binary uses to get from a file path to a validated Config.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Peer is one entry of the peer list: id, network address, and the
// two ports spec.md §6 names (gossip/p2p and RPC).
type Peer struct {
	ID      uint32 `yaml:"id"`
	IP      string `yaml:"ip"`
	P2PPort uint16 `yaml:"p2p_port"`
	RPCPort uint16 `yaml:"rpc_port"`
}

// ProxyConfig configures the proxy-broadcast network shell, used when
// gossip is relayed through an external ordered-broadcast gateway
// instead of a direct libp2p mesh.
type ProxyConfig struct {
	GatewayAddr string `yaml:"gateway_addr"`
	ListenAddr  string `yaml:"listen_addr"`
}

// Config is the full environment a party process needs at startup.
type Config struct {
	Peers         []Peer       `yaml:"peers"`
	ListenAddress string       `yaml:"listen_address"`
	EventFile     string       `yaml:"event_file"`
	KeyfilePath   string       `yaml:"keyfile_path"`
	Proxy         *ProxyConfig `yaml:"proxy"`
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate aggregates every structural problem with the config rather
// than stopping at the first one, so a misconfigured peer list and a
// missing keyfile path are both reported in one error.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.ListenAddress == "" {
		result = multierror.Append(result, fmt.Errorf("config: listen_address is required"))
	}
	if c.KeyfilePath == "" {
		result = multierror.Append(result, fmt.Errorf("config: keyfile_path is required"))
	}
	if len(c.Peers) == 0 {
		result = multierror.Append(result, fmt.Errorf("config: peers must not be empty"))
	}
	seen := make(map[uint32]bool)
	for _, p := range c.Peers {
		if p.IP == "" {
			result = multierror.Append(result, fmt.Errorf("config: peer %d has no ip", p.ID))
		}
		if seen[p.ID] {
			result = multierror.Append(result, fmt.Errorf("config: duplicate peer id %d", p.ID))
		}
		seen[p.ID] = true
	}
	return result.ErrorOrNil()
}
