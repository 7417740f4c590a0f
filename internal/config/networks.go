package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NetworkDefinitions models the structure of configs/networks.yaml.
type NetworkDefinitions struct {
	Networks map[string]NetworkDefinition `yaml:"networks"`
}

// NetworkDefinition describes the endpoints for one Hedera network.
type NetworkDefinition struct {
	JSONRPCURL    string `yaml:"json_rpc_url"`
	MirrorNodeURL string `yaml:"mirror_node_url"`
	Description   string `yaml:"description"`
}

// defaultNetworks covers the public Hedera environments via the Hashio relay.
var defaultNetworks = map[string]NetworkDefinition{
	"mainnet": {
		JSONRPCURL:    "https://mainnet.hashio.io/api",
		MirrorNodeURL: "https://mainnet-public.mirrornode.hedera.com",
	},
	"testnet": {
		JSONRPCURL:    "https://testnet.hashio.io/api",
		MirrorNodeURL: "https://testnet.mirrornode.hedera.com",
	},
	"previewnet": {
		JSONRPCURL:    "https://previewnet.hashio.io/api",
		MirrorNodeURL: "https://previewnet.mirrornode.hedera.com",
	},
}

// LoadNetworkDefinitions parses the YAML network file when provided and fills
// in the built-in defaults for any network it does not mention.
func LoadNetworkDefinitions(path string) (NetworkDefinitions, error) {
	defs := NetworkDefinitions{Networks: map[string]NetworkDefinition{}}
	for name, def := range defaultNetworks {
		defs.Networks[name] = def
	}

	if strings.TrimSpace(path) == "" {
		return defs, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return NetworkDefinitions{}, fmt.Errorf("read network definitions: %w", err)
	}

	var loaded NetworkDefinitions
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return NetworkDefinitions{}, fmt.Errorf("parse network definitions: %w", err)
	}
	for name, def := range loaded.Networks {
		defs.Networks[name] = def
	}
	return defs, nil
}

// Lookup returns the definition for the named network.
func (d NetworkDefinitions) Lookup(name string) (NetworkDefinition, error) {
	def, ok := d.Networks[name]
	if !ok {
		return NetworkDefinition{}, fmt.Errorf("no endpoints configured for network %q", name)
	}
	return def, nil
}
