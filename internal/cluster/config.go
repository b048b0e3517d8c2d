package cluster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Config describes this node's view of the cluster. It is built once at
// startup and passed explicitly to the components that need it; nothing in
// the process mutates it afterwards.
//
// Every node in a cluster must be configured with the identical ordered peer
// list, including itself. The owner of a key is derived from its position in
// that list, so two nodes with different lists (or the same list in a
// different order) will disagree about who owns which key. Validate checks
// everything that can be checked locally; the cross-node consistency
// requirement is on the operator.
type Config struct {
	// Peers is the ordered list of peer addresses (host:port), shared
	// verbatim across every node. Immutable for the process lifetime;
	// membership changes are not supported.
	Peers []string

	// Self is this node's own address and must appear in Peers.
	Self string

	// Listen is the local bind address, typically ":port" or
	// "0.0.0.0:port". It may differ from Self when the advertised
	// address is a hostname (e.g. a compose service name).
	Listen string
}

// SelfIndex returns the position of Self in the ordered peer list,
// or -1 if Self is not a member (Validate rejects that).
func (c Config) SelfIndex() int {
	return slices.Index(c.Peers, c.Self)
}

// Validate checks the locally-checkable invariants: a non-empty peer list
// with no blank or duplicate entries, self present in the list, and a bind
// address.
func (c Config) Validate() error {
	if len(c.Peers) == 0 {
		return errors.New("cluster: peer list is empty")
	}
	for i, p := range c.Peers {
		if p == "" {
			return fmt.Errorf("cluster: peer %d is empty", i)
		}
		if slices.Index(c.Peers, p) != i {
			return fmt.Errorf("cluster: duplicate peer %q", p)
		}
	}
	if !slices.Contains(c.Peers, c.Self) {
		return fmt.Errorf("cluster: self %q not in peer list", c.Self)
	}
	if c.Listen == "" {
		return errors.New("cluster: listen address is empty")
	}
	return nil
}

// Load builds the node configuration, preferring a YAML file named by
// SHARDKV_CONFIG and falling back to environment variables.
func Load() (Config, error) {
	if path := os.Getenv("SHARDKV_CONFIG"); path != "" {
		return FromFile(path)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables:
//
//   - PEERS: comma-separated ordered peer list, e.g.
//     "server1:8001,server2:8002,server3:8003" (required)
//   - PORT: local port (default: port of the first peer)
//   - NAME: advertised host name (default: "server" + PORT)
//   - SELF: full advertised address; overrides NAME:PORT composition
//   - LISTEN: bind address (default: "0.0.0.0:" + PORT)
//
// The NAME/PORT composition matches container deployments where each node is
// addressed by its service name; SELF exists for setups where the advertised
// address doesn't decompose that way.
func FromEnv() (Config, error) {
	peersEnv := os.Getenv("PEERS")
	if peersEnv == "" {
		return Config{}, errors.New("cluster: missing env PEERS")
	}

	peers := strings.Split(peersEnv, ",")
	for i := range peers {
		peers[i] = strings.TrimSpace(peers[i])
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = portOf(peers[0])
	}

	self := os.Getenv("SELF")
	if self == "" {
		name := os.Getenv("NAME")
		if name == "" {
			name = "server" + port
		}
		self = name + ":" + port
	}

	listen := os.Getenv("LISTEN")
	if listen == "" {
		listen = "0.0.0.0:" + port
	}

	cfg := Config{Peers: peers, Self: self, Listen: listen}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig is the YAML shape of a cluster configuration file.
type fileConfig struct {
	Peers  []string `yaml:"peers"`
	Self   string   `yaml:"self"`
	Listen string   `yaml:"listen"`
}

// FromFile builds a Config from a YAML file of the form:
//
//	peers:
//	  - server1:8001
//	  - server2:8002
//	  - server3:8003
//	self: server1:8001
//	listen: ":8001"
//
// listen defaults to ":" + the port of self when omitted.
func FromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cluster: read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("cluster: parse config: %w", err)
	}

	if fc.Listen == "" {
		fc.Listen = ":" + portOf(fc.Self)
	}

	cfg := Config{Peers: fc.Peers, Self: fc.Self, Listen: fc.Listen}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// portOf extracts the port from a host:port address, or returns the whole
// string if it has no colon.
func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}
