// Package cluster holds the static cluster topology for a shardkv node: the
// ordered peer list, the node's own advertised address, and its bind address.
//
// # Topology model
//
// shardkv runs a fixed, symmetric set of peers — there is no coordinator, no
// registration, and no runtime membership change. Each node is configured at
// startup with the same ordered peer list, and key ownership is a pure
// function of that list (see the partition package). Because configuration is
// the only mechanism keeping the nodes in agreement, Config carries the
// invariant prominently: identical ordered peer lists on every node, or
// routing decisions diverge.
//
// # Sources
//
// Configuration comes from either environment variables (PEERS, PORT, NAME,
// SELF, LISTEN — the container-friendly path) or a YAML file named by
// SHARDKV_CONFIG. Both paths run the same validation and produce the same
// immutable Config value, which the caller passes explicitly to the server
// and forwarding components.
package cluster
