package partition

import "hash/fnv"

// Owner maps a key to the index of its owning peer in an ordered peer list
// of length numPeers.
//
// The mapping is a pure function of the key bytes: it hashes the key with
// FNV-1a and reduces modulo the peer count, so every node configured with the
// same ordered peer list resolves the same owner for the same key. That
// agreement is the load-bearing property of the whole routing scheme; the
// hash need not be stable across releases, only across the nodes of one
// running cluster.
//
// numPeers must be >= 1. An empty peer list is a configuration error and is
// rejected at startup (cluster.Config.Validate), never here.
//
// Changing the peer count remaps nearly all keys; there is no
// minimal-disruption guarantee and none is intended.
func Owner(key string, numPeers int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(numPeers))
}

// OwnerAddr resolves the owning peer's address for a key.
// peers must be non-empty (see Owner).
func OwnerAddr(key string, peers []string) string {
	return peers[Owner(key, len(peers))]
}
