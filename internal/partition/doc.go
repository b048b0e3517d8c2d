// Package partition implements the deterministic key-to-owner mapping that
// assigns every key to exactly one peer in a fixed, ordered peer list.
//
// The partition map is never materialized: ownership is derived on demand as
//
//	owner(key) = fnv1a(key) mod len(peers)
//
// which makes the resolver pure, total for any non-empty peer list, and free
// of shared state. All nodes in a cluster must run the same hash over the
// same ordered peer list or their routing decisions diverge (split-brain
// ownership); peer-list consistency is enforced at configuration time by the
// cluster package.
package partition
