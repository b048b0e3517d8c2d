// Package storage defines the key-value storage capability used by a shardkv
// node and provides the in-memory implementation backing every partition.
//
// # Overview
//
// The storage package is the leaf of the system: a concurrent mapping from
// string keys to raw JSON values. A node owns exactly one Store and serves its
// slice of the keyspace from it. The package knows nothing about peers,
// partitioning, or HTTP; those concerns live in the partition, forward, and
// server packages.
//
// # Core Interface
//
// Store: Basic key-value operations
//   - Get(key) - Retrieve a value by key, reporting presence
//   - Set(key, value) - Store or overwrite a key-value pair
//   - Delete(key) - Remove a pair, returning the removal count (1 or 0)
//   - Keys() - List all keys in the store
//   - Len() - Number of keys currently stored
//
// # Implementation
//
// MemoryStore: In-memory storage with sync.RWMutex
//   - O(1) get/set/delete
//   - No persistence (data lost on restart, by design)
//   - Values copied on the way in and out so callers can't alias the map
//
// # Concurrency and Thread Safety
//
// All operations are atomic with respect to each other: a reader never
// observes a partially applied write, and concurrent writers to the same key
// leave exactly one of the written values in place. The lock covers the whole
// map, which is coarse but cheap since every operation is O(1). There is no
// multi-key atomicity and no ordering guarantee between operations from
// different callers beyond the total order the lock grants.
//
// # Usage
//
//	store := storage.NewMemoryStore()
//	store.Set("user:1", json.RawMessage(`{"name":"Alice"}`))
//
//	value, ok := store.Get("user:1")
//	if !ok {
//		// key absent
//	}
//
//	removed := store.Delete("user:1") // 1
//	removed = store.Delete("user:1")  // 0
package storage
