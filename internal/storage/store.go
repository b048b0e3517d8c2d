package storage

import (
	"encoding/json"
	"sync"
)

// Store defines the interface for key-value storage
// All implementations must be thread-safe for concurrent access
type Store interface {
	// Get retrieves a value by key
	// The boolean reports whether the key was present
	Get(key string) (json.RawMessage, bool)

	// Set stores a value with the given key
	// Overwrites any existing value for the key
	Set(key string, value json.RawMessage)

	// Delete removes a key-value pair
	// Returns 1 if a pair was removed, 0 if the key was absent
	Delete(key string) int

	// Keys returns all keys in the store
	// Order is not guaranteed
	Keys() []string

	// Len returns the number of keys currently stored
	Len() int
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store with in-memory storage
// Uses sync.RWMutex for thread-safe concurrent access
type MemoryStore struct {
	mu   sync.RWMutex               // Protects concurrent access
	data map[string]json.RawMessage // Key-value storage
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]json.RawMessage),
	}
}

// Get retrieves a value by key
// Returns a copy of the value to prevent external modification
func (m *MemoryStore) Get(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.data[key]
	if !exists {
		return nil, false
	}

	// Return a copy to prevent external modification
	result := make(json.RawMessage, len(value))
	copy(result, value)
	return result, true
}

// Set stores a value with the given key
// Makes a copy of the value to prevent external modification
func (m *MemoryStore) Set(key string, value json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make a copy to prevent external modification
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	m.data[key] = stored
}

// Delete removes a key-value pair
// Returns the number of pairs removed: 1 if the key existed, 0 otherwise
func (m *MemoryStore) Delete(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return 0
	}
	delete(m.data, key)
	return 1
}

// Keys returns all keys in the store
// Returns a copy of the keys to prevent external modification
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of keys currently stored
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
