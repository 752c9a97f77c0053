package store

import "strings"

// MemoryKV is an in-memory KV implementation for tests and ephemeral
// sessions.
type MemoryKV struct {
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory key-value store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string][]byte),
	}
}

// Get returns the value stored under key, or ErrKeyNotFound
func (m *MemoryKV) Get(key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	// Copy so callers can't mutate stored bytes
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes value under key
func (m *MemoryKV) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Remove deletes key; missing keys are a no-op
func (m *MemoryKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

// ListKeys returns every key with the given prefix
func (m *MemoryKV) ListKeys(prefix string) ([]string, error) {
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
