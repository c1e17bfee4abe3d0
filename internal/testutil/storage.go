// Package testutil provides shared test doubles and helpers.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// MemStorage is an in-memory storage.Provider with injectable failures.
type MemStorage struct {
	mu     sync.Mutex
	data   map[string][]byte
	puts   int
	GetErr error
	PutErr error
}

// NewMemStorage returns an empty MemStorage.
func NewMemStorage() *MemStorage {
	return &MemStorage{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("mem: get %s: %w", key, os.ErrNotExist)
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value.
func (m *MemStorage) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Delete removes key.
func (m *MemStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close is a no-op.
func (m *MemStorage) Close() error { return nil }

// Raw returns the stored bytes for key without copying errors in.
func (m *MemStorage) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// Set stores value directly, bypassing PutErr.
func (m *MemStorage) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Puts returns the number of successful Put calls.
func (m *MemStorage) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SeqIDs returns an id generator yielding id-1, id-2, ...
func SeqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
