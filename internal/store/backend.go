// Package store holds the persisted, date-keyed state of the tracker.
//
// Every domain keeps its data under one storage key as a JSON document. A
// Value owns one such key: it loads the document at startup, serves
// snapshots to readers and funnels every mutation through a single writer
// that persists the whole document before returning.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Backend is the key-value storage a Value persists into.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// ErrPersist marks a write that reached memory but not the backend.
var ErrPersist = errors.New("persist failed")

// Memory is an in-process Backend. FailPut and FailGet let tests simulate
// an unavailable device store.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]string
	FailPut error
	FailGet error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Put(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// SetFailPut swaps the injected write failure under the lock.
func (m *Memory) SetFailPut(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailPut = err
}

func persistError(key string, err error) error {
	return fmt.Errorf("write %q: %w: %v", key, ErrPersist, err)
}
