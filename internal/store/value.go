package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Value is one JSON document persisted under a storage key.
//
// Update runs read-modify-write under one mutex that is held until the
// backend write returns, so two mutations of the same key never interleave.
type Value[T any] struct {
	key     string
	backend Backend
	logger  *slog.Logger
	init    func() T
	clone   func(T) T

	mu      sync.RWMutex
	current T
	version uint64
}

// NewValue creates a Value holding init() until Load is called. clone must
// return a copy that shares no mutable state with its argument.
func NewValue[T any](key string, backend Backend, logger *slog.Logger, init func() T, clone func(T) T) *Value[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Value[T]{
		key:     key,
		backend: backend,
		logger:  logger,
		init:    init,
		clone:   clone,
		current: init(),
	}
}

func (v *Value[T]) Key() string {
	return v.key
}

// Load reads the stored document. Missing, unreadable or unparseable data
// leaves the initial value in place; the failure is logged, not returned.
func (v *Value[T]) Load(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = v.init()
	raw, ok, err := v.backend.Get(ctx, v.key)
	if err != nil {
		v.logger.Warn("load stored value", "key", v.key, "err", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	decoded := v.init()
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		v.logger.Warn("decode stored value", "key", v.key, "err", err)
		return
	}
	v.current = decoded
}

// Get returns a copy of the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.clone(v.current)
}

// Version counts successful in-memory replacements since construction.
func (v *Value[T]) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Update applies fn to a copy of the current value and saves the result.
// An error from fn aborts without touching state. A failed backend write
// still keeps the new value in memory and returns an error wrapping
// ErrPersist.
func (v *Value[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	next, err := fn(v.clone(v.current))
	if err != nil {
		return err
	}
	return v.saveLocked(ctx, next)
}

// Replace overwrites the whole value and persists it.
func (v *Value[T]) Replace(ctx context.Context, next T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.saveLocked(ctx, v.clone(next))
}

func (v *Value[T]) saveLocked(ctx context.Context, next T) error {
	v.current = next
	v.version++

	encoded, err := json.Marshal(next)
	if err != nil {
		v.logger.Error("encode value", "key", v.key, "err", err)
		return fmt.Errorf("encode %q: %w: %v", v.key, ErrPersist, err)
	}
	if err := v.backend.Put(ctx, v.key, string(encoded)); err != nil {
		v.logger.Error("persist value", "key", v.key, "err", err)
		return persistError(v.key, err)
	}
	return nil
}
