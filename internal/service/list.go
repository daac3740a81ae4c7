package service

import (
	"context"
	"fmt"
	"time"

	"github.com/janghjun/healthlog/internal/store"
)

// namedList is an undated list of named items, removed by id. An item may
// carry several identity keys; two items sharing any key are the same entry.
type namedList[T any] struct {
	env
	noun     string
	value    *store.Value[[]T]
	identity func(T) []string
	idOf     func(T) string
	stamp    func(item T, id string, at time.Time) T
}

func newNamedList[T any](e env, backend store.Backend, key, noun string, identity func(T) []string, idOf func(T) string, stamp func(T, string, time.Time) T) *namedList[T] {
	return &namedList[T]{
		env:      e,
		noun:     noun,
		value:    store.NewValue(key, backend, e.logger, func() []T { return []T{} }, cloneSlice[T]),
		identity: identity,
		idOf:     idOf,
		stamp:    stamp,
	}
}

func (l *namedList[T]) items() []T {
	return l.value.Get()
}

// singleKey adapts a one-key identity function.
func singleKey[T any](key func(T) string) func(T) []string {
	return func(item T) []string {
		if k := key(item); k != "" {
			return []string{k}
		}
		return nil
	}
}

func (l *namedList[T]) sameEntry(keys []string, existing T) bool {
	for _, k := range l.identity(existing) {
		for _, want := range keys {
			if k == want {
				return true
			}
		}
	}
	return false
}

func (l *namedList[T]) find(item T) (T, bool) {
	keys := l.identity(item)
	for _, existing := range l.value.Get() {
		if l.sameEntry(keys, existing) {
			return existing, true
		}
	}
	var zero T
	return zero, false
}

// add appends item unless one of its identity keys is already present. The
// returned item is the stored one: the new entry, or the existing match.
func (l *namedList[T]) add(ctx context.Context, item T) (T, bool, error) {
	keys := l.identity(item)
	if len(keys) == 0 {
		var zero T
		return zero, false, &ValidationError{Op: "add " + l.noun, Field: "name"}
	}
	var stored T
	added := false
	err := l.value.Update(ctx, func(list []T) ([]T, error) {
		for _, existing := range list {
			if l.sameEntry(keys, existing) {
				stored = existing
				return nil, errNoChange
			}
		}
		id := l.idOf(item)
		if id == "" {
			id = l.newID()
		}
		stored = l.stamp(item, id, l.now().UTC())
		added = true
		return append(list, stored), nil
	})
	if err = ignoreNoChange(err); err != nil {
		return stored, added, fmt.Errorf("add %s: %w", l.noun, err)
	}
	return stored, added, nil
}

func (l *namedList[T]) remove(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	removed := false
	err := l.value.Update(ctx, func(list []T) ([]T, error) {
		kept := make([]T, 0, len(list))
		for _, item := range list {
			if l.idOf(item) == id {
				removed = true
				continue
			}
			kept = append(kept, item)
		}
		if !removed {
			return nil, errNoChange
		}
		return kept, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return removed, fmt.Errorf("remove %s: %w", l.noun, err)
	}
	return removed, nil
}

// toggle removes the entry matching item's identity, or adds item when none
// exists. It reports whether item is in the list afterwards.
func (l *namedList[T]) toggle(ctx context.Context, item T) (bool, error) {
	if existing, ok := l.find(item); ok {
		_, err := l.remove(ctx, l.idOf(existing))
		return false, err
	}
	_, _, err := l.add(ctx, item)
	if err != nil && IsValidation(err) {
		return false, err
	}
	return true, err
}
