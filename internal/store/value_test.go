package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cloneMap(in map[string][]int) map[string][]int {
	out := make(map[string][]int, len(in))
	for k, v := range in {
		out[k] = append([]int(nil), v...)
	}
	return out
}

func newMapValue(b Backend) *Value[map[string][]int] {
	return NewValue("numbers", b, discardLogger(), func() map[string][]int { return map[string][]int{} }, cloneMap)
}

func TestValueLoadMissingKeepsInitial(t *testing.T) {
	t.Parallel()
	v := newMapValue(NewMemory())
	v.Load(context.Background())
	assert.Empty(t, v.Get())
}

func TestValueLoadUnparseableKeepsInitial(t *testing.T) {
	t.Parallel()
	mem := NewMemory()
	require.NoError(t, mem.Put(context.Background(), "numbers", "{not json"))

	v := newMapValue(mem)
	v.Load(context.Background())
	assert.NotNil(t, v.Get())
	assert.Empty(t, v.Get())
}

func TestValueLoadBackendFailureKeepsInitial(t *testing.T) {
	t.Parallel()
	mem := NewMemory()
	mem.FailGet = errors.New("device storage unavailable")

	v := newMapValue(mem)
	v.Load(context.Background())
	assert.Empty(t, v.Get())
}

func TestValueUpdatePersistsAndReloads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := NewMemory()
	v := newMapValue(mem)

	require.NoError(t, v.Update(ctx, func(m map[string][]int) (map[string][]int, error) {
		m["2024-05-01"] = append(m["2024-05-01"], 1, 2)
		return m, nil
	}))
	assert.Equal(t, uint64(1), v.Version())

	raw, ok, err := mem.Get(ctx, "numbers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"2024-05-01":[1,2]}`, raw)

	reloaded := newMapValue(mem)
	reloaded.Load(ctx)
	assert.Equal(t, []int{1, 2}, reloaded.Get()["2024-05-01"])
}

func TestValueGetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	v := newMapValue(NewMemory())
	require.NoError(t, v.Replace(ctx, map[string][]int{"a": {1}}))

	snap := v.Get()
	snap["a"][0] = 99
	snap["b"] = []int{2}

	assert.Equal(t, map[string][]int{"a": {1}}, v.Get())
}

func TestValueUpdateErrorLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	v := newMapValue(NewMemory())
	boom := errors.New("invalid")

	err := v.Update(ctx, func(m map[string][]int) (map[string][]int, error) {
		m["x"] = []int{1}
		return m, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, v.Get())
	assert.Zero(t, v.Version())
}

func TestValueWriteFailureReportedButKeptInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := NewMemory()
	mem.FailPut = errors.New("disk full")
	v := newMapValue(mem)

	err := v.Update(ctx, func(m map[string][]int) (map[string][]int, error) {
		m["x"] = []int{1}
		return m, nil
	})
	require.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, []int{1}, v.Get()["x"])

	_, ok, err := mem.Get(ctx, "numbers")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValueConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	v := newMapValue(NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = v.Update(ctx, func(m map[string][]int) (map[string][]int, error) {
				m["day"] = append(m["day"], n)
				return m, nil
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, v.Get()["day"], 50)
	assert.Equal(t, uint64(50), v.Version())
}
