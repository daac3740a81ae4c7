package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEachDateInclusive(t *testing.T) {
	t.Parallel()
	var got []string
	require.NoError(t, EachDate("2024-02-27", "2024-03-02", func(d string) { got = append(got, d) }))
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, got)
}

func TestEachDateSingleDay(t *testing.T) {
	t.Parallel()
	var got []string
	require.NoError(t, EachDate("2024-05-01", "2024-05-01", func(d string) { got = append(got, d) }))
	assert.Equal(t, []string{"2024-05-01"}, got)
}

func TestEachDateReversedRangeIsEmpty(t *testing.T) {
	t.Parallel()
	calls := 0
	require.NoError(t, EachDate("2024-05-02", "2024-05-01", func(string) { calls++ }))
	assert.Zero(t, calls)
}

func TestEachDateRejectsBadInput(t *testing.T) {
	t.Parallel()
	err := EachDate("2024/05/01", "2024-05-02", func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}
