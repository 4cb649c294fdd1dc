package utils

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	id, err := New().NewULIDFromTimestamp(at)
	require.NoError(t, err)
	require.Len(t, id, 26)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, at.UnixMilli(), ulid.Time(parsed.Time()).UnixMilli())

	later, err := New().NewULIDFromTimestamp(at.Add(time.Millisecond))
	require.NoError(t, err)
	require.Less(t, id, later)
}
