package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAt_EncodesTime(t *testing.T) {
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	parsed, err := ulid.Parse(NewAt(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())
}

func TestNew_SortsByCreation(t *testing.T) {
	early := NewAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := NewAt(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Less(t, early, late)
	assert.Len(t, New(), 26)
}
