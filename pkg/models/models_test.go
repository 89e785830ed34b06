package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapValueAndScan(t *testing.T) {
	m := JSONMap{"entity": "page", "count": float64(3)}

	v, err := m.Value()
	require.NoError(t, err)

	var decoded JSONMap
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, m, decoded)
}

func TestJSONMapScanNil(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestJSONMapNilValue(t *testing.T) {
	var m JSONMap
	v, err := m.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestChangeTrackingLifecycle(t *testing.T) {
	change := &ChangeTracking{
		EntityType: "entry",
		EntityID:   NewEntryID().String(),
		Operation:  ChangeOperationUpdate,
		ChangedAt:  time.Now(),
	}
	assert.False(t, change.IsProcessed())

	change.MarkError("secondary store unreachable")
	assert.False(t, change.IsProcessed())
	assert.Equal(t, 1, change.RetryCount)

	change.MarkProcessed(time.Now())
	assert.True(t, change.IsProcessed())
	assert.Empty(t, change.ErrorMessage)
}
