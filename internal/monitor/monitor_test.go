package monitor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus(t *testing.T) {
	s := NewService(Dependencies{
		SessionCount:   func() int { return 3 },
		EventQueueLen:  func() int { return 7 },
		IsStorageValid: func() bool { return true },
		StorageType:    "memory",
	})

	st := s.GetStatus()
	assert.Equal(t, 3, st.Sessions)
	assert.Equal(t, 7, st.EventQueueLen)
	assert.True(t, st.StorageValid)
	assert.Equal(t, "memory", st.StorageType)
	assert.GreaterOrEqual(t, st.UptimeSeconds, 0.0)
}

func TestGetStatus_NilDependencies(t *testing.T) {
	s := NewService(Dependencies{StorageType: "sqlite"})

	st := s.GetStatus()
	assert.Equal(t, 0, st.Sessions)
	assert.False(t, st.StorageValid)
}

func TestGetStatusJSON(t *testing.T) {
	s := NewService(Dependencies{
		SessionCount: func() int { return 1 },
		StorageType:  "memory",
	})

	var st Status
	require.NoError(t, json.Unmarshal([]byte(s.GetStatusJSON()), &st))
	assert.Equal(t, 1, st.Sessions)
}
