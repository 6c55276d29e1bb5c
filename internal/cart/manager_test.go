package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetCreatesPerSession(t *testing.T) {
	m := NewManager(time.Hour)

	a := m.Get("sess-a")
	b := m.Get("sess-b")

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)
	assert.Same(t, a, m.Get("sess-a"))
	assert.Equal(t, 2, m.Len())
}

func TestManager_Close(t *testing.T) {
	m := NewManager(time.Hour)
	m.Get("sess-a")

	m.Close("sess-a")

	assert.Equal(t, 0, m.Len())
}

func TestManager_SweepEvictsIdleSessions(t *testing.T) {
	m := NewManager(time.Nanosecond)
	m.Get("sess-a")
	time.Sleep(time.Millisecond)

	evicted := m.sweep()

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SweepSkipsSessionsMidCheckout(t *testing.T) {
	m := NewManager(time.Nanosecond)
	s := m.Get("sess-a")
	require.True(t, s.BeginCheckout())
	time.Sleep(time.Millisecond)

	evicted := m.sweep()

	assert.Equal(t, 0, evicted)
	assert.Equal(t, 1, m.Len())
}
