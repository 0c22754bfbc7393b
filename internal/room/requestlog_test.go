package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogMembership(t *testing.T) {
	t.Parallel()

	l := newRequestLog(4)
	assert.False(t, l.Contains("a"))

	l.Add("a")
	assert.True(t, l.Contains("a"))
	assert.Equal(t, 1, l.Len())

	// Re-adding is a no-op.
	l.Add("a")
	assert.Equal(t, 1, l.Len())

	// Empty ids are never tracked.
	l.Add("")
	assert.False(t, l.Contains(""))
	assert.Equal(t, 1, l.Len())
}

func TestRequestLogEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	l := newRequestLog(3)
	l.Add("a")
	l.Add("b")
	l.Add("c")
	assert.Equal(t, 3, l.Len())

	// Capacity reached: the oldest entry goes first.
	l.Add("d")
	assert.False(t, l.Contains("a"))
	assert.True(t, l.Contains("b"))
	assert.True(t, l.Contains("d"))
	assert.Equal(t, 3, l.Len())

	l.Add("e")
	assert.False(t, l.Contains("b"))
	assert.True(t, l.Contains("c"))
}

func TestRequestLogSustainedChurn(t *testing.T) {
	t.Parallel()

	l := newRequestLog(10)
	for i := 0; i < 100; i++ {
		l.Add(fmt.Sprintf("req-%d", i))
	}
	assert.Equal(t, 10, l.Len())
	for i := 90; i < 100; i++ {
		assert.True(t, l.Contains(fmt.Sprintf("req-%d", i)))
	}
	assert.False(t, l.Contains("req-89"))
}
