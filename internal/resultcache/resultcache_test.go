package resultcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPutGet(t *testing.T) {
	c := NewLRU(8, time.Minute)

	c.Put("job1", `{"segments":[]}`)
	got, ok := c.Get("job1")
	require.True(t, ok)
	assert.Equal(t, `{"segments":[]}`, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU(8, 30*time.Millisecond)
	c.Put("job1", "{}")

	_, ok := c.Get("job1")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("job1")
	assert.False(t, ok)
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU(2, time.Minute)
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("job%d", i), "{}")
	}
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("job0")
	assert.False(t, ok)
	_, ok = c.Get("job2")
	assert.True(t, ok)
}

func TestLRURemove(t *testing.T) {
	c := NewLRU(8, time.Minute)
	c.Put("job1", "{}")
	c.Remove("job1")
	_, ok := c.Get("job1")
	assert.False(t, ok)
}

func TestNewLRUDefaults(t *testing.T) {
	c := NewLRU(0, 0)
	c.Put("job1", "{}")
	_, ok := c.Get("job1")
	assert.True(t, ok)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Put("job1", "{}")
	_, ok := c.Get("job1")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	c.Remove("job1")
}
