package jobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore()
	require.NoError(t, err)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)

	created, err := s.Create("job1", "/maps/sheet.png")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get("job1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateDuplicateID(t *testing.T) {
	s := newStore(t)
	_, err := s.Create("job1", "a.png")
	require.NoError(t, err)
	_, err = s.Create("job1", "b.png")
	assert.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleTransitions(t *testing.T) {
	s := newStore(t)

	// A freshly created job is already observable as processing.
	job, err := s.Create("job1", "a.png")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, job.Status)

	got, err := s.Get("job1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)

	job, err = s.Complete("job1", `{"segments":[]}`)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, `{"segments":[]}`, job.ResultJSON)
}

func TestTerminalStatesAreImmutable(t *testing.T) {
	s := newStore(t)

	_, err := s.Create("done", "a.png")
	require.NoError(t, err)
	_, err = s.Complete("done", "{}")
	require.NoError(t, err)

	_, err = s.Fail("done", "boom")
	assert.ErrorIs(t, err, ErrJobTerminal)
	_, err = s.Complete("done", `{"other":1}`)
	assert.ErrorIs(t, err, ErrJobTerminal)

	got, err := s.Get("done")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "{}", got.ResultJSON)

	_, err = s.Create("failed", "b.png")
	require.NoError(t, err)
	job, err := s.Fail("failed", "detector unavailable")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "detector unavailable", job.Error)

	_, err = s.Complete("failed", "{}")
	assert.ErrorIs(t, err, ErrJobTerminal)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := newStore(t)
	_, err := s.Create("job1", "a.png")
	require.NoError(t, err)

	got, err := s.Get("job1")
	require.NoError(t, err)
	got.Status = StatusFailed

	fresh, err := s.Get("job1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, fresh.Status)
}

func TestByStatus(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Create(id, id+".png")
		require.NoError(t, err)
	}
	_, err := s.Complete("b", "{}")
	require.NoError(t, err)

	processing, err := s.ByStatus(StatusProcessing)
	require.NoError(t, err)
	assert.Len(t, processing, 2)

	completed, err := s.ByStatus(StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].ID)
}
