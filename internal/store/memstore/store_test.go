package memstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-manager-backend/internal/tasks"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestList_OrderedByDeadline(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, d := range []int{5, 1, 3, 3, 2} {
		_, err := s.Create(ctx, tasks.Task{Title: "t", Deadline: day(d)})
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)

	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Deadline.Before(list[i-1].Deadline), "index %d out of order", i)
		if list[i].Deadline.Equal(list[i-1].Deadline) {
			assert.Less(t, list[i-1].ID, list[i].ID)
		}
	}
}

func TestCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, tasks.Task{Title: "a", Deadline: day(1)})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "b"
	replaced, err := s.Replace(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "b", replaced.Title)

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, tasks.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, created.ID), tasks.ErrNotFound)
}

func TestMissingAndMalformedIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, tasks.ErrNotFound)

	_, err = s.Replace(ctx, tasks.Task{ID: uuid.NewString()})
	assert.ErrorIs(t, err, tasks.ErrNotFound)

	_, err = s.Get(ctx, "bogus")
	assert.ErrorIs(t, err, tasks.ErrInvalidID)
	assert.ErrorIs(t, s.Delete(ctx, "bogus"), tasks.ErrInvalidID)
}

func TestIDSpellings(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, tasks.Task{Title: "a", Deadline: day(1)})
	require.NoError(t, err)
	upper := strings.ToUpper(created.ID)

	got, err := s.Get(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got.ID = "{" + created.ID + "}"
	got.Completed = true
	replaced, err := s.Replace(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "replace must not add a second key")
	assert.True(t, list[0].Completed)

	require.NoError(t, s.Delete(ctx, upper))
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, tasks.ErrNotFound)
}

func TestConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, tasks.Task{Title: "x", Deadline: day(1)})
		}()
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
