package pgstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-manager-backend/internal/tasks"
)

func TestNew_QuotesTable(t *testing.T) {
	s := New(nil, "")
	assert.Equal(t, `"tasks"`, s.table)

	s = New(nil, `odd"name`)
	assert.Equal(t, `"odd""name"`, s.table)
}

func TestCanonicalID(t *testing.T) {
	id := uuid.NewString()

	for _, spelling := range []string{id, strings.ToUpper(id), "{" + id + "}", "urn:uuid:" + id} {
		got, err := canonicalID(spelling)
		require.NoError(t, err, spelling)
		assert.Equal(t, id, got, spelling)
	}

	_, err := canonicalID("65a1f0c2e4b0a1b2c3d4e5f6")
	assert.ErrorIs(t, err, tasks.ErrInvalidID)
}

func TestInvalidIDNeverReachesDatabase(t *testing.T) {
	// nil *sql.DB would panic if touched
	s := New(nil, "tasks")
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, tasks.ErrInvalidID)

	_, err = s.Replace(ctx, tasks.Task{ID: "nope"})
	assert.ErrorIs(t, err, tasks.ErrInvalidID)

	assert.ErrorIs(t, s.Delete(ctx, "nope"), tasks.ErrInvalidID)
}

func TestMapErr(t *testing.T) {
	castErr := &pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"}
	assert.ErrorIs(t, mapErr(castErr), tasks.ErrInvalidID)

	other := errors.New("connection refused")
	assert.Equal(t, other, mapErr(other))
}

func TestDocCodec(t *testing.T) {
	in := normalize(tasks.Task{
		ID:        uuid.NewString(),
		Title:     "Pay bills",
		Deadline:  time.Date(2025, 1, 1, 0, 0, 0, 999, time.UTC),
		Priority:  tasks.PriorityMedium,
		CreatedAt: time.Date(2024, 12, 31, 23, 0, 0, 0, time.FixedZone("X", 3600)),
	})

	raw, err := encodeDoc(in)
	require.NoError(t, err)

	out, err := decodeDoc(in.ID, raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, time.UTC, out.CreatedAt.Location())
}
