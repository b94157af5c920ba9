package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	d := &Diagram{
		ID:        "d1",
		Title:     "Pipeline",
		Spec:      "## Nodes\n- a | A\n",
		Format:    "svg",
		Artifact:  []byte("<svg/>"),
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Put(ctx, d))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, d.Title, got.Title)
	assert.Equal(t, d.Artifact, got.Artifact)

	// Stored records are isolated from caller mutations.
	d.Title = "mutated"
	got2, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Pipeline", got2.Title)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, &Diagram{ID: "d1"}))
	require.NoError(t, s.Delete(ctx, "d1"))

	_, err := s.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "d1"), ErrNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(ctx, &Diagram{
			ID:        fmt.Sprintf("d%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 0; i < len(got)-1; i++ {
		assert.True(t, !got[i].CreatedAt.Before(got[i+1].CreatedAt),
			"list not sorted newest first at %d", i)
	}

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "d4", limited[0].ID)
	assert.Equal(t, "d3", limited[1].ID)
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, &Diagram{ID: "d1", Title: "first"}))
	require.NoError(t, s.Put(ctx, &Diagram{ID: "d1", Title: "second"}))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)
}
